// Package svcctl coordinates OS resources that outlive a single function
// call: child processes, OS-managed background services, and cross-process
// file locks.
//
// # Managed Processes
//
//	import "github.com/giantswarm/svcctl"
//
//	ctx := context.Background()
//
//	p, err := svcctl.Spawn(svcctl.ProcessSpec{
//	    Path:    "/usr/bin/worker",
//	    Args:    []string{"--once"},
//	    Timeout: 30 * time.Second, // watchdog kills the process after this
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	if err := p.WaitExitCode(ctx, 0); err != nil {
//	    log.Fatal(err, p.Stderr())
//	}
//
// # Services
//
// Service handles are views onto state owned by the OS service manager;
// status is re-queried before every decision and never cached.
//
//	store, err := svcctl.OpenConfigStore(ctx, "/var/lib/svcctl/config.db", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	deps := svcctl.ServiceDeps{
//	    Manager: &svcctl.ToolManager{Tool: &svcctl.ControlTool{Path: "sc"}},
//	    Store:   store,
//	}
//	svc, err := svcctl.OpenService(ctx, "agent", deps)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := svc.Start(ctx, time.Minute); err != nil {
//	    log.Fatal(err)
//	}
//
// # File Locks
//
// Lock files hold the owning process ID so that locks orphaned by a crashed
// process are detected and reclaimed by waiters.
//
//	lock := svcctl.NewLockFile("/var/run/app.lock", svcctl.LockConfig{})
//	if err := lock.Wait(ctx, true); err != nil {
//	    log.Fatal(err)
//	}
//	defer lock.Release()
package svcctl
