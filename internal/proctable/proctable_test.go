package proctable

import (
	"os"
	"testing"
)

func TestAlive_CurrentProcess(t *testing.T) {
	t.Parallel()

	alive, err := Alive(os.Getpid())
	if err != nil {
		t.Fatalf("Alive: %v", err)
	}
	if !alive {
		t.Fatal("current process should be alive")
	}
}

func TestAlive_ImplausiblePid(t *testing.T) {
	t.Parallel()

	// PID max on Linux is bounded well below this value.
	alive, err := Alive(1 << 30)
	if err != nil {
		t.Fatalf("Alive: %v", err)
	}
	if alive {
		t.Fatal("implausible pid should not be alive")
	}
}
