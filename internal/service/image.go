package service

import (
	"strings"

	"github.com/giantswarm/svcctl/internal/sentinel"
)

// executableExtension terminates the greedy executable scan when parsing an
// image path whose executable contains unescaped spaces. The format comes
// from the service manager's configuration store, where executables
// conventionally carry this extension.
const executableExtension = ".exe"

// ErrEmptyImagePath is returned by ParseImagePath for blank input.
const ErrEmptyImagePath = sentinel.Error("empty image path")

// ImagePath is a service's configured image: the executable to launch and
// its raw argument string.
type ImagePath struct {
	Executable string
	Arguments  string
}

// IsZero reports whether the image is unset.
func (ip ImagePath) IsZero() bool {
	return ip.Executable == "" && ip.Arguments == ""
}

// String serializes the image as the configuration store expects it: the
// executable path, quoted if it contains spaces, followed by a space and the
// raw argument string.
func (ip ImagePath) String() string {
	exe := ip.Executable
	if strings.ContainsRune(exe, ' ') {
		exe = `"` + exe + `"`
	}
	if ip.Arguments == "" {
		return exe
	}
	return exe + " " + ip.Arguments
}

// ParseImagePath parses a serialized image back into executable and
// arguments. A quoted leading token is the executable verbatim. Unquoted
// input must tolerate executables with unescaped spaces, so tokens are
// accumulated greedily until one ends in the executable extension; if none
// does, the first token alone is taken as the executable.
func ParseImagePath(s string) (ImagePath, error) {
	tokens := splitQuoted(s)
	if len(tokens) == 0 {
		return ImagePath{}, ErrEmptyImagePath
	}

	if tokens[0].quoted {
		return ImagePath{
			Executable: tokens[0].text,
			Arguments:  joinQuoted(tokens[1:]),
		}, nil
	}

	cut := 0 // index of the last token belonging to the executable
	for i, tok := range tokens {
		if tok.quoted {
			break
		}
		if strings.HasSuffix(strings.ToLower(tok.text), executableExtension) {
			cut = i
			break
		}
	}

	exeTokens := make([]string, 0, cut+1)
	for _, tok := range tokens[:cut+1] {
		exeTokens = append(exeTokens, tok.text)
	}
	return ImagePath{
		Executable: strings.Join(exeTokens, " "),
		Arguments:  joinQuoted(tokens[cut+1:]),
	}, nil
}

// token is one command-line token and whether it was double-quoted.
type token struct {
	text   string
	quoted bool
}

// splitQuoted splits a command line into tokens, honoring double quotes.
// Quotes group spaces into one token and are stripped; an unterminated
// quote runs to the end of the input.
func splitQuoted(s string) []token {
	var tokens []token
	var b strings.Builder
	inQuote := false
	sawQuote := false
	flush := func() {
		if b.Len() > 0 || sawQuote {
			tokens = append(tokens, token{text: b.String(), quoted: sawQuote})
			b.Reset()
			sawQuote = false
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			sawQuote = true
		case r == ' ' && !inQuote:
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// joinQuoted reassembles tokens into an argument string, re-quoting any
// token that contains a space so the result round-trips through splitQuoted.
// Quotes are plain wrapping, not escaping, matching the store's format.
func joinQuoted(tokens []token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if strings.ContainsRune(tok.text, ' ') || (tok.quoted && tok.text == "") {
			parts = append(parts, `"`+tok.text+`"`)
		} else {
			parts = append(parts, tok.text)
		}
	}
	return strings.Join(parts, " ")
}
