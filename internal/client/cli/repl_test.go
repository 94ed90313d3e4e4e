package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	urls  []string
}

func (f *fakeExec) isLoggedIn(context.Context) bool { return f.loggedIn }
func (f *fakeExec) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Whoami(context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) Token(context.Context) error {
	f.calls = append(f.calls, "token")
	return nil
}
func (f *fakeExec) Call(_ context.Context, url string) error {
	f.calls = append(f.calls, "call")
	f.urls = append(f.urls, url)
	return nil
}
func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	lines := silencePrintln(t)

	input := strings.Join([]string{
		"help",
		"login",
		"",
		"whoami",
		"token",
		"call",
		"call https://api.example.test/me",
		"foobar",
		"logout",
		"exit",
		"whoami",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func(context.Context) string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{"login", "whoami", "token", "call", "logout"}, exec.calls)
	assert.Equal(t, []string{"https://api.example.test/me"}, exec.urls)
	assert.Contains(t, *lines, "Usage: call <url>")
	assert.Contains(t, *lines, "Unknown command: foobar")
	assert.Contains(t, *lines, "Bye!")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func(context.Context) string { return "" }, bufio.NewReader(strings.NewReader("token")))

	assert.Equal(t, []string{"token"}, exec.calls)
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	silencePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func(context.Context) string { return "" }, bufio.NewReader(strings.NewReader("login\n")))

	assert.Empty(t, exec.calls)
}

type replCtxKey struct{}

func TestRunREPL_StatusReceivesLoopContext(t *testing.T) {
	silencePrintln(t)

	ctx := context.WithValue(context.Background(), replCtxKey{}, "repl")
	var seen []any
	status := func(ctx context.Context) string {
		seen = append(seen, ctx.Value(replCtxKey{}))
		return ""
	}

	runREPL(ctx, &fakeExec{}, status, bufio.NewReader(strings.NewReader("token\nexit\n")))

	assert.Equal(t, []any{"repl", "repl"}, seen)
}
