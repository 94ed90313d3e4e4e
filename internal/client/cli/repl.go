package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies it.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Login(ctx context.Context) error
	Whoami(ctx context.Context) error
	Token(ctx context.Context) error
	Call(ctx context.Context, url string) error
	Logout(ctx context.Context) error
}

// runREPL reads one command per line from r and dispatches it to a. The loop
// ends on EOF, on "exit"/"quit", or when ctx is cancelled. Command errors are
// reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func(context.Context) string, r *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("crowdops %s> ", statusFn(ctx)))

		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: whoami, token, call <url>, logout, exit")
			} else {
				printlnFn("Available commands: login, whoami, token, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "token":
			_ = a.Token(ctx)

		case "call":
			if len(args) == 0 {
				printlnFn("Usage: call <url>")
				continue
			}
			_ = a.Call(ctx, args[0])

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
