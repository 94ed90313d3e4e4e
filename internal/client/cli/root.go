package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus(ctx context.Context) string {
	info, ok := a.store.LookupUserInfo(ctx)
	if !ok {
		return ""
	}
	name, _ := info["fullName"].(string)
	if name == "" {
		name, _ = info["id"].(string)
	}
	if name == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", name)
}

// Root runs the REPL on the App's input until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to crowdops session CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
