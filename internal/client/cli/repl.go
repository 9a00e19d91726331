package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	Board(ctx context.Context, query, status string) error
	Add(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Move(ctx context.Context, id, status string) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Refresh(ctx context.Context) error
	Export(ctx context.Context, dir string) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: (l)ist, board [query], search <text>, filter <status>, add, show <id>, move <id> <status>, edit <id>, delete <id>, refresh, export [dir], whoami, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF, on context cancellation, or when the user types
// "exit" or "quit".
//
// Handlers report their own failures, so errors returned to the loop are
// dropped.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("tb %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "board":
			_ = a.Board(ctx, strings.Join(args, " "), "")

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <text>")
				continue
			}
			_ = a.Board(ctx, strings.Join(args, " "), "")

		case "filter":
			if len(args) != 1 {
				printlnFn("Usage: filter <todo|in_progress|done>")
				continue
			}
			_ = a.Board(ctx, "", args[0])

		case "add":
			_ = a.Add(ctx)

		case "show":
			if len(args) != 1 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "move":
			if len(args) != 2 {
				printlnFn("Usage: move <id> <todo|in_progress|done>")
				continue
			}
			_ = a.Move(ctx, args[0], args[1])

		case "edit":
			if len(args) != 1 {
				printlnFn("Usage: edit <id>")
				continue
			}
			_ = a.Edit(ctx, args[0])

		case "delete", "rm":
			if len(args) != 1 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "refresh", "sync":
			_ = a.Refresh(ctx)

		case "export":
			if len(args) > 1 {
				printlnFn("Usage: export [dir]")
				continue
			}
			_ = a.Export(ctx, strings.Join(args, ""))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
