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
	RegisterCompany(ctx context.Context) error
	List(ctx context.Context) error
	ListODS(ctx context.Context) error
	WhoAmI(ctx context.Context) error
}

// dispatch runs the handler for cmd. handled is false for unknown commands.
func dispatch(ctx context.Context, a execIface, cmd string) (handled bool, err error) {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn("Available commands: register-company, (l)ist, list-ods, whoami, logout, exit")
		} else {
			printlnFn("Available commands: register, login, whoami, exit")
		}
		return true, nil
	case "register":
		return true, a.Register(ctx)
	case "login":
		return true, a.Login(ctx)
	case "logout":
		return true, a.Logout(ctx)
	case "register-company":
		return true, a.RegisterCompany(ctx)
	case "l", "list":
		return true, a.List(ctx)
	case "list-ods":
		return true, a.ListODS(ctx)
	case "whoami":
		return true, a.WhoAmI(ctx)
	}
	return false, nil
}

// runREPL starts a simple read–eval–print loop for the registry CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, on context cancellation, or when the user
// types "exit" or "quit".
//
// Command handlers share reader for their own prompts, so the loop must not
// buffer beyond the current line.
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("ods> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if handled, _ := dispatch(ctx, a, cmd); !handled {
			printlnFn("Unknown command:", cmd)
		}
	}
}
