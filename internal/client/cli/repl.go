package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// errQuit is returned by dispatch when the user asks to leave.
var errQuit = errors.New("quit")

// execIface defines the command surface the REPL needs. The real App type
// satisfies it; tests can provide a lightweight stub.
type execIface interface {
	Add(ctx context.Context, args []string) error
	Retarget(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Periods(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Suggest(ctx context.Context, args []string) error
	Mode(ctx context.Context, args []string) error
	Server(ctx context.Context, args []string) error
	Sync(ctx context.Context, args []string) error
	DayLength(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  add <event> [@time] [comment]   record an event (wake, sleep, food, drink, caffeine,
                                  alcohol, bathroom, bath, other)
  retarget <time>|off             set or clear the target wake time
  (l)ist [filter]                 list entries, optionally filtered by an expression
  delete <index>                  remove an entry
  periods [n]                     show the last n sleep/wake periods
  stats                           day and sleep length statistics
  suggest                         suggested bed times
  mode                            awake or asleep
  server <url> [all] | off        choose a sync server
  sync                            send unsent entries now
  daylength <duration>|auto       preferred day length
  export <diary|json|csv|calendar> [analyse]
  exit | quit`

// runREPL starts a read–eval–print loop.
//
// It reads a line from the scanner and dispatches it. The prompt, showing
// statusFn, is only printed when stdin is a terminal so that scripted input
// produces clean output. The loop exits on scanner EOF or "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	interactive := isTerminal()
	for {
		if interactive {
			printlnFn(fmt.Sprintf("sleep %s > ", statusFn()))
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		if err := dispatch(ctx, a, parts); errors.Is(err, errQuit) {
			printlnFn("Bye!")
			return
		}
	}
}

// dispatch runs one command. Command errors are reported to the user here
// and also returned.
func dispatch(ctx context.Context, a execIface, parts []string) error {
	if len(parts) == 0 {
		printlnFn(helpText)
		return nil
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	var err error
	switch cmd {
	case "help":
		printlnFn(helpText)
	case "add":
		err = a.Add(ctx, args)
	case "retarget":
		err = a.Retarget(ctx, args)
	case "l", "list":
		err = a.List(ctx, args)
	case "delete":
		err = a.Delete(ctx, args)
	case "periods":
		err = a.Periods(ctx, args)
	case "stats":
		err = a.Stats(ctx, args)
	case "suggest":
		err = a.Suggest(ctx, args)
	case "mode":
		err = a.Mode(ctx, args)
	case "server":
		err = a.Server(ctx, args)
	case "sync":
		err = a.Sync(ctx, args)
	case "daylength":
		err = a.DayLength(ctx, args)
	case "export":
		err = a.Export(ctx, args)
	case "exit", "quit":
		return errQuit
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		printlnFn(failure("Error: " + err.Error()))
	}
	return err
}
