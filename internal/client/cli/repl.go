package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is replaced in tests.
var printlnFn = fmt.Println

// executor is the surface the REPL dispatches onto. *App implements it.
type executor interface {
	isSignedIn() bool
	hasHousehold() bool

	SignIn(ctx context.Context) error
	Verify(ctx context.Context, token string) error
	SignOut(ctx context.Context) error
	Whoami() error
	Profile(ctx context.Context) error

	CreateHousehold(ctx context.Context, name string) error
	JoinHousehold(ctx context.Context, code string) error
	Invite() error
	LeaveHousehold(ctx context.Context) error

	List() error
	AddTask(ctx context.Context, title string) error
	Claim(ctx context.Context, ref string) error
	Unclaim(ctx context.Context, ref string) error
	Done(ctx context.Context, ref string) error
	Undo(ctx context.Context, ref string) error
	Remove(ctx context.Context, ref string) error
}

func printHelp(signedIn, hasHousehold bool) {
	printlnFn("Available commands:")
	if !signedIn {
		printlnFn("  login               request a magic link for your email")
		printlnFn("  verify [token|url]  sign in with a magic link token")
	} else {
		printlnFn("  whoami              show your profile")
		printlnFn("  profile             edit your name and colour")
		if !hasHousehold {
			printlnFn("  create <name>       create a household")
			printlnFn("  join <code>         join a household by invite code")
		} else {
			printlnFn("  list                show tasks (mine / up for grabs / partner)")
			printlnFn("  add <title>         add a task")
			printlnFn("  claim <id>          claim a task")
			printlnFn("  unclaim <id>        release a claimed task")
			printlnFn("  done <id>           mark a task completed")
			printlnFn("  undo <id>           put a completed task back")
			printlnFn("  rm <id>             delete a task")
			printlnFn("  invite              show the household invite code")
			printlnFn("  leave               leave the household")
		}
		printlnFn("  logout              sign out")
	}
	printlnFn("  help                show this help")
	printlnFn("  exit                quit")
}

// runREPL reads commands until EOF or "exit". statusFn renders the prompt
// suffix so the prompt tracks sign-in and household state between commands.
func runREPL(ctx context.Context, exec executor, statusFn func() string, scanner *bufio.Scanner) {
	for {
		prompt := "duet"
		if s := statusFn(); s != "" {
			prompt += " " + s
		}
		fmt.Printf("%s > ", prompt)

		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		if cmd == "exit" || cmd == "quit" {
			break
		}

		if err := dispatch(ctx, exec, cmd, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}

func dispatch(ctx context.Context, exec executor, cmd string, args []string) error {
	switch cmd {
	case "help":
		printHelp(exec.isSignedIn(), exec.hasHousehold())
		return nil
	case "login":
		return exec.SignIn(ctx)
	case "verify":
		token := ""
		if len(args) > 0 {
			token = args[0]
		}
		return exec.Verify(ctx, token)
	}

	if !exec.isSignedIn() {
		printlnFn("Sign in first: 'login', then 'verify <token>'.")
		return nil
	}

	switch cmd {
	case "whoami":
		return exec.Whoami()
	case "profile":
		return exec.Profile(ctx)
	case "logout":
		return exec.SignOut(ctx)
	case "create":
		if len(args) == 0 {
			printlnFn("Usage: create <name>")
			return nil
		}
		return exec.CreateHousehold(ctx, strings.Join(args, " "))
	case "join":
		if len(args) != 1 {
			printlnFn("Usage: join <code>")
			return nil
		}
		return exec.JoinHousehold(ctx, args[0])
	}

	if !exec.hasHousehold() {
		printlnFn("No household yet. Use 'create <name>' or 'join <code>'.")
		return nil
	}

	switch cmd {
	case "list", "l":
		return exec.List()
	case "add":
		if len(args) == 0 {
			printlnFn("Usage: add <title>")
			return nil
		}
		return exec.AddTask(ctx, strings.Join(args, " "))
	case "claim":
		if len(args) != 1 {
			printlnFn("Usage: claim <id>")
			return nil
		}
		return exec.Claim(ctx, args[0])
	case "unclaim":
		if len(args) != 1 {
			printlnFn("Usage: unclaim <id>")
			return nil
		}
		return exec.Unclaim(ctx, args[0])
	case "done":
		if len(args) != 1 {
			printlnFn("Usage: done <id>")
			return nil
		}
		return exec.Done(ctx, args[0])
	case "undo":
		if len(args) != 1 {
			printlnFn("Usage: undo <id>")
			return nil
		}
		return exec.Undo(ctx, args[0])
	case "rm":
		if len(args) != 1 {
			printlnFn("Usage: rm <id>")
			return nil
		}
		return exec.Remove(ctx, args[0])
	case "invite":
		return exec.Invite()
	case "leave":
		return exec.LeaveHousehold(ctx)
	default:
		printlnFn("Unknown command. Type 'help' for the list.")
		return nil
	}
}
