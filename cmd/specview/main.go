package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	verbose := slices.Contains(os.Args, "-v") || slices.Contains(os.Args, "--verbose")
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		if verbose {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}
	}))

	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args, env)
	stop()
	os.Exit(code)
}

// run dispatches to a command and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "render":
		err = runRender(ctx, rest, env)
	case "edit":
		err = runEdit(rest, env)
	case "outline":
		err = runOutline(rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "export":
		err = runExport(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "specview %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		runHelp([]string{cmd}, env)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "specview %s: %v%s\n", cmd, err, hintFor(err, env))
		if errors.Is(err, ErrUsage) {
			fmt.Fprintf(env.Stderr, "Run 'specview help %s' for usage.\n", cmd)
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}
