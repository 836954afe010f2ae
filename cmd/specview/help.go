package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specview <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render specification documents to HTML")
	fmt.Fprintln(w, "  edit       Edit, remove or toggle one line of a document")
	fmt.Fprintln(w, "  outline    Print the heading outline of a document")
	fmt.Fprintln(w, "  serve      Run the interactive preview server")
	fmt.Fprintln(w, "  export     Print documents to PDF")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'specview help <command>' for details on a specific command.")
}

// printRendererUsage prints the renderer flags shared by several commands.
func printRendererUsage(w io.Writer) {
	fmt.Fprintln(w, "Renderer:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --style <name>        Page stylesheet name")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "      --no-highlight        Disable syntax highlighting")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed progress")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specview render <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Markdown files or directories to standalone HTML pages.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --fragment            Write the HTML fragment only")
	fmt.Fprintln(w, "      --json                Write HTML, blocks and outline as JSON")
	fmt.Fprintln(w, "      --plain               Render as plain CommonMark")
	fmt.Fprintln(w, "      --stdout              Write a single document to stdout")
	fmt.Fprintln(w)
	printRendererUsage(w)
}

// printEditUsage prints usage for the edit command.
func printEditUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specview edit <file> --line <n> (--text <s> | --toggle | --remove) [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Edit one line of a document in place. Heading, quote, list and checkbox")
	fmt.Fprintln(w, "markers are kept when the text is replaced.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -l, --line <n>            1-indexed source line (data-line of a block)")
	fmt.Fprintln(w, "  -t, --text <s>            Replace the line's text")
	fmt.Fprintln(w, "      --toggle              Toggle the task checkbox")
	fmt.Fprintln(w, "      --remove              Remove the line")
	fmt.Fprintln(w, "  -n, --dry-run             Print the result instead of writing it")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

// printOutlineUsage prints usage for the outline command.
func printOutlineUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specview outline <file> [--json | --tree]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the headings of a document with their source lines.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print headings as JSON")
	fmt.Fprintln(w, "      --tree                Print headings nested by level as JSON")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specview serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve documents under a root for interactive preview and editing.")
	fmt.Fprintln(w, "Open http://<addr>/view?path=<file> in a browser.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address")
	fmt.Fprintln(w, "  -r, --root <dir>          Document root")
	fmt.Fprintln(w)
	printRendererUsage(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specview export <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print documents to PDF with headless Chrome.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --landscape           Landscape orientation")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	printRendererUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "edit":
		printEditUsage(env.Stdout)
	case "outline":
		printOutlineUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: specview version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: specview help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
