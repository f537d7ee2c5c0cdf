package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

const (
	defaultServerURL = "http://localhost:12212"
)

// options are the global flags shared by every command
type options struct {
	serverURL  string
	configPath string
	output     string
	png        int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options

	flags := pflag.NewFlagSet("ticket-cli", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.serverURL, "server", "s", defaultServerURL, "Server URL")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default $TICKET_ENGINE_CONFIG)")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file")
	flags.IntVar(&opts.png, "png", 0, "Render only this page (1-based) as PNG")
	flags.Usage = func() { printUsage(stderr) }

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if flags.NArg() == 0 {
		printUsage(stderr)
		return 1
	}

	cmdArgs := flags.Args()
	var err error
	switch cmdArgs[0] {
	case "render":
		err = renderCommand(cmdArgs[1:], opts, stdout)
	case "remote":
		err = remoteCommand(cmdArgs[1:], opts, stdout)
	case "documents":
		err = documentsCommand(opts, stdout)
	case "styles":
		err = stylesCommand(stdout)
	case "help":
		printUsage(stdout)
	default:
		err = fmt.Errorf("unknown command: %s", cmdArgs[0])
	}

	if err != nil {
		fmt.Fprintln(stderr, ErrorStyle.Render("Error:"), err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Ticket Engine CLI

Usage:
  ticket-cli [flags] <command>

Flags:
  -s, --server <url>     Server URL (default: %s)
  -c, --config <file>    Config file (default: $TICKET_ENGINE_CONFIG)
  -o, --output <file>    Output file
      --png <page>       Render a single page as PNG instead of the PDF

Commands:
  render <purchase.json>
    Render the purchase locally into one PDF (or a PNG page with --png)

  remote <purchase.json>
    Render the purchase on the server

  documents
    List documents rendered by the server's worker

  styles
    Show the ticket class catalog

  help
    Show help message

Examples:
  ticket-cli render ./purchase.json -o tickets.pdf
  ticket-cli render ./purchase.json --png 2 -o page2.png
  ticket-cli -s http://localhost:8080 remote ./purchase.json -o tickets.pdf

`, defaultServerURL)
}
