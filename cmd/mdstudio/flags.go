package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// studioFlags holds the command line flags.
type studioFlags struct {
	addr     string
	config   string
	stateDir string
	workers  int
	timeout  string
	verbose  bool
	version  bool
}

// parseFlags parses the command line.
func parseFlags(args []string) (*studioFlags, error) {
	fs := flag.NewFlagSet("mdstudio", flag.ContinueOnError)
	f := &studioFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default 127.0.0.1:8750)")
	fs.StringVarP(&f.config, "config", "c", "", "config file path")
	fs.StringVar(&f.stateDir, "state-dir", "", "directory for persisted document state")
	fs.IntVarP(&f.workers, "workers", "w", 0, "export workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logging")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mdstudio [flags]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Serves the Markdown studio UI on the listen address.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	return f, nil
}
