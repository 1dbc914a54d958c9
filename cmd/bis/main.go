package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jrasky/bis/internal/config"
	"github.com/jrasky/bis/internal/history"
	"github.com/jrasky/bis/internal/logging"
	"github.com/jrasky/bis/internal/search"
	"github.com/jrasky/bis/internal/shellsetup"
	"github.com/jrasky/bis/internal/term"
	"github.com/jrasky/bis/internal/termcap"
	"github.com/jrasky/bis/internal/ui"
)

func printHelp() {
	fmt.Print(`bis - incremental fuzzy search over shell history

USAGE:
    bis [OPTIONS]

OPTIONS:
    -h, --help            Show this help message and exit
    -s, --setup [SHELL]   Output the Ctrl-R key binding snippet (optionally force SHELL)
`)
}

func main() {
	if len(os.Args) > 1 {
		arg := os.Args[1]
		switch {
		case arg == "-h" || arg == "--help":
			printHelp()
			os.Exit(0)
		case arg == "-s" || arg == "--setup":
			shellOverride := ""
			if len(os.Args) > 2 {
				shellOverride = os.Args[2]
			}
			exitSetup(shellOverride)
		case strings.HasPrefix(arg, "--setup="):
			exitSetup(strings.TrimPrefix(arg, "--setup="))
		default:
			fmt.Fprintf(os.Stderr, "bis: unknown argument %q\n", arg)
			os.Exit(2)
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bis: %v\n", err)
		os.Exit(1)
	}
}

func exitSetup(shellOverride string) {
	if err := shellsetup.PrintSetup(os.Stdout, shellOverride); err != nil {
		fmt.Fprintf(os.Stderr, "bis: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func run() error {
	cfgPath, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log, closeLog, err := logging.Init(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	histPath, err := history.Path(cfg.HistFile)
	if err != nil {
		return err
	}
	lines, err := history.Read(histPath)
	if err != nil {
		return err
	}

	base := search.NewBase()
	for _, line := range lines {
		base.Add(line.Text, line.Factor)
	}
	log.Debug("history loaded", "path", histPath, "lines", base.Len())

	tty, err := term.Open()
	if err != nil {
		return err
	}
	ctl, err := termcap.FromEnv(log)
	if err != nil {
		return err
	}

	session := ui.NewSession(ui.Options{
		Terminal: tty,
		Control:  ctl,
		Base:     base,
		Input:    os.Stdin,
		Output:   os.Stdout,
		Prompt:   cfg.Prompt,
		Logger:   log,
	})
	return session.Run()
}
