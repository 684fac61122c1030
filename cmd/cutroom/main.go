// Package main is the entry point for the cutroom editor core CLI. It
// loads a project document, optionally runs a Lua macro against it,
// prints a timeline summary, and writes the result back out.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/cutroom/internal/app"
	"github.com/dshills/cutroom/internal/config"
	"github.com/dshills/cutroom/internal/logging"
	"github.com/dshills/cutroom/internal/script"
	"github.com/dshills/cutroom/internal/timeline"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	projectPath  string
	macroPath    string
	outPath      string
	settingsPath string
	newName      string
	logLevel     string
}

func run() int {
	opts := parseFlags()

	settings, err := config.Load(opts.settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load settings: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		settings.LogLevel = opts.logLevel
	}
	log := logging.New(os.Stderr, logging.Options{
		Level:     settings.LogLevel,
		Component: "cutroom",
	})

	editor := app.New(app.WithLogger(log), app.WithSettings(settings))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := editor.Close(ctx); err != nil {
			log.Warn("shutdown incomplete", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var project *timeline.Project
	switch {
	case opts.projectPath != "":
		project, err = editor.LoadProject(ctx, opts.projectPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	case opts.newName != "":
		project = editor.NewProject(ctx, opts.newName)
	default:
		fmt.Fprintln(os.Stderr, "Error: either -project or -new is required")
		flag.Usage()
		return 2
	}

	if opts.macroPath != "" {
		eng := script.New(editor, script.WithLogger(log))
		defer eng.Close()
		if err := eng.RunFile(ctx, opts.macroPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	printSummary(project)

	if opts.outPath != "" {
		if err := editor.SaveProject(ctx, opts.outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Saved %s\n", opts.outPath)
	}
	return 0
}

func printSummary(p *timeline.Project) {
	fmt.Printf("%s  (%dx%d @ %d fps, %s)\n",
		p.Name, p.Resolution.Width, p.Resolution.Height, p.FPS,
		timeline.FormatTimecode(p.Duration, p.FPS))
	for _, track := range p.Tracks {
		fmt.Printf("  [%s] %s  %d clip(s)\n", track.Type, track.Name, len(track.Clips))
		for _, clip := range track.Clips {
			fmt.Printf("    %-20s %s - %s\n", clip.Name,
				timeline.FormatTimecode(clip.Start, p.FPS),
				timeline.FormatTimecode(clip.End(), p.FPS))
		}
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.projectPath, "project", "", "Path to a project document to open")
	flag.StringVar(&opts.newName, "new", "", "Create a new empty project with this name")
	flag.StringVar(&opts.macroPath, "macro", "", "Lua macro file to run against the project")
	flag.StringVar(&opts.outPath, "out", "", "Write the resulting project document here")
	flag.StringVar(&opts.settingsPath, "settings", "", "Path to the settings file")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cutroom - timeline editor core\n\n")
		fmt.Fprintf(os.Stderr, "Usage: cutroom [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  cutroom -project cut.json                   Print a timeline summary\n")
		fmt.Fprintf(os.Stderr, "  cutroom -project cut.json -macro fix.lua -out cut.json\n")
		fmt.Fprintf(os.Stderr, "  cutroom -new \"My Cut\" -out cut.json         Create an empty project\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("cutroom %s (%s)\n", version, commit)
		os.Exit(0)
	}
	return opts
}
