package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/hangarhq/hangar/internal/category"
	"github.com/hangarhq/hangar/internal/config"
	"github.com/hangarhq/hangar/internal/logstore"
	"github.com/hangarhq/hangar/internal/mcp"
	"github.com/hangarhq/hangar/internal/vfs"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"serve": true, "ls": true, "get": true, "put": true,
	"rm": true, "cp": true, "mv": true, "mkdir": true,
	"logs": true, "categories": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _  _
  | || |__ _ _ _  __ _ __ _ _ _
  | __ / _` + "`" + ` | ' \/ _` + "`" + ` / _` + "`" + ` | '_|
  |_||_\__,_|_||_\__, \__,_|_|
                 |___/

  Sandboxed virtual file storage

  Usage: hangar <command> [options]
         hangar --help

  MCP server mode requires piped input.`)
}

// app bundles the wired stores handed to the CLI and servers.
type app struct {
	registry *category.Registry
	files    *vfs.Store
	logs     *logstore.Store
	cfg      *config.Config
}

// initApp wires the registry, file store, and log store under baseDir.
func initApp(baseDir string) (*app, error) {
	cfg, err := config.Load(baseDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	reg := category.NewRegistry(filepath.Join(baseDir, "storage"), cfg.ExtraCategories)
	files, err := vfs.NewStore(reg, cfg)
	if err != nil {
		return nil, fmt.Errorf("init file store: %w", err)
	}
	logs, err := logstore.New(files.Resolver(), cfg)
	if err != nil {
		return nil, fmt.Errorf("init log store: %w", err)
	}

	return &app{registry: reg, files: files, logs: logs, cfg: cfg}, nil
}

func main() {
	// Diagnostics go to stderr so MCP stdio traffic stays clean.
	logrus.SetOutput(os.Stderr)

	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before touching the filesystem
	if isHelpOrVersion() {
		cliApp := newCLIApp(nil)
		if err := cliApp.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}
	baseDir := filepath.Join(homeDir, ".hangar")
	if env := os.Getenv("HANGAR_HOME"); env != "" {
		baseDir = env
	}

	a, err := initApp(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		cliApp := newCLIApp(a)
		if err := cliApp.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'hangar --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if unknown := mcp.ValidateDisabledTools(a.cfg.DisabledTools); len(unknown) > 0 {
		logrus.WithField("tools", unknown).Warn("config disables unknown MCP tools")
	}
	if err := mcp.Run(a.files, a.logs, a.cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
