package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/hangarhq/hangar/internal/errors"
	"github.com/hangarhq/hangar/internal/logstore"
	"github.com/hangarhq/hangar/internal/vfs"
	"github.com/hangarhq/hangar/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(a *app) *cli.App {
	cliApp := &cli.App{
		Name:    "hangar",
		Usage:   "Sandboxed virtual file storage",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(a),
			lsCmd(a),
			getCmd(a),
			putCmd(a),
			rmCmd(a),
			cpCmd(a),
			mvCmd(a),
			mkdirCmd(a),
			logsCmd(a),
			categoriesCmd(a),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	cliApp.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return cliApp
}

// serveCmd creates the serve command.
func serveCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8420, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(a.files, a.logs, a.registry, a.cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// lsCmd creates the ls command.
func lsCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "List files in a category",
		ArgsUsage: "[category]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Case-insensitive name filter"},
			&cli.StringFlag{Name: "sort", Usage: "Sort key: name|size|date"},
			&cli.BoolFlag{Name: "desc", Usage: "Sort descending"},
			&cli.BoolFlag{Name: "long", Aliases: []string{"l"}, Usage: "Show size and modification time"},
			&cli.BoolFlag{Name: "json", Usage: "Output JSON instead of a table"},
		},
		Action: func(c *cli.Context) error {
			input := vfs.ListInput{
				Category:     c.Args().First(),
				Search:       c.String("search"),
				IncludeStats: c.Bool("long"),
				SortBy:       c.String("sort"),
			}
			if c.Bool("desc") {
				input.SortOrder = "desc"
			}

			output, err := a.files.List(input)
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(output)
			}

			for _, f := range output.Files {
				if !c.Bool("long") {
					fmt.Println(f.FileName)
					continue
				}
				size := "-"
				if f.Size != nil {
					size = humanize.Bytes(uint64(*f.Size))
				}
				when := "-"
				if f.ModifiedAt != nil {
					when = humanize.Time(*f.ModifiedAt)
				}
				kind := " "
				if f.IsDirectory {
					kind = "d"
				}
				fmt.Printf("%s %8s  %-14s %s\n", kind, size, when, f.FileName)
			}
			fmt.Fprintf(os.Stderr, "%d item(s) in %s\n", output.Total, output.Path)
			return nil
		},
	}
}

// getCmd creates the get command.
func getCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print a stored file to stdout",
		ArgsUsage: "<category> <file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output the full record as JSON instead of raw content"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: hangar get <category> <file>"))
			}

			input := vfs.GetInput{
				Category: c.Args().Get(0),
				FileName: c.Args().Get(1),
				Raw:      !c.Bool("json"),
			}
			output, err := a.files.Get(input)
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(output)
			}
			_, err = os.Stdout.Write(output.Raw)
			return err
		},
	}
}

// putCmd creates the put command.
func putCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "put",
		Usage:     "Store stdin as a file",
		ArgsUsage: "<category> <file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-overwrite", Usage: "Fail if the file already exists"},
			&cli.BoolFlag{Name: "append", Aliases: []string{"a"}, Usage: "Append to an existing file"},
			&cli.BoolFlag{Name: "sanitize", Usage: "Rewrite unsafe characters in the file name"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: hangar put <category> <file>"))
			}
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("file content must be piped via stdin"))
			}

			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			input := vfs.NewSaveInput(c.Args().Get(0), c.Args().Get(1), data)
			input.Overwrite = !c.Bool("no-overwrite")
			input.Append = c.Bool("append")
			input.SanitizeFilename = c.Bool("sanitize")

			output, err := a.files.Save(input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// rmCmd creates the rm command.
func rmCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete a stored file",
		ArgsUsage: "<category> <file>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: hangar rm <category> <file>"))
			}

			output, err := a.files.Delete(vfs.DeleteInput{
				Category: c.Args().Get(0),
				FileName: c.Args().Get(1),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// cpCmd creates the cp command.
func cpCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "cp",
		Usage:     "Copy a file between categories",
		ArgsUsage: "<src-category> <src-file> <dst-category> [dst-file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "overwrite", Aliases: []string{"f"}, Usage: "Replace an existing destination file"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 3 {
				return outputError(errors.NewInvalidRequest("usage: hangar cp <src-category> <src-file> <dst-category> [dst-file]"))
			}

			output, err := a.files.Copy(vfs.CopyInput{
				SourceCategory: c.Args().Get(0),
				SourceFileName: c.Args().Get(1),
				TargetCategory: c.Args().Get(2),
				TargetFileName: c.Args().Get(3),
				Overwrite:      c.Bool("overwrite"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// mvCmd creates the mv command.
func mvCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "mv",
		Usage:     "Move a file between categories",
		ArgsUsage: "<src-category> <src-file> <dst-category> [dst-file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "overwrite", Aliases: []string{"f"}, Usage: "Replace an existing destination file"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 3 {
				return outputError(errors.NewInvalidRequest("usage: hangar mv <src-category> <src-file> <dst-category> [dst-file]"))
			}

			output, err := a.files.Move(vfs.MoveInput{
				SourceCategory: c.Args().Get(0),
				SourceFileName: c.Args().Get(1),
				TargetCategory: c.Args().Get(2),
				TargetFileName: c.Args().Get(3),
				Overwrite:      c.Bool("overwrite"),
			})
			if err != nil {
				return outputError(err)
			}
			if output.PartialSuccess {
				fmt.Fprintf(os.Stderr, "warning: copied but could not remove source: %s\n", output.DeleteError)
			}
			return outputJSON(output)
		},
	}
}

// mkdirCmd creates the mkdir command.
func mkdirCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "mkdir",
		Usage:     "Create a folder under a category",
		ArgsUsage: "<category> <folder>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: hangar mkdir <category> <folder>"))
			}

			output, err := a.files.CreateFolder(vfs.CreateFolderInput{
				Category:   c.Args().Get(0),
				FolderName: c.Args().Get(1),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// logsCmd creates the logs command.
func logsCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "logs",
		Usage: "Query the log buffer or follow it live",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "level", Usage: "Maximum severity tier: error|warning|info|success|debug"},
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Substring filter on messages"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Keep only the last N matches"},
			&cli.BoolFlag{Name: "follow", Aliases: []string{"f"}, Usage: "Stream entries until interrupted"},
			&cli.BoolFlag{Name: "json", Usage: "Output JSON instead of formatted lines"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("follow") {
				return followLogs(a, c.Bool("json"))
			}

			entries, err := a.logs.GetLogs(logstore.Query{
				Level:  c.String("level"),
				Search: c.String("search"),
				Limit:  c.Int("limit"),
			})
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}
			if c.Bool("json") {
				return outputJSON(entries)
			}
			for _, e := range entries {
				printEntry(e)
			}
			return nil
		},
	}
}

// followLogs replays the buffer and streams live entries until SIGINT.
func followLogs(a *app, asJSON bool) error {
	unsubscribe := a.logs.Subscribe(func(e logstore.Entry) {
		if asJSON {
			_ = outputJSON(e)
			return
		}
		printEntry(e)
	})
	defer unsubscribe()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	return nil
}

func printEntry(e logstore.Entry) {
	fmt.Printf("%s [%s] %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Level, e.Message)
	if e.Error != nil {
		fmt.Printf("  %s: %s\n", e.Error.Name, e.Error.Message)
	}
}

// categoriesCmd creates the categories command.
func categoriesCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "List registered storage categories",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output JSON instead of plain names"},
		},
		Action: func(c *cli.Context) error {
			names := a.registry.Names()
			if c.Bool("json") {
				return outputJSON(map[string]any{"categories": names})
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if hErr, ok := err.(*errors.HangarError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", hErr.Code, hErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
