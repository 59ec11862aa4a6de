// Command julie is the entry point for Julie's polyglot code-intelligence
// server: an MCP stdio server plus CLI subcommands to index a workspace
// and inspect its state, grounded on the teacher's cmd/lci main.go.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/julie/internal/config"
	"github.com/standardbeagle/julie/internal/diagnostics"
	"github.com/standardbeagle/julie/internal/mcpserver"
)

var version = "0.1.0"

func loadConfig(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}
	cfg, err := config.Load(absRoot)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:    "julie",
		Usage:   "Polyglot code-intelligence server: parse, index, and query a codebase's symbols, references, and call graph",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root to operate on (defaults to the current directory)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the MCP server over stdio",
				Action: serveCommand,
			},
			{
				Name:   "index",
				Usage:  "Index (or reindex) the primary workspace",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "Force a full reindex instead of an incremental refresh"},
				},
				Action: indexCommand,
			},
			{
				Name:   "status",
				Usage:  "Show indexed symbol/file/relationship counts for the primary workspace",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "Output as JSON"},
				},
				Action: statusCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "julie:", err)
		os.Exit(1)
	}
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	server, err := mcpserver.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	return server.Run(ctx)
}

func indexCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	manager, err := mcpserver.NewManager(cfg, diagnostics.NewLogger(false))
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}
	defer manager.Close()

	pipeline, err := manager.Pipeline("")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stats, err := pipeline.IndexWorkspace(ctx, c.Bool("force"))
	if err != nil {
		return fmt.Errorf("index workspace: %w", err)
	}

	fmt.Printf("scanned=%d indexed=%d skipped=%d failed=%d symbols=%d files=%d relationships=%d\n",
		stats.FilesScanned, stats.FilesIndexed, stats.FilesSkipped, stats.FilesFailed,
		stats.TotalSymbols, stats.TotalFiles, stats.TotalRelationships)
	for _, e := range stats.Errors {
		fmt.Fprintln(os.Stderr, "warning:", e)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	manager, err := mcpserver.NewManager(cfg, diagnostics.NewLogger(false))
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}
	defer manager.Close()

	engine, err := manager.Engine("")
	if err != nil {
		return err
	}

	ctx := context.Background()
	symbolCount, err := engine.Store.GetSymbolCountForWorkspace(ctx, engine.WorkspaceID)
	if err != nil {
		return err
	}
	relCount, err := engine.Store.GetRelationshipCountForWorkspace(ctx, engine.WorkspaceID)
	if err != nil {
		return err
	}
	fileCount, err := engine.Store.GetFileCountForWorkspace(ctx, engine.WorkspaceID)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		fmt.Printf(`{"workspace_id":%q,"files":%d,"symbols":%d,"relationships":%d}`+"\n",
			engine.WorkspaceID, fileCount, symbolCount, relCount)
		return nil
	}
	fmt.Printf("workspace %s: %d files, %d symbols, %d relationships\n",
		engine.WorkspaceID, fileCount, symbolCount, relCount)
	return nil
}
