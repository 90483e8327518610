package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/happyhackingspace/framelabels"
	"github.com/happyhackingspace/framelabels/internal/banner"
	"github.com/happyhackingspace/framelabels/internal/config"
	"github.com/spf13/cobra"
)

// CLI encapsulates the command-line interface with its dependencies.
type CLI struct {
	version     string
	verbose     bool
	silent      bool
	configPath  string
	initialized bool
	rootCmd     *cobra.Command
}

// New creates a new CLI instance with the given version string.
func New(version string) *CLI {
	c := &CLI{version: version}
	c.setupCommands()
	return c
}

// setupCommands initializes all CLI commands and their configurations.
func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:           "framelabels",
		Short:         "Frame-level label index for HTK master label files",
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.initApp()
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	pf := c.rootCmd.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose/debug output")
	pf.BoolVarP(&c.silent, "silent", "s", false, "Suppress all logging and banner")
	pf.StringVarP(&c.configPath, "config", "c", "", "Path to label stream config (YAML)")
	pf.String("name", "labels", "Stream name")
	pf.Int("dimension", 0, "Label dimension (number of classes)")
	pf.String("element-type", "float", "Element type: float or double")
	pf.StringSlice("mlf", nil, "MLF file path or glob, relative to the working directory (repeatable)")
	pf.String("mlf-list", "", "File listing MLF paths, one per line")
	pf.String("label-mapping", "", "State list mapping label symbols to class ids")
	pf.Int("readers", 4, "Number of label files parsed concurrently")

	defaultHelp := c.rootCmd.HelpFunc()
	c.rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		c.initApp()
		defaultHelp(cmd, args)
	})

	c.rootCmd.AddCommand(c.newInspectCommand())
	c.rootCmd.AddCommand(c.newLookupCommand())
	c.rootCmd.AddCommand(c.newDumpCommand())
	c.rootCmd.AddCommand(c.newUpCommand())
}

// Run executes the CLI and returns any error.
func (c *CLI) Run() error {
	err := c.rootCmd.Execute()
	if err != nil {
		slog.Error("Command failed", "error", err)
	}
	return err
}

// initApp initializes logging and prints the banner.
func (c *CLI) initApp() {
	if c.initialized {
		return
	}
	c.initialized = true

	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	if c.silent {
		level = slog.Level(100)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	if !c.silent {
		fmt.Fprint(os.Stderr, banner.Banner(c.version))
	}
}

// open loads the configuration for cmd and builds the deserializer.
func (c *CLI) open(cmd *cobra.Command) (*framelabels.Deserializer, framelabels.Config, error) {
	cfg, err := config.Load(c.configPath, cmd.Flags())
	if err != nil {
		return nil, cfg, err
	}
	slog.Info("Loading labels", "files", len(cfg.LabelFiles), "dimension", cfg.Dimension, "element-type", cfg.ElementType)
	start := time.Now()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := framelabels.Open(ctx, cfg)
	if err != nil {
		return nil, cfg, err
	}
	slog.Debug("Labels loaded", "frames", d.Index().TotalFrames(), "duration", time.Since(start))
	return d, cfg, nil
}
