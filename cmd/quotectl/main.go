// Command quotectl manages the quote library from the terminal: listing,
// totals, batch export and confirmed deletes against the configured store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/config"
	"github.com/garyjia/quotebook/internal/container"
	"github.com/garyjia/quotebook/pkg/utils"
)

const usage = `Usage: quotectl [-config path] [-verbose] <command> [flags] [args]

Commands:
  list     [-search text] [-status Draft|Finalized|Won|Lost] [-no-color]
  totals   <id|number>
  export   [-format pdf|png|txt] [-status S] [-library]
  delete   [-yes] <id|number>
  draft    <description of the work>
`

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	verbose := flag.Bool("verbose", false, "log at the configured level instead of warnings only")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so command output stays clean
	level := "warn"
	if *verbose {
		level = cfg.Logger.Level
	}
	logger, err := utils.NewLogger(utils.LoggerConfig{Level: level, OutputPath: "stderr", Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	c, err := container.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create container", zap.Error(err))
	}
	if err := c.Start(ctx); err != nil {
		logger.Fatal("Failed to start container", zap.Error(err))
	}

	a := newApp(c.Services(), c.Storage(), os.Stdin, os.Stdout, os.Stderr)
	runErr := a.run(ctx, flag.Arg(0), flag.Args()[1:])

	if err := c.Close(ctx); err != nil {
		logger.Error("Container shutdown error", zap.Error(err))
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", runErr)
		os.Exit(1)
	}
}
