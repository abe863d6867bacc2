package market

import (
	"context"
	"flag"
	"os"

	"github.com/taskport/worker-match-system/config"
	"github.com/taskport/worker-match-system/internal/app"
	"github.com/taskport/worker-match-system/pkg/logger"
)

var (
	helpFlag   = flag.Bool("help", false, "Show help message")
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
)

func Run() {
	flag.Parse()
	if *helpFlag {
		config.PrintHelp()
		return
	}

	ctx := context.Background()
	log := logger.InitLogger("worker-match", logger.LevelDebug)

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		config.PrintHelp()
		return
	}

	if logger.ValidateLogLevel(cfg.Server.LogLevel) {
		log = logger.InitLogger("worker-match", cfg.Server.LogLevel)
	}

	// Printing configuration
	config.PrintConfig(cfg)

	// Creating application
	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	// Running the application
	if err = application.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
