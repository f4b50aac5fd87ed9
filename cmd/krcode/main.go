package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kompi/internal/pkg/logger"
	"kompi/internal/platform/config"
	"kompi/internal/platform/database"
)

// app is the state shared by subcommands once the root has loaded config.
type app struct {
	configPath string
	cfg        *config.Config
	db         *sql.DB
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "krcode",
		Short: "Create and render KR Codes from the command line",
		Long: `krcode works directly against the Kompi database. It renders KR Code
artifacts through the same pipeline as the HTTP server and can seed short
links with a KR Code for local testing.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Init(cfg.Logging)

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			a.cfg, a.db = cfg, db
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.db != nil {
				return a.db.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "configs/config.yaml", "Path to config file")
	root.AddCommand(newRenderCmd(a), newCreateCmd(a))

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
