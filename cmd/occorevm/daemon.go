package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/occore/occore/internal/daemon"
	"github.com/occore/occore/internal/logger"
)

// daemonCmd starts the long-running process that loads a project and
// keeps every computer it describes running, serving the hostapi
// control surface until interrupted. Grounded in the teacher's
// daemonCmd (config.Load then daemon.Run), with the project directory
// taken as an argument rather than implied.
func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon [project-dir]",
		Short: "Run every computer in a project until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, projectDir, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if len(args) > 0 {
				projectDir = args[0]
			}
			if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return daemon.Run(cfg, projectDir)
		},
	}
}
