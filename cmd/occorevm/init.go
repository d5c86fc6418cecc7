package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/occore/occore/internal/config"
)

// initCmd scaffolds a new project's on-disk layout: components/ and
// computers/ directories the project.Loader reads, plus a default
// eeprom component and a single computer wired to it, ready to
// `occorevm daemon` without further setup. Grounded in the teacher's
// initCmd (config.Load, MkdirAll the directories a fresh install
// needs, seed starter files only if they don't already exist).
func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a new project's components/ and computers/ directories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			dir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			userDir, err := config.GetUserConfigDir()
			if err != nil {
				return err
			}
			if err := config.EnsureConfigDirs(userDir, dir); err != nil {
				return fmt.Errorf("create config dirs: %w", err)
			}

			eepromDir := filepath.Join(dir, "components", "bios.eeprom")
			if err := os.MkdirAll(eepromDir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", eepromDir, err)
			}
			primaryPath := filepath.Join(eepromDir, "primary.lua")
			if !fileExists(primaryPath) {
				const boot = "while true do computer.pullSignal() end\n"
				if err := os.WriteFile(primaryPath, []byte(boot), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", primaryPath, err)
				}
			}

			computerDir := filepath.Join(dir, "computers", "main")
			if err := os.MkdirAll(computerDir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", computerDir, err)
			}
			componentsTxt := filepath.Join(computerDir, "components.txt")
			if !fileExists(componentsTxt) {
				if err := os.WriteFile(componentsTxt, []byte("bios\n"), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", componentsTxt, err)
				}
			}

			fmt.Printf("initialized project at %s\n", dir)
			return nil
		},
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
