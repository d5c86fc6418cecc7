// Command occorevm is the CLI front end for the virtual computer
// daemon: it initializes a project's on-disk layout, starts the
// daemon that runs every computer a project describes, and talks to a
// running daemon over its hostapi control socket to list computers,
// inspect one, and push host-originated signals. Grounded in the
// teacher's cmd/wt/main.go cobra wiring (root command with
// subcommands, a clientFromConfig helper, tabwriter table output).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/occore/occore/internal/config"
	"github.com/occore/occore/internal/hostapi"
)

func main() {
	root := &cobra.Command{
		Use:   "occorevm",
		Short: "occore — a host for OpenComputers-style virtual computers",
		Long:  "Loads a project of components and computers and runs them as guest Lua programs, with a control API for inspection and host-originated signals.",
	}

	root.AddCommand(
		initCmd(),
		daemonCmd(),
		psCmd(),
		inspectCmd(),
		signalCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges the user and project config the same way the
// daemon does, so occorevm's client subcommands point at the same
// socket the daemon is actually listening on.
func loadConfig() (*config.Config, string, error) {
	userDir, err := config.GetUserConfigDir()
	if err != nil {
		return nil, "", err
	}
	projectDir, err := config.GetProjectDir()
	if err != nil {
		return nil, "", err
	}

	mgr := config.NewManager()
	if err := mgr.Load(userDir, projectDir); err != nil {
		return nil, "", err
	}
	cfg := mgr.Get()
	if cfg.SocketPath == "" {
		cfg.SocketPath = projectDir + "/.occore/occore.sock"
	}
	return cfg, projectDir, nil
}

func clientFromConfig() (*hostapi.Client, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return hostapi.NewClient(cfg.SocketPath), nil
}
