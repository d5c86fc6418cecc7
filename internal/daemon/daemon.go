// Package daemon runs every computer in a project for the lifetime of
// the host process: it loads and assembles the project, starts one
// goroutine per computer that re-runs the guest program across
// computer.shutdown(true) reboots, serves the hostapi control surface,
// and shuts everything down on SIGTERM/SIGINT. Grounded in the
// teacher's daemon.Run (store open, signal handling, errCh/select
// shutdown) generalized from a single timeline+transport pair to an
// arbitrary number of computer goroutines.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/occore/occore/internal/config"
	"github.com/occore/occore/internal/hostapi"
	"github.com/occore/occore/internal/machine"
	"github.com/occore/occore/internal/project"
	"github.com/occore/occore/internal/scripting"
	"github.com/occore/occore/internal/store"
)

// Run loads projectDir, boots every computer it describes, and blocks
// until SIGTERM/SIGINT or a fatal error. Grounded in the teacher's
// daemon.Run: same sigCh/errCh/select shutdown shape, generalized to
// manage N computer goroutines instead of one timeline engine.
func Run(cfg *config.Config, projectDir string) error {
	loader := project.NewLoader()
	componentDescs, computerDescs, err := loader.Load(projectDir)
	if err != nil {
		return fmt.Errorf("daemon: loading project %s: %w", projectDir, err)
	}

	dbPath := filepath.Join(filepath.Dir(cfg.SocketPath), "occore.db")
	auditLog, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("daemon: open audit store: %w", err)
	}
	defer auditLog.Close()

	srv := hostapi.NewServer(cfg.SocketPath, cfg.ScreenStreamAddr)

	computers, err := project.Assemble(componentDescs, computerDescs, project.BuildOptions{
		WindowFactory: srv.ScreenWindow,
		DefaultMemory: cfg.DefaultMemory,
		QueueCapacity: cfg.SignalQueueCapacity,
	})
	if err != nil {
		return fmt.Errorf("daemon: assembling project %s: %w", projectDir, err)
	}
	srv.SetComputers(computers)

	for _, c := range computers {
		if err := auditLog.UpsertComputer(&store.Computer{
			Name: c.Name(), Address: c.Address(), MemoryCeiling: c.TotalMemory(),
		}); err != nil {
			log.Printf("audit: register %s: %v", c.Name(), err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	errCh := make(chan error, 1)

	go func() {
		log.Printf("hostapi listening on %s", cfg.SocketPath)
		errCh <- srv.ListenAndServe(ctx)
	}()

	var wg sync.WaitGroup
	for _, comp := range computers {
		wg.Add(1)
		go func(c *machine.Computer) {
			defer wg.Done()
			runComputer(ctx, c, auditLog)
		}(comp)
	}

	log.Printf("occore daemon started (project=%s, computers=%d)", projectDir, len(computers))

	select {
	case sig := <-sigCh:
		log.Printf("received %s, shutting down...", sig)
		cancel()
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			cancel()
			for _, comp := range computers {
				comp.Close()
			}
			wg.Wait()
			return fmt.Errorf("daemon error: %w", err)
		}
	}

	for _, comp := range computers {
		comp.Close()
	}
	wg.Wait()
	return nil
}

// runComputer runs c until ctx is cancelled, restarting it whenever the
// guest program requests a reboot (computer.shutdown(true)). A plain
// crash or a clean non-reboot shutdown ends the loop; ctx cancellation
// unwinds it without reporting an error. Every boot/reboot/halt is
// appended to auditLog for later inspection via the store.
func runComputer(ctx context.Context, c *machine.Computer, auditLog *store.Store) {
	appendEvent(auditLog, c.Name(), "boot", nil)
	for {
		err := c.Run()
		if ctx.Err() != nil {
			appendEvent(auditLog, c.Name(), "shutdown", strPtr("context cancelled"))
			return
		}
		if c.RebootRequested() {
			log.Printf("computer %s rebooting", c.Name())
			appendEvent(auditLog, c.Name(), "reboot", nil)
			c.Reboot()
			continue
		}
		if err != nil && !errors.Is(err, scripting.ErrHalted) {
			log.Printf("computer %s halted: %v", c.Name(), err)
			appendEvent(auditLog, c.Name(), "crash", strPtr(err.Error()))
		} else {
			log.Printf("computer %s halted cleanly", c.Name())
			appendEvent(auditLog, c.Name(), "shutdown", nil)
		}
		return
	}
}

func appendEvent(auditLog *store.Store, name, event string, detail *string) {
	if err := auditLog.AppendEvent(name, event, detail); err != nil {
		log.Printf("audit: append %s for %s: %v", event, name, err)
	}
}

func strPtr(s string) *string { return &s }
