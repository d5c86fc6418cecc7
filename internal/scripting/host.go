// Package scripting runs one guest Lua program on its own goroutine —
// the "guest thread" of spec.md §5 — using gopher-lua as the pure-Go
// stand-in for the original's embedded Lua 5.3 C interpreter.
//
// The original needs a resume/yield dance (lua_resume/lua_yield across
// create_environment's pullSignal) purely because its interpreter and
// its signal queue share one OS thread; blocking inside a C function
// called from Lua would freeze everything else too. Here each Computer
// already gets its own goroutine, so a Go function bound into Lua
// (computer.pullSignal) can simply block the calling goroutine via
// internal/signal.Queue's condition variable — no coroutine machinery
// needed. Grounded in original_source's lua_bridge.cpp emulate_computer
// for the overall boot/run/halt/crash shape.
package scripting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/occore/occore/internal/builtins"
	"github.com/occore/occore/internal/component"
)

// ErrHalted is returned by Run when the guest program stopped because
// the Host's context was cancelled (computer.shutdown() through the
// owner, Cancel, Close, or the memory-ceiling watchdog), as opposed to
// an uncaught Lua error.
var ErrHalted = errors.New("scripting: computer halted")

// watchInterval is how often the memory watchdog samples the heap.
// gopher-lua has no allocator hook to enforce a byte-exact ceiling, so
// this is a best-effort, process-wide approximation: see Host.UsedMemory.
const watchInterval = 50 * time.Millisecond

// Host runs a single guest Lua program against a configured memory
// ceiling. One Host belongs to exactly one Computer.
type Host struct {
	L        *lua.LState
	ctx      context.Context
	cancel   context.CancelFunc
	ceiling  int64
	baseline uint64
}

func NewHost(ceiling int64) *Host {
	ctx, cancel := context.WithCancel(context.Background())
	L := lua.NewState()
	L.SetContext(ctx)
	return &Host{L: L, ctx: ctx, cancel: cancel, ceiling: ceiling}
}

// Cancel interrupts the running guest program, used by
// machine.Computer.Shutdown to unwind a blocked pullSignal call.
func (h *Host) Cancel() { h.cancel() }

func (h *Host) Close() {
	h.cancel()
	h.L.Close()
}

// UsedMemory approximates the guest's footprint by comparing the
// process heap against the baseline captured when Run started. This is
// a coarse, process-wide estimate shared across every computer running
// in this process — gopher-lua, being a pure-Go VM with no lua_Alloc
// equivalent, gives no way to attribute individual allocations to one
// guest program. It is enough to give freeMemory/totalMemory plausible,
// monotonic-ish answers and to let the watchdog trip a ceiling.
func (h *Host) UsedMemory() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	used := int64(m.HeapAlloc) - int64(h.baseline)
	if used < 0 {
		return 0
	}
	if used > h.ceiling {
		return h.ceiling
	}
	return used
}

func (h *Host) FreeMemory() int64 {
	free := h.ceiling - h.UsedMemory()
	if free < 0 {
		return 0
	}
	return free
}

// Run loads boot as the top-level chunk, wires the component/computer/
// unicode globals against owner and bus, and executes it to completion.
// It blocks for the life of the guest program; callers run it on its
// own goroutine.
func (h *Host) Run(owner component.Owner, bus builtins.Bus, boot io.Reader) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	h.baseline = m.HeapAlloc

	builtins.Register(h.L, owner, bus)

	stop := make(chan struct{})
	defer close(stop)
	go h.watchCeiling(stop)

	fn, err := h.L.Load(boot, "boot")
	if err != nil {
		return fmt.Errorf("scripting: load boot source: %w", err)
	}
	h.L.Push(fn)
	err = h.L.PCall(0, lua.MultRet, nil)
	if err != nil {
		if h.ctx.Err() != nil {
			return ErrHalted
		}
		return fmt.Errorf("scripting: guest crashed: %w", err)
	}
	return nil
}

func (h *Host) watchCeiling(stop chan struct{}) {
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if h.UsedMemory() >= h.ceiling {
				h.cancel()
				return
			}
		}
	}
}
