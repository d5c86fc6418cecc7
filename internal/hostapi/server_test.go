package hostapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/occore/occore/internal/component"
	"github.com/occore/occore/internal/machine"
)

// newClient returns an http.Client dialing the hostapi Unix socket,
// grounded in the teacher's transport.Client.
func newClient(sock string) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return net.Dial("unix", sock)
			},
		},
	}
}

func waitForSocket(t *testing.T, sock string) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if _, err := os.Stat(sock); err == nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("server did not start in time")
}

func bootComputer(t *testing.T, name, source string) *machine.Computer {
	t.Helper()
	eeprom := component.NewEeprom("addr-"+name, "bios", []byte(source), nil, "")
	return machine.NewComputer(name+"-addr", name, 64*1024, 16, []component.Component{eeprom}, "")
}

func startServer(t *testing.T, computers []*machine.Computer) (string, context.CancelFunc) {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "occore.sock")
	srv := NewServer(sock, "")
	srv.SetComputers(computers)

	ctx, cancel := context.WithCancel(context.Background())
	go srv.ListenAndServe(ctx)
	waitForSocket(t, sock)
	return sock, cancel
}

func TestListComputersReturnsSummaries(t *testing.T) {
	c := bootComputer(t, "main", `computer.pushSignal("boot")`)
	sock, cancel := startServer(t, []*machine.Computer{c})
	defer cancel()

	resp, err := newClient(sock).Get("http://unix/computers")
	if err != nil {
		t.Fatalf("GET /computers: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out []computerSummary
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].Name != "main" {
		t.Fatalf("got %+v", out)
	}
}

func TestGetComputerIncludesComponents(t *testing.T) {
	c := bootComputer(t, "main", `computer.pushSignal("boot")`)
	sock, cancel := startServer(t, []*machine.Computer{c})
	defer cancel()

	resp, err := newClient(sock).Get("http://unix/computers/main")
	if err != nil {
		t.Fatalf("GET /computers/main: %v", err)
	}
	defer resp.Body.Close()
	var out struct {
		Name       string `json:"name"`
		Components []struct {
			Type string `json:"type"`
		} `json:"components"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Components) != 1 || out.Components[0].Type != "eeprom" {
		t.Fatalf("got %+v", out)
	}
}

func TestGetComputerUnknownNameReturns404(t *testing.T) {
	sock, cancel := startServer(t, nil)
	defer cancel()

	resp, err := newClient(sock).Get("http://unix/computers/ghost")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestPushSignalDeliversToQueue(t *testing.T) {
	c := bootComputer(t, "main", "")
	sock, cancel := startServer(t, []*machine.Computer{c})
	defer cancel()

	body, _ := json.Marshal([]any{"key_down", 65, true})
	resp, err := newClient(sock).Post("http://unix/computers/main/signals", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	values, ok := c.PullSignal(nil)
	if !ok {
		t.Fatal("expected a signal to be queued")
	}
	if len(values) != 3 || values[0].Str != "key_down" || values[1].Num != 65 || !values[2].Bool {
		t.Fatalf("got %+v", values)
	}
}
