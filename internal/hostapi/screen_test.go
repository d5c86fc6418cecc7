package hostapi

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/occore/occore/internal/interfaces"
	"github.com/occore/occore/internal/machine"
)

func freeTCPAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func TestScreenStreamSendsSnapshotThenBlit(t *testing.T) {
	c := bootComputer(t, "main", "")
	addr := freeTCPAddr(t)
	srv := NewServer(t.TempDir()+"/occore.sock", addr)
	window := srv.ScreenWindow("screen0")
	srv.SetComputers([]*machine.Computer{c})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.ListenAndServe(ctx)
	waitForTCP(t, addr)

	window.Resize(2, 1)
	window.Blit([]interfaces.Cell{{X: 0, Y: 0, Codepoint: 'A', Foreground: 0xffffff}})

	conn, _, err := websocket.Dial(context.Background(), "ws://"+addr+"/computers/screen0/screen", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	var resizeFrame frame
	readFrame(t, conn, &resizeFrame)
	if resizeFrame.Type != "resize" || resizeFrame.W != 2 || resizeFrame.H != 1 {
		t.Fatalf("got %+v", resizeFrame)
	}

	var blitFrame frame
	readFrame(t, conn, &blitFrame)
	if blitFrame.Type != "blit" || len(blitFrame.Cells) != 1 || blitFrame.Cells[0].Codepoint != 'A' {
		t.Fatalf("got %+v", blitFrame)
	}

	window.Blit([]interfaces.Cell{{X: 1, Y: 0, Codepoint: 'B'}})
	var liveFrame frame
	readFrame(t, conn, &liveFrame)
	if liveFrame.Type != "blit" || len(liveFrame.Cells) != 1 || liveFrame.Cells[0].Codepoint != 'B' {
		t.Fatalf("got %+v", liveFrame)
	}
}

func TestScreenStreamUnknownScreenReturnsNotFound(t *testing.T) {
	addr := freeTCPAddr(t)
	srv := NewServer(t.TempDir()+"/occore.sock", addr)
	srv.SetComputers(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.ListenAndServe(ctx)
	waitForTCP(t, addr)

	_, _, err := websocket.Dial(context.Background(), "ws://"+addr+"/computers/ghost/screen", nil)
	if err == nil {
		t.Fatal("expected dial to fail for an unknown screen")
	}
}

func waitForTCP(t *testing.T, addr string) {
	t.Helper()
	for i := 0; i < 200; i++ {
		conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("tcp listener did not start in time")
}

func readFrame(t *testing.T, conn *websocket.Conn, out *frame) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
}
