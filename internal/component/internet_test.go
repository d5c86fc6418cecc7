package component

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/occore/occore/internal/signal"
)

// fakeConn is a minimal io.ReadWriteCloser double standing in for a
// dialed TCP connection in connect/read/write/close tests.
type fakeConn struct {
	r      *strings.Reader
	closed bool
}

func (c *fakeConn) Read(p []byte) (int, error)  { return c.r.Read(p) }
func (c *fakeConn) Write(p []byte) (int, error) { return len(p), nil }
func (c *fakeConn) Close() error                { c.closed = true; return nil }

// fakeInternetClient is a double for interfaces.InternetClient that
// hands back a fixed fakeConn from Connect, avoiding a real socket.
type fakeInternetClient struct {
	conn *fakeConn
}

func (c *fakeInternetClient) Request(ctx context.Context, url string) (int, []byte, error) {
	return 200, []byte("ok"), nil
}

func (c *fakeInternetClient) Connect(ctx context.Context, address string, port int) (io.ReadWriteCloser, error) {
	return c.conn, nil
}

func newTestInternet(body string) *Internet {
	client := &fakeInternetClient{conn: &fakeConn{r: strings.NewReader(body)}}
	return NewInternet("net1", "net0", client)
}

func TestInternetReadNonPositiveCountClampsToMax(t *testing.T) {
	owner := &fakeOwner{}
	i := newTestInternet("hello")

	connOut, err := i.Invoke(owner, "connect", []signal.Value{signal.String("example.com"), signal.Number(80)})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	handle := connOut[0]

	for _, n := range []float64{0, -1} {
		readOut, err := i.Invoke(owner, "read", []signal.Value{handle, signal.Number(n)})
		if err != nil {
			t.Fatalf("read with n=%v: %v", n, err)
		}
		if readOut[0].Str != "hello" {
			t.Errorf("read with n=%v: got %q, want %q", n, readOut[0].Str, "hello")
		}
		// reset the reader for the next iteration.
		i.conns[int(handle.Num)].(*fakeConn).r = strings.NewReader("hello")
	}
}
