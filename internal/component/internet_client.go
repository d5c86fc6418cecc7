package component

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
)

// HTTPClient is the default interfaces.InternetClient: net/http for
// one-shot requests, coder/websocket for a persistent duplex stream when
// the target looks like a websocket URL, otherwise a raw TCP dial —
// SPEC_FULL.md §2.6's concrete implementation of the Internet
// component's boundary interface.
type HTTPClient struct {
	HTTP *http.Client
}

func NewHTTPClient() *HTTPClient {
	return &HTTPClient{HTTP: &http.Client{Timeout: 30 * time.Second}}
}

func (c *HTTPClient) Request(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, internetMaxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func (c *HTTPClient) Connect(ctx context.Context, address string, port int) (io.ReadWriteCloser, error) {
	if strings.HasPrefix(address, "ws://") || strings.HasPrefix(address, "wss://") {
		conn, _, err := websocket.Dial(ctx, address, nil)
		if err != nil {
			return nil, err
		}
		return &wsConn{ctx: ctx, conn: conn}, nil
	}
	return net.Dial("tcp", fmt.Sprintf("%s:%d", address, port))
}

// wsConn adapts a coder/websocket connection to io.ReadWriteCloser so
// the Internet component's descriptor table can treat it the same as a
// raw TCP connection.
type wsConn struct {
	ctx  context.Context
	conn *websocket.Conn
	buf  []byte
}

func (w *wsConn) Read(p []byte) (int, error) {
	for len(w.buf) == 0 {
		_, data, err := w.conn.Read(w.ctx)
		if err != nil {
			return 0, err
		}
		w.buf = data
	}
	n := copy(p, w.buf)
	w.buf = w.buf[n:]
	return n, nil
}

func (w *wsConn) Write(p []byte) (int, error) {
	if err := w.conn.Write(w.ctx, websocket.MessageBinary, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsConn) Close() error {
	return w.conn.Close(websocket.StatusNormalClosure, "")
}
