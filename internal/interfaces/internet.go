package interfaces

import (
	"context"
	"io"
)

// InternetClient is the network boundary the Internet component invokes
// through, kept separate from net/http and coder/websocket so the
// component's request/connect methods are testable without a socket.
type InternetClient interface {
	Request(ctx context.Context, url string) (status int, body []byte, err error)
	Connect(ctx context.Context, address string, port int) (io.ReadWriteCloser, error)
}
