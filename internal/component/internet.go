package component

import (
	"context"
	"io"

	"github.com/occore/occore/internal/interfaces"
	"github.com/occore/occore/internal/signal"
)

const internetMaxResponseBytes = 1 << 20 // cap response bodies, same spirit as EEPROM/Filesystem bounded reads

// Internet gives the Internet component variant a real backing
// implementation (SPEC_FULL.md §2.6) behind the interfaces.InternetClient
// boundary: a one-shot HTTP request method and a persistent duplex
// connection method, both size-bounded like the EEPROM and Filesystem
// read methods (request bodies at internetMaxResponseBytes, connection
// reads at filesystemMaxBufferSize) so a guest can't force unbounded
// host memory growth through the network.
type Internet struct {
	address string
	name    string
	client  interfaces.InternetClient

	conns     []io.ReadWriteCloser
	freeConns []int
}

func NewInternet(address, name string, client interfaces.InternetClient) *Internet {
	return &Internet{address: address, name: name, client: client}
}

func (i *Internet) Address() string { return i.address }
func (i *Internet) Name() string    { return i.name }
func (i *Internet) Type() string    { return "internet" }

func (i *Internet) Methods() []string {
	return []string{"request", "connect", "read", "write", "close"}
}

func (i *Internet) Invoke(owner Owner, method string, args []signal.Value) ([]signal.Value, error) {
	switch method {
	case "request":
		return i.request(args)
	case "connect":
		return i.connect(args)
	case "read":
		return i.read(args)
	case "write":
		return i.write(args)
	case "close":
		return i.closeConn(args)
	default:
		return nil, NewGuestError("internet: no such method: %s", method)
	}
}

func (i *Internet) request(args []signal.Value) ([]signal.Value, error) {
	url, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	status, body, reqErr := i.client.Request(context.Background(), url)
	if reqErr != nil {
		return []signal.Value{signal.Bool(false), signal.String(reqErr.Error())}, nil
	}
	if len(body) > internetMaxResponseBytes {
		body = body[:internetMaxResponseBytes]
	}
	return []signal.Value{signal.Bool(true), signal.Number(float64(status)), signal.String(string(body))}, nil
}

func (i *Internet) connect(args []signal.Value) ([]signal.Value, error) {
	address, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	port, err := argNumber(args, 1)
	if err != nil {
		return nil, err
	}
	conn, connErr := i.client.Connect(context.Background(), address, int(port))
	if connErr != nil {
		return []signal.Value{signal.Bool(false), signal.String(connErr.Error())}, nil
	}

	idx := len(i.conns)
	if n := len(i.freeConns); n > 0 {
		idx = i.freeConns[0]
		i.freeConns = i.freeConns[1:]
		i.conns[idx] = conn
	} else {
		i.conns = append(i.conns, conn)
	}
	return []signal.Value{signal.Number(float64(idx))}, nil
}

func (i *Internet) connAt(h int) (io.ReadWriteCloser, error) {
	if h < 0 || h >= len(i.conns) || i.conns[h] == nil {
		return nil, NewGuestError("internet: invalid connection handle: %d", h)
	}
	return i.conns[h], nil
}

func (i *Internet) read(args []signal.Value) ([]signal.Value, error) {
	h, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	n, err := argNumber(args, 1)
	if err != nil {
		return nil, err
	}
	conn, err := i.connAt(int(h))
	if err != nil {
		return nil, err
	}
	want := int(n)
	if want <= 0 {
		want = filesystemMaxBufferSize
	}
	if want > filesystemMaxBufferSize {
		want = filesystemMaxBufferSize
	}
	buf := make([]byte, want)
	read, readErr := conn.Read(buf)
	if read == 0 && readErr != nil {
		return nil, nil
	}
	return []signal.Value{signal.String(string(buf[:read]))}, nil
}

func (i *Internet) write(args []signal.Value) ([]signal.Value, error) {
	h, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	data, err := argString(args, 1)
	if err != nil {
		return nil, err
	}
	conn, err := i.connAt(int(h))
	if err != nil {
		return nil, err
	}
	_, writeErr := conn.Write([]byte(data))
	return []signal.Value{signal.Bool(writeErr == nil)}, nil
}

func (i *Internet) closeConn(args []signal.Value) ([]signal.Value, error) {
	h, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	idx := int(h)
	conn, err := i.connAt(idx)
	if err != nil {
		return nil, err
	}
	conn.Close()
	i.conns[idx] = nil
	i.freeConns = append(i.freeConns, idx)
	return []signal.Value{signal.Bool(true)}, nil
}
