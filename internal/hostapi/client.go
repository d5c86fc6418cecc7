package hostapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
)

// Client talks to a running Server over its Unix control socket.
// Grounded in the teacher's internal/transport.Client: same
// DialContext-to-a-fixed-socket http.Client, same get/post helpers
// against a dummy "http://occore" base URL.
type Client struct {
	socketPath string
	http       *http.Client
}

func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					return net.Dial("unix", socketPath)
				},
			},
		},
	}
}

// ComputerSummary mirrors the server's computerSummary wire shape.
type ComputerSummary struct {
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	Uptime          float64 `json:"uptime"`
	TotalMem        int64   `json:"total_memory"`
	FreeMem         int64   `json:"free_memory"`
	RebootRequested bool    `json:"reboot_requested"`
}

// ComponentSummary mirrors the server's componentSummary wire shape.
type ComponentSummary struct {
	Address string   `json:"address"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Methods []string `json:"methods"`
}

// ComputerDetail is a ComputerSummary plus its attached components.
type ComputerDetail struct {
	ComputerSummary
	Components []ComponentSummary `json:"components"`
}

func (c *Client) ListComputers() ([]ComputerSummary, error) {
	resp, err := c.get("/computers")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}
	var out []ComputerSummary
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func (c *Client) GetComputer(name string) (*ComputerDetail, error) {
	resp, err := c.get("/computers/" + name)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}
	var out ComputerDetail
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// PushSignal delivers a flat list of scalar arguments (nil, bool,
// float64, string) as a signal to the named computer's queue.
func (c *Client) PushSignal(name string, args []any) error {
	body, err := json.Marshal(args)
	if err != nil {
		return err
	}
	resp, err := c.post("/computers/"+name+"/signals", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp, http.StatusOK)
}

func (c *Client) get(path string) (*http.Response, error) {
	return c.http.Get("http://occore" + path)
}

func (c *Client) post(path string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	return c.http.Post("http://occore"+path, "application/json", r)
}

func checkStatus(resp *http.Response, expected int) error {
	if resp.StatusCode == expected {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, errResp.Error)
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
}
