package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var ErrPingFail = errors.New("ping failed")

type Client struct {
	httpC http.Client
}

// Connect attempts to connect to the IPC socket as client.
func Connect() (*Client, error) {
	client := &Client{httpC: http.Client{
		Transport: &http.Transport{
			DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
				return Dial()
			},
		},
	}}
	if err := client.Ping(); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *Client) Ping() error {
	if c.makeSimpleRequest(http.MethodGet, PingPath) != nil {
		return ErrPingFail
	}
	return nil
}

// Command asks the running instance to execute a module command.
func (c *Client) Command(cmd string) error {
	return c.makeSimpleRequest(http.MethodPost, BuildCommandPath(cmd))
}

func (c *Client) makeSimpleRequest(method string, path string) error {
	var resp *http.Response
	var err error
	switch method {
	case http.MethodGet:
		resp, err = c.httpC.Get("http://mprisbar" + path)
	case http.MethodPost:
		resp, err = c.httpC.Post("http://mprisbar"+path, "application/json", nil)
	}

	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var r Response
		if err := json.NewDecoder(resp.Body).Decode(&r); err != nil || r.Error == "" {
			return fmt.Errorf("unexpected status %s", resp.Status)
		}
		return errors.New(r.Error)
	}
	return nil
}
