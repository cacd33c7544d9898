package ipc

import (
	"fmt"
	"net/url"
)

const (
	PingPath    = "/ping"
	CommandPath = "/command" // ?c=<command identifier>
)

type Response struct {
	Error string `json:"error"`
}

func BuildCommandPath(cmd string) string {
	return fmt.Sprintf("%s?c=%s", CommandPath, url.QueryEscape(cmd))
}
