package ipc

import (
	"encoding/json"
	"errors"
	"net/http"
)

// CommandHandler executes module commands received over IPC.
type CommandHandler interface {
	Command(cmd string) error
}

type CommandHandlerFunc func(cmd string) error

func (f CommandHandlerFunc) Command(cmd string) error {
	return f(cmd)
}

type serverImpl struct {
	handler CommandHandler
}

func NewServer(handler CommandHandler) *http.Server {
	s := serverImpl{handler: handler}
	return &http.Server{
		Handler: s.createHandler(),
	}
}

func (s *serverImpl) createHandler() http.Handler {
	m := http.NewServeMux()
	m.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("The given path is not valid"))
	})
	m.HandleFunc(PingPath, s.makeSimpleEndpointHandler(func() error { return nil }))
	m.HandleFunc(CommandPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.writeErr(w, http.StatusMethodNotAllowed, errors.New("commands must be POSTed"))
			return
		}
		cmd := r.URL.Query().Get("c")
		if cmd == "" {
			s.writeErr(w, http.StatusBadRequest, errors.New("missing command"))
			return
		}
		s.writeSimpleResponse(w, s.handler.Command(cmd))
	})
	return m
}

func (s *serverImpl) makeSimpleEndpointHandler(f func() error) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeSimpleResponse(w, f())
	}
}

func (s *serverImpl) writeSimpleResponse(w http.ResponseWriter, err error) {
	if err == nil {
		s.writeOK(w)
	} else {
		s.writeErr(w, http.StatusInternalServerError, err)
	}
}

func (s *serverImpl) writeOK(w http.ResponseWriter) (int, error) {
	var r Response
	b, err := json.Marshal(&r)
	if err != nil {
		return 0, err
	}
	return w.Write(b)
}

func (s *serverImpl) writeErr(w http.ResponseWriter, status int, err error) (int, error) {
	r := Response{Error: err.Error()}
	b, err := json.Marshal(&r)
	if err != nil {
		return 0, err
	}
	w.WriteHeader(status)
	return w.Write(b)
}
