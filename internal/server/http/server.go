// Package httpserver exposes the motd API over HTTP/JSON.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/motd/internal/errs"
	"github.com/and161185/motd/internal/model"
	"github.com/and161185/motd/internal/requestid"
	"github.com/and161185/motd/internal/service"
)

const (
	// Challenge is the WWW-Authenticate value sent on every rejection.
	Challenge = `Basic realm="motd"`

	internalMsg  = "internal error"
	maxBodyBytes = 64 << 10
)

// MessageResponse is the JSON form of a stored message.
type MessageResponse struct {
	ID        int64     `json:"id"`
	Motd      string    `json:"motd"`
	Creator   string    `json:"creator"`
	CreatedAt time.Time `json:"created_at"`
}

// EmptyResponse is returned by GET /motd when nothing has been written yet.
type EmptyResponse struct {
	Empty bool `json:"empty"`
}

// WriteRequest is the POST /motd body.
type WriteRequest struct {
	Motd string `json:"motd"`
}

// ErrorResponse carries a caller-safe description of a failure.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Server serves the motd HTTP API.
type Server struct {
	motd service.MotdService
	log  *zap.Logger
}

// New constructs the HTTP transport.
func New(motd service.MotdService, log *zap.Logger) *Server {
	return &Server{motd: motd, log: log}
}

// Handler returns the routed handler wrapped in recovery, request id and access log middleware:
// - GET /motd: random message
// - POST /motd: append a message (Basic auth userid:code)
// - GET /healthz: liveness.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /motd", s.HandleRead)
	mux.HandleFunc("POST /motd", s.HandleWrite)
	mux.HandleFunc("GET /healthz", s.HandleHealth)
	return Chain(mux, RequestID(), AccessLog(s.log), Recover(s.log))
}

// HandleRead serves GET /motd.
func (s *Server) HandleRead(w http.ResponseWriter, r *http.Request) {
	m, ok, err := s.motd.ReadMotd(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, EmptyResponse{Empty: true})
		return
	}
	writeJSON(w, http.StatusOK, toResponse(m))
}

// HandleWrite serves POST /motd.
func (s *Server) HandleWrite(w http.ResponseWriter, r *http.Request) {
	userID, code, ok := r.BasicAuth()
	if !ok {
		s.fail(w, r, errs.ErrInvalidCredentials)
		return
	}

	// An unreadable body goes through as empty text so credentials are
	// checked first and nothing is stored.
	var req WriteRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decodeErr := dec.Decode(&req)
	if decodeErr != nil {
		req = WriteRequest{}
	}

	m, err := s.motd.WriteMotd(r.Context(), userID, code, req.Motd)
	if decodeErr != nil && !errors.Is(err, errs.ErrInvalidCredentials) {
		writeError(w, http.StatusUnprocessableEntity, "body must be a JSON object with a motd string")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(m))
}

// HandleHealth serves GET /healthz.
func (s *Server) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", Challenge)
		writeError(w, http.StatusUnauthorized, errs.ErrInvalidCredentials.Error())
	case errors.Is(err, errs.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.log.Error("request failed", zap.Error(err), zap.String("request_id", requestid.From(r.Context())))
		writeError(w, http.StatusInternalServerError, internalMsg)
	}
}

func toResponse(m model.Message) MessageResponse {
	return MessageResponse{ID: m.ID, Motd: m.Text, Creator: m.Creator, CreatedAt: m.CreatedAt}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, ErrorResponse{Detail: detail})
}
