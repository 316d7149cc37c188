package stubserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aidline/aidline/internal/dispatch"
	"github.com/aidline/aidline/internal/logging"
	"github.com/aidline/aidline/internal/request"
)

// Config holds the stub server configuration
type Config struct {
	Host     string
	Port     int
	LogLevel string

	// EventInterval is the delay between scripted status events on the
	// websocket feed. Short intervals make tests fast.
	EventInterval time.Duration

	// DefaultETAMinutes is reported on every receipt
	DefaultETAMinutes int
}

// Defaults applied by New when Config fields are zero
const (
	DefaultEventInterval = 2 * time.Second
	DefaultETAMinutes    = 8
)

// storedRequest is an accepted request held in memory
type storedRequest struct {
	Submission request.Submission
	Receipt    dispatch.Receipt
}

// Server is the stub dispatch service. It accepts request submissions over
// HTTP and replays a scripted status sequence over a websocket per request.
// Everything is held in memory; restarting the server forgets all requests.
type Server struct {
	config   *Config
	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu       sync.Mutex
	requests map[string]*storedRequest
	wg       sync.WaitGroup
}

// New creates a new stub server instance
func New(config *Config) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	if config.EventInterval <= 0 {
		config.EventInterval = DefaultEventInterval
	}
	if config.DefaultETAMinutes <= 0 {
		config.DefaultETAMinutes = DefaultETAMinutes
	}

	return &Server{
		config:   config,
		requests: make(map[string]*storedRequest),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}, nil
}

// Handler returns the HTTP handler, exposed separately so tests can mount it
// on an httptest server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(dispatch.SubmitPath, s.handleSubmit)
	mux.HandleFunc("/v1/requests/", s.handleEvents)
	return mux
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	logging.Info("Starting stub dispatch server",
		zap.String("addr", addr),
		zap.Duration("event_interval", s.config.EventInterval),
		zap.String("log_level", s.config.LogLevel),
	)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down stub server...")

	if s.httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			logging.Error("Error shutting down HTTP server", zap.Error(err))
		}
	}

	// Wait for event feeds to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All feeds closed gracefully")
	case <-time.After(10 * time.Second):
		logging.Warn("Shutdown timeout after 10 seconds, forcing close")
	}

	logging.Sync()
	return nil
}

// RequestCount returns the number of accepted requests
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// handleSubmit accepts POST /v1/requests
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var submission request.Submission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		logging.Warn("Rejected unparseable submission", zap.Error(err))
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	// Same validation rules the client applies, enforced server-side too
	if result := request.Validate(&submission.Draft); !result.Valid {
		messages := make([]string, len(result.Errors))
		for i, fieldErr := range result.Errors {
			messages[i] = fieldErr.Field + ": " + fieldErr.Message
		}
		logging.Warn("Rejected invalid submission",
			zap.Strings("violations", messages),
		)
		http.Error(w, strings.Join(messages, "; "), http.StatusUnprocessableEntity)
		return
	}

	receipt := dispatch.Receipt{
		ID:         uuid.NewString(),
		AcceptedAt: time.Now().UTC(),
		ETAMinutes: s.config.DefaultETAMinutes,
	}

	s.mu.Lock()
	s.requests[receipt.ID] = &storedRequest{
		Submission: submission,
		Receipt:    receipt,
	}
	s.mu.Unlock()

	logging.Info("Request accepted",
		zap.String("request_id", receipt.ID),
		zap.String("emergency_type", submission.EmergencyType),
		zap.String("source", submission.Source),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(receipt); err != nil {
		logging.Error("Failed to encode receipt", zap.Error(err))
	}
}

// handleEvents upgrades GET /v1/requests/{id}/events to a websocket and
// replays the scripted status sequence
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	requestID, ok := parseEventsPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	_, exists := s.requests[requestID]
	s.mu.Unlock()
	if !exists {
		http.Error(w, "unknown request id", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("Websocket upgrade failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return
	}

	logging.Info("Status feed opened", zap.String("request_id", requestID))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.replayStatusScript(conn, requestID)
	}()
}

// statusScript is the fixed sequence every accepted request moves through
var statusScript = []struct {
	status string
	detail string
}{
	{dispatch.StatusReceived, "Request received by dispatch"},
	{dispatch.StatusAssigned, "Ambulance unit assigned"},
	{dispatch.StatusEnRoute, "Unit en route to your location"},
	{dispatch.StatusArrived, "Unit has arrived"},
	{dispatch.StatusClosed, "Incident closed"},
}

// replayStatusScript pushes the scripted events, then closes the connection
func (s *Server) replayStatusScript(conn *websocket.Conn, requestID string) {
	defer func() {
		_ = conn.Close()
		logging.Info("Status feed closed", zap.String("request_id", requestID))
	}()

	for i, step := range statusScript {
		if i > 0 {
			time.Sleep(s.config.EventInterval)
		}

		event := dispatch.StatusEvent{
			RequestID: requestID,
			Status:    step.status,
			Detail:    step.detail,
			Timestamp: time.Now().UTC(),
		}

		if err := conn.WriteJSON(event); err != nil {
			logging.Info("Feed write failed, client likely disconnected",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			return
		}
	}

	// Polite close after the script completes
	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}

// parseEventsPath extracts the request id from /v1/requests/{id}/events
func parseEventsPath(path string) (string, bool) {
	trimmed := strings.TrimPrefix(path, "/v1/requests/")
	if trimmed == path {
		return "", false
	}
	id, found := strings.CutSuffix(trimmed, "/events")
	if !found || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
