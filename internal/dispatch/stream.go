package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aidline/aidline/internal/logging"
)

// EventsPathFormat is the dispatcher endpoint serving a request's status
// feed over websocket.
const EventsPathFormat = "/v1/requests/%s/events"

// handshakeTimeout bounds the websocket dial
const handshakeTimeout = 10 * time.Second

// StatusStream follows the dispatcher's status feed for one request.
type StatusStream struct {
	conn *websocket.Conn

	// Events carries status updates until the feed closes
	Events chan StatusEvent
}

// Follow connects to the dispatcher's status feed for the given request and
// starts a reader goroutine. The Events channel is closed when the feed
// ends, the connection drops, or ctx is cancelled.
//
// Simulated-mode clients have no feed to follow and return an error.
func (c *Client) Follow(ctx context.Context, requestID string) (*StatusStream, error) {
	if c.Simulated() {
		return nil, fmt.Errorf("status feed unavailable: no dispatch endpoint configured")
	}

	feedURL, err := c.eventsURL(requestID)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to status feed: %w", err)
	}

	logging.Info("Status feed connected",
		zap.String("request_id", requestID),
		zap.String("url", feedURL),
	)

	stream := &StatusStream{
		conn:   conn,
		Events: make(chan StatusEvent),
	}

	go stream.readLoop(ctx)

	return stream, nil
}

// eventsURL converts the client's HTTP base URL into the websocket feed URL
func (c *Client) eventsURL(requestID string) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid dispatch base URL: %w", err)
	}

	switch base.Scheme {
	case "http":
		base.Scheme = "ws"
	case "https":
		base.Scheme = "wss"
	case "ws", "wss":
		// already a websocket URL
	default:
		return "", fmt.Errorf("unsupported dispatch URL scheme: %q", base.Scheme)
	}

	base.Path = strings.TrimSuffix(base.Path, "/") + fmt.Sprintf(EventsPathFormat, url.PathEscape(requestID))
	return base.String(), nil
}

// readLoop reads status events until the connection closes or ctx ends
func (s *StatusStream) readLoop(ctx context.Context) {
	defer close(s.Events)
	defer func() { _ = s.conn.Close() }()

	// Close the connection when the context ends so ReadJSON unblocks
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.conn.Close()
		case <-done:
		}
	}()

	for {
		var event StatusEvent
		if err := s.conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Warn("Status feed closed unexpectedly", zap.Error(err))
			}
			return
		}

		select {
		case s.Events <- event:
		case <-ctx.Done():
			return
		}
	}
}

// Close terminates the feed connection. The Events channel closes shortly
// after.
func (s *StatusStream) Close() error {
	return s.conn.Close()
}
