package dispatch

import "time"

// Receipt is the dispatch service's acknowledgement of an accepted request.
type Receipt struct {
	// ID is the incident identifier assigned by the dispatcher
	ID string `json:"id"`

	// AcceptedAt is when the dispatcher recorded the request
	AcceptedAt time.Time `json:"accepted_at"`

	// ETAMinutes is the estimated minutes until a unit arrives (0 = unknown)
	ETAMinutes int `json:"eta_minutes,omitempty"`

	// Simulated is true when the receipt came from the simulated transport
	// rather than a real dispatch endpoint
	Simulated bool `json:"simulated,omitempty"`
}

// Status values a request moves through after acceptance.
const (
	StatusReceived = "received"
	StatusAssigned = "assigned"
	StatusEnRoute  = "en_route"
	StatusArrived  = "arrived"
	StatusClosed   = "closed"
)

// StatusEvent is one update on a request's status feed.
type StatusEvent struct {
	RequestID string    `json:"request_id"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
