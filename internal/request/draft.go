package request

import (
	"strings"
	"time"
)

// EmergencyType identifies the category of emergency being reported.
type EmergencyType string

const (
	TypeCardiac     EmergencyType = "cardiac"
	TypeAccident    EmergencyType = "accident"
	TypeBreathing   EmergencyType = "breathing"
	TypeUnconscious EmergencyType = "unconscious"
	TypeBleeding    EmergencyType = "bleeding"
	TypeOther       EmergencyType = "other"
)

// EmergencyTypes lists all selectable emergency types in display order.
var EmergencyTypes = []EmergencyType{
	TypeCardiac,
	TypeAccident,
	TypeBreathing,
	TypeUnconscious,
	TypeBleeding,
	TypeOther,
}

// EmergencyTypeLabels maps emergency type identifiers to human-readable names.
var EmergencyTypeLabels = map[EmergencyType]string{
	TypeCardiac:     "Cardiac arrest / chest pain",
	TypeAccident:    "Traffic accident / trauma",
	TypeBreathing:   "Breathing difficulty",
	TypeUnconscious: "Unconscious person",
	TypeBleeding:    "Severe bleeding",
	TypeOther:       "Other medical emergency",
}

// Label returns the human-readable name for an emergency type.
// Unknown types are returned as-is.
func (t EmergencyType) Label() string {
	if label, ok := EmergencyTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Draft is the in-memory, unsaved ambulance request being composed by the
// user. It exists only while the request dialog is open: created empty when
// the dialog opens, mutated by user input or the location helper, validated
// at submit time, and discarded after a successful submission or cancel.
type Draft struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	EmergencyType string `json:"emergency_type"`
	Location      string `json:"location"`
	Description   string `json:"description,omitempty"`
}

// Reset clears all fields, returning the draft to its initial empty state.
func (d *Draft) Reset() {
	*d = Draft{}
}

// IsEmpty reports whether every field of the draft is blank.
func (d *Draft) IsEmpty() bool {
	return strings.TrimSpace(d.Name) == "" &&
		strings.TrimSpace(d.Phone) == "" &&
		strings.TrimSpace(d.EmergencyType) == "" &&
		strings.TrimSpace(d.Location) == "" &&
		strings.TrimSpace(d.Description) == ""
}

// Submission is the payload sent to the dispatch service: the validated
// draft plus client-side metadata.
type Submission struct {
	Draft
	SubmittedAt time.Time `json:"submitted_at"`
	Source      string    `json:"source"` // client identifier, e.g. "aidline-cli"
}
