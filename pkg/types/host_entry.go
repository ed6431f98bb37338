package types

import (
	"time"
)

// Host statuses as written to JSON output
const (
	StatusUp    = "up"
	StatusDown  = "down"
	StatusError = "error"
)

// HostEntry represents the result for a single address of a scan
type HostEntry struct {
	// Required fields
	ScanID    string `json:"scan_id"`
	Device    string `json:"device"`
	IP        string `json:"ip"`
	Status    string `json:"status"`
	Probe     string `json:"probe"`
	Timestamp string `json:"timestamp"` // RFC3339 format date-time

	// Optional fields
	Port  uint16  `json:"port,omitempty"` // connect probes only
	Role  string  `json:"role,omitempty"` // shortcut role, or network for subnet edges
	MAC   string  `json:"mac,omitempty"`  // from the neighbour cache, up hosts only
	Error *string `json:"error,omitempty"`
}

// Validate checks if the entry has all required fields populated
func (e *HostEntry) Validate() error {
	if e.ScanID == "" {
		return &ValidationError{Field: "scan_id", Message: "scan_id is required"}
	}
	if e.IP == "" {
		return &ValidationError{Field: "ip", Message: "ip is required"}
	}
	switch e.Status {
	case StatusUp, StatusDown, StatusError:
	default:
		return &ValidationError{Field: "status", Message: "status must be one of up, down, error"}
	}
	if e.Status == StatusError && e.Error == nil {
		return &ValidationError{Field: "error", Message: "error is required for error status"}
	}
	if e.Timestamp == "" {
		return &ValidationError{Field: "timestamp", Message: "timestamp is required"}
	}
	return nil
}

// SetTimestamp sets the timestamp from a time.Time value
func (e *HostEntry) SetTimestamp(t time.Time) {
	e.Timestamp = t.Format(time.RFC3339)
}

// SetError sets the error field
func (e *HostEntry) SetError(err string) {
	e.Error = &err
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
