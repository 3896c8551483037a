package enums

import "fmt"

// JourneyStatus is the overall state of a deal's analysis journey,
// derived from the most recent audit log entry.
type JourneyStatus string

const (
	JourneyStatusActive    JourneyStatus = "ACTIVE"
	JourneyStatusCompleted JourneyStatus = "COMPLETED"
	JourneyStatusRejected  JourneyStatus = "REJECTED"
	JourneyStatusOnHold    JourneyStatus = "ON_HOLD"
)

var validJourneyStatuses = []JourneyStatus{
	JourneyStatusActive,
	JourneyStatusCompleted,
	JourneyStatusRejected,
	JourneyStatusOnHold,
}

// String implements fmt.Stringer.
func (j JourneyStatus) String() string {
	return string(j)
}

// IsValid reports whether the value is a known JourneyStatus.
func (j JourneyStatus) IsValid() bool {
	for _, candidate := range validJourneyStatuses {
		if candidate == j {
			return true
		}
	}
	return false
}

// ParseJourneyStatus converts raw input into a JourneyStatus.
func ParseJourneyStatus(value string) (JourneyStatus, error) {
	for _, candidate := range validJourneyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid journey status %q", value)
}
