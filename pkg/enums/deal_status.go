package enums

import "fmt"

// DealStatus tracks a deal record's lifecycle in the index.
type DealStatus string

const (
	DealStatusIncoming   DealStatus = "incoming"
	DealStatusProcessing DealStatus = "processing"
	DealStatusCompleted  DealStatus = "completed"
	DealStatusRejected   DealStatus = "rejected"
)

var validDealStatuses = []DealStatus{
	DealStatusIncoming,
	DealStatusProcessing,
	DealStatusCompleted,
	DealStatusRejected,
}

// String implements fmt.Stringer.
func (d DealStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DealStatus.
func (d DealStatus) IsValid() bool {
	for _, candidate := range validDealStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDealStatus converts raw input into a DealStatus.
func ParseDealStatus(value string) (DealStatus, error) {
	for _, candidate := range validDealStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deal status %q", value)
}
