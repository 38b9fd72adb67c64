package specgraph

// Status is the closed lifecycle enumeration for Features and Conditions.
// No total order is assumed between values; the propagation rules decide the
// only meaningful transitions.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusActive      Status = "active"
	StatusNeedsReview Status = "needs-review"
	StatusVerified    Status = "verified"
	StatusDeprecated  Status = "deprecated"
)

// Valid reports whether s is a member of the closed enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusNeedsReview, StatusVerified, StatusDeprecated:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a Status.
// Returns ErrUnknownStatus for anything outside the enumeration.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", ErrUnknownStatus
	}
	return s, nil
}
