package domain

type SessionState string

const (
	SessionStateBuilding      SessionState = "building"
	SessionStateReviewPending SessionState = "review_pending"
	SessionStateClosed        SessionState = "closed"
)

var transitions = map[SessionState][]SessionState{
	SessionStateBuilding:      {SessionStateReviewPending},
	SessionStateReviewPending: {SessionStateBuilding, SessionStateClosed},
	SessionStateClosed:        {SessionStateBuilding},
}

func CanTransitionTo(from, to SessionState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsEditable reports whether cart, customer and payment may change.
func (s SessionState) IsEditable() bool {
	return s == SessionStateBuilding
}

// String representation (for logging)
func (s SessionState) String() string {
	return string(s)
}
