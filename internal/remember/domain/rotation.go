package domain

import "github.com/google/uuid"

// Outcome classifies the result of presenting a token/secret pair.
type Outcome int

const (
	// OutcomeUnresolved means the pair is absent, stale, expired or lost a rotation race.
	OutcomeUnresolved Outcome = iota
	// OutcomeResolved means the pair matched and was rotated into a fresh pair.
	OutcomeResolved
	// OutcomeSuspectedTheft means a live token was presented with the wrong secret.
	OutcomeSuspectedTheft
)

// String returns the metric/log label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeResolved:
		return "resolved"
	case OutcomeSuspectedTheft:
		return "suspected_theft"
	default:
		return "unresolved"
	}
}

// RotationResult is returned by the rotation engine. UserID is set for Resolved and
// SuspectedTheft; Pair only for Resolved.
type RotationResult struct {
	Outcome Outcome
	UserID  uuid.UUID
	Pair    *Pair
}

// Unresolved builds an Unresolved result.
func Unresolved() RotationResult {
	return RotationResult{Outcome: OutcomeUnresolved}
}

// Resolved builds a Resolved result carrying the successor pair.
func Resolved(userID uuid.UUID, pair *Pair) RotationResult {
	return RotationResult{Outcome: OutcomeResolved, UserID: userID, Pair: pair}
}

// SuspectedTheft builds a SuspectedTheft result for the owner of the presented token.
func SuspectedTheft(userID uuid.UUID) RotationResult {
	return RotationResult{Outcome: OutcomeSuspectedTheft, UserID: userID}
}
