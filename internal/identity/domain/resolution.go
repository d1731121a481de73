package domain

import "github.com/google/uuid"

// Outcome classifies how identity resolution ended for a request.
type Outcome string

const (
	// OutcomeSession means an active session resolved the principal; no rotation ran.
	OutcomeSession Outcome = "session"
	// OutcomeRemembered means a remember-me pair was rotated and a new session created.
	OutcomeRemembered Outcome = "remembered"
	// OutcomeAnonymous means no identity could be established.
	OutcomeAnonymous Outcome = "anonymous"
	// OutcomeSuspectedTheft means a live token arrived with the wrong secret and the
	// owner's credentials and sessions were revoked.
	OutcomeSuspectedTheft Outcome = "suspected_theft"
	// OutcomeStaleUser means the session or credential pointed at a deleted account.
	OutcomeStaleUser Outcome = "stale_user"
)

// Resolution is the result of resolving a request's identity. Principal is nil
// unless Outcome is OutcomeSession or OutcomeRemembered. UserID names the affected
// account for OutcomeSuspectedTheft and OutcomeStaleUser.
type Resolution struct {
	Principal *Principal
	Outcome   Outcome
	UserID    uuid.UUID
}

// Authenticated reports whether the resolution carries a principal.
func (r *Resolution) Authenticated() bool {
	return r != nil && r.Principal != nil
}

// Rejected builds an unauthenticated resolution tied to the account it concerns.
func Rejected(outcome Outcome, userID uuid.UUID) *Resolution {
	return &Resolution{Outcome: outcome, UserID: userID}
}

// Anonymous builds an unauthenticated resolution with the given outcome.
func Anonymous(outcome Outcome) *Resolution {
	return &Resolution{Outcome: outcome}
}
