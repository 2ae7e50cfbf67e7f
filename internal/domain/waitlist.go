package domain

import "time"

// Waitlist entry statuses. Entries start pending and move to confirmed
// once a deposit payment has been verified.
const (
	WaitlistStatusPending   = "pending"
	WaitlistStatusConfirmed = "confirmed"
)

// WaitlistEntry is the one persistent record in the system, keyed by email
type WaitlistEntry struct {
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WaitlistRequest is the signup request body
type WaitlistRequest struct {
	Email  string `json:"email"`
	Status string `json:"status,omitempty"`
}

// CheckoutRequest opens a hosted checkout session for the waitlist deposit
type CheckoutRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// VerifySessionRequest asks the provider for the state of a checkout session
type VerifySessionRequest struct {
	SessionID string `json:"sessionId"`
}
