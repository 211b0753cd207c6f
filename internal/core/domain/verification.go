package domain

import "strings"

// VerificationStatus is the state of one booking-code attempt.
type VerificationStatus string

const (
	VerificationIdle      VerificationStatus = "idle"
	VerificationVerifying VerificationStatus = "verifying"
	VerificationValid     VerificationStatus = "valid"
	VerificationInvalid   VerificationStatus = "invalid"
)

// validVerificationTransitions defines the attempt state machine.
var validVerificationTransitions = map[VerificationStatus][]VerificationStatus{
	VerificationIdle:      {VerificationVerifying},
	VerificationVerifying: {VerificationValid, VerificationInvalid},
	VerificationValid:     {VerificationIdle},
	VerificationInvalid:   {VerificationIdle},
}

// CanTransitionTo reports whether s may move to next.
func (s VerificationStatus) CanTransitionTo(next VerificationStatus) bool {
	for _, allowed := range validVerificationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Settled reports whether the attempt reached a terminal outcome.
func (s VerificationStatus) Settled() bool {
	return s == VerificationValid || s == VerificationInvalid
}

const (
	// MinBookingCodeLength guards submission.
	MinBookingCodeLength = 4
	// ClaimPayout is credited to the agent for every verified code, in naira.
	ClaimPayout int64 = 5000
	// PayoutCurrency is the currency of ClaimPayout.
	PayoutCurrency = "NGN"
)

// Booking is the inspection a booking code certifies.
type Booking struct {
	Code     string `json:"code"`
	Claimant string `json:"claimant"`
	Location string `json:"location"`
}

// knownBookings is the fixed set of valid codes, keyed by normalized code.
var knownBookings = map[string]Booking{
	"MEA-AB12": {Code: "MEA-AB12", Claimant: "Chiamaka Eze", Location: "Lekki Phase 1, Lagos"},
	"MEA-CD34": {Code: "MEA-CD34", Claimant: "Tunde Bakare", Location: "Yaba, Lagos"},
	"MEA-EF56": {Code: "MEA-EF56", Claimant: "Amina Lawal", Location: "Wuse 2, Abuja"},
	"MEA-GH78": {Code: "MEA-GH78", Claimant: "Ifeoma Nwosu", Location: "GRA, Port Harcourt"},
}

// NormalizeBookingCode case-folds and trims a presented code.
func NormalizeBookingCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// LookupBooking is the pure, case-insensitive validation rule.
func LookupBooking(code string) (Booking, bool) {
	b, ok := knownBookings[NormalizeBookingCode(code)]
	return b, ok
}
