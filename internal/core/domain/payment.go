package domain

// PaymentStage is the step of the simulated pass checkout.
type PaymentStage string

const (
	PaymentDetails    PaymentStage = "details"
	PaymentProcessing PaymentStage = "processing"
	PaymentSuccess    PaymentStage = "success"
	PaymentDone       PaymentStage = "done"
	PaymentClosed     PaymentStage = "closed"
)

var validPaymentTransitions = map[PaymentStage][]PaymentStage{
	PaymentDetails:    {PaymentProcessing, PaymentClosed},
	PaymentProcessing: {PaymentSuccess, PaymentClosed},
	PaymentSuccess:    {PaymentDone},
}

// CanTransitionTo reports whether s may move to next.
func (s PaymentStage) CanTransitionTo(next PaymentStage) bool {
	for _, allowed := range validPaymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the workflow is torn down.
func (s PaymentStage) Terminal() bool {
	return s == PaymentDone || s == PaymentClosed
}

// PassPrice is the cosmetic price shown at checkout, in naira.
const PassPrice int64 = 2000
