package domain

// PassCreditsTotal is one free inspection plus four paid ones.
const PassCreditsTotal = 5

// Entitlement is the HuntSmart Pass state of a profile.
type Entitlement struct {
	Active           bool `json:"active"`
	CreditsRemaining int  `json:"creditsRemaining"`
	CreditsTotal     int  `json:"creditsTotal"`
}

// InactiveEntitlement is the implicit state before any purchase.
func InactiveEntitlement() Entitlement {
	return Entitlement{CreditsTotal: PassCreditsTotal}
}

// Normalize clamps CreditsRemaining into [0, CreditsTotal].
func (e Entitlement) Normalize() Entitlement {
	e.CreditsTotal = PassCreditsTotal
	if e.CreditsRemaining < 0 {
		e.CreditsRemaining = 0
	}
	if e.CreditsRemaining > e.CreditsTotal {
		e.CreditsRemaining = e.CreditsTotal
	}
	if !e.Active {
		e.CreditsRemaining = 0
	}
	return e
}
