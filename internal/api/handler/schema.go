package handler

import (
	"time"

	"github.com/huntsmart/client-engine/internal/core/domain"
	"github.com/huntsmart/client-engine/internal/core/service"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Session ---

type signUpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"  validate:"omitempty,max=80"`
}

type signUpResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	ProfileID string          `json:"profileId"`
	Session   *domain.Session `json:"session"`
}

type sessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	Session       *domain.Session `json:"session,omitempty"`
}

type updateSessionRequest struct {
	Name             *string `json:"name"             validate:"omitempty,min=1,max=80"`
	Email            *string `json:"email"            validate:"omitempty,email"`
	Avatar           *string `json:"avatar"           validate:"omitempty,url"`
	HasHuntSmartPass *bool   `json:"hasHuntSmartPass"`
	HuntSmartTokens  *int    `json:"huntSmartTokens"  validate:"omitempty,min=0"`
}

func (r updateSessionRequest) toPatch() domain.SessionPatch {
	return domain.SessionPatch{
		Name:             r.Name,
		Email:            r.Email,
		Avatar:           r.Avatar,
		HasHuntSmartPass: r.HasHuntSmartPass,
		HuntSmartTokens:  r.HuntSmartTokens,
	}
}

// --- Role selection ---

type roleSelectionResponse struct {
	Required bool          `json:"required"`
	Role     domain.Role   `json:"role"`
	Options  []domain.Role `json:"options"`
}

type chooseRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=client agent landlord"`
}

type chooseRoleResponse struct {
	Redirect string          `json:"redirect"`
	Session  *domain.Session `json:"session"`
}

// --- Checkout ---

type submitPaymentRequest struct {
	CardholderName string `json:"cardholderName" validate:"required"`
	CardNumber     string `json:"cardNumber"     validate:"required,min=12,max=19"`
	Expiry         string `json:"expiry"         validate:"required"`
	CVC            string `json:"cvc"            validate:"required,min=3,max=4"`
}

func (r submitPaymentRequest) toDetails() service.PaymentDetails {
	return service.PaymentDetails{
		CardholderName: r.CardholderName,
		CardNumber:     r.CardNumber,
		Expiry:         r.Expiry,
		CVC:            r.CVC,
	}
}

// --- Verification ---

type setCodeRequest struct {
	Code string `json:"code" validate:"max=32"`
}

// --- Claims ---

type claimsResponse struct {
	Claims      []domain.ClaimRecord `json:"claims"`
	TotalEarned int64                `json:"totalEarned"`
	Currency    string               `json:"currency"`
}

// --- Stream ---

type streamFrame struct {
	Session     *domain.Session    `json:"session"`
	Entitlement domain.Entitlement `json:"entitlement"`
}
