// Package api implements the wire payloads and the REST client for the
// movement backend. Payloads form a small discriminated union, one
// concrete type per endpoint family, built from a validated draft by an
// exhaustive switch over the movement type.
package api

import (
	"fmt"

	"github.com/osanchezp/casaflow/internal/calculator"
	"github.com/osanchezp/casaflow/internal/draft"
	"github.com/osanchezp/casaflow/internal/models"
)

// Payload is the request body of a create call. The concrete type decides
// the endpoint: MovementPayload goes to POST /movements, IncomePayload to
// POST /income.
type Payload interface {
	payload()
}

// ParticipantPayload is one split participant on the wire. Percentage is a
// fraction in [0, 1].
type ParticipantPayload struct {
	UserID     string  `json:"user_id,omitempty"`
	ContactID  string  `json:"contact_id,omitempty"`
	Percentage float64 `json:"percentage"`
}

// MovementPayload is the body for household, split and debt-payment
// movements.
type MovementPayload struct {
	Type                  models.MovementType  `json:"type"`
	Description           string               `json:"description"`
	Amount                float64              `json:"amount"`
	MovementDate          string               `json:"movement_date"`
	Currency              string               `json:"currency"`
	Category              string               `json:"category,omitempty"`
	PayerUserID           string               `json:"payer_user_id,omitempty"`
	PayerContactID        string               `json:"payer_contact_id,omitempty"`
	PaymentMethodID       string               `json:"payment_method_id,omitempty"`
	CounterpartyUserID    string               `json:"counterparty_user_id,omitempty"`
	CounterpartyContactID string               `json:"counterparty_contact_id,omitempty"`
	Participants          []ParticipantPayload `json:"participants,omitempty"`
}

func (MovementPayload) payload() {}

// IncomePayload is the body for POST /income, a distinct endpoint with its
// own shape.
type IncomePayload struct {
	MemberID    string               `json:"member_id"`
	AccountID   string               `json:"account_id"`
	Type        models.IncomeSubtype `json:"type"`
	Amount      float64              `json:"amount"`
	Description string               `json:"description"`
	IncomeDate  string               `json:"income_date"`
}

func (IncomePayload) payload() {}

// Build validates the draft and converts it into its wire payload.
//
// The loan translation happens here and only here: LEND becomes a SPLIT
// with one synthetic participant (the counterparty) at fraction 1.0, REPAY
// becomes a DEBT_PAYMENT. The backend has no loan concept.
func Build(d *draft.Draft) (Payload, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	switch d.Type {
	case draft.TypeHousehold:
		p := base(d, models.TypeHousehold)
		p.Category = d.CategoryID
		return p, nil

	case draft.TypeSplit:
		p := base(d, models.TypeSplit)
		p.Category = d.CategoryID
		p.Participants = participants(d.Shares)
		return p, nil

	case draft.TypeLoan:
		if d.Direction == draft.DirectionLend {
			p := base(d, models.TypeSplit)
			p.Participants = []ParticipantPayload{participant(d.Counterparty, 1.0)}
			return p, nil
		}
		p := base(d, models.TypeDebtPayment)
		setParty(&p.CounterpartyUserID, &p.CounterpartyContactID, d.Counterparty)
		return p, nil

	case draft.TypeIncome:
		return IncomePayload{
			MemberID:    d.IncomeMemberID,
			AccountID:   d.IncomeAccountID,
			Type:        d.IncomeSubtype,
			Amount:      d.Amount,
			Description: d.Description,
			IncomeDate:  d.Date,
		}, nil

	default:
		return nil, fmt.Errorf("no movement type selected")
	}
}

// BuildUpdate validates the draft and extracts the mutable fields for a
// PATCH. Type, payer and counterparty are never resubmitted; participants
// are included only for splits.
func BuildUpdate(d *draft.Draft) (models.MovementUpdate, error) {
	if err := d.Validate(); err != nil {
		return models.MovementUpdate{}, err
	}
	u := models.MovementUpdate{
		Description:     d.Description,
		Amount:          d.Amount,
		Date:            d.Date,
		CategoryID:      d.CategoryID,
		PaymentMethodID: d.PaymentMethodID,
	}
	if d.Type == draft.TypeSplit {
		u.Shares = make([]models.Share, len(d.Shares))
		for i, pp := range participants(d.Shares) {
			u.Shares[i] = models.Share{UserID: pp.UserID, ContactID: pp.ContactID, Percentage: pp.Percentage}
		}
	}
	return u, nil
}

func base(d *draft.Draft, t models.MovementType) MovementPayload {
	p := MovementPayload{
		Type:            t,
		Description:     d.Description,
		Amount:          d.Amount,
		MovementDate:    d.Date,
		Currency:        d.Currency,
		PaymentMethodID: d.PaymentMethodID,
	}
	setParty(&p.PayerUserID, &p.PayerContactID, d.EffectivePayer())
	return p
}

func participants(shares []draft.Share) []ParticipantPayload {
	out := make([]ParticipantPayload, len(shares))
	for i, s := range shares {
		out[i] = participant(s.Party, s.Percent/100)
	}
	return out
}

func participant(p models.PartyRef, fraction float64) ParticipantPayload {
	pp := ParticipantPayload{Percentage: round4(fraction)}
	setParty(&pp.UserID, &pp.ContactID, p)
	return pp
}

func setParty(userID, contactID *string, p models.PartyRef) {
	if p.IsMember() {
		*userID = p.ID
	} else if !p.IsZero() {
		*contactID = p.ID
	}
}

func round4(v float64) float64 {
	return calculator.Round2(v*100) / 100
}
