package draft

import (
	"fmt"
	"math"

	"github.com/osanchezp/casaflow/internal/calculator"
	"github.com/osanchezp/casaflow/internal/models"
)

// equitableTolerance is how close every stored percentage must be to 100/n
// (in percentage points) for a reloaded split to count as equitable.
const equitableTolerance = 0.02

// FromMovement builds a prefilled draft from a stored movement for editing.
// The type selector is locked: type, payer and counterparty are immutable
// after creation and only the mutable fields are resubmitted.
//
// The UI loan direction is inferred from the stored type: DEBT_PAYMENT
// reloads as LOAN in repay direction. A stored SPLIT always reloads as a
// generic split: the backend cannot distinguish a real multi-party split
// from one created through the lend shortcut, and no guess is made.
func FromMovement(m *models.Movement, cfg *models.FormConfig, current models.Member) (*Draft, error) {
	d := New(cfg, current, m.Currency)
	d.EditID = m.ID
	d.Date = m.Date
	d.Description = m.Description
	d.Amount = m.Amount
	d.CategoryID = m.CategoryID
	d.PaymentMethodID = m.PaymentMethodID
	d.Payer = cfg.ResolveParty(m.PayerUserID, m.PayerContactID)
	d.Counterparty = cfg.ResolveParty(m.CounterpartyUserID, m.CounterpartyContactID)

	switch m.Type {
	case models.TypeHousehold:
		d.Type = TypeHousehold
	case models.TypeSplit:
		d.Type = TypeSplit
		d.Shares = sharesFromStored(m.Shares, cfg)
		d.Equitable = inferEquitable(d.Shares)
		d.categoryOptional = m.CategoryID == ""
	case models.TypeDebtPayment:
		d.Type = TypeLoan
		d.Direction = DirectionRepay
	default:
		return nil, fmt.Errorf("movement type %q cannot be edited in the movement form", m.Type)
	}

	d.TypeLocked = true
	return d, nil
}

// sharesFromStored converts wire fractions back to form percentages and
// resolves participant identities against the form configuration.
func sharesFromStored(stored []models.Share, cfg *models.FormConfig) []Share {
	out := make([]Share, len(stored))
	for i, s := range stored {
		out[i] = Share{
			Party:   cfg.ResolveParty(s.UserID, s.ContactID),
			Percent: calculator.Round2(s.Percentage * 100),
		}
	}
	return out
}

// inferEquitable reports whether every stored percentage sits within the
// tolerance of an even 100/n share. Reloading cannot know whether the user
// originally checked the equitable box, so it is reverse-inferred from the
// stored values.
func inferEquitable(shares []Share) bool {
	n := len(shares)
	if n == 0 {
		return false
	}
	even := 100 / float64(n)
	for _, s := range shares {
		if math.Abs(s.Percent-even) > equitableTolerance {
			return false
		}
	}
	return true
}
