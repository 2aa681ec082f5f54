// Package draft implements the movement entry form state: type selection,
// dynamic field visibility, payer and participant management, share
// computation and the pre-submit validation chain.
//
// A Draft is an explicit, constructed value owned by whoever renders the
// form. It holds no I/O and no references to the presentation layer; the
// TUI dispatches user events into it and re-renders from its state.
package draft

import (
	"errors"
	"fmt"
	"strings"

	"github.com/osanchezp/casaflow/internal/calculator"
	"github.com/osanchezp/casaflow/internal/models"
)

// FormType is the movement type as the form presents it. Loan exists only
// here: the backend stores lending as SPLIT and repayment as DEBT_PAYMENT.
type FormType int

const (
	TypeNone FormType = iota
	TypeHousehold
	TypeSplit
	TypeLoan
	TypeIncome
)

// String returns the form type's display name.
func (t FormType) String() string {
	switch t {
	case TypeHousehold:
		return "HOUSEHOLD"
	case TypeSplit:
		return "SPLIT"
	case TypeLoan:
		return "LOAN"
	case TypeIncome:
		return "INGRESO"
	default:
		return "NONE"
	}
}

// ParseFormType parses a type launch parameter. GASTO is accepted as a
// legacy alias for HOUSEHOLD.
func ParseFormType(s string) (FormType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HOUSEHOLD", "GASTO":
		return TypeHousehold, nil
	case "SPLIT":
		return TypeSplit, nil
	case "LOAN":
		return TypeLoan, nil
	case "INGRESO":
		return TypeIncome, nil
	default:
		return TypeNone, fmt.Errorf("unknown movement type %q", s)
	}
}

// LoanDirection distinguishes lending money from repaying a debt.
type LoanDirection int

const (
	DirectionLend LoanDirection = iota
	DirectionRepay
)

func (d LoanDirection) String() string {
	if d == DirectionRepay {
		return "REPAY"
	}
	return "LEND"
}

// Share is one participant row of a split. Percent is the participant's
// percentage in [0, 100] and is the single source of truth; the currency
// value shown next to it is always derived from Percent and the draft
// amount.
type Share struct {
	Party   models.PartyRef
	Percent float64
}

// ErrTypeLocked is returned when a type change is attempted on a draft
// loaded from an existing movement.
var ErrTypeLocked = errors.New("movement type cannot be changed after creation")

// ErrEquitableShares is returned when a share percentage is edited while
// equitable mode is on.
var ErrEquitableShares = errors.New("equitable mode computes percentages; turn it off to edit them")

// Draft is the in-memory state of the movement form. It lives for one form
// session: created empty (or prefilled from a stored movement), mutated by
// every interaction, and discarded on submit or abandonment.
type Draft struct {
	Type       FormType
	TypeLocked bool
	Direction  LoanDirection

	Date        string // YYYY-MM-DD
	Description string
	Amount      float64
	Currency    string

	CategoryID      string
	Payer           models.PartyRef
	PaymentMethodID string
	Counterparty    models.PartyRef

	Shares    []Share
	Equitable bool
	Unit      calculator.Unit

	IncomeMemberID  string
	IncomeSubtype   models.IncomeSubtype
	IncomeAccountID string

	// EditID is the movement being edited, empty for a new draft.
	EditID string

	// categoryOptional relaxes the SPLIT category requirement for drafts
	// reloaded from a movement stored without one (splits created through
	// the lend shortcut carry no category).
	categoryOptional bool

	cfg     *models.FormConfig
	current models.Member
}

// New creates an empty draft for the given household configuration and
// current user.
func New(cfg *models.FormConfig, current models.Member, currency string) *Draft {
	return &Draft{cfg: cfg, current: current, Currency: currency}
}

// Config returns the form configuration the draft was built with.
func (d *Draft) Config() *models.FormConfig { return d.cfg }

// CurrentUser returns the member filling in the form.
func (d *Draft) CurrentUser() models.Member { return d.current }

// EffectivePayer is who actually pays: the selected payer, or the current
// user for household movements (which hide the payer selector).
func (d *Draft) EffectivePayer() models.PartyRef {
	if d.Type == TypeHousehold {
		return models.MemberRef(d.current)
	}
	return d.Payer
}

// SetType switches the movement type. Fields belonging to field groups
// visible under the previous type but not under the new one are reset, so
// no required-field state leaks across types. Switching into SPLIT seeds
// the participant list with the current payer at 100%.
func (d *Draft) SetType(t FormType) error {
	if d.TypeLocked && t != d.Type {
		return ErrTypeLocked
	}
	if t == d.Type {
		return nil
	}
	prev := d.Type
	d.Type = t
	d.resetGroups(prev, t)

	if t == TypeSplit {
		if d.Payer.IsZero() {
			d.Payer = models.MemberRef(d.current)
		}
		d.Shares = []Share{{Party: d.Payer, Percent: 100}}
		d.Equitable = true
		d.Unit = calculator.UnitPercent
	}
	return nil
}

// resetGroups clears the fields of every group that was visible under prev
// but is not visible under next.
func (d *Draft) resetGroups(prev, next FormType) {
	was, is := visibility(prev), visibility(next)
	for g, rule := range was {
		if !rule.Visible || is[g].Visible {
			continue
		}
		switch g {
		case GroupCategory:
			d.CategoryID = ""
		case GroupPayer:
			d.Payer = models.PartyRef{}
		case GroupCounterparty:
			d.Counterparty = models.PartyRef{}
			d.Direction = DirectionLend
		case GroupParticipants:
			d.Shares = nil
			d.Equitable = false
			d.Unit = calculator.UnitPercent
		case GroupPaymentMethod:
			d.PaymentMethodID = ""
		case GroupIncome:
			d.IncomeMemberID = ""
			d.IncomeSubtype = ""
			d.IncomeAccountID = ""
		}
	}
}

// SetPayer selects the payer and drops the payment method if the new payer
// can no longer use it.
func (d *Draft) SetPayer(p models.PartyRef) {
	d.Payer = p
	if d.PaymentMethodID == "" {
		return
	}
	for _, m := range d.AvailableMethods() {
		if m.ID == d.PaymentMethodID {
			return
		}
	}
	d.PaymentMethodID = ""
}

// AvailableMethods returns the payment methods the effective payer may use:
// methods they own plus methods shared with the household.
func (d *Draft) AvailableMethods() []models.PaymentMethod {
	payer := d.EffectivePayer()
	var out []models.PaymentMethod
	for _, m := range d.cfg.PaymentMethods {
		if m.SharedWithHousehold || (payer.IsMember() && m.OwnerID == payer.ID) {
			out = append(out, m)
		}
	}
	return out
}

// ShareValue returns the currency value of share i, derived from its
// percentage and the draft amount.
func (d *Draft) ShareValue(i int) float64 {
	return calculator.Round2(calculator.ValueFromPercent(d.Shares[i].Percent, d.Amount))
}

// Percentages returns the share percentages in participant order.
func (d *Draft) Percentages() []float64 {
	out := make([]float64, len(d.Shares))
	for i, s := range d.Shares {
		out[i] = s.Percent
	}
	return out
}
