package models

// MovementType is the backend-visible type of a stored movement.
// "Loan" never reaches the wire: lending is stored as a single-participant
// SPLIT and repaying as a DEBT_PAYMENT.
type MovementType string

const (
	TypeHousehold   MovementType = "HOUSEHOLD"
	TypeSplit       MovementType = "SPLIT"
	TypeDebtPayment MovementType = "DEBT_PAYMENT"
	TypeIncome      MovementType = "INGRESO"
)

// Valid reports whether t is one of the storable movement types.
func (t MovementType) Valid() bool {
	switch t {
	case TypeHousehold, TypeSplit, TypeDebtPayment, TypeIncome:
		return true
	}
	return false
}

// Share is one participant's portion of a split movement.
// Percentage is a fraction in [0, 1]; the fractions of a movement sum to 1.
type Share struct {
	// UserID is set when the participant is a household member.
	UserID string `json:"user_id,omitempty"`

	// ContactID is set when the participant is an external contact.
	ContactID string `json:"contact_id,omitempty"`

	// Percentage is the participant's fraction of the amount (0..1).
	Percentage float64 `json:"percentage"`
}

// Movement is a stored transaction. Which optional columns are populated
// depends on Type: category only for HOUSEHOLD/SPLIT, counterparty only for
// DEBT_PAYMENT, shares only for SPLIT.
type Movement struct {
	// ID is the unique identifier for the movement (UUID format).
	ID string `json:"id"`

	// Type is immutable after creation.
	Type MovementType `json:"type"`

	Description string  `json:"description"`
	Amount      float64 `json:"amount"`

	// Date is the movement date in YYYY-MM-DD form.
	Date string `json:"movement_date"`

	// Currency is an ISO 4217 code (e.g., "COP", "EUR").
	Currency string `json:"currency"`

	// CategoryID is set for HOUSEHOLD and SPLIT movements.
	CategoryID string `json:"category,omitempty"`

	// Exactly one of PayerUserID / PayerContactID is set.
	PayerUserID    string `json:"payer_user_id,omitempty"`
	PayerContactID string `json:"payer_contact_id,omitempty"`

	// PaymentMethodID is set when the payer is a member.
	PaymentMethodID string `json:"payment_method_id,omitempty"`

	// Counterparty columns are set for DEBT_PAYMENT movements.
	CounterpartyUserID    string `json:"counterparty_user_id,omitempty"`
	CounterpartyContactID string `json:"counterparty_contact_id,omitempty"`

	// Shares is populated for SPLIT movements, in insertion order.
	Shares []Share `json:"participants,omitempty"`

	// CreatedAt / UpdatedAt are Unix timestamps set by the store.
	CreatedAt int64 `json:"created_at,omitempty"`
	UpdatedAt int64 `json:"updated_at,omitempty"`
}

// MovementUpdate carries the mutable subset of a movement for edits.
// Type, payer and counterparty are not part of it: they cannot be changed
// after creation.
type MovementUpdate struct {
	Description     string  `json:"description"`
	Amount          float64 `json:"amount"`
	Date            string  `json:"movement_date"`
	CategoryID      string  `json:"category,omitempty"`
	PaymentMethodID string  `json:"payment_method_id,omitempty"`

	// Shares replaces the participant list for SPLIT movements.
	// Nil leaves the stored shares untouched.
	Shares []Share `json:"participants,omitempty"`
}

// IncomeSubtype classifies income entries.
type IncomeSubtype string

const (
	IncomeSalary    IncomeSubtype = "salary"
	IncomeBonus     IncomeSubtype = "bonus"
	IncomeRefund    IncomeSubtype = "refund"
	IncomeOtherKind IncomeSubtype = "other"
)

// IncomeSubtypes lists the selectable subtypes in display order.
var IncomeSubtypes = []IncomeSubtype{IncomeSalary, IncomeBonus, IncomeRefund, IncomeOtherKind}

// Income is a stored income entry. Incomes live apart from movements: they
// credit a member's account and never have participants or categories.
type Income struct {
	ID          string        `json:"id"`
	MemberID    string        `json:"member_id"`
	AccountID   string        `json:"account_id"`
	Subtype     IncomeSubtype `json:"type"`
	Amount      float64       `json:"amount"`
	Description string        `json:"description"`
	Date        string        `json:"income_date"`
	CreatedAt   int64         `json:"created_at,omitempty"`
}
