package draft

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/osanchezp/casaflow/internal/calculator"
)

// ValidationError is a client-side validation failure, raised synchronously
// before any network call and surfaced inline next to the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate runs the full pre-submit chain in contract order, returning the
// first failure:
//
//	date -> type -> amount -> description -> type-specific required fields
//	-> payment-method ownership -> counterparty differs from payer
//	-> participant count and percentage sum
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Date) == "" {
		return &ValidationError{Field: "date", Message: "date is required"}
	}
	if _, err := time.Parse("2006-01-02", d.Date); err != nil {
		return &ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"}
	}
	if d.Type == TypeNone {
		return &ValidationError{Field: "type", Message: "movement type is required"}
	}
	if math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) || d.Amount <= 0 {
		return &ValidationError{Field: "amount", Message: "amount must be greater than zero"}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}
	if err := d.validateTypeFields(); err != nil {
		return err
	}
	if err := d.validatePaymentMethod(); err != nil {
		return err
	}
	if d.Type == TypeLoan && d.Counterparty.Same(d.Payer) {
		return &ValidationError{Field: "counterparty", Message: "counterparty must be different from the payer"}
	}
	return d.validateShares()
}

func (d *Draft) validateTypeFields() error {
	switch d.Type {
	case TypeHousehold:
		if d.CategoryID == "" {
			return &ValidationError{Field: "category", Message: "category is required"}
		}
	case TypeSplit:
		if d.CategoryID == "" && !d.categoryOptional {
			return &ValidationError{Field: "category", Message: "category is required"}
		}
		if d.Payer.IsZero() {
			return &ValidationError{Field: "payer", Message: "payer is required"}
		}
	case TypeLoan:
		if d.Payer.IsZero() {
			return &ValidationError{Field: "payer", Message: "payer is required"}
		}
		if d.Counterparty.IsZero() {
			return &ValidationError{Field: "counterparty", Message: "counterparty is required"}
		}
	case TypeIncome:
		// Checked in this order on purpose: member, then subtype, then
		// destination account.
		if d.IncomeMemberID == "" {
			return &ValidationError{Field: "income_member", Message: "income member is required"}
		}
		if d.IncomeSubtype == "" {
			return &ValidationError{Field: "income_subtype", Message: "income subtype is required"}
		}
		if d.IncomeAccountID == "" {
			return &ValidationError{Field: "income_account", Message: "destination account is required"}
		}
	}
	return nil
}

func (d *Draft) validatePaymentMethod() error {
	rule := d.FieldRule(GroupPaymentMethod)
	if !rule.Visible {
		return nil
	}
	if d.PaymentMethodID == "" {
		if rule.Required {
			return &ValidationError{Field: "payment_method", Message: "payment method is required"}
		}
		return nil
	}
	method, ok := d.cfg.MethodByID(d.PaymentMethodID)
	if !ok {
		return &ValidationError{Field: "payment_method", Message: "unknown payment method"}
	}
	for _, m := range d.AvailableMethods() {
		if m.ID == method.ID {
			return nil
		}
	}
	return &ValidationError{
		Field:   "payment_method",
		Message: fmt.Sprintf("payment method %q belongs to %s and is not shared with the household", method.Name, d.cfg.OwnerName(method)),
	}
}

func (d *Draft) validateShares() error {
	if d.Type != TypeSplit {
		return nil
	}
	if len(d.Shares) == 0 {
		return &ValidationError{Field: "participants", Message: "at least one participant is required"}
	}
	if err := d.SumCheck(); err != nil {
		return &ValidationError{Field: "participants", Message: err.Error()}
	}
	return nil
}

// SumCheck validates the share percentage sum against 100 within the 0.01
// tolerance, reporting the shortfall or excess in the unit the form is
// currently displaying.
func (d *Draft) SumCheck() error {
	if d.Type != TypeSplit || len(d.Shares) == 0 {
		return nil
	}
	return calculator.ValidateShareSum(d.Percentages(), d.Unit, d.Amount)
}
