package draft

import (
	"errors"
	"testing"

	"github.com/osanchezp/casaflow/internal/models"
)

func TestFromMovement(t *testing.T) {
	cfg := testConfig()

	t.Run("household prefills and locks", func(t *testing.T) {
		m := &models.Movement{
			ID:              "mv-1",
			Type:            models.TypeHousehold,
			Description:     "rent march",
			Amount:          950,
			Currency:        "EUR",
			Date:            "2026-03-01",
			CategoryID:      "cat-rent",
			PaymentMethodID: "pm-cash",
			PayerUserID:     ana.ID,
		}
		d, err := FromMovement(m, cfg, ana)
		if err != nil {
			t.Fatalf("FromMovement: %v", err)
		}
		if d.Type != TypeHousehold || d.EditID != "mv-1" || !d.TypeLocked {
			t.Errorf("type=%v editID=%q locked=%v", d.Type, d.EditID, d.TypeLocked)
		}
		if d.Amount != 950 || d.Date != "2026-03-01" || d.CategoryID != "cat-rent" {
			t.Errorf("prefill lost: %+v", d)
		}
		if err := d.SetType(TypeSplit); err != ErrTypeLocked {
			t.Errorf("SetType on reloaded draft = %v, want ErrTypeLocked", err)
		}
	})

	t.Run("split restores shares as percentages", func(t *testing.T) {
		m := &models.Movement{
			ID:          "mv-2",
			Type:        models.TypeSplit,
			Description: "dinner",
			Amount:      90,
			Currency:    "EUR",
			Date:        "2026-03-10",
			CategoryID:  "cat-food",
			PayerUserID: ana.ID,
			Shares: []models.Share{
				{UserID: ana.ID, Percentage: 0.3333},
				{UserID: luis.ID, Percentage: 0.3333},
				{ContactID: carlo.ID, Percentage: 0.3334},
			},
		}
		d, err := FromMovement(m, cfg, ana)
		if err != nil {
			t.Fatalf("FromMovement: %v", err)
		}
		if len(d.Shares) != 3 {
			t.Fatalf("shares = %d, want 3", len(d.Shares))
		}
		if d.Shares[0].Percent != 33.33 || d.Shares[2].Percent != 33.34 {
			t.Errorf("percentages = %v / %v, want 33.33 / 33.34", d.Shares[0].Percent, d.Shares[2].Percent)
		}
		if !d.Shares[2].Party.Same(models.ContactRef(carlo)) {
			t.Errorf("contact participant not resolved: %+v", d.Shares[2].Party)
		}
		if !d.Equitable {
			t.Error("near-even thirds must reload as equitable")
		}
	})

	t.Run("uneven split reloads as manual", func(t *testing.T) {
		m := &models.Movement{
			ID: "mv-3", Type: models.TypeSplit, Amount: 100, Date: "2026-03-10",
			Description: "skewed", CategoryID: "cat-food", PayerUserID: ana.ID,
			Shares: []models.Share{
				{UserID: ana.ID, Percentage: 0.7},
				{UserID: luis.ID, Percentage: 0.3},
			},
		}
		d, err := FromMovement(m, cfg, ana)
		if err != nil {
			t.Fatalf("FromMovement: %v", err)
		}
		if d.Equitable {
			t.Error("70/30 must not reload as equitable")
		}
	})

	t.Run("single-participant split from a lend stays a split", func(t *testing.T) {
		m := &models.Movement{
			ID: "mv-4", Type: models.TypeSplit, Amount: 40, Date: "2026-03-11",
			Description: "lent to carlos", PayerUserID: ana.ID, PaymentMethodID: "pm-ana",
			Shares: []models.Share{{ContactID: carlo.ID, Percentage: 1}},
		}
		d, err := FromMovement(m, cfg, ana)
		if err != nil {
			t.Fatalf("FromMovement: %v", err)
		}
		if d.Type != TypeSplit {
			t.Errorf("type = %v, want SPLIT; lend origin is not guessable", d.Type)
		}
		if len(d.Shares) != 1 || d.Shares[0].Percent != 100 {
			t.Errorf("shares = %+v, want carlos at 100", d.Shares)
		}
	})

	t.Run("lend-origin split is editable without a category", func(t *testing.T) {
		// Splits created through the lend shortcut are stored without a
		// category; editing one must not demand a field the form never
		// asked for.
		m := &models.Movement{
			ID: "mv-7", Type: models.TypeSplit, Amount: 40, Date: "2026-03-11",
			Description: "lent to carlos", Currency: "EUR",
			PayerUserID: ana.ID, PaymentMethodID: "pm-ana",
			Shares: []models.Share{{ContactID: carlo.ID, Percentage: 1}},
		}
		d, err := FromMovement(m, cfg, ana)
		if err != nil {
			t.Fatalf("FromMovement: %v", err)
		}
		if d.FieldRule(GroupCategory).Required {
			t.Error("category must not be required for a split stored without one")
		}

		d.Amount = 55
		if err := d.Validate(); err != nil {
			t.Errorf("Validate after an amount edit = %v, want nil", err)
		}
	})

	t.Run("split stored with a category keeps requiring it", func(t *testing.T) {
		m := &models.Movement{
			ID: "mv-8", Type: models.TypeSplit, Amount: 60, Date: "2026-03-12",
			Description: "dinner", Currency: "EUR", CategoryID: "cat-food",
			PayerUserID: ana.ID, PaymentMethodID: "pm-ana",
			Shares: []models.Share{
				{UserID: ana.ID, Percentage: 0.5},
				{UserID: luis.ID, Percentage: 0.5},
			},
		}
		d, err := FromMovement(m, cfg, ana)
		if err != nil {
			t.Fatalf("FromMovement: %v", err)
		}
		if !d.FieldRule(GroupCategory).Required {
			t.Error("category stays required for a split stored with one")
		}
		d.CategoryID = ""
		err = d.Validate()
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "category" {
			t.Errorf("Validate with the category cleared = %v, want category error", err)
		}
	})

	t.Run("debt payment reloads as repay loan", func(t *testing.T) {
		m := &models.Movement{
			ID: "mv-5", Type: models.TypeDebtPayment, Amount: 25, Date: "2026-03-12",
			Description: "paying back", PayerUserID: ana.ID, CounterpartyContactID: carlo.ID,
		}
		d, err := FromMovement(m, cfg, ana)
		if err != nil {
			t.Fatalf("FromMovement: %v", err)
		}
		if d.Type != TypeLoan || d.Direction != DirectionRepay {
			t.Errorf("type=%v direction=%v, want LOAN/REPAY", d.Type, d.Direction)
		}
		if !d.Counterparty.Same(models.ContactRef(carlo)) {
			t.Errorf("counterparty = %+v, want carlos", d.Counterparty)
		}
	})

	t.Run("income is not editable here", func(t *testing.T) {
		m := &models.Movement{ID: "mv-6", Type: models.TypeIncome, Amount: 1500, Date: "2026-03-01"}
		if _, err := FromMovement(m, cfg, ana); err == nil {
			t.Fatal("FromMovement accepted an INGRESO movement")
		}
	})
}
