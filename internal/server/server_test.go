package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osanchezp/casaflow/internal/api"
	"github.com/osanchezp/casaflow/internal/auth"
	"github.com/osanchezp/casaflow/internal/draft"
	"github.com/osanchezp/casaflow/internal/models"
	"github.com/osanchezp/casaflow/internal/storage/sqlite"
)

// failingDownstream simulates a sync target that is down.
type failingDownstream struct{}

func (failingDownstream) Sync(context.Context, string, string) error {
	return errors.New("sync target unreachable")
}

func newTestServer(t *testing.T, downstream Downstream) (*httptest.Server, *api.Client) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.SeedDemo(context.Background()))

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	srv := httptest.NewServer(New(store, tokens, downstream).Handler())
	t.Cleanup(srv.Close)

	cfg, err := store.FormConfig(context.Background())
	require.NoError(t, err)
	token, err := tokens.Generate(cfg.Users[0])
	require.NoError(t, err)

	return srv, api.NewClient(srv.URL, token)
}

func TestAuthRequired(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/movement-form-config")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Garbage token is rejected too.
	err = api.NewClient(srv.URL, "not-a-jwt").Submit(context.Background(), api.MovementPayload{})
	var serr *api.ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusUnauthorized, serr.Status)
}

func TestHealthNeedsNoAuth(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMovementRoundTrip(t *testing.T) {
	_, client := newTestServer(t, nil)
	ctx := context.Background()

	cfg, err := client.FormConfig(ctx)
	require.NoError(t, err)
	require.Len(t, cfg.Users, 2)
	require.NotEmpty(t, cfg.Categories)

	ana, luis := cfg.Users[0], cfg.Users[1]

	err = client.Submit(ctx, api.MovementPayload{
		Type:         models.TypeSplit,
		Description:  "team dinner",
		Amount:       90,
		MovementDate: "2026-03-14",
		Currency:     "EUR",
		Category:     cfg.Categories[0].ID,
		PayerUserID:  ana.ID,
		Participants: []api.ParticipantPayload{
			{UserID: ana.ID, Percentage: 0.5},
			{UserID: luis.ID, Percentage: 0.5},
		},
	})
	require.NoError(t, err)

	movements, err := client.Movements(ctx)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	created := movements[0]
	assert.Equal(t, models.TypeSplit, created.Type)
	require.Len(t, created.Shares, 2)

	// Edit: amount and reshuffled shares.
	err = client.Update(ctx, created.ID, models.MovementUpdate{
		Description: "team dinner (corrected)",
		Amount:      100,
		Date:        "2026-03-14",
		CategoryID:  created.CategoryID,
		Shares: []models.Share{
			{UserID: ana.ID, Percentage: 0.6},
			{UserID: luis.ID, Percentage: 0.4},
		},
	})
	require.NoError(t, err)

	got, err := client.Movement(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Amount)
	assert.Equal(t, "team dinner (corrected)", got.Description)
	require.Len(t, got.Shares, 2)
	assert.Equal(t, 0.6, got.Shares[0].Percentage)
	assert.Equal(t, ana.ID, got.PayerUserID, "payer is immutable through updates")
}

func TestLendRoundTrip(t *testing.T) {
	_, client := newTestServer(t, nil)
	ctx := context.Background()

	cfg, err := client.FormConfig(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Contacts)
	ana := cfg.Users[0]

	// Fill the form exactly as the lend flow does: no category, one
	// counterparty, the current member paying.
	d := draft.New(cfg, ana, "EUR")
	require.NoError(t, d.SetType(draft.TypeLoan))
	d.Date = "2026-03-14"
	d.Description = "lent to carlos"
	d.Amount = 40
	d.Payer = models.MemberRef(ana)
	d.Counterparty = models.ContactRef(cfg.Contacts[0])
	methods := d.AvailableMethods()
	require.NotEmpty(t, methods)
	d.PaymentMethodID = methods[0].ID

	p, err := api.Build(d)
	require.NoError(t, err)
	require.NoError(t, client.Submit(ctx, p), "server must accept the lend payload the form builds")

	movements, err := client.Movements(ctx)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	stored := movements[0]
	assert.Equal(t, models.TypeSplit, stored.Type)
	assert.Empty(t, stored.CategoryID, "lend splits carry no category")
	require.Len(t, stored.Shares, 1)
	assert.Equal(t, cfg.Contacts[0].ID, stored.Shares[0].ContactID)
	assert.Equal(t, 1.0, stored.Shares[0].Percentage)

	// Edit the stored lend: only the amount changes, still no category.
	reloaded, err := client.Movement(ctx, stored.ID)
	require.NoError(t, err)
	d2, err := draft.FromMovement(reloaded, cfg, ana)
	require.NoError(t, err)
	d2.Amount = 55

	u, err := api.BuildUpdate(d2)
	require.NoError(t, err, "editing a lend must not demand a category")
	require.NoError(t, client.Update(ctx, stored.ID, u))

	got, err := client.Movement(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, 55.0, got.Amount)
	assert.Empty(t, got.CategoryID)
	require.Len(t, got.Shares, 1)
	assert.Equal(t, 1.0, got.Shares[0].Percentage)
}

func TestCreateMovementValidation(t *testing.T) {
	_, client := newTestServer(t, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		payload api.MovementPayload
		wantMsg string
	}{
		{
			name:    "income type rejected on movements endpoint",
			payload: api.MovementPayload{Type: models.TypeIncome, MovementDate: "2026-03-14", Amount: 10, Description: "x", PayerUserID: "u"},
			wantMsg: "type must be HOUSEHOLD, SPLIT or DEBT_PAYMENT",
		},
		{
			name:    "bad date format",
			payload: api.MovementPayload{Type: models.TypeHousehold, MovementDate: "14/03/2026", Amount: 10, Description: "x", PayerUserID: "u", Category: "c"},
			wantMsg: "movement_date must be in YYYY-MM-DD format",
		},
		{
			name:    "missing payer",
			payload: api.MovementPayload{Type: models.TypeHousehold, MovementDate: "2026-03-14", Amount: 10, Description: "x", Category: "c"},
			wantMsg: "a payer is required",
		},
		{
			name: "multi-participant split still needs a category",
			payload: api.MovementPayload{
				Type: models.TypeSplit, MovementDate: "2026-03-14", Amount: 10,
				Description: "x", PayerUserID: "u",
				Participants: []api.ParticipantPayload{
					{UserID: "u", Percentage: 0.5},
					{UserID: "v", Percentage: 0.5},
				},
			},
			wantMsg: "category is required",
		},
		{
			name: "split fractions off by too much",
			payload: api.MovementPayload{
				Type: models.TypeSplit, MovementDate: "2026-03-14", Amount: 10,
				Description: "x", PayerUserID: "u", Category: "c",
				Participants: []api.ParticipantPayload{{UserID: "u", Percentage: 0.9}},
			},
			wantMsg: "participant percentages must sum to 1.0",
		},
		{
			name: "participants rejected outside splits",
			payload: api.MovementPayload{
				Type: models.TypeHousehold, MovementDate: "2026-03-14", Amount: 10,
				Description: "x", PayerUserID: "u", Category: "c",
				Participants: []api.ParticipantPayload{{UserID: "u", Percentage: 1}},
			},
			wantMsg: "participants are only allowed on SPLIT movements",
		},
		{
			name: "debt payment to oneself",
			payload: api.MovementPayload{
				Type: models.TypeDebtPayment, MovementDate: "2026-03-14", Amount: 10,
				Description: "x", PayerUserID: "u", CounterpartyUserID: "u",
			},
			wantMsg: "counterparty must be different from the payer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Submit(ctx, tt.payload)
			var serr *api.ServerError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, http.StatusBadRequest, serr.Status)
			assert.Equal(t, tt.wantMsg, serr.Message)
		})
	}
}

func TestIncomeEndpoint(t *testing.T) {
	_, client := newTestServer(t, nil)
	ctx := context.Background()

	cfg, err := client.FormConfig(ctx)
	require.NoError(t, err)
	accounts, err := client.Accounts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, accounts, "seeded household has income-eligible accounts")

	err = client.Submit(ctx, api.IncomePayload{
		MemberID:    cfg.Users[0].ID,
		AccountID:   accounts[0].ID,
		Type:        models.IncomeSalary,
		Amount:      1500,
		Description: "march salary",
		IncomeDate:  "2026-03-01",
	})
	require.NoError(t, err)

	// Wrong field order errors mirror the form's: member, then type, then account.
	err = client.Submit(ctx, api.IncomePayload{Amount: 10, Description: "x", IncomeDate: "2026-03-01"})
	var serr *api.ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "member_id is required", serr.Message)
}

func TestDegradedWrite(t *testing.T) {
	_, client := newTestServer(t, failingDownstream{})
	ctx := context.Background()

	cfg, err := client.FormConfig(ctx)
	require.NoError(t, err)

	err = client.Submit(ctx, api.MovementPayload{
		Type:         models.TypeHousehold,
		Description:  "groceries",
		Amount:       60,
		MovementDate: "2026-03-14",
		Currency:     "EUR",
		Category:     cfg.Categories[0].ID,
		PayerUserID:  cfg.Users[0].ID,
	})
	require.Error(t, err)
	assert.True(t, api.IsDegraded(err), "failed sync must degrade, not fail")
	assert.Equal(t, "movement saved, but synchronization is pending", err.Error())

	// The write persisted despite the 503.
	movements, err := client.Movements(ctx)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "groceries", movements[0].Description)
}

func TestGetMovementNotFound(t *testing.T) {
	_, client := newTestServer(t, nil)
	_, err := client.Movement(context.Background(), "missing")
	var serr *api.ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.Status)
	assert.Equal(t, "movement not found", serr.Message)
}
