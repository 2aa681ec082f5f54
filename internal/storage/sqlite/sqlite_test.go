package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osanchezp/casaflow/internal/models"
	"github.com/osanchezp/casaflow/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndGetMovement(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m := &models.Movement{
		Type:        models.TypeSplit,
		Description: "dinner out",
		Amount:      90,
		Date:        "2026-03-14",
		Currency:    "EUR",
		CategoryID:  "cat-1",
		PayerUserID: "u-ana",
		Shares: []models.Share{
			{UserID: "u-ana", Percentage: 0.3333},
			{UserID: "u-luis", Percentage: 0.3333},
			{ContactID: "c-carlos", Percentage: 0.3334},
		},
	}
	require.NoError(t, store.CreateMovement(ctx, m))
	assert.NotEmpty(t, m.ID, "store assigns the ID")
	assert.NotZero(t, m.CreatedAt)

	got, err := store.GetMovement(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TypeSplit, got.Type)
	assert.Equal(t, "dinner out", got.Description)
	assert.Equal(t, 90.0, got.Amount)
	assert.Equal(t, "u-ana", got.PayerUserID)
	assert.Empty(t, got.PayerContactID)

	require.Len(t, got.Shares, 3, "shares come back in insertion order")
	assert.Equal(t, "u-ana", got.Shares[0].UserID)
	assert.Equal(t, "c-carlos", got.Shares[2].ContactID)
	assert.Equal(t, 0.3334, got.Shares[2].Percentage)
}

func TestGetMovementNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetMovement(context.Background(), "missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestUpdateMovement(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m := &models.Movement{
		Type: models.TypeSplit, Description: "lunch", Amount: 40,
		Date: "2026-03-01", Currency: "EUR", CategoryID: "cat-1", PayerUserID: "u-ana",
		Shares: []models.Share{
			{UserID: "u-ana", Percentage: 0.5},
			{UserID: "u-luis", Percentage: 0.5},
		},
	}
	require.NoError(t, store.CreateMovement(ctx, m))

	t.Run("nil shares leave stored shares alone", func(t *testing.T) {
		err := store.UpdateMovement(ctx, m.ID, models.MovementUpdate{
			Description: "lunch (fixed)", Amount: 45, Date: "2026-03-02", CategoryID: "cat-1",
		})
		require.NoError(t, err)

		got, err := store.GetMovement(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "lunch (fixed)", got.Description)
		assert.Equal(t, 45.0, got.Amount)
		assert.Len(t, got.Shares, 2)
	})

	t.Run("non-nil shares replace the list", func(t *testing.T) {
		err := store.UpdateMovement(ctx, m.ID, models.MovementUpdate{
			Description: "lunch (fixed)", Amount: 45, Date: "2026-03-02", CategoryID: "cat-1",
			Shares: []models.Share{{UserID: "u-ana", Percentage: 1}},
		})
		require.NoError(t, err)

		got, err := store.GetMovement(ctx, m.ID)
		require.NoError(t, err)
		require.Len(t, got.Shares, 1)
		assert.Equal(t, 1.0, got.Shares[0].Percentage)
	})

	t.Run("payer survives updates", func(t *testing.T) {
		got, err := store.GetMovement(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "u-ana", got.PayerUserID)
		assert.Equal(t, models.TypeSplit, got.Type)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := store.UpdateMovement(ctx, "missing", models.MovementUpdate{Description: "x"})
		assert.True(t, errors.Is(err, storage.ErrNotFound))
	})
}

func TestListMovementsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &models.Movement{Type: models.TypeHousehold, Description: "old", Amount: 10, Date: "2026-01-01", Currency: "EUR", PayerUserID: "u-ana", CreatedAt: 100}
	second := &models.Movement{Type: models.TypeHousehold, Description: "new", Amount: 20, Date: "2026-02-01", Currency: "EUR", PayerUserID: "u-ana", CreatedAt: 200}
	require.NoError(t, store.CreateMovement(ctx, first))
	require.NoError(t, store.CreateMovement(ctx, second))

	got, err := store.ListMovements(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].Description)
	assert.Equal(t, "old", got[1].Description)
}

func TestCreateIncome(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SeedDemo(ctx))

	cfg, err := store.FormConfig(ctx)
	require.NoError(t, err)
	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, accounts)

	in := &models.Income{
		MemberID:    cfg.Users[0].ID,
		AccountID:   accounts[0].ID,
		Subtype:     models.IncomeSalary,
		Amount:      1500,
		Description: "march salary",
		Date:        "2026-03-01",
	}
	require.NoError(t, store.CreateIncome(ctx, in))
	assert.NotEmpty(t, in.ID)
}

func TestSeedDemo(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedDemo(ctx))

	cfg, err := store.FormConfig(ctx)
	require.NoError(t, err)
	assert.Len(t, cfg.Users, 2)
	assert.Len(t, cfg.Contacts, 1)
	assert.Len(t, cfg.Categories, 3)
	require.Len(t, cfg.PaymentMethods, 3)

	shared := 0
	for _, pm := range cfg.PaymentMethods {
		if pm.SharedWithHousehold {
			shared++
		}
	}
	assert.Equal(t, 1, shared, "exactly one shared method in the demo set")

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 3, "all account types listed; eligibility is the client's concern")

	// Seeding twice must not duplicate anything.
	require.NoError(t, store.SeedDemo(ctx))
	cfg, err = store.FormConfig(ctx)
	require.NoError(t, err)
	assert.Len(t, cfg.Users, 2)
}
