package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osanchezp/casaflow/internal/models"
)

// FormConfig loads the selector catalog for the movement form.
func (s *SQLiteStore) FormConfig(ctx context.Context) (*models.FormConfig, error) {
	cfg := &models.FormConfig{}

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, COALESCE(email, ''), created_at FROM members ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		cfg.Users = append(cfg.Users, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, "SELECT id, name, created_at FROM contacts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		cfg.Contacts = append(cfg.Contacts, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, "SELECT id, name, owner_id, shared_with_household FROM payment_methods ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to get payment methods: %w", err)
	}
	for rows.Next() {
		var m models.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.OwnerID, &m.SharedWithHousehold); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan payment method: %w", err)
		}
		cfg.PaymentMethods = append(cfg.PaymentMethods, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment methods: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, "SELECT id, name FROM category_groups ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to get category groups: %w", err)
	}
	for rows.Next() {
		var g models.CategoryGroup
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan category group: %w", err)
		}
		cfg.CategoryGroups = append(cfg.CategoryGroups, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category groups: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, "SELECT id, name, COALESCE(group_id, '') FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.GroupID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cfg.Categories = append(cfg.Categories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return cfg, nil
}

// ListAccounts returns every account, all types included.
func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, owner_id, type FROM accounts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		var a models.Account
		var typ string
		if err := rows.Scan(&a.ID, &a.Name, &a.OwnerID, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		a.Type = models.AccountType(typ)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return out, nil
}

// SeedDemo populates an empty database with a small demo household so the
// form is usable out of the box. A database that already has members is
// left untouched.
func (s *SQLiteStore) SeedDemo(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM members").Scan(&count); err != nil {
		return fmt.Errorf("failed to count members: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().Unix()
	ana, luis := uuid.New().String(), uuid.New().String()
	carlos := uuid.New().String()
	groupHome := uuid.New().String()

	stmts := []struct {
		query string
		args  []any
	}{
		{"INSERT INTO members (id, name, email, created_at) VALUES (?, ?, ?, ?)", []any{ana, "Ana", "ana@example.com", now}},
		{"INSERT INTO members (id, name, email, created_at) VALUES (?, ?, ?, ?)", []any{luis, "Luis", "luis@example.com", now}},
		{"INSERT INTO contacts (id, name, created_at) VALUES (?, ?, ?)", []any{carlos, "Carlos", now}},
		{"INSERT INTO category_groups (id, name) VALUES (?, ?)", []any{groupHome, "Home"}},
		{"INSERT INTO categories (id, name, group_id) VALUES (?, ?, ?)", []any{uuid.New().String(), "Groceries", groupHome}},
		{"INSERT INTO categories (id, name, group_id) VALUES (?, ?, ?)", []any{uuid.New().String(), "Rent", groupHome}},
		{"INSERT INTO categories (id, name, group_id) VALUES (?, ?, ?)", []any{uuid.New().String(), "Utilities", groupHome}},
		{"INSERT INTO payment_methods (id, name, owner_id, shared_with_household) VALUES (?, ?, ?, ?)", []any{uuid.New().String(), "Ana's card", ana, 0}},
		{"INSERT INTO payment_methods (id, name, owner_id, shared_with_household) VALUES (?, ?, ?, ?)", []any{uuid.New().String(), "Luis's card", luis, 0}},
		{"INSERT INTO payment_methods (id, name, owner_id, shared_with_household) VALUES (?, ?, ?, ?)", []any{uuid.New().String(), "Household cash", ana, 1}},
		{"INSERT INTO accounts (id, name, owner_id, type) VALUES (?, ?, ?, ?)", []any{uuid.New().String(), "Ana savings", ana, "savings"}},
		{"INSERT INTO accounts (id, name, owner_id, type) VALUES (?, ?, ?, ?)", []any{uuid.New().String(), "Luis cash", luis, "cash"}},
		{"INSERT INTO accounts (id, name, owner_id, type) VALUES (?, ?, ?, ?)", []any{uuid.New().String(), "Joint credit", ana, "credit"}},
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, st := range stmts {
		if _, err := tx.ExecContext(ctx, st.query, st.args...); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}
	return tx.Commit()
}
