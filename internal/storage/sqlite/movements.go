package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osanchezp/casaflow/internal/models"
	"github.com/osanchezp/casaflow/internal/storage"
)

// CreateMovement persists a new movement and its shares in one transaction.
func (s *SQLiteStore) CreateMovement(ctx context.Context, m *models.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if m.CreatedAt == 0 {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO movements (id, type, description, amount, movement_date, currency,
		   category_id, payer_user_id, payer_contact_id, payment_method_id,
		   counterparty_user_id, counterparty_contact_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, string(m.Type), m.Description, m.Amount, m.Date, m.Currency,
		nullable(m.CategoryID), nullable(m.PayerUserID), nullable(m.PayerContactID),
		nullable(m.PaymentMethodID), nullable(m.CounterpartyUserID), nullable(m.CounterpartyContactID),
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}

	if err := insertShares(ctx, tx, m.ID, m.Shares); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetMovement retrieves a movement by ID, including its shares in
// insertion order.
func (s *SQLiteStore) GetMovement(ctx context.Context, id string) (*models.Movement, error) {
	m := &models.Movement{}
	var typ string
	var category, payerUser, payerContact, method, cpUser, cpContact sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, type, description, amount, movement_date, currency,
		   category_id, payer_user_id, payer_contact_id, payment_method_id,
		   counterparty_user_id, counterparty_contact_id, created_at, updated_at
		 FROM movements WHERE id = ?`, id,
	).Scan(&m.ID, &typ, &m.Description, &m.Amount, &m.Date, &m.Currency,
		&category, &payerUser, &payerContact, &method, &cpUser, &cpContact,
		&m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("movement %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movement: %w", err)
	}
	m.Type = models.MovementType(typ)
	m.CategoryID = category.String
	m.PayerUserID = payerUser.String
	m.PayerContactID = payerContact.String
	m.PaymentMethodID = method.String
	m.CounterpartyUserID = cpUser.String
	m.CounterpartyContactID = cpContact.String

	shares, err := s.loadShares(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	m.Shares = shares
	return m, nil
}

// UpdateMovement applies the mutable fields to an existing movement.
// A nil Shares slice leaves the stored shares alone.
func (s *SQLiteStore) UpdateMovement(ctx context.Context, id string, u models.MovementUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE movements SET description = ?, amount = ?, movement_date = ?,
		   category_id = ?, payment_method_id = ?, updated_at = ?
		 WHERE id = ?`,
		u.Description, u.Amount, u.Date,
		nullable(u.CategoryID), nullable(u.PaymentMethodID), time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update movement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("movement %s: %w", id, storage.ErrNotFound)
	}

	if u.Shares != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM movement_shares WHERE movement_id = ?", id); err != nil {
			return fmt.Errorf("failed to clear shares: %w", err)
		}
		if err := insertShares(ctx, tx, id, u.Shares); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListMovements returns movements newest first, shares included.
func (s *SQLiteStore) ListMovements(ctx context.Context) ([]models.Movement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM movements ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan movement id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movements: %w", err)
	}

	out := make([]models.Movement, 0, len(ids))
	for _, id := range ids {
		m, err := s.GetMovement(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, nil
}

// CreateIncome persists a new income entry.
func (s *SQLiteStore) CreateIncome(ctx context.Context, in *models.Income) error {
	if in.ID == "" {
		in.ID = uuid.New().String()
	}
	if in.CreatedAt == 0 {
		in.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO incomes (id, member_id, account_id, subtype, amount, description, income_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.MemberID, in.AccountID, string(in.Subtype), in.Amount, in.Description, in.Date, in.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert income: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadShares(ctx context.Context, movementID string) ([]models.Share, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, contact_id, percentage FROM movement_shares WHERE movement_id = ? ORDER BY position",
		movementID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var userID, contactID sql.NullString
		var share models.Share
		if err := rows.Scan(&userID, &contactID, &share.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		share.UserID = userID.String
		share.ContactID = contactID.String
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}

func insertShares(ctx context.Context, tx *sql.Tx, movementID string, shares []models.Share) error {
	for i, share := range shares {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO movement_shares (movement_id, position, user_id, contact_id, percentage) VALUES (?, ?, ?, ?, ?)",
			movementID, i, nullable(share.UserID), nullable(share.ContactID), share.Percentage,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
