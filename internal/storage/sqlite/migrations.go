package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database. These run on
// startup to ensure tables exist. Catalog tables come before movements
// because of the foreign key constraints.
const schema = `
CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS category_groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    group_id TEXT,
    FOREIGN KEY (group_id) REFERENCES category_groups(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS payment_methods (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    shared_with_household INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (owner_id) REFERENCES members(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    type TEXT NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES members(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS movements (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    description TEXT NOT NULL,
    amount REAL NOT NULL,
    movement_date TEXT NOT NULL,
    currency TEXT NOT NULL,
    category_id TEXT,
    payer_user_id TEXT,
    payer_contact_id TEXT,
    payment_method_id TEXT,
    counterparty_user_id TEXT,
    counterparty_contact_id TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS movement_shares (
    movement_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    user_id TEXT,
    contact_id TEXT,
    percentage REAL NOT NULL,
    PRIMARY KEY (movement_id, position),
    FOREIGN KEY (movement_id) REFERENCES movements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS incomes (
    id TEXT PRIMARY KEY,
    member_id TEXT NOT NULL,
    account_id TEXT NOT NULL,
    subtype TEXT NOT NULL,
    amount REAL NOT NULL,
    description TEXT NOT NULL,
    income_date TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (member_id) REFERENCES members(id) ON DELETE CASCADE,
    FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_movement_shares_movement_id ON movement_shares(movement_id);
CREATE INDEX IF NOT EXISTS idx_movements_created_at ON movements(created_at);
CREATE INDEX IF NOT EXISTS idx_incomes_member_id ON incomes(member_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
