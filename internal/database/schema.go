package database

func (s *Service) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS identities (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS platforms (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS currencies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL
	);

	-- Balances stored as exact decimal strings; all arithmetic happens in Go.
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		identity_id TEXT NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
		platform_id INTEGER NOT NULL REFERENCES platforms(id) ON DELETE CASCADE,
		balance TEXT NOT NULL DEFAULT '0',
		status TEXT NOT NULL DEFAULT 'active',
		chat_enabled INTEGER NOT NULL DEFAULT 0,
		mobile_number TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(identity_id, platform_id)
	);

	CREATE TABLE IF NOT EXISTS wallets (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		currency_id INTEGER NOT NULL REFERENCES currencies(id),
		balance TEXT NOT NULL DEFAULT '0',
		deposit_address TEXT NOT NULL UNIQUE,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(account_id, currency_id)
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		sender_account_id TEXT REFERENCES accounts(id) ON DELETE SET NULL,
		wallet_id TEXT REFERENCES wallets(id) ON DELETE CASCADE,
		amount TEXT NOT NULL,
		transaction_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'completed',
		reason TEXT NOT NULL DEFAULT '',
		recipient TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS chat_messages (
		id TEXT PRIMARY KEY,
		sender_id TEXT NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
		receiver_id TEXT NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
		message TEXT NOT NULL,
		is_read INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_identity ON accounts(identity_id);
	CREATE INDEX IF NOT EXISTS idx_accounts_platform ON accounts(platform_id);
	CREATE INDEX IF NOT EXISTS idx_accounts_mobile ON accounts(mobile_number, platform_id);
	CREATE INDEX IF NOT EXISTS idx_wallets_account ON wallets(account_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at);
	CREATE INDEX IF NOT EXISTS idx_chat_sender ON chat_messages(sender_id);
	CREATE INDEX IF NOT EXISTS idx_chat_receiver_unread ON chat_messages(receiver_id, is_read);
	`

	_, err := s.db.Exec(schema)
	return err
}
