/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

const (
	// Identity queries
	queryGetIdentityById = `
		SELECT id, email, full_name, password_hash, created_at, updated_at
		FROM identities
		WHERE id = ?`

	queryGetIdentityByEmail = `
		SELECT id, email, full_name, password_hash, created_at, updated_at
		FROM identities
		WHERE email = ?`

	queryInsertIdentity = `
		INSERT OR IGNORE INTO identities (id, email, full_name, password_hash)
		VALUES (?, ?, ?, ?)`

	queryUpdateIdentity = `
		UPDATE identities
		SET email = ?, full_name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	queryDeleteIdentity = `
		DELETE FROM identities WHERE id = ?`

	// Platform queries
	queryGetPlatformByName = `
		SELECT id, name, created_at FROM platforms WHERE name = ?`

	queryInsertPlatformNamed = `
		INSERT OR IGNORE INTO platforms (name) VALUES (?)`

	queryInsertPlatformFixed = `
		INSERT OR IGNORE INTO platforms (id, name) VALUES (?, ?)`

	// Currency queries
	queryGetCurrencyBySymbol = `
		SELECT id, symbol, name FROM currencies WHERE symbol = ?`

	queryInsertCurrency = `
		INSERT OR IGNORE INTO currencies (symbol, name) VALUES (?, ?)`

	// Account queries
	queryInsertAccount = `
		INSERT INTO accounts (id, identity_id, platform_id, balance, status, chat_enabled, mobile_number)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	accountColumns = `
		a.id, a.identity_id, a.platform_id, a.balance, a.status,
		a.chat_enabled, a.mobile_number, a.version, a.created_at, a.updated_at`

	queryGetAccountById = `
		SELECT` + accountColumns + `
		FROM accounts a
		WHERE a.id = ?`

	queryGetAccount = `
		SELECT` + accountColumns + `
		FROM accounts a
		JOIN platforms p ON p.id = a.platform_id
		WHERE a.identity_id = ? AND p.name = ?`

	queryGetAccountByEmail = `
		SELECT` + accountColumns + `
		FROM accounts a
		JOIN identities i ON i.id = a.identity_id
		JOIN platforms p ON p.id = a.platform_id
		WHERE i.email = ? AND p.name = ?`

	queryGetAccountByMobile = `
		SELECT` + accountColumns + `
		FROM accounts a
		JOIN platforms p ON p.id = a.platform_id
		WHERE a.mobile_number = ? AND p.name = ?`

	queryListAccounts = `
		SELECT` + accountColumns + `
		FROM accounts a
		JOIN platforms p ON p.id = a.platform_id
		WHERE p.name = ?
		ORDER BY a.created_at`

	queryCheckMobileExists = `
		SELECT EXISTS (
			SELECT 1 FROM accounts a
			JOIN platforms p ON p.id = a.platform_id
			WHERE a.mobile_number = ? AND p.name = ?
		)`

	queryGetAccountForUpdate = `
		SELECT balance, version FROM accounts WHERE id = ?`

	queryUpdateAccountBalance = `
		UPDATE accounts
		SET balance = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?`

	queryGetAccountStatus = `
		SELECT status FROM accounts WHERE id = ?`

	querySetAccountStatus = `
		UPDATE accounts SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	queryGetChatEnabled = `
		SELECT chat_enabled FROM accounts WHERE id = ?`

	querySetChatEnabled = `
		UPDATE accounts SET chat_enabled = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	// Wallet queries
	queryInsertWallet = `
		INSERT INTO wallets (id, account_id, currency_id, balance, deposit_address)
		VALUES (?, ?, ?, ?, ?)`

	walletColumns = `
		w.id, w.account_id, w.currency_id, c.symbol, c.name,
		w.balance, w.deposit_address, w.version, w.created_at`

	queryGetWallet = `
		SELECT` + walletColumns + `
		FROM wallets w
		JOIN currencies c ON c.id = w.currency_id
		WHERE w.account_id = ? AND c.symbol = ?`

	queryGetWalletByAddress = `
		SELECT` + walletColumns + `
		FROM wallets w
		JOIN currencies c ON c.id = w.currency_id
		WHERE w.deposit_address = ?`

	queryListWallets = `
		SELECT` + walletColumns + `
		FROM wallets w
		JOIN currencies c ON c.id = w.currency_id
		WHERE w.account_id = ?
		ORDER BY c.symbol`

	queryGetWalletForUpdate = `
		SELECT account_id, balance, version FROM wallets WHERE id = ?`

	queryUpdateWalletBalance = `
		UPDATE wallets
		SET balance = ?, version = version + 1
		WHERE id = ? AND version = ?`

	queryUpdateDepositAddress = `
		UPDATE wallets SET deposit_address = ? WHERE id = ?`

	queryCheckAddressExists = `
		SELECT EXISTS (SELECT 1 FROM wallets WHERE deposit_address = ?)`

	// Transaction queries
	queryInsertTransaction = `
		INSERT INTO transactions (
			id, account_id, sender_account_id, wallet_id, amount,
			transaction_type, status, reason, recipient, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	transactionColumns = `
		t.id, t.account_id, t.sender_account_id, t.wallet_id, t.amount,
		t.transaction_type, t.status, t.reason, t.recipient, t.created_at`

	queryGetTransactions = `
		SELECT` + transactionColumns + `
		FROM transactions t
		WHERE t.account_id = ?
		ORDER BY t.created_at`

	queryGetAllTransactions = `
		SELECT` + transactionColumns + `
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		JOIN platforms p ON p.id = a.platform_id
		WHERE p.name = ?
		ORDER BY t.created_at DESC`

	// Chat queries
	queryInsertMessage = `
		INSERT INTO chat_messages (id, sender_id, receiver_id, message, is_read, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`

	queryGetMessage = `
		SELECT id, sender_id, receiver_id, message, is_read, created_at
		FROM chat_messages
		WHERE id = ?`

	queryGetChatHistory = `
		SELECT id, sender_id, receiver_id, message, is_read, created_at
		FROM chat_messages
		WHERE sender_id = ? OR receiver_id = ?
		ORDER BY created_at`

	queryCountUnread = `
		SELECT COUNT(*) FROM chat_messages WHERE receiver_id = ? AND is_read = 0`

	queryMarkAllRead = `
		UPDATE chat_messages SET is_read = 1 WHERE receiver_id = ? AND is_read = 0`

	queryMarkReadFromSender = `
		UPDATE chat_messages SET is_read = 1 WHERE receiver_id = ? AND sender_id = ? AND is_read = 0`
)
