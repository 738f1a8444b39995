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

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"platform-ledger-go/internal/models"
	"platform-ledger-go/internal/store"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// ProvisionAccount creates the platform membership in one transaction:
// platform row on first use, identity if new, the account, and any seeded
// wallets with their currencies.
func (s *Service) ProvisionAccount(ctx context.Context, params store.ProvisionParams) (*models.Account, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	platformId, err := getOrCreatePlatformTx(ctx, tx, params.PlatformName, params.PlatformId)
	if err != nil {
		return nil, err
	}

	// Reuse an existing identity when the email is already known; the
	// account-level uniqueness constraint still blocks double registration
	// on the same platform.
	identityId := params.IdentityId
	var existingId string
	err = tx.QueryRowContext(ctx, `SELECT id FROM identities WHERE email = ?`, params.Email).Scan(&existingId)
	switch {
	case err == nil:
		identityId = existingId
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, queryInsertIdentity,
			identityId, params.Email, params.FullName, params.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("failed to create identity: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to query identity: %w", err)
	}

	if params.MobileNumber != "" {
		var exists bool
		err = tx.QueryRowContext(ctx, queryCheckMobileExists, params.MobileNumber, params.PlatformName).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check mobile number: %w", err)
		}
		if exists {
			return nil, store.ErrDuplicateMobile
		}
	}

	accountId := newId()
	_, err = tx.ExecContext(ctx, queryInsertAccount,
		accountId,
		identityId,
		platformId,
		params.Balance.String(),
		models.AccountActive,
		0, // chat stays disabled until an operator grants it
		nullable(params.MobileNumber),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	for _, seed := range params.Wallets {
		currencyId, err := getOrCreateCurrencyTx(ctx, tx, seed.Symbol, seed.CurrencyName)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx, queryInsertWallet,
			newId(), accountId, currencyId, seed.Balance.String(), seed.DepositAddress)
		if err != nil {
			if isUniqueViolation(err) && strings.Contains(err.Error(), "deposit_address") {
				return nil, store.ErrDuplicateAddress
			}
			return nil, fmt.Errorf("failed to create %s wallet: %w", seed.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	zap.L().Info("Provisioned account",
		zap.String("accountId", accountId),
		zap.String("platform", params.PlatformName),
		zap.Int("wallets", len(params.Wallets)))

	return s.getAccountById(ctx, accountId)
}

func (s *Service) getAccountById(ctx context.Context, accountId string) (*models.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx, queryGetAccountById, accountId))
}

func (s *Service) GetAccount(ctx context.Context, identityId string, platformName string) (*models.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx, queryGetAccount, identityId, platformName))
}

func (s *Service) GetAccountByEmail(ctx context.Context, email, platformName string) (*models.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx, queryGetAccountByEmail, email, platformName))
}

func (s *Service) GetAccountByMobile(ctx context.Context, mobile, platformName string) (*models.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx, queryGetAccountByMobile, mobile, platformName))
}

func (s *Service) ListAccounts(ctx context.Context, platformName string) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, queryListAccounts, platformName)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer closeRows(rows)

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

func (s *Service) UpdateAccount(ctx context.Context, accountId string, update store.AccountUpdate) error {
	account, err := s.getAccountById(ctx, accountId)
	if err != nil {
		return err
	}

	if update.Balance != nil {
		account.Balance = *update.Balance
	}
	if update.Status != nil {
		account.Status = *update.Status
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE accounts SET balance = ?, status = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		account.Balance.String(), account.Status, accountId)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// ToggleAccountStatus flips active<->frozen and returns the new status.
func (s *Service) ToggleAccountStatus(ctx context.Context, accountId string) (string, error) {
	var status string
	err := s.db.QueryRowContext(ctx, queryGetAccountStatus, accountId).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query account status: %w", err)
	}

	next := models.AccountFrozen
	if status == models.AccountFrozen {
		next = models.AccountActive
	}

	if _, err := s.db.ExecContext(ctx, querySetAccountStatus, next, accountId); err != nil {
		return "", fmt.Errorf("failed to update account status: %w", err)
	}
	return next, nil
}

// ToggleChat flips the per-account chat flag and returns the new value.
func (s *Service) ToggleChat(ctx context.Context, accountId string) (bool, error) {
	var enabled bool
	err := s.db.QueryRowContext(ctx, queryGetChatEnabled, accountId).Scan(&enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return false, store.ErrAccountNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to query chat flag: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, querySetChatEnabled, !enabled, accountId); err != nil {
		return false, fmt.Errorf("failed to update chat flag: %w", err)
	}
	return !enabled, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	account, err := scanAccountRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrAccountNotFound
	}
	return account, err
}

func scanAccountRow(row rowScanner) (*models.Account, error) {
	var account models.Account
	var balance string
	var mobile sql.NullString
	err := row.Scan(
		&account.Id,
		&account.IdentityId,
		&account.PlatformId,
		&balance,
		&account.Status,
		&account.ChatEnabled,
		&mobile,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	account.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("invalid stored balance %q: %w", balance, err)
	}
	account.MobileNumber = mobile.String
	return &account, nil
}
