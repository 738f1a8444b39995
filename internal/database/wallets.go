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

	"platform-ledger-go/internal/models"
	"platform-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

func (s *Service) GetWallet(ctx context.Context, accountId, symbol string) (*models.Wallet, error) {
	return scanWallet(s.db.QueryRowContext(ctx, queryGetWallet, accountId, symbol))
}

func (s *Service) GetWalletByAddress(ctx context.Context, address string) (*models.Wallet, error) {
	return scanWallet(s.db.QueryRowContext(ctx, queryGetWalletByAddress, address))
}

func (s *Service) ListWallets(ctx context.Context, accountId string) ([]models.Wallet, error) {
	rows, err := s.db.QueryContext(ctx, queryListWallets, accountId)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer closeRows(rows)

	var wallets []models.Wallet
	for rows.Next() {
		wallet, err := scanWalletRow(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, *wallet)
	}
	return wallets, rows.Err()
}

func (s *Service) UpdateDepositAddress(ctx context.Context, walletId, address string) error {
	result, err := s.db.ExecContext(ctx, queryUpdateDepositAddress, address, walletId)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateAddress
		}
		return fmt.Errorf("failed to update deposit address: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrWalletNotFound
	}
	return nil
}

func scanWallet(row *sql.Row) (*models.Wallet, error) {
	wallet, err := scanWalletRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrWalletNotFound
	}
	return wallet, err
}

func scanWalletRow(row rowScanner) (*models.Wallet, error) {
	var wallet models.Wallet
	var balance string
	err := row.Scan(
		&wallet.Id,
		&wallet.AccountId,
		&wallet.CurrencyId,
		&wallet.Symbol,
		&wallet.CurrencyName,
		&balance,
		&wallet.DepositAddress,
		&wallet.Version,
		&wallet.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan wallet: %w", err)
	}

	wallet.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("invalid stored balance %q: %w", balance, err)
	}
	return &wallet, nil
}
