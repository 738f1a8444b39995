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
	"time"

	"platform-ledger-go/internal/models"
	"platform-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// lockAccountTx reads an account's balance and version inside the
// transaction. The version feeds the optimistic update.
func lockAccountTx(ctx context.Context, tx *sql.Tx, accountId string) (decimal.Decimal, int64, error) {
	var balance string
	var version int64
	err := tx.QueryRowContext(ctx, queryGetAccountForUpdate, accountId).Scan(&balance, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, 0, store.ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to read account balance: %w", err)
	}

	parsed, err := decimal.NewFromString(balance)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("invalid stored balance %q: %w", balance, err)
	}
	return parsed, version, nil
}

func lockWalletTx(ctx context.Context, tx *sql.Tx, walletId string) (string, decimal.Decimal, int64, error) {
	var accountId, balance string
	var version int64
	err := tx.QueryRowContext(ctx, queryGetWalletForUpdate, walletId).Scan(&accountId, &balance, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", decimal.Zero, 0, store.ErrWalletNotFound
	}
	if err != nil {
		return "", decimal.Zero, 0, fmt.Errorf("failed to read wallet balance: %w", err)
	}

	parsed, err := decimal.NewFromString(balance)
	if err != nil {
		return "", decimal.Zero, 0, fmt.Errorf("invalid stored balance %q: %w", balance, err)
	}
	return accountId, parsed, version, nil
}

func updateAccountBalanceTx(ctx context.Context, tx *sql.Tx, accountId string, balance decimal.Decimal, version int64) error {
	result, err := tx.ExecContext(ctx, queryUpdateAccountBalance, balance.String(), accountId, version)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check account update: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrConcurrentModification
	}
	return nil
}

func updateWalletBalanceTx(ctx context.Context, tx *sql.Tx, walletId string, balance decimal.Decimal, version int64) error {
	result, err := tx.ExecContext(ctx, queryUpdateWalletBalance, balance.String(), walletId, version)
	if err != nil {
		return fmt.Errorf("failed to update wallet balance: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check wallet update: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrConcurrentModification
	}
	return nil
}

func insertTransactionTx(ctx context.Context, tx *sql.Tx, params store.TransactionParams) error {
	status := params.Status
	if status == "" {
		status = models.StatusCompleted
	}
	_, err := tx.ExecContext(ctx, queryInsertTransaction,
		newId(),
		params.AccountId,
		nullable(params.SenderAccountId),
		nullable(params.WalletId),
		params.Amount.String(),
		params.Type,
		status,
		params.Reason,
		params.Recipient,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

// ExecuteTransfer atomically moves value between two accounts, or between
// two wallets when the wallet ids are set, and appends the mirrored pair of
// audit rows. Nothing is written when the sender's funds are short.
func (s *Service) ExecuteTransfer(ctx context.Context, params store.TransferParams) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	crypto := params.SenderWalletId != ""
	if crypto {
		_, senderBalance, senderVersion, err := lockWalletTx(ctx, tx, params.SenderWalletId)
		if err != nil {
			return err
		}
		if senderBalance.LessThan(params.Amount) {
			return store.ErrInsufficientFunds
		}
		_, recipientBalance, recipientVersion, err := lockWalletTx(ctx, tx, params.RecipientWalletId)
		if err != nil {
			return err
		}
		if err := updateWalletBalanceTx(ctx, tx, params.SenderWalletId, senderBalance.Sub(params.Amount), senderVersion); err != nil {
			return err
		}
		if err := updateWalletBalanceTx(ctx, tx, params.RecipientWalletId, recipientBalance.Add(params.Amount), recipientVersion); err != nil {
			return err
		}
	} else {
		senderBalance, senderVersion, err := lockAccountTx(ctx, tx, params.SenderAccountId)
		if err != nil {
			return err
		}
		if senderBalance.LessThan(params.Amount) {
			return store.ErrInsufficientFunds
		}
		recipientBalance, recipientVersion, err := lockAccountTx(ctx, tx, params.RecipientAccountId)
		if err != nil {
			return err
		}
		if err := updateAccountBalanceTx(ctx, tx, params.SenderAccountId, senderBalance.Sub(params.Amount), senderVersion); err != nil {
			return err
		}
		if err := updateAccountBalanceTx(ctx, tx, params.RecipientAccountId, recipientBalance.Add(params.Amount), recipientVersion); err != nil {
			return err
		}
	}

	senderRow := store.TransactionParams{
		AccountId:       params.SenderAccountId,
		SenderAccountId: params.SenderAccountId,
		WalletId:        params.SenderWalletId,
		Amount:          params.Amount,
		Type:            params.SenderType,
		Reason:          params.Reason,
		Recipient:       params.SenderRowRecipient,
	}
	recipientRow := store.TransactionParams{
		AccountId:       params.RecipientAccountId,
		SenderAccountId: params.SenderAccountId,
		WalletId:        params.RecipientWalletId,
		Amount:          params.Amount,
		Type:            params.RecipientType,
		Reason:          params.Reason,
		Recipient:       params.RecipientRowRecipient,
	}
	if err := insertTransactionTx(ctx, tx, senderRow); err != nil {
		return err
	}
	if err := insertTransactionTx(ctx, tx, recipientRow); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}

	zap.L().Info("Executed transfer",
		zap.String("sender", params.SenderAccountId),
		zap.String("recipient", params.RecipientAccountId),
		zap.String("amount", params.Amount.String()),
		zap.Bool("crypto", crypto))
	return nil
}

// CreditWallet adds funds to a wallet and appends one audit row.
func (s *Service) CreditWallet(ctx context.Context, walletId string, amount decimal.Decimal, record store.TransactionParams) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	accountId, balance, version, err := lockWalletTx(ctx, tx, walletId)
	if err != nil {
		return err
	}
	if err := updateWalletBalanceTx(ctx, tx, walletId, balance.Add(amount), version); err != nil {
		return err
	}

	record.WalletId = walletId
	if record.AccountId == "" {
		record.AccountId = accountId
	}
	if err := insertTransactionTx(ctx, tx, record); err != nil {
		return err
	}
	return tx.Commit()
}

// DebitWallet removes funds from a wallet, failing the whole operation when
// the balance is short of the total, and appends one audit row.
func (s *Service) DebitWallet(ctx context.Context, walletId string, total decimal.Decimal, record store.TransactionParams) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	accountId, balance, version, err := lockWalletTx(ctx, tx, walletId)
	if err != nil {
		return err
	}
	if balance.LessThan(total) {
		return store.ErrInsufficientFunds
	}
	if err := updateWalletBalanceTx(ctx, tx, walletId, balance.Sub(total), version); err != nil {
		return err
	}

	record.WalletId = walletId
	if record.AccountId == "" {
		record.AccountId = accountId
	}
	if err := insertTransactionTx(ctx, tx, record); err != nil {
		return err
	}
	return tx.Commit()
}

// SetWalletBalance overwrites a wallet balance and records the signed
// difference from the previous value. Returns the previous balance.
func (s *Service) SetWalletBalance(ctx context.Context, walletId string, balance decimal.Decimal, reason string) (decimal.Decimal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	accountId, old, version, err := lockWalletTx(ctx, tx, walletId)
	if err != nil {
		return decimal.Zero, err
	}
	if err := updateWalletBalanceTx(ctx, tx, walletId, balance, version); err != nil {
		return decimal.Zero, err
	}

	record := store.TransactionParams{
		AccountId: accountId,
		WalletId:  walletId,
		Amount:    balance.Sub(old),
		Type:      models.TransactionAdminAdjusted,
		Reason:    reason,
		Recipient: "admin",
	}
	if err := insertTransactionTx(ctx, tx, record); err != nil {
		return decimal.Zero, err
	}
	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit adjustment: %w", err)
	}
	return old, nil
}

// AdjustAccountBalance applies a signed delta to a fiat balance and appends
// the supplied audit row. Admin operations may drive the balance negative;
// no floor is enforced here.
func (s *Service) AdjustAccountBalance(ctx context.Context, accountId string, delta decimal.Decimal, record store.TransactionParams) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	balance, version, err := lockAccountTx(ctx, tx, accountId)
	if err != nil {
		return err
	}
	if err := updateAccountBalanceTx(ctx, tx, accountId, balance.Add(delta), version); err != nil {
		return err
	}

	if record.AccountId == "" {
		record.AccountId = accountId
	}
	if err := insertTransactionTx(ctx, tx, record); err != nil {
		return err
	}
	return tx.Commit()
}

// AdjustWalletBalance applies a signed delta to a wallet balance and appends
// the supplied audit row.
func (s *Service) AdjustWalletBalance(ctx context.Context, walletId string, delta decimal.Decimal, record store.TransactionParams) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	accountId, balance, version, err := lockWalletTx(ctx, tx, walletId)
	if err != nil {
		return err
	}
	if err := updateWalletBalanceTx(ctx, tx, walletId, balance.Add(delta), version); err != nil {
		return err
	}

	record.WalletId = walletId
	if record.AccountId == "" {
		record.AccountId = accountId
	}
	if err := insertTransactionTx(ctx, tx, record); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordTransactionPair appends two audit rows atomically without touching
// any balance. Used by money requests, which stay pending forever.
func (s *Service) RecordTransactionPair(ctx context.Context, first, second store.TransactionParams) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	if err := insertTransactionTx(ctx, tx, first); err != nil {
		return err
	}
	if err := insertTransactionTx(ctx, tx, second); err != nil {
		return err
	}
	return tx.Commit()
}
