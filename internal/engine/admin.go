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

package engine

import (
	"context"
	"errors"
	"time"

	"platform-ledger-go/internal/models"
	"platform-ledger-go/internal/notify"
	"platform-ledger-go/internal/platform"
	"platform-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// requireOperator resolves the caller's identity and checks it against the
// platform's configured operator email.
func (e *Engine) requireOperator(ctx context.Context, platformName, callerIdentityId string) error {
	identity, err := e.store.GetIdentityById(ctx, callerIdentityId)
	if err != nil {
		return err
	}
	if !e.registry.IsOperator(platformName, identity.Email) {
		return ErrNotOperator
	}
	return nil
}

func (e *Engine) targetAccount(ctx context.Context, platformName, targetEmail string) (*models.Account, error) {
	return e.store.GetAccountByEmail(ctx, targetEmail, platformName)
}

// notifyAdjustment publishes an admin adjustment over the notification
// threshold. The magnitude is compared, so clawbacks surface too.
func (e *Engine) notifyAdjustment(ctx context.Context, platformName, accountId, targetEmail, currency string, delta decimal.Decimal) {
	e.notifier.NotifyTransfer(ctx, notify.TransferEvent{
		Platform:  platformName,
		SenderId:  accountId,
		Recipient: targetEmail,
		Amount:    delta.Abs().String(),
		Currency:  currency,
		Kind:      "admin_adjustment",
		Timestamp: time.Now().UTC(),
	})
}

// FreezeToggle flips the target account between active and frozen and
// returns the new status.
func (e *Engine) FreezeToggle(ctx context.Context, platformName, callerIdentityId, targetEmail string) (string, error) {
	if err := e.requireOperator(ctx, platformName, callerIdentityId); err != nil {
		return "", err
	}
	account, err := e.targetAccount(ctx, platformName, targetEmail)
	if err != nil {
		return "", err
	}
	status, err := e.store.ToggleAccountStatus(ctx, account.Id)
	if err != nil {
		return "", err
	}
	zap.L().Info("Toggled account status",
		zap.String("platform", platformName),
		zap.String("target", targetEmail),
		zap.String("status", status))
	return status, nil
}

// SetWalletBalance overwrites the target's wallet balance with an absolute
// value. The audit row records the signed difference from the old balance.
// Returns the previous balance.
func (e *Engine) SetWalletBalance(ctx context.Context, platformName, callerIdentityId, targetEmail, symbol, rawBalance, reason string) (decimal.Decimal, error) {
	if err := e.requireOperator(ctx, platformName, callerIdentityId); err != nil {
		return decimal.Zero, err
	}
	balance, err := parseAmount(rawBalance)
	if err != nil {
		return decimal.Zero, err
	}
	account, err := e.targetAccount(ctx, platformName, targetEmail)
	if err != nil {
		return decimal.Zero, err
	}
	wallet, err := e.store.GetWallet(ctx, account.Id, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	old, err := e.store.SetWalletBalance(ctx, wallet.Id, balance, reason)
	if err != nil {
		return decimal.Zero, err
	}
	e.notifyAdjustment(ctx, platformName, account.Id, targetEmail, symbol, balance.Sub(old))
	return old, nil
}

// FundAccount applies a signed fiat delta to the target account. The audit
// row records the raw delta, negative for clawbacks.
func (e *Engine) FundAccount(ctx context.Context, platformName, callerIdentityId, targetEmail, rawDelta, reason string) error {
	if err := e.requireOperator(ctx, platformName, callerIdentityId); err != nil {
		return err
	}
	delta, err := parseAmount(rawDelta)
	if err != nil {
		return err
	}
	account, err := e.targetAccount(ctx, platformName, targetEmail)
	if err != nil {
		return err
	}
	err = e.store.AdjustAccountBalance(ctx, account.Id, delta, store.TransactionParams{
		AccountId: account.Id,
		Amount:    delta,
		Type:      models.TransactionAdminAdjusted,
		Reason:    reason,
		Recipient: "admin",
	})
	if err != nil {
		return err
	}
	e.notifyAdjustment(ctx, platformName, account.Id, targetEmail, "fiat", delta)
	return nil
}

// AdjustAccountBalance applies a signed fiat delta like FundAccount but
// records the absolute value, matching the correction-style audit trail
// some venues keep.
func (e *Engine) AdjustAccountBalance(ctx context.Context, platformName, callerIdentityId, targetEmail, rawDelta, reason string) error {
	if err := e.requireOperator(ctx, platformName, callerIdentityId); err != nil {
		return err
	}
	delta, err := parseAmount(rawDelta)
	if err != nil {
		return err
	}
	account, err := e.targetAccount(ctx, platformName, targetEmail)
	if err != nil {
		return err
	}
	err = e.store.AdjustAccountBalance(ctx, account.Id, delta, store.TransactionParams{
		AccountId: account.Id,
		Amount:    delta.Abs(),
		Type:      models.TransactionAdminAdjusted,
		Reason:    reason,
		Recipient: "admin",
	})
	if err != nil {
		return err
	}
	e.notifyAdjustment(ctx, platformName, account.Id, targetEmail, "fiat", delta)
	return nil
}

// AdjustWalletBalance applies a signed delta to the target's wallet and
// records the raw delta.
func (e *Engine) AdjustWalletBalance(ctx context.Context, platformName, callerIdentityId, targetEmail, symbol, rawDelta, reason string) error {
	if err := e.requireOperator(ctx, platformName, callerIdentityId); err != nil {
		return err
	}
	delta, err := parseAmount(rawDelta)
	if err != nil {
		return err
	}
	account, err := e.targetAccount(ctx, platformName, targetEmail)
	if err != nil {
		return err
	}
	wallet, err := e.store.GetWallet(ctx, account.Id, symbol)
	if err != nil {
		return err
	}
	err = e.store.AdjustWalletBalance(ctx, wallet.Id, delta, store.TransactionParams{
		AccountId: account.Id,
		Amount:    delta,
		Type:      models.TransactionAdminAdjusted,
		Reason:    reason,
		Recipient: "admin",
	})
	if err != nil {
		return err
	}
	e.notifyAdjustment(ctx, platformName, account.Id, targetEmail, symbol, delta)
	return nil
}

// ReplaceDepositAddress issues a fresh deposit address for the target's
// wallet and returns it.
func (e *Engine) ReplaceDepositAddress(ctx context.Context, platformName, callerIdentityId, targetEmail, symbol string) (string, error) {
	if err := e.requireOperator(ctx, platformName, callerIdentityId); err != nil {
		return "", err
	}
	account, err := e.targetAccount(ctx, platformName, targetEmail)
	if err != nil {
		return "", err
	}
	wallet, err := e.store.GetWallet(ctx, account.Id, symbol)
	if err != nil {
		return "", err
	}

	for attempt := 0; ; attempt++ {
		address := platform.GenerateDepositAddress(symbol)
		err := e.store.UpdateDepositAddress(ctx, wallet.Id, address)
		if errors.Is(err, store.ErrDuplicateAddress) && attempt < addressAttempts {
			continue
		}
		if err != nil {
			return "", err
		}
		return address, nil
	}
}

// UpdateIdentity changes the target identity's email or full name.
func (e *Engine) UpdateIdentity(ctx context.Context, platformName, callerIdentityId, targetEmail string, update store.IdentityUpdate) (*models.Identity, error) {
	if err := e.requireOperator(ctx, platformName, callerIdentityId); err != nil {
		return nil, err
	}
	identity, err := e.store.GetIdentityByEmail(ctx, targetEmail)
	if err != nil {
		return nil, err
	}
	return e.store.UpdateIdentity(ctx, identity.Id, update)
}

// DeleteIdentity removes the target identity and everything hanging off it.
func (e *Engine) DeleteIdentity(ctx context.Context, platformName, callerIdentityId, targetEmail string) error {
	if err := e.requireOperator(ctx, platformName, callerIdentityId); err != nil {
		return err
	}
	identity, err := e.store.GetIdentityByEmail(ctx, targetEmail)
	if err != nil {
		return err
	}
	zap.L().Info("Deleting identity",
		zap.String("platform", platformName),
		zap.String("target", targetEmail))
	return e.store.DeleteIdentity(ctx, identity.Id)
}

// ListAccounts returns every account on the platform joined with identity
// and wallet details.
func (e *Engine) ListAccounts(ctx context.Context, platformName, callerIdentityId string) ([]AccountView, error) {
	if err := e.requireOperator(ctx, platformName, callerIdentityId); err != nil {
		return nil, err
	}
	accounts, err := e.store.ListAccounts(ctx, platformName)
	if err != nil {
		return nil, err
	}

	views := make([]AccountView, 0, len(accounts))
	for _, account := range accounts {
		identity, err := e.store.GetIdentityById(ctx, account.IdentityId)
		if err != nil {
			return nil, err
		}
		wallets, err := e.store.ListWallets(ctx, account.Id)
		if err != nil {
			return nil, err
		}
		views = append(views, AccountView{
			Account:  account,
			Email:    identity.Email,
			FullName: identity.FullName,
			Operator: e.registry.IsOperator(platformName, identity.Email),
			Wallets:  wallets,
		})
	}
	return views, nil
}

// AllTransactions returns the platform-wide transaction feed, newest first.
func (e *Engine) AllTransactions(ctx context.Context, platformName, callerIdentityId string) ([]models.Transaction, error) {
	if err := e.requireOperator(ctx, platformName, callerIdentityId); err != nil {
		return nil, err
	}
	return e.store.GetAllTransactions(ctx, platformName)
}
