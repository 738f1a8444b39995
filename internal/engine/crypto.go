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
	"time"

	"platform-ledger-go/internal/models"
	"platform-ledger-go/internal/notify"
	"platform-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

// withdrawalFee is the flat network fee charged on top of every crypto
// withdrawal, regardless of currency.
var withdrawalFee = decimal.RequireFromString("0.001")

// DepositCrypto credits a simulated on-chain deposit to the identity's
// wallet for the given symbol.
func (e *Engine) DepositCrypto(ctx context.Context, platformName, identityId, symbol, rawAmount string) error {
	policy, err := e.policy(platformName)
	if err != nil {
		return err
	}
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return err
	}

	account, err := e.store.GetAccount(ctx, identityId, policy.Name)
	if err != nil {
		return err
	}
	if err := requireActive(account); err != nil {
		return err
	}

	wallet, err := e.store.GetWallet(ctx, account.Id, symbol)
	if err != nil {
		return err
	}

	err = e.store.CreditWallet(ctx, wallet.Id, amount, store.TransactionParams{
		AccountId: account.Id,
		Amount:    amount,
		Type:      models.TransactionCryptoDeposit,
		Reason:    "deposit",
		Recipient: wallet.DepositAddress,
	})
	if err != nil {
		return err
	}

	e.notifier.NotifyTransfer(ctx, notify.TransferEvent{
		Platform:  policy.Name,
		SenderId:  account.Id,
		Recipient: wallet.DepositAddress,
		Amount:    amount.String(),
		Currency:  symbol,
		Kind:      "crypto_deposit",
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// WithdrawCrypto debits the withdrawal amount plus the flat network fee.
// The recorded amount excludes the fee; the destination address lands in
// the recipient column. A balance of exactly amount plus fee withdraws to
// zero.
func (e *Engine) WithdrawCrypto(ctx context.Context, platformName, identityId, symbol, rawAmount, destination string) error {
	policy, err := e.policy(platformName)
	if err != nil {
		return err
	}
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return err
	}

	account, err := e.store.GetAccount(ctx, identityId, policy.Name)
	if err != nil {
		return err
	}
	if err := requireActive(account); err != nil {
		return err
	}

	wallet, err := e.store.GetWallet(ctx, account.Id, symbol)
	if err != nil {
		return err
	}

	total := amount.Add(withdrawalFee)
	err = e.store.DebitWallet(ctx, wallet.Id, total, store.TransactionParams{
		AccountId: account.Id,
		Amount:    amount,
		Type:      models.TransactionCryptoWithdrawal,
		Reason:    "withdrawal",
		Recipient: destination,
	})
	if err != nil {
		return err
	}

	e.notifier.NotifyTransfer(ctx, notify.TransferEvent{
		Platform:  policy.Name,
		SenderId:  account.Id,
		Recipient: destination,
		Amount:    amount.String(),
		Currency:  symbol,
		Kind:      "crypto_withdrawal",
		Timestamp: time.Now().UTC(),
	})
	return nil
}
