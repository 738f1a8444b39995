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
	"platform-ledger-go/internal/platform"
	"platform-ledger-go/internal/store"
)

// resolveCounterparty finds the other account by the platform's identity
// handle: mobile number on mobile-money platforms, email everywhere else.
func (e *Engine) resolveCounterparty(ctx context.Context, policy platform.Policy, handle string) (*models.Account, error) {
	if policy.MobileIdentity {
		return e.store.GetAccountByMobile(ctx, handle, policy.Name)
	}
	return e.store.GetAccountByEmail(ctx, handle, policy.Name)
}

// senderLabel is what the recipient sees in their transaction row.
func (e *Engine) senderLabel(ctx context.Context, policy platform.Policy, sender *models.Account) (string, error) {
	if policy.MobileIdentity {
		return sender.MobileNumber, nil
	}
	identity, err := e.store.GetIdentityById(ctx, sender.IdentityId)
	if err != nil {
		return "", err
	}
	return identity.Email, nil
}

// Transfer moves fiat between two accounts on the same platform. The
// recipient is addressed by the platform's identity handle. Both sides get
// a mirrored transaction row naming the counterparty.
func (e *Engine) Transfer(ctx context.Context, platformName, senderIdentityId, recipientHandle, rawAmount, reason string) error {
	policy, err := e.policy(platformName)
	if err != nil {
		return err
	}
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return err
	}

	sender, err := e.store.GetAccount(ctx, senderIdentityId, policy.Name)
	if err != nil {
		return err
	}
	if err := requireActive(sender); err != nil {
		return err
	}

	recipient, err := e.resolveCounterparty(ctx, policy, recipientHandle)
	if err != nil {
		return err
	}
	if recipient.Id == sender.Id {
		return ErrSelfTransfer
	}

	label, err := e.senderLabel(ctx, policy, sender)
	if err != nil {
		return err
	}

	err = e.store.ExecuteTransfer(ctx, store.TransferParams{
		SenderAccountId:       sender.Id,
		RecipientAccountId:    recipient.Id,
		Amount:                amount,
		Reason:                reason,
		SenderType:            models.TransactionSent,
		RecipientType:         models.TransactionReceived,
		SenderRowRecipient:    recipientHandle,
		RecipientRowRecipient: label,
	})
	if err != nil {
		return err
	}

	e.notifier.NotifyTransfer(ctx, notify.TransferEvent{
		Platform:  policy.Name,
		SenderId:  sender.Id,
		Recipient: recipientHandle,
		Amount:    amount.String(),
		Currency:  "fiat",
		Kind:      "transfer",
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// TransferCrypto moves one currency between two accounts' wallets on the
// same platform.
func (e *Engine) TransferCrypto(ctx context.Context, platformName, senderIdentityId, recipientHandle, symbol, rawAmount, reason string) error {
	policy, err := e.policy(platformName)
	if err != nil {
		return err
	}
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return err
	}

	sender, err := e.store.GetAccount(ctx, senderIdentityId, policy.Name)
	if err != nil {
		return err
	}
	if err := requireActive(sender); err != nil {
		return err
	}

	recipient, err := e.resolveCounterparty(ctx, policy, recipientHandle)
	if err != nil {
		return err
	}
	if recipient.Id == sender.Id {
		return ErrSelfTransfer
	}

	senderWallet, err := e.store.GetWallet(ctx, sender.Id, symbol)
	if err != nil {
		return err
	}
	recipientWallet, err := e.store.GetWallet(ctx, recipient.Id, symbol)
	if err != nil {
		return err
	}

	label, err := e.senderLabel(ctx, policy, sender)
	if err != nil {
		return err
	}

	err = e.store.ExecuteTransfer(ctx, store.TransferParams{
		SenderAccountId:       sender.Id,
		RecipientAccountId:    recipient.Id,
		SenderWalletId:        senderWallet.Id,
		RecipientWalletId:     recipientWallet.Id,
		Amount:                amount,
		Reason:                reason,
		SenderType:            models.TransactionCryptoSent,
		RecipientType:         models.TransactionCryptoReceived,
		SenderRowRecipient:    recipientHandle,
		RecipientRowRecipient: label,
	})
	if err != nil {
		return err
	}

	e.notifier.NotifyTransfer(ctx, notify.TransferEvent{
		Platform:  policy.Name,
		SenderId:  sender.Id,
		Recipient: recipientHandle,
		Amount:    amount.String(),
		Currency:  symbol,
		Kind:      "crypto_transfer",
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// RequestMoney records a pending request pair: one row for the requester,
// one for the counterparty. No balance moves and the request is never
// settled automatically.
func (e *Engine) RequestMoney(ctx context.Context, platformName, requesterIdentityId, targetHandle, rawAmount, reason string) error {
	policy, err := e.policy(platformName)
	if err != nil {
		return err
	}
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return err
	}

	requester, err := e.store.GetAccount(ctx, requesterIdentityId, policy.Name)
	if err != nil {
		return err
	}
	if err := requireActive(requester); err != nil {
		return err
	}

	target, err := e.resolveCounterparty(ctx, policy, targetHandle)
	if err != nil {
		return err
	}
	if target.Id == requester.Id {
		return ErrSelfTransfer
	}

	label, err := e.senderLabel(ctx, policy, requester)
	if err != nil {
		return err
	}

	requesterRow := store.TransactionParams{
		AccountId:       requester.Id,
		SenderAccountId: requester.Id,
		Amount:          amount,
		Type:            models.TransactionRequested,
		Status:          models.StatusPending,
		Reason:          reason,
		Recipient:       targetHandle,
	}
	targetRow := store.TransactionParams{
		AccountId:       target.Id,
		SenderAccountId: requester.Id,
		Amount:          amount,
		Type:            models.TransactionRequestReceived,
		Status:          models.StatusPending,
		Reason:          reason,
		Recipient:       label,
	}
	return e.store.RecordTransactionPair(ctx, requesterRow, targetRow)
}
