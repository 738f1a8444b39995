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

// Package engine implements value movement across simulated platforms:
// registration with seeded balances, fiat and crypto transfers, deposits,
// withdrawals, money requests and operator adjustments.
package engine

import (
	"context"
	"errors"
	"fmt"

	"platform-ledger-go/internal/auth"
	"platform-ledger-go/internal/models"
	"platform-ledger-go/internal/notify"
	"platform-ledger-go/internal/platform"
	"platform-ledger-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrSelfTransfer   = errors.New("cannot transfer to your own account")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrAccountFrozen  = errors.New("account is frozen")
	ErrMobileRequired = errors.New("mobile number is required on this platform")
	ErrNotOperator    = errors.New("operator privileges required")
)

// addressAttempts bounds regeneration when a generated deposit address
// collides with an existing wallet.
const addressAttempts = 5

type Engine struct {
	store    store.LedgerStore
	registry *platform.Registry
	notifier *notify.Producer
}

func NewEngine(s store.LedgerStore, registry *platform.Registry, notifier *notify.Producer) *Engine {
	return &Engine{store: s, registry: registry, notifier: notifier}
}

// AccountView joins an account with its identity and wallets for listings.
type AccountView struct {
	Account  models.Account
	Email    string
	FullName string
	Operator bool
	Wallets  []models.Wallet
}

func (e *Engine) policy(platformName string) (platform.Policy, error) {
	policy, ok := e.registry.Policy(platformName)
	if !ok {
		return platform.Policy{}, store.ErrPlatformNotFound
	}
	return policy, nil
}

// Register creates a platform account seeded per platform policy. An email
// matching the platform's operator address receives operator balances
// instead of the standard ones.
func (e *Engine) Register(ctx context.Context, platformName, email, fullName, password, mobile string) (*models.Account, error) {
	policy, err := e.policy(platformName)
	if err != nil {
		return nil, err
	}
	if policy.MobileIdentity && mobile == "" {
		return nil, ErrMobileRequired
	}
	if !policy.MobileIdentity {
		mobile = ""
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	operator := e.registry.IsOperator(policy.Name, email)
	balance := policy.StartingBalance
	if operator {
		balance = policy.AdminStartingBalance
	}

	for attempt := 0; ; attempt++ {
		seeds := buildWalletSeeds(policy, operator)
		account, err := e.store.ProvisionAccount(ctx, store.ProvisionParams{
			IdentityId:   uuid.New().String(),
			Email:        email,
			FullName:     fullName,
			PasswordHash: hash,
			PlatformName: policy.Name,
			PlatformId:   policy.FixedId,
			MobileNumber: mobile,
			Balance:      balance,
			Wallets:      seeds,
		})
		if errors.Is(err, store.ErrDuplicateAddress) && attempt < addressAttempts {
			continue
		}
		if err != nil {
			return nil, err
		}

		zap.L().Info("Registered account",
			zap.String("platform", policy.Name),
			zap.String("email", email),
			zap.Bool("operator", operator))
		return account, nil
	}
}

// RegisterOperator registers the platform's configured operator account.
func (e *Engine) RegisterOperator(ctx context.Context, platformName, fullName, password, mobile string) (*models.Account, error) {
	policy, err := e.policy(platformName)
	if err != nil {
		return nil, err
	}
	if policy.OperatorEmail == "" {
		return nil, fmt.Errorf("platform %s has no operator configured", policy.Name)
	}
	return e.Register(ctx, platformName, policy.OperatorEmail, fullName, password, mobile)
}

func buildWalletSeeds(policy platform.Policy, operator bool) []store.WalletSeed {
	seeds := make([]store.WalletSeed, 0, len(policy.Currencies))
	for _, currency := range policy.Currencies {
		balance := decimal.Zero
		if operator {
			if seeded, ok := policy.AdminWalletSeeds[currency.Symbol]; ok {
				balance = seeded
			}
		}
		seeds = append(seeds, store.WalletSeed{
			Symbol:         currency.Symbol,
			CurrencyName:   currency.Name,
			Balance:        balance,
			DepositAddress: platform.GenerateDepositAddress(currency.Symbol),
		})
	}
	return seeds
}

// Login authenticates against the identity's password and returns the
// platform account.
func (e *Engine) Login(ctx context.Context, platformName, email, password string) (*models.Account, error) {
	if _, err := e.policy(platformName); err != nil {
		return nil, err
	}
	identity, err := auth.Authenticate(ctx, e.store, email, password)
	if err != nil {
		return nil, err
	}
	return e.store.GetAccount(ctx, identity.Id, platformName)
}

// Balances returns the account and its wallets for a dashboard view.
func (e *Engine) Balances(ctx context.Context, platformName, identityId string) (*AccountView, error) {
	if _, err := e.policy(platformName); err != nil {
		return nil, err
	}
	account, err := e.store.GetAccount(ctx, identityId, platformName)
	if err != nil {
		return nil, err
	}
	identity, err := e.store.GetIdentityById(ctx, identityId)
	if err != nil {
		return nil, err
	}
	wallets, err := e.store.ListWallets(ctx, account.Id)
	if err != nil {
		return nil, err
	}
	return &AccountView{
		Account:  *account,
		Email:    identity.Email,
		FullName: identity.FullName,
		Operator: e.registry.IsOperator(platformName, identity.Email),
		Wallets:  wallets,
	}, nil
}

// Transactions returns the identity's transaction history on one platform,
// oldest first.
func (e *Engine) Transactions(ctx context.Context, platformName, identityId string) ([]models.Transaction, error) {
	account, err := e.store.GetAccount(ctx, identityId, platformName)
	if err != nil {
		return nil, err
	}
	return e.store.GetTransactions(ctx, account.Id)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

func requireActive(account *models.Account) error {
	if account.Status == models.AccountFrozen {
		return ErrAccountFrozen
	}
	return nil
}
