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
)

func (s *Service) GetIdentityById(ctx context.Context, identityId string) (*models.Identity, error) {
	return s.scanIdentity(s.db.QueryRowContext(ctx, queryGetIdentityById, identityId))
}

func (s *Service) GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error) {
	return s.scanIdentity(s.db.QueryRowContext(ctx, queryGetIdentityByEmail, email))
}

func (s *Service) scanIdentity(row *sql.Row) (*models.Identity, error) {
	var identity models.Identity
	err := row.Scan(
		&identity.Id,
		&identity.Email,
		&identity.FullName,
		&identity.PasswordHash,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query identity: %w", err)
	}
	return &identity, nil
}

func (s *Service) UpdateIdentity(ctx context.Context, identityId string, update store.IdentityUpdate) (*models.Identity, error) {
	identity, err := s.GetIdentityById(ctx, identityId)
	if err != nil {
		return nil, err
	}

	if update.Email != nil {
		identity.Email = *update.Email
	}
	if update.FullName != nil {
		identity.FullName = *update.FullName
	}

	_, err = s.db.ExecContext(ctx, queryUpdateIdentity, identity.Email, identity.FullName, identityId)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update identity: %w", err)
	}

	return s.GetIdentityById(ctx, identityId)
}

// DeleteIdentity removes the identity; accounts, wallets, transactions and
// chat messages follow via ON DELETE CASCADE.
func (s *Service) DeleteIdentity(ctx context.Context, identityId string) error {
	result, err := s.db.ExecContext(ctx, queryDeleteIdentity, identityId)
	if err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrIdentityNotFound
	}
	return nil
}

func (s *Service) GetPlatformByName(ctx context.Context, name string) (*models.Platform, error) {
	var platform models.Platform
	err := s.db.QueryRowContext(ctx, queryGetPlatformByName, name).Scan(
		&platform.Id,
		&platform.Name,
		&platform.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrPlatformNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query platform: %w", err)
	}
	return &platform, nil
}

// getOrCreatePlatformTx resolves the platform id inside a transaction,
// creating the row on first use. A fixed id is honored when set; venues with
// a reserved identifier keep it across fresh databases.
func getOrCreatePlatformTx(ctx context.Context, tx *sql.Tx, name string, fixedId int64) (int64, error) {
	if fixedId > 0 {
		if _, err := tx.ExecContext(ctx, queryInsertPlatformFixed, fixedId, name); err != nil {
			return 0, fmt.Errorf("failed to create platform %s: %w", name, err)
		}
	} else {
		if _, err := tx.ExecContext(ctx, queryInsertPlatformNamed, name); err != nil {
			return 0, fmt.Errorf("failed to create platform %s: %w", name, err)
		}
	}

	var id int64
	var platformName string
	var createdAt sql.NullTime
	err := tx.QueryRowContext(ctx, queryGetPlatformByName, name).Scan(&id, &platformName, &createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve platform %s: %w", name, err)
	}
	return id, nil
}

// getOrCreateCurrencyTx resolves the currency id inside a transaction,
// creating the symbol/name pair on first use.
func getOrCreateCurrencyTx(ctx context.Context, tx *sql.Tx, symbol, name string) (int64, error) {
	if _, err := tx.ExecContext(ctx, queryInsertCurrency, symbol, name); err != nil {
		return 0, fmt.Errorf("failed to create currency %s: %w", symbol, err)
	}

	var currency models.CryptoCurrency
	err := tx.QueryRowContext(ctx, queryGetCurrencyBySymbol, symbol).Scan(&currency.Id, &currency.Symbol, &currency.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve currency %s: %w", symbol, err)
	}
	return currency.Id, nil
}
