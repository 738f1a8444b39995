package database

import (
	"context"
	"database/sql"
	"fmt"

	"platform-ledger-go/internal/models"

	"github.com/shopspring/decimal"
)

func (s *Service) GetTransactions(ctx context.Context, accountId string) ([]models.Transaction, error) {
	return s.queryTransactions(ctx, queryGetTransactions, accountId)
}

func (s *Service) GetAllTransactions(ctx context.Context, platformName string) ([]models.Transaction, error) {
	return s.queryTransactions(ctx, queryGetAllTransactions, platformName)
}

func (s *Service) queryTransactions(ctx context.Context, query string, arg any) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer closeRows(rows)

	var transactions []models.Transaction
	for rows.Next() {
		var txn models.Transaction
		var amount string
		var senderAccountId, walletId sql.NullString
		err := rows.Scan(
			&txn.Id,
			&txn.AccountId,
			&senderAccountId,
			&walletId,
			&amount,
			&txn.Type,
			&txn.Status,
			&txn.Reason,
			&txn.Recipient,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
		}
		txn.SenderAccountId = senderAccountId.String
		txn.WalletId = walletId.String
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}
