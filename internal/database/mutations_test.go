package database

import (
	"context"
	"errors"
	"testing"

	"platform-ledger-go/internal/models"
	"platform-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

// seedPair provisions two PayPal accounts with BTC/ETH wallets.
func seedPair(t *testing.T, service *Service) (*models.Account, *models.Account) {
	t.Helper()
	ctx := context.Background()

	sender, err := service.ProvisionAccount(ctx, provisionParams("sender@example.com", "PayPal"))
	if err != nil {
		t.Fatalf("Failed to provision sender: %v", err)
	}
	recipient, err := service.ProvisionAccount(ctx, provisionParams("recipient@example.com", "PayPal"))
	if err != nil {
		t.Fatalf("Failed to provision recipient: %v", err)
	}
	return sender, recipient
}

func TestExecuteTransfer_Fiat(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sender, recipient := seedPair(t, service)

	err := service.ExecuteTransfer(ctx, store.TransferParams{
		SenderAccountId:       sender.Id,
		RecipientAccountId:    recipient.Id,
		Amount:                decimal.NewFromInt(120),
		Reason:                "rent",
		SenderType:            models.TransactionSent,
		RecipientType:         models.TransactionReceived,
		SenderRowRecipient:    "recipient@example.com",
		RecipientRowRecipient: "sender@example.com",
	})
	if err != nil {
		t.Fatalf("ExecuteTransfer failed: %v", err)
	}

	senderAfter, _ := service.getAccountById(ctx, sender.Id)
	recipientAfter, _ := service.getAccountById(ctx, recipient.Id)
	if !senderAfter.Balance.Equal(decimal.NewFromInt(380)) {
		t.Errorf("Expected sender balance 380, got %s", senderAfter.Balance.String())
	}
	if !recipientAfter.Balance.Equal(decimal.NewFromInt(620)) {
		t.Errorf("Expected recipient balance 620, got %s", recipientAfter.Balance.String())
	}

	// Total across both accounts is conserved.
	total := senderAfter.Balance.Add(recipientAfter.Balance)
	if !total.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected conserved total 1000, got %s", total.String())
	}

	senderRows, err := service.GetTransactions(ctx, sender.Id)
	if err != nil {
		t.Fatalf("GetTransactions failed: %v", err)
	}
	if len(senderRows) != 1 {
		t.Fatalf("Expected 1 sender row, got %d", len(senderRows))
	}
	if senderRows[0].Type != models.TransactionSent {
		t.Errorf("Expected sent type, got %s", senderRows[0].Type)
	}
	if senderRows[0].Recipient != "recipient@example.com" {
		t.Errorf("Expected counterparty label, got %q", senderRows[0].Recipient)
	}
	if senderRows[0].Status != models.StatusCompleted {
		t.Errorf("Expected completed, got %s", senderRows[0].Status)
	}

	recipientRows, _ := service.GetTransactions(ctx, recipient.Id)
	if len(recipientRows) != 1 || recipientRows[0].Type != models.TransactionReceived {
		t.Fatalf("Expected mirrored received row, got %+v", recipientRows)
	}
	if !recipientRows[0].Amount.Equal(senderRows[0].Amount) {
		t.Error("Mirrored rows disagree on amount")
	}
}

func TestExecuteTransfer_InsufficientFundsIsNoOp(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sender, recipient := seedPair(t, service)

	err := service.ExecuteTransfer(ctx, store.TransferParams{
		SenderAccountId:    sender.Id,
		RecipientAccountId: recipient.Id,
		Amount:             decimal.NewFromInt(501),
		SenderType:         models.TransactionSent,
		RecipientType:      models.TransactionReceived,
	})
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}

	// Nothing moved and nothing was recorded.
	senderAfter, _ := service.getAccountById(ctx, sender.Id)
	if !senderAfter.Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Sender balance changed on failed transfer: %s", senderAfter.Balance.String())
	}
	rows, _ := service.GetTransactions(ctx, sender.Id)
	if len(rows) != 0 {
		t.Errorf("Expected no transaction rows, got %d", len(rows))
	}
}

func TestExecuteTransfer_Crypto(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sender, recipient := seedPair(t, service)

	senderWallet, err := service.GetWallet(ctx, sender.Id, "BTC")
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	recipientWallet, _ := service.GetWallet(ctx, recipient.Id, "BTC")

	// Fund the sender wallet first.
	err = service.CreditWallet(ctx, senderWallet.Id, decimal.NewFromInt(2), store.TransactionParams{
		AccountId: sender.Id,
		Amount:    decimal.NewFromInt(2),
		Type:      models.TransactionCryptoDeposit,
	})
	if err != nil {
		t.Fatalf("CreditWallet failed: %v", err)
	}

	err = service.ExecuteTransfer(ctx, store.TransferParams{
		SenderAccountId:    sender.Id,
		RecipientAccountId: recipient.Id,
		SenderWalletId:     senderWallet.Id,
		RecipientWalletId:  recipientWallet.Id,
		Amount:             decimal.RequireFromString("0.75"),
		SenderType:         models.TransactionCryptoSent,
		RecipientType:      models.TransactionCryptoReceived,
	})
	if err != nil {
		t.Fatalf("Crypto transfer failed: %v", err)
	}

	senderAfter, _ := service.GetWallet(ctx, sender.Id, "BTC")
	recipientAfter, _ := service.GetWallet(ctx, recipient.Id, "BTC")
	if !senderAfter.Balance.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("Expected sender wallet 1.25, got %s", senderAfter.Balance.String())
	}
	if !recipientAfter.Balance.Equal(decimal.RequireFromString("0.75")) {
		t.Errorf("Expected recipient wallet 0.75, got %s", recipientAfter.Balance.String())
	}

	// Fiat balances untouched by a crypto transfer.
	senderAccount, _ := service.getAccountById(ctx, sender.Id)
	if !senderAccount.Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Fiat balance changed: %s", senderAccount.Balance.String())
	}
}

func TestDebitWallet_ShortBalanceIsNoOp(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sender, _ := seedPair(t, service)
	wallet, _ := service.GetWallet(ctx, sender.Id, "BTC")

	err := service.DebitWallet(ctx, wallet.Id, decimal.NewFromInt(1), store.TransactionParams{
		Amount: decimal.NewFromInt(1),
		Type:   models.TransactionCryptoWithdrawal,
	})
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}

	rows, _ := service.GetTransactions(ctx, sender.Id)
	if len(rows) != 0 {
		t.Errorf("Expected no rows after failed debit, got %d", len(rows))
	}
}

func TestSetWalletBalance_RecordsSignedDifference(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sender, _ := seedPair(t, service)
	wallet, _ := service.GetWallet(ctx, sender.Id, "ETH")

	if err := service.CreditWallet(ctx, wallet.Id, decimal.NewFromInt(8), store.TransactionParams{
		Amount: decimal.NewFromInt(8), Type: models.TransactionCryptoDeposit,
	}); err != nil {
		t.Fatalf("CreditWallet failed: %v", err)
	}

	old, err := service.SetWalletBalance(ctx, wallet.Id, decimal.NewFromInt(3), "correction")
	if err != nil {
		t.Fatalf("SetWalletBalance failed: %v", err)
	}
	if !old.Equal(decimal.NewFromInt(8)) {
		t.Errorf("Expected old balance 8, got %s", old.String())
	}

	after, _ := service.GetWallet(ctx, sender.Id, "ETH")
	if !after.Balance.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Expected balance 3, got %s", after.Balance.String())
	}

	rows, _ := service.GetTransactions(ctx, sender.Id)
	last := rows[len(rows)-1]
	if last.Type != models.TransactionAdminAdjusted {
		t.Errorf("Expected admin_adjusted, got %s", last.Type)
	}
	// new minus old, signed.
	if !last.Amount.Equal(decimal.NewFromInt(-5)) {
		t.Errorf("Expected recorded amount -5, got %s", last.Amount.String())
	}
	if last.Recipient != "admin" {
		t.Errorf("Expected admin label, got %q", last.Recipient)
	}
}

func TestAdjustAccountBalance_AllowsNegativeResult(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sender, _ := seedPair(t, service)
	err := service.AdjustAccountBalance(ctx, sender.Id, decimal.NewFromInt(-600), store.TransactionParams{
		Amount: decimal.NewFromInt(-600),
		Type:   models.TransactionAdminAdjusted,
		Reason: "clawback",
	})
	if err != nil {
		t.Fatalf("AdjustAccountBalance failed: %v", err)
	}

	after, _ := service.getAccountById(ctx, sender.Id)
	if !after.Balance.Equal(decimal.NewFromInt(-100)) {
		t.Errorf("Expected balance -100, got %s", after.Balance.String())
	}
}

func TestRecordTransactionPair_NoBalanceChange(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	requester, target := seedPair(t, service)

	first := store.TransactionParams{
		AccountId:       requester.Id,
		SenderAccountId: requester.Id,
		Amount:          decimal.NewFromInt(50),
		Type:            models.TransactionRequested,
		Status:          models.StatusPending,
		Recipient:       "recipient@example.com",
	}
	second := store.TransactionParams{
		AccountId:       target.Id,
		SenderAccountId: requester.Id,
		Amount:          decimal.NewFromInt(50),
		Type:            models.TransactionRequestReceived,
		Status:          models.StatusPending,
		Recipient:       "sender@example.com",
	}
	if err := service.RecordTransactionPair(ctx, first, second); err != nil {
		t.Fatalf("RecordTransactionPair failed: %v", err)
	}

	requesterAfter, _ := service.getAccountById(ctx, requester.Id)
	if !requesterAfter.Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Balance changed on request: %s", requesterAfter.Balance.String())
	}

	rows, _ := service.GetTransactions(ctx, target.Id)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].Status != models.StatusPending {
		t.Errorf("Expected pending, got %s", rows[0].Status)
	}
}

func TestGetAllTransactions_FiltersByPlatform(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	paypal, err := service.ProvisionAccount(ctx, provisionParams("alice@example.com", "PayPal"))
	if err != nil {
		t.Fatalf("ProvisionAccount failed: %v", err)
	}
	other, err := service.ProvisionAccount(ctx, provisionParams("alice2@example.com", "CryptoPort"))
	if err != nil {
		t.Fatalf("ProvisionAccount failed: %v", err)
	}

	record := store.TransactionParams{Amount: decimal.NewFromInt(1), Type: models.TransactionAdminAdjusted}
	if err := service.AdjustAccountBalance(ctx, paypal.Id, decimal.NewFromInt(1), record); err != nil {
		t.Fatalf("AdjustAccountBalance failed: %v", err)
	}
	if err := service.AdjustAccountBalance(ctx, other.Id, decimal.NewFromInt(1), record); err != nil {
		t.Fatalf("AdjustAccountBalance failed: %v", err)
	}

	rows, err := service.GetAllTransactions(ctx, "PayPal")
	if err != nil {
		t.Fatalf("GetAllTransactions failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected PayPal feed of 1, got %d", len(rows))
	}
}
