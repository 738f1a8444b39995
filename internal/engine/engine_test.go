package engine

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"platform-ledger-go/internal/auth"
	"platform-ledger-go/internal/database"
	"platform-ledger-go/internal/models"
	"platform-ledger-go/internal/platform"
	"platform-ledger-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func setupTestEngine(t *testing.T) (*Engine, *database.Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	service := database.NewServiceFromDB(db)
	if err := service.InitSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	eng := NewEngine(service, platform.Default(), nil)
	cleanup := func() {
		db.Close()
	}
	return eng, service, cleanup
}

func register(t *testing.T, eng *Engine, platformName, email string) *models.Account {
	t.Helper()
	account, err := eng.Register(context.Background(), platformName, email, "Test User", "hunter22", "")
	if err != nil {
		t.Fatalf("Register(%s, %s) failed: %v", platformName, email, err)
	}
	return account
}

func TestRegister_SeedsPerPlatform(t *testing.T) {
	eng, service, cleanup := setupTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	cases := []struct {
		platform string
		balance  int64
		wallets  int
	}{
		{"PayPal", 500, 2},
		{"CryptoPort", 1000, 8},
		{"QuickCash", 100, 2},
		{"PayFlow", 500, 2},
	}

	for _, tc := range cases {
		account := register(t, eng, tc.platform, "user@"+tc.platform+".test")
		if !account.Balance.Equal(decimal.NewFromInt(tc.balance)) {
			t.Errorf("%s: expected balance %d, got %s", tc.platform, tc.balance, account.Balance.String())
		}
		wallets, err := service.ListWallets(ctx, account.Id)
		if err != nil {
			t.Fatalf("ListWallets failed: %v", err)
		}
		if len(wallets) != tc.wallets {
			t.Errorf("%s: expected %d wallets, got %d", tc.platform, tc.wallets, len(wallets))
		}
		for _, wallet := range wallets {
			if !wallet.Balance.Equal(decimal.Zero) {
				t.Errorf("%s: expected zero %s seed, got %s", tc.platform, wallet.Symbol, wallet.Balance.String())
			}
		}
	}
}

func TestRegister_OperatorSeeds(t *testing.T) {
	eng, service, cleanup := setupTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	account := register(t, eng, "PayPal", "admin@PayPal.com")
	if !account.Balance.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("Expected operator balance 10000, got %s", account.Balance.String())
	}

	btc, err := service.GetWallet(ctx, account.Id, "BTC")
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	if !btc.Balance.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected BTC seed 10, got %s", btc.Balance.String())
	}
	eth, _ := service.GetWallet(ctx, account.Id, "ETH")
	if !eth.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected ETH seed 100, got %s", eth.Balance.String())
	}
}

func TestRegister_MobileIdentity(t *testing.T) {
	eng, _, cleanup := setupTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	_, err := eng.Register(ctx, "SendWave", "alice@example.com", "Alice", "hunter22", "")
	if !errors.Is(err, ErrMobileRequired) {
		t.Errorf("Expected ErrMobileRequired, got %v", err)
	}

	account, err := eng.Register(ctx, "SendWave", "alice@example.com", "Alice", "hunter22", "+15551112222")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if account.MobileNumber != "+15551112222" {
		t.Errorf("Expected mobile stored, got %q", account.MobileNumber)
	}
}

func TestRegister_UnknownPlatform(t *testing.T) {
	eng, _, cleanup := setupTestEngine(t)
	defer cleanup()

	_, err := eng.Register(context.Background(), "NoSuchVenue", "a@b.test", "A", "pw", "")
	if !errors.Is(err, store.ErrPlatformNotFound) {
		t.Errorf("Expected ErrPlatformNotFound, got %v", err)
	}
}

func TestTransfer(t *testing.T) {
	eng, service, cleanup := setupTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	alice := register(t, eng, "PayPal", "alice@example.com")
	bob := register(t, eng, "PayPal", "bob@example.com")

	if err := eng.Transfer(ctx, "PayPal", alice.IdentityId, "bob@example.com", "150", "lunch"); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	aliceView, err := eng.Balances(ctx, "PayPal", alice.IdentityId)
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if !aliceView.Account.Balance.Equal(decimal.NewFromInt(350)) {
		t.Errorf("Expected 350, got %s", aliceView.Account.Balance.String())
	}

	bobRows, err := service.GetTransactions(ctx, bob.Id)
	if err != nil {
		t.Fatalf("GetTransactions failed: %v", err)
	}
	if len(bobRows) != 1 || bobRows[0].Type != models.TransactionReceived {
		t.Fatalf("Expected one received row, got %+v", bobRows)
	}
	if bobRows[0].Recipient != "alice@example.com" {
		t.Errorf("Expected sender label on received row, got %q", bobRows[0].Recipient)
	}
	if bobRows[0].Reason != "lunch" {
		t.Errorf("Expected reason carried over, got %q", bobRows[0].Reason)
	}
}

func TestTransfer_SelfRejected(t *testing.T) {
	eng, _, cleanup := setupTestEngine(t)
	defer cleanup()

	alice := register(t, eng, "PayPal", "alice@example.com")
	err := eng.Transfer(context.Background(), "PayPal", alice.IdentityId, "alice@example.com", "10", "")
	if !errors.Is(err, ErrSelfTransfer) {
		t.Errorf("Expected ErrSelfTransfer, got %v", err)
	}
}

func TestTransfer_InvalidAmount(t *testing.T) {
	eng, _, cleanup := setupTestEngine(t)
	defer cleanup()

	alice := register(t, eng, "PayPal", "alice@example.com")
	register(t, eng, "PayPal", "bob@example.com")

	err := eng.Transfer(context.Background(), "PayPal", alice.IdentityId, "bob@example.com", "ten", "")
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestTransfer_FrozenSender(t *testing.T) {
	eng, service, cleanup := setupTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	alice := register(t, eng, "PayPal", "alice@example.com")
	register(t, eng, "PayPal", "bob@example.com")

	if _, err := service.ToggleAccountStatus(ctx, alice.Id); err != nil {
		t.Fatalf("ToggleAccountStatus failed: %v", err)
	}

	err := eng.Transfer(ctx, "PayPal", alice.IdentityId, "bob@example.com", "10", "")
	if !errors.Is(err, ErrAccountFrozen) {
		t.Errorf("Expected ErrAccountFrozen, got %v", err)
	}
}

func TestTransfer_ByMobile(t *testing.T) {
	eng, _, cleanup := setupTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	alice, err := eng.Register(ctx, "SendWave", "alice@example.com", "Alice", "pw", "+15551110001")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := eng.Register(ctx, "SendWave", "bob@example.com", "Bob", "pw", "+15551110002"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := eng.Transfer(ctx, "SendWave", alice.IdentityId, "+15551110002", "75", "airtime"); err != nil {
		t.Fatalf("Transfer by mobile failed: %v", err)
	}

	rows, err := eng.Transactions(ctx, "SendWave", alice.IdentityId)
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Recipient != "+15551110002" {
		t.Fatalf("Expected mobile counterparty label, got %+v", rows)
	}
}

func TestWithdrawCrypto_FeeAndExactZero(t *testing.T) {
	eng, service, cleanup := setupTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	alice := register(t, eng, "CryptoPort", "alice@example.com")

	if err := eng.DepositCrypto(ctx, "CryptoPort", alice.IdentityId, "BTC", "1.501"); err != nil {
		t.Fatalf("DepositCrypto failed: %v", err)
	}

	// Withdrawing 1.5 costs 1.501 with the flat 0.001 fee, draining exactly
	// to zero.
	if err := eng.WithdrawCrypto(ctx, "CryptoPort", alice.IdentityId, "BTC", "1.5", "1DestAddr"); err != nil {
		t.Fatalf("WithdrawCrypto failed: %v", err)
	}

	wallet, err := service.GetWallet(ctx, alice.Id, "BTC")
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	if !wallet.Balance.Equal(decimal.Zero) {
		t.Errorf("Expected zero balance, got %s", wallet.Balance.String())
	}

	rows, _ := service.GetTransactions(ctx, alice.Id)
	last := rows[len(rows)-1]
	if last.Type != models.TransactionCryptoWithdrawal {
		t.Errorf("Expected crypto_withdrawal, got %s", last.Type)
	}
	// Recorded amount excludes the network fee.
	if !last.Amount.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("Expected recorded 1.5, got %s", last.Amount.String())
	}
	if last.Recipient != "1DestAddr" {
		t.Errorf("Expected destination address, got %q", last.Recipient)
	}
}

func TestWithdrawCrypto_FeePushesOverBalance(t *testing.T) {
	eng, _, cleanup := setupTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	alice := register(t, eng, "CryptoPort", "alice@example.com")
	if err := eng.DepositCrypto(ctx, "CryptoPort", alice.IdentityId, "BTC", "1"); err != nil {
		t.Fatalf("DepositCrypto failed: %v", err)
	}

	// Balance covers the amount but not the fee.
	err := eng.WithdrawCrypto(ctx, "CryptoPort", alice.IdentityId, "BTC", "1", "1DestAddr")
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Errorf("Expected ErrInsufficientFunds, got %v", err)
	}
}

func TestRequestMoney_PendingPair(t *testing.T) {
	eng, service, cleanup := setupTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	alice := register(t, eng, "PayPal", "alice@example.com")
	bob := register(t, eng, "PayPal", "bob@example.com")

	if err := eng.RequestMoney(ctx, "PayPal", alice.IdentityId, "bob@example.com", "80", "owed"); err != nil {
		t.Fatalf("RequestMoney failed: %v", err)
	}

	aliceRows, _ := service.GetTransactions(ctx, alice.Id)
	bobRows, _ := service.GetTransactions(ctx, bob.Id)
	if len(aliceRows) != 1 || aliceRows[0].Type != models.TransactionRequested {
		t.Fatalf("Expected requested row, got %+v", aliceRows)
	}
	if len(bobRows) != 1 || bobRows[0].Type != models.TransactionRequestReceived {
		t.Fatalf("Expected request_received row, got %+v", bobRows)
	}
	if aliceRows[0].Status != models.StatusPending || bobRows[0].Status != models.StatusPending {
		t.Error("Expected both rows pending")
	}

	view, _ := eng.Balances(ctx, "PayPal", bob.IdentityId)
	if !view.Account.Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Request moved funds: %s", view.Account.Balance.String())
	}
}

func TestAdminFundVersusAdjustRecording(t *testing.T) {
	eng, service, cleanup := setupTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	operator := register(t, eng, "CryptoPort", "admin@cryptoport.com")
	alice := register(t, eng, "CryptoPort", "alice@example.com")

	if err := eng.FundAccount(ctx, "CryptoPort", operator.IdentityId, "alice@example.com", "-200", "clawback"); err != nil {
		t.Fatalf("FundAccount failed: %v", err)
	}
	if err := eng.AdjustAccountBalance(ctx, "CryptoPort", operator.IdentityId, "alice@example.com", "-100", "correction"); err != nil {
		t.Fatalf("AdjustAccountBalance failed: %v", err)
	}

	view, _ := eng.Balances(ctx, "CryptoPort", alice.IdentityId)
	if !view.Account.Balance.Equal(decimal.NewFromInt(700)) {
		t.Errorf("Expected 1000-200-100=700, got %s", view.Account.Balance.String())
	}

	rows, _ := service.GetTransactions(ctx, alice.Id)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 audit rows, got %d", len(rows))
	}
	// Fund records the raw signed delta; adjust records the absolute value.
	if !rows[0].Amount.Equal(decimal.NewFromInt(-200)) {
		t.Errorf("Expected fund row -200, got %s", rows[0].Amount.String())
	}
	if !rows[1].Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected adjust row 100, got %s", rows[1].Amount.String())
	}
}

func TestAdminOps_RequireOperator(t *testing.T) {
	eng, _, cleanup := setupTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	alice := register(t, eng, "PayPal", "alice@example.com")
	register(t, eng, "PayPal", "bob@example.com")

	if err := eng.FundAccount(ctx, "PayPal", alice.IdentityId, "bob@example.com", "100", ""); !errors.Is(err, ErrNotOperator) {
		t.Errorf("FundAccount: expected ErrNotOperator, got %v", err)
	}
	if _, err := eng.ListAccounts(ctx, "PayPal", alice.IdentityId); !errors.Is(err, ErrNotOperator) {
		t.Errorf("ListAccounts: expected ErrNotOperator, got %v", err)
	}
	if _, err := eng.FreezeToggle(ctx, "PayPal", alice.IdentityId, "bob@example.com"); !errors.Is(err, ErrNotOperator) {
		t.Errorf("FreezeToggle: expected ErrNotOperator, got %v", err)
	}
}

func TestReplaceDepositAddress(t *testing.T) {
	eng, service, cleanup := setupTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	operator := register(t, eng, "PayPal", "admin@PayPal.com")
	alice := register(t, eng, "PayPal", "alice@example.com")

	before, _ := service.GetWallet(ctx, alice.Id, "BTC")
	address, err := eng.ReplaceDepositAddress(ctx, "PayPal", operator.IdentityId, "alice@example.com", "BTC")
	if err != nil {
		t.Fatalf("ReplaceDepositAddress failed: %v", err)
	}
	if address == before.DepositAddress {
		t.Error("Expected a fresh address")
	}
	if !strings.HasPrefix(address, "1") {
		t.Errorf("Expected BTC-style address, got %q", address)
	}
}

func TestLogin(t *testing.T) {
	eng, _, cleanup := setupTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	registered := register(t, eng, "PayPal", "alice@example.com")

	account, err := eng.Login(ctx, "PayPal", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if account.Id != registered.Id {
		t.Errorf("Expected account %s, got %s", registered.Id, account.Id)
	}

	_, err = eng.Login(ctx, "PayPal", "alice@example.com", "wrong")
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	_, err = eng.Login(ctx, "PayPal", "nobody@example.com", "hunter22")
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
