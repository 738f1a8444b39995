package store

import (
	"context"
	"errors"

	"platform-ledger-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations. The boundary
// layer maps these to user-visible statuses with errors.Is.
var (
	ErrIdentityNotFound       = errors.New("identity not found")
	ErrPlatformNotFound       = errors.New("platform not found")
	ErrAccountNotFound        = errors.New("account not found")
	ErrWalletNotFound         = errors.New("wallet not found")
	ErrCurrencyNotFound       = errors.New("currency not found")
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrDuplicateMobile        = errors.New("mobile number already registered")
	ErrDuplicateAccount       = errors.New("account already exists for platform")
	ErrDuplicateAddress       = errors.New("deposit address already in use")
	ErrInsufficientFunds      = errors.New("insufficient balance")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// WalletSeed describes one wallet to provision at registration.
type WalletSeed struct {
	Symbol         string
	CurrencyName   string
	Balance        decimal.Decimal
	DepositAddress string
}

// ProvisionParams creates an identity, its platform account and any wallets
// in a single atomic unit.
type ProvisionParams struct {
	IdentityId   string
	Email        string
	FullName     string
	PasswordHash string
	PlatformName string
	PlatformId   int64 // 0 means lookup/create by name only
	MobileNumber string
	Balance      decimal.Decimal
	Wallets      []WalletSeed
}

// TransactionParams describes one audit row to append.
type TransactionParams struct {
	AccountId       string
	SenderAccountId string
	WalletId        string
	Amount          decimal.Decimal
	Type            string
	Status          string
	Reason          string
	Recipient       string
}

// TransferParams moves value between two accounts (fiat) or two wallets
// (crypto, when the wallet ids are set) and appends the mirrored pair of
// transaction rows.
type TransferParams struct {
	SenderAccountId    string
	RecipientAccountId string
	SenderWalletId     string
	RecipientWalletId  string
	Amount             decimal.Decimal
	Reason             string
	SenderType         string
	RecipientType      string
	// Counterparty labels recorded in each row's recipient column.
	SenderRowRecipient    string
	RecipientRowRecipient string
}

// IdentityUpdate carries optional field updates; nil means leave unchanged.
type IdentityUpdate struct {
	Email    *string
	FullName *string
}

// AccountUpdate carries optional admin field updates for an account.
type AccountUpdate struct {
	Balance *decimal.Decimal
	Status  *string
}

// LedgerStore defines the contract the SQLite backend satisfies. Every
// value-moving operation is atomic: balance checks, balance updates and
// transaction rows commit together or not at all.
type LedgerStore interface {
	// --- Identities ---
	GetIdentityById(ctx context.Context, identityId string) (*models.Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error)
	UpdateIdentity(ctx context.Context, identityId string, update IdentityUpdate) (*models.Identity, error)
	DeleteIdentity(ctx context.Context, identityId string) error

	// --- Platforms & currencies ---
	GetPlatformByName(ctx context.Context, name string) (*models.Platform, error)

	// --- Accounts ---
	ProvisionAccount(ctx context.Context, params ProvisionParams) (*models.Account, error)
	GetAccount(ctx context.Context, identityId string, platformName string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email, platformName string) (*models.Account, error)
	GetAccountByMobile(ctx context.Context, mobile, platformName string) (*models.Account, error)
	ListAccounts(ctx context.Context, platformName string) ([]models.Account, error)
	UpdateAccount(ctx context.Context, accountId string, update AccountUpdate) error
	ToggleAccountStatus(ctx context.Context, accountId string) (string, error)
	ToggleChat(ctx context.Context, accountId string) (bool, error)

	// --- Wallets ---
	GetWallet(ctx context.Context, accountId, symbol string) (*models.Wallet, error)
	GetWalletByAddress(ctx context.Context, address string) (*models.Wallet, error)
	ListWallets(ctx context.Context, accountId string) ([]models.Wallet, error)
	UpdateDepositAddress(ctx context.Context, walletId, address string) error

	// --- Value mutations (atomic) ---
	ExecuteTransfer(ctx context.Context, params TransferParams) error
	CreditWallet(ctx context.Context, walletId string, amount decimal.Decimal, record TransactionParams) error
	DebitWallet(ctx context.Context, walletId string, total decimal.Decimal, record TransactionParams) error
	SetWalletBalance(ctx context.Context, walletId string, balance decimal.Decimal, reason string) (decimal.Decimal, error)
	AdjustAccountBalance(ctx context.Context, accountId string, delta decimal.Decimal, record TransactionParams) error
	AdjustWalletBalance(ctx context.Context, walletId string, delta decimal.Decimal, record TransactionParams) error
	RecordTransactionPair(ctx context.Context, first, second TransactionParams) error

	// --- Transactions ---
	GetTransactions(ctx context.Context, accountId string) ([]models.Transaction, error)
	GetAllTransactions(ctx context.Context, platformName string) ([]models.Transaction, error)

	// --- Chat ---
	CreateMessage(ctx context.Context, senderId, receiverId, message string) (*models.ChatMessage, error)
	GetChatHistory(ctx context.Context, identityId string) ([]models.ChatMessage, error)
	CountUnread(ctx context.Context, identityId string) (int64, error)
	MarkMessagesRead(ctx context.Context, receiverId, senderId string) (int64, error)

	// --- Lifecycle ---
	Close()
}
