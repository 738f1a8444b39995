package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Identity represents an actor in the system. The email is the primary
// handle; mobile-number identity is a per-account attribute because it only
// exists on mobile-money platforms.
type Identity struct {
	Id           string    `db:"id"`
	Email        string    `db:"email"`
	FullName     string    `db:"full_name"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Platform is a simulated financial venue. Created lazily on first
// registration; immutable afterwards.
type Platform struct {
	Id        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// Account is an identity's balance-holding membership in one platform.
// At most one account per (identity, platform) pair.
type Account struct {
	Id           string          `db:"id"`
	IdentityId   string          `db:"identity_id"`
	PlatformId   int64           `db:"platform_id"`
	Balance      decimal.Decimal `db:"balance"`
	Status       string          `db:"status"`
	ChatEnabled  bool            `db:"chat_enabled"`
	MobileNumber string          `db:"mobile_number"`
	Version      int64           `db:"version"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// CryptoCurrency is a global symbol/name pair shared across platforms.
type CryptoCurrency struct {
	Id     int64  `db:"id"`
	Symbol string `db:"symbol"`
	Name   string `db:"name"`
}

// Wallet holds one account's balance in one crypto currency. The deposit
// address is unique across all wallets system-wide.
type Wallet struct {
	Id             string          `db:"id"`
	AccountId      string          `db:"account_id"`
	CurrencyId     int64           `db:"currency_id"`
	Symbol         string          `db:"symbol"`
	CurrencyName   string          `db:"currency_name"`
	Balance        decimal.Decimal `db:"balance"`
	DepositAddress string          `db:"deposit_address"`
	Version        int64           `db:"version"`
	CreatedAt      time.Time       `db:"created_at"`
}

// Transaction is an immutable audit record posting against one account.
type Transaction struct {
	Id              string          `db:"id"`
	AccountId       string          `db:"account_id"`
	SenderAccountId string          `db:"sender_account_id"`
	WalletId        string          `db:"wallet_id"`
	Amount          decimal.Decimal `db:"amount"`
	Type            string          `db:"transaction_type"`
	Status          string          `db:"status"`
	Reason          string          `db:"reason"`
	Recipient       string          `db:"recipient"`
	CreatedAt       time.Time       `db:"created_at"`
}

// ChatMessage is immutable once created except for the read flag.
type ChatMessage struct {
	Id         string    `db:"id"`
	SenderId   string    `db:"sender_id"`
	ReceiverId string    `db:"receiver_id"`
	Message    string    `db:"message"`
	IsRead     bool      `db:"is_read"`
	CreatedAt  time.Time `db:"created_at"`
}

// Transaction type tags
const (
	TransactionSent             = "sent"
	TransactionReceived         = "received"
	TransactionCryptoSent       = "crypto_sent"
	TransactionCryptoReceived   = "crypto_received"
	TransactionCryptoDeposit    = "crypto_deposit"
	TransactionCryptoWithdrawal = "crypto_withdrawal"
	TransactionAdminAdjusted    = "admin_adjusted"
	TransactionRequested        = "requested"
	TransactionRequestReceived  = "request_received"
)

// Transaction statuses
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// Account statuses
const (
	AccountActive = "active"
	AccountFrozen = "frozen"
)
