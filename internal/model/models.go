package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Privacy levels shared by users and transactions.
const (
	PrivacyPublic  = "public"
	PrivacyFriends = "friends"
	PrivacyPrivate = "private"
)

// Transaction statuses. Transitions are pending -> completed or
// pending -> failed only; terminal records are immutable.
const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
)

// Payment request statuses. pending is the only non-terminal state.
const (
	RequestStatusPending   = "pending"
	RequestStatusPaid      = "paid"
	RequestStatusDeclined  = "declined"
	RequestStatusCancelled = "cancelled"
)

// User binds an external (Telegram) account to a username and wallet.
// Usernames are stored lower-cased; the unique indexes on external_id and
// username back the claim invariants.
type User struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalID    int64     `gorm:"not null;uniqueIndex" json:"external_id"`
	Username      string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"username"`
	WalletAddress string    `gorm:"type:varchar(255);not null;index" json:"wallet_address"`
	Bio           string    `gorm:"type:text" json:"bio,omitempty"`
	Avatar        string    `gorm:"type:varchar(255)" json:"avatar,omitempty"`
	Privacy       string    `gorm:"type:varchar(16);not null;default:'public'" json:"privacy"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Transaction is one payment record in the ledger. Usernames are snapshots
// taken at creation time; renames never rewrite history.
type Transaction struct {
	ID           uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	FromAddress  string          `gorm:"type:varchar(255);not null;index" json:"from_address"`
	ToAddress    string          `gorm:"type:varchar(255);not null;index" json:"to_address"`
	FromUsername string          `gorm:"type:varchar(64)" json:"from_username,omitempty"`
	ToUsername   string          `gorm:"type:varchar(64)" json:"to_username,omitempty"`
	Amount       decimal.Decimal `gorm:"type:decimal(32,18);not null" json:"amount"`
	Token        string          `gorm:"type:varchar(16);not null;default:'USDC'" json:"token"`
	TxHash       string          `gorm:"type:varchar(255)" json:"tx_hash,omitempty"`
	Status       string          `gorm:"type:varchar(16);not null;index" json:"status"`
	Fee          decimal.Decimal `gorm:"type:decimal(32,18);not null" json:"fee"`
	Note         string          `gorm:"type:text" json:"note,omitempty"`
	Privacy      string          `gorm:"type:varchar(16);not null;default:'public'" json:"privacy"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}

// PaymentRequest is the social "request money" object, distinct from ledger
// transactions. TransactionID links the settling transaction once paid.
type PaymentRequest struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	FromUsername  string          `gorm:"type:varchar(64);not null;index" json:"from_username"`
	ToUsername    string          `gorm:"type:varchar(64);not null;index" json:"to_username"`
	Amount        decimal.Decimal `gorm:"type:decimal(32,18);not null" json:"amount"`
	Note          string          `gorm:"type:text" json:"note,omitempty"`
	Status        string          `gorm:"type:varchar(16);not null;index" json:"status"`
	TransactionID *uint64         `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Reaction is one (transaction, user, emoji) tuple. The composite unique
// index is what makes double-taps idempotent under concurrency.
type Reaction struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID uint64    `gorm:"not null;uniqueIndex:idx_tx_user_emoji" json:"transaction_id"`
	Username      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_tx_user_emoji" json:"username"`
	Emoji         string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_tx_user_emoji" json:"emoji"`
	CreatedAt     time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (Transaction) TableName() string {
	return "transactions"
}

func (PaymentRequest) TableName() string {
	return "payment_requests"
}

func (Reaction) TableName() string {
	return "reactions"
}
