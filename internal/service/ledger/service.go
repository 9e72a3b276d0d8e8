package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"paygram/internal/event"
	"paygram/internal/model"
	"paygram/pkg/errno"
)

// DefaultToken is the stablecoin recorded when the caller does not name one.
const DefaultToken = "USDC"

// DefaultFee is the protocol-level flat fee stamped on every transaction at
// creation time. It is not computed dynamically here.
var DefaultFee = decimal.RequireFromString("0.0001")

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// Service is the durable ledger of payment transactions.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateInput carries the fields of a new pending transaction. Usernames are
// optional snapshots; addresses are the authoritative parties.
type CreateInput struct {
	FromAddress  string
	ToAddress    string
	FromUsername string
	ToUsername   string
	Amount       decimal.Decimal
	Token        string
	Note         string
	Privacy      string
}

// CreatePending records a transaction in status pending, before the external
// transfer has happened. The generated id is returned immediately.
func (s *Service) CreatePending(ctx context.Context, in CreateInput) (*model.Transaction, error) {
	if in.FromAddress == "" || in.ToAddress == "" {
		return nil, errno.ErrValidation.WithDetailf("from_address and to_address are required")
	}
	if !in.Amount.IsPositive() {
		return nil, errno.ErrValidation.WithDetailf("amount %s must be positive", in.Amount)
	}
	if in.Token == "" {
		in.Token = DefaultToken
	}
	if in.Privacy == "" {
		in.Privacy = model.PrivacyPublic
	}
	switch in.Privacy {
	case model.PrivacyPublic, model.PrivacyFriends, model.PrivacyPrivate:
	default:
		return nil, errno.ErrValidation.WithDetailf("privacy %q is not one of public/friends/private", in.Privacy)
	}

	tx := model.Transaction{
		FromAddress:  in.FromAddress,
		ToAddress:    in.ToAddress,
		FromUsername: in.FromUsername,
		ToUsername:   in.ToUsername,
		Amount:       in.Amount,
		Token:        in.Token,
		Status:       model.TxStatusPending,
		Fee:          DefaultFee,
		Note:         in.Note,
		Privacy:      in.Privacy,
	}

	if err := s.db.WithContext(ctx).Create(&tx).Error; err != nil {
		return nil, errno.ErrDatabase.WithDetailf("create transaction: %v", err)
	}
	return &tx, nil
}

// Finalize moves a pending transaction to completed, stamping the settlement
// hash, and writes the payment.completed event in the same DB transaction.
//
// Idempotence policy: re-finalizing a completed record with the same hash is
// a no-op returning the stored record; any other call on a terminal record
// fails with ErrTransactionFinalized. A missing id is ErrTransactionNotFound,
// never a silent insert. The bool result reports whether this call actually
// performed the pending to completed transition, so callers can tell a fresh
// completion from a retried one.
func (s *Service) Finalize(ctx context.Context, id uint64, txHash string) (*model.Transaction, bool, error) {
	if txHash == "" {
		return nil, false, errno.ErrValidation.WithDetailf("tx_hash is required")
	}

	var rec model.Transaction
	applied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, id).Error; err != nil {
			return err
		}

		if rec.Status == model.TxStatusCompleted && rec.TxHash == txHash {
			return nil // idempotent retry
		}
		if rec.Status != model.TxStatusPending {
			return errno.ErrTransactionFinalized.WithDetailf("transaction %d is %s, tried to finalize with hash %s", id, rec.Status, txHash)
		}

		// Guard on status in the WHERE clause so a concurrent finalize
		// cannot double-apply.
		res := tx.Model(&model.Transaction{}).
			Where("id = ? AND status = ?", id, model.TxStatusPending).
			Updates(map[string]interface{}{
				"status":  model.TxStatusCompleted,
				"tx_hash": txHash,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errno.ErrTransactionFinalized.WithDetailf("transaction %d finalized concurrently", id)
		}

		rec.Status = model.TxStatusCompleted
		rec.TxHash = txHash
		applied = true

		return model.CreateOutboxMessage(tx, event.TopicPayments, rec.ToUsername, event.PaymentEvent{
			Type:          event.TypePaymentCompleted,
			TransactionID: rec.ID,
			FromUsername:  rec.FromUsername,
			ToUsername:    rec.ToUsername,
			Amount:        rec.Amount.String(),
			Token:         rec.Token,
			TxHash:        txHash,
			Note:          rec.Note,
		})
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, errno.ErrTransactionNotFound.WithDetailf("transaction %d", id)
		}
		var typed *errno.Errno
		if errors.As(err, &typed) {
			return nil, false, typed
		}
		return nil, false, errno.ErrDatabase.WithDetailf("finalize transaction %d: %v", id, err)
	}
	return &rec, applied, nil
}

// Fail moves a pending transaction to failed (the other legal transition).
// reason travels in the event payload only; the ledger row stays as written.
func (s *Service) Fail(ctx context.Context, id uint64, reason string) (*model.Transaction, error) {
	var rec model.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, id).Error; err != nil {
			return err
		}
		if rec.Status != model.TxStatusPending {
			return errno.ErrTransactionFinalized.WithDetailf("transaction %d is %s, tried to fail it", id, rec.Status)
		}

		res := tx.Model(&model.Transaction{}).
			Where("id = ? AND status = ?", id, model.TxStatusPending).
			Update("status", model.TxStatusFailed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errno.ErrTransactionFinalized.WithDetailf("transaction %d finalized concurrently", id)
		}

		rec.Status = model.TxStatusFailed

		return model.CreateOutboxMessage(tx, event.TopicPayments, rec.FromUsername, event.PaymentEvent{
			Type:          event.TypePaymentFailed,
			TransactionID: rec.ID,
			FromUsername:  rec.FromUsername,
			ToUsername:    rec.ToUsername,
			Amount:        rec.Amount.String(),
			Token:         rec.Token,
			Note:          reason,
		})
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrTransactionNotFound.WithDetailf("transaction %d", id)
		}
		var typed *errno.Errno
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, errno.ErrDatabase.WithDetailf("fail transaction %d: %v", id, err)
	}
	return &rec, nil
}

// Get loads one transaction by id.
func (s *Service) Get(ctx context.Context, id uint64) (*model.Transaction, error) {
	var rec model.Transaction
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrTransactionNotFound.WithDetailf("transaction %d", id)
		}
		return nil, errno.ErrDatabase.WithDetailf("get transaction %d: %v", id, err)
	}
	return &rec, nil
}

// ListForAddress returns transactions where address is the sender or the
// recipient, newest first.
func (s *Service) ListForAddress(ctx context.Context, address string, limit int) ([]model.Transaction, error) {
	if address == "" {
		return nil, errno.ErrValidation.WithDetailf("address is required")
	}
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	var txs []model.Transaction
	if err := s.db.WithContext(ctx).
		Where("from_address = ? OR to_address = ?", address, address).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, errno.ErrDatabase.WithDetailf("list transactions: %v", err)
	}
	return txs, nil
}

// FailStale fails pending transactions older than olderThan. Used by the
// reconciliation cron; returns how many rows moved.
func (s *Service) FailStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	res := s.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("status = ? AND created_at < ?", model.TxStatusPending, cutoff).
		Update("status", model.TxStatusFailed)
	if res.Error != nil {
		return 0, errno.ErrDatabase.WithDetailf("fail stale transactions: %v", res.Error)
	}
	return res.RowsAffected, nil
}
