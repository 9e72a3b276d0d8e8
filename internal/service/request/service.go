package request

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"paygram/internal/event"
	"paygram/internal/model"
	"paygram/internal/service/identity"
	"paygram/pkg/errno"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// Service is the durable store of payment requests. Status is monotonic:
// pending moves to exactly one of paid/declined/cancelled and stays there.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create records a new request from the requester to the payer, always in
// status pending.
func (s *Service) Create(ctx context.Context, fromUsername, toUsername string, amount decimal.Decimal, note string) (*model.PaymentRequest, error) {
	fromUsername = identity.Normalize(fromUsername)
	toUsername = identity.Normalize(toUsername)

	if fromUsername == "" || toUsername == "" {
		return nil, errno.ErrValidation.WithDetailf("from_username and to_username are required")
	}
	if fromUsername == toUsername {
		return nil, errno.ErrValidation.WithDetailf("cannot request money from yourself")
	}
	if !amount.IsPositive() {
		return nil, errno.ErrValidation.WithDetailf("amount %s must be positive", amount)
	}

	req := model.PaymentRequest{
		FromUsername: fromUsername,
		ToUsername:   toUsername,
		Amount:       amount,
		Note:         note,
		Status:       model.RequestStatusPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&req).Error; err != nil {
			return err
		}
		return model.CreateOutboxMessage(tx, event.TopicRequests, toUsername, event.RequestEvent{
			Type:         event.TypeRequestCreated,
			RequestID:    req.ID,
			FromUsername: fromUsername,
			ToUsername:   toUsername,
			Amount:       amount.String(),
			Status:       req.Status,
			Note:         note,
		})
	})
	if err != nil {
		return nil, errno.ErrDatabase.WithDetailf("create request: %v", err)
	}
	return &req, nil
}

// Transition moves a pending request to declined or cancelled. The requester
// may cancel; the payer may decline. paid is deliberately unreachable here:
// it only happens through the payment flow via MarkPaid.
func (s *Service) Transition(ctx context.Context, id uint64, next string, actor string) (*model.PaymentRequest, error) {
	actor = identity.Normalize(actor)

	switch next {
	case model.RequestStatusDeclined, model.RequestStatusCancelled:
	case model.RequestStatusPaid:
		return nil, errno.ErrPermissionDenied.WithDetailf("request %d: paid is only reachable through the payment flow", id)
	default:
		return nil, errno.ErrValidation.WithDetailf("status %q is not one of declined/cancelled", next)
	}

	return s.close(ctx, id, next, nil, func(req *model.PaymentRequest) error {
		switch next {
		case model.RequestStatusCancelled:
			if actor != req.FromUsername {
				return errno.ErrPermissionDenied.WithDetailf("request %d: only the requester %q may cancel", id, req.FromUsername)
			}
		case model.RequestStatusDeclined:
			if actor != req.ToUsername {
				return errno.ErrPermissionDenied.WithDetailf("request %d: only the payer %q may decline", id, req.ToUsername)
			}
		}
		return nil
	})
}

// MarkPaid closes a pending request as paid, linking the ledger transaction
// that settled it. actor must be the payer. Called by the payment flow only.
func (s *Service) MarkPaid(ctx context.Context, id uint64, transactionID uint64, actor string) (*model.PaymentRequest, error) {
	actor = identity.Normalize(actor)

	return s.close(ctx, id, model.RequestStatusPaid, &transactionID, func(req *model.PaymentRequest) error {
		if actor != req.ToUsername {
			return errno.ErrPermissionDenied.WithDetailf("request %d: only the payer %q may pay", id, req.ToUsername)
		}
		return nil
	})
}

// close applies one terminal transition with the pending-status guard in the
// WHERE clause, so concurrent transitions cannot both win.
func (s *Service) close(ctx context.Context, id uint64, next string, transactionID *uint64, check func(*model.PaymentRequest) error) (*model.PaymentRequest, error) {
	var req model.PaymentRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, id).Error; err != nil {
			return err
		}
		if req.Status != model.RequestStatusPending {
			return errno.ErrRequestClosed.WithDetailf("request %d is %s, tried to mark it %s", id, req.Status, next)
		}
		if err := check(&req); err != nil {
			return err
		}

		updates := map[string]interface{}{"status": next}
		if transactionID != nil {
			updates["transaction_id"] = *transactionID
		}

		res := tx.Model(&model.PaymentRequest{}).
			Where("id = ? AND status = ?", id, model.RequestStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errno.ErrRequestClosed.WithDetailf("request %d closed concurrently", id)
		}

		req.Status = next
		req.TransactionID = transactionID

		// The requester is notified of declines and payments; the payer of
		// cancellations.
		notified := req.FromUsername
		if next == model.RequestStatusCancelled {
			notified = req.ToUsername
		}
		return model.CreateOutboxMessage(tx, event.TopicRequests, notified, event.RequestEvent{
			Type:         event.TypeRequestUpdated,
			RequestID:    req.ID,
			FromUsername: req.FromUsername,
			ToUsername:   req.ToUsername,
			Amount:       req.Amount.String(),
			Status:       next,
			Note:         req.Note,
		})
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrRequestNotFound.WithDetailf("request %d", id)
		}
		var typed *errno.Errno
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, errno.ErrDatabase.WithDetailf("transition request %d: %v", id, err)
	}
	return &req, nil
}

// Get loads one request by id.
func (s *Service) Get(ctx context.Context, id uint64) (*model.PaymentRequest, error) {
	var req model.PaymentRequest
	if err := s.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrRequestNotFound.WithDetailf("request %d", id)
		}
		return nil, errno.ErrDatabase.WithDetailf("get request %d: %v", id, err)
	}
	return &req, nil
}

// ListIncoming returns requests where username is the payer, newest first.
func (s *Service) ListIncoming(ctx context.Context, username string, limit int) ([]model.PaymentRequest, error) {
	return s.list(ctx, "to_username", username, limit)
}

// ListOutgoing returns requests created by username, newest first.
func (s *Service) ListOutgoing(ctx context.Context, username string, limit int) ([]model.PaymentRequest, error) {
	return s.list(ctx, "from_username", username, limit)
}

func (s *Service) list(ctx context.Context, column, username string, limit int) ([]model.PaymentRequest, error) {
	username = identity.Normalize(username)
	if username == "" {
		return nil, errno.ErrValidation.WithDetailf("username is required")
	}
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	var reqs []model.PaymentRequest
	if err := s.db.WithContext(ctx).
		Where(column+" = ?", username).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&reqs).Error; err != nil {
		return nil, errno.ErrDatabase.WithDetailf("list requests: %v", err)
	}
	return reqs, nil
}
