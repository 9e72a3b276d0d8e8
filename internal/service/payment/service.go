package payment

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paygram/internal/model"
	"paygram/internal/service/identity"
	"paygram/internal/service/ledger"
	"paygram/internal/service/request"
	"paygram/pkg/errno"
	"paygram/pkg/logger"
)

// Service drives a transfer end to end: resolve both parties, record the
// pending transaction, hand the transfer to the signer, then finalize or
// fail the record depending on the outcome.
type Service struct {
	users    *identity.Service
	ledger   *ledger.Service
	requests *request.Service
	signer   Signer
}

func NewService(users *identity.Service, ledgerSvc *ledger.Service, requests *request.Service, signer Signer) *Service {
	return &Service{users: users, ledger: ledgerSvc, requests: requests, signer: signer}
}

// SendInput describes one transfer between two registered usernames.
type SendInput struct {
	FromUsername string
	ToUsername   string
	Amount       decimal.Decimal
	Note         string
	Privacy      string
}

// Send executes a transfer. The pending row is written before the signer is
// called, so a crashed or rejected transfer always leaves an auditable
// record; stale pendings are swept to failed by the reconciliation job.
func (s *Service) Send(ctx context.Context, in SendInput) (*model.Transaction, error) {
	from, err := s.users.LookupByUsername(ctx, in.FromUsername)
	if err != nil {
		return nil, err
	}
	to, err := s.users.LookupByUsername(ctx, in.ToUsername)
	if err != nil {
		return nil, err
	}
	if from.ID == to.ID {
		return nil, errno.ErrValidation.WithDetailf("cannot send money to yourself")
	}

	tx, err := s.ledger.CreatePending(ctx, ledger.CreateInput{
		FromAddress:  from.WalletAddress,
		ToAddress:    to.WalletAddress,
		FromUsername: from.Username,
		ToUsername:   to.Username,
		Amount:       in.Amount,
		Note:         in.Note,
		Privacy:      in.Privacy,
	})
	if err != nil {
		return nil, err
	}

	txHash, err := s.signer.Transfer(ctx, from.WalletAddress, to.WalletAddress, in.Amount)
	if err != nil {
		logger.Error("transfer failed",
			zap.Uint64("transaction_id", tx.ID),
			zap.String("from", from.Username),
			zap.String("to", to.Username),
			zap.Error(err))
		if _, failErr := s.ledger.Fail(ctx, tx.ID, err.Error()); failErr != nil {
			logger.Error("mark transaction failed", zap.Uint64("transaction_id", tx.ID), zap.Error(failErr))
		}
		return nil, err
	}

	settled, _, err := s.ledger.Finalize(ctx, tx.ID, txHash)
	return settled, err
}

// PayRequest settles a pending payment request with a real transfer. Only
// the payer named on the request may pay it. On success the request flips
// to paid and is linked to the settling transaction.
func (s *Service) PayRequest(ctx context.Context, requestID uint64, payer string) (*model.Transaction, error) {
	payer = identity.Normalize(payer)

	req, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != model.RequestStatusPending {
		return nil, errno.ErrRequestClosed.WithDetailf("request %d is %s", requestID, req.Status)
	}
	if req.ToUsername != payer {
		return nil, errno.ErrPermissionDenied.WithDetailf("only %s can pay request %d", req.ToUsername, requestID)
	}

	tx, err := s.Send(ctx, SendInput{
		FromUsername: payer,
		ToUsername:   req.FromUsername,
		Amount:       req.Amount,
		Note:         req.Note,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.requests.MarkPaid(ctx, requestID, tx.ID, payer); err != nil {
		// The transfer settled; surface the linkage failure but keep the hash
		// in the log for manual repair.
		logger.Error("request paid but not linked",
			zap.Uint64("request_id", requestID),
			zap.Uint64("transaction_id", tx.ID),
			zap.String("tx_hash", tx.TxHash),
			zap.Error(err))
		return nil, err
	}
	return tx, nil
}
