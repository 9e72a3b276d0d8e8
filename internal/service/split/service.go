package split

import (
	"context"

	"github.com/shopspring/decimal"

	"paygram/internal/model"
	"paygram/internal/service/identity"
	"paygram/internal/service/request"
	"paygram/pkg/errno"
	"paygram/pkg/logger"

	"go.uber.org/zap"
)

const (
	StatusAllSent       = "all_sent"
	StatusPartiallySent = "partially_sent"
)

// Participant is one share of a split bill.
type Participant struct {
	Username string          `json:"username"`
	Amount   decimal.Decimal `json:"amount"`
}

// Failure records one participant whose request could not be created.
type Failure struct {
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

// Result summarizes a split run. Requests is in input order and only holds
// the ones that were created.
type Result struct {
	Status   string                  `json:"status"`
	Total    decimal.Decimal         `json:"total"`
	Sent     int                     `json:"sent"`
	Failed   []Failure               `json:"failed,omitempty"`
	Requests []*model.PaymentRequest `json:"requests"`
}

// Service fans one bill out into per-participant payment requests. It is a
// thin orchestrator over the request store and keeps no state of its own.
type Service struct {
	requests *request.Service
}

func NewService(requests *request.Service) *Service {
	return &Service{requests: requests}
}

// Split creates one payment request per participant, sequentially and in
// input order. A failing participant never aborts the run; the outcome of
// every participant is collected into the result. total is the bill amount
// as entered; shares are taken as given and are not checked against it.
func (s *Service) Split(ctx context.Context, requester string, total decimal.Decimal, participants []Participant, note string) (*Result, error) {
	requester = identity.Normalize(requester)
	if requester == "" {
		return nil, errno.ErrValidation.WithDetailf("requester is required")
	}
	if len(participants) == 0 {
		return nil, errno.ErrValidation.WithDetailf("at least one participant is required")
	}

	res := &Result{Total: total}
	for _, p := range participants {
		username := identity.Normalize(p.Username)
		if username == requester || !p.Amount.IsPositive() {
			// Zero and negative shares are skipped, as is the requester's
			// own share. Neither counts as a failure.
			continue
		}

		req, err := s.requests.Create(ctx, requester, username, p.Amount, note)
		if err != nil {
			logger.Warn("split participant failed",
				zap.String("requester", requester),
				zap.String("participant", username),
				zap.Error(err))
			res.Failed = append(res.Failed, Failure{Username: username, Reason: err.Error()})
			continue
		}
		res.Sent++
		res.Requests = append(res.Requests, req)
	}

	if len(res.Failed) == 0 {
		res.Status = StatusAllSent
	} else {
		res.Status = StatusPartiallySent
	}
	return res, nil
}
