package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"paygram/internal/handler/request"
	"paygram/internal/handler/response"
	"paygram/internal/service/ledger"
	"paygram/internal/service/payment"
	"paygram/internal/service/reaction"
	"paygram/pkg/errno"
	"paygram/pkg/monitor"
	"paygram/pkg/validator"
)

type TransactionHandler struct {
	ledger    *ledger.Service
	payments  *payment.Service
	reactions *reaction.Service
}

func NewTransactionHandler(ledgerSvc *ledger.Service, payments *payment.Service, reactions *reaction.Service) *TransactionHandler {
	return &TransactionHandler{ledger: ledgerSvc, payments: payments, reactions: reactions}
}

// Send executes a transfer between two usernames.
// @Summary Send payment
// @Description Resolve both parties, record the transfer and submit it for settlement.
// @Tags Transaction
// @Accept json
// @Produce json
// @Param request body request.SendPaymentRequest true "Send Request"
// @Success 200 {object} response.Response
// @Router /api/v1/transactions/send [post]
func (h *TransactionHandler) Send(c *gin.Context) {
	var req request.SendPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("%s", validator.GetErrorMsg(err)))
		return
	}

	tx, err := h.payments.Send(c.Request.Context(), payment.SendInput{
		FromUsername: req.FromUsername,
		ToUsername:   req.ToUsername,
		Amount:       req.Amount,
		Note:         req.Note,
		Privacy:      req.Privacy,
	})
	if err != nil {
		monitor.Business.PaymentsFailedTotal.WithLabelValues(ledger.DefaultToken).Inc()
		response.Error(c, err)
		return
	}

	monitor.Business.PaymentsCompletedTotal.WithLabelValues(tx.Token).Inc()
	response.Success(c, tx)
}

// Create records a pending transfer without submitting it. Clients that
// settle on their own side call Submit with the hash afterwards.
// @Summary Create pending transaction
// @Tags Transaction
// @Accept json
// @Produce json
// @Param request body request.CreateTransactionRequest true "Transaction"
// @Success 200 {object} response.Response
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req request.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("%s", validator.GetErrorMsg(err)))
		return
	}

	tx, err := h.ledger.CreatePending(c.Request.Context(), ledger.CreateInput{
		FromAddress:  req.FromAddress,
		ToAddress:    req.ToAddress,
		FromUsername: req.FromUsername,
		ToUsername:   req.ToUsername,
		Amount:       req.Amount,
		Token:        req.Token,
		Note:         req.Note,
		Privacy:      req.Privacy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	monitor.Business.PaymentsCreatedTotal.WithLabelValues(tx.Token).Inc()
	response.Success(c, tx)
}

// Submit finalizes a pending transaction with its settlement hash.
// @Summary Submit transaction hash
// @Description Moves a pending transaction to completed. Re-submitting the same hash is a no-op.
// @Tags Transaction
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param request body request.SubmitTransactionRequest true "Settlement hash"
// @Success 200 {object} response.Response
// @Router /api/v1/transactions/{id}/submit [post]
func (h *TransactionHandler) Submit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("id must be an integer"))
		return
	}

	var req request.SubmitTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("%s", validator.GetErrorMsg(err)))
		return
	}

	tx, applied, err := h.ledger.Finalize(c.Request.Context(), id, req.TxHash)
	if err != nil {
		response.Error(c, err)
		return
	}

	// An idempotent re-submit of the same hash does not count twice.
	if applied {
		monitor.Business.PaymentsCompletedTotal.WithLabelValues(tx.Token).Inc()
	}
	response.Success(c, tx)
}

// Get returns one transaction by id.
// @Summary Get transaction
// @Tags Transaction
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} response.Response
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("id must be an integer"))
		return
	}

	tx, err := h.ledger.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tx)
}

// ListForAddress returns the transfer history touching one wallet address.
// @Summary List transactions for an address
// @Tags Transaction
// @Produce json
// @Param address path string true "Wallet address"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Response
// @Router /api/v1/transactions/address/{address} [get]
func (h *TransactionHandler) ListForAddress(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	txs, err := h.ledger.ListForAddress(c.Request.Context(), c.Param("address"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, txs)
}

// React attaches an emoji reaction to a transaction.
// @Summary React to a transaction
// @Description Adding the same reaction twice is a no-op.
// @Tags Transaction
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param request body request.AddReactionRequest true "Reaction"
// @Success 200 {object} response.Response
// @Router /api/v1/transactions/{id}/reactions [post]
func (h *TransactionHandler) React(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("id must be an integer"))
		return
	}

	var req request.AddReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("%s", validator.GetErrorMsg(err)))
		return
	}

	// Reactions only make sense on an existing transaction.
	if _, err := h.ledger.Get(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.reactions.Add(c.Request.Context(), id, req.Username, req.Emoji); err != nil {
		response.Error(c, err)
		return
	}

	monitor.Business.ReactionsAddedTotal.Inc()
	response.Success(c, nil)
}

// Reactions returns the aggregated reactions for one transaction.
// @Summary Get transaction reactions
// @Tags Transaction
// @Produce json
// @Param id path int true "Transaction ID"
// @Param viewer query string false "Viewer username"
// @Success 200 {object} response.Response
// @Router /api/v1/transactions/{id}/reactions [get]
func (h *TransactionHandler) Reactions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("id must be an integer"))
		return
	}

	counts, err := h.reactions.CountsFor(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	var viewerReactions []string
	if viewer := c.Query("viewer"); viewer != "" {
		viewerReactions, err = h.reactions.ReactedBy(c.Request.Context(), id, viewer)
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	response.Success(c, gin.H{"reactions": counts, "viewer_reactions": viewerReactions})
}
