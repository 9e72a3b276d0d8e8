package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"paygram/internal/handler/request"
	"paygram/internal/handler/response"
	"paygram/internal/service/payment"
	requestsvc "paygram/internal/service/request"
	"paygram/internal/service/split"
	"paygram/pkg/errno"
	"paygram/pkg/monitor"
	"paygram/pkg/validator"
)

type PaymentRequestHandler struct {
	requests *requestsvc.Service
	payments *payment.Service
	splits   *split.Service
}

func NewPaymentRequestHandler(requests *requestsvc.Service, payments *payment.Service, splits *split.Service) *PaymentRequestHandler {
	return &PaymentRequestHandler{requests: requests, payments: payments, splits: splits}
}

// Create opens a new payment request.
// @Summary Create payment request
// @Tags Request
// @Accept json
// @Produce json
// @Param request body request.CreatePaymentRequestRequest true "Request"
// @Success 200 {object} response.Response
// @Router /api/v1/requests [post]
func (h *PaymentRequestHandler) Create(c *gin.Context) {
	var req request.CreatePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("%s", validator.GetErrorMsg(err)))
		return
	}

	pr, err := h.requests.Create(c.Request.Context(), req.FromUsername, req.ToUsername, req.Amount, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	monitor.Business.RequestsCreatedTotal.Inc()
	response.Success(c, pr)
}

// Get returns one payment request.
// @Summary Get payment request
// @Tags Request
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Router /api/v1/requests/{id} [get]
func (h *PaymentRequestHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("id must be an integer"))
		return
	}

	pr, err := h.requests.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, pr)
}

// Incoming lists requests where the user is the payer.
// @Summary List incoming requests
// @Tags Request
// @Produce json
// @Param username path string true "Username"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Response
// @Router /api/v1/requests/incoming/{username} [get]
func (h *PaymentRequestHandler) Incoming(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.requests.ListIncoming(c.Request.Context(), c.Param("username"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// Outgoing lists requests where the user is the requester.
// @Summary List outgoing requests
// @Tags Request
// @Produce json
// @Param username path string true "Username"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Response
// @Router /api/v1/requests/outgoing/{username} [get]
func (h *PaymentRequestHandler) Outgoing(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.requests.ListOutgoing(c.Request.Context(), c.Param("username"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// Update declines or cancels a pending request.
// @Summary Update payment request
// @Description The payer may decline, the requester may cancel. Paid is only reachable through the pay endpoint.
// @Tags Request
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param request body request.UpdatePaymentRequestRequest true "Status change"
// @Success 200 {object} response.Response
// @Router /api/v1/requests/{id} [patch]
func (h *PaymentRequestHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("id must be an integer"))
		return
	}

	var req request.UpdatePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("%s", validator.GetErrorMsg(err)))
		return
	}

	pr, err := h.requests.Transition(c.Request.Context(), id, req.Status, req.Actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	monitor.Business.RequestTransitionsTotal.WithLabelValues(pr.Status).Inc()
	response.Success(c, pr)
}

// Pay settles a pending request with a real transfer.
// @Summary Pay a payment request
// @Tags Request
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param request body request.PayPaymentRequestRequest true "Payer"
// @Success 200 {object} response.Response
// @Router /api/v1/requests/{id}/pay [post]
func (h *PaymentRequestHandler) Pay(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("id must be an integer"))
		return
	}

	var req request.PayPaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("%s", validator.GetErrorMsg(err)))
		return
	}

	tx, err := h.payments.PayRequest(c.Request.Context(), id, req.Actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	monitor.Business.RequestTransitionsTotal.WithLabelValues("paid").Inc()
	response.Success(c, tx)
}

// Split fans a bill out into per-participant requests.
// @Summary Split a bill
// @Description Creates one payment request per participant. A failing participant does not abort the others.
// @Tags Request
// @Accept json
// @Produce json
// @Param request body request.SplitBillRequest true "Split"
// @Success 200 {object} response.Response
// @Router /api/v1/requests/split [post]
func (h *PaymentRequestHandler) Split(c *gin.Context) {
	var req request.SplitBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("%s", validator.GetErrorMsg(err)))
		return
	}

	participants := make([]split.Participant, len(req.Participants))
	for i, p := range req.Participants {
		participants[i] = split.Participant{Username: p.Username, Amount: p.Amount}
	}

	res, err := h.splits.Split(c.Request.Context(), req.Requester, req.Total, participants, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	monitor.Business.SplitParticipantsTotal.WithLabelValues("sent").Add(float64(res.Sent))
	monitor.Business.SplitParticipantsTotal.WithLabelValues("failed").Add(float64(len(res.Failed)))
	response.Success(c, res)
}
