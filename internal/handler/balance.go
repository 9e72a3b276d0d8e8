package handler

import (
	"github.com/gin-gonic/gin"

	"paygram/internal/handler/response"
	"paygram/internal/service/balance"
)

type BalanceHandler struct {
	balances *balance.Service
}

func NewBalanceHandler(balances *balance.Service) *BalanceHandler {
	return &BalanceHandler{balances: balances}
}

// Get reads token and native balances for one address.
// @Summary Get balance
// @Description On-chain token and native balance, served through a short cache.
// @Tags Balance
// @Produce json
// @Param address path string true "Wallet address"
// @Success 200 {object} response.Response
// @Router /api/v1/balance/{address} [get]
func (h *BalanceHandler) Get(c *gin.Context) {
	bal, err := h.balances.Get(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, bal)
}
