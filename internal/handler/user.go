package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"paygram/internal/handler/request"
	"paygram/internal/handler/response"
	"paygram/internal/service/identity"
	"paygram/pkg/errno"
	"paygram/pkg/monitor"
	"paygram/pkg/validator"
)

type UserHandler struct {
	users *identity.Service
}

func NewUserHandler(users *identity.Service) *UserHandler {
	return &UserHandler{users: users}
}

// Claim registers or re-binds a username.
// @Summary Claim a username
// @Description Bind a username and wallet address to an external account. Reclaiming with the same external id overwrites the previous binding.
// @Tags User
// @Accept json
// @Produce json
// @Param request body request.ClaimUsernameRequest true "Claim Request"
// @Success 200 {object} response.Response
// @Router /api/v1/users/claim [post]
func (h *UserHandler) Claim(c *gin.Context) {
	var req request.ClaimUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("%s", validator.GetErrorMsg(err)))
		return
	}

	user, outcome, err := h.users.ClaimUsername(c.Request.Context(), req.ExternalID, req.Username, req.WalletAddress)
	if err != nil {
		response.Error(c, err)
		return
	}

	if outcome == identity.ClaimInserted {
		monitor.Business.UsernamesClaimedTotal.Inc()
	}
	response.Success(c, gin.H{"user": user, "outcome": string(outcome)})
}

// Get returns one user by username.
// @Summary Get user
// @Tags User
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} response.Response
// @Router /api/v1/users/{username} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.LookupByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// GetByExternalID returns one user by external account id.
// @Summary Get user by external id
// @Tags User
// @Produce json
// @Param id path int true "External ID"
// @Success 200 {object} response.Response
// @Router /api/v1/users/external/{id} [get]
func (h *UserHandler) GetByExternalID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("id must be an integer"))
		return
	}

	user, err := h.users.LookupByExternalID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// Search finds users by username prefix or fragment.
// @Summary Search users
// @Tags User
// @Produce json
// @Param q query string true "Query, at least 2 characters"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Response
// @Router /api/v1/users/search [get]
func (h *UserHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	users, err := h.users.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

// UpdateProfile applies partial profile changes.
// @Summary Update profile
// @Tags User
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param request body request.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} response.Response
// @Router /api/v1/users/{username}/profile [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("%s", validator.GetErrorMsg(err)))
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), c.Param("username"), identity.ProfileUpdate{
		Bio:     req.Bio,
		Avatar:  req.Avatar,
		Privacy: req.Privacy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}
