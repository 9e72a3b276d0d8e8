package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"paygram/internal/handler/response"
	"paygram/internal/service/feed"
)

type FeedHandler struct {
	feed *feed.Service
}

func NewFeedHandler(feedSvc *feed.Service) *FeedHandler {
	return &FeedHandler{feed: feedSvc}
}

// Get returns the public activity stream.
// @Summary Activity feed
// @Description Completed public transactions, newest first, annotated with reactions.
// @Tags Feed
// @Produce json
// @Param viewer query string false "Viewer username"
// @Param filter query string false "all or friends"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Response
// @Router /api/v1/feed [get]
func (h *FeedHandler) Get(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.feed.Compose(c.Request.Context(), c.Query("viewer"), feed.Filter(c.Query("filter")), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}
