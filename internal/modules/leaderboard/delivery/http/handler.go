package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	leaderboardService "github.com/alumnihub/pointsledger/internal/modules/leaderboard/service"
	"github.com/alumnihub/pointsledger/pkg/apperror"
	"github.com/alumnihub/pointsledger/pkg/response"
)

type LeaderboardHandler struct {
	service leaderboardService.LeaderboardService
}

func NewLeaderboardHandler(service leaderboardService.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "10")
	limit, _ := strconv.Atoi(limitStr)

	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	occurredAfter, err := parseTimeQuery(c, "occurred_after")
	if err != nil {
		response.ResponseError(c, apperror.ErrBadRequest)
		return
	}
	occurredBefore, err := parseTimeQuery(c, "occurred_before")
	if err != nil {
		response.ResponseError(c, apperror.ErrBadRequest)
		return
	}

	requester, err := response.GetRequesterID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	entries, err := h.service.Rank(c.Request.Context(), limit, occurredAfter, occurredBefore, requester)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (h *LeaderboardHandler) GetMemberPoints(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrBadRequest)
		return
	}

	since, err := parseTimeQuery(c, "since")
	if err != nil {
		response.ResponseError(c, apperror.ErrBadRequest)
		return
	}

	points, err := h.service.MemberPoints(c.Request.Context(), memberID, since)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"member_id": memberID, "points": points})
}

func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
