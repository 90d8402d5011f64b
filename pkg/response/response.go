package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alumnihub/pointsledger/pkg/apperror"
)

// RequesterHeader carries the authenticated member id, set by the upstream
// gateway. The account/session layer lives outside this subsystem.
const RequesterHeader = "X-Member-ID"

// GetRequesterID retrieves the requesting member's id from the gateway header.
// Returns uuid.Nil without error when the request is anonymous.
func GetRequesterID(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetHeader(RequesterHeader)
	if raw == "" {
		return uuid.Nil, nil
	}

	memberID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.ErrBadRequest
	}

	return memberID, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		zap.L().Error("internal error", zap.Error(err))
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
