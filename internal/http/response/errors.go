package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/lumenlearn/progression-backend/internal/domain/aggregates"
)

// RespondDomainError translates aggregate error codes to HTTP statuses.
// Conflict and retryable codes are resolved inside the aggregate layer;
// seeing one here means a retry bound was exhausted, which surfaces as 503.
func RespondDomainError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	switch code {
	case domainagg.CodeValidation:
		RespondError(c, http.StatusBadRequest, string(code), err)
	case domainagg.CodeNotFound:
		RespondError(c, http.StatusNotFound, string(code), err)
	case domainagg.CodeContent, domainagg.CodeInvariantViolation:
		RespondError(c, http.StatusUnprocessableEntity, string(code), err)
	case domainagg.CodePreconditionFailed:
		RespondError(c, http.StatusConflict, string(code), err)
	case domainagg.CodeConflict, domainagg.CodeRetryable:
		RespondError(c, http.StatusServiceUnavailable, string(code), err)
	default:
		RespondError(c, http.StatusInternalServerError, string(domainagg.CodeInternal), err)
	}
}
