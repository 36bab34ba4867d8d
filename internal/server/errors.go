package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	aidraftdomain "github.com/tassot/tassot/internal/aidraft/domain"
	boarddomain "github.com/tassot/tassot/internal/board/domain"
	commentdomain "github.com/tassot/tassot/internal/comment/domain"
	"github.com/tassot/tassot/internal/identity"
	invitationdomain "github.com/tassot/tassot/internal/invitation/domain"
	projectdomain "github.com/tassot/tassot/internal/project/domain"
	taskdomain "github.com/tassot/tassot/internal/task/domain"
	userdomain "github.com/tassot/tassot/internal/user/domain"
	"github.com/tassot/tassot/pkg/db"
	"gorm.io/gorm"
)

// All error responses are {"error": string}; no internals leak past this
// translation layer.
type errorResponse struct {
	Error string `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, invitationdomain.ErrCouldNotAccept):
		// deliberately generic: no hint of which precondition failed
		return http.StatusBadRequest, "Could not accept invitation"

	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, identity.ErrTokenExpired):
		return http.StatusUnauthorized, "unauthorized"

	case errors.Is(err, ErrForbidden),
		errors.Is(err, identity.ErrTokenInvalid),
		errors.Is(err, projectdomain.ErrForbidden),
		errors.Is(err, projectdomain.ErrCannotTargetSelf):
		return http.StatusForbidden, "forbidden"

	case isNotFoundError(err):
		return http.StatusNotFound, "not found"

	case errors.Is(err, projectdomain.ErrNotMember):
		// membership reads use 404 over 403 to avoid existence leakage
		return http.StatusNotFound, "not found"

	case errors.Is(err, invitationdomain.ErrAlreadyMember):
		return http.StatusConflict, "already a member"
	case errors.Is(err, invitationdomain.ErrAlreadyPending):
		return http.StatusConflict, "invitation already pending"
	case db.IsDuplicateKeyErr(err):
		return http.StatusConflict, "conflict"

	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, projectdomain.ErrInvalidName),
		errors.Is(err, projectdomain.ErrInvalidKey),
		errors.Is(err, projectdomain.ErrInvalidRole),
		errors.Is(err, projectdomain.ErrInvalidSettings),
		errors.Is(err, boarddomain.ErrInvalidName),
		errors.Is(err, boarddomain.ErrInvalidColor),
		errors.Is(err, taskdomain.ErrInvalidName),
		errors.Is(err, commentdomain.ErrEmptyContent),
		errors.Is(err, commentdomain.ErrParentMismatch),
		errors.Is(err, userdomain.ErrInvalidSubject),
		errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, invitationdomain.ErrInvalidEmail),
		errors.Is(err, aidraftdomain.ErrEmptyPrompt),
		errors.Is(err, aidraftdomain.ErrNoBoards):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, projectdomain.ErrNotFound),
		errors.Is(err, projectdomain.ErrMemberNotFound),
		errors.Is(err, boarddomain.ErrNotFound),
		errors.Is(err, taskdomain.ErrNotFound),
		errors.Is(err, taskdomain.ErrBoardNotFound),
		errors.Is(err, commentdomain.ErrParentNotFound),
		errors.Is(err, invitationdomain.ErrNotFound),
		errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
