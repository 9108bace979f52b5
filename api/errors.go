package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/Akash-YS05/smash-cash/identity"
	"github.com/Akash-YS05/smash-cash/ledger"
)

const (
	ctxErrorCode = "error_code"

	codeInvalidRequest  = "invalid_request"
	codeUnauthenticated = "unauthenticated"
	codeInternal        = "internal"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func statusFor(code ledger.Code) int {
	switch code {
	case ledger.CodeAlreadyInitialized, ledger.CodeAlreadyRegistered:
		return http.StatusConflict
	case ledger.CodeNotInitialized, ledger.CodeNotRegistered:
		return http.StatusNotFound
	case ledger.CodeUnauthorized:
		return http.StatusForbidden
	case ledger.CodeInvalidScore:
		return http.StatusBadRequest
	case ledger.CodeCounterOverflow:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err onto a status code and JSON body. Errors that are
// not ledger or request errors are logged and hidden from the caller.
func writeError(c *gin.Context, err error) {
	if code, ok := ledger.CodeOf(err); ok {
		abort(c, statusFor(code), string(code), err.Error())
		return
	}
	if errors.Is(err, identity.ErrBadSignature) || errors.Is(err, identity.ErrStale) ||
		errors.Is(err, identity.ErrReplayed) {
		abort(c, http.StatusUnauthorized, codeUnauthenticated, err.Error())
		return
	}
	if errors.Is(err, identity.ErrMalformed) {
		abort(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	log.Printf("api: %s %s [%s]: %+v", c.Request.Method, c.FullPath(), c.GetString(headerRequestID), err)
	abort(c, http.StatusInternalServerError, codeInternal, "internal error")
}

func badRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, codeInvalidRequest, message)
}

func abort(c *gin.Context, status int, code, message string) {
	c.Set(ctxErrorCode, code)
	c.AbortWithStatusJSON(status, errorResponse{Error: errorBody{Code: code, Message: message}})
}
