package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Constructors(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, CodeBadRequest, "bad", ErrBadRequest)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, CodeBadRequest, err.Code)
	assert.Equal(t, "bad", err.Message)
	assert.Equal(t, ErrBadRequest.Error(), err.Error())

	notFound := NotFound("missing")
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, CodeNotFound, notFound.Code)
	assert.ErrorIs(t, notFound, ErrNotFound)

	conflict := Conflict("exists")
	assert.Equal(t, http.StatusConflict, conflict.Status)
	assert.Equal(t, CodeConflict, conflict.Code)

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, CodeInternalError, internal.Code)
	assert.Equal(t, "Server error", internal.Message)

	badReq := BadRequest("bad request")
	assert.Equal(t, http.StatusBadRequest, badReq.Status)
	assert.Equal(t, CodeBadRequest, badReq.Code)
	assert.ErrorIs(t, badReq, ErrBadRequest)

	unauth := Unauthorized("unauthorized")
	assert.Equal(t, http.StatusUnauthorized, unauth.Status)
	assert.Equal(t, CodeUnauthorized, unauth.Code)
	assert.ErrorIs(t, unauth, ErrUnauthorized)
}

func TestAppError_MessageWhenNoWrappedError(t *testing.T) {
	err := &AppError{Status: http.StatusTeapot, Message: "short and stout"}
	assert.Equal(t, "short and stout", err.Error())
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NotFound("Member not found"))
	appErr := AsAppError(wrapped)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "Member not found", appErr.Message)

	plain := AsAppError(stderrors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
	assert.Equal(t, "Server error", plain.Message)
}
