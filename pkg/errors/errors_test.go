package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("mutate match: %w", MatchClosed())

	assert.True(t, Is(err, CodeMatchClosed))
	assert.False(t, Is(err, CodePaymentConflict))
	assert.False(t, Is(fmt.Errorf("plain"), CodeMatchClosed))

	var appErr *AppError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestDomainErrorStatuses(t *testing.T) {
	tests := []struct {
		err    *AppError
		code   string
		status int
	}{
		{MatchClosed(), CodeMatchClosed, http.StatusNotFound},
		{PaymentConflict(), CodePaymentConflict, http.StatusForbidden},
		{AlreadyOnTeam(), CodeAlreadyOnTeam, http.StatusForbidden},
		{NotOpen(), CodeNotOpen, http.StatusForbidden},
		{EmptySelection(), CodeEmptySelection, http.StatusBadRequest},
		{PlayerNotFound(), CodePlayerNotFound, http.StatusNotFound},
		{DuplicateTitle("Friday"), CodeDuplicateTitle, http.StatusBadRequest},
		{TooManyRequests("slow down"), "TOO_MANY_REQUESTS", http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	cause := fmt.Errorf("rpc error")
	err := NotFound("Match", cause)

	assert.Equal(t, "Match not found", err.Message)
	assert.Equal(t, "NOT_FOUND: Match not found", err.Error())
	assert.ErrorIs(t, err, cause)
}
