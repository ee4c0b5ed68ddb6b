package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"expohub/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	err := failure.Conflict("booth number already taken")

	assert.Equal(t, "booth number already taken", err.Error())
}

func TestFailure_Codes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "bad request", err: failure.BadRequestFromString("duration must be positive"), wantCode: http.StatusBadRequest},
		{name: "unauthorized", err: failure.Unauthorized("missing token"), wantCode: http.StatusUnauthorized},
		{name: "forbidden", err: failure.Forbidden("not the appointment owner"), wantCode: http.StatusForbidden},
		{name: "not found", err: failure.NotFound("appointment not found"), wantCode: http.StatusNotFound},
		{name: "conflict", err: failure.Conflict("overlapping appointment"), wantCode: http.StatusConflict},
		{name: "invalid state", err: failure.InvalidState("appointment is already completed"), wantCode: http.StatusUnprocessableEntity},
		{name: "not eligible", err: failure.NotEligible("exhibitor is not approved for this expo"), wantCode: http.StatusUnprocessableEntity},
		{name: "invalid exhibitor", err: failure.InvalidExhibitor("exhibitor does not belong to this expo"), wantCode: http.StatusUnprocessableEntity},
		{name: "invalid booth", err: failure.InvalidBooth("booth is not assigned to this exhibitor"), wantCode: http.StatusUnprocessableEntity},
		{name: "internal", err: failure.InternalError(errors.New("boom")), wantCode: http.StatusInternalServerError},
		{name: "plain error", err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, failure.GetCode(tt.err))
		})
	}
}

func TestGetCode_WrappedFailure(t *testing.T) {
	err := fmt.Errorf("creating appointment: %w", failure.Conflict("overlapping appointment"))

	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestBadRequest_NilError(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}
