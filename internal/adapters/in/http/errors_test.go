package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/pkg/errs"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCode     int
		wantCategory string
	}{
		{
			name:         "not found",
			err:          errs.NewObjectNotFoundError("orderId", "o-1"),
			wantCode:     http.StatusNotFound,
			wantCategory: "not_found",
		},
		{
			name:         "invalid value",
			err:          errs.NewValueIsInvalidError("weightKg"),
			wantCode:     http.StatusBadRequest,
			wantCategory: "validation",
		},
		{
			name:         "invalid transition",
			err:          errs.NewInvalidStateTransitionError("status", "PENDING", "IN_DISTRIBUTION"),
			wantCode:     http.StatusConflict,
			wantCategory: "conflict",
		},
		{
			name:         "coverage not supported",
			err:          commands.ErrCoverageNotSupported,
			wantCode:     http.StatusUnprocessableEntity,
			wantCategory: "coverage",
		},
		{
			name:         "delivery type not available",
			err:          commands.ErrDeliveryTypeNotAvailable,
			wantCode:     http.StatusUnprocessableEntity,
			wantCategory: "coverage",
		},
		{
			name:         "retry on non-pending order",
			err:          commands.ErrRetryNotPending,
			wantCode:     http.StatusConflict,
			wantCategory: "conflict",
		},
		{
			name:         "upstream down",
			err:          errs.NewUpstreamUnavailableError("billing service", assert.AnError),
			wantCode:     http.StatusServiceUnavailable,
			wantCategory: "upstream",
		},
		{
			name:         "unclassified",
			err:          assert.AnError,
			wantCode:     http.StatusInternalServerError,
			wantCategory: "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, writeError(c, tt.err))

			assert.Equal(t, tt.wantCode, rec.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantCategory, body.Category)
			assert.NotEmpty(t, body.Message)
		})
	}
}
