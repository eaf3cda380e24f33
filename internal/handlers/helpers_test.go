package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/media-scan/internal/apiclient"
	"github.com/jonesrussell/north-cloud/media-scan/internal/circuitbreaker"
	"github.com/jonesrussell/north-cloud/media-scan/internal/dashboard"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
	"github.com/jonesrussell/north-cloud/media-scan/internal/report"
	"github.com/jonesrussell/north-cloud/media-scan/internal/scraping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &models.ValidationError{Fields: map[string]string{"nom": "x"}}, http.StatusBadRequest},
		{"bad param", fmt.Errorf("%w: days", errBadParam), http.StatusBadRequest},
		{"unknown rule", fmt.Errorf("%w %q", dashboard.ErrUnknownRule, "x"), http.StatusBadRequest},
		{"unknown task type", scraping.ErrUnknownType, http.StatusBadRequest},
		{"bad period", report.ErrInvalidPeriod, http.StatusBadRequest},
		{"backend 404", fmt.Errorf("get media: %w", &apiclient.APIError{StatusCode: http.StatusNotFound}), http.StatusNotFound},
		{"alert missing", dashboard.ErrAlertNotFound, http.StatusNotFound},
		{"task missing", scraping.ErrTaskNotFound, http.StatusNotFound},
		{"backend 500", &apiclient.APIError{StatusCode: http.StatusInternalServerError}, http.StatusBadGateway},
		{"breaker open", circuitbreaker.ErrCircuitOpen, http.StatusBadGateway},
		{"bad record", models.ErrInvalidRecord, http.StatusBadGateway},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestIntQuery(t *testing.T) {
	t.Parallel()

	get := func(rawQuery string) (int, error) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, http.NoBody)
		return intQuery(c, "days", 30, 365)
	}

	n, err := get("")
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	n, err = get("days=7")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	for _, q := range []string{"days=0", "days=-3", "days=366", "days=week"} {
		_, err = get(q)
		require.ErrorIs(t, err, errBadParam, q)
	}
}
