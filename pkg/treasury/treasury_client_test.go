package treasury_client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func Test_interestRateMonthsFromApi(t *testing.T) {
	m, err := interestRateMonthsFromApi("yield_3m")
	require.NoError(t, err)
	require.Equal(t, 3, m)

	m, err = interestRateMonthsFromApi("yield_10y")
	require.NoError(t, err)
	require.Equal(t, 120, m)

	_, err = interestRateMonthsFromApi("yield_")
	require.Error(t, err)
}

func TestClient_GetYieldCurve(t *testing.T) {
	var numRequests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&numRequests, 1)
		switch r.URL.Query().Get("date") {
		case "2024-01-15":
			fmt.Fprint(w, `[{"yield_1m": 5.5, "yield_3m": 5.25, "yield_10y": 4.0, "yield_30y": null}]`)
		case "2024-02-15":
			fmt.Fprint(w, `[{"yield_1m": null, "yield_3m": null}]`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "boom")
		}
	}))
	defer server.Close()

	client := New(server.Client(), server.URL)
	ctx := context.Background()

	t.Run("parses percentages into decimals", func(t *testing.T) {
		curve, err := client.GetYieldCurve(ctx, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Equal(
			t,
			"",
			cmp.Diff(map[int]float64{1: 0.055, 3: 0.0525, 120: 0.04}, curve.Rates, cmpopts.EquateApprox(0, 1e-12)),
		)
	})

	t.Run("cached responses skip the network", func(t *testing.T) {
		before := atomic.LoadInt32(&numRequests)
		_, err := client.GetYieldCurve(ctx, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Equal(t, before, atomic.LoadInt32(&numRequests))
	})

	t.Run("walks back when nothing is published", func(t *testing.T) {
		curve, err := client.GetYieldCurve(ctx, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		rate, err := curve.RiskFreeRate()
		require.NoError(t, err)
		require.InDelta(t, 0.0525, rate, 1e-12)
	})

	t.Run("server error", func(t *testing.T) {
		_, err := client.GetYieldCurve(ctx, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))
		require.ErrorContains(t, err, "status code 500")
	})
}
