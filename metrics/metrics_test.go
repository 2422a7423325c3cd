// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/angelito/draw"
)

func TestObserveDraw(t *testing.T) {
	m := NewDrawMetrics()

	m.ObserveDraw(draw.Outcome{Attempts: 2})
	m.ObserveDraw(draw.Outcome{Attempts: 1})
	m.ObserveDraw(draw.Outcome{Attempts: draw.MaxAttempts, Fallback: true})

	require.Equal(t, 2.0, testutil.ToFloat64(m.draws.WithLabelValues(PathShuffle)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.draws.WithLabelValues(PathFallback)))
	require.Equal(t, 1, testutil.CollectAndCount(m.attempts))
}

func TestObserveRejected(t *testing.T) {
	m := NewDrawMetrics()

	m.ObserveRejected()
	m.ObserveRejected()

	require.Equal(t, 2.0, testutil.ToFloat64(m.rejected))
}

func TestHandler(t *testing.T) {
	m := NewDrawMetrics()
	m.ObserveDraw(draw.Outcome{Attempts: 3})

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, `angelito_draws_total{path="shuffle"} 1`)
	require.Contains(t, body, `angelito_draws_total{path="fallback"} 0`)
	require.Contains(t, body, "angelito_draw_attempts_count 1")
	require.Contains(t, body, "angelito_draw_rejected_total 0")
}

func TestNewDrawMetrics_Independent(t *testing.T) {
	// Each router owns its registry; building two must not collide.
	a := NewDrawMetrics()
	b := NewDrawMetrics()

	a.ObserveRejected()
	require.Equal(t, 1.0, testutil.ToFloat64(a.rejected))
	require.Equal(t, 0.0, testutil.ToFloat64(b.rejected))
}
