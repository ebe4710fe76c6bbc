package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cscportal/api/internal/config"
)

func TestStart_DisabledWithoutURL(t *testing.T) {
	s := NewScheduler(config.KeepAliveConfig{Interval: time.Minute}, zerolog.Nop())
	require.NoError(t, s.Start())
	assert.Empty(t, s.cron.Entries())
	<-s.Stop().Done()
}

func TestStart_RejectsBadInterval(t *testing.T) {
	s := NewScheduler(config.KeepAliveConfig{URL: "http://example.test"}, zerolog.Nop())
	assert.Error(t, s.Start())
}

func TestStart_SchedulesPing(t *testing.T) {
	s := NewScheduler(config.KeepAliveConfig{URL: "http://example.test", Interval: 14 * time.Minute}, zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop()

	entries := s.cron.Entries()
	require.Len(t, entries, 1)
	assert.WithinDuration(t, time.Now().Add(14*time.Minute), entries[0].Next, 5*time.Second)
}

func TestPing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ok := NewScheduler(config.KeepAliveConfig{URL: srv.URL + "/api/health", Interval: time.Minute}, zerolog.Nop())
	status, err := ok.ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	down := NewScheduler(config.KeepAliveConfig{URL: srv.URL + "/down", Interval: time.Minute}, zerolog.Nop())
	status, err = down.ping(context.Background())
	assert.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	down.keepAlive()
	assert.Equal(t, int32(3), hits.Load())
}
