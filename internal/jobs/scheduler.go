package jobs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"cscportal/api/internal/config"
)

const pingTimeout = 30 * time.Second

// Scheduler runs the keep-alive ping that stops an idle free-tier host from
// sleeping.
type Scheduler struct {
	cron   *cron.Cron
	cfg    config.KeepAliveConfig
	client *http.Client
	log    zerolog.Logger
}

func NewScheduler(cfg config.KeepAliveConfig, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		cfg:    cfg,
		client: &http.Client{Timeout: pingTimeout},
		log:    log,
	}
}

// Start registers the ping. It is a no-op when no URL is configured.
func (s *Scheduler) Start() error {
	if s.cfg.URL == "" {
		s.log.Info().Msg("keep-alive disabled")
		return nil
	}
	if s.cfg.Interval <= 0 {
		return fmt.Errorf("keep-alive interval must be positive, got %s", s.cfg.Interval)
	}

	if _, err := s.cron.AddFunc("@every "+s.cfg.Interval.String(), s.keepAlive); err != nil {
		return fmt.Errorf("schedule keep-alive: %w", err)
	}
	s.cron.Start()
	s.log.Info().Str("url", s.cfg.URL).Dur("interval", s.cfg.Interval).Msg("keep-alive scheduled")
	return nil
}

// Stop halts the scheduler and returns a context that is done once a running
// ping finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) keepAlive() {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	status, err := s.ping(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("url", s.cfg.URL).Msg("keep-alive ping failed")
		return
	}
	s.log.Debug().Int("status", status).Msg("keep-alive ping")
}

func (s *Scheduler) ping(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
