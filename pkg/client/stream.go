// Package client consumes the boardsync event stream: it keeps one
// long-lived connection to GET /api/events open, decodes sync events, and
// reconnects with backoff when the transport drops.
package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/anirudhv/boardsync/internal/events"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second

	// maxLineBytes caps a single SSE line. The bufio.Scanner default of
	// 64KB would abort the connection on a large data payload.
	maxLineBytes = 1 << 20
)

// InvalidateFunc is called once per received sync event so the consumer can
// refetch the named entity type.
type InvalidateFunc func(ev events.SyncEvent)

type Stream struct {
	baseURL   string
	token     string
	sessionID string

	httpClient *http.Client
	invalidate InvalidateFunc
	logger     zerolog.Logger
}

// New builds a stream consumer. sessionID is this client's own session; it
// is passed to the server for echo suppression and checked again locally.
func New(baseURL, token, sessionID string, invalidate InvalidateFunc, logger zerolog.Logger) *Stream {
	return &Stream{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		sessionID:  sessionID,
		httpClient: &http.Client{},
		invalidate: invalidate,
		logger:     logger,
	}
}

// Run connects and consumes until ctx is cancelled, reconnecting after any
// transport failure with capped exponential backoff. A connection that
// stayed up resets the backoff.
func (s *Stream) Run(ctx context.Context) error {
	backoff := initialBackoff
	for {
		start := time.Now()
		err := s.consume(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("event stream disconnected")
		}

		if time.Since(start) > maxBackoff {
			backoff = initialBackoff
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (s *Stream) consume(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/api/events?sessionId=%s", s.baseURL, url.QueryEscape(s.sessionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("event stream returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var eventName string
	var data strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		// Comment lines carry the connection confirmation and the
		// heartbeats; nothing to dispatch.
		if strings.HasPrefix(line, ":") {
			continue
		}

		if line == "" {
			if eventName == "sync" && data.Len() > 0 {
				s.dispatch(data.String())
			}
			eventName = ""
			data.Reset()
			continue
		}

		if name, ok := strings.CutPrefix(line, "event: "); ok {
			eventName = name
			continue
		}
		if payload, ok := strings.CutPrefix(line, "data: "); ok {
			data.WriteString(payload)
			continue
		}
	}
	return scanner.Err()
}

func (s *Stream) dispatch(payload string) {
	var ev events.SyncEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		s.logger.Warn().Err(err).Msg("failed to decode sync event")
		return
	}

	// The server already suppresses the echo; keep the check anyway in
	// case the stream was opened with a different session id.
	if ev.SessionID != "" && ev.SessionID == s.sessionID {
		return
	}

	if s.invalidate != nil {
		s.invalidate(ev)
	}
}
