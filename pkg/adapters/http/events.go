package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/corpus/internal/logging"
	"github.com/aretw0/corpus/pkg/domain"
)

// eventMessage is the SSE payload of a conversion event.
type eventMessage struct {
	domain.ConversionEvent
	Error string `json:"error,omitempty"`
}

// StreamManager fans conversion events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- eventMessage]struct{}
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[chan<- eventMessage]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new subscriber and returns its channel and cancel func.
func (sm *StreamManager) Subscribe() (<-chan eventMessage, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan eventMessage, 16)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Broadcast sends ev to every subscriber without blocking.
func (sm *StreamManager) Broadcast(ev *domain.ConversionEvent) {
	msg := eventMessage{ConversionEvent: *ev}
	if ev.Err != nil {
		msg.Error = ev.Err.Error()
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Slow client.
			sm.logger.Warn("SSE: client buffer full, dropping event", "run_id", ev.RunID)
		}
	}
}

// Hooks returns conversion hooks that broadcast start and finish events.
// Per-sample events are left out to keep streams small.
func (sm *StreamManager) Hooks() domain.ConversionHooks {
	return domain.ConversionHooks{
		OnStart:  sm.Broadcast,
		OnFinish: sm.Broadcast,
	}
}

// SubscribeEvents handles the GET /events request (SSE).
// The optional "format" query parameter filters events by comma separated format ids.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var filter map[string]bool
	if raw := r.URL.Query().Get("format"); raw != "" {
		filter = make(map[string]bool)
		for _, f := range strings.Split(raw, ",") {
			filter[strings.TrimSpace(f)] = true
		}
	}

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if filter != nil && !filter[msg.Format] {
				continue
			}
			data, err := json.Marshal(msg)
			if err != nil {
				s.logger.Error("SSE: event encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Type, data)
			flusher.Flush()
		}
	}
}
