// Package logging writes the crack journal: one JSON object per line for
// every crack started, improved, finished or failed.
package logging

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RowanDark/monocrack/internal/crack"
)

type EventType string

const (
	EventCrackStarted     EventType = "crack_started"
	EventCrackProgress    EventType = "crack_progress"
	EventCrackCompleted   EventType = "crack_completed"
	EventCrackFailed      EventType = "crack_failed"
	EventOperationRun     EventType = "operation_run"
	EventPipelineRun      EventType = "pipeline_run"
	EventDetectionRun     EventType = "detection_run"
	EventServiceLifecycle EventType = "service_lifecycle"
)

// previewRunes bounds the plaintext copied into progress events.
const previewRunes = 80

type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Component string         `json:"component"`
	RunID     string         `json:"run_id,omitempty"`
	EventType EventType      `json:"event_type"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// NewRunID returns a fresh identifier correlating the events of one crack.
func NewRunID() string {
	return uuid.NewString()
}

type Option func(*config) error

type config struct {
	writers          []io.Writer
	closers          []io.Closer
	useDefaultWriter bool
}

func defaultConfig() *config {
	return &config{writers: []io.Writer{os.Stdout}, useDefaultWriter: true}
}

func WithWriter(w io.Writer) Option {
	return func(cfg *config) error {
		if w == nil {
			return errors.New("writer cannot be nil")
		}
		cfg.writers = append(cfg.writers, w)
		return nil
	}
}

// WithFile appends events to path, creating it if needed.
func WithFile(path string) Option {
	return func(cfg *config) error {
		if strings.TrimSpace(path) == "" {
			return errors.New("file path cannot be empty")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		cfg.writers = append(cfg.writers, f)
		cfg.closers = append(cfg.closers, f)
		return nil
	}
}

func WithoutStdout() Option {
	return func(cfg *config) error {
		cfg.useDefaultWriter = false
		filtered := cfg.writers[:0]
		for _, w := range cfg.writers {
			if w == os.Stdout {
				continue
			}
			filtered = append(filtered, w)
		}
		cfg.writers = filtered
		return nil
	}
}

type journalCore struct {
	mu      sync.Mutex
	encoder *json.Encoder
	closers []io.Closer
}

// EventLogger serialises events from any number of goroutines onto its
// writers.
type EventLogger struct {
	component   string
	core        *journalCore
	ownsClosers bool
}

func NewEventLogger(component string, opts ...Option) (*EventLogger, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			for _, closer := range cfg.closers {
				_ = closer.Close()
			}
			return nil, err
		}
	}
	if !cfg.useDefaultWriter && len(cfg.writers) == 0 {
		return nil, errors.New("no writers configured for event logger")
	}
	enc := json.NewEncoder(io.MultiWriter(cfg.writers...))
	enc.SetEscapeHTML(false)
	return &EventLogger{
		component:   component,
		core:        &journalCore{encoder: enc, closers: cfg.closers},
		ownsClosers: true,
	}, nil
}

// Discard returns a logger that drops every event.
func Discard(component string) *EventLogger {
	logger, _ := NewEventLogger(component, WithoutStdout(), WithWriter(io.Discard))
	return logger
}

func (l *EventLogger) Close() error {
	if l == nil || !l.ownsClosers || l.core == nil {
		return nil
	}
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	var firstErr error
	for _, closer := range l.core.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.core.closers = nil
	return firstErr
}

func (l *EventLogger) Emit(event Event) error {
	if l == nil || l.core == nil {
		return errors.New("nil event logger")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	} else {
		event.Timestamp = event.Timestamp.UTC()
	}
	if event.Component == "" {
		event.Component = l.component
	}
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	return l.core.encoder.Encode(event)
}

// WithComponent returns a logger sharing l's writers under another component
// name. Closing it does not close the writers.
func (l *EventLogger) WithComponent(component string) *EventLogger {
	if l == nil || l.core == nil {
		return nil
	}
	return &EventLogger{
		component: component,
		core:      l.core,
	}
}

// CrackStarted records the request of a crack.
func (l *EventLogger) CrackStarted(runID string, req crack.Request) error {
	return l.Emit(Event{
		RunID:     runID,
		EventType: EventCrackStarted,
		Metadata: map[string]any{
			"cipher":     req.Cipher,
			"language":   req.Language,
			"metric":     req.Metric,
			"restarts":   req.Restarts,
			"iterations": req.Iterations,
			"seed":       req.SeedValue(),
			"symbols":    len([]rune(req.Ciphertext)),
		},
	})
}

// CrackFinished records the outcome of a crack, successful or not.
func (l *EventLogger) CrackFinished(runID string, res crack.Result, elapsed time.Duration, err error) error {
	if err != nil {
		return l.Emit(Event{
			RunID:     runID,
			EventType: EventCrackFailed,
			Metadata:  map[string]any{"elapsed_ms": elapsed.Milliseconds()},
			Error:     err.Error(),
		})
	}
	return l.Emit(Event{
		RunID:     runID,
		EventType: EventCrackCompleted,
		Metadata: map[string]any{
			"cipher":     res.Cipher,
			"language":   res.Language,
			"metric":     string(res.Metric),
			"key":        res.Key,
			"score":      res.Score,
			"elapsed_ms": elapsed.Milliseconds(),
		},
	})
}

// ProgressObserver journals every improvement reported by the hill climber.
type ProgressObserver struct {
	Logger *EventLogger
	RunID  string
}

var _ crack.Observer = ProgressObserver{}

func (o ProgressObserver) Observe(p crack.Progress) {
	_ = o.Logger.Emit(Event{
		RunID:     o.RunID,
		EventType: EventCrackProgress,
		Metadata: map[string]any{
			"restart":   p.Restart,
			"score":     p.Score,
			"plaintext": preview(p.Plaintext),
		},
	})
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes]) + "…"
}
