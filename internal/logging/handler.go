// Package logging provides a slog handler that mirrors records into the
// database-backed event log: everything at WARN and above, plus INFO
// records that carry an explicit "category" attribute marking them as
// editor audit events.
package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/olegiv/obuilder-go/internal/model"
	"github.com/olegiv/obuilder-go/internal/store"
)

// EventLogHandler wraps another slog.Handler and also writes records at
// or above a threshold level to the event log.
type EventLogHandler struct {
	inner  slog.Handler
	events *store.EventStore
	level  slog.Level
}

// NewEventLogHandler creates a handler that mirrors WARN and above.
func NewEventLogHandler(inner slog.Handler, events *store.EventStore) *EventLogHandler {
	return &EventLogHandler{inner: inner, events: events, level: slog.LevelWarn}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level || hasCategory(r) {
		h.writeEvent(r)
	}
	return nil
}

// hasCategory reports whether the record carries an explicit "category"
// attribute. Handlers tag auditable editor actions this way.
func hasCategory(r slog.Record) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			found = true
			return false
		}
		return true
	})
	return found
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithAttrs(attrs), events: h.events, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithGroup(name), events: h.events, level: h.level}
}

// writeEvent records the log entry in the event log. A background
// context is used so cancellation of the request does not drop the
// audit record.
func (h *EventLogHandler) writeEvent(r slog.Record) {
	_ = h.events.CreateEvent(context.Background(), model.Event{
		Level:     eventLevel(r.Level),
		Category:  eventCategory(r),
		Message:   r.Message,
		Metadata:  eventMetadata(r),
		CreatedAt: r.Time,
	})
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// eventCategory uses an explicit "category" attribute when present and
// otherwise infers one from the message.
func eventCategory(r slog.Record) string {
	var category string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})
	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "logout"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "version") || strings.Contains(msg, "snapshot"):
		return model.EventCategoryVersion
	case strings.Contains(msg, "sub-page") || strings.Contains(msg, "subpage"):
		return model.EventCategorySubPage
	case strings.Contains(msg, "upload") || strings.Contains(msg, "image"):
		return model.EventCategoryUpload
	case strings.Contains(msg, "publish") || strings.Contains(msg, "landing") || strings.Contains(msg, "template") || strings.Contains(msg, "draft"):
		return model.EventCategoryLanding
	default:
		return model.EventCategorySystem
	}
}

// eventMetadata collects the record's attributes into a flat JSON object.
func eventMetadata(r slog.Record) string {
	if r.NumAttrs() == 0 {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteString("{")
	first := true
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			return true
		}
		if !first {
			sb.WriteString(",")
		}
		first = false
		sb.WriteString(`"`)
		sb.WriteString(escapeJSON(a.Key))
		sb.WriteString(`":"`)
		sb.WriteString(escapeJSON(a.Value.String()))
		sb.WriteString(`"`)
		return true
	})
	sb.WriteString("}")
	return sb.String()
}

func escapeJSON(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
