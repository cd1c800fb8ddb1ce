package bot

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	updateTracerName  = "daylog-bot/bot"
	updateSpanName    = "bot.handle_update"
	updateEventName   = "daylog.update.handled"
	updateEventDomain = "daylog"
)

// updateMetrics collects per-update timings and outcome flags, and owns the
// span covering the update. Log closes the span and emits one observability
// event describing the whole update.
type updateMetrics struct {
	logger         *log.Logger
	span           trace.Span
	start          time.Time
	dedupDuration  time.Duration
	handleDuration time.Duration
	replyDuration  time.Duration
	duplicate      bool
	replied        bool
	errorStage     string
}

// newUpdateMetrics starts the update span and returns the context carrying
// it, so downstream calls (dedup, delivery) attach to the same trace.
func newUpdateMetrics(ctx context.Context, logger *log.Logger) (*updateMetrics, context.Context) {
	spanCtx, span := otel.Tracer(updateTracerName).Start(ctx, updateSpanName)
	return &updateMetrics{
		logger: logger,
		span:   span,
		start:  time.Now(),
	}, spanCtx
}

func (m *updateMetrics) ObserveDedup(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.dedupDuration = duration
}

func (m *updateMetrics) ObserveHandle(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.handleDuration = duration
}

func (m *updateMetrics) ObserveReply(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.replyDuration = duration
}

func (m *updateMetrics) SetDuplicate(duplicate bool) {
	m.duplicate = duplicate
}

func (m *updateMetrics) SetReplied(replied bool) {
	m.replied = replied
}

func (m *updateMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

// Log ends the update span and emits the observability event, both as a span
// event and as a structured log line sharing the same attributes.
func (m *updateMetrics) Log(updateID int64, err error) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.Int64("telegram.update_id", updateID),
		attribute.Float64("daylog.update.total_ms", durationToMillis(time.Since(m.start))),
		attribute.Bool("daylog.update.duplicate", m.duplicate),
		attribute.Bool("daylog.update.replied", m.replied),
	}
	if m.dedupDuration > 0 {
		attrs = append(attrs, attribute.Float64("daylog.update.dedup_ms", durationToMillis(m.dedupDuration)))
	}
	if m.handleDuration > 0 {
		attrs = append(attrs, attribute.Float64("daylog.update.handle_ms", durationToMillis(m.handleDuration)))
	}
	if m.replyDuration > 0 {
		attrs = append(attrs, attribute.Float64("daylog.update.reply_ms", durationToMillis(m.replyDuration)))
	}
	if m.errorStage != "" {
		attrs = append(attrs, attribute.String("daylog.update.error_stage", m.errorStage))
	}
	if err != nil {
		attrs = append(attrs, attribute.String("error.message", err.Error()))
	}

	severityText, severityNumber := severityForOutcome(m.errorStage, err)

	if m.span != nil {
		eventAttrs := append([]attribute.KeyValue{
			attribute.String("event.name", updateEventName),
			attribute.String("event.domain", updateEventDomain),
			attribute.String("severity_text", severityText),
		}, attrs...)
		m.span.AddEvent("observability.event", trace.WithAttributes(eventAttrs...))
		m.span.SetAttributes(attrs...)
		if err != nil {
			m.span.SetStatus(codes.Error, err.Error())
		} else {
			m.span.SetStatus(codes.Ok, "")
		}
		m.span.End()
	}

	if m.logger == nil {
		return
	}

	attrValues := make(map[string]any, len(attrs))
	for _, kv := range attrs {
		attrValues[string(kv.Key)] = kv.Value.AsInterface()
	}
	fields := log.Fields{
		"event.name":      updateEventName,
		"event.domain":    updateEventDomain,
		"attributes":      attrValues,
		"severity_text":   severityText,
		"severity_number": severityNumber,
	}
	if m.span != nil {
		if sc := m.span.SpanContext(); sc.HasTraceID() {
			fields["trace_id"] = sc.TraceID().String()
		}
	}
	m.logger.WithFields(fields).Info("observability.event")
}

// severityForOutcome maps the update outcome to OTLP severity. A failed
// update is ERROR; a recorded error stage without a terminal error (dedup
// fail-open) is WARN.
func severityForOutcome(errorStage string, err error) (string, int) {
	switch {
	case err != nil:
		return "ERROR", 17
	case errorStage != "":
		return "WARN", 13
	default:
		return "INFO", 9
	}
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
