package gemini

import (
	"context"
	"iter"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"
)

// Recorder receives one observation per model call.
type Recorder interface {
	ObserveGateway(operation string, err error, dur time.Duration)
}

type instrumented struct {
	inner Client
	rec   Recorder
}

// Instrument wraps c so every call opens a span and reports to rec. rec may
// be nil.
func Instrument(c Client, rec Recorder) Client {
	if c == nil {
		return nil
	}
	return &instrumented{inner: c, rec: rec}
}

func (i *instrumented) Model() string { return i.inner.Model() }

func (i *instrumented) GenerateJSON(ctx context.Context, system string, parts []Part, schema *genai.Schema) (string, error) {
	ctx, span := otel.Tracer("gemini").Start(ctx, "gemini.generate_json")
	span.SetAttributes(attribute.String("gemini.model", i.inner.Model()), attribute.Int("gemini.parts", len(parts)))
	defer span.End()

	start := time.Now()
	out, err := i.inner.GenerateJSON(ctx, system, parts, schema)
	i.observe("generate_json", err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (i *instrumented) StartChat(ctx context.Context, system string) (ChatSession, error) {
	start := time.Now()
	s, err := i.inner.StartChat(ctx, system)
	i.observe("chat_start", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return &instrumentedSession{inner: s, parent: i}, nil
}

func (i *instrumented) observe(op string, err error, dur time.Duration) {
	if i.rec != nil {
		i.rec.ObserveGateway(op, err, dur)
	}
}

type instrumentedSession struct {
	inner  ChatSession
	parent *instrumented
}

func (s *instrumentedSession) SendStream(ctx context.Context, text string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx, span := otel.Tracer("gemini").Start(ctx, "gemini.chat_stream")
		defer span.End()

		start := time.Now()
		var streamErr error
		chunks := 0
		for chunk, err := range s.inner.SendStream(ctx, text) {
			if err != nil {
				streamErr = err
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				yield("", err)
				break
			}
			chunks++
			if !yield(chunk, nil) {
				break
			}
		}
		span.SetAttributes(attribute.Int("gemini.chunks", chunks))
		s.parent.observe("chat_stream", streamErr, time.Since(start))
	}
}
