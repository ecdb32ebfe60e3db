package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/offview/internal/log"
	"github.com/zjrosen/offview/internal/product"
	"github.com/zjrosen/offview/internal/tracing"
)

// Fetcher performs the blocking network lookups. Implementations may block
// for as long as ctx allows.
type Fetcher interface {
	Search(ctx context.Context, term string) ([]product.Product, error)
	Product(ctx context.Context, code string) (product.Detail, error)
}

// Request describes the single fetch a task performs.
type Request struct {
	ID   uint64
	Kind Kind
	// Arg is the search term for KindSearch or the product code for KindDetail.
	Arg string
}

// Task is one background fetch. It sends exactly one message on its channel.
type Task struct {
	ID      string
	Request Request
	Started time.Time

	fetcher Fetcher
	out     *Channel
	tracer  trace.Tracer
}

func newTask(req Request, fetcher Fetcher, out *Channel, tracer trace.Tracer, now time.Time) *Task {
	return &Task{
		ID:      uuid.NewString(),
		Request: req,
		Started: now,
		fetcher: fetcher,
		out:     out,
		tracer:  tracer,
	}
}

// Run performs the fetch and sends the outcome. A send failure ends the task
// and is returned for logging; it never panics.
func (t *Task) Run(ctx context.Context) error {
	ctx, span := t.tracer.Start(ctx, tracing.SpanWorkerTask,
		trace.WithAttributes(
			attribute.String(tracing.AttrTaskID, t.ID),
			attribute.Int64(tracing.AttrRequestID, int64(t.Request.ID)),
			attribute.String(tracing.AttrRequestKind, t.Request.Kind.String()),
		),
	)
	defer span.End()

	log.Debug(log.CatWorker, "Task started",
		"task", t.ID, "request", t.Request.ID, "kind", t.Request.Kind, "arg", t.Request.Arg)

	msg := t.fetch(ctx)
	if errMsg, ok := msg.(ErrorMsg); ok {
		span.SetStatus(codes.Error, errMsg.Text)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	if err := t.out.Send(msg); err != nil {
		span.AddEvent(tracing.EventSendFailed)
		log.ErrorErr(log.CatWorker, "Dropping result, no receiver", err,
			"task", t.ID, "request", t.Request.ID)
		return fmt.Errorf("sending %s result: %w", t.Request.Kind, err)
	}

	span.AddEvent(tracing.EventMessageSent)
	log.Debug(log.CatWorker, "Task finished",
		"task", t.ID, "request", t.Request.ID, "elapsed", time.Since(t.Started))
	return nil
}

// fetch always produces a message, converting errors and panics to ErrorMsg.
func (t *Task) fetch(ctx context.Context) (msg Message) {
	env := Envelope{
		RequestID: t.Request.ID,
		Kind:      t.Request.Kind,
		TaskID:    t.ID,
		Started:   t.Started,
	}

	defer func() {
		if r := recover(); r != nil {
			trace.SpanFromContext(ctx).AddEvent(tracing.EventPanicRecovery)
			log.Error(log.CatWorker, "Fetcher panicked", "task", t.ID, "panic", r)
			msg = ErrorMsg{Envelope: env, Text: fmt.Sprintf("Request failed: %v", r)}
		}
	}()

	switch t.Request.Kind {
	case KindSearch:
		products, err := t.fetcher.Search(ctx, t.Request.Arg)
		if err != nil {
			return ErrorMsg{Envelope: env, Text: err.Error()}
		}
		return SearchResultsMsg{Envelope: env, Products: products}
	case KindDetail:
		detail, err := t.fetcher.Product(ctx, t.Request.Arg)
		if err != nil {
			return ErrorMsg{Envelope: env, Text: err.Error()}
		}
		return ProductDetailsMsg{Envelope: env, Detail: detail}
	default:
		return ErrorMsg{Envelope: env, Text: fmt.Sprintf("unsupported request kind %d", t.Request.Kind)}
	}
}
