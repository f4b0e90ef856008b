package eventbroker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

type fakeStream struct {
	msgs []*nats.Msg
	err  error
}

func (f *fakeStream) PublishMsg(_ context.Context, msg *nats.Msg, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.msgs = append(f.msgs, msg)
	return &jetstream.PubAck{Stream: StreamName, Sequence: uint64(len(f.msgs))}, nil
}

func TestPublishEdgeCreated(t *testing.T) {
	stream := &fakeStream{}
	broker := &NatsBroker{js: stream}

	edge := &domain.Edge{
		ID:        "edge-1",
		ActorID:   "user-1",
		TargetID:  "post-1",
		Kind:      domain.KindLike,
		CreatedAt: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
	}

	require.NoError(t, broker.PublishEdgeCreated(context.Background(), edge))
	require.Len(t, stream.msgs, 1)

	msg := stream.msgs[0]
	assert.Equal(t, "ledger.like.created", msg.Subject)

	var event EdgeCreatedEvent
	require.NoError(t, json.Unmarshal(msg.Data, &event))
	assert.Equal(t, "edge-1", event.EdgeID)
	assert.Equal(t, "like", event.Kind)
	assert.Equal(t, "user-1", event.ActorID)
	assert.Equal(t, "post-1", event.TargetID)
	assert.True(t, edge.CreatedAt.Equal(event.CreatedAt))
}

func TestPublishInjectsTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	stream := &fakeStream{}
	broker := &NatsBroker{js: stream}
	require.NoError(t, broker.PublishEdgeCreated(ctx, domain.NewEdge("a", "b", domain.KindFollow)))

	require.Len(t, stream.msgs, 1)
	assert.Equal(t, "ledger.follow.created", stream.msgs[0].Subject)

	// Les en-têtes passent par http.Header : lecture via le même carrier que les consommateurs
	carrier := propagation.HeaderCarrier(stream.msgs[0].Header)
	assert.Contains(t, carrier.Get("traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")

	extracted := trace.SpanContextFromContext(otel.GetTextMapPropagator().Extract(context.Background(), carrier))
	assert.Equal(t, traceID, extracted.TraceID())
	assert.Equal(t, spanID, extracted.SpanID())
	assert.True(t, extracted.IsRemote())
}

func TestPublishFailureIsReturned(t *testing.T) {
	broker := &NatsBroker{js: &fakeStream{err: errors.New("no responders")}}

	err := broker.PublishEdgeCreated(context.Background(), domain.NewEdge("a", "b", domain.KindShare))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no responders")
}
