package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

const (
	StreamName     = "LEDGER"
	SubjectPattern = "ledger.>" // ledger.like.created, ledger.share.created, ledger.follow.created
)

// publisher est le sous-ensemble de jetstream.JetStream utilisé ici.
type publisher interface {
	PublishMsg(ctx context.Context, msg *nats.Msg, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

type NatsBroker struct {
	nc *nats.Conn
	js publisher
}

// NewNatsBroker initialise la connexion et s'assure que le Stream existe (Idempotent)
func NewNatsBroker(ctx context.Context, url string) (*NatsBroker, error) {
	nc, err := nats.Connect(url, nats.Name("social-service"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPattern},
		Storage:  jetstream.FileStorage,
		Replicas: 1, // 3 en cluster
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create stream: %w", err)
	}

	return &NatsBroker{nc: nc, js: js}, nil
}

// EdgeCreatedEvent : contrat implicite avec les consommateurs (feed, notifications)
type EdgeCreatedEvent struct {
	EdgeID    string    `json:"edge_id"`
	Kind      string    `json:"kind"`
	ActorID   string    `json:"actor_id"`
	TargetID  string    `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

func Subject(kind domain.RelationKind) string {
	return fmt.Sprintf("ledger.%s.created", kind)
}

func (n *NatsBroker) PublishEdgeCreated(ctx context.Context, edge *domain.Edge) error {
	data, err := json.Marshal(EdgeCreatedEvent{
		EdgeID:    edge.ID,
		Kind:      string(edge.Kind),
		ActorID:   edge.ActorID,
		TargetID:  edge.TargetID,
		CreatedAt: edge.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &nats.Msg{
		Subject: Subject(edge.Kind),
		Data:    data,
		Header:  nats.Header{},
	}
	// Propagation du trace context vers les consommateurs
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	// Dédoublonnage côté serveur si le même edge est republié
	ack, err := n.js.PublishMsg(ctx, msg, jetstream.WithMsgID(edge.ID))
	if err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}

	slog.DebugContext(ctx, "📢 Edge event published", "subject", msg.Subject, "seq", ack.Sequence)
	return nil
}

func (n *NatsBroker) Close() {
	if n.nc != nil {
		n.nc.Drain()
	}
}
