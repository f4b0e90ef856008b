package domain

import (
	"time"

	"github.com/google/uuid"
)

// RelationKind étiquette une arête du graphe social.
type RelationKind string

const (
	KindLike   RelationKind = "like"
	KindShare  RelationKind = "share"
	KindFollow RelationKind = "follow" // Pas de colonne en base : la table follows suffit
)

// Edge représente une relation dirigée Actor -> Target.
// Like/Share : Actor = user, Target = post. Follow : Actor = follower, Target = followee.
type Edge struct {
	ID        string
	ActorID   string
	TargetID  string
	Kind      RelationKind
	CreatedAt time.Time
}

func NewEdge(actorID, targetID string, kind RelationKind) *Edge {
	return &Edge{
		ID:        uuid.NewString(),
		ActorID:   actorID,
		TargetID:  targetID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}
