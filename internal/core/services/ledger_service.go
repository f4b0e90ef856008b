package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jupiterclapton/social-service/internal/core/domain"
	"github.com/jupiterclapton/social-service/internal/core/ports"
)

// LedgerService implémente ports.LedgerService.
// La cohérence arête/compteur est déléguée au store (transaction + contrainte d'unicité),
// aucun verrou en mémoire ici.
type LedgerService struct {
	repo   ports.LedgerRepository
	cache  ports.EntityCache
	broker ports.EventPublisher
}

// NewLedgerService accepte un cache et un broker nil (désactivés).
func NewLedgerService(repo ports.LedgerRepository, cache ports.EntityCache, broker ports.EventPublisher) *LedgerService {
	if cache == nil {
		cache = NopCache{}
	}
	if broker == nil {
		broker = NopPublisher{}
	}
	return &LedgerService{repo: repo, cache: cache, broker: broker}
}

func (s *LedgerService) AddLike(ctx context.Context, postID, userID string) (*domain.Edge, error) {
	return s.addInteraction(ctx, "add like", postID, userID, domain.KindLike)
}

func (s *LedgerService) AddShare(ctx context.Context, postID, userID string) (*domain.Edge, error) {
	return s.addInteraction(ctx, "add share", postID, userID, domain.KindShare)
}

func (s *LedgerService) AddFollow(ctx context.Context, followerID, followingID string) (*domain.Edge, error) {
	// Rejet AVANT d'ouvrir la transaction : aucun aller-retour au store
	if isBlank(followerID) || isBlank(followingID) || followerID == followingID {
		return nil, domain.ErrInvalidRelationship
	}

	edge := domain.NewEdge(followerID, followingID, domain.KindFollow)
	if err := s.repo.InsertFollow(ctx, edge); err != nil {
		return nil, classify("add follow", err)
	}

	s.cache.InvalidateUsers(ctx, followerID, followingID)
	s.publish(ctx, edge)
	return edge, nil
}

func (s *LedgerService) ListFollowers(ctx context.Context, userID string) ([]*domain.User, error) {
	users, err := s.repo.ListFollowers(ctx, userID)
	if err != nil {
		return nil, classify("list followers", err)
	}
	return users, nil
}

func (s *LedgerService) ListFollowing(ctx context.Context, userID string) ([]*domain.User, error) {
	users, err := s.repo.ListFollowing(ctx, userID)
	if err != nil {
		return nil, classify("list following", err)
	}
	return users, nil
}

// --- HELPERS ---

func (s *LedgerService) addInteraction(ctx context.Context, op, postID, userID string, kind domain.RelationKind) (*domain.Edge, error) {
	if isBlank(postID) || isBlank(userID) {
		return nil, domain.ErrInvalidRelationship
	}

	edge := domain.NewEdge(userID, postID, kind)
	if err := s.repo.InsertInteraction(ctx, edge); err != nil {
		return nil, classify(op, err)
	}

	s.cache.InvalidatePosts(ctx, postID)
	s.publish(ctx, edge)
	return edge, nil
}

// publish est best effort : l'arête est déjà commitée, on ne l'annule pas si le broker est down.
func (s *LedgerService) publish(ctx context.Context, edge *domain.Edge) {
	if err := s.broker.PublishEdgeCreated(ctx, edge); err != nil {
		slog.WarnContext(ctx, "Failed to publish edge event", "kind", edge.Kind, "edge_id", edge.ID, "error", err)
	}
}

// classify garantit qu'aucune erreur brute du driver ne sort du Ledger.
func classify(op string, err error) error {
	if errors.Is(err, domain.ErrDuplicateEdge) || errors.Is(err, domain.ErrStorageFailure) {
		return err
	}
	return domain.NewStorageError(op, err)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
