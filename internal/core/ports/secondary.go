package ports

import (
	"context"
	"time"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

// --- PERSISTANCE (DB) ---

// LedgerRepository exécute "insérer l'arête + incrémenter le(s) compteur(s)" dans UNE transaction.
// Violation d'unicité -> domain.ErrDuplicateEdge, tout le reste -> *domain.StorageError.
type LedgerRepository interface {
	InsertInteraction(ctx context.Context, edge *domain.Edge) error // like ou share
	InsertFollow(ctx context.Context, edge *domain.Edge) error
	ListFollowers(ctx context.Context, userID string) ([]*domain.User, error)
	ListFollowing(ctx context.Context, userID string) ([]*domain.User, error)
}

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type PostRepository interface {
	SavePost(ctx context.Context, post *domain.Post) error
	FindPost(ctx context.Context, postID string) (*domain.Post, error)
	ListPosts(ctx context.Context, page domain.Page) ([]*domain.Post, error)
	ListPostsByAuthor(ctx context.Context, userID string, page domain.Page) ([]*domain.Post, error)

	SaveComment(ctx context.Context, comment *domain.Comment) error
	ListComments(ctx context.Context, postID string) ([]*domain.Comment, error)
}

// Store regroupe tout ce qu'un backend relationnel doit fournir (Postgres ou SQLite).
type Store interface {
	LedgerRepository
	UserRepository
	PostRepository
}

// --- CACHE ---

// EntityCache est un cache read-through des entités portant des compteurs.
// Le Ledger invalide, il n'écrit jamais de compteur dans le cache.
type EntityCache interface {
	GetUser(ctx context.Context, id string) (*domain.User, bool)
	SetUser(ctx context.Context, user *domain.User)
	GetPost(ctx context.Context, id string) (*domain.Post, bool)
	SetPost(ctx context.Context, post *domain.Post)
	InvalidateUsers(ctx context.Context, ids ...string)
	InvalidatePosts(ctx context.Context, ids ...string)
}

// --- MESSAGERIE (BROKER) ---

// EventPublisher notifie les autres services qu'une arête a été commitée.
type EventPublisher interface {
	PublishEdgeCreated(ctx context.Context, edge *domain.Edge) error
}

// --- SÉCURITÉ (CRYPTO) ---

type PasswordHasher interface {
	HashPassword(plaintext string) (string, error)
	// VerifyPassword renvoie false (sans erreur) sur un simple mismatch.
	VerifyPassword(plaintext, hash string) (bool, error)
}

type TokenProvider interface {
	IssueToken(userID, username string, secretKey []byte, ttl time.Duration) (string, error)
	ValidateToken(token string, secretKey []byte) (*domain.Claims, error)
}
