package ports

import (
	"context"
	"time"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

// --- INPUTS (Command Pattern) ---

type RegisterCmd struct {
	Name     string
	Email    string
	Username string
	Password string
	ImageURL *string
}

type LoginCmd struct {
	Email    string
	Password string
}

type CreatePostCmd struct {
	UserID  string
	Content string
	Images  []string
}

type CreateCommentCmd struct {
	PostID  string
	UserID  string
	Content string
	Images  []string
}

// --- OUTPUTS ---

type AuthResponse struct {
	User      *domain.User
	Token     string
	ExpiresIn time.Duration
}

// --- PORTS PRIMAIRES (Driving) ---

// LedgerService maintient la cohérence arête + compteur.
// Chaque écriture est une unité de travail atomique côté store.
type LedgerService interface {
	AddLike(ctx context.Context, postID, userID string) (*domain.Edge, error)
	AddShare(ctx context.Context, postID, userID string) (*domain.Edge, error)
	AddFollow(ctx context.Context, followerID, followingID string) (*domain.Edge, error)
	ListFollowers(ctx context.Context, userID string) ([]*domain.User, error)
	ListFollowing(ctx context.Context, userID string) ([]*domain.User, error)
}

type IdentityService interface {
	Register(ctx context.Context, cmd RegisterCmd) (*AuthResponse, error)
	Login(ctx context.Context, cmd LoginCmd) (*AuthResponse, error)

	// Authenticate valide un bearer token avec le secret configuré.
	Authenticate(ctx context.Context, token string) (*domain.Claims, error)
}

// ContentService couvre le CRUD "plat" (users, posts, comments).
type ContentService interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	CreatePost(ctx context.Context, cmd CreatePostCmd) (*domain.Post, error)
	GetPost(ctx context.Context, postID string) (*domain.Post, error)
	ListPosts(ctx context.Context, page domain.Page) ([]*domain.Post, error)
	ListUserPosts(ctx context.Context, userID string, page domain.Page) ([]*domain.Post, error)

	CreateComment(ctx context.Context, cmd CreateCommentCmd) (*domain.Comment, error)
	ListPostComments(ctx context.Context, postID string) ([]*domain.Comment, error)
}
