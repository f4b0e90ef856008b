package services

import (
	"context"

	"github.com/jupiterclapton/social-service/internal/core/domain"
	"github.com/jupiterclapton/social-service/internal/core/ports"
)

type ContentService struct {
	users ports.UserRepository
	posts ports.PostRepository
	cache ports.EntityCache
}

func NewContentService(users ports.UserRepository, posts ports.PostRepository, cache ports.EntityCache) *ContentService {
	if cache == nil {
		cache = NopCache{}
	}
	return &ContentService{users: users, posts: posts, cache: cache}
}

// --- USERS ---

// GetUser est read-through : cache d'abord, puis la DB.
func (s *ContentService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if u, ok := s.cache.GetUser(ctx, userID); ok {
		return u, nil
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetUser(ctx, u)
	return u, nil
}

func (s *ContentService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// --- POSTS ---

func (s *ContentService) CreatePost(ctx context.Context, cmd ports.CreatePostCmd) (*domain.Post, error) {
	if _, err := s.users.GetByID(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	post, err := domain.NewPost(cmd.UserID, cmd.Content, cmd.Images)
	if err != nil {
		return nil, err
	}
	if err := s.posts.SavePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *ContentService) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	if p, ok := s.cache.GetPost(ctx, postID); ok {
		return p, nil
	}
	p, err := s.posts.FindPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	s.cache.SetPost(ctx, p)
	return p, nil
}

func (s *ContentService) ListPosts(ctx context.Context, page domain.Page) ([]*domain.Post, error) {
	return s.posts.ListPosts(ctx, page.Normalize())
}

func (s *ContentService) ListUserPosts(ctx context.Context, userID string, page domain.Page) ([]*domain.Post, error) {
	return s.posts.ListPostsByAuthor(ctx, userID, page.Normalize())
}

// --- COMMENTS ---

func (s *ContentService) CreateComment(ctx context.Context, cmd ports.CreateCommentCmd) (*domain.Comment, error) {
	if _, err := s.posts.FindPost(ctx, cmd.PostID); err != nil {
		return nil, err
	}

	comment, err := domain.NewComment(cmd.PostID, cmd.UserID, cmd.Content, cmd.Images)
	if err != nil {
		return nil, err
	}
	if err := s.posts.SaveComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *ContentService) ListPostComments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	return s.posts.ListComments(ctx, postID)
}
