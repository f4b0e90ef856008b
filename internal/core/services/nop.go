package services

import (
	"context"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

// NopCache est utilisé quand Redis n'est pas configuré.
type NopCache struct{}

func (NopCache) GetUser(context.Context, string) (*domain.User, bool) { return nil, false }
func (NopCache) SetUser(context.Context, *domain.User)                {}
func (NopCache) GetPost(context.Context, string) (*domain.Post, bool) { return nil, false }
func (NopCache) SetPost(context.Context, *domain.Post)                {}
func (NopCache) InvalidateUsers(context.Context, ...string)           {}
func (NopCache) InvalidatePosts(context.Context, ...string)           {}

// NopPublisher est utilisé quand NATS n'est pas configuré.
type NopPublisher struct{}

func (NopPublisher) PublishEdgeCreated(context.Context, *domain.Edge) error { return nil }
