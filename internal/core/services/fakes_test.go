package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

// --- STORE EN MÉMOIRE ---

type memoryStore struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	posts     map[string]*domain.Post
	comments  []*domain.Comment
	edges     []*domain.Edge
	ledgerErr error
	calls     int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[string]*domain.User{}, posts: map[string]*domain.Post{}}
}

func (m *memoryStore) InsertInteraction(_ context.Context, edge *domain.Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.ledgerErr != nil {
		return m.ledgerErr
	}
	m.edges = append(m.edges, edge)
	return nil
}

func (m *memoryStore) InsertFollow(_ context.Context, edge *domain.Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.ledgerErr != nil {
		return m.ledgerErr
	}
	m.edges = append(m.edges, edge)
	return nil
}

func (m *memoryStore) ListFollowers(context.Context, string) ([]*domain.User, error) {
	return nil, m.ledgerErr
}

func (m *memoryStore) ListFollowing(context.Context, string) ([]*domain.User, error) {
	return nil, m.ledgerErr
}

func (m *memoryStore) Save(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
		if existing.Username == u.Username {
			return domain.ErrUsernameTaken
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memoryStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memoryStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memoryStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memoryStore) SavePost(_ context.Context, p *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[p.ID] = p
	return nil
}

func (m *memoryStore) FindPost(_ context.Context, id string) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if p, ok := m.posts[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPostNotFound
}

func (m *memoryStore) ListPosts(context.Context, domain.Page) ([]*domain.Post, error) {
	return nil, nil
}

func (m *memoryStore) ListPostsByAuthor(context.Context, string, domain.Page) ([]*domain.Post, error) {
	return nil, nil
}

func (m *memoryStore) SaveComment(_ context.Context, c *domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments = append(m.comments, c)
	return nil
}

func (m *memoryStore) ListComments(context.Context, string) ([]*domain.Comment, error) {
	return m.comments, nil
}

// --- CACHE / BROKER ---

type recordingCache struct {
	NopCache
	users            map[string]*domain.User
	posts            map[string]*domain.Post
	invalidatedUsers []string
	invalidatedPosts []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{users: map[string]*domain.User{}, posts: map[string]*domain.Post{}}
}

func (c *recordingCache) GetUser(_ context.Context, id string) (*domain.User, bool) {
	u, ok := c.users[id]
	return u, ok
}

func (c *recordingCache) SetUser(_ context.Context, u *domain.User) { c.users[u.ID] = u }

func (c *recordingCache) GetPost(_ context.Context, id string) (*domain.Post, bool) {
	p, ok := c.posts[id]
	return p, ok
}

func (c *recordingCache) SetPost(_ context.Context, p *domain.Post) { c.posts[p.ID] = p }

func (c *recordingCache) InvalidateUsers(_ context.Context, ids ...string) {
	c.invalidatedUsers = append(c.invalidatedUsers, ids...)
}

func (c *recordingCache) InvalidatePosts(_ context.Context, ids ...string) {
	c.invalidatedPosts = append(c.invalidatedPosts, ids...)
}

type recordingPublisher struct {
	events []*domain.Edge
	err    error
}

func (p *recordingPublisher) PublishEdgeCreated(_ context.Context, edge *domain.Edge) error {
	p.events = append(p.events, edge)
	return p.err
}

// --- SÉCURITÉ ---

type fakeHasher struct {
	hashErr   error
	verifyErr error
}

func (h fakeHasher) HashPassword(plaintext string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + plaintext, nil
}

func (h fakeHasher) VerifyPassword(plaintext, hash string) (bool, error) {
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return hash == "hashed:"+plaintext, nil
}

type issued struct {
	userID, username string
	secret           []byte
	ttl              time.Duration
}

type fakeTokens struct {
	last issued
}

func (f *fakeTokens) IssueToken(userID, username string, secret []byte, ttl time.Duration) (string, error) {
	f.last = issued{userID, username, secret, ttl}
	return "token-for-" + userID, nil
}

func (f *fakeTokens) ValidateToken(token string, secret []byte) (*domain.Claims, error) {
	switch token {
	case "expired":
		return nil, domain.ErrTokenExpired
	case "tampered":
		return nil, domain.ErrInvalidSignature
	}
	if string(secret) != "s3cret" {
		return nil, domain.ErrInvalidSignature
	}
	return &domain.Claims{UserID: token}, nil
}

var errBoom = errors.New("boom")
