package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

func TestAddLikeInvalidatesAndPublishesAfterCommit(t *testing.T) {
	store := newMemoryStore()
	cache := newRecordingCache()
	pub := &recordingPublisher{}
	svc := NewLedgerService(store, cache, pub)

	edge, err := svc.AddLike(context.Background(), "post-1", "user-1")
	require.NoError(t, err)

	assert.Equal(t, domain.KindLike, edge.Kind)
	assert.Equal(t, "user-1", edge.ActorID)
	assert.Equal(t, "post-1", edge.TargetID)
	assert.NotEmpty(t, edge.ID)

	assert.Equal(t, []string{"post-1"}, cache.invalidatedPosts)
	require.Len(t, pub.events, 1)
	assert.Equal(t, edge.ID, pub.events[0].ID)
}

func TestAddShareKind(t *testing.T) {
	svc := NewLedgerService(newMemoryStore(), nil, nil)

	edge, err := svc.AddShare(context.Background(), "post-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.KindShare, edge.Kind)
}

func TestAddFollowInvalidatesBothUsers(t *testing.T) {
	cache := newRecordingCache()
	svc := NewLedgerService(newMemoryStore(), cache, nil)

	edge, err := svc.AddFollow(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.KindFollow, edge.Kind)
	assert.ElementsMatch(t, []string{"alice", "bob"}, cache.invalidatedUsers)
}

func TestRejectedBeforeAnyStoreCall(t *testing.T) {
	tests := []struct {
		name string
		call func(*LedgerService) error
	}{
		{"self follow", func(s *LedgerService) error {
			_, err := s.AddFollow(context.Background(), "alice", "alice")
			return err
		}},
		{"blank follower", func(s *LedgerService) error {
			_, err := s.AddFollow(context.Background(), " ", "bob")
			return err
		}},
		{"blank post", func(s *LedgerService) error {
			_, err := s.AddLike(context.Background(), "", "alice")
			return err
		}},
		{"blank user", func(s *LedgerService) error {
			_, err := s.AddShare(context.Background(), "post-1", "")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			pub := &recordingPublisher{}
			svc := NewLedgerService(store, nil, pub)

			assert.ErrorIs(t, tt.call(svc), domain.ErrInvalidRelationship)
			assert.Zero(t, store.calls)
			assert.Empty(t, pub.events)
		})
	}
}

func TestStoreErrorsAreClassified(t *testing.T) {
	tests := []struct {
		name      string
		storeErr  error
		wantIs    error
		wantCause error
	}{
		{"duplicate passes through", domain.ErrDuplicateEdge, domain.ErrDuplicateEdge, nil},
		{"storage error passes through", domain.NewStorageError("insert like", errBoom), domain.ErrStorageFailure, errBoom},
		{"raw error is wrapped", errBoom, domain.ErrStorageFailure, errBoom},
		{"cancellation is a storage failure", context.Canceled, domain.ErrStorageFailure, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			store.ledgerErr = tt.storeErr
			cache := newRecordingCache()
			pub := &recordingPublisher{}
			svc := NewLedgerService(store, cache, pub)

			_, err := svc.AddLike(context.Background(), "post-1", "user-1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)
			if tt.wantCause != nil {
				assert.ErrorIs(t, err, tt.wantCause)
			}

			// Rien n'a été commité : ni invalidation, ni événement
			assert.Empty(t, cache.invalidatedPosts)
			assert.Empty(t, pub.events)
		})
	}
}

func TestListErrorsAreStorageFailures(t *testing.T) {
	store := newMemoryStore()
	store.ledgerErr = errBoom
	svc := NewLedgerService(store, nil, nil)

	_, err := svc.ListFollowers(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrStorageFailure)

	_, err = svc.ListFollowing(context.Background(), "alice")
	var storageErr *domain.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "list following", storageErr.Op)
}

func TestPublishFailureDoesNotFailCommittedWrite(t *testing.T) {
	store := newMemoryStore()
	pub := &recordingPublisher{err: errBoom}
	svc := NewLedgerService(store, nil, pub)

	edge, err := svc.AddFollow(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.NotNil(t, edge)
	assert.Len(t, store.edges, 1)
}
