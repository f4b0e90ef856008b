// Package storetest rassemble les scénarios communs à tous les backends de ports.Store.
// Chaque adaptateur l'exécute contre une vraie base (SQLite en tempdir, Postgres si disponible).
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/social-service/internal/core/domain"
	"github.com/jupiterclapton/social-service/internal/core/ports"
)

// Factory renvoie un store vide, migré, propre à un sous-test.
type Factory func(t *testing.T) ports.Store

func Run(t *testing.T, newStore Factory) {
	t.Run("UserRoundTrip", func(t *testing.T) { testUserRoundTrip(t, newStore(t)) })
	t.Run("UserUniqueness", func(t *testing.T) { testUserUniqueness(t, newStore(t)) })
	t.Run("PostsAndComments", func(t *testing.T) { testPostsAndComments(t, newStore(t)) })
	t.Run("LikeAndShareCounters", func(t *testing.T) { testLikeAndShareCounters(t, newStore(t)) })
	t.Run("DuplicateInteraction", func(t *testing.T) { testDuplicateInteraction(t, newStore(t)) })
	t.Run("ConcurrentDistinctLikes", func(t *testing.T) { testConcurrentDistinctLikes(t, newStore(t)) })
	t.Run("ConcurrentSameUserLikes", func(t *testing.T) { testConcurrentSameUserLikes(t, newStore(t)) })
	t.Run("FollowCounters", func(t *testing.T) { testFollowCounters(t, newStore(t)) })
	t.Run("MissingTargetIsStorageFailure", func(t *testing.T) { testMissingTarget(t, newStore(t)) })
	t.Run("CancelledContext", func(t *testing.T) { testCancelledContext(t, newStore(t)) })
}

// --- SEED ---

func SeedUser(t *testing.T, store ports.Store, name string) *domain.User {
	t.Helper()

	suffix := uuid.NewString()[:8]
	u, err := domain.NewUser(name, fmt.Sprintf("%s-%s@example.com", name, suffix), name+"_"+suffix, "hash", nil)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), u))
	return u
}

func SeedPost(t *testing.T, store ports.Store, author *domain.User) *domain.Post {
	t.Helper()

	p, err := domain.NewPost(author.ID, "hello from "+author.Name, []string{"a.png"})
	require.NoError(t, err)
	require.NoError(t, store.SavePost(context.Background(), p))
	return p
}

func postCounters(t *testing.T, store ports.Store, postID string) (likes, shares int32) {
	t.Helper()

	p, err := store.FindPost(context.Background(), postID)
	require.NoError(t, err)
	return p.LikesCount, p.SharesCount
}

func followCounters(t *testing.T, store ports.Store, userID string) (followers, following int32) {
	t.Helper()

	u, err := store.GetByID(context.Background(), userID)
	require.NoError(t, err)
	return u.FollowersCount, u.FollowingCount
}

// --- SCÉNARIOS ---

func testUserRoundTrip(t *testing.T, store ports.Store) {
	ctx := context.Background()
	img := "https://cdn.example.com/ada.png"

	u, err := domain.NewUser("Ada", "Ada@Example.com", "ada", "argon-hash", &img)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, u))

	byID, err := store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byID.ID)
	assert.Equal(t, "ada@example.com", byID.Email)
	assert.Equal(t, "argon-hash", byID.PasswordHash)
	require.NotNil(t, byID.ImageURL)
	assert.Equal(t, img, *byID.ImageURL)
	assert.Zero(t, byID.FollowersCount)
	assert.WithinDuration(t, u.CreatedAt, byID.CreatedAt, time.Second)

	byEmail, err := store.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byName, err := store.GetByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = store.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = store.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func testUserUniqueness(t *testing.T, store ports.Store) {
	ctx := context.Background()

	first, err := domain.NewUser("Grace", "grace@example.com", "grace", "h", nil)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, first))

	sameEmail, err := domain.NewUser("Grace Bis", "grace@example.com", "grace2", "h", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, store.Save(ctx, sameEmail), domain.ErrEmailAlreadyExists)

	sameUsername, err := domain.NewUser("Grace Ter", "grace3@example.com", "grace", "h", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, store.Save(ctx, sameUsername), domain.ErrUsernameTaken)
}

func testPostsAndComments(t *testing.T, store ports.Store) {
	ctx := context.Background()
	alice := SeedUser(t, store, "alice")
	bob := SeedUser(t, store, "bob")

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	var ids []string
	for i := range 5 {
		author := alice
		if i%2 == 1 {
			author = bob
		}
		p, err := domain.NewPost(author.ID, fmt.Sprintf("post %d", i), nil)
		require.NoError(t, err)
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		p.UpdatedAt = p.CreatedAt
		require.NoError(t, store.SavePost(ctx, p))
		ids = append(ids, p.ID)
	}

	got, err := store.FindPost(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "post 0", got.Content)
	assert.Equal(t, alice.ID, got.UserID)

	_, err = store.FindPost(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrPostNotFound)

	// Plus récents d'abord
	page, err := store.ListPosts(ctx, domain.Page{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[3], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)

	byAlice, err := store.ListPostsByAuthor(ctx, alice.ID, domain.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, byAlice, 3)
	assert.Equal(t, ids[4], byAlice[0].ID)

	withImages := SeedPost(t, store, bob)
	reloaded, err := store.FindPost(ctx, withImages.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, reloaded.Images)

	for i := range 3 {
		c, err := domain.NewComment(ids[0], bob.ID, fmt.Sprintf("comment %d", i), nil)
		require.NoError(t, err)
		c.CreatedAt = base.Add(time.Duration(i) * time.Second)
		c.UpdatedAt = c.CreatedAt
		require.NoError(t, store.SaveComment(ctx, c))
	}

	comments, err := store.ListComments(ctx, ids[0])
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "comment 0", comments[0].Content)
	assert.Equal(t, "comment 2", comments[2].Content)

	empty, err := store.ListComments(ctx, ids[1])
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testLikeAndShareCounters(t *testing.T, store ports.Store) {
	ctx := context.Background()
	author := SeedUser(t, store, "author")
	fan := SeedUser(t, store, "fan")
	post := SeedPost(t, store, author)

	require.NoError(t, store.InsertInteraction(ctx, domain.NewEdge(fan.ID, post.ID, domain.KindLike)))
	likes, shares := postCounters(t, store, post.ID)
	assert.Equal(t, int32(1), likes)
	assert.Equal(t, int32(0), shares)

	// Like et share du même user sont deux arêtes distinctes
	require.NoError(t, store.InsertInteraction(ctx, domain.NewEdge(fan.ID, post.ID, domain.KindShare)))
	likes, shares = postCounters(t, store, post.ID)
	assert.Equal(t, int32(1), likes)
	assert.Equal(t, int32(1), shares)
}

func testDuplicateInteraction(t *testing.T, store ports.Store) {
	ctx := context.Background()
	author := SeedUser(t, store, "author")
	fan := SeedUser(t, store, "fan")
	post := SeedPost(t, store, author)

	require.NoError(t, store.InsertInteraction(ctx, domain.NewEdge(fan.ID, post.ID, domain.KindLike)))

	err := store.InsertInteraction(ctx, domain.NewEdge(fan.ID, post.ID, domain.KindLike))
	assert.ErrorIs(t, err, domain.ErrDuplicateEdge)
	assert.NotErrorIs(t, err, domain.ErrStorageFailure)

	likes, _ := postCounters(t, store, post.ID)
	assert.Equal(t, int32(1), likes)
}

func testConcurrentDistinctLikes(t *testing.T, store ports.Store) {
	const fans = 8
	ctx := context.Background()
	author := SeedUser(t, store, "author")
	post := SeedPost(t, store, author)

	users := make([]*domain.User, fans)
	for i := range users {
		users[i] = SeedUser(t, store, fmt.Sprintf("fan%d", i))
	}

	errs := make([]error, fans)
	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = store.InsertInteraction(ctx, domain.NewEdge(u.ID, post.ID, domain.KindLike))
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	likes, _ := postCounters(t, store, post.ID)
	assert.Equal(t, int32(fans), likes)
}

func testConcurrentSameUserLikes(t *testing.T, store ports.Store) {
	ctx := context.Background()
	author := SeedUser(t, store, "author")
	fan := SeedUser(t, store, "fan")
	post := SeedPost(t, store, author)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = store.InsertInteraction(ctx, domain.NewEdge(fan.ID, post.ID, domain.KindLike))
		}()
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrDuplicateEdge):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, dup)

	likes, _ := postCounters(t, store, post.ID)
	assert.Equal(t, int32(1), likes)
}

func testFollowCounters(t *testing.T, store ports.Store) {
	ctx := context.Background()
	alice := SeedUser(t, store, "alice")
	bob := SeedUser(t, store, "bob")
	carol := SeedUser(t, store, "carol")

	require.NoError(t, store.InsertFollow(ctx, domain.NewEdge(alice.ID, bob.ID, domain.KindFollow)))
	require.NoError(t, store.InsertFollow(ctx, domain.NewEdge(carol.ID, bob.ID, domain.KindFollow)))

	followers, following := followCounters(t, store, bob.ID)
	assert.Equal(t, int32(2), followers)
	assert.Equal(t, int32(0), following)
	followers, following = followCounters(t, store, alice.ID)
	assert.Equal(t, int32(0), followers)
	assert.Equal(t, int32(1), following)

	err := store.InsertFollow(ctx, domain.NewEdge(alice.ID, bob.ID, domain.KindFollow))
	assert.ErrorIs(t, err, domain.ErrDuplicateEdge)
	followers, _ = followCounters(t, store, bob.ID)
	assert.Equal(t, int32(2), followers)

	// La réciproque est une autre arête
	require.NoError(t, store.InsertFollow(ctx, domain.NewEdge(bob.ID, alice.ID, domain.KindFollow)))

	bobFollowers, err := store.ListFollowers(ctx, bob.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alice.ID, carol.ID}, userIDs(bobFollowers))

	aliceFollowing, err := store.ListFollowing(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, userIDs(aliceFollowing))

	none, err := store.ListFollowers(ctx, carol.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testMissingTarget(t *testing.T, store ports.Store) {
	ctx := context.Background()
	author := SeedUser(t, store, "author")
	fan := SeedUser(t, store, "fan")
	post := SeedPost(t, store, author)

	err := store.InsertInteraction(ctx, domain.NewEdge(fan.ID, uuid.NewString(), domain.KindLike))
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.NotErrorIs(t, err, domain.ErrDuplicateEdge)

	err = store.InsertFollow(ctx, domain.NewEdge(fan.ID, uuid.NewString(), domain.KindFollow))
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	_, following := followCounters(t, store, fan.ID)
	assert.Equal(t, int32(0), following)

	// Le CHECK du schéma tient même si le service est contourné
	err = store.InsertFollow(ctx, domain.NewEdge(fan.ID, fan.ID, domain.KindFollow))
	assert.ErrorIs(t, err, domain.ErrStorageFailure)

	// Rien de fantôme : le vrai like passe toujours
	require.NoError(t, store.InsertInteraction(ctx, domain.NewEdge(fan.ID, post.ID, domain.KindLike)))
	likes, _ := postCounters(t, store, post.ID)
	assert.Equal(t, int32(1), likes)
}

func testCancelledContext(t *testing.T, store ports.Store) {
	author := SeedUser(t, store, "author")
	fan := SeedUser(t, store, "fan")
	post := SeedPost(t, store, author)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.InsertInteraction(ctx, domain.NewEdge(fan.ID, post.ID, domain.KindLike))
	assert.ErrorIs(t, err, domain.ErrStorageFailure)

	likes, _ := postCounters(t, store, post.ID)
	assert.Equal(t, int32(0), likes)
}

func userIDs(users []*domain.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
