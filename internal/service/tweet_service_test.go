package service

import (
	"strings"
	"testing"
	"time"

	"chirper/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"ok", "hello world", nil},
		{"empty", "", ErrEmptyContent},
		{"whitespace only", "   \n\t", ErrEmptyContent},
		{"at limit", strings.Repeat("a", 280), nil},
		{"over limit", strings.Repeat("a", 281), ErrContentTooLong},
		{"multibyte at limit", strings.Repeat("ü", 280), nil},
		{"multibyte over limit", strings.Repeat("ü", 281), ErrContentTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.content)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCreateTweet(t *testing.T) {
	db := newTestDB(t)
	tweets := NewTweetService(db, discardImages{})

	alice := createUser(t, db, "alice")

	tweet, err := tweets.Create(alice.ID, "first post", "pic.png")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, tweet.UserID)
	assert.Equal(t, "pic.png", tweet.Image)
	assert.Equal(t, "alice", tweet.User.Username)

	_, err = tweets.Create(alice.ID, "", "")
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.EqualValues(t, 1, rowCount(t, db, &models.Tweet{}))
}

func TestComposeFeedMembership(t *testing.T) {
	db := newTestDB(t)
	graph := NewGraphService(db)
	tweets := NewTweetService(db, discardImages{})

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	require.NoError(t, graph.Follow(bob.ID, alice.ID))

	fromAlice := createTweet(t, db, alice, "from alice")
	fromBob := createTweet(t, db, bob, "from bob")
	createTweet(t, db, carol, "from carol")

	feed, total, err := tweets.ComposeFeed(bob.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, feed, 2)

	ids := []uint{feed[0].ID, feed[1].ID}
	assert.Contains(t, ids, fromAlice.ID)
	assert.Contains(t, ids, fromBob.ID)
}

func TestComposeFeedOrdering(t *testing.T) {
	db := newTestDB(t)
	tweets := NewTweetService(db, discardImages{})

	alice := createUser(t, db, "alice")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	old := models.Tweet{Content: "old", UserID: alice.ID}
	old.CreatedAt = base
	mid := models.Tweet{Content: "mid", UserID: alice.ID}
	mid.CreatedAt = base.Add(time.Minute)
	// Same second as mid; the id tiebreak keeps the later insert first.
	tie := models.Tweet{Content: "tie", UserID: alice.ID}
	tie.CreatedAt = mid.CreatedAt
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&mid).Error)
	require.NoError(t, db.Create(&tie).Error)

	feed, _, err := tweets.ComposeFeed(alice.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 3)

	assert.Equal(t, "tie", feed[0].Content)
	assert.Equal(t, "mid", feed[1].Content)
	assert.Equal(t, "old", feed[2].Content)
}

func TestComposeFeedPagination(t *testing.T) {
	db := newTestDB(t)
	tweets := NewTweetService(db, discardImages{})

	alice := createUser(t, db, "alice")
	for i := 0; i < 5; i++ {
		createTweet(t, db, alice, "post")
	}

	page1, total, err := tweets.ComposeFeed(alice.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page1, 2)

	page3, _, err := tweets.ComposeFeed(alice.ID, 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestDeleteTweetByNonAuthorForbidden(t *testing.T) {
	db := newTestDB(t)
	interactions := NewInteractionService(db)
	tweets := NewTweetService(db, discardImages{})

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	tweet := createTweet(t, db, alice, "keep me")

	_, _, err := interactions.ToggleLike(bob.ID, tweet.ID)
	require.NoError(t, err)

	err = tweets.Delete(bob.ID, tweet.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// No state change on rejection.
	assert.EqualValues(t, 1, rowCount(t, db, &models.Tweet{}))
	assert.EqualValues(t, 1, rowCount(t, db, &models.Like{}))
}

func TestDeleteTweetCascades(t *testing.T) {
	db := newTestDB(t)
	interactions := NewInteractionService(db)
	tweets := NewTweetService(db, discardImages{})

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	tweet := createTweet(t, db, alice, "delete me")
	other := createTweet(t, db, alice, "unrelated")

	_, _, err := interactions.ToggleLike(bob.ID, tweet.ID)
	require.NoError(t, err)
	_, _, err = interactions.ToggleRetweet(bob.ID, tweet.ID)
	require.NoError(t, err)
	_, _, err = interactions.ToggleLike(bob.ID, other.ID)
	require.NoError(t, err)

	require.NoError(t, tweets.Delete(alice.ID, tweet.ID))

	assert.EqualValues(t, 1, rowCount(t, db, &models.Tweet{}))
	assert.EqualValues(t, 1, rowCount(t, db, &models.Like{}))
	assert.EqualValues(t, 0, rowCount(t, db, &models.Retweet{}))

	_, err = tweets.GetByID(tweet.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTweetRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	interactions := NewInteractionService(db)
	tweets := NewTweetService(db, discardImages{})

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	tweet := createTweet(t, db, alice, "survivor")

	_, _, err := interactions.ToggleLike(bob.ID, tweet.ID)
	require.NoError(t, err)

	// Sabotage the retweet step so the transaction fails after the likes
	// have already been deleted inside it.
	require.NoError(t, db.Migrator().DropTable(&models.Retweet{}))

	err = tweets.Delete(alice.ID, tweet.ID)
	require.Error(t, err)

	// Full rollback: the like deleted mid-transaction is back.
	assert.EqualValues(t, 1, rowCount(t, db, &models.Tweet{}))
	assert.EqualValues(t, 1, rowCount(t, db, &models.Like{}))
}

// recordingImages captures Remove calls.
type recordingImages struct {
	removed []string
}

func (r *recordingImages) Remove(kind, name string) error {
	r.removed = append(r.removed, kind+"/"+name)
	return nil
}

func TestDeleteTweetReleasesImage(t *testing.T) {
	db := newTestDB(t)
	images := &recordingImages{}
	tweets := NewTweetService(db, images)

	alice := createUser(t, db, "alice")

	tweet, err := tweets.Create(alice.ID, "with image", "abc_cat.png")
	require.NoError(t, err)

	require.NoError(t, tweets.Delete(alice.ID, tweet.ID))
	assert.Equal(t, []string{"tweets/abc_cat.png"}, images.removed)
}

func TestListByAuthorAndListAll(t *testing.T) {
	db := newTestDB(t)
	tweets := NewTweetService(db, discardImages{})

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	createTweet(t, db, alice, "a1")
	createTweet(t, db, alice, "a2")
	createTweet(t, db, bob, "b1")

	byAlice, total, err := tweets.ListByAuthor(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, byAlice, 2)

	all, total, err := tweets.ListAll(1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)
	assert.Equal(t, "b1", all[0].Content)
}
