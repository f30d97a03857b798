package services

import (
	"context"
	"testing"

	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPost(t *testing.T, svc *PostService, author *models.User, title string, tags ...string) *models.Post {
	t.Helper()
	post, err := svc.CreatePost(context.Background(), author, &dto.CreatePostRequest{
		Title: title,
		Body:  "body of " + title,
		Tags:  tags,
	})
	require.NoError(t, err)
	return post
}

func TestCreatePostProviderForbidden(t *testing.T) {
	db := openTestDB(t)
	svc := NewPostService(db, NewViewService(db))

	plumber := createTestUser(t, db, "plumber", models.OccupationPlumber)

	_, err := svc.CreatePost(context.Background(), plumber, &dto.CreatePostRequest{
		Title: "hello", Body: "world",
	})
	assert.ErrorIs(t, err, ErrPostingForbidden)
}

func TestCreatePostNormalizesTags(t *testing.T) {
	db := openTestDB(t)
	svc := NewPostService(db, NewViewService(db))

	tenant := createTestUser(t, db, "tenant", models.OccupationTenant)
	createTestPost(t, svc, tenant, "first", "Plumbing")
	createTestPost(t, svc, tenant, "second", "plumbing", " heating ")

	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	assert.EqualValues(t, 2, tagCount)

	posts, total, err := svc.ListPosts(context.Background(), "plumbing", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, posts, 2)
}

func TestVoteSwitchKeepsCountersConsistent(t *testing.T) {
	db := openTestDB(t)
	svc := NewPostService(db, NewViewService(db))

	author := createTestUser(t, db, "author", models.OccupationTenant)
	voter := createTestUser(t, db, "voter", models.OccupationTenant)
	post := createTestPost(t, svc, author, "voting")

	require.NoError(t, svc.Vote(context.Background(), post.ID, voter.ID, models.VoteUp))

	var got models.Post
	require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, 0, got.Downvotes)

	// Same vote again is rejected and changes nothing.
	err := svc.Vote(context.Background(), post.ID, voter.ID, models.VoteUp)
	assert.ErrorIs(t, err, ErrAlreadyVoted)

	// Opposite vote switches: both counters adjust.
	require.NoError(t, svc.Vote(context.Background(), post.ID, voter.ID, models.VoteDown))
	require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
	assert.Equal(t, 0, got.Upvotes)
	assert.Equal(t, 1, got.Downvotes)

	var voteRows int64
	require.NoError(t, db.Model(&models.PostVote{}).
		Where("post_id = ?", post.ID).Count(&voteRows).Error)
	assert.EqualValues(t, 1, voteRows)
}

func TestBookmarkLifecycle(t *testing.T) {
	db := openTestDB(t)
	svc := NewPostService(db, NewViewService(db))

	author := createTestUser(t, db, "author", models.OccupationTenant)
	reader := createTestUser(t, db, "reader", models.OccupationTenant)
	post := createTestPost(t, svc, author, "bookmarkable")

	require.NoError(t, svc.Bookmark(context.Background(), post.ID, reader.ID))
	assert.ErrorIs(t, svc.Bookmark(context.Background(), post.ID, reader.ID), ErrAlreadyBookmarked)

	posts, err := svc.BookmarkedPosts(context.Background(), reader.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	require.NoError(t, svc.Unbookmark(context.Background(), post.ID, reader.ID))
	assert.ErrorIs(t, svc.Unbookmark(context.Background(), post.ID, reader.ID), ErrNotBookmarked)
}

func TestGetPostCountsViewsAndReplies(t *testing.T) {
	db := openTestDB(t)
	views := NewViewService(db)
	svc := NewPostService(db, views)

	author := createTestUser(t, db, "author", models.OccupationTenant)
	reader := createTestUser(t, db, "reader", models.OccupationTenant)
	post := createTestPost(t, svc, author, "detailed")

	_, err := svc.CreateReply(context.Background(), post.ID, reader.ID, &dto.CreateReplyRequest{Body: "nice"})
	require.NoError(t, err)

	ip := "203.0.113.9"
	resp, err := svc.GetPost(context.Background(), post.ID, &reader.ID, &ip)
	require.NoError(t, err)
	assert.Equal(t, author.Username, resp.AuthorUsername)
	assert.EqualValues(t, 1, resp.RepliesCount)
	assert.EqualValues(t, 1, resp.ViewCount)
	assert.False(t, resp.Bookmarked)

	// Re-reading does not inflate the view count.
	resp, err = svc.GetPost(context.Background(), post.ID, &reader.ID, &ip)
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.ViewCount)
}

func TestPopularTags(t *testing.T) {
	db := openTestDB(t)
	svc := NewPostService(db, NewViewService(db))

	tenant := createTestUser(t, db, "tenant", models.OccupationTenant)
	createTestPost(t, svc, tenant, "a", "plumbing", "heating")
	createTestPost(t, svc, tenant, "b", "plumbing")
	createTestPost(t, svc, tenant, "c", "plumbing", "roofing")

	tags, err := svc.PopularTags(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, tags)
	assert.Equal(t, "plumbing", tags[0].Name)
	assert.EqualValues(t, 3, tags[0].PostCount)
}

func TestUpdatePostAuthorOnly(t *testing.T) {
	db := openTestDB(t)
	svc := NewPostService(db, NewViewService(db))

	author := createTestUser(t, db, "author", models.OccupationTenant)
	other := createTestUser(t, db, "other", models.OccupationTenant)
	post := createTestPost(t, svc, author, "original")

	newTitle := "edited"
	_, err := svc.UpdatePost(context.Background(), post.ID, other.ID, &dto.UpdatePostRequest{Title: &newTitle})
	assert.ErrorIs(t, err, ErrNotPostAuthor)

	updated, err := svc.UpdatePost(context.Background(), post.ID, author.ID, &dto.UpdatePostRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)
}

func TestDeletePostRemovesDependents(t *testing.T) {
	db := openTestDB(t)
	views := NewViewService(db)
	svc := NewPostService(db, views)

	author := createTestUser(t, db, "author", models.OccupationTenant)
	other := createTestUser(t, db, "other", models.OccupationTenant)
	post := createTestPost(t, svc, author, "doomed", "plumbing")

	_, err := svc.CreateReply(context.Background(), post.ID, other.ID, &dto.CreateReplyRequest{Body: "reply"})
	require.NoError(t, err)
	require.NoError(t, svc.Bookmark(context.Background(), post.ID, other.ID))
	require.NoError(t, svc.Vote(context.Background(), post.ID, other.ID, models.VoteUp))

	err = svc.DeletePost(context.Background(), post.ID, other)
	assert.ErrorIs(t, err, ErrNotPostAuthor)

	require.NoError(t, svc.DeletePost(context.Background(), post.ID, author))

	var count int64
	db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.Reply{}).Where("post_id = ?", post.ID).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.PostBookmark{}).Where("post_id = ?", post.ID).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.PostVote{}).Where("post_id = ?", post.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}
