package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metacircle/metasync/internal/constants"
	"metacircle/metasync/internal/models/dtos"
)

func newTestStore(t *testing.T) *MemStore {
	t.Helper()
	return NewMemStore(0)
}

// seedCommunity creates an owner, a community and one space of the given
// type, returning their ids.
func seedCommunity(t *testing.T, s *MemStore, spaceType constants.SpaceType) (ownerID, communityID, spaceID int) {
	t.Helper()
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, dtos.InsertUser{
		Username: "owner",
		Email:    "owner@example.com",
		Password: "not-a-real-hash",
	})
	require.NoError(t, err)

	community, err := s.CreateCommunity(ctx, dtos.InsertCommunity{
		Name:    "Test Community",
		Slug:    "test-community",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	space, err := s.CreateSpace(ctx, dtos.InsertSpace{
		CommunityID: community.ID,
		Name:        "Test Space",
		Type:        string(spaceType),
	})
	require.NoError(t, err)

	return owner.ID, community.ID, space.ID
}

func TestGetUserIdempotentRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, dtos.InsertUser{
		Username: "maria",
		Email:    "maria@example.com",
		Password: "hash",
	})
	require.NoError(t, err)

	first, err := s.GetUser(ctx, created.ID)
	require.NoError(t, err)
	second, err := s.GetUser(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCreateUserDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, dtos.InsertUser{
		Username: "plain",
		Email:    "plain@example.com",
		Password: "hash",
	})
	require.NoError(t, err)

	assert.Equal(t, constants.RoleMember, u.Role)
	assert.True(t, u.IsActive)
	assert.Nil(t, u.FirstName)
	assert.Nil(t, u.CompanyID)
}

func TestGlobalIDUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seen := make(map[int]bool)
	record := func(id int) {
		assert.False(t, seen[id], "id %d handed out twice", id)
		seen[id] = true
	}

	u, err := s.CreateUser(ctx, dtos.InsertUser{Username: "a", Email: "a@example.com", Password: "h"})
	require.NoError(t, err)
	record(u.ID)

	co, err := s.CreateCompany(ctx, dtos.InsertCompany{Name: "Acme", Slug: "acme"})
	require.NoError(t, err)
	record(co.ID)

	c, err := s.CreateCommunity(ctx, dtos.InsertCommunity{Name: "C", Slug: "c", OwnerID: u.ID})
	require.NoError(t, err)
	record(c.ID)

	sp, err := s.CreateSpace(ctx, dtos.InsertSpace{CommunityID: c.ID, Name: "S", Type: "post"})
	require.NoError(t, err)
	record(sp.ID)

	p, err := s.CreatePost(ctx, dtos.InsertPost{SpaceID: sp.ID, AuthorID: u.ID, Title: "T", Content: "B"})
	require.NoError(t, err)
	record(p.ID)

	start := time.Now().Add(time.Hour)
	e, err := s.CreateEvent(ctx, dtos.InsertEvent{SpaceID: sp.ID, OrganizerID: u.ID, Title: "E", StartDate: &start})
	require.NoError(t, err)
	record(e.ID)

	// The counter is shared across types, never per-table.
	assert.Len(t, seen, 6)
}

func TestDuplicateSlugRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateCommunity(ctx, dtos.InsertCommunity{Name: "One", Slug: "shared", OwnerID: 1})
	require.NoError(t, err)
	_, err = s.CreateCommunity(ctx, dtos.InsertCommunity{Name: "Two", Slug: "shared", OwnerID: 1})
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	_, err = s.CreateCompany(ctx, dtos.InsertCompany{Name: "One", Slug: "tenant"})
	require.NoError(t, err)
	_, err = s.CreateCompany(ctx, dtos.InsertCompany{Name: "Two", Slug: "tenant"})
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestRecentPostsOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ownerID, communityID, spaceID := seedCommunity(t, s, constants.SpaceTypePost)

	var ids []int
	for _, title := range []string{"first", "second", "third"} {
		p, err := s.CreatePost(ctx, dtos.InsertPost{
			SpaceID:  spaceID,
			AuthorID: ownerID,
			Title:    title,
			Content:  "body",
		})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	recent, err := s.GetRecentPosts(ctx, communityID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	// Newest first, truncated to the limit.
	assert.Equal(t, ids[2], recent[0].ID)
	assert.Equal(t, ids[1], recent[1].ID)

	// Author join resolves.
	require.NotNil(t, recent[0].Author)
	assert.Equal(t, ownerID, recent[0].Author.ID)
}

func TestRecentPostsDanglingAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, communityID, spaceID := seedCommunity(t, s, constants.SpaceTypePost)

	// Nothing validates the author reference on insert, so a bad id must
	// surface as a nil join rather than a panic.
	_, err := s.CreatePost(ctx, dtos.InsertPost{
		SpaceID:  spaceID,
		AuthorID: 99999,
		Title:    "orphan",
		Content:  "body",
	})
	require.NoError(t, err)

	recent, err := s.GetRecentPosts(ctx, communityID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Nil(t, recent[0].Author)
}

func TestUpcomingEventsFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ownerID, communityID, spaceID := seedCommunity(t, s, constants.SpaceTypeEvent)

	past := time.Now().Add(-time.Hour)
	_, err := s.CreateEvent(ctx, dtos.InsertEvent{
		SpaceID: spaceID, OrganizerID: ownerID, Title: "already happened", StartDate: &past,
	})
	require.NoError(t, err)

	later := time.Now().Add(48 * time.Hour)
	soon := time.Now().Add(24 * time.Hour)
	laterEvent, err := s.CreateEvent(ctx, dtos.InsertEvent{
		SpaceID: spaceID, OrganizerID: ownerID, Title: "later", StartDate: &later,
	})
	require.NoError(t, err)
	soonEvent, err := s.CreateEvent(ctx, dtos.InsertEvent{
		SpaceID: spaceID, OrganizerID: ownerID, Title: "soon", StartDate: &soon,
	})
	require.NoError(t, err)

	upcoming, err := s.GetUpcomingEvents(ctx, communityID, 5)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)

	// Soonest first; the past event never appears.
	assert.Equal(t, soonEvent.ID, upcoming[0].ID)
	assert.Equal(t, laterEvent.ID, upcoming[1].ID)
}

func TestLeaveEventClampsAtZero(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ownerID, _, spaceID := seedCommunity(t, s, constants.SpaceTypeEvent)

	start := time.Now().Add(time.Hour)
	e, err := s.CreateEvent(ctx, dtos.InsertEvent{
		SpaceID: spaceID, OrganizerID: ownerID, Title: "E", StartDate: &start,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, e.AttendeesCount)

	left, err := s.LeaveEvent(ctx, e.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 0, left.AttendeesCount)

	joined, err := s.JoinEvent(ctx, e.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 1, joined.AttendeesCount)
}

func TestLikePostIncrements(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ownerID, _, spaceID := seedCommunity(t, s, constants.SpaceTypePost)

	p, err := s.CreatePost(ctx, dtos.InsertPost{
		SpaceID: spaceID, AuthorID: ownerID, Title: "T", Content: "B",
	})
	require.NoError(t, err)

	liked, err := s.LikePost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.LikesCount)

	_, err = s.LikePost(ctx, 99999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPointsUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ownerID, communityID, _ := seedCommunity(t, s, constants.SpaceTypePost)

	first, err := s.UpdateMemberPoints(ctx, ownerID, communityID, 120)
	require.NoError(t, err)
	assert.Equal(t, 120, first.Points)
	assert.Equal(t, 120/constants.DefaultPointsPerLevel+1, first.Level)

	second, err := s.UpdateMemberPoints(ctx, ownerID, communityID, 80)
	require.NoError(t, err)
	assert.Equal(t, 80, second.Points)
	assert.Equal(t, 80/constants.DefaultPointsPerLevel+1, second.Level)

	// Exactly one row for the pair, holding the latest value.
	row, err := s.GetMemberPoints(ctx, ownerID, communityID)
	require.NoError(t, err)
	assert.Equal(t, 80, row.Points)

	top, err := s.GetTopMembers(ctx, communityID, 10)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestPointsPerLevelOverride(t *testing.T) {
	s := NewMemStore(500)
	ctx := context.Background()

	row, err := s.UpdateMemberPoints(ctx, 1, 1, 1200)
	require.NoError(t, err)
	assert.Equal(t, 3, row.Level)
}

func TestTopMembersOrderingAndJoin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ownerID, communityID, _ := seedCommunity(t, s, constants.SpaceTypePost)

	other, err := s.CreateUser(ctx, dtos.InsertUser{
		Username: "rival", Email: "rival@example.com", Password: "h",
	})
	require.NoError(t, err)

	_, err = s.UpdateMemberPoints(ctx, ownerID, communityID, 100)
	require.NoError(t, err)
	_, err = s.UpdateMemberPoints(ctx, other.ID, communityID, 300)
	require.NoError(t, err)

	top, err := s.GetTopMembers(ctx, communityID, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, other.ID, top[0].UserID)
	require.NotNil(t, top[0].User)
	assert.Equal(t, "rival", top[0].User.Username)
}

func TestCommunityStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ownerID, communityID, postSpaceID := seedCommunity(t, s, constants.SpaceTypePost)

	courseSpace, err := s.CreateSpace(ctx, dtos.InsertSpace{
		CommunityID: communityID, Name: "Course", Type: string(constants.SpaceTypeCourse),
	})
	require.NoError(t, err)
	_ = courseSpace

	_, err = s.CreatePost(ctx, dtos.InsertPost{
		SpaceID: postSpaceID, AuthorID: ownerID, Title: "today", Content: "b",
	})
	require.NoError(t, err)

	start := time.Now().Add(time.Hour)
	_, err = s.CreateEvent(ctx, dtos.InsertEvent{
		SpaceID: postSpaceID, OrganizerID: ownerID, Title: "E", StartDate: &start,
	})
	require.NoError(t, err)

	_, err = s.UpdateMemberPoints(ctx, ownerID, communityID, 10)
	require.NoError(t, err)

	stats, err := s.GetCommunityStats(ctx, communityID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PostsToday)
	assert.Equal(t, 1, stats.UpcomingEvents)
	assert.Equal(t, 1, stats.Courses)
	assert.Equal(t, 1, stats.ActiveMembers)

	// Another community's stats stay untouched.
	otherStats, err := s.GetCommunityStats(ctx, communityID+1000)
	require.NoError(t, err)
	assert.Equal(t, 0, otherStats.PostsToday)
	assert.Equal(t, 0, otherStats.ActiveMembers)
}

func TestLookupsReturnErrNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetUser(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetUserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetCommunityBySlug(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetEvent(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetMemberPoints(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeededStoreDataset(t *testing.T) {
	s, err := NewSeededStore(0)
	require.NoError(t, err)
	ctx := context.Background()

	admin, err := s.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, admin.Role)

	community, err := s.GetCommunityBySlug(ctx, "metacircle")
	require.NoError(t, err)

	spaces, err := s.GetCommunitySpaces(ctx, community.ID)
	require.NoError(t, err)
	assert.Len(t, spaces, 4)

	posts, err := s.GetRecentPosts(ctx, community.ID, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	events, err := s.GetUpcomingEvents(ctx, community.ID, 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	top, err := s.GetTopMembers(ctx, community.ID, 10)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	_, err = s.GetCompanyBySlug(ctx, "metacircle")
	require.NoError(t, err)
}

func TestCleanStoreDataset(t *testing.T) {
	s, err := NewCleanStore(0)
	require.NoError(t, err)
	ctx := context.Background()

	admin, err := s.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)

	_, err = s.GetCommunityBySlug(ctx, "metacircle")
	assert.ErrorIs(t, err, ErrNotFound)
}
