package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metacircle/metasync/internal/common"
	"metacircle/metasync/internal/models/dtos"
	"metacircle/metasync/internal/store"
)

func newStatsFixture(t *testing.T) (*StatsService, *store.MemStore, int, int) {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemStore(0)

	owner, err := st.CreateUser(ctx, dtos.InsertUser{
		Username: "owner", Email: "owner@example.com", Password: "h",
	})
	require.NoError(t, err)
	community, err := st.CreateCommunity(ctx, dtos.InsertCommunity{
		Name: "C", Slug: "c", OwnerID: owner.ID,
	})
	require.NoError(t, err)

	svc := NewStatsService(st, common.NewCacheService(time.Minute, time.Minute), nil)
	return svc, st, community.ID, owner.ID
}

func TestCommunityStatsCaching(t *testing.T) {
	svc, st, communityID, ownerID := newStatsFixture(t)
	ctx := context.Background()

	first, err := svc.CommunityStats(ctx, communityID)
	require.NoError(t, err)
	assert.Equal(t, 0, first.ActiveMembers)

	// A mutation behind the cache's back is invisible until the TTL or an
	// explicit invalidation.
	_, err = st.UpdateMemberPoints(ctx, ownerID, communityID, 10)
	require.NoError(t, err)

	stale, err := svc.CommunityStats(ctx, communityID)
	require.NoError(t, err)
	assert.Equal(t, 0, stale.ActiveMembers)

	svc.Invalidate(communityID)

	fresh, err := svc.CommunityStats(ctx, communityID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.ActiveMembers)
}

func TestCommunityStatsPerCommunityKeys(t *testing.T) {
	svc, st, communityID, ownerID := newStatsFixture(t)
	ctx := context.Background()

	other, err := st.CreateCommunity(ctx, dtos.InsertCommunity{
		Name: "Other", Slug: "other", OwnerID: ownerID,
	})
	require.NoError(t, err)

	_, err = st.UpdateMemberPoints(ctx, ownerID, communityID, 10)
	require.NoError(t, err)

	a, err := svc.CommunityStats(ctx, communityID)
	require.NoError(t, err)
	b, err := svc.CommunityStats(ctx, other.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, a.ActiveMembers)
	assert.Equal(t, 0, b.ActiveMembers)
}
