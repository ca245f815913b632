package store

import (
	"context"

	"metacircle/metasync/internal/models/dtos"
	"metacircle/metasync/internal/models/entities"
)

// Store is the data-access contract shared by every backing implementation.
// Lookups return ErrNotFound when nothing matches; create calls assign the
// next id from one counter shared across all entity types, so ids are
// globally unique but not contiguous per table. There are no delete
// operations.
//
// InsertUser.Password must already be hashed by the caller; the store never
// sees a plaintext credential.
type Store interface {
	// Users
	GetUser(ctx context.Context, id int) (*entities.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, ins dtos.InsertUser) (*entities.User, error)

	// Companies
	GetCompany(ctx context.Context, id int) (*entities.Company, error)
	GetCompanyBySlug(ctx context.Context, slug string) (*entities.Company, error)
	CreateCompany(ctx context.Context, ins dtos.InsertCompany) (*entities.Company, error)

	// Communities
	GetCommunity(ctx context.Context, id int) (*entities.Community, error)
	GetCommunityBySlug(ctx context.Context, slug string) (*entities.Community, error)
	CreateCommunity(ctx context.Context, ins dtos.InsertCommunity) (*entities.Community, error)
	GetUserCommunities(ctx context.Context, ownerID int) ([]entities.Community, error)

	// Spaces
	GetSpace(ctx context.Context, id int) (*entities.Space, error)
	GetCommunitySpaces(ctx context.Context, communityID int) ([]entities.Space, error)
	CreateSpace(ctx context.Context, ins dtos.InsertSpace) (*entities.Space, error)

	// Posts
	GetPost(ctx context.Context, id int) (*entities.Post, error)
	GetSpacePosts(ctx context.Context, spaceID int) ([]entities.Post, error)
	GetRecentPosts(ctx context.Context, communityID, limit int) ([]entities.PostWithAuthor, error)
	CreatePost(ctx context.Context, ins dtos.InsertPost) (*entities.Post, error)
	LikePost(ctx context.Context, postID int) (*entities.Post, error)

	// Events
	GetEvent(ctx context.Context, id int) (*entities.Event, error)
	GetUpcomingEvents(ctx context.Context, communityID, limit int) ([]entities.Event, error)
	CreateEvent(ctx context.Context, ins dtos.InsertEvent) (*entities.Event, error)
	JoinEvent(ctx context.Context, eventID, userID int) (*entities.Event, error)
	LeaveEvent(ctx context.Context, eventID, userID int) (*entities.Event, error)

	// Member points
	GetMemberPoints(ctx context.Context, userID, communityID int) (*entities.MemberPoints, error)
	GetTopMembers(ctx context.Context, communityID, limit int) ([]entities.MemberWithUser, error)
	UpdateMemberPoints(ctx context.Context, userID, communityID, points int) (*entities.MemberPoints, error)

	// Aggregates
	GetCommunityStats(ctx context.Context, communityID int) (*entities.CommunityStats, error)
}
