package entities

import (
	"encoding/json"
	"time"

	"metacircle/metasync/internal/constants"
)

type Community struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description"`
	OwnerID     int             `json:"ownerId"`
	Theme       json.RawMessage `json:"theme"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Space struct {
	ID          int                 `json:"id"`
	CommunityID int                 `json:"communityId"`
	Name        string              `json:"name"`
	Type        constants.SpaceType `json:"type"`
	IsPublic    bool                `json:"isPublic"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// CommunityStats is the dashboard aggregate for one community.
type CommunityStats struct {
	PostsToday     int `json:"postsToday"`
	UpcomingEvents int `json:"upcomingEvents"`
	Courses        int `json:"courses"`
	ActiveMembers  int `json:"activeMembers"`
}
