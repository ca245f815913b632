package dtos

import (
	"encoding/json"
	"time"
)

// Insert variants carry the caller-supplied subset of each entity; the
// store assigns ids, timestamps and defaults.

type InsertUser struct {
	Username  string  `json:"username" validate:"required,min=3,max=50"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Role      string  `json:"role" validate:"omitempty,oneof=admin specialist member metasync_admin"`
	IsActive  *bool   `json:"isActive"`
	CompanyID *int    `json:"companyId"`
}

type InsertCompany struct {
	Name           string  `json:"name" validate:"required"`
	Slug           string  `json:"slug" validate:"required,min=2,max=60"`
	Plan           string  `json:"plan" validate:"omitempty,oneof=basic intermediate premium"`
	CustomBranding bool    `json:"customBranding"`
	CustomDomain   *string `json:"customDomain"`
	MaxSeats       int     `json:"maxSeats" validate:"omitempty,min=1"`
}

type InsertCommunity struct {
	Name        string          `json:"name" validate:"required"`
	Slug        string          `json:"slug" validate:"required,min=2,max=60"`
	Description *string         `json:"description"`
	OwnerID     int             `json:"ownerId" validate:"required"`
	Theme       json.RawMessage `json:"theme"`
	IsActive    *bool           `json:"isActive"`
}

type InsertSpace struct {
	CommunityID int    `json:"communityId" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=post course event ranking"`
	IsPublic    *bool  `json:"isPublic"`
}

type InsertPost struct {
	SpaceID  int    `json:"spaceId" validate:"required"`
	AuthorID int    `json:"authorId" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	IsPinned *bool  `json:"isPinned"`
}

type InsertEvent struct {
	SpaceID      int        `json:"spaceId" validate:"required"`
	OrganizerID  int        `json:"organizerId" validate:"required"`
	Title        string     `json:"title" validate:"required"`
	Description  *string    `json:"description"`
	StartDate    *time.Time `json:"startDate" validate:"required"`
	EndDate      *time.Time `json:"endDate"`
	MaxAttendees *int       `json:"maxAttendees" validate:"omitempty,min=1"`
}

// UpdatePointsReq drives PUT /api/members/{userId}/points. Points is a
// pointer so an explicit zero passes the required check.
type UpdatePointsReq struct {
	CommunityID int  `json:"communityId" validate:"required"`
	Points      *int `json:"points" validate:"required,min=0"`
}

type LoginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
