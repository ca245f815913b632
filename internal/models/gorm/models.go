package gorm

import "time"

// Row types for the optional SQLite-backed store. The API-facing shapes
// live in models/entities; these mirror them with storage tags only.

// IDCounter is the single-row table backing the global id sequence shared
// across all entity types.
type IDCounter struct {
	ID   int `gorm:"column:id;primaryKey"`
	Next int `gorm:"column:next;not null"`
}

func (IDCounter) TableName() string { return "id_counter" }

type User struct {
	ID           int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	Username     string    `gorm:"column:username;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	FirstName    *string   `gorm:"column:first_name"`
	LastName     *string   `gorm:"column:last_name"`
	Role         string    `gorm:"column:role;not null"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	CompanyID    *int      `gorm:"column:company_id"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string { return "users" }

type Company struct {
	ID             int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name           string    `gorm:"column:name;not null"`
	Slug           string    `gorm:"column:slug;uniqueIndex;not null"`
	Plan           string    `gorm:"column:plan;not null"`
	CustomBranding bool      `gorm:"column:custom_branding;not null"`
	CustomDomain   *string   `gorm:"column:custom_domain"`
	MaxSeats       int       `gorm:"column:max_seats;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (Company) TableName() string { return "companies" }

type Community struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name        string    `gorm:"column:name;not null"`
	Slug        string    `gorm:"column:slug;uniqueIndex;not null"`
	Description *string   `gorm:"column:description"`
	OwnerID     int       `gorm:"column:owner_id;index;not null"`
	Theme       string    `gorm:"column:theme;not null;default:'{}'"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Community) TableName() string { return "communities" }

type Space struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	CommunityID int       `gorm:"column:community_id;index;not null"`
	Name        string    `gorm:"column:name;not null"`
	Type        string    `gorm:"column:type;not null"`
	IsPublic    bool      `gorm:"column:is_public;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Space) TableName() string { return "spaces" }

type Post struct {
	ID            int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	SpaceID       int       `gorm:"column:space_id;index;not null"`
	AuthorID      int       `gorm:"column:author_id;index;not null"`
	Title         string    `gorm:"column:title;not null"`
	Content       string    `gorm:"column:content;not null"`
	LikesCount    int       `gorm:"column:likes_count;not null"`
	CommentsCount int       `gorm:"column:comments_count;not null"`
	IsPinned      bool      `gorm:"column:is_pinned;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;index"`
}

func (Post) TableName() string { return "posts" }

type Event struct {
	ID             int        `gorm:"column:id;primaryKey;autoIncrement:false"`
	SpaceID        int        `gorm:"column:space_id;index;not null"`
	OrganizerID    int        `gorm:"column:organizer_id;not null"`
	Title          string     `gorm:"column:title;not null"`
	Description    *string    `gorm:"column:description"`
	StartDate      time.Time  `gorm:"column:start_date;index;not null"`
	EndDate        *time.Time `gorm:"column:end_date"`
	AttendeesCount int        `gorm:"column:attendees_count;not null"`
	MaxAttendees   *int       `gorm:"column:max_attendees"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
}

func (Event) TableName() string { return "events" }

type MemberPoints struct {
	UserID      int       `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	CommunityID int       `gorm:"column:community_id;primaryKey;autoIncrement:false"`
	Points      int       `gorm:"column:points;not null"`
	Level       int       `gorm:"column:level;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (MemberPoints) TableName() string { return "member_points" }
