package entities

import "time"

// MemberPoints is keyed by (UserID, CommunityID); one row per pair.
// Level is always derived from Points, never stored independently of the
// formula.
type MemberPoints struct {
	UserID      int       `json:"userId"`
	CommunityID int       `json:"communityId"`
	Points      int       `json:"points"`
	Level       int       `json:"level"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MemberWithUser joins a points row with its user record. User is nil when
// the reference does not resolve.
type MemberWithUser struct {
	MemberPoints
	User *User `json:"user,omitempty"`
}
