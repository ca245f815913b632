package dtos

// Frame types on the /ws channel. Server→client only.
const (
	WSTypeConnected       = "connected"
	WSTypeNewPost         = "new_post"
	WSTypeNewEvent        = "new_event"
	WSTypePointsUpdated   = "points_updated"
	WSTypePostLiked       = "post_liked"
	WSTypeEventAttendance = "event_attendance"
)

type WSFrame struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// PointsUpdatedData is the payload of a points_updated frame.
type PointsUpdatedData struct {
	UserID      int `json:"userId"`
	CommunityID int `json:"communityId"`
	Points      int `json:"points"`
	Level       int `json:"level"`
}
