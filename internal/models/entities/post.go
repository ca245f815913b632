package entities

import "time"

type Post struct {
	ID            int       `json:"id"`
	SpaceID       int       `json:"spaceId"`
	AuthorID      int       `json:"authorId"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	LikesCount    int       `json:"likesCount"`
	CommentsCount int       `json:"commentsCount"`
	IsPinned      bool      `json:"isPinned"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PostWithAuthor joins a post with its author. Author is nil when the
// referenced user no longer resolves; callers must handle that instead of
// assuming the reference is live.
type PostWithAuthor struct {
	Post
	Author *User `json:"author,omitempty"`
}
