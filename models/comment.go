package models

import "time"

type Comment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user"`
	ProductID int       `json:"product"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is a Comment as returned to clients. Sentiment is computed
// from Text each time a view is built and is never stored.
type CommentView struct {
	Comment
	Sentiment string `json:"sentiment"`
}

type CommentFilter struct {
	ProductID int
	Limit     int
	Offset    int
}
