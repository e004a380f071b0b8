package domain

import "time"

// PostStatus is the review state of a submitted post
type PostStatus string

const (
	PostStatusPending  PostStatus = "pending"
	PostStatusApproved PostStatus = "approved"
	PostStatusRejected PostStatus = "rejected"
)

// Post is a forum-post proof submitted for a game account.
// Collection: posts, keyed by ID.
type Post struct {
	ID         int64      `json:"id"`
	GameID     string     `json:"game_id"`
	Image168   string     `json:"image_168"`
	ImageDC    string     `json:"image_dc"`
	Status     PostStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy string     `json:"reviewed_by,omitempty"`
}

// IsPending reports whether the post still awaits review
func (p *Post) IsPending() bool {
	return p.Status == PostStatusPending
}

// Blocks reports whether this post prevents another submission on the same day
func (p *Post) Blocks(blockAfterRejection bool) bool {
	return blockAfterRejection || p.Status != PostStatusRejected
}

// ParseDecision accepts only the two terminal review states
func ParseDecision(s string) (PostStatus, bool) {
	switch PostStatus(s) {
	case PostStatusApproved, PostStatusRejected:
		return PostStatus(s), true
	}
	return "", false
}

// SubmitPostRequest is the JSON form of a submission; images are URIs
type SubmitPostRequest struct {
	GameID   string `json:"game_id" binding:"required,gameid"`
	Image168 string `json:"image_168" binding:"required"`
	ImageDC  string `json:"image_dc" binding:"required"`
}

// ReviewPostRequest carries an admin decision
type ReviewPostRequest struct {
	Status string `json:"status" binding:"required"`
}
