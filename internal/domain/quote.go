// Package domain contains core business entities and rules.
package domain

import "time"

// Quote is a quotation held by the remote store, together with its likes.
// The ID is assigned by the store and treated as opaque.
type Quote struct {
	ID      string
	Content string
	Author  string

	// Likes are embedded by the store when listing; nil means none.
	Likes []Like
}

// LikeCount returns the number of likes embedded in the quote.
func (q *Quote) LikeCount() int {
	return len(q.Likes)
}

// Draft returns the quote's editable fields.
func (q *Quote) Draft() QuoteDraft {
	return QuoteDraft{Content: q.Content, Author: q.Author}
}

// Like is a timestamped endorsement of a quote.
type Like struct {
	ID        string
	QuoteID   string
	CreatedAt time.Time
}

// QuoteDraft carries the user-editable fields of a quote, as submitted
// by the create and edit forms.
type QuoteDraft struct {
	Content string `json:"quote"  validate:"notblank"`
	Author  string `json:"author" validate:"notblank"`
}

// IsZero reports whether both fields are empty.
func (d QuoteDraft) IsZero() bool {
	return d.Content == "" && d.Author == ""
}

// SortMode selects the ordering requested from the store when listing.
type SortMode int

const (
	// SortDefault leaves ordering to the store.
	SortDefault SortMode = iota

	// SortByAuthor asks the store to order quotes by author.
	SortByAuthor
)

// Toggle returns the other sort mode.
func (m SortMode) Toggle() SortMode {
	if m == SortByAuthor {
		return SortDefault
	}

	return SortByAuthor
}

// ByAuthor reports whether author ordering is requested.
func (m SortMode) ByAuthor() bool {
	return m == SortByAuthor
}

// String returns a name suitable for logs and metrics.
func (m SortMode) String() string {
	if m == SortByAuthor {
		return "author"
	}

	return "default"
}
