package app

import (
	"fmt"

	"github.com/jsamuelsen/quoteboard/internal/domain"
)

// ViewState is everything about a session's board that is not stored remotely.
type ViewState struct {
	// Sort is the ordering requested from the store.
	Sort domain.SortMode

	// Editing holds the open inline edit forms and their current contents,
	// keyed by quote ID.
	Editing map[string]domain.QuoteDraft

	// Draft is the content of the new-quote form.
	Draft domain.QuoteDraft
}

// Board is the view model rendered by the front-ends.
type Board struct {
	SortByAuthor bool              `json:"sortByAuthor"`
	SortLabel    string            `json:"sortLabel"`
	Cards        []Card            `json:"quotes"`
	Draft        domain.QuoteDraft `json:"draft"`

	// Loaded is false until the first successful fetch.
	Loaded bool `json:"loaded"`
}

// Card is one rendered quote.
type Card struct {
	ID        string `json:"id"`
	Content   string `json:"quote"`
	Author    string `json:"author"`
	Likes     int    `json:"likes"`
	LikeLabel string `json:"likeLabel"`

	// Editing reports whether the inline edit form is open. EditContent and
	// EditAuthor prefill it.
	Editing     bool   `json:"editing"`
	EditContent string `json:"editQuote"`
	EditAuthor  string `json:"editAuthor"`
}

// SortLabel returns the sort control caption for mode.
func SortLabel(mode domain.SortMode) string {
	if mode.ByAuthor() {
		return "Sort by Author: On"
	}

	return "Sort by Author: Off"
}

// LikeLabel returns the like control caption for n likes.
func LikeLabel(n int) string {
	return fmt.Sprintf("Likes: %d", n)
}

// BuildBoard derives the view model from the last fetched list and the view
// state. Cards keep the order the store returned. A card whose quote has an
// entry in state.Editing shows the form with that entry's values; every
// other card carries the quote's current text for when its form opens.
func BuildBoard(quotes []domain.Quote, state ViewState) Board {
	cards := make([]Card, 0, len(quotes))

	for i := range quotes {
		q := &quotes[i]
		card := Card{
			ID:          q.ID,
			Content:     q.Content,
			Author:      q.Author,
			Likes:       q.LikeCount(),
			LikeLabel:   LikeLabel(q.LikeCount()),
			EditContent: q.Content,
			EditAuthor:  q.Author,
		}

		if draft, ok := state.Editing[q.ID]; ok {
			card.Editing = true
			card.EditContent = draft.Content
			card.EditAuthor = draft.Author
		}

		cards = append(cards, card)
	}

	return Board{
		SortByAuthor: state.Sort.ByAuthor(),
		SortLabel:    SortLabel(state.Sort),
		Cards:        cards,
		Draft:        state.Draft,
	}
}
