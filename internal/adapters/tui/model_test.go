package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quoteboard/internal/app"
	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/mocks"
)

func seedQuotes() []domain.Quote {
	return []domain.Quote{
		{ID: "1", Content: "Stay hungry", Author: "Jobs"},
		{ID: "2", Content: "Less is more", Author: "Browning", Likes: []domain.Like{{ID: "1", QuoteID: "2"}}},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// newLoadedModel returns a model whose board has been fetched once.
func newLoadedModel(t *testing.T, store *mocks.MockQuoteStore) *Model {
	t.Helper()

	store.EXPECT().ListQuotes(mock.Anything, domain.SortDefault).Return(seedQuotes(), nil).Once()

	board := app.NewSynchronizer(app.SynchronizerConfig{
		Store:  store,
		Clock:  func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	m := New(context.Background(), Config{Board: board})
	run(t, m, m.Init())

	return m
}

// press sends browse and submit keys and runs the store action each returns.
func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()

	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		run(t, m, cmd)
	}
}

// send delivers keys without running their commands. Opening a form or
// typing into it only yields cursor blink commands, which wait on a timer.
func send(m *Model, keys ...string) {
	for _, k := range keys {
		m.Update(keyMsg(k))
	}
}

// run executes cmd and feeds board results back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	if cmd == nil {
		return
	}

	if msg, ok := cmd().(boardMsg); ok {
		m.Update(msg)
	}
}

func TestNew_PanicsWithoutBoard(t *testing.T) {
	assert.Panics(t, func() { New(context.Background(), Config{}) })
}

func TestModel_InitLoadsBoard(t *testing.T) {
	m := newLoadedModel(t, mocks.NewMockQuoteStore(t))

	require.Len(t, m.view.Cards, 2)
	assert.False(t, m.loading)

	view := m.View()
	assert.Contains(t, view, "Stay hungry")
	assert.Contains(t, view, "Likes: 1")
	assert.Contains(t, view, "Sort by Author: Off")
}

func TestModel_JKNavigation(t *testing.T) {
	m := newLoadedModel(t, mocks.NewMockQuoteStore(t))

	press(t, m, "j")
	assert.Equal(t, 1, m.cursor)

	press(t, m, "j")
	assert.Equal(t, 1, m.cursor, "j at bottom stays")

	press(t, m, "k", "k")
	assert.Equal(t, 0, m.cursor, "k at top stays")
}

func TestModel_LikeSelected(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	m := newLoadedModel(t, store)

	store.EXPECT().CreateLike(mock.Anything, "2", mock.Anything).Return(&domain.Like{ID: "9", QuoteID: "2"}, nil).Once()

	liked := seedQuotes()
	liked[1].Likes = append(liked[1].Likes, domain.Like{ID: "9", QuoteID: "2"})
	store.EXPECT().ListQuotes(mock.Anything, domain.SortDefault).Return(liked, nil).Once()

	press(t, m, "j", "l")

	assert.Equal(t, "Likes: 2", m.view.Cards[1].LikeLabel)
	assert.NoError(t, m.err)
}

func TestModel_DeleteClampsCursor(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	m := newLoadedModel(t, store)

	store.EXPECT().DeleteQuote(mock.Anything, "2").Return(nil).Once()
	store.EXPECT().ListQuotes(mock.Anything, domain.SortDefault).Return(seedQuotes()[:1], nil).Once()

	press(t, m, "j", "d")

	require.Len(t, m.view.Cards, 1)
	assert.Equal(t, 0, m.cursor)
}

func TestModel_StoreFailureKeepsBoard(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	m := newLoadedModel(t, store)

	store.EXPECT().DeleteQuote(mock.Anything, "1").Return(domain.NewUnavailableError("quote-store", "connection refused")).Once()

	press(t, m, "d")

	require.Error(t, m.err)
	assert.Len(t, m.view.Cards, 2)
	assert.Contains(t, m.View(), "connection refused")
}

func TestModel_SortTogglesAndRefetches(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	m := newLoadedModel(t, store)

	store.EXPECT().ListQuotes(mock.Anything, domain.SortByAuthor).Return(seedQuotes(), nil).Once()

	press(t, m, "s")

	assert.True(t, m.view.SortByAuthor)
	assert.Contains(t, m.View(), "Sort by Author: On")
}

func TestModel_RefreshRefetches(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	m := newLoadedModel(t, store)

	store.EXPECT().ListQuotes(mock.Anything, domain.SortDefault).Return(seedQuotes()[:1], nil).Once()

	press(t, m, "r")

	assert.Len(t, m.view.Cards, 1)
}

func TestModel_CreateQuote(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	m := newLoadedModel(t, store)

	draft := domain.QuoteDraft{Content: "Be kind", Author: "Anon"}
	store.EXPECT().CreateQuote(mock.Anything, draft).Return(&domain.Quote{ID: "3", Content: "Be kind", Author: "Anon"}, nil).Once()
	store.EXPECT().ListQuotes(mock.Anything, domain.SortDefault).
		Return(append(seedQuotes(), domain.Quote{ID: "3", Content: "Be kind", Author: "Anon"}), nil).Once()

	send(m, "n")
	require.Equal(t, modeCreate, m.mode)
	assert.Contains(t, m.View(), "New quote")

	send(m, "Be kind", "tab", "Anon")
	press(t, m, "enter")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Len(t, m.view.Cards, 3)
	assert.Empty(t, m.inputs[fieldQuote].Value())
}

func TestModel_CreateBlankStaysInForm(t *testing.T) {
	m := newLoadedModel(t, mocks.NewMockQuoteStore(t))

	send(m, "n", "tab", "Anon")
	press(t, m, "enter")

	assert.Equal(t, modeCreate, m.mode)
	assert.Equal(t, "Anon", m.inputs[fieldAuthor].Value())
	assert.Contains(t, m.View(), "quote must not be blank")
}

func TestModel_EditOpensPrefilledWithoutStore(t *testing.T) {
	m := newLoadedModel(t, mocks.NewMockQuoteStore(t))

	send(m, "j", "e")

	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "2", m.editID)
	assert.Equal(t, "Less is more", m.inputs[fieldQuote].Value())
	assert.Equal(t, "Browning", m.inputs[fieldAuthor].Value())
	assert.True(t, m.view.Cards[1].Editing)

	send(m, "esc")

	assert.Equal(t, modeBrowse, m.mode)
	assert.False(t, m.view.Cards[1].Editing)
}

func TestModel_EditSubmits(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	m := newLoadedModel(t, store)

	draft := domain.QuoteDraft{Content: "Stay hungry!", Author: "Jobs"}
	store.EXPECT().UpdateQuote(mock.Anything, "1", draft).Return(&domain.Quote{ID: "1", Content: "Stay hungry!", Author: "Jobs"}, nil).Once()

	updated := seedQuotes()
	updated[0].Content = "Stay hungry!"
	store.EXPECT().ListQuotes(mock.Anything, domain.SortDefault).Return(updated, nil).Once()

	send(m, "e", "!")
	press(t, m, "enter")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "Stay hungry!", m.view.Cards[0].Content)
	assert.False(t, m.view.Cards[0].Editing)
}

func TestModel_QuitKeys(t *testing.T) {
	m := newLoadedModel(t, mocks.NewMockQuoteStore(t))

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	send(m, "n", "q")
	assert.Equal(t, modeCreate, m.mode)
	assert.Equal(t, "q", m.inputs[fieldQuote].Value(), "q types into the form")

	_, cmd = m.Update(keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_EmptyBoard(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	store.EXPECT().ListQuotes(mock.Anything, domain.SortDefault).Return(nil, nil).Once()

	m := New(context.Background(), Config{Board: app.NewSynchronizer(app.SynchronizerConfig{Store: store})})
	assert.Contains(t, m.View(), "Loading...")

	run(t, m, m.Init())

	assert.Contains(t, m.View(), "No quotes yet")

	// Nothing selected: like and edit do nothing.
	press(t, m, "l", "e")
	assert.Equal(t, modeBrowse, m.mode)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "author must not be blank",
		describe(app.NewExecutionValidationError("invalid draft", domain.NewValidationError("author", "must not be blank"))))
	assert.Equal(t, "plain", describe(errors.New("plain")))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, clamp(3, 0))
	assert.Equal(t, 0, clamp(-1, 2))
	assert.Equal(t, 1, clamp(5, 2))
	assert.Equal(t, 1, clamp(1, 2))
}
