// Package tui is a terminal front-end for the quote board.
//
// It drives a single board through the same Synchronizer the web server
// uses per session. Store calls run as tea.Cmds so the UI never blocks;
// the Synchronizer serializes them.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsamuelsen/quoteboard/internal/app"
	"github.com/jsamuelsen/quoteboard/internal/domain"
)

// DefaultActionTimeout bounds one board action, re-fetch included.
const DefaultActionTimeout = 10 * time.Second

// Board is the part of app.Synchronizer the terminal front-end drives.
type Board interface {
	Load(ctx context.Context) (app.Board, error)
	Like(ctx context.Context, id string) (app.Board, error)
	Delete(ctx context.Context, id string) (app.Board, error)
	ToggleEdit(id string) (app.Board, error)
	Edit(ctx context.Context, id string, draft domain.QuoteDraft) (app.Board, error)
	Create(ctx context.Context, draft domain.QuoteDraft) (app.Board, error)
	ToggleSort(ctx context.Context) (app.Board, error)
}

type mode int

const (
	modeBrowse mode = iota
	modeCreate
	modeEdit
)

const (
	fieldQuote = iota
	fieldAuthor
)

// boardMsg carries the result of a board action back to Update.
type boardMsg struct {
	board app.Board
	err   error

	// closeForm leaves the open form once the action succeeded.
	closeForm bool
}

// Config configures the terminal model.
type Config struct {
	// Board is required.
	Board Board

	// Timeout bounds each action. Defaults to DefaultActionTimeout.
	Timeout time.Duration
}

// Model is the bubbletea model for the board.
type Model struct {
	ctx     context.Context
	board   Board
	timeout time.Duration

	view    app.Board
	cursor  int
	mode    mode
	editID  string
	inputs  [2]textinput.Model
	focus   int
	err     error
	loading bool

	keys keyMap
	help help.Model
}

// New creates the model. ctx bounds every store call it makes.
// Panics if cfg.Board is nil.
func New(ctx context.Context, cfg Config) *Model {
	if cfg.Board == nil {
		panic("tui: Board is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}

	quote := textinput.New()
	quote.Prompt = "Quote:  "
	quote.Placeholder = "Stay hungry, stay foolish."
	quote.Width = 60

	author := textinput.New()
	author.Prompt = "Author: "
	author.Placeholder = "Steve Jobs"
	author.Width = 40

	return &Model{
		ctx:     ctx,
		board:   cfg.Board,
		timeout: timeout,
		inputs:  [2]textinput.Model{quote, author},
		keys:    defaultKeyMap(),
		help:    help.New(),
		loading: true,
	}
}

// Init implements tea.Model. It loads the board.
func (m *Model) Init() tea.Cmd {
	return m.action(false, m.board.Load)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardMsg:
		m.apply(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeBrowse {
			return m, m.browseKey(msg)
		}

		return m, m.formKey(msg)
	}

	return m, nil
}

func (m *Model) apply(msg boardMsg) {
	m.loading = false
	m.view = msg.board
	m.err = msg.err

	if msg.closeForm {
		m.closeForm()
	}

	m.cursor = clamp(m.cursor, len(m.view.Cards))
}

func (m *Model) browseKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clamp(m.cursor+1, len(m.view.Cards))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clamp(m.cursor-1, len(m.view.Cards))
	case key.Matches(msg, m.keys.Refresh):
		return m.action(false, m.board.Load)
	case key.Matches(msg, m.keys.Sort):
		return m.action(false, m.board.ToggleSort)
	case key.Matches(msg, m.keys.New):
		m.mode = modeCreate
		return m.openForm(m.view.Draft)
	case key.Matches(msg, m.keys.Like):
		if card, ok := m.selected(); ok {
			return m.action(false, func(ctx context.Context) (app.Board, error) {
				return m.board.Like(ctx, card.ID)
			})
		}
	case key.Matches(msg, m.keys.Delete):
		if card, ok := m.selected(); ok {
			return m.action(false, func(ctx context.Context) (app.Board, error) {
				return m.board.Delete(ctx, card.ID)
			})
		}
	case key.Matches(msg, m.keys.Edit):
		return m.toggleEdit()
	}

	return nil
}

// toggleEdit opens the selected card's form. It is local state only, so it
// runs inline rather than as a command.
func (m *Model) toggleEdit() tea.Cmd {
	card, ok := m.selected()
	if !ok {
		return nil
	}

	board, err := m.board.ToggleEdit(card.ID)
	m.view, m.err = board, err

	if err != nil {
		return nil
	}

	for _, c := range board.Cards {
		if c.ID == card.ID && c.Editing {
			m.mode = modeEdit
			m.editID = c.ID

			return m.openForm(domain.QuoteDraft{Content: c.EditContent, Author: c.EditAuthor})
		}
	}

	return nil
}

func (m *Model) formKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if m.mode == modeEdit {
			m.view, m.err = m.board.ToggleEdit(m.editID)
		}

		m.closeForm()

		return nil
	case key.Matches(msg, m.keys.Next):
		return m.focusField(1 - m.focus)
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	return cmd
}

func (m *Model) submit() tea.Cmd {
	draft := domain.QuoteDraft{
		Content: m.inputs[fieldQuote].Value(),
		Author:  m.inputs[fieldAuthor].Value(),
	}

	if m.mode == modeCreate {
		return m.action(true, func(ctx context.Context) (app.Board, error) {
			return m.board.Create(ctx, draft)
		})
	}

	id := m.editID

	return m.action(true, func(ctx context.Context) (app.Board, error) {
		return m.board.Edit(ctx, id, draft)
	})
}

func (m *Model) openForm(draft domain.QuoteDraft) tea.Cmd {
	m.inputs[fieldQuote].SetValue(draft.Content)
	m.inputs[fieldAuthor].SetValue(draft.Author)

	return m.focusField(fieldQuote)
}

func (m *Model) closeForm() {
	m.mode = modeBrowse
	m.editID = ""

	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].Reset()
	}
}

func (m *Model) focusField(i int) tea.Cmd {
	m.focus = i
	m.inputs[1-i].Blur()

	return m.inputs[i].Focus()
}

func (m *Model) selected() (app.Card, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Cards) {
		return app.Card{}, false
	}

	return m.view.Cards[m.cursor], true
}

// action runs fn against the board as a command.
func (m *Model) action(closeForm bool, fn func(context.Context) (app.Board, error)) tea.Cmd {
	m.loading = true
	ctx, timeout := m.ctx, m.timeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		board, err := fn(ctx)

		return boardMsg{board: board, err: err, closeForm: closeForm && err == nil}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Quote Board"))
	b.WriteString("  ")
	b.WriteString(styles.Sort.Render(m.view.SortLabel))
	b.WriteString("\n\n")

	switch {
	case len(m.view.Cards) == 0 && m.loading:
		b.WriteString(styles.Empty.Render("Loading..."))
		b.WriteString("\n")
	case len(m.view.Cards) == 0:
		b.WriteString(styles.Empty.Render("No quotes yet. Press n to add one."))
		b.WriteString("\n")
	}

	for i, card := range m.view.Cards {
		style := styles.Card
		if i == m.cursor {
			style = styles.Selected
		}

		body := styles.Content.Render(card.Content) + "\n" +
			styles.Author.Render("- "+card.Author) + "  " +
			styles.Likes.Render(card.LikeLabel)

		b.WriteString(style.Render(body))
		b.WriteString("\n")

		if m.mode == modeEdit && card.ID == m.editID {
			b.WriteString(m.formView("Edit quote"))
			b.WriteString("\n")
		}
	}

	if m.mode == modeCreate {
		b.WriteString("\n")
		b.WriteString(m.formView("New quote"))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.Error.Render(describe(m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")

	if m.mode == modeBrowse {
		b.WriteString(m.help.View(browseKeys(m.keys)))
	} else {
		b.WriteString(m.help.View(formKeys(m.keys)))
	}

	return b.String()
}

func (m *Model) formView(title string) string {
	return styles.Form.Render(
		styles.Label.Render(title) + "\n" +
			m.inputs[fieldQuote].View() + "\n" +
			m.inputs[fieldAuthor].View(),
	)
}

// describe turns an action error into one line for the status area.
func describe(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return fmt.Sprintf("%s %s", ve.Field, ve.Message)
	}

	var ee *app.ExecutionError
	if errors.As(err, &ee) && ee.Cause != nil {
		return fmt.Sprintf("%s: %v", ee.Message, ee.Cause)
	}

	return err.Error()
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}

	if i >= n {
		return n - 1
	}

	return i
}
