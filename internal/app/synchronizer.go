// Package app contains the application layer: the view synchronizer that
// runs board actions against the quote store, and the sessions holding it.
package app

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/ports"
)

// Action names used in logs and metrics.
const (
	ActionLoad       = "load"
	ActionLike       = "like"
	ActionDelete     = "delete"
	ActionToggleEdit = "toggle_edit"
	ActionEdit       = "edit"
	ActionCreate     = "create"
	ActionToggleSort = "toggle_sort"
)

// SynchronizerConfig contains dependencies for a Synchronizer.
type SynchronizerConfig struct {
	// Store is the remote quote store. Required.
	Store ports.QuoteStore

	// Executor runs actions step by step. Defaults to one using Logger.
	Executor *Executor

	// Validator checks drafts. Defaults to NewDraftValidator().
	Validator *DraftValidator

	// Metrics is optional.
	Metrics *Metrics

	// Clock stamps likes. Defaults to time.Now.
	Clock func() time.Time

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Synchronizer keeps one board in step with the store. Each action writes,
// re-fetches the whole list, commits it and returns the rebuilt board.
// Actions are serialized; a Synchronizer is safe for concurrent use.
//
// Every method returns the board to render. On failure the board is the
// state before the action (plus any form contents the user submitted) and
// the error says which step failed.
type Synchronizer struct {
	store     ports.QuoteStore
	exec      *Executor
	validator *DraftValidator
	metrics   *Metrics
	clock     func() time.Time
	logger    *slog.Logger

	mu     sync.Mutex
	state  ViewState
	quotes []domain.Quote
	loaded bool
}

// NewSynchronizer creates a Synchronizer with an empty board.
// Panics if Store is nil.
func NewSynchronizer(cfg SynchronizerConfig) *Synchronizer {
	if cfg.Store == nil {
		panic("Synchronizer: Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	exec := cfg.Executor
	if exec == nil {
		exec = NewExecutor(logger)
	}

	validator := cfg.Validator
	if validator == nil {
		validator = NewDraftValidator()
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Synchronizer{
		store:     cfg.Store,
		exec:      exec,
		validator: validator,
		metrics:   cfg.Metrics,
		clock:     clock,
		logger:    logger,
		state:     ViewState{Editing: make(map[string]domain.QuoteDraft)},
	}
}

// Board returns the current board without contacting the store.
func (s *Synchronizer) Board() Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.board()
}

// State returns a copy of the view state.
func (s *Synchronizer) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Editing = maps.Clone(s.state.Editing)

	return st
}

// Load fetches the list with the current sort and renders it. All edit
// forms close.
func (s *Synchronizer) Load(ctx context.Context) (Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return runAction(ctx, s, refreshOp[struct{}, struct{}](s, ActionLoad), struct{}{})
}

// Like records a like for the quote, stamped with the current time.
func (s *Synchronizer) Like(ctx context.Context, id string) (Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := refreshOp[string, *domain.Like](s, ActionLike)
	op.Perform = func(ctx context.Context, id string) (*domain.Like, error) {
		return s.store.CreateLike(ctx, id, s.clock())
	}

	return runAction(ctx, s, op, id)
}

// Delete removes the quote.
func (s *Synchronizer) Delete(ctx context.Context, id string) (Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := refreshOp[string, struct{}](s, ActionDelete)
	op.Perform = func(ctx context.Context, id string) (struct{}, error) {
		return struct{}{}, s.store.DeleteQuote(ctx, id)
	}

	return runAction(ctx, s, op, id)
}

// ToggleEdit opens the inline form for the quote, prefilled with its current
// text and author, or closes it if open. It never contacts the store.
func (s *Synchronizer) ToggleEdit(id string) (Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	if _, open := s.state.Editing[id]; open {
		delete(s.state.Editing, id)
		s.metrics.observe(ActionToggleEdit, start, nil)

		return s.board(), nil
	}

	idx := slices.IndexFunc(s.quotes, func(q domain.Quote) bool { return q.ID == id })
	if idx < 0 {
		err := domain.NewNotFoundError("quote", id)
		s.logger.Warn("cannot open edit form", slog.String("quote_id", id), slog.Any("error", err))
		s.metrics.observe(ActionToggleEdit, start, err)

		return s.board(), err
	}

	s.state.Editing[id] = s.quotes[idx].Draft()
	s.metrics.observe(ActionToggleEdit, start, nil)

	return s.board(), nil
}

// Edit saves new text and author for the quote. If anything fails the form
// stays open with the submitted values.
func (s *Synchronizer) Edit(ctx context.Context, id string, draft domain.QuoteDraft) (Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Editing[id] = draft

	op := refreshOp[domain.QuoteDraft, *domain.Quote](s, ActionEdit)
	op.Validate = s.validateDraft
	op.Perform = func(ctx context.Context, d domain.QuoteDraft) (*domain.Quote, error) {
		return s.store.UpdateQuote(ctx, id, d)
	}

	return runAction(ctx, s, op, draft)
}

// Create adds a quote. The new-quote form is cleared once the store accepts
// it; on any earlier failure the submitted values are kept.
func (s *Synchronizer) Create(ctx context.Context, draft domain.QuoteDraft) (Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Draft = draft

	op := refreshOp[domain.QuoteDraft, *domain.Quote](s, ActionCreate)
	op.Validate = s.validateDraft
	op.Perform = s.store.CreateQuote

	commit := op.Archive
	op.Archive = func(ctx context.Context, d domain.QuoteDraft, quotes []domain.Quote) error {
		s.state.Draft = domain.QuoteDraft{}
		return commit(ctx, d, quotes)
	}

	board, err := runAction(ctx, s, op, draft)
	if err != nil && Performed(err) {
		s.state.Draft = domain.QuoteDraft{}
		board = s.board()
	}

	return board, err
}

// ToggleSort flips author ordering and re-fetches. The flag stays flipped
// even if the re-fetch fails.
func (s *Synchronizer) ToggleSort(ctx context.Context) (Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Sort = s.state.Sort.Toggle()
	s.logger.DebugContext(ctx, "sort toggled", slog.String("sort", s.state.Sort.String()))

	return runAction(ctx, s, refreshOp[struct{}, struct{}](s, ActionToggleSort), struct{}{})
}

// refreshOp returns an operation that re-fetches with the current sort,
// commits the list and renders it. Callers add Validate and Perform.
func refreshOp[I, P any](s *Synchronizer, action string) Operation[I, P, []domain.Quote, Board] {
	return Operation[I, P, []domain.Quote, Board]{
		Name: action,
		Verify: func(ctx context.Context, _ I, _ P) ([]domain.Quote, error) {
			return s.store.ListQuotes(ctx, s.state.Sort)
		},
		Archive: func(_ context.Context, _ I, quotes []domain.Quote) error {
			s.commit(quotes)
			return nil
		},
		Respond: func(context.Context, I, []domain.Quote) (Board, error) {
			return s.board(), nil
		},
	}
}

// runAction executes op and, on failure, logs it and falls back to the current
// board. Must be called with mu held.
func runAction[I, P any](ctx context.Context, s *Synchronizer, op Operation[I, P, []domain.Quote, Board], input I) (Board, error) {
	start := time.Now()

	board, err := Execute(ctx, s.exec, op, input)
	s.metrics.observe(op.Name, start, err)

	if err != nil {
		step, _ := GetExecutionStep(err)
		s.logger.ErrorContext(ctx, "board action failed",
			slog.String("action", op.Name),
			slog.String("step", string(step)),
			slog.Any("error", err),
		)

		return s.board(), err
	}

	return board, nil
}

func (s *Synchronizer) validateDraft(_ context.Context, d domain.QuoteDraft) error {
	return s.validator.Validate(d)
}

// commit replaces the list and closes every edit form.
func (s *Synchronizer) commit(quotes []domain.Quote) {
	s.quotes = quotes
	s.loaded = true
	clear(s.state.Editing)
}

// board must be called with mu held.
func (s *Synchronizer) board() Board {
	b := BuildBoard(s.quotes, s.state)
	b.Loaded = s.loaded

	return b
}
