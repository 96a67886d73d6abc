package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quoteboard/internal/platform/logging"
)

// Board actions run as Validate → Perform → Verify → Archive → Respond:
//
//   - Validate checks the submitted draft. Nothing reaches the store on failure.
//   - Perform is the single write (create, patch, delete, like).
//   - Verify re-fetches the whole list. A write is trusted only once re-read.
//   - Archive commits the fetched list to the session's view state.
//   - Respond builds the board view model from the committed state.
//
// A nil step is skipped, so a refresh is Verify → Archive → Respond. Errors
// come back as *ExecutionError tagged with the failing step; Performed tells
// callers whether the write landed before the failure.

// ExecutionStep names one stage of a board action.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError is a step failure. Cause is the error the step returned.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
	}

	return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

// NewExecutionValidationError tags cause as a validate failure.
func NewExecutionValidationError(message string, cause error) error {
	return &ExecutionError{Step: StepValidate, Message: message, Cause: cause}
}

// NewPerformError tags cause as a failed store write.
func NewPerformError(message string, cause error) error {
	return &ExecutionError{Step: StepPerform, Message: message, Cause: cause}
}

// NewVerifyError tags cause as a failed re-fetch.
func NewVerifyError(message string, cause error) error {
	return &ExecutionError{Step: StepVerify, Message: message, Cause: cause}
}

// NewArchiveError tags cause as a failed commit of view state.
func NewArchiveError(message string, cause error) error {
	return &ExecutionError{Step: StepArchive, Message: message, Cause: cause}
}

// Executor runs board actions, logging each step. The request logger in
// ctx takes precedence over the executor's own.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor returns an executor logging to logger, or slog's default.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation is one board action. I is the input, P what Perform returns,
// V the verified state and O the caller's result.
type Operation[I, P, V, O any] struct {
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Archive  func(ctx context.Context, input I, verified V) error
	Respond  func(ctx context.Context, input I, verified V) (O, error)
}

// stepLevel is the level a failure of each step is logged at. Validation
// and rendering failures are the caller's problem, not the store's.
var stepLevel = map[ExecutionStep]slog.Level{
	StepValidate: slog.LevelWarn,
	StepPerform:  slog.LevelError,
	StepVerify:   slog.LevelError,
	StepArchive:  slog.LevelError,
	StepRespond:  slog.LevelWarn,
}

var stepMessage = map[ExecutionStep]string{
	StepValidate: "input validation failed",
	StepPerform:  "operation failed",
	StepVerify:   "verification failed",
	StepArchive:  "committing state failed",
	StepRespond:  "building response failed",
}

// run executes one step. A nil fn yields the zero value.
func run[T any](ctx context.Context, logger *slog.Logger, step ExecutionStep, fn func() (T, error)) (T, error) {
	if fn == nil {
		var zero T
		return zero, nil
	}

	logger.DebugContext(ctx, "step started", slog.String("step", string(step)))

	out, err := fn()
	if err != nil {
		logger.Log(ctx, stepLevel[step], "step failed", slog.String("step", string(step)), slog.Any("error", err))

		var zero T

		return zero, &ExecutionError{Step: step, Message: stepMessage[step], Cause: err}
	}

	return out, nil
}

// Execute runs op on input through every step, stopping at the first
// failure.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var (
		none      O
		performed P
		verified  V
	)

	logger, ok := logging.LoggerFrom(ctx)
	if !ok {
		logger = exec.logger
	}

	logger = logger.With(slog.String("operation", op.Name))
	started := time.Now()

	var validate, archive func() (struct{}, error)
	if op.Validate != nil {
		validate = func() (struct{}, error) { return struct{}{}, op.Validate(ctx, input) }
	}

	if op.Archive != nil {
		archive = func() (struct{}, error) { return struct{}{}, op.Archive(ctx, input, verified) }
	}

	var (
		perform func() (P, error)
		verify  func() (V, error)
		respond func() (O, error)
	)

	if op.Perform != nil {
		perform = func() (P, error) { return op.Perform(ctx, input) }
	}

	if op.Verify != nil {
		verify = func() (V, error) { return op.Verify(ctx, input, performed) }
	}

	if op.Respond != nil {
		respond = func() (O, error) { return op.Respond(ctx, input, verified) }
	}

	if _, err := run(ctx, logger, StepValidate, validate); err != nil {
		return none, err
	}

	performed, err := run(ctx, logger, StepPerform, perform)
	if err != nil {
		return none, err
	}

	if verified, err = run(ctx, logger, StepVerify, verify); err != nil {
		return none, err
	}

	if _, err = run(ctx, logger, StepArchive, archive); err != nil {
		return none, err
	}

	out, err := run(ctx, logger, StepRespond, respond)
	if err != nil {
		return none, err
	}

	logger.InfoContext(ctx, "operation completed", slog.Duration("duration", time.Since(started)))

	return out, nil
}

// IsExecutionError reports whether err came out of Execute.
func IsExecutionError(err error) bool {
	_, ok := GetExecutionStep(err)
	return ok
}

// GetExecutionStep returns the step err failed at.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		return "", false
	}

	return execErr.Step, true
}

// Performed reports whether err occurred after Perform succeeded, meaning
// the write reached the store even though the action failed.
func Performed(err error) bool {
	step, _ := GetExecutionStep(err)
	return step == StepVerify || step == StepArchive || step == StepRespond
}

// Outcome labels an action result for metrics: "ok", the failing step, or
// "error" for anything else.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}

	if step, ok := GetExecutionStep(err); ok {
		return string(step)
	}

	return "error"
}
