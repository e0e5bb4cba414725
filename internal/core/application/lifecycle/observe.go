package lifecycle

import (
	"context"
	"errors"
	"log/slog"

	"orderentry/internal/pkg/errs"
)

// Outcome labels reported to a TransitionRecorder. They are also the values
// of the "outcome" label of the transitions counter.
const (
	OutcomeSuccess         = "success"
	OutcomeInvalidState    = "invalid_state"
	OutcomeInvalidArgument = "invalid_argument"
	OutcomeValidation      = "validation"
	OutcomeUnsupported     = "unsupported"
	OutcomeNotFound        = "not_found"
	OutcomeStorage         = "storage"
	OutcomeError           = "error"
)

// TransitionRecorder counts lifecycle transitions by outcome.
type TransitionRecorder interface {
	// RecordTransition is called once per transition attempt, successful or
	// not. transition is a short name such as "sign" or "group_void".
	RecordTransition(transition, outcome string)
}

// Option configures a lifecycle service.
//
// Example:
//
//	orders := lifecycle.NewOrderLifecycle(uow, identity, settings, logger,
//	    lifecycle.WithRecorder(metrics))
type Option func(*options)

type options struct {
	recorder TransitionRecorder
}

// WithRecorder reports every transition outcome to r.
func WithRecorder(r TransitionRecorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Outcome classifies err into one of the Outcome* labels by its errs
// sentinel. Checks run from the most specific sentinel to the least, so a
// StateIsInvalidError wrapping a storage failure is still invalid_state.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, errs.ErrStateIsInvalid):
		return OutcomeInvalidState
	case errors.Is(err, errs.ErrArgumentIsInvalid):
		return OutcomeInvalidArgument
	case errors.Is(err, errs.ErrSchemaIsInvalid):
		return OutcomeValidation
	case errors.Is(err, errs.ErrOperationIsUnsupported):
		return OutcomeUnsupported
	case errors.Is(err, errs.ErrObjectNotFound):
		return OutcomeNotFound
	case errors.Is(err, errs.ErrStorageFailed):
		return OutcomeStorage
	default:
		return OutcomeError
	}
}

// observer logs each transition and forwards its outcome to the recorder.
type observer struct {
	logger   *slog.Logger
	recorder TransitionRecorder
}

func newObserver(logger *slog.Logger, component string, o options) observer {
	if logger == nil {
		logger = slog.Default()
	}
	return observer{
		logger:   logger.With("component", component),
		recorder: o.recorder,
	}
}

// observe is deferred at the top of every transition. Successes log at info,
// rejections at debug and failures at error.
func (ob observer) observe(ctx context.Context, transition string, aggregate string, err error) {
	outcome := Outcome(err)
	if ob.recorder != nil {
		ob.recorder.RecordTransition(transition, outcome)
	}

	switch outcome {
	case OutcomeSuccess:
		ob.logger.InfoContext(ctx, "transition applied", "transition", transition, "uuid", aggregate)
	case OutcomeStorage, OutcomeError:
		ob.logger.ErrorContext(ctx, "transition failed",
			"transition", transition, "uuid", aggregate, "error", err)
	default:
		ob.logger.DebugContext(ctx, "transition rejected",
			"transition", transition, "uuid", aggregate, "outcome", outcome, "error", err)
	}
}
