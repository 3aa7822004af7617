package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Step is one write of a multi-step placement. Compensate undoes Action and
// runs only if a later required step fails. A failing Optional step is
// reported but does not stop the saga.
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
	Optional   bool
}

// StepError is returned when a required step fails. CompensationErr is set
// when undoing the completed steps failed too.
type StepError struct {
	Step            string
	Err             error
	CompensationErr error
}

func (e *StepError) Error() string {
	if e.CompensationErr != nil {
		return fmt.Sprintf("step %s: %v (compensation: %v)", e.Step, e.Err, e.CompensationErr)
	}
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() []error {
	if e.CompensationErr == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.CompensationErr}
}

type Report struct {
	Completed   []string
	Compensated []string
	// Failed holds optional steps that failed.
	Failed map[string]error
}

type Saga struct {
	steps  []Step
	logger *slog.Logger
}

func NewSaga(logger *slog.Logger, steps ...Step) *Saga {
	return &Saga{steps: steps, logger: logger}
}

// Run executes the steps in order. Nothing is retried.
func (s *Saga) Run(ctx context.Context) (Report, error) {
	report := Report{Failed: map[string]error{}}
	var done []Step

	for _, step := range s.steps {
		err := step.Action(ctx)
		if err == nil {
			report.Completed = append(report.Completed, step.Name)
			done = append(done, step)
			continue
		}

		if step.Optional {
			s.logger.WarnContext(ctx, "optional step failed",
				slog.String("action", "saga_step"),
				slog.String("step", step.Name),
				slog.Any("error", err),
			)
			report.Failed[step.Name] = err
			continue
		}

		s.logger.ErrorContext(ctx, "step failed, compensating",
			slog.String("action", "saga_step"),
			slog.String("step", step.Name),
			slog.Any("error", err),
		)
		compensated, compErr := s.compensate(ctx, done)
		report.Compensated = compensated
		return report, &StepError{Step: step.Name, Err: err, CompensationErr: compErr}
	}

	return report, nil
}

// compensate undoes done in reverse order. Rollback must still run when the
// request that started the saga has gone away.
func (s *Saga) compensate(ctx context.Context, done []Step) ([]string, error) {
	ctx = context.WithoutCancel(ctx)

	var (
		compensated []string
		errs        []error
	)
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.logger.ErrorContext(ctx, "compensation failed",
				slog.String("action", "saga_compensate"),
				slog.String("step", step.Name),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("compensate %s: %w", step.Name, err))
			continue
		}
		compensated = append(compensated, step.Name)
	}
	return compensated, errors.Join(errs...)
}
