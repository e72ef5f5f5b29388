package contact

import (
	"context"
	"errors"
	"fmt"

	"contactus-backend/database"
	"contactus-backend/models"
)

// Outcome is the terminal state of one submission attempt.
type Outcome int

const (
	Accepted Outcome = iota + 1
	Rejected
	Faulted
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Faulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// FaultKind tells apart the causes of a Faulted outcome in logs.
type FaultKind string

const (
	FaultStorage    FaultKind = "storage"
	FaultValidator  FaultKind = "validator"
	FaultUnexpected FaultKind = "unexpected"
)

// Result is what Submit returns instead of an error. Exactly one of
// Submission (Accepted), Errors (Rejected) or Err (Faulted) is set.
type Result struct {
	Outcome    Outcome
	Submission *models.ContactSubmission
	Errors     FieldErrors
	Fault      FaultKind
	Err        error
}

type Service struct {
	validator *Validator
	store     database.ContactStore
}

func NewService(store database.ContactStore) *Service {
	return &Service{validator: NewValidator(), store: store}
}

// Submit validates input and, when valid, appends it to the store. Each call
// runs at most once; nothing is retried.
func (s *Service) Submit(ctx context.Context, input any) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Outcome: Faulted, Fault: FaultUnexpected, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	form, fieldErrs, err := s.validator.Validate(input)
	if err != nil {
		return Result{Outcome: Faulted, Fault: FaultValidator, Err: err}
	}
	if fieldErrs != nil {
		return Result{Outcome: Rejected, Errors: fieldErrs}
	}

	sub := form.Submission()
	if _, err := s.store.Append(ctx, sub); err != nil {
		kind := FaultUnexpected
		var se *database.StorageError
		if errors.As(err, &se) {
			kind = FaultStorage
		}
		return Result{Outcome: Faulted, Fault: kind, Err: err}
	}
	return Result{Outcome: Accepted, Submission: sub}
}
