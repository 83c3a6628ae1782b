package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/and161185/motd/internal/errs"
	"github.com/and161185/motd/internal/model"
	"github.com/and161185/motd/internal/repository"
)

// MessageStore is the validated, append-only message collection.
type MessageStore interface {
	// Append stores text authored by creator.
	Append(ctx context.Context, text, creator string) (model.Message, error)
	// ScanAll returns all messages; an empty store yields an empty, non-nil slice.
	ScanAll(ctx context.Context) ([]model.Message, error)
}

type MessageStoreImpl struct {
	repo     repository.MessageRepository
	validate *validator.Validate
}

type appendInput struct {
	Text    string `validate:"required"`
	Creator string `validate:"required"`
}

// NewMessageStore wraps repo with input validation and error classification.
func NewMessageStore(repo repository.MessageRepository) *MessageStoreImpl {
	return &MessageStoreImpl{repo: repo, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Append validates input and delegates to the repository.
// Whitespace-only text counts as empty; otherwise text is stored verbatim.
func (s *MessageStoreImpl) Append(ctx context.Context, text, creator string) (model.Message, error) {
	in := appendInput{Text: strings.TrimSpace(text), Creator: creator}
	if err := s.validate.Struct(in); err != nil {
		return model.Message{}, validationError(err)
	}
	m, err := s.repo.Append(ctx, text, creator)
	if err != nil {
		return model.Message{}, fmt.Errorf("%w: append: %w", errs.ErrStoreUnavailable, err)
	}
	return m, nil
}

// ScanAll returns every stored message.
func (s *MessageStoreImpl) ScanAll(ctx context.Context) ([]model.Message, error) {
	out, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: scan: %w", errs.ErrStoreUnavailable, err)
	}
	if out == nil {
		out = []model.Message{}
	}
	return out, nil
}

// validationError flattens validator output into "field is required" form.
func validationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	fe := ves[0]
	return fmt.Errorf("%w: %s is %s", errs.ErrValidation, strings.ToLower(fe.Field()), fe.Tag())
}
