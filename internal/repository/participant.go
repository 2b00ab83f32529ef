package repository

import (
	"context"
	"errors"

	"participant-registry/internal/domain"
)

var (
	// ErrNotFound indicates no participant matched the lookup.
	ErrNotFound = errors.New("participant not found")
	// ErrDuplicate indicates an insert violated a uniqueness constraint.
	ErrDuplicate = errors.New("participant already exists")
)

// ParticipantRepository defines persistence operations for Participant entities.
type ParticipantRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, p *domain.Participant) (int64, error)
	GetByStudentID(ctx context.Context, studentID string) (*domain.Participant, error)
	ExistsByEmailOrStudentID(ctx context.Context, email, studentID string) (bool, error)
}
