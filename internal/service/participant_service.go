package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"participant-registry/internal/domain"
	"participant-registry/internal/repository"
)

var (
	// ErrMissingFields indicates one or more required signup fields are empty.
	ErrMissingFields = errors.New("all fields are required")
	// ErrMissingCredentials indicates the student id or password is empty.
	ErrMissingCredentials = errors.New("student id and password are required")
	// ErrAlreadyExists is returned when the email or student id is already registered.
	ErrAlreadyExists = errors.New("email or student id already exists")
	// ErrNotFound indicates no participant is registered under the student id.
	ErrNotFound = errors.New("participant not found")
	// ErrInvalidCredentials indicates the password does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Registration carries the six signup fields.
type Registration struct {
	StudentID  string
	FirstName  string
	LastName   string
	Email      string
	Department string
	Password   string
}

// ParticipantService describes participant lifecycle operations.
type ParticipantService interface {
	Register(ctx context.Context, reg Registration) (*domain.Participant, error)
	Authenticate(ctx context.Context, studentID, password string) (*domain.Participant, error)
}

type participantService struct {
	participants repository.ParticipantRepository
}

func NewParticipantService(participants repository.ParticipantRepository) ParticipantService {
	return &participantService{participants: participants}
}

func (s *participantService) Register(ctx context.Context, reg Registration) (*domain.Participant, error) {
	reg.StudentID = strings.TrimSpace(reg.StudentID)
	reg.FirstName = strings.TrimSpace(reg.FirstName)
	reg.LastName = strings.TrimSpace(reg.LastName)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Department = strings.TrimSpace(reg.Department)
	reg.Password = strings.TrimSpace(reg.Password)

	if reg.StudentID == "" || reg.FirstName == "" || reg.LastName == "" ||
		reg.Email == "" || reg.Department == "" || reg.Password == "" {
		return nil, ErrMissingFields
	}

	exists, err := s.participants.ExistsByEmailOrStudentID(ctx, reg.Email, reg.StudentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p := &domain.Participant{
		StudentID:    reg.StudentID,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Email:        reg.Email,
		Department:   reg.Department,
		PasswordHash: string(hash),
	}

	if _, err := s.participants.Create(ctx, p); err != nil {
		// The table enforces uniqueness, so a racing signup surfaces here.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return sanitizeParticipant(p), nil
}

func (s *participantService) Authenticate(ctx context.Context, studentID, password string) (*domain.Participant, error) {
	studentID = strings.TrimSpace(studentID)
	password = strings.TrimSpace(password)
	if studentID == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	p, err := s.participants.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeParticipant(p), nil
}

// sanitizeParticipant strips the password hash before the entity leaves the service.
func sanitizeParticipant(p *domain.Participant) *domain.Participant {
	if p == nil {
		return nil
	}
	return &domain.Participant{
		ID:         p.ID,
		StudentID:  p.StudentID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Department: p.Department,
		CreatedAt:  p.CreatedAt,
	}
}
