package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"participant-registry/internal/domain"
	"participant-registry/internal/repository"
)

const createParticipantsTable = `
CREATE TABLE IF NOT EXISTS participants (
	participant_id INTEGER PRIMARY KEY AUTOINCREMENT,
	student_id TEXT NOT NULL UNIQUE,
	firstname TEXT NOT NULL,
	lastname TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	department TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

type ParticipantRepository struct {
	db *sql.DB
}

func NewParticipantRepository(db *sql.DB) repository.ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createParticipantsTable); err != nil {
		return fmt.Errorf("create participants table: %w", err)
	}
	return nil
}

func (r *ParticipantRepository) Create(ctx context.Context, p *domain.Participant) (int64, error) {
	p.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO participants (student_id, firstname, lastname, email, department, password_hash, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.StudentID,
		p.FirstName,
		p.LastName,
		p.Email,
		p.Department,
		p.PasswordHash,
		p.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("insert participant: %w", repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert participant: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("participant last insert id: %w", err)
	}
	p.ID = id
	return id, nil
}

func (r *ParticipantRepository) GetByStudentID(ctx context.Context, studentID string) (*domain.Participant, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT participant_id, student_id, firstname, lastname, email, department, password_hash, created_at
FROM participants
WHERE student_id = ?`,
		studentID,
	)
	return scanParticipant(row)
}

func (r *ParticipantRepository) ExistsByEmailOrStudentID(ctx context.Context, email, studentID string) (bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
SELECT participant_id
FROM participants
WHERE email = ? OR student_id = ?
LIMIT 1`,
		email,
		studentID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check duplicate participant: %w", err)
	}
	return true, nil
}

func scanParticipant(row interface {
	Scan(dest ...any) error
}) (*domain.Participant, error) {
	var p domain.Participant
	if err := row.Scan(
		&p.ID,
		&p.StudentID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.Department,
		&p.PasswordHash,
		&p.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan participant: %w", err)
	}
	return &p, nil
}
