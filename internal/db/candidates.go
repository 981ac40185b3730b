package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-packer/internal/types"
)

// Candidate is a stored candidate row
type Candidate struct {
	ID        uuid.UUID    `json:"id"`
	Username  string       `json:"username"`
	Header    types.Header `json:"header"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// GetCandidate retrieves a candidate by username, or nil if none is stored
func (db *DB) GetCandidate(ctx context.Context, username string) (*Candidate, error) {
	var c Candidate
	var address, email, phone *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, username, name, address, email, phone, created_at, updated_at
		 FROM candidates WHERE username = $1`,
		normalizeUsername(username),
	).Scan(&c.ID, &c.Username, &c.Header.Name, &address, &email, &phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	c.Header.Address = deref(address)
	c.Header.Email = deref(email)
	c.Header.Phone = deref(phone)
	return &c, nil
}

// SaveCandidateBank stores a whole candidate bank, replacing any previous
// education, experience and project rows for the same username.
func (db *DB) SaveCandidateBank(ctx context.Context, bank *types.CandidateBank) (uuid.UUID, error) {
	if bank == nil || normalizeUsername(bank.Username) == "" {
		return uuid.Nil, fmt.Errorf("candidate bank with a username is required")
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO candidates (id, username, name, address, email, phone)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (username) DO UPDATE SET
		     name = $3, address = $4, email = $5, phone = $6, updated_at = NOW()
		 RETURNING id`,
		uuid.New(), normalizeUsername(bank.Username), bank.Header.Name,
		nullIfEmpty(bank.Header.Address), nullIfEmpty(bank.Header.Email), nullIfEmpty(bank.Header.Phone),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert candidate: %w", err)
	}

	if err := replaceEducation(ctx, tx, id, bank.Education); err != nil {
		return uuid.Nil, err
	}
	if err := replaceExperiences(ctx, tx, id, bank.Experiences); err != nil {
		return uuid.Nil, err
	}
	if err := replaceProjects(ctx, tx, id, bank.Projects); err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit candidate bank: %w", err)
	}
	return id, nil
}

// LoadCandidateBank assembles a stored candidate bank, or nil if none is stored
func (db *DB) LoadCandidateBank(ctx context.Context, username string) (*types.CandidateBank, error) {
	c, err := db.GetCandidate(ctx, username)
	if err != nil || c == nil {
		return nil, err
	}

	bank := &types.CandidateBank{Username: c.Username, Header: c.Header}

	if bank.Education, err = db.listEducation(ctx, c.ID); err != nil {
		return nil, err
	}
	if bank.Experiences, err = db.listExperiences(ctx, c.ID); err != nil {
		return nil, err
	}
	if bank.Projects, err = db.listProjects(ctx, c.ID); err != nil {
		return nil, err
	}
	return bank, nil
}

// GetExperiences returns the experience entries for username in stored order
func (db *DB) GetExperiences(ctx context.Context, username string) ([]types.ExperienceEntry, error) {
	c, err := db.GetCandidate(ctx, username)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrCandidateNotFound, username)
	}
	return db.listExperiences(ctx, c.ID)
}

// ReplaceExperiences atomically swaps the experience set of an existing candidate.
// Concurrent replacements for one candidate are serialised by a row lock.
func (db *DB) ReplaceExperiences(ctx context.Context, username string, entries []types.ExperienceEntry) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM candidates WHERE username = $1 FOR UPDATE`,
		normalizeUsername(username),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrCandidateNotFound, username)
		}
		return fmt.Errorf("failed to lock candidate: %w", err)
	}

	if err := replaceExperiences(ctx, tx, id, entries); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE candidates SET updated_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to touch candidate: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit experiences: %w", err)
	}
	return nil
}

func replaceEducation(ctx context.Context, tx pgx.Tx, candidateID uuid.UUID, entries []types.Education) error {
	if _, err := tx.Exec(ctx, `DELETE FROM education WHERE candidate_id = $1`, candidateID); err != nil {
		return fmt.Errorf("failed to clear education: %w", err)
	}
	for i, e := range entries {
		_, err := tx.Exec(ctx,
			`INSERT INTO education (id, candidate_id, school, degree, major, graduation_date, ordinal)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(), candidateID, e.School, e.Degree, nullIfEmpty(e.Major), nullIfEmpty(e.GraduationDate), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert education %d: %w", i, err)
		}
	}
	return nil
}

func replaceExperiences(ctx context.Context, tx pgx.Tx, candidateID uuid.UUID, entries []types.ExperienceEntry) error {
	if _, err := tx.Exec(ctx, `DELETE FROM experiences WHERE candidate_id = $1`, candidateID); err != nil {
		return fmt.Errorf("failed to clear experiences: %w", err)
	}
	for i, e := range entries {
		_, err := tx.Exec(ctx,
			`INSERT INTO experiences (id, candidate_id, title, company, dates, location, bullets, ordinal)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), candidateID, e.Title, nullIfEmpty(e.Company), nullIfEmpty(e.Dates),
			nullIfEmpty(e.Location), nonNil(e.Bullets), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert experience %q: %w", e.Title, err)
		}
	}
	return nil
}

func replaceProjects(ctx context.Context, tx pgx.Tx, candidateID uuid.UUID, entries []types.ProjectEntry) error {
	if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE candidate_id = $1`, candidateID); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}
	for i, p := range entries {
		_, err := tx.Exec(ctx,
			`INSERT INTO projects (id, candidate_id, title, description, url, language, bullets, ordinal)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), candidateID, p.Title, nullIfEmpty(p.Description), nullIfEmpty(p.URL),
			nullIfEmpty(p.Language), nonNil(p.Bullets), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert project %q: %w", p.Title, err)
		}
	}
	return nil
}

func (db *DB) listEducation(ctx context.Context, candidateID uuid.UUID) ([]types.Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT school, degree, major, graduation_date
		 FROM education WHERE candidate_id = $1 ORDER BY ordinal`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	defer rows.Close()

	var out []types.Education
	for rows.Next() {
		var e types.Education
		var major, grad *string
		if err := rows.Scan(&e.School, &e.Degree, &major, &grad); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		e.Major, e.GraduationDate = deref(major), deref(grad)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (db *DB) listExperiences(ctx context.Context, candidateID uuid.UUID) ([]types.ExperienceEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT title, company, dates, location, bullets
		 FROM experiences WHERE candidate_id = $1 ORDER BY ordinal`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	out := []types.ExperienceEntry{}
	for rows.Next() {
		var e types.ExperienceEntry
		var company, dates, location *string
		if err := rows.Scan(&e.Title, &company, &dates, &location, &e.Bullets); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		e.Company, e.Dates, e.Location = deref(company), deref(dates), deref(location)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (db *DB) listProjects(ctx context.Context, candidateID uuid.UUID) ([]types.ProjectEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT title, description, url, language, bullets
		 FROM projects WHERE candidate_id = $1 ORDER BY ordinal`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	out := []types.ProjectEntry{}
	for rows.Next() {
		var p types.ProjectEntry
		var description, url, language *string
		if err := rows.Scan(&p.Title, &description, &url, &language, &p.Bullets); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.Description, p.URL, p.Language = deref(description), deref(url), deref(language)
		out = append(out, p)
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
