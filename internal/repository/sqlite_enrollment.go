package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/domain"
)

// SQLiteEnrollmentRepo implements EnrollmentRepo using a SQLite database.
// Only enrolled snapshots are stored; previews never reach the database.
type SQLiteEnrollmentRepo struct {
	db db.DBTX
}

// NewSQLiteEnrollmentRepo creates a new SQLiteEnrollmentRepo.
func NewSQLiteEnrollmentRepo(conn db.DBTX) *SQLiteEnrollmentRepo {
	return &SQLiteEnrollmentRepo{db: conn}
}

const enrollmentColumns = `id, program_id, user_id, last_viewed_lesson_id, created_at, updated_at`

func (r *SQLiteEnrollmentRepo) Create(ctx context.Context, e *domain.Enrollment) error {
	if e.IsPreview() {
		return fmt.Errorf("inserting enrollment: preview snapshots are not persisted")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO enrollments (`+enrollmentColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.ProgramID,
		e.UserID,
		nullableString(e.LastViewedLesson),
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting enrollment: %w", err)
	}
	return r.saveProgress(ctx, e)
}

func (r *SQLiteEnrollmentRepo) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE id = ?`, id)
	e, err := scanEnrollment(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("enrollment %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadProgress(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *SQLiteEnrollmentRepo) GetByProgramAndUser(ctx context.Context, programID, userID string) (*domain.Enrollment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE program_id = ? AND user_id = ?`,
		programID, userID)
	e, err := scanEnrollment(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("enrollment for user %s in program %s: %w", userID, programID, ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadProgress(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *SQLiteEnrollmentRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing enrollments: %w", err)
	}

	var enrollments []*domain.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows.Scan)
		if err != nil {
			rows.Close()
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating enrollments: %w", err)
	}
	rows.Close()

	for _, e := range enrollments {
		if err := r.loadProgress(ctx, e); err != nil {
			return nil, err
		}
	}
	return enrollments, nil
}

// Save writes the snapshot's header and replaces its stored progress.
// Completion timestamps of rows that survive the save are kept.
func (r *SQLiteEnrollmentRepo) Save(ctx context.Context, e *domain.Enrollment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE enrollments SET last_viewed_lesson_id = ?, updated_at = ? WHERE id = ?`,
		nullableString(e.LastViewedLesson),
		e.UpdatedAt.Format(time.RFC3339),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating enrollment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("enrollment %s: %w", e.ID, ErrNotFound)
	}
	return r.saveProgress(ctx, e)
}

func (r *SQLiteEnrollmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting enrollment: %w", err)
	}
	return nil
}

func (r *SQLiteEnrollmentRepo) saveProgress(ctx context.Context, e *domain.Enrollment) error {
	now := nowUTC()

	stored, err := r.queryIDs(ctx,
		`SELECT lesson_id FROM completed_lessons WHERE enrollment_id = ?`, e.ID)
	if err != nil {
		return fmt.Errorf("reading completed lessons: %w", err)
	}
	for _, id := range stored {
		if !e.CompletedLessons.Has(id) {
			if _, err := r.db.ExecContext(ctx,
				`DELETE FROM completed_lessons WHERE enrollment_id = ? AND lesson_id = ?`, e.ID, id); err != nil {
				return fmt.Errorf("removing completed lesson %s: %w", id, err)
			}
		}
	}
	for _, id := range e.CompletedLessons {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO completed_lessons (enrollment_id, lesson_id, completed_at) VALUES (?, ?, ?)`,
			e.ID, id, now); err != nil {
			return fmt.Errorf("inserting completed lesson %s: %w", id, err)
		}
	}

	storedDetails, err := r.queryIDs(ctx,
		`SELECT lesson_id FROM lesson_details WHERE enrollment_id = ?`, e.ID)
	if err != nil {
		return fmt.Errorf("reading lesson details: %w", err)
	}
	for _, id := range storedDetails {
		if _, ok := e.LessonDetails[id]; !ok {
			if _, err := r.db.ExecContext(ctx,
				`DELETE FROM lesson_details WHERE enrollment_id = ? AND lesson_id = ?`, e.ID, id); err != nil {
				return fmt.Errorf("removing lesson detail %s: %w", id, err)
			}
		}
	}
	for lessonID, d := range e.LessonDetails {
		if err := r.saveDetail(ctx, e.ID, lessonID, d, now); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteEnrollmentRepo) saveDetail(ctx context.Context, enrollmentID, lessonID string, d domain.LessonDetail, now string) error {
	status := d.Status
	if status == "" {
		status = domain.LessonInProgress
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lesson_details (enrollment_id, lesson_id, status, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(enrollment_id, lesson_id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		enrollmentID, lessonID, string(status), now)
	if err != nil {
		return fmt.Errorf("upserting lesson detail %s: %w", lessonID, err)
	}

	stored, err := r.queryIDs(ctx,
		`SELECT part_id FROM completed_parts WHERE enrollment_id = ? AND lesson_id = ?`, enrollmentID, lessonID)
	if err != nil {
		return fmt.Errorf("reading completed parts: %w", err)
	}
	for _, id := range stored {
		if !d.CompletedParts.Has(id) {
			if _, err := r.db.ExecContext(ctx,
				`DELETE FROM completed_parts WHERE enrollment_id = ? AND lesson_id = ? AND part_id = ?`,
				enrollmentID, lessonID, id); err != nil {
				return fmt.Errorf("removing completed part %s: %w", id, err)
			}
		}
	}
	for _, id := range d.CompletedParts {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO completed_parts (enrollment_id, lesson_id, part_id, completed_at) VALUES (?, ?, ?, ?)`,
			enrollmentID, lessonID, id, now); err != nil {
			return fmt.Errorf("inserting completed part %s: %w", id, err)
		}
	}
	return nil
}

func (r *SQLiteEnrollmentRepo) loadProgress(ctx context.Context, e *domain.Enrollment) error {
	completed, err := r.queryIDs(ctx,
		`SELECT lesson_id FROM completed_lessons WHERE enrollment_id = ?`, e.ID)
	if err != nil {
		return fmt.Errorf("loading completed lessons: %w", err)
	}
	e.CompletedLessons = domain.NewIDSet(completed...)

	e.LessonDetails = map[string]domain.LessonDetail{}
	rows, err := r.db.QueryContext(ctx,
		`SELECT lesson_id, status FROM lesson_details WHERE enrollment_id = ?`, e.ID)
	if err != nil {
		return fmt.Errorf("loading lesson details: %w", err)
	}
	for rows.Next() {
		var lessonID, status string
		if err := rows.Scan(&lessonID, &status); err != nil {
			rows.Close()
			return fmt.Errorf("scanning lesson detail: %w", err)
		}
		e.LessonDetails[lessonID] = domain.LessonDetail{Status: domain.LessonStatus(status)}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating lesson details: %w", err)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx,
		`SELECT lesson_id, part_id FROM completed_parts WHERE enrollment_id = ?`, e.ID)
	if err != nil {
		return fmt.Errorf("loading completed parts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var lessonID, partID string
		if err := rows.Scan(&lessonID, &partID); err != nil {
			return fmt.Errorf("scanning completed part: %w", err)
		}
		d := e.LessonDetails[lessonID]
		d.CompletedParts = d.CompletedParts.With(partID)
		e.LessonDetails[lessonID] = d
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating completed parts: %w", err)
	}
	return nil
}

func (r *SQLiteEnrollmentRepo) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanEnrollment(scan func(dest ...any) error) (*domain.Enrollment, error) {
	var e domain.Enrollment
	var lastViewed sql.NullString
	var createdAtStr, updatedAtStr string
	if err := scan(&e.ID, &e.ProgramID, &e.UserID, &lastViewed, &createdAtStr, &updatedAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning enrollment: %w", err)
	}
	e.Kind = domain.KindEnrolled
	e.LastViewedLesson = stringPtr(lastViewed)
	e.CreatedAt = parseTime(createdAtStr)
	e.UpdatedAt = parseTime(updatedAtStr)
	return &e, nil
}
