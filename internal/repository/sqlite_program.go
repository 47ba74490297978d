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

// SQLiteProgramRepo implements ProgramRepo using a SQLite database.
type SQLiteProgramRepo struct {
	db db.DBTX
}

// NewSQLiteProgramRepo creates a new SQLiteProgramRepo.
func NewSQLiteProgramRepo(conn db.DBTX) *SQLiteProgramRepo {
	return &SQLiteProgramRepo{db: conn}
}

// Create inserts the program and its whole module tree. Callers that need
// all-or-nothing semantics run it inside a unit of work.
func (r *SQLiteProgramRepo) Create(ctx context.Context, p *domain.Program) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO programs (id, owner_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID,
		p.OwnerID,
		p.Title,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting program: %w", err)
	}

	for mi, m := range p.Modules {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO modules (id, program_id, title, is_gated, order_index) VALUES (?, ?, ?, ?, ?)`,
			m.ID, p.ID, m.Title, boolToInt(m.IsGated), mi,
		)
		if err != nil {
			return fmt.Errorf("inserting module %s: %w", m.ID, err)
		}
		for li, l := range m.Lessons {
			_, err := r.db.ExecContext(ctx,
				`INSERT INTO lessons (id, module_id, title, content_type, order_index) VALUES (?, ?, ?, ?, ?)`,
				l.ID, m.ID, l.Title, string(l.ContentType), li,
			)
			if err != nil {
				return fmt.Errorf("inserting lesson %s: %w", l.ID, err)
			}
			for pi, part := range l.Parts {
				_, err := r.db.ExecContext(ctx,
					`INSERT INTO lesson_parts (id, lesson_id, title, order_index) VALUES (?, ?, ?, ?)`,
					part.ID, l.ID, part.Title, pi,
				)
				if err != nil {
					return fmt.Errorf("inserting part %s of lesson %s: %w", part.ID, l.ID, err)
				}
			}
		}
	}
	return nil
}

func (r *SQLiteProgramRepo) GetByID(ctx context.Context, id string) (*domain.Program, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, created_at, updated_at FROM programs WHERE id = ?`, id)

	p, err := scanProgramHeader(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("program %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadTree(ctx, p); err != nil {
		return nil, err
	}
	return p.Normalize(), nil
}

func (r *SQLiteProgramRepo) List(ctx context.Context) ([]*domain.Program, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, title, created_at, updated_at FROM programs ORDER BY created_at, title`)
	if err != nil {
		return nil, fmt.Errorf("listing programs: %w", err)
	}

	var programs []*domain.Program
	for rows.Next() {
		p, err := scanProgramHeader(rows.Scan)
		if err != nil {
			rows.Close()
			return nil, err
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating programs: %w", err)
	}
	rows.Close()

	// Trees are loaded after the header cursor is closed; in-memory databases
	// run on a single connection.
	for _, p := range programs {
		if err := r.loadTree(ctx, p); err != nil {
			return nil, err
		}
		p.Normalize()
	}
	return programs, nil
}

func (r *SQLiteProgramRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting program: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("program %s: %w", id, ErrNotFound)
	}
	return nil
}

// loadTree fills p.Modules in curriculum order.
func (r *SQLiteProgramRepo) loadTree(ctx context.Context, p *domain.Program) error {
	modules, err := r.loadModules(ctx, p.ID)
	if err != nil {
		return err
	}

	moduleIdx := make(map[string]int, len(modules))
	for i, m := range modules {
		moduleIdx[m.ID] = i
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT l.id, l.module_id, l.title, l.content_type
		FROM lessons l JOIN modules m ON m.id = l.module_id
		WHERE m.program_id = ?
		ORDER BY m.order_index, l.order_index`, p.ID)
	if err != nil {
		return fmt.Errorf("loading lessons: %w", err)
	}
	for rows.Next() {
		var l domain.Lesson
		var moduleID, contentType string
		if err := rows.Scan(&l.ID, &moduleID, &l.Title, &contentType); err != nil {
			rows.Close()
			return fmt.Errorf("scanning lesson: %w", err)
		}
		l.ContentType = domain.ContentType(contentType)
		i := moduleIdx[moduleID]
		modules[i].Lessons = append(modules[i].Lessons, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating lessons: %w", err)
	}
	rows.Close()

	parts, err := r.loadParts(ctx, p.ID)
	if err != nil {
		return err
	}
	for mi := range modules {
		for li := range modules[mi].Lessons {
			l := &modules[mi].Lessons[li]
			l.Parts = parts[l.ID]
		}
	}

	p.Modules = modules
	return nil
}

func (r *SQLiteProgramRepo) loadModules(ctx context.Context, programID string) ([]domain.Module, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, is_gated FROM modules WHERE program_id = ? ORDER BY order_index`, programID)
	if err != nil {
		return nil, fmt.Errorf("loading modules: %w", err)
	}
	defer rows.Close()

	var modules []domain.Module
	for rows.Next() {
		var m domain.Module
		var gated int
		if err := rows.Scan(&m.ID, &m.Title, &gated); err != nil {
			return nil, fmt.Errorf("scanning module: %w", err)
		}
		m.IsGated = intToBool(gated)
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating modules: %w", err)
	}
	return modules, nil
}

func (r *SQLiteProgramRepo) loadParts(ctx context.Context, programID string) (map[string][]domain.Part, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT lp.id, lp.lesson_id, lp.title
		FROM lesson_parts lp
		JOIN lessons l ON l.id = lp.lesson_id
		JOIN modules m ON m.id = l.module_id
		WHERE m.program_id = ?
		ORDER BY lp.lesson_id, lp.order_index`, programID)
	if err != nil {
		return nil, fmt.Errorf("loading lesson parts: %w", err)
	}
	defer rows.Close()

	parts := make(map[string][]domain.Part)
	for rows.Next() {
		var part domain.Part
		var lessonID string
		if err := rows.Scan(&part.ID, &lessonID, &part.Title); err != nil {
			return nil, fmt.Errorf("scanning lesson part: %w", err)
		}
		parts[lessonID] = append(parts[lessonID], part)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lesson parts: %w", err)
	}
	return parts, nil
}

func scanProgramHeader(scan func(dest ...any) error) (*domain.Program, error) {
	var p domain.Program
	var createdAtStr, updatedAtStr string
	if err := scan(&p.ID, &p.OwnerID, &p.Title, &createdAtStr, &updatedAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning program: %w", err)
	}
	p.CreatedAt = parseTime(createdAtStr)
	p.UpdatedAt = parseTime(updatedAtStr)
	return &p, nil
}
