package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrProvisionNotFound = errors.New("provision not found")

// Provision is one version of a legislative node's text. A nil EndDate
// means the version is still in force.
type Provision struct {
	Node      string
	Heading   string
	Content   string
	StartDate time.Time
	EndDate   *time.Time
}

// InForce reports whether the version was in force on date.
func (p *Provision) InForce(date time.Time) bool {
	if date.Before(p.StartDate) {
		return false
	}
	return p.EndDate == nil || date.Before(*p.EndDate)
}

// ProvisionRepository defines the interface for provision storage operations
type ProvisionRepository interface {
	GetByNode(ctx context.Context, node string, date time.Time) (*Provision, error)
	ListByPrefix(ctx context.Context, prefix string) ([]*Provision, error)
	CreateBatch(ctx context.Context, provisions []*Provision) error
	ProvisionText(ctx context.Context, node string) (heading, content string, err error)
}

// PostgresProvisionRepository implements ProvisionRepository using PostgreSQL
type PostgresProvisionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresProvisionRepository creates a new PostgresProvisionRepository
func NewPostgresProvisionRepository(db *sql.DB) *PostgresProvisionRepository {
	return &PostgresProvisionRepository{db: db, now: time.Now}
}

// GetByNode retrieves the version of node in force on date. A zero date
// means today.
func (r *PostgresProvisionRepository) GetByNode(ctx context.Context, node string, date time.Time) (*Provision, error) {
	if date.IsZero() {
		date = r.now()
	}

	query := `
		SELECT node, heading, content, start_date, end_date
		FROM provisions
		WHERE node = $1 AND start_date <= $2 AND (end_date IS NULL OR end_date > $2)
		ORDER BY start_date DESC
		LIMIT 1
	`

	p, err := scanProvision(r.db.QueryRowContext(ctx, query, node, date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProvisionNotFound, node)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provision %s: %w", node, err)
	}

	return p, nil
}

// ListByPrefix retrieves the current versions of a node and its descendants
func (r *PostgresProvisionRepository) ListByPrefix(ctx context.Context, prefix string) ([]*Provision, error) {
	query := `
		SELECT node, heading, content, start_date, end_date
		FROM provisions
		WHERE (node = $1 OR node LIKE $1 || '/%') AND end_date IS NULL
		ORDER BY node
	`

	rows, err := r.db.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list provisions under %s: %w", prefix, err)
	}
	defer rows.Close()

	var provisions []*Provision
	for rows.Next() {
		p, err := scanProvision(rows)
		if err != nil {
			return nil, err
		}
		provisions = append(provisions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return provisions, nil
}

// CreateBatch inserts multiple provisions in a single transaction
func (r *PostgresProvisionRepository) CreateBatch(ctx context.Context, provisions []*Provision) error {
	if len(provisions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO provisions (node, heading, content, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range provisions {
		_, err := stmt.ExecContext(ctx,
			p.Node,
			p.Heading,
			p.Content,
			p.StartDate,
			p.EndDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert provision %s: %w", p.Node, err)
		}
	}

	return tx.Commit()
}

// ProvisionText returns the heading and text of the version of node in
// force today.
func (r *PostgresProvisionRepository) ProvisionText(ctx context.Context, node string) (string, string, error) {
	p, err := r.GetByNode(ctx, node, time.Time{})
	if err != nil {
		return "", "", err
	}
	return p.Heading, p.Content, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProvision(s scanner) (*Provision, error) {
	p := &Provision{}
	var end sql.NullTime
	if err := s.Scan(&p.Node, &p.Heading, &p.Content, &p.StartDate, &end); err != nil {
		return nil, err
	}
	if end.Valid {
		p.EndDate = &end.Time
	}
	return p, nil
}
