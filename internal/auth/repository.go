package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresRepository implements ClientRepository using PostgreSQL
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new client into the database
func (r *PostgresRepository) Create(ctx context.Context, client *Client) error {
	client.ID = uuid.New().String()

	query := `
		INSERT INTO clients (id, name, secret_hash, scopes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		client.ID,
		client.Name,
		client.SecretHash,
		pq.Array(client.Scopes),
		client.CreatedAt,
		client.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// GetByID retrieves a client by its ID
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Client, error) {
	query := `
		SELECT id, name, secret_hash, scopes, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}

	return client, nil
}

// GetByName retrieves a client by its unique name
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*Client, error) {
	query := `
		SELECT id, name, secret_hash, scopes, created_at, updated_at
		FROM clients
		WHERE name = $1
	`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by name: %w", err)
	}

	return client, nil
}

func scanClient(row *sql.Row) (*Client, error) {
	client := &Client{}
	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.SecretHash,
		pq.Array(&client.Scopes),
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}
