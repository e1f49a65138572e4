package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var clientColumns = []string{"id", "name", "secret_hash", "scopes", "created_at", "updated_at"}

func TestPostgresRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	client := &Client{
		Name:       "casebook",
		SecretHash: "hashed_secret",
		Scopes:     []string{ScopeCompare, ScopeCombine},
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	mock.ExpectExec("INSERT INTO clients").
		WithArgs(sqlmock.AnyArg(), client.Name, client.SecretHash, "{\"compare\",\"combine\"}", client.CreatedAt, client.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), client)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if client.ID == "" {
		t.Error("expected client ID to be generated")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	clientID := "123e4567-e89b-12d3-a456-426614174000"
	createdAt := time.Now()
	updatedAt := time.Now()

	rows := sqlmock.NewRows(clientColumns).
		AddRow(clientID, "casebook", "hashed_secret", "{compare,combine}", createdAt, updatedAt)

	mock.ExpectQuery("SELECT (.+) FROM clients WHERE id").
		WithArgs(clientID).
		WillReturnRows(rows)

	client, err := repo.GetByID(context.Background(), clientID)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if client == nil {
		t.Fatal("expected client to be returned")
	}

	if client.ID != clientID {
		t.Errorf("expected ID %s, got %s", clientID, client.ID)
	}

	if len(client.Scopes) != 2 || client.Scopes[1] != ScopeCombine {
		t.Errorf("expected scopes [compare combine], got %v", client.Scopes)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	clientID := "nonexistent"

	mock.ExpectQuery("SELECT (.+) FROM clients WHERE id").
		WithArgs(clientID).
		WillReturnError(sql.ErrNoRows)

	client, err := repo.GetByID(context.Background(), clientID)
	if err != ErrClientNotFound {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}

	if client != nil {
		t.Error("expected nil client")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRepository_GetByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	clientID := "123e4567-e89b-12d3-a456-426614174000"
	name := "casebook"

	rows := sqlmock.NewRows(clientColumns).
		AddRow(clientID, name, "hashed_secret", "{compare}", time.Now(), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM clients WHERE name").
		WithArgs(name).
		WillReturnRows(rows)

	client, err := repo.GetByName(context.Background(), name)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if client == nil {
		t.Fatal("expected client to be returned")
	}

	if client.Name != name {
		t.Errorf("expected name %s, got %s", name, client.Name)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRepository_GetByName_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM clients WHERE name").
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	client, err := repo.GetByName(context.Background(), "nobody")
	if err != ErrClientNotFound {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}

	if client != nil {
		t.Error("expected nil client")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
