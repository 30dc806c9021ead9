// Package postgresdb provides the PostgreSQL-backed implementation of the
// storage interface. It relies on the database's own uniqueness constraints
// for the user-email and share-hash invariants and on ownership-scoped SQL
// for content deletion.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/brainly-app/brainly/internal/db/storage"
	"github.com/brainly-app/brainly/internal/models"
	"github.com/brainly-app/brainly/internal/user"
)

// uniqueViolation is the PostgreSQL error code raised when an insert
// breaks a unique constraint.
const uniqueViolation = "23505"

// PostgresDB is a PostgreSQL-backed implementation of the storage interface.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// New establishes a connection to the PostgreSQL database, verifies it,
// runs schema migrations, and returns a configured PostgresDB instance.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
) (*PostgresDB, error) {
	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("error while `goose.SetDialect()` calling: %w", err)
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil, fmt.Errorf("error while `goose.Up()` calling: %w", err)
	}

	return result, nil
}

// CreateUser inserts a new user record and returns the generated ID.
// A unique violation on the email column is reported as storage.ErrEmailTaken.
func (db *PostgresDB) CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error) {
	var database queryer = db.database
	if transaction != nil {
		database = transaction
	}

	row := database.QueryRowContext(
		ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		usr.Username,
		usr.Email,
		usr.PasswordHash,
	)
	var userID string
	if err := row.Scan(&userID); err != nil {
		if isUniqueViolation(err) {
			return "", storage.ErrEmailTaken
		}
		return "", err
	}

	return userID, nil
}

// FindUserByEmail fetches the user registered with the given email.
func (db *PostgresDB) FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT id, username, email, password_hash FROM users WHERE email = $1`,
		email,
	)

	return scanUser(row)
}

// GetUserByID fetches a user by their UUID.
func (db *PostgresDB) GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, bool, error) {
	var database queryer = db.database
	if transaction != nil {
		database = transaction
	}

	if userID == "" {
		return nil, false, nil
	}

	row := database.QueryRowContext(
		ctx,
		`SELECT id, username, email, password_hash FROM users WHERE id = $1`,
		userID,
	)

	return scanUser(row)
}

// InsertContent stores a new content entry owned by content.UserID
// and returns the generated ID.
func (db *PostgresDB) InsertContent(ctx context.Context, content *models.Content, transaction *sql.Tx) (string, error) {
	var database queryer = db.database
	if transaction != nil {
		database = transaction
	}

	row := database.QueryRowContext(
		ctx,
		`INSERT INTO contents (type, title, link, user_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		content.Type,
		content.Title,
		content.Link,
		content.UserID,
	)
	var contentID string
	if err := row.Scan(&contentID); err != nil {
		return "", err
	}

	return contentID, nil
}

// GetUserContent returns all content entries owned by the given user.
func (db *PostgresDB) GetUserContent(ctx context.Context, userID string) ([]models.Content, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`SELECT id, type, title, link, user_id FROM contents WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Content{}
	for rows.Next() {
		var content models.Content
		err = rows.Scan(&content.ID, &content.Type, &content.Title, &content.Link, &content.UserID)
		if err != nil {
			return nil, err
		}

		// Tags are an always-empty placeholder in the current scope,
		// so the column is not fetched.
		content.Tags = []string{}
		result = append(result, content)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteUserContent deletes at most one content entry matching both the
// content ID and the owner. Deleting a row owned by someone else (or no
// row at all) is a silent no-op.
func (db *PostgresDB) DeleteUserContent(ctx context.Context, contentID, userID string) error {
	_, err := db.database.ExecContext(
		ctx,
		`DELETE FROM contents WHERE id = $1 AND user_id = $2`,
		contentID,
		userID,
	)

	return err
}

// InsertShareLink stores the mapping from a share hash to its owning user.
// The hash column carries a unique constraint; a violation is reported
// as storage.ErrHashTaken.
func (db *PostgresDB) InsertShareLink(ctx context.Context, hash, userID string, transaction *sql.Tx) error {
	var database executor = db.database
	if transaction != nil {
		database = transaction
	}

	_, err := database.ExecContext(
		ctx,
		`INSERT INTO share_links (hash, user_id) VALUES ($1, $2)`,
		hash,
		userID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrHashTaken
		}
		return err
	}

	return nil
}

// FindShareLinkOwner resolves a share hash to the owning user ID.
func (db *PostgresDB) FindShareLinkOwner(ctx context.Context, hash string) (string, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT user_id FROM share_links WHERE hash = $1`,
		hash,
	)
	var userID string
	if err := row.Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}

	return userID, true, nil
}

// BeginTransaction starts a new SQL transaction and returns it.
// The caller is responsible for committing or rolling it back.
func (db *PostgresDB) BeginTransaction() (*sql.Tx, error) {
	return db.database.Begin()
}

// CommitTransaction commits the given SQL transaction.
func (db *PostgresDB) CommitTransaction(transaction *sql.Tx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred while committing transaction: %v", r)
		}
	}()

	return transaction.Commit()
}

// RollbackTransaction rolls back the given SQL transaction.
func (db *PostgresDB) RollbackTransaction(transaction *sql.Tx) error {
	return transaction.Rollback()
}

// Ping checks the database connection.
func (db *PostgresDB) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(pingCtx)
}

// Close closes the underlying database connection pool.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func scanUser(row *sql.Row) (*user.User, bool, error) {
	usr := &user.User{}
	err := row.Scan(&usr.ID, &usr.Username, &usr.Email, &usr.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return usr, true, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
