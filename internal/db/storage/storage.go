// Package storage declares the persistence contract shared by all storage
// backends and the sentinel errors they report.
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/brainly-app/brainly/internal/models"
	"github.com/brainly-app/brainly/internal/user"
)

// ErrEmailTaken is returned by CreateUser when another user already owns the email.
var ErrEmailTaken = errors.New("a user with this email already exists")

// ErrHashTaken is returned by InsertShareLink when the hash is already in use.
var ErrHashTaken = errors.New("a share link with this hash already exists")

// Storage is the full persistence interface. Backends that do not support
// transactions (file, memory) return a nil *sql.Tx from BeginTransaction and
// accept nil in the transaction-aware methods.
type Storage interface {
	CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error)

	FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error)

	GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, bool, error)

	InsertContent(ctx context.Context, content *models.Content, transaction *sql.Tx) (string, error)

	GetUserContent(ctx context.Context, userID string) ([]models.Content, error)

	DeleteUserContent(ctx context.Context, contentID, userID string) error

	InsertShareLink(ctx context.Context, hash, userID string, transaction *sql.Tx) error

	FindShareLinkOwner(ctx context.Context, hash string) (string, bool, error)

	BeginTransaction() (*sql.Tx, error)

	RollbackTransaction(transaction *sql.Tx) error

	CommitTransaction(transaction *sql.Tx) error

	Ping(ctx context.Context) error

	Close() error
}
