// Package mockstorage provides a testify-based mock implementation of the
// storage interface. It is used in handler and service tests to simulate
// storage behavior, including failure paths.
package mockstorage

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/brainly-app/brainly/internal/models"
	"github.com/brainly-app/brainly/internal/user"
)

// StorageMock is a testify mock that implements the storage interface.
type StorageMock struct {
	mock.Mock
}

// CreateUser mocks user creation.
func (m *StorageMock) CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error) {
	args := m.Called(ctx, usr, transaction)
	return args.String(0), args.Error(1)
}

// FindUserByEmail mocks the email lookup.
func (m *StorageMock) FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	args := m.Called(ctx, email)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Bool(1), args.Error(2)
}

// GetUserByID mocks the ID lookup.
func (m *StorageMock) GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, bool, error) {
	args := m.Called(ctx, userID, transaction)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Bool(1), args.Error(2)
}

// InsertContent mocks content insertion.
func (m *StorageMock) InsertContent(ctx context.Context, content *models.Content, transaction *sql.Tx) (string, error) {
	args := m.Called(ctx, content, transaction)
	return args.String(0), args.Error(1)
}

// GetUserContent mocks the content listing.
func (m *StorageMock) GetUserContent(ctx context.Context, userID string) ([]models.Content, error) {
	args := m.Called(ctx, userID)
	content, _ := args.Get(0).([]models.Content)
	return content, args.Error(1)
}

// DeleteUserContent mocks the ownership-scoped deletion.
func (m *StorageMock) DeleteUserContent(ctx context.Context, contentID, userID string) error {
	args := m.Called(ctx, contentID, userID)
	return args.Error(0)
}

// InsertShareLink mocks share-link insertion.
func (m *StorageMock) InsertShareLink(ctx context.Context, hash, userID string, transaction *sql.Tx) error {
	args := m.Called(ctx, hash, userID, transaction)
	return args.Error(0)
}

// FindShareLinkOwner mocks the share-hash lookup.
func (m *StorageMock) FindShareLinkOwner(ctx context.Context, hash string) (string, bool, error) {
	args := m.Called(ctx, hash)
	return args.String(0), args.Bool(1), args.Error(2)
}

// BeginTransaction mocks the beginning of a transaction.
func (m *StorageMock) BeginTransaction() (*sql.Tx, error) {
	args := m.Called()
	tx, _ := args.Get(0).(*sql.Tx)
	return tx, args.Error(1)
}

// CommitTransaction mocks committing a transaction.
func (m *StorageMock) CommitTransaction(tx *sql.Tx) error {
	args := m.Called(tx)
	return args.Error(0)
}

// RollbackTransaction mocks rolling back a transaction.
func (m *StorageMock) RollbackTransaction(tx *sql.Tx) error {
	args := m.Called(tx)
	return args.Error(0)
}

// Ping mocks the health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks closing the storage.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
