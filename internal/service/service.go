// Package service implements the business logic of the Brainly API on top
// of the storage and authentication layers.
package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/thoas/go-funk"

	"github.com/brainly-app/brainly/internal/db/storage"
	"github.com/brainly-app/brainly/internal/models"
	"github.com/brainly-app/brainly/internal/passhash"
	"github.com/brainly-app/brainly/internal/user"
)

// shareHashPrefix is the fixed prefix of every generated share hash,
// kept for compatibility with links issued by the previous deployment.
const shareHashPrefix = "brain-"

// ErrUserExists is returned by SignUp when the email is already registered.
var ErrUserExists = errors.New("user already exists")

// ErrUserNotFound is returned when no user matches the given email or ID.
var ErrUserNotFound = errors.New("user does not exist")

// ErrWrongPassword is returned by SignIn when the password does not match.
var ErrWrongPassword = errors.New("password is incorrect")

// ErrShareLinkNotFound is returned by GetSharedBrain for an unknown hash.
var ErrShareLinkNotFound = errors.New("share link not found")

type userKeeper interface {
	CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error)
	FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error)
	GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, bool, error)
}

type contentKeeper interface {
	InsertContent(ctx context.Context, content *models.Content, transaction *sql.Tx) (string, error)
	GetUserContent(ctx context.Context, userID string) ([]models.Content, error)
	DeleteUserContent(ctx context.Context, contentID, userID string) error
}

type shareLinkKeeper interface {
	InsertShareLink(ctx context.Context, hash, userID string, transaction *sql.Tx) error
	FindShareLinkOwner(ctx context.Context, hash string) (string, bool, error)
}

type transactioner interface {
	BeginTransaction() (*sql.Tx, error)
	CommitTransaction(transaction *sql.Tx) error
	RollbackTransaction(transaction *sql.Tx) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type serviceStorage interface {
	userKeeper
	contentKeeper
	shareLinkKeeper
	transactioner
	pinger
}

type tokenIssuer interface {
	BuildToken(userID string) (string, error)
}

// Service composes storage and token issuance into the API operations.
type Service struct {
	db     serviceStorage
	tokens tokenIssuer
}

// New creates a Service over the given storage and token issuer.
func New(db serviceStorage, tokens tokenIssuer) *Service {
	return &Service{
		db:     db,
		tokens: tokens,
	}
}

// SignUp hashes the password and creates a new user. The email uniqueness
// invariant is enforced by the storage layer; a duplicate is reported as
// ErrUserExists. Each call has exactly one outcome.
func (s *Service) SignUp(ctx context.Context, email, password, username string) error {
	hashed, err := passhash.Hash(password)
	if err != nil {
		return err
	}

	_, err = s.db.CreateUser(
		ctx,
		&user.User{
			Username:     username,
			Email:        email,
			PasswordHash: hashed,
		},
		nil,
	)
	if errors.Is(err, storage.ErrEmailTaken) {
		return ErrUserExists
	}

	return err
}

// SignIn verifies the credentials and issues a bearer token for the user.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	usr, found, err := s.db.FindUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrUserNotFound
	}

	if !passhash.Verify(password, usr.PasswordHash) {
		return "", ErrWrongPassword
	}

	return s.tokens.BuildToken(usr.ID)
}

// AddContent stores a new content entry owned by the given user.
// The owner check and the insert run in one transaction so the entry can
// never be attached to a user removed in between. Tags are an always-empty
// placeholder in the current scope.
func (s *Service) AddContent(ctx context.Context, userID, link, title, contentType string) error {
	transaction, err := s.db.BeginTransaction()
	if err != nil {
		return err
	}

	_, found, err := s.db.GetUserByID(ctx, userID, transaction)
	if err != nil {
		_ = s.db.RollbackTransaction(transaction)

		return err
	}
	if !found {
		_ = s.db.RollbackTransaction(transaction)

		return ErrUserNotFound
	}

	_, err = s.db.InsertContent(
		ctx,
		&models.Content{
			Type:   contentType,
			Title:  title,
			Link:   link,
			Tags:   []string{},
			UserID: userID,
		},
		transaction,
	)
	if err != nil {
		_ = s.db.RollbackTransaction(transaction)

		return err
	}

	return s.db.CommitTransaction(transaction)
}

// GetUserContent returns all content owned by the user, with the owner
// reference resolved to include the username.
func (s *Service) GetUserContent(ctx context.Context, userID string) ([]models.ContentItem, error) {
	usr, found, err := s.db.GetUserByID(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUserNotFound
	}

	content, err := s.db.GetUserContent(ctx, userID)
	if err != nil {
		return nil, err
	}

	owner := models.ContentOwner{
		ID:       usr.ID,
		Username: usr.Username,
	}

	return funk.Map(content, func(item models.Content) models.ContentItem {
		return models.ContentItem{
			ID:    item.ID,
			Type:  item.Type,
			Title: item.Title,
			Link:  item.Link,
			Tags:  item.Tags,
			Owner: owner,
		}
	}).([]models.ContentItem), nil
}

// DeleteContent removes the content entry matching both the content ID and
// the owner. A non-matching ID (including content owned by someone else)
// is a silent no-op.
func (s *Service) DeleteContent(ctx context.Context, userID, contentID string) error {
	return s.db.DeleteUserContent(ctx, contentID, userID)
}

// CreateShareLink generates an unguessable share hash for the user's brain
// and persists it. The hash is a fixed prefix plus a cryptographically
// random UUID; the storage layer additionally enforces hash uniqueness.
func (s *Service) CreateShareLink(ctx context.Context, userID string) (string, error) {
	hash := shareHashPrefix + uuid.NewString()

	if err := s.db.InsertShareLink(ctx, hash, userID, nil); err != nil {
		return "", err
	}

	return hash, nil
}

// GetSharedBrain resolves a share hash to the owning user's public view:
// the username and every content entry, with each item's actual type.
func (s *Service) GetSharedBrain(ctx context.Context, hash string) (*models.SharedBrainResponse, error) {
	ownerID, found, err := s.db.FindShareLinkOwner(ctx, hash)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrShareLinkNotFound
	}

	usr, found, err := s.db.GetUserByID(ctx, ownerID, nil)
	if err != nil {
		return nil, err
	}
	if !found {
		// An orphaned share link: its owner reference no longer resolves.
		return nil, ErrUserNotFound
	}

	content, err := s.db.GetUserContent(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	username := usr.Username
	if username == "" {
		username = "Anonymous"
	}

	return &models.SharedBrainResponse{
		Username: username,
		Content: funk.Map(content, func(item models.Content) models.SharedContentItem {
			return models.SharedContentItem{
				ID:    item.ID,
				Type:  item.Type,
				Link:  item.Link,
				Title: item.Title,
				Tags:  item.Tags,
			}
		}).([]models.SharedContentItem),
	}, nil
}

// Ping checks the health of the storage layer.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
