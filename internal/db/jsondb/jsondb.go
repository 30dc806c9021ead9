// Package jsondb provides a file-backed implementation of the storage
// interface. The whole dataset lives in an in-process cache and is flushed
// to a JSON file on Close. It is meant for local development and tests,
// not for concurrent multi-process deployments.
package jsondb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/brainly-app/brainly/internal/db/storage"
	"github.com/brainly-app/brainly/internal/models"
	"github.com/brainly-app/brainly/internal/user"
)

// JSONDB is a storage backend persisted as a single JSON file.
type JSONDB struct {
	fileName string
	mu       sync.RWMutex
	Cache    CacheStruct
}

// CacheStruct is the serialized shape of the database file.
type CacheStruct struct {
	// Users maps user ID to the full user record.
	Users map[string]*user.User

	// EmailToUserID is the uniqueness index over user emails.
	EmailToUserID map[string]string

	// Contents maps content ID to the stored entry.
	Contents map[string]*models.Content

	// ShareLinks maps a share hash to the owning user ID.
	ShareLinks map[string]string
}

// NewCache returns an empty, fully initialized cache.
func NewCache() CacheStruct {
	return CacheStruct{
		Users:         map[string]*user.User{},
		EmailToUserID: map[string]string{},
		Contents:      map[string]*models.Content{},
		ShareLinks:    map[string]string{},
	}
}

// New opens (or creates) the database file and loads it into memory.
func New(fileName string) (*JSONDB, error) {
	db := JSONDB{
		fileName: fileName,
		Cache:    NewCache(),
	}

	err := parseJSONFile(db.fileName, &db.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := initDBFile(fileName); err != nil {
			return nil, err
		}
		if err := parseJSONFile(db.fileName, &db.Cache); err != nil {
			return nil, err
		}
	}

	return &db, nil
}

// CreateUser stores a new user and returns the assigned ID.
// The email uniqueness invariant is enforced here.
func (db *JSONDB) CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, taken := db.Cache.EmailToUserID[usr.Email]; taken {
		return "", storage.ErrEmailTaken
	}

	stored := *usr
	stored.ID = uuid.NewString()
	db.Cache.Users[stored.ID] = &stored
	db.Cache.EmailToUserID[stored.Email] = stored.ID

	return stored.ID, nil
}

// FindUserByEmail returns the user registered with the given email, if any.
func (db *JSONDB) FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	userID, found := db.Cache.EmailToUserID[email]
	if !found {
		return nil, false, nil
	}
	usr := *db.Cache.Users[userID]

	return &usr, true, nil
}

// GetUserByID returns the user with the given ID, if any.
func (db *JSONDB) GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	usr, found := db.Cache.Users[userID]
	if !found {
		return nil, false, nil
	}
	copied := *usr

	return &copied, true, nil
}

// InsertContent stores a new content entry and returns the assigned ID.
func (db *JSONDB) InsertContent(ctx context.Context, content *models.Content, transaction *sql.Tx) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored := *content
	stored.ID = uuid.NewString()
	if stored.Tags == nil {
		stored.Tags = []string{}
	}
	db.Cache.Contents[stored.ID] = &stored

	return stored.ID, nil
}

// GetUserContent returns all content owned by the given user.
func (db *JSONDB) GetUserContent(ctx context.Context, userID string) ([]models.Content, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := []models.Content{}
	for _, content := range db.Cache.Contents {
		if content.UserID == userID {
			result = append(result, *content)
		}
	}

	return result, nil
}

// DeleteUserContent removes the content entry matching both the content ID
// and the owner. It is a no-op when no entry matches, so one user cannot
// delete another user's content.
func (db *JSONDB) DeleteUserContent(ctx context.Context, contentID, userID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	content, found := db.Cache.Contents[contentID]
	if !found || content.UserID != userID {
		return nil
	}
	delete(db.Cache.Contents, contentID)

	return nil
}

// InsertShareLink stores the mapping from a share hash to its owning user.
func (db *JSONDB) InsertShareLink(ctx context.Context, hash, userID string, transaction *sql.Tx) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, taken := db.Cache.ShareLinks[hash]; taken {
		return storage.ErrHashTaken
	}
	db.Cache.ShareLinks[hash] = userID

	return nil
}

// FindShareLinkOwner resolves a share hash to the owning user ID, if present.
func (db *JSONDB) FindShareLinkOwner(ctx context.Context, hash string) (string, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	userID, found := db.Cache.ShareLinks[hash]

	return userID, found, nil
}

// BeginTransaction is a no-op for the file backend.
func (db *JSONDB) BeginTransaction() (*sql.Tx, error) {
	return nil, nil
}

// CommitTransaction is a no-op for the file backend.
func (db *JSONDB) CommitTransaction(transaction *sql.Tx) error {
	return nil
}

// RollbackTransaction is a no-op for the file backend.
func (db *JSONDB) RollbackTransaction(transaction *sql.Tx) error {
	return nil
}

// Ping always succeeds for the file backend.
func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// Close flushes the cache to the database file.
func (db *JSONDB) Close() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return writeToJSONFile(db.fileName, db.Cache)
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"Users": {},
	"EmailToUserID": {},
	"Contents": {},
	"ShareLinks": {}
}`)
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %s", err)
	}

	file, err2 := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err2 != nil {
		return fmt.Errorf("error opening file: %s", err2)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %s", err)
	}

	return nil
}

func parseJSONFile(fileName string, cacheMap *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)

	return decoder.Decode(cacheMap)
}
