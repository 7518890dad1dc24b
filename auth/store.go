package auth

import (
	"encoding/json"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"
)

// ErrUserNotFound is returned by stores when no account matches
var ErrUserNotFound = errors.New("user not found")

// UserStore persists accounts
type UserStore interface {
	UserByEmail(email string) (*User, error)
	UsernameTaken(username string) (bool, error)
	SaveUser(user *User) error
}

// BadgerUserStore keeps accounts in a badger database keyed by email, with a username index
type BadgerUserStore struct {
	db *badger.DB
}

// OpenIsolated creates a fresh in-memory store. Each test case gets its own and closes it afterwards.
func OpenIsolated() (*BadgerUserStore, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithMaxTableSize(1 << 20).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.WithMessage(err, "could not open isolated user store")
	}
	return &BadgerUserStore{db: db}, nil
}

func emailKey(email string) []byte {
	return []byte("user/email/" + email)
}

func usernameKey(username string) []byte {
	return []byte("user/name/" + username)
}

// UserByEmail loads an account by its exact email
func (s *BadgerUserStore) UserByEmail(email string) (*User, error) {
	var user User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey(email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load user %s", email)
	}
	return &user, nil
}

// UsernameTaken reports whether any account uses the username
func (s *BadgerUserStore) UsernameTaken(username string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(usernameKey(username))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to look up username %s", username)
	}
	return true, nil
}

// SaveUser inserts or replaces an account
func (s *BadgerUserStore) SaveUser(user *User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "failed to encode user")
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(emailKey(user.Email), data); err != nil {
			return err
		}
		return txn.Set(usernameKey(user.Username), []byte(user.Email))
	})
	return errors.Wrapf(err, "failed to save user %s", user.Email)
}

// Close releases the database
func (s *BadgerUserStore) Close() error {
	return s.db.Close()
}
