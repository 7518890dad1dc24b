package testreport

import (
	"bytes"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"
)

var latestKey = []byte("report/latest")

// BadgerStore keeps the latest report under a single key of an embedded badger database
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) the database in dir. An empty dir keeps everything in memory.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dir).WithTruncate(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.WithMessage(err, "could not open report database")
	}
	return &BadgerStore{db: db}, nil
}

// Save replaces the stored report
func (s *BadgerStore) Save(report *Report) error {
	data, err := marshal(report)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(latestKey, data)
	})
	return errors.Wrap(err, "failed to store report")
}

// LoadLatest returns the stored report or ErrNoReport
func (s *BadgerStore) LoadLatest() (*Report, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(latestKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNoReport
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load report")
	}
	return Decode(bytes.NewReader(data))
}

// Close releases the database
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
