package testreport

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ErrNoReport is returned by LoadLatest when nothing has been saved yet
var ErrNoReport = errors.New("no report has been saved yet")

// Store persists the latest report. Only one report is retained at a time.
type Store interface {
	// Save overwrites the stored report. A failure here is fatal to the run that produced it.
	Save(report *Report) error

	// LoadLatest returns the most recently saved report, or ErrNoReport.
	LoadLatest() (*Report, error)
}

// FileStore keeps the latest report as a JSON document at a fixed path
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the destination file
func (s *FileStore) Path() string {
	return s.path
}

// Save creates the parent directory if needed and overwrites the file
func (s *FileStore) Save(report *Report) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create report directory for %s", s.path)
	}

	data, err := marshal(report)
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write report to %s", s.path)
	}
	return nil
}

// LoadLatest reads the file back
func (s *FileStore) LoadLatest() (*Report, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoReport
		}
		return nil, errors.Wrapf(err, "failed to read report from %s", s.path)
	}
	return Decode(bytes.NewReader(data))
}
