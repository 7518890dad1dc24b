package tracing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const sessionFilePrefix = "session_"

// LocalTracer buffers events and writes them as JSON files under the configured directory
type LocalTracer struct {
	config      Config
	session     SessionInfo
	buffer      []Event
	bufferMutex sync.Mutex
	flushes     int
	now         func() time.Time
}

// NewLocalTracer creates a new local file tracer with the given configuration
func NewLocalTracer(config Config, version string) (*LocalTracer, error) {
	if config.Dir == "" {
		return nil, errors.New("traces directory is not set")
	}
	if err := os.MkdirAll(config.Dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create traces directory %s", config.Dir)
	}
	if config.MaxBufferSize <= 0 {
		config.MaxBufferSize = DefaultMaxBufferSize
	}

	return &LocalTracer{
		config: config,
		session: SessionInfo{
			ID:        generateSessionID(),
			StartTime: time.Now(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			Version:   version,
		},
		buffer: make([]Event, 0, config.MaxBufferSize),
		now:    time.Now,
	}, nil
}

// SessionID identifies this tracer's files
func (l *LocalTracer) SessionID() string {
	return l.session.ID
}

// TrackEvent records a structured event
func (l *LocalTracer) TrackEvent(event Event) error {
	if err := event.Validate(); err != nil {
		return errors.Wrap(err, "invalid event")
	}
	sanitized := event.Sanitize()

	l.bufferMutex.Lock()
	defer l.bufferMutex.Unlock()

	l.buffer = append(l.buffer, sanitized)
	if len(l.buffer) >= l.config.MaxBufferSize {
		return l.flushUnsafe()
	}
	return nil
}

// Flush ensures all pending events are persisted
func (l *LocalTracer) Flush() error {
	l.bufferMutex.Lock()
	defer l.bufferMutex.Unlock()
	return l.flushUnsafe()
}

// Close flushes and removes the oldest session files beyond the limit
func (l *LocalTracer) Close() error {
	if err := l.Flush(); err != nil {
		return errors.WithMessage(err, "failed to flush during close")
	}
	return l.pruneSessions()
}

// flushUnsafe writes the buffer to disk. The caller holds the mutex.
func (l *LocalTracer) flushUnsafe() error {
	if len(l.buffer) == 0 {
		return nil
	}

	now := l.now()
	session := l.session
	session.EndTime = now
	batch := EventBatch{Session: session, Events: make([]Event, len(l.buffer))}
	copy(batch.Events, l.buffer)

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal events")
	}

	l.flushes++
	name := fmt.Sprintf("%s%s_%d_%d.json", sessionFilePrefix, l.session.ID, now.Unix(), l.flushes)
	path := filepath.Join(l.config.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write events to %s", path)
	}

	l.buffer = l.buffer[:0]
	return nil
}

// pruneSessions keeps the newest MaxSessions files
func (l *LocalTracer) pruneSessions() error {
	if l.config.MaxSessions <= 0 {
		return nil
	}
	files, err := SessionFiles(l.config.Dir)
	if err != nil {
		return err
	}
	for len(files) > l.config.MaxSessions {
		if err := os.Remove(files[0]); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "failed to prune session file")
		}
		files = files[1:]
	}
	return nil
}

// SessionFiles lists journal files in dir, oldest first
func SessionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read traces directory")
	}

	type sessionFile struct {
		path    string
		modTime time.Time
	}
	var files []sessionFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, sessionFilePrefix) || filepath.Ext(name) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, sessionFile{path: filepath.Join(dir, name), modTime: info.ModTime()})
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].path < files[j].path
		}
		return files[i].modTime.Before(files[j].modTime)
	})

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

func generateSessionID() string {
	return uuid.New().String()
}
