// Package store implements the durable, process-wide state of the bot as a
// single JSON document with serialized read-modify-write mutations.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/edgard/gifbot/internal/model"
)

// Store owns the state document. All mutation goes through Mutate, which
// serializes writers and persists the document in full before a mutation
// becomes observable. Reads see a consistent snapshot via defensive copies.
type Store struct {
	mu       sync.RWMutex
	path     string
	fileLock *flock.Flock
	logger   *slog.Logger
	state    *State
}

// Open loads the state document at path and returns a ready Store.
// A missing or empty file is treated as empty initial state. A file that
// exists but cannot be parsed is fatal: Open returns a CorruptStateError
// rather than silently discarding unreadable state.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{
		path:     path,
		fileLock: flock.New(path + ".lock"),
		logger:   logger.With("component", "store"),
	}

	st, err := loadState(path)
	if err != nil {
		return nil, err
	}
	s.state = st

	s.logger.Info("State document loaded",
		"path", path,
		"users", len(st.Users),
		"groups", len(st.Groups),
		"scheduled_posts", len(st.ScheduledPosts))
	return s, nil
}

func loadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newState(), nil
		}
		return nil, &model.CorruptStateError{Path: path, Err: err}
	}
	if len(data) == 0 {
		return newState(), nil
	}

	st := &State{}
	if err := json.Unmarshal(data, st); err != nil {
		return nil, &model.CorruptStateError{Path: path, Err: err}
	}
	st.normalize()
	return st, nil
}

// User returns a copy of the profile for id, defaulting to an empty profile
// when the user has never interacted. Never fails.
func (s *Store) User(id int64) model.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.state.Users[id]; ok {
		return cloneUser(u)
	}
	return model.UserProfile{UserID: id}
}

// Group returns a copy of the settings for chatID, defaulting on first
// access. Never fails. The default record is only written to the document
// once a mutation touches the chat; a default-valued record is
// observationally identical to an absent one.
func (s *Store) Group(chatID int64) model.GroupSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if g, ok := s.state.Groups[chatID]; ok {
		return *g
	}
	return model.DefaultGroupSettings(chatID)
}

// ScheduledPosts returns a copy of every recorded post, in document order.
func (s *Store) ScheduledPosts() []model.ScheduledPost {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ScheduledPost, len(s.state.ScheduledPosts))
	copy(out, s.state.ScheduledPosts)
	return out
}

// Mutate applies fn atomically against a snapshot of the document and
// persists the result before returning. Concurrent mutations are serialized;
// one always fully precedes the next. If fn returns an error nothing
// changes. If the durable write fails, the in-memory state is left at its
// pre-mutation value and a PersistenceError is returned, so no partial
// mutation is ever observable.
func (s *Store) Mutate(fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(snapshot); err != nil {
		return err
	}

	if err := s.persist(snapshot); err != nil {
		s.logger.Error("Durable write failed, mutation rolled back", "path", s.path, "error", err)
		return &model.PersistenceError{Op: "save state document", Err: err}
	}

	s.state = snapshot
	return nil
}

// persist writes the document in full: marshal, write to a temp file in the
// same directory, then rename over the target. The rename keeps readers of
// the file from ever seeing a partially-written document. A file lock guards
// against a second process clobbering the same path.
func (s *Store) persist(st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := s.fileLock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire file lock: %w", err)
	}
	defer func() {
		if unlockErr := s.fileLock.Unlock(); unlockErr != nil {
			s.logger.Warn("Failed to release file lock", "error", unlockErr)
		}
	}()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state document: %w", err)
	}

	s.logger.Debug("State document persisted", "path", s.path, "bytes", len(data))
	return nil
}
