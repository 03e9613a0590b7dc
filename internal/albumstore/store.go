// Package albumstore persists the in-progress album between CLI invocations.
//
// The document is a single JSON file written atomically. A sibling lock file
// held with flock keeps two delivery processes from editing the same album.
package albumstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"delivery/internal/album"
	"delivery/internal/fileutil"
	"delivery/internal/logging"
)

// documentVersion is bumped when the on-disk layout changes incompatibly.
const documentVersion = 1

// ErrLocked reports that another process holds the album lock.
var ErrLocked = errors.New("album content is locked by another delivery process")

// Document is the on-disk representation of a session.
type Document struct {
	Version   int           `json:"version"`
	Catalog   string        `json:"catalog"`
	UpdatedAt time.Time     `json:"updated_at"`
	Content   album.Content `json:"content"`
}

// Store guards a single album document.
type Store struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
	now    func() time.Time
}

// Open acquires the lock for the document at path. The document itself is
// created lazily on the first Save.
func Open(path string, logger *slog.Logger) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("album content path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create content directory: %w", err)
	}

	lockPath := path + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
	}

	return &Store{
		path:   path,
		lock:   lock,
		logger: logging.NewComponentLogger(logger, "albumstore"),
		now:    time.Now,
	}, nil
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document. found is false when no document has been saved yet.
func (s *Store) Load() (doc Document, found bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, false, nil
		}
		return Document{}, false, fmt.Errorf("read content file: %w", err)
	}
	if len(data) == 0 {
		return Document{}, false, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, false, fmt.Errorf("parse content file: %w", err)
	}
	if doc.Version > documentVersion {
		return Document{}, false, fmt.Errorf("content file version %d is newer than supported version %d", doc.Version, documentVersion)
	}

	s.logger.Debug("loaded album content",
		logging.String("path", s.path),
		logging.Int("track_count", len(doc.Content.Tracks)))
	return doc, true, nil
}

// LoadSession resumes the saved session, or starts an empty one for catalog
// when nothing is saved. A non-empty catalog overrides the saved one.
func (s *Store) LoadSession(catalog string) (*album.Session, error) {
	doc, found, err := s.Load()
	if err != nil {
		return nil, err
	}
	if !found {
		return album.NewSession(catalog), nil
	}
	if strings.TrimSpace(catalog) == "" {
		catalog = doc.Catalog
	}
	return album.Resume(catalog, doc.Content), nil
}

// Save writes the session atomically.
func (s *Store) Save(session *album.Session) error {
	doc := Document{
		Version:   documentVersion,
		Catalog:   session.Catalog,
		UpdatedAt: s.now().UTC(),
		Content:   session.Content(),
	}
	if doc.Content.Tracks == nil {
		doc.Content.Tracks = []album.Track{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}

	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("save content: %w", err)
	}

	s.logger.Debug("saved album content",
		logging.String("path", s.path),
		logging.Int("track_count", len(doc.Content.Tracks)))
	return nil
}

// Clear removes the saved document.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove content file: %w", err)
	}
	return nil
}

// Close releases the lock.
func (s *Store) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
