package filestore

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crucial707/fileserve/internal/models"
	"github.com/google/uuid"
)

const tmpPrefix = ".tmp-"

var (
	// ErrNotFound is returned when the named file does not exist in the store.
	ErrNotFound = errors.New("file not found")
	// ErrExists is returned when saving would overwrite an existing file.
	ErrExists = errors.New("file already exists")
	// ErrBadName is returned when a filename is empty after sanitization or
	// would resolve outside the store root.
	ErrBadName = errors.New("invalid filename")
	// ErrExtNotAllowed is returned when the file extension is outside the allow-list.
	ErrExtNotAllowed = errors.New("file extension not allowed")
	// ErrTooLarge is returned when an upload exceeds the configured ceiling.
	ErrTooLarge = errors.New("file exceeds size limit")
)

// Store is a flat local-directory file store. Uploads land as uuid-named
// temp files and are renamed into place only after the full copy succeeds,
// so a failed or oversize upload never leaves a partial file behind.
type Store struct {
	root     string
	maxBytes int64
	allowed  map[string]bool
}

// New creates the root directory if needed and returns a Store.
// allowedExts entries are lowercase extensions with a leading dot.
func New(root string, maxBytes int64, allowedExts []string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, err
	}
	allowed := make(map[string]bool, len(allowedExts))
	for _, e := range allowedExts {
		allowed[strings.ToLower(e)] = true
	}
	return &Store{root: abs, maxBytes: maxBytes, allowed: allowed}, nil
}

// Sanitize strips path separators, null bytes, and leading/trailing dots
// and spaces from a client-supplied filename.
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "\x00", "")
	name = strings.Trim(name, " .")
	return name
}

// resolve maps a client-supplied name to a path inside the store root.
// The store is flat: anything that is not a plain filename under root is rejected.
func (s *Store) resolve(name string) (string, error) {
	name = Sanitize(name)
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, tmpPrefix) {
		return "", ErrBadName
	}
	p := filepath.Clean(filepath.Join(s.root, name))
	if filepath.Dir(p) != s.root {
		return "", ErrBadName
	}
	return p, nil
}

// Save validates name and streams r into the store. The copy goes to a temp
// file first; on any failure the temp file is removed. Returns the stored
// file's info.
func (s *Store) Save(r io.Reader, name string) (models.FileInfo, error) {
	path, err := s.resolve(name)
	if err != nil {
		return models.FileInfo{}, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" || !s.allowed[ext] {
		return models.FileInfo{}, ErrExtNotAllowed
	}

	if _, err := os.Lstat(path); err == nil {
		return models.FileInfo{}, ErrExists
	} else if !os.IsNotExist(err) {
		return models.FileInfo{}, err
	}

	tmp := filepath.Join(s.root, tmpPrefix+uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return models.FileInfo{}, err
	}

	// Read one byte past the ceiling so an exactly-at-limit file passes
	// and an over-limit one is detected without reading the whole stream.
	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err == nil && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return models.FileInfo{}, err
	}

	// Publish with a hard link rather than a rename: link fails if the name
	// appeared since the Lstat check, so a concurrent upload of the same
	// name cannot silently overwrite the winner.
	if err := os.Link(tmp, path); err != nil {
		os.Remove(tmp)
		if os.IsExist(err) {
			return models.FileInfo{}, ErrExists
		}
		return models.FileInfo{}, err
	}
	os.Remove(tmp)

	st, err := os.Stat(path)
	if err != nil {
		return models.FileInfo{}, err
	}
	return models.FileInfo{Name: filepath.Base(path), Size: st.Size(), Modified: st.ModTime()}, nil
}

// List returns info for every stored file, sorted by the directory order of
// os.ReadDir (lexical). Temp files and subdirectories are skipped.
func (s *Store) List() ([]models.FileInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}

	var out []models.FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), tmpPrefix) {
			continue
		}
		st, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, models.FileInfo{Name: e.Name(), Size: st.Size(), Modified: st.ModTime()})
	}
	return out, nil
}

// Open opens a stored file for reading along with its info.
// The caller must close the returned file.
func (s *Store) Open(name string) (*os.File, models.FileInfo, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, models.FileInfo{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.FileInfo{}, ErrNotFound
		}
		return nil, models.FileInfo{}, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, models.FileInfo{}, err
	}
	if st.IsDir() {
		f.Close()
		return nil, models.FileInfo{}, ErrNotFound
	}

	return f, models.FileInfo{Name: filepath.Base(path), Size: st.Size(), Modified: st.ModTime()}, nil
}

// Delete removes a stored file.
func (s *Store) Delete(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// SweepTemp removes temp files older than olderThan. Interrupted uploads
// leave these behind; the janitor calls this on a schedule. Returns the
// number of files removed.
func (s *Store) SweepTemp(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), tmpPrefix) {
			continue
		}
		st, err := e.Info()
		if err != nil {
			continue
		}
		if st.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.root, e.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
