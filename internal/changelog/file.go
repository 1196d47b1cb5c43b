package changelog

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/simonfrey/jsonl"
)

// FileBackend stores entries as JSON Lines in a single file.
type FileBackend struct {
	path string
	mu   sync.Mutex
}

// NewFileBackend returns a backend writing to path. The file and its
// directory are created on first append.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the default change log location inside a data directory.
func Path(dir string) string {
	return filepath.Join(dir, "changes.jsonl")
}

// Append writes e as one line at the end of the file.
func (b *FileBackend) Append(e Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	if err := terminateLastLine(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := jsonl.NewWriter(f).Write(e); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// terminateLastLine ends a torn final line so the next entry starts on a
// line of its own.
func terminateLastLine(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err = f.Write([]byte{'\n'})
	return err
}

// Load reads all entries in file order. Lines that do not parse are skipped
// so a torn write does not hide the rest of the history.
func (b *FileBackend) Load() ([]Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := os.Open(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	err = jsonl.NewReader(f).ReadLines(func(line []byte) error {
		var e Entry
		if len(line) == 0 || json.Unmarshal(line, &e) != nil || e.ID == "" {
			return nil
		}
		entries = append(entries, e)
		return nil
	})
	return entries, err
}
