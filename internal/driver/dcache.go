package driver

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"tagml/internal/diag"
	"tagml/internal/source"
)

// Current schema version - increment when Summary format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит итоги проверки документов на диске, по ключу Key.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Summary is what the cache keeps about one validated document: enough to
// report it again without re-parsing, but no tokens.
type Summary struct {
	Schema   uint16
	Path     string
	Hash     [32]byte // content hash, для проверки коллизий ключа
	OK       bool
	Stopped  bool
	Errors   []CachedDiagnostic
	Warnings []CachedDiagnostic
}

// CachedDiagnostic is a diagnostic with its range already resolved.
type CachedDiagnostic struct {
	Severity  uint8
	Kind      uint8
	Code      uint16
	Message   string
	Start     uint32
	End       uint32
	Ranged    bool
	StartLine uint32
	StartChar uint32
	EndLine   uint32
	EndChar   uint32
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/<app>, falling back to
// ~/.cache/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "locate cache directory")
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create cache directory %s", dir)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// "docs/ab/abcdef....mp", чтобы не класть всё в один каталог
	return filepath.Join(c.dir, "docs", hexKey[:2], hexKey+".mp")
}

// Put serializes s and atomically replaces the entry for key.
func (c *DiskCache) Put(key Digest, s *Summary) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(err, "create cache entry directory")
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return errors.Wrap(err, "create cache temp file")
	}
	tmp := f.Name()
	defer func() {
		// после успешного Rename файла уже нет
		_ = os.Remove(tmp)
	}()

	if err := msgpack.NewEncoder(f).Encode(s); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "encode cache entry")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close cache temp file")
	}
	// Атомарная замена
	return errors.Wrap(os.Rename(tmp, p), "commit cache entry")
}

// Get loads the entry for key. A missing entry or one written with another
// schema is a miss, not an error.
func (c *DiskCache) Get(key Digest) (*Summary, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	// #nosec G304 -- path is derived from a digest
	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "open cache entry")
	}
	defer f.Close()

	var s Summary
	if err := msgpack.NewDecoder(f).Decode(&s); err != nil {
		return nil, false, errors.Wrap(err, "decode cache entry")
	}
	if s.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}
	return &s, true, nil
}

// DropAll invalidates the whole cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименовываем, чтобы параллельный процесс не читал полуудалённый каталог
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "drop cache")
	}
	if err := os.RemoveAll(old); err != nil {
		return errors.Wrap(err, "drop cache")
	}
	return errors.Wrap(os.MkdirAll(c.dir, 0o755), "recreate cache directory")
}

func toCached(list []diag.Diagnostic) []CachedDiagnostic {
	out := make([]CachedDiagnostic, len(list))
	for i, d := range list {
		out[i] = CachedDiagnostic{
			Severity:  uint8(d.Severity),
			Kind:      uint8(d.Kind),
			Code:      uint16(d.Code),
			Message:   d.Message,
			Start:     d.Span.Start,
			End:       d.Span.End,
			Ranged:    d.Ranged,
			StartLine: d.Range.Start.Line,
			StartChar: d.Range.Start.Character,
			EndLine:   d.Range.End.Line,
			EndChar:   d.Range.End.Character,
		}
	}
	return out
}

func fromCached(file source.FileID, list []CachedDiagnostic) []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(list))
	for i, c := range list {
		out[i] = diag.Diagnostic{
			Severity: diag.Severity(c.Severity),
			Kind:     diag.Kind(c.Kind),
			Code:     diag.Code(c.Code),
			Message:  c.Message,
			Span:     source.Span{File: file, Start: c.Start, End: c.End},
			Range:    source.NewRange(c.StartLine, c.StartChar, c.EndLine, c.EndChar),
			Ranged:   c.Ranged,
		}
	}
	return out
}

// summarize turns a fresh result into a cache entry.
func summarize(res *Result) *Summary {
	return &Summary{
		Schema:   diskCacheSchemaVersion,
		Path:     res.File.Path,
		Hash:     res.File.Hash,
		OK:       res.OK(),
		Stopped:  res.Stopped,
		Errors:   toCached(res.Errors),
		Warnings: toCached(res.Warnings),
	}
}

// restore rebuilds a token-less result for file from a cache entry.
func restore(file *source.File, s *Summary) *Result {
	return &Result{
		File:     file,
		Errors:   fromCached(file.ID, s.Errors),
		Warnings: fromCached(file.ID, s.Warnings),
		Stopped:  s.Stopped,
		Cached:   true,
	}
}
