package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"circa/internal/diag"
	"circa/internal/source"
)

// увеличивать при изменении формата Payload или текстов диагностик
const diskCacheSchemaVersion uint16 = 1

// Digest keys a cached check result.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskCache stores check results on disk, keyed by a digest of every input
// that can change them. Safe for concurrent use; a nil cache stores nothing.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is the cached outcome of one check: its diagnostics with spans
// expressed against rel paths.
type Payload struct {
	Schema      uint16
	Files       []string
	Diagnostics []CachedDiagnostic
}

type CachedDiagnostic struct {
	Code    uint16
	Message string
	Loc     CachedSpan
	Notes   []CachedNote
}

type CachedNote struct {
	Msg string
	Loc CachedSpan
}

type CachedSpan struct {
	File       string
	Start, End uint32
}

// OpenDiskCache opens (creating) the cache under $XDG_CACHE_HOME/app or
// ~/.cache/app.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "checks", key.String()+".mp")
}

// Put writes payload under key, replacing any previous entry atomically.
func (c *DiskCache) Put(key Digest, payload *Payload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads the entry for key. A missing entry or one written by another
// schema version is a miss, not an error.
func (c *DiskCache) Get(key Digest) (*Payload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "checks"))
}

// cacheKey hashes the trusted root and every (rel path, content hash) pair in
// rel order.
func cacheKey(root string, files []sourceFile, fs *source.FileSet, ids []source.FileID) Digest {
	h := sha256.New()
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], diskCacheSchemaVersion)
	h.Write(buf[:])
	writeString := func(s string) {
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	writeString(root)
	for i, f := range files {
		writeString(f.rel)
		sum := fs.Get(ids[i]).Hash
		h.Write(sum[:])
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// toPayload converts diagnostics to their cached form. rels maps file ids to
// rel paths.
func toPayload(items []diag.Diagnostic, rels map[source.FileID]string, files []sourceFile) *Payload {
	p := &Payload{Schema: diskCacheSchemaVersion, Diagnostics: make([]CachedDiagnostic, 0, len(items))}
	for _, f := range files {
		p.Files = append(p.Files, f.rel)
	}
	span := func(sp source.Span) CachedSpan {
		return CachedSpan{File: rels[sp.File], Start: sp.Start, End: sp.End}
	}
	for _, d := range items {
		cd := CachedDiagnostic{Code: uint16(d.Code), Message: d.Message, Loc: span(d.Primary)}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Msg: n.Msg, Loc: span(n.Span)})
		}
		p.Diagnostics = append(p.Diagnostics, cd)
	}
	return p
}

// restore re-adds cached diagnostics to bag. ok is false when a span names a
// file that is no longer loaded.
func (p *Payload) restore(bag *diag.Bag, ids map[string]source.FileID) bool {
	out := make([]diag.Diagnostic, 0, len(p.Diagnostics))
	for _, cd := range p.Diagnostics {
		primary, ok := cd.Loc.span(ids)
		if !ok {
			return false
		}
		d := diag.Diagnostic{Severity: diag.SevError, Code: diag.Code(cd.Code), Message: cd.Message, Primary: primary}
		for _, n := range cd.Notes {
			sp, ok := n.Loc.span(ids)
			if !ok {
				return false
			}
			d.Notes = append(d.Notes, diag.Note{Span: sp, Msg: n.Msg})
		}
		out = append(out, d)
	}
	for _, d := range out {
		bag.Add(d)
	}
	return true
}

func (s CachedSpan) span(ids map[string]source.FileID) (source.Span, bool) {
	id, ok := ids[s.File]
	return source.Span{File: id, Start: s.Start, End: s.End}, ok
}
