// Package shard implements the directory-rooted accessor that lazily
// opens and caches the term and doc-id views for each field of one
// shard. It is the D component of the FTGS pipeline: everything else
// (term iterators, the splitter, the merger) is constructed from the
// views a Handle hands out.
package shard

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fenilsonani/ftgs/internal/mmapfile"
)

// fieldViews holds the lazily opened term-index and doc-id-stream
// mappings for one field.
type fieldViews struct {
	term *mmapfile.Handle
	doc  *mmapfile.Handle
}

// Handle is a directory-rooted, concurrency-safe accessor for one
// shard's fields. Every view lookup, cached or not, takes fieldsMu;
// the first opener of a field maps its files while holding it, so
// concurrent callers wait for that open to finish.
type Handle struct {
	dir  string
	name string

	fieldsMu sync.Mutex
	fields   map[string]*fieldViews
}

// Open returns a handle rooted at dir. It does not itself open any
// field; views are opened lazily on first use.
func Open(dir string) *Handle {
	return &Handle{
		dir:    dir,
		name:   filepath.Base(filepath.Clean(dir)),
		fields: make(map[string]*fieldViews),
	}
}

// Name returns the canonical shard name, the final path component of
// the shard's directory.
func (h *Handle) Name() string { return h.name }

func (h *Handle) termIndexPath(field string) string {
	return filepath.Join(h.dir, field+".terms")
}

func (h *Handle) docIDStreamPath(field string) string {
	return filepath.Join(h.dir, field+".docs")
}

func (h *Handle) open(field string) (*fieldViews, error) {
	h.fieldsMu.Lock()
	defer h.fieldsMu.Unlock()

	if fv, ok := h.fields[field]; ok {
		return fv, nil
	}

	term, err := mmapfile.Open(h.termIndexPath(field))
	if err != nil {
		return nil, fmt.Errorf("shard: open term index for field %q: %w", field, err)
	}
	doc, err := mmapfile.Open(h.docIDStreamPath(field))
	if err != nil {
		term.Release()
		return nil, fmt.Errorf("shard: open doc-id stream for field %q: %w", field, err)
	}

	fv := &fieldViews{term: term, doc: doc}
	h.fields[field] = fv
	return fv, nil
}

// TermView returns the memory-mapped varint view for field's term
// index, opening it on first use.
func (h *Handle) TermView(field string) (*mmapfile.Handle, error) {
	fv, err := h.open(field)
	if err != nil {
		return nil, err
	}
	return fv.term, nil
}

// DocView returns the memory-mapped varint view for field's doc-id
// stream, opening it on first use.
func (h *Handle) DocView(field string) (*mmapfile.Handle, error) {
	fv, err := h.open(field)
	if err != nil {
		return nil, err
	}
	return fv.doc, nil
}

// Fingerprint returns an xxhash digest of field's term index bytes,
// cheap enough to recompute on every call and useful for an
// inspection tool to confirm two shards' views of a field agree
// without a byte-for-byte diff.
func (h *Handle) Fingerprint(field string) (uint64, error) {
	fv, err := h.open(field)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(fv.term.Bytes()), nil
}

// SplitFilename returns the deterministic path for split k of
// (shard, field). Per field gets its own subdirectory of outputDir so
// that the file's own basename still matches the external convention
// of spec §6, "{shard_name}.{bucket_index}".
func (h *Handle) SplitFilename(outputDir, field string, k int) string {
	return SplitFilename(outputDir, h.name, field, k)
}

// SplitFilename is the free-function form, usable by the merge side
// which only knows the shard name (not a live Handle).
func SplitFilename(outputDir, shardName, field string, k int) string {
	return filepath.Join(outputDir, field, fmt.Sprintf("%s.%d", shardName, k))
}

// Close releases every cached view. The handle must not be used
// afterward.
func (h *Handle) Close() error {
	h.fieldsMu.Lock()
	defer h.fieldsMu.Unlock()

	var firstErr error
	for _, fv := range h.fields {
		if err := fv.term.Release(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := fv.doc.Release(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	h.fields = nil
	return firstErr
}
