package split

import (
	"fmt"
	"os"

	"github.com/fenilsonani/ftgs/internal/mmapfile"
	"github.com/fenilsonani/ftgs/internal/term"
	"github.com/fenilsonani/ftgs/internal/varint"
	"github.com/klauspost/compress/zstd"
)

// Reader streams split records back out of one bucket file written by
// a Splitter, in the order they were appended.
type Reader struct {
	h       *mmapfile.Handle
	v       *varint.View
	kind    term.Kind
	tmpPath string
}

// OpenReader mmaps path and prepares it for sequential decode. If path
// itself is absent but a ".zst" sibling exists (Splitter.CompressOutputs
// archived it), the sibling is decompressed to a temporary file that is
// mmapped instead and removed on Close, so a caller never has to know
// whether a given bucket was archived.
func OpenReader(path string, kind term.Kind) (*Reader, error) {
	openPath := path
	var tmpPath string
	if _, err := os.Stat(path); err != nil {
		if _, zerr := os.Stat(path + ".zst"); zerr == nil {
			tmp, derr := decompressToTemp(path + ".zst")
			if derr != nil {
				return nil, fmt.Errorf("split: decompress archived bucket %s: %w", path, derr)
			}
			openPath = tmp
			tmpPath = tmp
		}
	}

	h, err := mmapfile.Open(openPath)
	if err != nil {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
		return nil, fmt.Errorf("split: open reader %s: %w", path, err)
	}
	return &Reader{h: h, v: varint.NewView(h.Bytes()), kind: kind, tmpPath: tmpPath}, nil
}

func decompressToTemp(zstPath string) (string, error) {
	compressed, err := os.ReadFile(zstPath)
	if err != nil {
		return "", err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return "", fmt.Errorf("new zstd decoder: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	f, err := os.CreateTemp("", "ftgs-split-*.raw")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(raw); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp: %w", err)
	}
	return f.Name(), nil
}

// Next decodes the next record, or reports ok=false at end of stream.
func (r *Reader) Next() (term.Record, bool, error) {
	switch r.kind {
	case term.KindInt:
		return DecodeInt(r.v)
	case term.KindString:
		return DecodeString(r.v)
	default:
		return term.Record{}, false, fmt.Errorf("split: reader: unknown kind %v", r.kind)
	}
}

// Close releases the underlying mmap handle, removing the temporary
// decompressed copy if one was created.
func (r *Reader) Close() error {
	err := r.h.Release()
	if r.tmpPath != "" {
		os.Remove(r.tmpPath)
	}
	return err
}
