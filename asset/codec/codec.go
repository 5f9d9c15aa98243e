// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package codec reads and writes the binary intermediate files that
// sit between source assets and GPU resources.
//
// Every intermediate is framed as [hash:u64][body], little-endian,
// where the hash is xxHash64 (seed 0) over exactly the body bytes.
// The codec returns both the stored and the computed hashes; it never
// decides mismatch policy, which belongs to the loader.
package codec

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/embergfx/ember/asset"
	"github.com/embergfx/ember/internal/fsutil"
)

const prefix = "codec: "

// Body is the deserialized payload of an intermediate file.
// It is a closed set: TextureBody, MeshBody and ShaderBody.
type Body interface {
	encode(w *writer)
	decode(r *reader) error
}

// Marshal serializes body and returns the framed bytes along with
// the content hash stored in the frame's leading 8 bytes.
func Marshal(body Body) (frame []byte, hash uint64) {
	var w writer
	w.buf = make([]byte, 8)
	body.encode(&w)
	hash = xxhash.Sum64(w.buf[8:])
	binary.LittleEndian.PutUint64(w.buf[:8], hash)
	return w.buf, hash
}

// Unmarshal parses a framed intermediate into body.
// It returns both the hash stored in the frame and the hash computed
// over the body bytes; the caller compares them against the expected
// hash from metadata. Mismatch policy belongs to the caller.
func Unmarshal(frame []byte, body Body) (stored, computed uint64, err error) {
	if len(frame) < 8 {
		return 0, 0, fmt.Errorf("%sshort frame: %w", prefix, asset.ErrCorrupt)
	}
	stored = binary.LittleEndian.Uint64(frame)
	computed = xxhash.Sum64(frame[8:])
	r := reader{buf: frame[8:]}
	if err = body.decode(&r); err != nil {
		return
	}
	if len(r.buf) != r.off {
		err = fmt.Errorf("%s%d trailing bytes: %w", prefix, len(r.buf)-r.off, asset.ErrCorrupt)
	}
	return
}

// WriteFile serializes body and writes the framed intermediate to
// path via temp file and rename. It returns the content hash for the
// caller to record in metadata.
func WriteFile(path string, body Body) (hash uint64, err error) {
	frame, hash := Marshal(body)
	if err = fsutil.WriteFileAtomic(path, frame); err != nil {
		return 0, fmt.Errorf("%s%s: %w", prefix, path, err)
	}
	return hash, nil
}

// ReadFile parses the intermediate at path into body and returns the
// stored and computed hashes.
func ReadFile(path string, body Body) (stored, computed uint64, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, fmt.Errorf("%s%s: %w", prefix, path, asset.ErrNotFound)
		}
		return 0, 0, fmt.Errorf("%s%s: %w", prefix, path, err)
	}
	return Unmarshal(data, body)
}

// PeekHash reads the stored hash from the leading 8 bytes of the
// intermediate at path without parsing the body.
// Missing or empty files yield asset.ErrNotFound; short files yield
// asset.ErrCorrupt.
func PeekHash(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", prefix, path, asset.ErrNotFound)
	}
	defer f.Close()
	var b [8]byte
	n, _ := io.ReadFull(f, b[:])
	switch {
	case n == 0:
		return 0, fmt.Errorf("%s%s: empty: %w", prefix, path, asset.ErrNotFound)
	case n < 8:
		return 0, fmt.Errorf("%s%s: short header: %w", prefix, path, asset.ErrCorrupt)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// writer appends little-endian primitives to a buffer.
type writer struct {
	buf []byte
}

func (w *writer) u32(v uint32)  { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *writer) u64(v uint64)  { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }
func (w *writer) f32(v float32) { w.u32(math.Float32bits(v)) }
func (w *writer) bytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// reader consumes little-endian primitives from a buffer.
// Every method fails with asset.ErrCorrupt on underrun.
type reader struct {
	buf []byte
	off int
}

func (r *reader) need(n int) error {
	if r.off+n > len(r.buf) {
		return fmt.Errorf("%struncated body: %w", prefix, asset.ErrCorrupt)
	}
	return nil
}

func (r *reader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) f32() (float32, error) {
	v, err := r.u32()
	return math.Float32frombits(v), err
}

func (r *reader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return b, nil
}

// count reads a u32 element count and checks that at least
// count*elemSize bytes remain, so corrupt counts fail before any
// large allocation.
func (r *reader) count(elemSize int) (int, error) {
	v, err := r.u32()
	if err != nil {
		return 0, err
	}
	n := int(v)
	if n < 0 || elemSize > 0 && r.off+n*elemSize > len(r.buf) {
		return 0, fmt.Errorf("%sbad element count %d: %w", prefix, n, asset.ErrCorrupt)
	}
	return n, nil
}
