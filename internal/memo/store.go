// Package memo implements the on-disk and in-memory representation of
// the three difference-distribution memo tables (key-mix, add, maj)
// used by the backtracking propagator. The binary format is described
// by spec section 4.C/6.3: one file per primitive, records of
// {inputs..., len byte, entries...}, where each entry is itself a
// {out byte, logp int8} pair, read greedily until a truncated record
// is found.
package memo

import (
	"bufio"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/mitchgrout/maw32trail/internal/diffs"
)

// ErrTruncated is returned (wrapped) by ReadKeyFile, ReadAddFile and
// ReadMajFile when the file ends in
// the middle of a record. Whatever records were read successfully are
// still returned; this is a non-fatal condition per the error taxonomy.
var ErrTruncated = errors.New("memo: file truncated mid-record")

// keyKey packs a key-mix memo lookup key: (dx, round).
type keyKey struct {
	dx    byte
	round byte
}

// addKey packs an add memo lookup key: (dx, dy).
type addKey struct {
	dx, dy byte
}

// majKey packs a maj memo lookup key: (dx, dy, dz).
type majKey struct {
	dx, dy, dz byte
}

// Store holds the three memo tables in memory, keyed for O(1) average
// lookup. Create one with New: a zero Store has nil maps, and Put* or
// loading into it panics. Entries are populated by ReadKeyFile,
// ReadAddFile, ReadMajFile or by Put* during on-the-fly augmentation.
// All methods are safe to call
// concurrently: a search with several workers commonly shares one
// Store so a sample learned by one worker is immediately visible to
// the rest.
type Store struct {
	mu  sync.RWMutex
	key map[keyKey][]diffs.Entry
	add map[addKey][]diffs.Entry
	maj map[majKey][]diffs.Entry
}

// New returns an empty Store ready for loading or population.
func New() *Store {
	return &Store{
		key: make(map[keyKey][]diffs.Entry),
		add: make(map[addKey][]diffs.Entry),
		maj: make(map[majKey][]diffs.Entry),
	}
}

// Keymix looks up the memoized entries for a key-mix step at the given
// round. The second return value is false if no entry exists.
func (s *Store) Keymix(dx byte, round int) ([]diffs.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.key[keyKey{dx, byte(round)}]
	return v, ok
}

// Add looks up the memoized entries for an addition step.
func (s *Store) Add(dx, dy byte) ([]diffs.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.add[addKey{dx, dy}]
	return v, ok
}

// Maj looks up the memoized entries for a majority step.
func (s *Store) Maj(dx, dy, dz byte) ([]diffs.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.maj[majKey{dx, dy, dz}]
	return v, ok
}

// PutKeymix inserts (or replaces) a key-mix entry.
func (s *Store) PutKeymix(dx byte, round int, entries []diffs.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key[keyKey{dx, byte(round)}] = entries
}

// PutAdd inserts (or replaces) an add entry.
func (s *Store) PutAdd(dx, dy byte, entries []diffs.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add[addKey{dx, dy}] = entries
}

// PutMaj inserts (or replaces) a maj entry.
func (s *Store) PutMaj(dx, dy, dz byte, entries []diffs.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maj[majKey{dx, dy, dz}] = entries
}

// KeymixLen, AddLen, MajLen report how many records are currently loaded,
// for logging/diagnostics at startup.
func (s *Store) KeymixLen() int { s.mu.RLock(); defer s.mu.RUnlock(); return len(s.key) }
func (s *Store) AddLen() int    { s.mu.RLock(); defer s.mu.RUnlock(); return len(s.add) }
func (s *Store) MajLen() int    { s.mu.RLock(); defer s.mu.RUnlock(); return len(s.maj) }

// primitive identifies which memo table a file holds, and therefore how
// many input-key bytes precede the {len, entries} suffix of each record.
type primitive int

const (
	primitiveKey primitive = iota
	primitiveAdd
	primitiveMaj
)

func (p primitive) keyBytes() int {
	switch p {
	case primitiveKey:
		return 2
	case primitiveAdd:
		return 2
	case primitiveMaj:
		return 3
	}
	return 0
}

// ReadKeyFile reads a key-file-<p>.bin into the store. Missing files are
// reported as an *os.PathError the caller can treat as non-fatal.
func (s *Store) ReadKeyFile(path string) error {
	return s.readFile(path, primitiveKey)
}

// ReadAddFile reads an add-file-<p>.bin into the store.
func (s *Store) ReadAddFile(path string) error {
	return s.readFile(path, primitiveAdd)
}

// ReadMajFile reads a maj-file-<p>.bin into the store.
func (s *Store) ReadMajFile(path string) error {
	return s.readFile(path, primitiveMaj)
}

func (s *Store) readFile(path string, p primitive) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.readFrom(bufio.NewReader(f), p)
}

// readFrom parses records greedily: on any short read (including at a
// record boundary, which is the clean EOF case) it stops and returns
// whatever was parsed, wrapping ErrTruncated only when the stream ended
// partway through a record rather than cleanly between records.
func (s *Store) readFrom(r io.Reader, p primitive) error {
	keyBytes := p.keyBytes()
	header := make([]byte, keyBytes+1) // input bytes + len byte
	for {
		n, err := io.ReadFull(r, header)
		if err == io.EOF && n == 0 {
			return nil // clean end between records
		}
		if err != nil {
			return errors.Wrap(ErrTruncated, err.Error())
		}

		count := int(header[keyBytes])
		payload := make([]byte, count*2) // each entry is a {out, logp} pair
		if count > 0 {
			if _, err := io.ReadFull(r, payload); err != nil {
				return errors.Wrap(ErrTruncated, err.Error())
			}
		}
		entries := diffs.DecodeEntries(payload)

		switch p {
		case primitiveKey:
			s.PutKeymix(header[0], int(header[1]), entries)
		case primitiveAdd:
			s.PutAdd(header[0], header[1], entries)
		case primitiveMaj:
			s.PutMaj(header[0], header[1], header[2], entries)
		}
	}
}

// WriteKeyFile writes every key-mix entry to path in the binary format.
func (s *Store) WriteKeyFile(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return writeRecords(path, len(s.key), func(w io.Writer) error {
		for k, v := range s.key {
			if err := writeRecord(w, []byte{k.dx, k.round}, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteAddFile writes every add entry to path in the binary format.
func (s *Store) WriteAddFile(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return writeRecords(path, len(s.add), func(w io.Writer) error {
		for k, v := range s.add {
			if err := writeRecord(w, []byte{k.dx, k.dy}, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteMajFile writes every maj entry to path in the binary format.
func (s *Store) WriteMajFile(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return writeRecords(path, len(s.maj), func(w io.Writer) error {
		for k, v := range s.maj {
			if err := writeRecord(w, []byte{k.dx, k.dy, k.dz}, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeRecords(path string, _ int, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "memo: create")
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		return err
	}
	return w.Flush()
}

func writeRecord(w io.Writer, keyBytes []byte, entries []diffs.Entry) error {
	if len(entries) > 255 {
		entries = entries[:255] // a record's length byte caps entries at 255
	}
	if _, err := w.Write(keyBytes); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(len(entries))}); err != nil {
		return err
	}
	if len(entries) > 0 {
		if _, err := w.Write(diffs.EncodeEntries(entries)); err != nil {
			return err
		}
	}
	return nil
}
