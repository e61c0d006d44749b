package memo

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// WriteCompressed writes the store's three tables through a snappy writer
// to a single combined archive, for operators who would rather keep one
// compact file of low-threshold memo tables on disk than three large flat
// files (maj tables in particular can be large at loose thresholds). The
// canonical, spec-mandated layout remains the three flat binary files
// written by WriteKeyFile/WriteAddFile/WriteMajFile; this is strictly an
// additional, optional cache format. Each section is length-prefixed so
// the reader never needs to guess where one table ends and the next
// begins.
func (s *Store) WriteCompressed(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "memo: create compressed archive")
	}
	defer f.Close()

	w := snappy.NewBufferedWriter(f)

	writers := []func(io.Writer) error{
		func(w io.Writer) error {
			for k, v := range s.key {
				if err := writeRecord(w, []byte{k.dx, k.round}, v); err != nil {
					return err
				}
			}
			return nil
		},
		func(w io.Writer) error {
			for k, v := range s.add {
				if err := writeRecord(w, []byte{k.dx, k.dy}, v); err != nil {
					return err
				}
			}
			return nil
		},
		func(w io.Writer) error {
			for k, v := range s.maj {
				if err := writeRecord(w, []byte{k.dx, k.dy, k.dz}, v); err != nil {
					return err
				}
			}
			return nil
		},
	}

	for _, fn := range writers {
		var buf bytes.Buffer
		if err := fn(&buf); err != nil {
			return errors.Wrap(err, "memo: serialise section")
		}
		if err := writeLengthPrefixed(w, buf.Bytes()); err != nil {
			return errors.Wrap(err, "memo: write compressed section")
		}
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "memo: close compressed archive")
	}
	return nil
}

// ReadCompressed loads a store previously written by WriteCompressed.
func (s *Store) ReadCompressed(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := snappy.NewReader(f)

	keyBytes, err := readLengthPrefixed(r)
	if err != nil {
		return err
	}
	addBytes, err := readLengthPrefixed(r)
	if err != nil {
		return err
	}
	majBytes, err := readLengthPrefixed(r)
	if err != nil {
		return err
	}

	if err := s.readFrom(bytes.NewReader(keyBytes), primitiveKey); err != nil {
		return err
	}
	if err := s.readFrom(bytes.NewReader(addBytes), primitiveAdd); err != nil {
		return err
	}
	return s.readFrom(bytes.NewReader(majBytes), primitiveMaj)
}

func writeLengthPrefixed(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readLengthPrefixed(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, errors.Wrap(err, "memo: read compressed section length")
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	payload := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, errors.Wrap(err, "memo: read compressed section payload")
		}
	}
	return payload, nil
}
