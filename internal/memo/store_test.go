package memo

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/mitchgrout/maw32trail/internal/diffs"
)

func entriesEqual(a, b []diffs.Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Out != b[i].Out || int8(a[i].LogP) != int8(b[i].LogP) {
			return false
		}
	}
	return true
}

func TestRoundTripBinaryFile(t *testing.T) {
	s := New()
	s.PutAdd(0x01, 0x02, []diffs.Entry{{Out: 0x00, LogP: -1}, {Out: 0x03, LogP: -2}})
	s.PutAdd(0x00, 0x00, []diffs.Entry{{Out: 0x00, LogP: 0}})
	s.PutKeymix(0x05, 3, []diffs.Entry{{Out: 0x05, LogP: -1}, {Out: 0x06, LogP: -2}, {Out: 0x07, LogP: -3}})
	s.PutMaj(0x01, 0x02, 0x03, []diffs.Entry{{Out: 0x00, LogP: 0}})

	dir := t.TempDir()
	addPath := filepath.Join(dir, "add.bin")
	keyPath := filepath.Join(dir, "key.bin")
	majPath := filepath.Join(dir, "maj.bin")

	if err := s.WriteAddFile(addPath); err != nil {
		t.Fatalf("WriteAddFile: %v", err)
	}
	if err := s.WriteKeyFile(keyPath); err != nil {
		t.Fatalf("WriteKeyFile: %v", err)
	}
	if err := s.WriteMajFile(majPath); err != nil {
		t.Fatalf("WriteMajFile: %v", err)
	}

	loaded := New()
	if err := loaded.ReadAddFile(addPath); err != nil {
		t.Fatalf("ReadAddFile: %v", err)
	}
	if err := loaded.ReadKeyFile(keyPath); err != nil {
		t.Fatalf("ReadKeyFile: %v", err)
	}
	if err := loaded.ReadMajFile(majPath); err != nil {
		t.Fatalf("ReadMajFile: %v", err)
	}

	got, ok := loaded.Add(0x01, 0x02)
	want := []diffs.Entry{{Out: 0x00, LogP: -1}, {Out: 0x03, LogP: -2}}
	if !ok || !entriesEqual(got, want) {
		t.Fatalf("Add(0x01,0x02) = %v,%v want %v,true", got, ok, want)
	}
	gotKey, ok := loaded.Keymix(0x05, 3)
	wantKey := []diffs.Entry{{Out: 0x05, LogP: -1}, {Out: 0x06, LogP: -2}, {Out: 0x07, LogP: -3}}
	if !ok || !entriesEqual(gotKey, wantKey) {
		t.Fatalf("Keymix(0x05,3) = %v,%v want %v,true", gotKey, ok, wantKey)
	}
	gotMaj, ok := loaded.Maj(0x01, 0x02, 0x03)
	wantMaj := []diffs.Entry{{Out: 0x00, LogP: 0}}
	if !ok || !entriesEqual(gotMaj, wantMaj) {
		t.Fatalf("Maj(1,2,3) = %v,%v want %v,true", gotMaj, ok, wantMaj)
	}
}

func TestReadMissingFileIsNonFatal(t *testing.T) {
	s := New()
	err := s.ReadAddFile(filepath.Join(t.TempDir(), "does-not-exist.bin"))
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if s.AddLen() != 0 {
		t.Fatalf("store should remain empty after a missing-file read")
	}
}

func TestReadTruncatedFileReturnsWhatItHas(t *testing.T) {
	s := New()
	// One complete add record (dx=1,dy=2,len=1,{out=0x03,logp=0x09})
	// followed by a second record's header claiming one entry but
	// supplying only one of its two payload bytes.
	data := []byte{0x01, 0x02, 0x01, 0x03, 0x09, 0x04, 0x05, 0x01, 0x06}
	if err := s.readFrom(bytes.NewReader(data), primitiveAdd); err == nil {
		t.Fatalf("expected a truncation error")
	}
	if s.AddLen() != 1 {
		t.Fatalf("expected the one complete record to survive, got %d entries", s.AddLen())
	}
	got, ok := s.Add(0x01, 0x02)
	if !ok || len(got) != 1 || got[0].Out != 0x03 || int8(got[0].LogP) != 9 {
		t.Fatalf("Add(1,2) = %v,%v want [{3 9}],true", got, ok)
	}
}

func TestCompressedRoundTrip(t *testing.T) {
	s := New()
	s.PutAdd(0x01, 0x02, []diffs.Entry{{Out: 0x00, LogP: -1}, {Out: 0x03, LogP: -2}})
	s.PutKeymix(0x05, 3, []diffs.Entry{{Out: 0x05, LogP: -1}, {Out: 0x06, LogP: -2}, {Out: 0x07, LogP: -3}})
	s.PutMaj(0x01, 0x02, 0x03, []diffs.Entry{{Out: 0x00, LogP: 0}})

	path := filepath.Join(t.TempDir(), "archive.snappy")
	if err := s.WriteCompressed(path); err != nil {
		t.Fatalf("WriteCompressed: %v", err)
	}

	loaded := New()
	if err := loaded.ReadCompressed(path); err != nil {
		t.Fatalf("ReadCompressed: %v", err)
	}
	got, ok := loaded.Add(0x01, 0x02)
	want := []diffs.Entry{{Out: 0x00, LogP: -1}, {Out: 0x03, LogP: -2}}
	if !ok || !entriesEqual(got, want) {
		t.Fatalf("Add(1,2) after compressed round trip = %v,%v want %v", got, ok, want)
	}
}

func TestFileNamesUsesThresholdSuffix(t *testing.T) {
	key, add, maj := FileNames("/scratch", -3.0)
	want := map[string]string{
		"key": "/scratch/key-file--3.000000.bin",
		"add": "/scratch/add-file--3.000000.bin",
		"maj": "/scratch/maj-file--3.000000.bin",
	}
	if key != want["key"] || add != want["add"] || maj != want["maj"] {
		t.Fatalf("FileNames(-3.0) = %q,%q,%q", key, add, maj)
	}
}
