package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/linestore/internal/engine/linestore"
)

func sampleStore(t *testing.T, n int) (*linestore.Store, []string) {
	t.Helper()
	s := linestore.New(linestore.WithGeometry(8, 4))
	want := make([]string, n)
	for i := range want {
		want[i] = fmt.Sprintf("line %d: %s", i, strings.Repeat("abc", i%7))
		if err := s.PutLine(i, want[i], linestore.Insert); err != nil {
			t.Fatal(err)
		}
	}
	return s, want
}

func readAll(s *linestore.Store) []string {
	var out []string
	s.Position(0)
	for text, ok := s.Next(); ok; text, ok = s.Next() {
		out = append(out, text)
	}
	return out
}

func TestCodecFor(t *testing.T) {
	tests := []struct {
		path string
		want Codec
	}{
		{"doc.txt", Plain},
		{"doc", Plain},
		{"doc.gz", Gzip},
		{"DOC.GZ", Gzip},
		{"doc.txt.zst", Zstd},
		{"doc.zstd", Zstd},
		{"dir.lz4/doc", Plain},
		{"doc.lz4", LZ4},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := CodecFor(tt.path); got != tt.want {
				t.Errorf("CodecFor(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestCodecString(t *testing.T) {
	names := map[Codec]string{Plain: "plain", Gzip: "gzip", Zstd: "zstd", LZ4: "lz4", Codec(42): "unknown"}
	for c, want := range names {
		if c.String() != want {
			t.Errorf("Codec(%d).String() = %q, want %q", c, c.String(), want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	magic := map[string][]byte{
		"doc.txt": nil,
		"doc.gz":  {0x1f, 0x8b},
		"doc.zst": {0x28, 0xb5, 0x2f, 0xfd},
		"doc.lz4": {0x04, 0x22, 0x4d, 0x18},
	}

	for name, prefix := range magic {
		t.Run(name, func(t *testing.T) {
			s, want := sampleStore(t, 200)
			path := filepath.Join(t.TempDir(), "nested", name)

			if err := SaveFile(s, path); err != nil {
				t.Fatalf("SaveFile() = %v", err)
			}
			if _, err := os.Stat(path + ".tmp"); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("temp file left behind: %v", err)
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if prefix != nil && !bytes.HasPrefix(raw, prefix) {
				t.Errorf("file starts with % x, want % x", raw[:min(len(raw), 4)], prefix)
			}
			if prefix == nil && string(raw) != strings.Join(want, "\n")+"\n" {
				t.Errorf("plain file content mismatch")
			}

			loaded := linestore.New()
			if err := LoadFile(loaded, path, false); err != nil {
				t.Fatalf("LoadFile() = %v", err)
			}
			if err := loaded.Verify(); err != nil {
				t.Fatal(err)
			}
			got := readAll(loaded)
			if strings.Join(got, "\n") != strings.Join(want, "\n") {
				t.Errorf("round trip lost lines: got %d, want %d", len(got), len(want))
			}
		})
	}
}

func TestSaveAsOverridesExtension(t *testing.T) {
	s, want := sampleStore(t, 20)
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := SaveFileAs(s, path, Zstd); err != nil {
		t.Fatal(err)
	}

	plain := linestore.New()
	if err := LoadFile(plain, path, false); err != nil {
		t.Fatal(err)
	}
	if plain.Lines() == len(want) && plain.Line(0) == want[0] {
		t.Error("zstd file read as plain text should not match the document")
	}

	loaded := linestore.New()
	if err := LoadFileAs(loaded, path, Zstd, false); err != nil {
		t.Fatal(err)
	}
	if got := readAll(loaded); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("LoadFileAs lost lines")
	}
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.gz")
	first, _ := sampleStore(t, 50)
	if err := SaveFile(first, path); err != nil {
		t.Fatal(err)
	}
	second, want := sampleStore(t, 3)
	if err := SaveFile(second, path); err != nil {
		t.Fatal(err)
	}

	loaded := linestore.New()
	if err := LoadFile(loaded, path, false); err != nil {
		t.Fatal(err)
	}
	if loaded.Lines() != len(want) {
		t.Errorf("Lines() = %d, want %d", loaded.Lines(), len(want))
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	if err := LoadFile(linestore.New(), filepath.Join(dir, "missing.txt"), false); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}

	bad := filepath.Join(dir, "bad.gz")
	if err := os.WriteFile(bad, []byte("not gzip at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadFile(linestore.New(), bad, false); err == nil {
		t.Error("corrupt gzip should fail")
	}

	ro := linestore.New(linestore.WithReadOnly())
	plain := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(plain, []byte("a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadFile(ro, plain, false); !errors.Is(err, linestore.ErrReadOnly) {
		t.Errorf("read-only store: %v", err)
	}
}

func TestLoadFileFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	if err := os.WriteFile(path, []byte("\x1b[1mbold\x1b[0m\r\nplain\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := linestore.New()
	if err := LoadFile(s, path, true); err != nil {
		t.Fatal(err)
	}
	if got := readAll(s); strings.Join(got, "|") != "bold|plain" {
		t.Errorf("filtered load = %q", got)
	}
}

func TestUnknownCodec(t *testing.T) {
	s, _ := sampleStore(t, 1)
	path := filepath.Join(t.TempDir(), "doc")
	if err := SaveFileAs(s, path, Codec(9)); !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("SaveFileAs = %v, want ErrUnknownCodec", err)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, fs.ErrNotExist) {
		t.Error("failed save left its temp file")
	}
}

func TestEmergencySaveFile(t *testing.T) {
	s, want := sampleStore(t, 30)
	path := filepath.Join(t.TempDir(), "rescue.lz4")

	written, err := EmergencySaveFile(s, path)
	if err != nil {
		t.Fatal(err)
	}
	if written != len(want) {
		t.Errorf("written = %d, want %d", written, len(want))
	}

	loaded := linestore.New()
	if err := LoadFile(loaded, path, false); err != nil {
		t.Fatal(err)
	}
	if loaded.Lines() != len(want) {
		t.Errorf("Lines() = %d, want %d", loaded.Lines(), len(want))
	}
}
