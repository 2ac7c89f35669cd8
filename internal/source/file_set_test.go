package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFileSetAdd(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("doc.tagml", []byte("[a>x<a]"), 0)
	// тот же путь ещё раз даёт новый файл
	id2 := fs.Add("./doc.tagml", []byte("[b>y<b]"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("ids = %d, %d", id1, id2)
	}
	if got := string(fs.Get(id1).Content); got != "[a>x<a]" {
		t.Errorf("first file must stay readable, got %q", got)
	}
	if p := fs.Get(id2).Path; p != "doc.tagml" {
		t.Errorf("path = %q, want cleaned", p)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
	if fs.Get(id1).Hash == fs.Get(id2).Hash {
		t.Error("different content must hash differently")
	}
}

func TestFileSetConcurrentAdd(t *testing.T) {
	fs := NewFileSet()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fs.AddVirtual(fmt.Sprintf("f%d.tagml", i), []byte("x"))
			if fs.Get(id).ID != id {
				t.Errorf("file %d stored under a wrong id", id)
			}
		}()
	}
	wg.Wait()
	if fs.Len() != 16 {
		t.Fatalf("Len = %d", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.tagml", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestCRLFNormalization(t *testing.T) {
	normalized, changed := normalizeCRLF([]byte("a\r\nb\r\nc\r"))
	if !changed {
		t.Error("Expected CRLF normalization to be detected")
	}
	if string(normalized) != "a\nb\nc\r" {
		t.Errorf("unexpected normalized content %q", normalized)
	}

	fs := NewFileSet()
	id := fs.AddVirtual("crlf.tagml", []byte("x\r\ny"))
	if fs.Get(id).Flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag to be set")
	}
}

func TestBOMRemoval(t *testing.T) {
	withoutBOM, hadBOM := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x', '\n'})
	if !hadBOM {
		t.Error("Expected BOM to be detected")
	}
	if string(withoutBOM) != "x\n" {
		t.Errorf("Expected content without BOM, got %q", withoutBOM)
	}
}

func TestPosition(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("pos.tagml", []byte("ab\nαβγ\n\nz"))
	f := fs.Get(id)

	tests := []struct {
		off  uint32
		want Position
	}{
		{0, Position{1, 1}},
		{2, Position{1, 3}}, // сам '\n' ещё на первой строке
		{3, Position{2, 1}},
		{5, Position{2, 2}}, // α занимает 2 байта
		{9, Position{2, 4}},
		{10, Position{3, 1}},
		{11, Position{4, 1}},
		{12, Position{4, 2}},
		{100, Position{4, 2}},
	}
	for _, tt := range tests {
		if got := f.Position(tt.off); got != tt.want {
			t.Errorf("Position(%d) = %v, want %v", tt.off, got, tt.want)
		}
	}

	if r := f.Range(Span{File: id, Start: 3, End: 9}); r != NewRange(2, 1, 2, 4) {
		t.Errorf("Range = %v", r)
	}
	if got := f.Text(Span{File: id, Start: 3, End: 9}); got != "αβγ" {
		t.Errorf("Text = %q", got)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.tagml", []byte("first\nsecond\n\nlast"))
	f := fs.Get(id)

	want := []string{"", "first", "second", "", "last", ""}
	for n, line := range want {
		if got := f.GetLine(uint32(n)); got != line {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, line)
		}
	}
	if f.LineCount() != 4 {
		t.Errorf("LineCount = %d, want 4", f.LineCount())
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.tagml")
	if err := os.WriteFile(path, []byte{0xEF, 0xBB, 0xBF, '[', 'a', '>', '\r', '\n'}, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "[a>\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", f.Flags)
	}

	if _, err := fs.Load(filepath.Join(dir, "missing.tagml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileFlagsString(t *testing.T) {
	fs := NewFileSet()
	plain := fs.Get(fs.AddVirtual("a.tagml", []byte("x")))
	dirty := fs.Get(fs.AddVirtual("b.tagml", []byte("\xEF\xBB\xBFa\r\nb")))
	if got := plain.Flags.String(); got != "virtual" {
		t.Errorf("plain flags = %q", got)
	}
	if got := dirty.Flags.String(); got != "virtual,bom,crlf" {
		t.Errorf("normalized flags = %q", got)
	}
	if string(dirty.Content) != "a\nb" {
		t.Errorf("content = %q", dirty.Content)
	}
	if FileFlags(0).String() != "" {
		t.Error("no flags should print as empty")
	}
}
