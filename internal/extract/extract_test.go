package extract

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractTXT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("Python developer"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "Python developer" {
		t.Fatalf("Extract() = %q", got)
	}
}

func TestExtractDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.docx")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(file)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	body := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Go and </w:t></w:r><w:r><w:t>SQL</w:t></w:r></w:p>
  </w:body>
</w:document>`
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	file.Close()

	got, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "Jane Doe\nGo and SQL" {
		t.Fatalf("Extract() = %q", got)
	}
}

func TestExtractRejectsUnsupportedFormat(t *testing.T) {
	_, err := Extract("photo.png")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractMissingFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("missing file should not be reported as unsupported")
	}
}
