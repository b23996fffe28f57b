package summarizer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/user/avplay/pkg/mocks"
)

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(FormatFunc(func(s *Summary) string { return "# " + s.Session.Source }), fs)

	path := filepath.Join("out", "summary.md")
	if err := w.Write(path, &Summary{Session: SessionInfo{Source: "clip.mp4"}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, ok := fs.GetFile(path)
	if !ok {
		t.Fatalf("expected file at %s", path)
	}
	if string(data) != "# clip.mp4" {
		t.Errorf("content = %q", data)
	}
}

func TestWriter_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(string, []byte) error { return errors.New("read-only") }
	w := NewWriter(NewMarkdownFormatter(), fs)

	if err := w.Write("summary.md", NewSummary()); err == nil {
		t.Error("expected error")
	}
}
