package filesink

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/avplay/pkg/mocks"
	"github.com/user/avplay/pkg/ports"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("snapshots")

func TestSink_Enabled(t *testing.T) {
	sink := New(testBaseDir, ports.FormatPNG, mocks.NewFileSystem(), &mocks.Renderer{})

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	var gotFormat ports.ImageFormat
	var gotQuality int
	renderer.EncodeImageFunc = func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
		gotFormat = format
		gotQuality = quality
		return []byte("jpeg"), nil
	}
	sink := New(testBaseDir, ports.FormatJPEG, fs, renderer)

	path, err := sink.SaveFrame(3, 1200, image.NewRGBA(image.Rect(0, 0, 4, 2)))
	if err != nil {
		t.Fatalf("SaveFrame failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "frame_00003_1200ms.jpg")
	if path != expectedPath {
		t.Errorf("path = %q, want %q", path, expectedPath)
	}
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != "jpeg" {
		t.Errorf("saved %q", saved)
	}
	if gotFormat != ports.FormatJPEG || gotQuality != DefaultJPEGQuality {
		t.Errorf("encoded as %v quality %d", gotFormat, gotQuality)
	}
	if ok, _ := fs.Exists(testBaseDir); !ok {
		t.Error("expected snapshot dir to be created")
	}
}

func TestSink_SaveFrameErrors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))

	t.Run("encode", func(t *testing.T) {
		renderer := &mocks.Renderer{
			EncodeImageFunc: func(image.Image, ports.ImageFormat, int) ([]byte, error) {
				return nil, errors.New("encode failed")
			},
		}
		sink := New(testBaseDir, ports.FormatPNG, mocks.NewFileSystem(), renderer)
		if _, err := sink.SaveFrame(0, 0, img); err == nil {
			t.Error("expected encode error")
		}
	})

	t.Run("write", func(t *testing.T) {
		fs := mocks.NewFileSystem()
		fs.WriteFileFunc = func(string, []byte) error { return errors.New("disk full") }
		sink := New(testBaseDir, ports.FormatPNG, fs, &mocks.Renderer{})
		if _, err := sink.SaveFrame(0, 0, img); err == nil {
			t.Error("expected write error")
		}
	})

	t.Run("mkdir", func(t *testing.T) {
		fs := mocks.NewFileSystem()
		fs.MkdirAllFunc = func(string) error { return errors.New("read-only") }
		sink := New(testBaseDir, ports.FormatPNG, fs, &mocks.Renderer{})
		if _, err := sink.SaveFrame(0, 0, img); err == nil {
			t.Error("expected mkdir error")
		}
	})
}

func TestFrameName(t *testing.T) {
	tests := []struct {
		index  int
		pos    int64
		format ports.ImageFormat
		want   string
	}{
		{0, 0, ports.FormatPNG, "frame_00000_0ms.png"},
		{42, 5000, ports.FormatJPEG, "frame_00042_5000ms.jpg"},
		{1, -40, ports.FormatPNG, "frame_00001_0ms.png"},
	}
	for _, tt := range tests {
		if got := FrameName(tt.index, tt.pos, tt.format); got != tt.want {
			t.Errorf("FrameName(%d, %d) = %q, want %q", tt.index, tt.pos, got, tt.want)
		}
	}
}
