package summarizer

import (
	"strings"
	"testing"
	"time"
)

func fullSummary() *Summary {
	start := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	return &Summary{
		GeneratedAt: start.Add(11 * time.Second),
		Session: SessionInfo{
			ID:        "4f1c2d",
			Source:    "/media/clip.mp4",
			StartedAt: start,
			EndedAt:   start.Add(10 * time.Second),
		},
		Media: MediaInfo{
			Format:     "mov,mp4,m4a,3gp,3g2,mj2",
			DurationMs: 10000,
			FileSize:   1024 * 1024,
			Streams: []StreamInfo{
				{Index: 0, Type: "video", Codec: "h264", Detail: "1280x720"},
				{Index: 1, Type: "audio", Codec: "aac", Detail: "48000 Hz, 2 ch"},
			},
		},
		Playback: PlaybackInfo{
			Frames:         250,
			DroppedFrames:  2,
			QueueDropped:   3,
			LastPositionMs: 9960,
			Seeks:          1,
			HasVideo:       true,
			AudioEnabled:   true,
			AudioBytes:     1920000,
		},
		Settings: Settings{
			FrameIntervalMs:  40,
			Volume:           0.8,
			LowLatency:       true,
			AudioBufferBytes: 32 * 1024 * 1024,
		},
	}
}

func TestMarkdownFormatter_Format_Basic(t *testing.T) {
	result := NewMarkdownFormatter().Format(fullSummary())

	checks := []string{
		"# Playback Summary",
		"/media/clip.mp4",
		"`4f1c2d`",
		"10s", // elapsed
		"| Result | Completed |",
		"10000 ms", // duration
		"1.00 MB",  // file size
		"| 0 | video | h264 | 1280x720 |",
		"| 1 | audio | aac | 48000 Hz, 2 ch |",
		"| Frames Delivered | 250 |",
		"| Frames Dropped | 5 |",
		"9960 ms", // last position
		"| Audio | Yes |",
		"1.83 MB", // audio written
		"| Frame Interval | 40 ms |",
		"| Volume | 80% |",
		"32.00 MB", // audio buffer
	}

	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_Format_Failure(t *testing.T) {
	summary := &Summary{
		GeneratedAt: time.Now(),
		Session: SessionInfo{
			Source: "/media/broken.mkv",
			Error:  "Video codec not found",
		},
	}

	result := NewMarkdownFormatter().Format(summary)

	if !strings.Contains(result, "Failed: Video codec not found") {
		t.Error("expected the failure message in the result row")
	}
	if !strings.Contains(result, "| Duration | N/A |") {
		t.Error("expected N/A for an unknown duration")
	}
	if strings.Contains(result, "Frames Dropped") {
		t.Error("dropped frames row should be omitted when nothing was dropped")
	}
	if strings.Contains(result, "Audio Written") {
		t.Error("audio bytes row should be omitted without audio")
	}
}

func TestMarkdownFormatter_WithTranslator(t *testing.T) {
	translator := func(key string) string {
		translations := map[string]string{
			"Playback Summary": "再生サマリー",
			"Source":           "ソース",
			"N/A":              "不明",
		}
		if v, ok := translations[key]; ok {
			return v
		}
		return key
	}

	formatter := NewMarkdownFormatter(WithTranslator(translator))

	result := formatter.Format(&Summary{GeneratedAt: time.Now()})

	for _, want := range []string{"再生サマリー", "ソース", "不明"} {
		if !strings.Contains(result, want) {
			t.Errorf("expected translated %q", want)
		}
	}
}

func TestMarkdownFormatter_WithVersion(t *testing.T) {
	formatter := NewMarkdownFormatter(WithVersion("v1.2.0"))

	result := formatter.Format(&Summary{GeneratedAt: time.Now()})

	if !strings.Contains(result, "v1.2.0") {
		t.Error("expected output to contain version 'v1.2.0'")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{1536 * 1024 * 1024, "1.50 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
