package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = fn
	}
}

// WithVersion adds the program version to the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a formatter with English labels.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{translate: func(s string) string { return s }}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Playback Summary"))

	fmt.Fprintf(&b, "## %s\n\n", t("Session"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %s |\n", t("Source"), s.Session.Source)
	if s.Session.ID != "" {
		fmt.Fprintf(&b, "| %s | `%s` |\n", t("Session ID"), s.Session.ID)
	}
	if elapsed := s.Session.Elapsed(); elapsed > 0 {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Elapsed"), elapsed.Round(time.Millisecond))
	}
	result := t("Completed")
	if s.Session.Error != "" {
		result = fmt.Sprintf("%s: %s", t("Failed"), s.Session.Error)
	}
	fmt.Fprintf(&b, "| %s | %s |\n\n", t("Result"), result)

	fmt.Fprintf(&b, "## %s\n\n", t("Media"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	if s.Media.Format != "" {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Format"), s.Media.Format)
	}
	fmt.Fprintf(&b, "| %s | %s |\n", t("Duration"), formatMs(s.Media.DurationMs, t))
	if s.Media.FileSize > 0 {
		fmt.Fprintf(&b, "| %s | %s |\n", t("File Size"), formatBytes(s.Media.FileSize))
	}
	b.WriteString("\n")

	if len(s.Media.Streams) > 0 {
		fmt.Fprintf(&b, "| # | %s | %s | %s |\n|---|---|---|---|\n", t("Type"), t("Codec"), t("Details"))
		for _, st := range s.Media.Streams {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", st.Index, st.Type, st.Codec, st.Detail)
		}
		b.WriteString("\n")
	}

	p := s.Playback
	fmt.Fprintf(&b, "## %s\n\n", t("Playback"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %d |\n", t("Frames Delivered"), p.Frames)
	if p.DroppedFrames > 0 || p.QueueDropped > 0 {
		fmt.Fprintf(&b, "| %s | %d |\n", t("Frames Dropped"), p.DroppedFrames+int64(p.QueueDropped))
	}
	fmt.Fprintf(&b, "| %s | %s |\n", t("Last Position"), formatMs(p.LastPositionMs, t))
	fmt.Fprintf(&b, "| %s | %d |\n", t("Seeks"), p.Seeks)
	fmt.Fprintf(&b, "| %s | %s |\n", t("Video"), yesNo(p.HasVideo, t))
	fmt.Fprintf(&b, "| %s | %s |\n", t("Audio"), yesNo(p.AudioEnabled, t))
	if p.AudioEnabled {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Audio Written"), formatBytes(p.AudioBytes))
	}
	if p.Snapshots > 0 {
		fmt.Fprintf(&b, "| %s | %d |\n", t("Snapshots"), p.Snapshots)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %d ms |\n", t("Frame Interval"), s.Settings.FrameIntervalMs)
	fmt.Fprintf(&b, "| %s | %d%% |\n", t("Volume"), int(s.Settings.Volume*100+0.5))
	fmt.Fprintf(&b, "| %s | %s |\n", t("Low Latency"), yesNo(s.Settings.LowLatency, t))
	if s.Settings.AudioBufferBytes > 0 {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Audio Buffer"), formatBytes(int64(s.Settings.AudioBufferBytes)))
	}
	b.WriteString("\n")

	b.WriteString("---\n\n")
	footer := fmt.Sprintf("%s %s", t("Generated at"), s.GeneratedAt.Format(time.RFC3339))
	if f.version != "" {
		footer += " (avplay " + f.version + ")"
	}
	b.WriteString(footer + "\n")

	return b.String()
}

func formatMs(ms int64, t func(string) string) string {
	if ms <= 0 {
		return t("N/A")
	}
	return fmt.Sprintf("%d ms", ms)
}

func yesNo(v bool, t func(string) string) string {
	if v {
		return t("Yes")
	}
	return t("No")
}

// formatBytes formats a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}

var _ Formatter = (*MarkdownFormatter)(nil)
