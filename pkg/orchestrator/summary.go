package orchestrator

import (
	"fmt"

	"github.com/user/avplay/pkg/ports"
	"github.com/user/avplay/pkg/summarizer"
)

func (o *Orchestrator) writeSummary(cfg Config, result RunResult) error {
	var media summarizer.MediaInfo
	if o.prober != nil {
		if info, err := o.prober.Probe(cfg.Source); err == nil {
			media = MediaSummary(info)
		} else {
			o.logger.Debug("Probe for summary failed: %v", err)
		}
	}
	if media.DurationMs == 0 {
		media.DurationMs = result.Stats.DurationMs
	}
	if size, err := o.fs.Size(cfg.Source); err == nil {
		media.FileSize = size
	}

	summary := BuildSummary(cfg, result, media)

	var opts []summarizer.MarkdownOption
	if cfg.Translate != nil {
		opts = append(opts, summarizer.WithTranslator(cfg.Translate))
	}
	if cfg.Version != "" {
		opts = append(opts, summarizer.WithVersion(cfg.Version))
	}
	w := summarizer.NewWriter(summarizer.NewMarkdownFormatter(opts...), o.fs)
	return w.Write(cfg.SummaryPath, summary)
}

// BuildSummary assembles the summary of a finished run.
func BuildSummary(cfg Config, result RunResult, media summarizer.MediaInfo) *summarizer.Summary {
	st := result.Stats
	return summarizer.NewBuilder().
		WithSession(st.SessionID, cfg.Source, st.StartedAt, st.EndedAt).
		WithError(st.Error).
		WithMedia(media).
		WithPlayback(summarizer.PlaybackInfo{
			Frames:         st.Frames,
			DroppedFrames:  st.DroppedFrames,
			QueueDropped:   result.QueueDropped,
			LastPositionMs: st.LastPositionMs,
			Seeks:          st.Seeks,
			HasVideo:       st.HasVideo,
			AudioEnabled:   st.AudioEnabled,
			AudioBytes:     st.AudioBytes,
			Snapshots:      result.View.Snapshots,
		}).
		WithSettings(summarizer.Settings{
			FrameIntervalMs:  int(cfg.Player.FrameInterval.Milliseconds()),
			Volume:           cfg.Player.Volume,
			LowLatency:       cfg.Player.LowLatency,
			AudioBufferBytes: cfg.Player.AudioBufferSize,
		}).
		Build()
}

// MediaSummary converts probe output to the summary's stream table.
func MediaSummary(info ports.MediaInfo) summarizer.MediaInfo {
	m := summarizer.MediaInfo{
		Format:     info.Format,
		DurationMs: info.Duration.Milliseconds(),
	}
	for _, s := range info.Streams {
		m.Streams = append(m.Streams, summarizer.StreamInfo{
			Index:  s.Index,
			Type:   s.Type.String(),
			Codec:  s.CodecName,
			Detail: StreamDetail(s),
		})
	}
	return m
}

// StreamDetail formats the type-specific parameters of a stream.
func StreamDetail(s ports.StreamInfo) string {
	switch s.Type {
	case ports.MediaTypeVideo:
		if s.Width > 0 && s.Height > 0 {
			return fmt.Sprintf("%dx%d", s.Width, s.Height)
		}
	case ports.MediaTypeAudio:
		if s.SampleRate > 0 {
			return fmt.Sprintf("%d Hz, %d ch", s.SampleRate, s.Channels)
		}
	}
	return ""
}
