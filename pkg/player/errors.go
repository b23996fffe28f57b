package player

import (
	"errors"

	"github.com/ideamans/go-l10n"
	"github.com/user/avplay/pkg/ports"
)

var (
	// ErrSessionActive is returned by SetSource while a session is running.
	ErrSessionActive = errors.New("player: session active")

	// ErrNoSource is returned by Start when no source has been set.
	ErrNoSource = errors.New("player: no source set")

	// ErrNoStreams is reported when a container has neither audio nor video.
	ErrNoStreams = errors.New("player: no video or audio stream")
)

// Message keys reported through ErrorOccurred. They are translated with
// go-l10n before being delivered.
const (
	msgOpenInput     = "Failed to open input file"
	msgStreamInfo    = "Failed to find stream info"
	msgNoStreams     = "No video or audio stream found"
	msgCodecNotFound = "Video codec not found"
	msgCodecOpen     = "Failed to open video codec"
)

// userMessage maps a fatal setup error to the message reported to the UI.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ports.ErrOpenInput):
		return l10n.T(msgOpenInput)
	case errors.Is(err, ports.ErrStreamInfo):
		return l10n.T(msgStreamInfo)
	case errors.Is(err, ErrNoStreams):
		return l10n.T(msgNoStreams)
	case errors.Is(err, ports.ErrCodecNotFound):
		return l10n.T(msgCodecNotFound)
	default:
		return l10n.T(msgCodecOpen)
	}
}
