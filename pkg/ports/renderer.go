package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts the image operations used to display and export frames.
type Renderer interface {
	// CreateCanvas creates a new drawing canvas with the specified dimensions and background color.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage resizes an image to exactly the specified dimensions.
	ResizeImage(img image.Image, width, height int) image.Image

	// FitImage scales an image to fit within width x height keeping its
	// aspect ratio.
	FitImage(img image.Image, width, height int) image.Image
}

// Canvas provides drawing operations for composing a display image.
type Canvas interface {
	// DrawImage draws an image at the specified position.
	DrawImage(img image.Image, x, y int)

	// DrawRect draws a filled rectangle.
	DrawRect(x, y, w, h int, c color.Color)

	// DrawRoundedRect draws a filled rounded rectangle.
	DrawRoundedRect(x, y, w, h, radius int, c color.Color)

	// DrawText draws text at the specified position.
	DrawText(text string, x, y int, style TextStyle)

	// ToImage returns the canvas as an image.Image.
	ToImage() image.Image
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	FontPath string
	Color    color.Color
	Align    TextAlign
}

// TextAlign specifies text alignment.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
)

// Extension returns the file extension for the format, including the dot.
func (f ImageFormat) Extension() string {
	if f == FormatPNG {
		return ".png"
	}
	return ".jpg"
}

// ParseImageFormat maps "png", "jpg" and "jpeg" to an ImageFormat.
// Anything else selects PNG.
func ParseImageFormat(s string) ImageFormat {
	switch s {
	case "jpg", "jpeg", ".jpg", ".jpeg":
		return FormatJPEG
	default:
		return FormatPNG
	}
}
