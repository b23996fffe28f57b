// Package rgb provides an image.Image implementation for packed 24-bit RGB
// pixel data, the format produced by the video scaling pipeline.
package rgb

import (
	"image"
	"image/color"
)

// BytesPerPixel is the size of one packed RGB24 pixel.
const BytesPerPixel = 3

// Image is an in-memory image whose At method returns color.RGBA values.
// Pix holds the pixels in R, G, B order; the pixel at (x, y) starts at
// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*3].
type Image struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// New allocates a zeroed RGB image with the given bounds.
func New(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	return &Image{
		Pix:    make([]uint8, w*h*BytesPerPixel),
		Stride: w * BytesPerPixel,
		Rect:   r,
	}
}

// Wrap returns an image backed by pix without copying. The caller keeps
// ownership of pix; the image is only valid while pix is not overwritten.
func Wrap(pix []uint8, stride, width, height int) *Image {
	return &Image{
		Pix:    pix,
		Stride: stride,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// ColorModel implements image.Image.
func (p *Image) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (p *Image) Bounds() image.Rectangle { return p.Rect }

// At implements image.Image.
func (p *Image) At(x, y int) color.Color {
	return p.RGBAAt(x, y)
}

// RGBAAt returns the color of the pixel at (x, y) as color.RGBA.
func (p *Image) RGBAAt(x, y int) color.RGBA {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.RGBA{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	return color.RGBA{R: s[0], G: s[1], B: s[2], A: 0xff}
}

// Set implements draw.Image.
func (p *Image) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	c1 := color.RGBAModel.Convert(c).(color.RGBA)
	s := p.Pix[i : i+3 : i+3]
	s[0] = c1.R
	s[1] = c1.G
	s[2] = c1.B
}

// PixOffset returns the index of the first element of Pix that corresponds
// to the pixel at (x, y).
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*BytesPerPixel
}

// Opaque reports whether the image is fully opaque, which is always true.
func (p *Image) Opaque() bool { return true }

// Clone returns a deep copy with tightly packed rows. The copy shares no
// memory with p.
func (p *Image) Clone() *Image {
	dst := New(image.Rect(0, 0, p.Rect.Dx(), p.Rect.Dy()))
	row := p.Rect.Dx() * BytesPerPixel
	for y := 0; y < p.Rect.Dy(); y++ {
		src := p.Pix[y*p.Stride : y*p.Stride+row]
		copy(dst.Pix[y*dst.Stride:], src)
	}
	return dst
}

// ToRGBA converts the image to an *image.RGBA.
func (p *Image) ToRGBA() *image.RGBA {
	b := p.Rect
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := p.Pix[y*p.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dst[x*4+0] = src[x*3+0]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}
	return out
}
