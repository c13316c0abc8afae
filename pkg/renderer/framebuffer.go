package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DisplayGamma is applied when converting linear 0-255 colors to 8-bit output
const DisplayGamma = 2.2

// Framebuffer stores one color per pixel in row-major order
type Framebuffer struct {
	Width  int
	Height int
	pixels []core.Vec3
}

// NewFramebuffer allocates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{Width: width, Height: height, pixels: make([]core.Vec3, width*height)}
}

// At returns the color at (x, y)
func (fb *Framebuffer) At(x, y int) core.Vec3 {
	return fb.pixels[y*fb.Width+x]
}

// Set stores the color at (x, y)
func (fb *Framebuffer) Set(x, y int, c core.Vec3) {
	fb.pixels[y*fb.Width+x] = c
}

// ToRGB converts a 0-255 color to gamma-corrected 8-bit channels:
// 255·(c/255)^(1/2.2), clamped to [0, 255] and truncated.
func ToRGB(c core.Vec3) (r, g, b uint8) {
	corrected := core.NewVec3(c.X/255, c.Y/255, c.Z/255).
		Clamp(0, math.Inf(1)).
		GammaCorrect(DisplayGamma).
		Multiply(255).
		Clamp(0, 255)
	return uint8(corrected.X), uint8(corrected.Y), uint8(corrected.Z)
}

// ToImage converts the framebuffer to an 8-bit image
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := ToRGB(fb.At(x, y))
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}
