package renderer

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fogleman/gg"
)

// WritePPM writes the framebuffer as an ASCII PPM (P3) image
func WritePPM(w io.Writer, fb *Framebuffer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.Width, fb.Height)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := ToRGB(fb.At(x, y))
			if x > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%d %d %d", r, g, b)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// SavePPM writes the framebuffer to a PPM file
func SavePPM(filename string, fb *Framebuffer) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	if err := WritePPM(file, fb); err != nil {
		file.Close()
		return fmt.Errorf("error writing PPM: %w", err)
	}
	return file.Close()
}

// SavePNG writes the framebuffer to a PNG file
func SavePNG(filename string, fb *Framebuffer) error {
	if err := gg.SavePNG(filename, fb.ToImage()); err != nil {
		return fmt.Errorf("error saving PNG: %w", err)
	}
	return nil
}
