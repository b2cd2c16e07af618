// Package sampler converts a source image into the avatar's particle field.
//
// The image is sampled on an NxN grid; cells that are transparent or fall
// outside the circular mask are rejected. Sampling is deterministic: the
// same image and resolution always yield the same point count and colors.
package sampler

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/pthm-cable/aura/config"
)

// Point is one surviving grid cell: a centered position within the render
// square and the sampled pixel color.
type Point struct {
	X, Y    float32
	R, G, B uint8
}

// Field is the sampled particle source for one image.
type Field struct {
	Points     []Point
	Size       float32 // render square edge length, px
	Resolution int     // grid edge length N
}

// Load decodes the image at path and samples it.
func Load(path string, cfg *config.Config) (*Field, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return FromImage(img, cfg), nil
}

// FromImage samples a decoded image into a particle field.
func FromImage(img image.Image, cfg *config.Config) *Field {
	n := cfg.Avatar.GridResolution
	size := cfg.Derived.RenderSize32
	half := cfg.Derived.HalfSize32
	alphaMin := uint32(cfg.Avatar.AlphaThreshold) << 8 // RGBA() returns 16-bit channels

	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	field := &Field{
		Points:     make([]Point, 0, n*n),
		Size:       size,
		Resolution: n,
	}
	if srcW == 0 || srcH == 0 {
		return field
	}

	cell := size / float32(n)

	for gy := 0; gy < n; gy++ {
		for gx := 0; gx < n; gx++ {
			// Nearest-neighbor sample at the cell center
			sx := bounds.Min.X + int((float64(gx)+0.5)/float64(n)*float64(srcW))
			sy := bounds.Min.Y + int((float64(gy)+0.5)/float64(n)*float64(srcH))
			r, g, b, a := img.At(sx, sy).RGBA()

			if a < alphaMin {
				continue
			}

			// Centered position of this cell within the render square
			px := (float32(gx) + 0.5) * cell
			py := (float32(gy) + 0.5) * cell

			// Circular mask around the field center
			dx := float64(px - half)
			dy := float64(py - half)
			if math.Sqrt(dx*dx+dy*dy) > float64(half) {
				continue
			}

			field.Points = append(field.Points, Point{
				X: px,
				Y: py,
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
			})
		}
	}

	return field
}

// Count returns the number of sampled points.
func (f *Field) Count() int {
	return len(f.Points)
}

// Decimate returns a sparser copy keeping at most max points, taken at a
// uniform stride so the silhouette is preserved. Used for reduced motion.
func (f *Field) Decimate(max int) *Field {
	if max <= 0 || len(f.Points) <= max {
		return f
	}
	stride := float64(len(f.Points)) / float64(max)
	out := &Field{
		Points:     make([]Point, 0, max),
		Size:       f.Size,
		Resolution: f.Resolution,
	}
	for i := 0; i < max; i++ {
		out.Points = append(out.Points, f.Points[int(float64(i)*stride)])
	}
	return out
}
