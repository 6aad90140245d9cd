// Package images derives enhanced variants from uploaded photos and stores
// them on the local filesystem.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"log/slog"

	"github.com/rwcarlsen/goexif/exif"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrInvalidImage is returned when uploaded bytes cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid or unsupported image")

const (
	jpegQuality   = 90
	trimTolerance = 12
)

// Options controls the derivation pipeline.
type Options struct {
	// MaxDimension bounds the derived image. Smaller uploads are never upscaled.
	MaxDimension int
	// ThumbSize is the square size of the cover-cropped thumbnail.
	ThumbSize int
	// Strength selects how aggressive the tone and sharpen passes are:
	// "low", "medium", or "high".
	Strength string
	// Trim removes near-uniform borders (scanner beds, white mats).
	Trim bool
}

// Result holds everything derived from one upload.
type Result struct {
	Derived  []byte
	Thumb    []byte
	BlurHash string
	Width    int
	Height   int
}

// Pipeline turns raw uploads into display-ready derived images.
type Pipeline struct {
	opts   Options
	logger *slog.Logger
}

// NewPipeline creates a derivation pipeline.
func NewPipeline(opts Options, logger *slog.Logger) *Pipeline {
	return &Pipeline{opts: opts, logger: logger}
}

// Process decodes an upload and produces the derived variant, a square
// thumbnail, and a BlurHash placeholder. The original bytes are never
// modified; callers store them separately.
func (p *Pipeline) Process(data []byte) (*Result, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	// Camera uploads carry their rotation in EXIF rather than pixels.
	img = applyOrientation(data, img)

	img = resizeInside(img, p.opts.MaxDimension)

	if p.opts.Trim {
		img = trimBorder(img, trimTolerance)
	}

	sat, bri, amount := strengthParams(p.opts.Strength)
	rgba := toRGBA(img)
	rgba = adjustTone(rgba, sat, bri)
	rgba = unsharpMask(rgba, amount)

	derived, err := encodeJPEG(rgba)
	if err != nil {
		return nil, fmt.Errorf("encode derived image: %w", err)
	}

	thumb, err := encodeJPEG(coverThumbnail(rgba, p.opts.ThumbSize))
	if err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	hash, err := computeBlurHash(rgba)
	if err != nil {
		// A missing placeholder is cosmetic; keep the upload.
		if p.logger != nil {
			p.logger.Warn("blurhash computation failed", "error", err)
		}
		hash = ""
	}

	if p.logger != nil {
		p.logger.Debug("derived image",
			"format", format,
			"width", rgba.Bounds().Dx(),
			"height", rgba.Bounds().Dy(),
			"derived_bytes", len(derived),
		)
	}

	return &Result{
		Derived:  derived,
		Thumb:    thumb,
		BlurHash: hash,
		Width:    rgba.Bounds().Dx(),
		Height:   rgba.Bounds().Dy(),
	}, nil
}

// strengthParams maps an enhancement strength to saturation and brightness
// multipliers plus an unsharp amount.
func strengthParams(strength string) (sat, bri, sharpen float64) {
	switch strength {
	case "low":
		return 1.05, 1.02, 0.6
	case "high":
		return 1.20, 1.05, 1.2
	default: // medium
		return 1.12, 1.03, 0.9
	}
}

// applyOrientation rotates or flips the image per its EXIF orientation tag.
// Images without EXIF data pass through untouched.
func applyOrientation(data []byte, img image.Image) image.Image {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return img
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch orientation {
	case 2:
		return flipH(toRGBA(img))
	case 3:
		return rotate180(toRGBA(img))
	case 4:
		return flipV(toRGBA(img))
	case 5:
		return flipH(rotate90(toRGBA(img)))
	case 6:
		return rotate90(toRGBA(img))
	case 7:
		return flipH(rotate270(toRGBA(img)))
	case 8:
		return rotate270(toRGBA(img))
	}
	return img
}

// resizeInside scales the image down so both dimensions fit within maxDim,
// preserving aspect ratio. Images already within bounds are returned as-is.
func resizeInside(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	longest := w
	if h > w {
		longest = h
	}
	scale := float64(maxDim) / float64(longest)

	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// trimBorder crops away near-uniform edges, using the top-left pixel as the
// border color. If trimming would leave nothing, the image is returned whole.
func trimBorder(img image.Image, tolerance int) image.Image {
	rgba := toRGBA(img)
	b := rgba.Bounds()

	borderR, borderG, borderB, _ := rgba.At(b.Min.X, b.Min.Y).RGBA()

	differs := func(x, y int) bool {
		r, g, bl, _ := rgba.At(x, y).RGBA()
		return absDiff(r, borderR) > uint32(tolerance)<<8 ||
			absDiff(g, borderG) > uint32(tolerance)<<8 ||
			absDiff(bl, borderB) > uint32(tolerance)<<8
	}

	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X, b.Min.Y
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if differs(x, y) {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	if minX > maxX || minY > maxY {
		// Whole image matched the border color
		return rgba
	}

	crop := image.Rect(minX, minY, maxX+1, maxY+1)
	if crop == b {
		return rgba
	}
	return rgba.SubImage(crop).(*image.RGBA)
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// adjustTone applies saturation and brightness multipliers. Saturation pushes
// each channel away from the pixel's luminance, brightness scales the result.
func adjustTone(img *image.RGBA, sat, bri float64) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			r := float64(img.Pix[i])
			g := float64(img.Pix[i+1])
			bl := float64(img.Pix[i+2])

			lum := 0.299*r + 0.587*g + 0.114*bl

			o := out.PixOffset(x, y)
			out.Pix[o] = clamp8((lum + (r-lum)*sat) * bri)
			out.Pix[o+1] = clamp8((lum + (g-lum)*sat) * bri)
			out.Pix[o+2] = clamp8((lum + (bl-lum)*sat) * bri)
			out.Pix[o+3] = img.Pix[i+3]
		}
	}
	return out
}

// unsharpMask sharpens by adding back the difference between the image and a
// 3x3 gaussian blur of itself, scaled by amount.
func unsharpMask(img *image.RGBA, amount float64) *image.RGBA {
	if amount <= 0 {
		return img
	}

	b := img.Bounds()
	blurred := gaussianBlur3(img)
	out := image.NewRGBA(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			j := blurred.PixOffset(x, y)
			o := out.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				orig := float64(img.Pix[i+c])
				blur := float64(blurred.Pix[j+c])
				out.Pix[o+c] = clamp8(orig + amount*(orig-blur))
			}
			out.Pix[o+3] = img.Pix[i+3]
		}
	}
	return out
}

// gaussianBlur3 applies a single 3x3 gaussian pass (kernel 1-2-1).
func gaussianBlur3(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)

	kernel := [3][3]float64{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var sumR, sumG, sumB, weight float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					sx, sy := x+kx, y+ky
					if sx < b.Min.X || sx >= b.Max.X || sy < b.Min.Y || sy >= b.Max.Y {
						continue
					}
					k := kernel[ky+1][kx+1]
					i := img.PixOffset(sx, sy)
					sumR += k * float64(img.Pix[i])
					sumG += k * float64(img.Pix[i+1])
					sumB += k * float64(img.Pix[i+2])
					weight += k
				}
			}
			o := out.PixOffset(x, y)
			out.Pix[o] = clamp8(sumR / weight)
			out.Pix[o+1] = clamp8(sumG / weight)
			out.Pix[o+2] = clamp8(sumB / weight)
			out.Pix[o+3] = img.Pix[img.PixOffset(x, y)+3]
		}
	}
	return out
}

// coverThumbnail scales so the short side matches size, then center-crops to
// a size x size square.
func coverThumbnail(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if size <= 0 || w == 0 || h == 0 {
		return img
	}

	shortest := w
	if h < w {
		shortest = h
	}
	scale := float64(size) / float64(shortest)
	if scale > 1 {
		scale = 1 // never upscale; crop from what we have
	}

	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	scaled := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, xdraw.Src, nil)

	side := size
	if side > nw {
		side = nw
	}
	if side > nh {
		side = nh
	}
	x0 := (nw - side) / 2
	y0 := (nh - side) / 2
	return scaled.SubImage(image.Rect(x0, y0, x0+side, y0+side))
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func rotate90(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(h-1-y, x, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func rotate180(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(w-1-x, h-1-y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func rotate270(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(y, w-1-x, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func flipH(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(w-1-x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func flipV(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(x, h-1-y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
