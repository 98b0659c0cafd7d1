package photo

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register gif
	"image/jpeg"
	_ "image/png" // register png
	"io"

	"golang.org/x/image/draw"
)

const (
	// MaxDimension bounds the longer side of a stored photo.
	MaxDimension = 256
	// MaxPixels bounds the declared size of an upload before it is decoded.
	MaxPixels     = 40_000_000
	jpegQuality   = 85
	dataURIPrefix = "data:image/jpeg;base64,"
)

var (
	ErrTooLarge    = errors.New("photo exceeds the upload size limit")
	ErrUnsupported = errors.New("photo must be a PNG, JPEG or GIF image")
	ErrDimensions  = fmt.Errorf("%w: image dimensions out of range", ErrTooLarge)
)

// Normalize decodes an uploaded image, scales it to fit MaxDimension, and
// returns it as a JPEG data URI. Inputs over maxBytes or MaxPixels are rejected.
func Normalize(r io.Reader, maxBytes int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", ErrTooLarge
	}

	// the header is enough to refuse images whose pixel buffer would not fit
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrUnsupported
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", ErrDimensions
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrUnsupported
	}

	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), MaxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// JPEG has no alpha; flatten transparent areas onto white
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode photo: %w", err)
	}

	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// fit scales w×h down to fit a limit×limit box, keeping the aspect ratio.
func fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return max(w, 1), max(h, 1)
	}
	if w >= h {
		return limit, max(h*limit/w, 1)
	}
	return max(w*limit/h, 1), limit
}
