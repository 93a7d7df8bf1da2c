// Package imaging validates and bounds user-supplied project images before
// they are handed to the model provider. Inputs arrive as base64 payloads,
// optionally wrapped in a data URI; outputs are always a bare base64
// payload without a header prefix.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/png"

	"github.com/kolesa-team/go-webp/decoder"
	"github.com/kolesa-team/go-webp/webp"
)

const (
	// MaxPayloadBytes is the decoded size threshold; larger images are
	// recompressed before being accepted.
	MaxPayloadBytes = 4 << 20

	// MaxDimension bounds the longer edge after recompression.
	MaxDimension = 1600

	jpegQuality = 80
)

var (
	ErrInvalidPayload  = errors.New("image payload is not valid base64 image data")
	ErrUnsupportedType = errors.New("unsupported image type: use JPEG, PNG, or WebP")
	ErrTooLarge        = errors.New("image is too large even after recompression")
)

// IsValidationError reports whether err is the caller's fault (bad or
// oversized input) rather than an internal failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidPayload) ||
		errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrTooLarge)
}

// Normalize validates the payload against the MIME allow-list and the size
// threshold, recompressing oversized images down to a bounded JPEG.
func Normalize(payload string) (string, error) {
	raw, err := decodePayload(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if !isJPEG(raw) && !isPNG(raw) && !isWEBP(raw) {
		return "", ErrUnsupportedType
	}

	if len(raw) <= MaxPayloadBytes {
		return base64.StdEncoding.EncodeToString(raw), nil
	}

	img, err := decodeImage(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, shrink(img), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("recompress image: %w", err)
	}
	if out.Len() > MaxPayloadBytes {
		return "", ErrTooLarge
	}

	return base64.StdEncoding.EncodeToString(out.Bytes()), nil
}

// decodePayload strips an optional data-URI header and decodes the base64
// body. The original front end sent the split payload but full data URIs
// show up too.
func decodePayload(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		const marker = ";base64,"
		idx := strings.Index(payload, marker)
		if idx < 0 {
			return nil, errors.New("data URI missing base64 marker")
		}
		payload = payload[idx+len(marker):]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("empty image payload")
	}
	return raw, nil
}

func decodeImage(data []byte) (image.Image, error) {
	if isWEBP(data) {
		return webp.Decode(bytes.NewReader(data), &decoder.Options{})
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

func isJPEG(data []byte) bool {
	return len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF
}

func isPNG(data []byte) bool {
	if len(data) < 8 {
		return false
	}
	return bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
}

func isWEBP(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	return string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

// shrink scales the image so neither edge exceeds MaxDimension, keeping
// the aspect ratio.
func shrink(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= MaxDimension && h <= MaxDimension {
		return src
	}

	outW, outH := w, h
	if w >= h {
		outW = MaxDimension
		outH = h * MaxDimension / w
	} else {
		outH = MaxDimension
		outW = w * MaxDimension / h
	}
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	return resizeNearest(src, outW, outH)
}

func resizeNearest(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	b := src.Bounds()
	srcW := b.Dx()
	srcH := b.Dy()
	if srcW <= 0 || srcH <= 0 {
		return dst
	}

	for y := 0; y < height; y++ {
		srcY := b.Min.Y + (y*srcH)/height
		for x := 0; x < width; x++ {
			srcX := b.Min.X + (x*srcW)/width
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}
	return dst
}
