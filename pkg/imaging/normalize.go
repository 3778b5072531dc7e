// Package imaging normalizes and deterministically samples a room's (or
// house's) raw image bytes before they are handed to any inference
// stage: EXIF-correct orientation, bound the long edge, and recompress as
// JPEG at a stage-appropriate quality.
package imaging

import (
	"bytes"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
)

// maxPixelsWarnThreshold matches the original preprocessor's 50-megapixel
// guard: above this, the source is logged as unusually large but still
// processed (it will simply be downscaled hard by the edge bound below).
const maxPixelsWarnThreshold = 50_000_000

// Normalize fixes EXIF orientation, bounds the image's long edge to
// maxEdge (only ever shrinking, never upscaling), and recompresses the
// result as a JPEG at the given quality (1-100).
//
// On any decode/encode failure, Normalize logs a warning and returns the
// original bytes unchanged — a malformed or unusual source image should
// never abort the pipeline, it should just pass through unoptimized.
func Normalize(data []byte, maxEdge, quality int) []byte {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		slog.Warn("failed to decode image, passing through original bytes", "error", err)
		return data
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if pixels := w * h; pixels > maxPixelsWarnThreshold {
		slog.Warn("image exceeds size guard, will be heavily downscaled", "width", w, "height", h)
	}

	img = fitLongEdge(img, w, h, maxEdge)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		slog.Warn("failed to encode normalized image, passing through original bytes", "error", err)
		return data
	}

	return buf.Bytes()
}

// fitLongEdge shrinks img so its longer edge is at most maxEdge,
// preserving aspect ratio. Images already within bounds are returned
// unchanged — this only ever downscales, matching PIL's thumbnail()
// semantics in the original preprocessor.
func fitLongEdge(img image.Image, w, h, maxEdge int) image.Image {
	longEdge := w
	if h > longEdge {
		longEdge = h
	}
	if longEdge <= maxEdge {
		return img
	}

	if w >= h {
		return imaging.Resize(img, maxEdge, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, maxEdge, imaging.Lanczos)
}
