// Package qr defines the boundary to the screenshot and QR-decoding
// collaborator. The vault core consumes only the resulting otpauth URI
// string and never touches window or display APIs; a build without a
// capture backend simply wires a nil Source and falls back to pasting
// the URI by hand.
package qr

import (
	"context"
	"errors"
	"image"
)

// ErrUnavailable is returned by backends that cannot capture on the
// current platform or display server.
var ErrUnavailable = errors.New("qr capture unavailable")

// Region is a rectangle within a captured image, in pixels.
type Region struct {
	X, Y, Width, Height int
}

// Source captures the screen and decodes QR codes out of the capture.
// Decode methods return the raw otpauth URI exactly as encoded; parsing
// and validation stay with the vault core.
type Source interface {
	// Capture grabs the current screen contents.
	Capture(ctx context.Context) (image.Image, error)

	// DecodeAuto scans the whole image for a QR code.
	DecodeAuto(ctx context.Context, img image.Image) (string, error)

	// DecodeRegion scans only the given rectangle, for screens showing
	// more than one code.
	DecodeRegion(ctx context.Context, img image.Image, region Region) (string, error)
}
