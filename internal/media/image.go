package media

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/corona10/goimagehash"
	"github.com/jfk9w-go/flu"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// Fingerprint is a stable content identifier of an attachment payload.
type Fingerprint struct {
	Type  string
	Value string
}

// ImageProcessor computes perceptual fingerprints for supported image
// payloads. A nil ImageProcessor is a valid configuration: the
// deduplicator then falls back to exact content hashing for everything.
type ImageProcessor interface {
	Supports(mimeType string) bool
	Fingerprint(mimeType string, blob flu.Input) (Fingerprint, error)
}

type readImageFunc func(io.Reader) (image.Image, error)

var imageTypes = map[string]readImageFunc{
	"image/jpeg": jpeg.Decode,
	"image/png":  png.Decode,
	"image/bmp":  bmp.Decode,
}

// DifferenceHash fingerprints images with a perceptual difference hash,
// so re-encoded copies of the same picture collide.
type DifferenceHash struct{}

func (DifferenceHash) Supports(mimeType string) bool {
	_, ok := imageTypes[mimeType]
	return ok
}

func (DifferenceHash) Fingerprint(mimeType string, blob flu.Input) (Fingerprint, error) {
	readImage, ok := imageTypes[mimeType]
	if !ok {
		return Fingerprint{}, errors.Errorf("unsupported mime type: %s", mimeType)
	}

	reader, err := blob.Reader()
	if err != nil {
		return Fingerprint{}, errors.Wrap(err, "open blob")
	}

	defer flu.Close(reader)
	img, err := readImage(reader)
	if err != nil {
		return Fingerprint{}, errors.Wrap(err, "read image")
	}

	dhash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return Fingerprint{}, errors.Wrap(err, "get diff hash")
	}

	return Fingerprint{
		Type:  "dhash",
		Value: fmt.Sprintf("%x", dhash.GetHash()),
	}, nil
}
