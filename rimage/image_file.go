package rimage

import (
	"bufio"
	"bytes"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/lmittmann/ppm"
	"github.com/pkg/errors"
	"github.com/xfmoulet/qoi"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/camxform/utils"
)

// JPEGQuality is the quality used when encoding jpegs.
var JPEGQuality = 95

// EncodeImage encodes img in the format named by mimeType.
func EncodeImage(w io.Writer, img image.Image, mimeType string) error {
	switch mimeType {
	case utils.MimeTypePNG:
		return imaging.Encode(w, img, imaging.PNG)
	case utils.MimeTypeJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	case utils.MimeTypePPM:
		return ppm.Encode(w, img)
	case utils.MimeTypeQOI:
		return qoi.Encode(w, img)
	default:
		return errors.Errorf("do not know how to encode %q", mimeType)
	}
}

// DecodeImage decodes an image in the format named by mimeType.
func DecodeImage(r io.Reader, mimeType string) (image.Image, error) {
	switch mimeType {
	case utils.MimeTypePNG, utils.MimeTypeJPEG:
		return imaging.Decode(r)
	case utils.MimeTypePPM:
		return ppm.Decode(r)
	case utils.MimeTypeQOI:
		return qoi.Decode(r)
	default:
		return nil, errors.Errorf("do not know how to decode %q", mimeType)
	}
}

// EncodeImageBytes is EncodeImage into memory.
func EncodeImageBytes(img image.Image, mimeType string) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, mimeType); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadImageFromFile reads an image, picking the decoder from the file extension.
func ReadImageFromFile(path string) (image.Image, error) {
	mimeType := utils.MimeTypeFromPath(path)
	if mimeType == "" {
		return nil, errors.Errorf("cannot tell the image type of %q", path)
	}
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	img, err := DecodeImage(bufio.NewReader(f), mimeType)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decode %q", path)
	}
	return img, nil
}

// WriteImageToFile writes an image, picking the encoder from the file extension. Missing
// parent directories are created.
func WriteImageToFile(path string, img image.Image) (err error) {
	mimeType := utils.MimeTypeFromPath(path)
	if mimeType == "" {
		return errors.Errorf("cannot tell the image type of %q", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	w := bufio.NewWriter(f)
	if err := EncodeImage(w, img, mimeType); err != nil {
		return errors.Wrapf(err, "cannot encode %q", path)
	}
	return w.Flush()
}
