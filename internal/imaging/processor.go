// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging processes images uploaded for page components: format
// detection, EXIF auto-orientation and an editor preview variant.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Supported upload MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// Preview variant bounds for the editor's media picker.
const (
	previewMaxWidth  = 480
	previewMaxHeight = 480
	previewQuality   = 80
)

// ProcessResult describes a stored upload.
type ProcessResult struct {
	Width       int
	Height      int
	MimeType    string
	Size        int64
	FilePath    string
	PreviewPath string
}

// Processor stores uploads under a base directory using pure Go codecs.
type Processor struct {
	uploadDir string
}

// NewProcessor creates an image processor rooted at uploadDir.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{uploadDir: uploadDir}
}

// ProcessUpload decodes an uploaded image, applies EXIF orientation,
// stores the normalized original under originals/<id>/ and a preview
// variant under previews/<id>/.
func (p *Processor) ProcessUpload(reader io.Reader, id, filename string) (*ProcessResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	bounds := img.Bounds()

	// Pure Go encoders drop EXIF, which also strips location metadata
	// from uploads.
	processed, err := encodeImage(img, format, 95)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	filePath, err := p.saveImageFile(filepath.Join("originals", id), filename, processed)
	if err != nil {
		return nil, fmt.Errorf("saving original image: %w", err)
	}

	previewPath, err := p.savePreview(img, id, filename, format)
	if err != nil {
		return nil, err
	}

	return &ProcessResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		MimeType:    formatToMimeType(format),
		Size:        int64(len(processed)),
		FilePath:    filePath,
		PreviewPath: previewPath,
	}, nil
}

// savePreview stores a downscaled preview. Images already inside the
// preview bounds reuse the original path.
func (p *Processor) savePreview(img image.Image, id, filename, format string) (string, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= previewMaxWidth && bounds.Dy() <= previewMaxHeight {
		return "", nil
	}

	preview := imaging.Fit(img, previewMaxWidth, previewMaxHeight, imaging.Lanczos)
	encoded, err := encodeImage(preview, format, previewQuality)
	if err != nil {
		return "", fmt.Errorf("encoding preview: %w", err)
	}

	path, err := p.saveImageFile(filepath.Join("previews", id), filename, encoded)
	if err != nil {
		return "", fmt.Errorf("saving preview: %w", err)
	}
	return path, nil
}

// DeleteUpload removes the original and preview files for an upload id.
func (p *Processor) DeleteUpload(id string) error {
	for _, dir := range []string{"originals", "previews"} {
		target := filepath.Join(p.uploadDir, dir, id)
		if err := os.RemoveAll(target); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("deleting %s: %w", dir, err)
		}
	}
	return nil
}

// IsSupportedType reports whether a MIME type can be uploaded.
func (p *Processor) IsSupportedType(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

// DetectMimeType sniffs the MIME type of image data.
func (p *Processor) DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// readExifOrientation returns the EXIF orientation tag, or 1 (normal)
// when it cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation normalizes an image per its EXIF orientation value.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image with the given format and quality. WebP
// input is re-encoded as JPEG; pure Go has no WebP encoder.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes. TIFF is
// rejected outright (CVE-2023-36308 in disintegration/imaging).
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return MimeTypeJPEG
	case "png":
		return MimeTypePNG
	case "gif":
		return MimeTypeGIF
	case "webp":
		return MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}

// saveImageFile writes image data under uploadDir/subDir, refusing any
// path that escapes the upload directory.
func (p *Processor) saveImageFile(subDir, filename string, data []byte) (string, error) {
	safeFilename := filepath.Base(filename)
	if safeFilename == "." || safeFilename == ".." || safeFilename == "" {
		return "", fmt.Errorf("invalid filename")
	}

	cleanSubDir := filepath.Clean(subDir)
	if strings.Contains(cleanSubDir, "..") || filepath.IsAbs(cleanSubDir) {
		return "", fmt.Errorf("invalid subdirectory path")
	}

	absBase, err := filepath.Abs(p.uploadDir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}

	absTarget := filepath.Join(absBase, cleanSubDir)
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("path traversal detected")
	}

	if err := os.MkdirAll(absTarget, 0755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	filePath := filepath.Join(absTarget, safeFilename)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return filePath, nil
}
