package images

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// extensionByContentType whitelists accepted upload types.
var extensionByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Processor validates uploaded profile images and stores them with a
// generated filename and a BlurHash placeholder.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	return &Processor{
		storage: storage,
		logger:  logger,
	}
}

// SupportedContentType reports whether uploads of the given content type
// are accepted.
func SupportedContentType(contentType string) bool {
	_, ok := extensionByContentType[normalizeContentType(contentType)]
	return ok
}

// Process validates the upload, computes its BlurHash, and writes it to
// storage under a fresh UUID filename. Returns the relative picture path
// ({subdir}/{uuid}{ext}) and the BlurHash.
func (p *Processor) Process(imgData []byte, contentType string) (picturePath, blurHash string, err error) {
	ext, ok := extensionByContentType[normalizeContentType(contentType)]
	if !ok {
		return "", "", fmt.Errorf("unsupported content type: %s", contentType)
	}

	// Decoding doubles as validation that the payload really is an image.
	blurHash, err = ComputeBlurHash(imgData)
	if err != nil {
		return "", "", fmt.Errorf("process image: %w", err)
	}

	filename := uuid.NewString() + ext
	if err := p.storage.Save(filename, imgData); err != nil {
		return "", "", err
	}

	p.logger.Debug("stored profile image",
		"subdir", p.storage.Subdir(),
		"filename", filename,
		"size", len(imgData),
	)

	return p.storage.Subdir() + "/" + filename, blurHash, nil
}

// Remove deletes a stored image by its relative picture path.
func (p *Processor) Remove(picturePath string) error {
	if picturePath == "" {
		return nil
	}
	return p.storage.Delete(picturePath)
}

// normalizeContentType strips parameters and lowercases a Content-Type value.
func normalizeContentType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
