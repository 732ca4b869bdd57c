package validation

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
)

// multipartBuffer covers form fields and multipart framing on top of the file itself.
const multipartBuffer = 1 << 20

// ValidateAndParseMultipart caps the request body and parses the multipart form.
// Exceeding the cap makes the server stop reading; browsers then report a
// connection reset instead of rendering our error page.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxFileSize int64) error {
	maxSize := CalculateMaxRequestSize(maxFileSize, multipartBuffer)
	if r.ContentLength > maxSize {
		return fmt.Errorf("%w: limit is %.1f MB", ErrPayloadTooLarge, FormatSizeMB(maxFileSize))
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			return fmt.Errorf("%w: limit is %.1f MB", ErrPayloadTooLarge, FormatSizeMB(maxFileSize))
		}
		return fmt.Errorf("%w: %v", ErrMalformedForm, err)
	}
	return nil
}

// CalculateMaxRequestSize returns the maximum request size including overhead buffer.
func CalculateMaxRequestSize(maxAttachmentSize int64, bufferSize int64) int64 {
	return maxAttachmentSize + bufferSize
}

// FormatSizeMB converts bytes to megabytes for user-friendly error messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
