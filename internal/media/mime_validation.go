package media

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// sniffLen matches the number of bytes http.DetectContentType inspects.
const sniffLen = 512

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func allowedImageDescription() string {
	return "JPEG, PNG, or WebP images"
}

// detectImageType sniffs the leading bytes and returns the canonical mime
// type plus the extension used for the stored object.
func detectImageType(head []byte) (string, string, error) {
	detected := http.DetectContentType(head)
	mediaType, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return "", "", fmt.Errorf("mime type invalid: %w", err)
	}
	mediaType = strings.ToLower(mediaType)

	ext, ok := allowedImageTypes[mediaType]
	if !ok {
		return "", "", fmt.Errorf("mime type %s is not allowed, upload %s", mediaType, allowedImageDescription())
	}
	return mediaType, ext, nil
}
