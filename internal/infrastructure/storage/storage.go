package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const photoPrefix = "user-photos"

// Object is a stored upload.
type Object struct {
	PublicURL   string `json:"public_url"`
	StoragePath string `json:"storage_path"`
}

// PhotoKey builds the storage path for a new profile photo.
func PhotoKey(authUserID string, at time.Time, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "jpg"
	}
	return path.Join(photoPrefix, authUserID, fmt.Sprintf("%d_%s.%s", at.Unix(), uuid.NewString(), ext))
}

func publicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + key
}
