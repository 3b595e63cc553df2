package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ObjectReader is the read side of a photo store kept in process.
type ObjectReader interface {
	Open(key string) ([]byte, string, bool)
}

// UploadHandler serves photos from the in-memory store at the public URLs it
// hands out. With S3 storage the bucket serves them and this is not mounted.
type UploadHandler struct {
	objects ObjectReader
}

func NewUploadHandler(objects ObjectReader) *UploadHandler {
	return &UploadHandler{objects: objects}
}

// Serve handles GET /uploads/*key
func (h *UploadHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	data, contentType, ok := h.objects.Open(key)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "object not found"})
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}
