package ingest

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"healthtrack-backend/internal/shared/server/middleware"
	"healthtrack-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts the upload endpoint on the documents group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.upload)
}

// upload accepts one or more files under the multipart field "files". The
// response is {"success":true} or a generic failure; extraction details never
// leak to the client.
func (h *Handler) upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "multipart form required", nil)
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		respond.Error(c, http.StatusBadRequest, "bad_request", "at least one file is required", nil)
		return
	}

	files := make([]UploadFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "bad_request", "unreadable file "+header.Filename, nil)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "bad_request", "unreadable file "+header.Filename, nil)
			return
		}
		files = append(files, UploadFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.ProcessUpload(c.Request.Context(), userID, files); err != nil {
		respond.JSON(c, http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to process document",
		})
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"success": true})
}
