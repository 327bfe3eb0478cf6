package markers

import (
	"errors"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.addManual)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.remove)
	rg.GET("/timelines", h.timelines)
	rg.GET("/timelines/:name", h.timelineByName)
}

func (h *Handler) addManual(c *gin.Context) {
	var req addMarkerRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "name and value are required", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	marker, err := h.Svc.AddManual(c.Request.Context(), userID, req.Name, req.Value)
	if err != nil {
		if errors.Is(err, ErrUnknownMarker) {
			respond.Error(c, http.StatusBadRequest, "invalid_marker", "invalid marker type", gin.H{
				"allowed": ManualMarkerNames(),
			})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to add marker", nil)
		return
	}
	respond.Created(c, marker)
}

func (h *Handler) update(c *gin.Context) {
	var req updateMarkerRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "value and date are required", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), req.Value)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "marker not found or unauthorized", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update marker", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"success": true, "message": "Marker updated successfully"})
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "marker not found or unauthorized", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete marker", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"success": true, "message": "Marker deleted successfully"})
}

func (h *Handler) timelines(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	timelines, err := h.Svc.Timelines(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load timelines", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"timelines": timelines})
}

func (h *Handler) timelineByName(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	timeline, err := h.Svc.TimelineByName(c.Request.Context(), userID, c.Param("name"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "no markers with this name", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load timeline", nil)
		return
	}
	respond.JSON(c, http.StatusOK, timeline)
}
