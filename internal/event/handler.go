package event

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ihost-app/ihost-backend/internal/discovery"
	"github.com/ihost-app/ihost-backend/middleware"
)

// Uploader stores raw image bytes and returns a public URL.
type Uploader interface {
	Upload(filename string, data []byte, contentType string) (string, error)
}

type Handler struct {
	Service  *Service
	Uploader Uploader
}

func NewHandler(s *Service, uploader Uploader) *Handler {
	return &Handler{Service: s, Uploader: uploader}
}

// parseCoordinate reads the viewer's position from lat/lon query params.
// Missing or malformed params mean "location unavailable", which the
// nearby feed rejects but the detail view tolerates.
func parseCoordinate(c *gin.Context) *discovery.Coordinate {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return nil
	}
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lon, err2 := strconv.ParseFloat(lonStr, 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	return &discovery.Coordinate{Latitude: lat, Longitude: lon}
}

// =============================
// 📍 GET /events/nearby
func (h *Handler) Nearby(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	feed, err := h.Service.Nearby(c.Request.Context(), user, parseCoordinate(c))
	if err != nil {
		if errors.Is(err, discovery.ErrLocationUnavailable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "location unavailable: pass lat and lon query params"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load nearby events"})
		return
	}

	c.JSON(http.StatusOK, feed)
}

// =============================
// 🎯 POST /events
func (h *Handler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := h.Service.Create(c.Request.Context(), &req, user)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCategory),
			errors.Is(err, ErrPriceMismatch),
			errors.Is(err, ErrMissingSchedules),
			errors.Is(err, ErrInvalidSchedule):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": e})
}

// =============================
// 🔍 GET /events/:id
func (h *Handler) Get(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	detail, err := h.Service.Detail(c.Request.Context(), uint(id), user, parseCoordinate(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// =============================
// 🗑️ DELETE /events/:id
func (h *Handler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := h.Service.Delete(c.Request.Context(), uint(id), user); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotHost):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

// =============================
// 🎟️ POST /events/:id/register
func (h *Handler) Register(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.Register(c.Request.Context(), uint(id), user, req.Date); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrAlreadyRegistered), errors.Is(err, ErrEventFull):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrHostRegistration):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registered"})
}

// =============================
// ❤️ POST /events/:id/like
func (h *Handler) ToggleLike(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	liked, count, err := h.Service.ToggleLike(c.Request.Context(), uint(id), user)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle like"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes_count": count})
}

// =============================
// 🏠 GET /events/hosted
func (h *Handler) Hosted(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	upcoming, past, err := h.Service.HostedBy(c.Request.Context(), user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load hosted events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"upcoming": upcoming, "past": past})
}

// =============================
// 🎟️ GET /events/attended
func (h *Handler) Attended(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	events, err := h.Service.AttendedBy(c.Request.Context(), user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load attended events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// =============================
// 🖼️ POST /events/images
//
// Accepts a multipart image and returns its public URL; clients call this
// before creating the event and pass the URLs along.
func (h *Handler) UploadImage(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
		return
	}

	url, err := h.Uploader.Upload(fileHeader.Filename, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
