package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/courseware-service/internal/services"
	"github.com/SAP-F-2025/courseware-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// CoursewareHandler exposes the area map and the selection cascade of the
// current viewer session.
type CoursewareHandler struct {
	BaseHandler
	session *services.SessionManager
}

func NewCoursewareHandler(session *services.SessionManager, logger utils.Logger) *CoursewareHandler {
	return &CoursewareHandler{
		BaseHandler: NewBaseHandler(logger),
		session:     session,
	}
}

type SelectTextureRequest struct {
	TextureID string `json:"texture_id"`
}

type SelectAreaRequest struct {
	// nil clears the highlight
	HexColor *string `json:"hex_color"`
}

// GetAreaMap builds and returns the area map for one chapter
func (h *CoursewareHandler) GetAreaMap(c *gin.Context) {
	chapterID := h.parseIDParam(c, "chapter_id")
	if chapterID == 0 {
		return
	}

	h.LogRequest(c, "Building area map", "chapter_id", chapterID)

	areas, err := h.session.BuildAreaMap(c.Request.Context(), chapterID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: areas})
}

// OpenSession initializes the selection cascade for one chapter
func (h *CoursewareHandler) OpenSession(c *gin.Context) {
	chapterID := h.parseIDParam(c, "chapter_id")
	if chapterID == 0 {
		return
	}

	h.LogRequest(c, "Opening viewer session", "chapter_id", chapterID)

	state, err := h.session.Open(c.Request.Context(), chapterID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: state})
}

// GetSelection returns the current selection state and its derived lists
func (h *CoursewareHandler) GetSelection(c *gin.Context) {
	view, err := h.session.SelectionView()
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: view})
}

// SelectModel switches the cascade to another model
func (h *CoursewareHandler) SelectModel(c *gin.Context) {
	modelID := c.Param("model_id")

	h.LogRequest(c, "Selecting model", "model_id", modelID)

	view, err := h.session.SelectModel(modelID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: view})
}

// SelectTexture switches the texture of the current model
func (h *CoursewareHandler) SelectTexture(c *gin.Context) {
	var req SelectTextureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Selecting texture", "texture_id", req.TextureID)

	view, err := h.session.SelectTexture(req.TextureID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: view})
}

// SelectArea highlights one area or clears the highlight
func (h *CoursewareHandler) SelectArea(c *gin.Context) {
	var req SelectAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Selecting area")

	view, err := h.session.SelectArea(req.HexColor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: view})
}
