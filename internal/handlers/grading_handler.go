package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/services"
	"github.com/SAP-F-2025/courseware-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type GradingHandler struct {
	BaseHandler
	gradingService services.GradingService
	exportService  services.ExportService
}

type GradeSubmissionRequest struct {
	StudentID  string            `json:"student_id"`
	Submission models.Submission `json:"submission"`
}

func NewGradingHandler(
	gradingService services.GradingService,
	exportService services.ExportService,
	logger utils.Logger,
) *GradingHandler {
	return &GradingHandler{
		BaseHandler:    NewBaseHandler(logger),
		gradingService: gradingService,
		exportService:  exportService,
	}
}

// GradeSubmission scores one submission against a quiz's answer key
func (h *GradingHandler) GradeSubmission(c *gin.Context) {
	quizID := h.parseIDParam(c, "quiz_id")
	if quizID == 0 {
		return
	}

	var req GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Grading submission",
		"quiz_id", quizID,
		"student_id", req.StudentID,
		"answers", len(req.Submission))

	result, err := h.gradingService.GradeQuiz(c.Request.Context(), quizID, req.StudentID, req.Submission)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: result})
}

// ValidateQuizConfig checks a quiz's questions and answer key for authoring
// mistakes before the quiz goes live
func (h *GradingHandler) ValidateQuizConfig(c *gin.Context) {
	quizID := h.parseIDParam(c, "quiz_id")
	if quizID == 0 {
		return
	}

	h.LogRequest(c, "Validating quiz configuration", "quiz_id", quizID)

	if err := h.gradingService.ValidateQuizConfiguration(c.Request.Context(), quizID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Quiz configuration is valid"})
}

// ExportScoreReport grades one submission and streams the score report in
// the requested format (xlsx default, csv on ?format=csv)
func (h *GradingHandler) ExportScoreReport(c *gin.Context) {
	quizID := h.parseIDParam(c, "quiz_id")
	if quizID == 0 {
		return
	}

	var req GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Exporting score report", "quiz_id", quizID, "student_id", req.StudentID)

	result, questions, err := h.gradingService.GradeQuizWithQuestions(c.Request.Context(), quizID, req.StudentID, req.Submission)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		data, err := h.exportService.ExportResultToCSV(result, questions)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="score-report.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
		return
	}

	data, err := h.exportService.ExportResultToExcel(result, questions)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="score-report.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
