package handlers

import (
	"github.com/SAP-F-2025/courseware-service/internal/services"
	"github.com/SAP-F-2025/courseware-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	coursewareHandler *CoursewareHandler
	gradingHandler    *GradingHandler
}

func NewHandlerManager(
	session *services.SessionManager,
	gradingService services.GradingService,
	exportService services.ExportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		coursewareHandler: NewCoursewareHandler(session, logger),
		gradingHandler:    NewGradingHandler(gradingService, exportService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Chapter viewer routes
		chapters := v1.Group("/chapters")
		{
			chapters.GET("/:chapter_id/area-map", hm.coursewareHandler.GetAreaMap)
			chapters.POST("/:chapter_id/session", hm.coursewareHandler.OpenSession)
		}

		// Selection cascade routes (current session)
		selection := v1.Group("/selection")
		{
			selection.GET("", hm.coursewareHandler.GetSelection)
			selection.PUT("/model/:model_id", hm.coursewareHandler.SelectModel)
			selection.PUT("/texture", hm.coursewareHandler.SelectTexture)
			selection.PUT("/area", hm.coursewareHandler.SelectArea)
		}

		// Grading routes
		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("/:quiz_id/validation", hm.gradingHandler.ValidateQuizConfig)
			quizzes.POST("/:quiz_id/grade", hm.gradingHandler.GradeSubmission)
			quizzes.POST("/:quiz_id/grade/report", hm.gradingHandler.ExportScoreReport)
		}
	}
}
