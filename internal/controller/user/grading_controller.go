package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/studyhub-ai/internal/controller"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/lshigami/studyhub-ai/internal/service"
	"github.com/rs/zerolog/log"
)

type GradingController struct {
	gradingService service.GradingService
	recommender    service.Recommender
}

func NewGradingController(gradingService service.GradingService, recommender service.Recommender) *GradingController {
	return &GradingController{gradingService: gradingService, recommender: recommender}
}

func (c *GradingController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.POST("/grade", c.Grade)
	api.POST("/recommend", c.Recommend)
}

// Grade godoc
// @Summary Grade answers and optionally add an AI study plan
// @Description Grading is local and deterministic. With use_gemini the result is enriched; if that fails the response is still 200 with post_test_level "Unknown (AI Error)".
// @Tags Grading
// @Accept json
// @Produce json
// @Param request body dto.GradeRequest true "Answer key, answers and optional profile"
// @Success 200 {object} dto.GradeResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed answer key"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /grade [post]
func (c *GradingController) Grade(ctx *gin.Context) {
	var req dto.GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Grade: Failed to bind JSON")
		controller.AbortWithBindError(ctx, err)
		return
	}

	resp, err := c.gradingService.Grade(ctx.Request.Context(), req)
	if err != nil {
		log.Warn().Err(err).Int("questions", len(req.AnswerKey)).Msg("Grade: Service error")
		controller.AbortWithServiceError(ctx, "Failed to grade answers", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Recommend godoc
// @Summary Recommend a learning path from similar students
// @Tags Grading
// @Accept json
// @Produce json
// @Param request body dto.RecommendRequest true "Study time and six skill scores"
// @Success 200 {object} dto.RecommendResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 503 {object} dto.ErrorResponse "Recommender dataset not loaded"
// @Router /recommend [post]
func (c *GradingController) Recommend(ctx *gin.Context) {
	var req dto.RecommendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Recommend: Failed to bind JSON")
		controller.AbortWithBindError(ctx, err)
		return
	}

	resp, err := c.recommender.Recommend(req.Features())
	if err != nil {
		log.Error().Err(err).Msg("Recommend: Service error")
		controller.AbortWithServiceError(ctx, "Recommendation unavailable", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
