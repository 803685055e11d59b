package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/studyhub-ai/internal/controller"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/lshigami/studyhub-ai/internal/service"
	"github.com/rs/zerolog/log"
)

type GenerationController struct {
	generationService service.GenerationService
}

func NewGenerationController(generationService service.GenerationService) *GenerationController {
	return &GenerationController{generationService: generationService}
}

func (c *GenerationController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.POST("/generate-test-custom", c.GenerateCustomTest)
	api.POST("/generate-test", c.GenerateTopicTest)
}

// GenerateCustomTest godoc
// @Summary Generate a test for a learner profile
// @Description Questions are generated in batches of five; failed batches are skipped.
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.GenerateCustomTestRequest true "Learner profile and test settings"
// @Success 200 {object} dto.QuestionsEnvelope
// @Failure 400 {object} dto.QuestionsEnvelope "Invalid input data"
// @Failure 502 {object} dto.QuestionsEnvelope "No batch produced questions"
// @Failure 500 {object} dto.QuestionsEnvelope "Internal server error"
// @Router /generate-test-custom [post]
func (c *GenerationController) GenerateCustomTest(ctx *gin.Context) {
	var req dto.GenerateCustomTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("GenerateCustomTest: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.QuestionsEnvelope{Status: dto.StatusError, Message: err.Error()})
		return
	}

	questions, err := c.generationService.GenerateCustom(ctx.Request.Context(), req)
	writeQuestions(ctx, questions, err)
}

// GenerateTopicTest godoc
// @Summary Generate a test around a theme
// @Description Options of every generated question are shuffled before they are returned.
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.GenerateTopicTestRequest true "Theme and test settings"
// @Success 200 {object} dto.QuestionsEnvelope
// @Failure 400 {object} dto.QuestionsEnvelope "Invalid input data"
// @Failure 502 {object} dto.QuestionsEnvelope "No batch produced questions"
// @Failure 500 {object} dto.QuestionsEnvelope "Internal server error"
// @Router /generate-test [post]
func (c *GenerationController) GenerateTopicTest(ctx *gin.Context) {
	var req dto.GenerateTopicTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("GenerateTopicTest: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.QuestionsEnvelope{Status: dto.StatusError, Message: err.Error()})
		return
	}

	questions, err := c.generationService.GenerateByTopic(ctx.Request.Context(), req)
	writeQuestions(ctx, questions, err)
}

func writeQuestions(ctx *gin.Context, questions []dto.GeneratedQuestion, err error) {
	if err != nil {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Question generation failed")
		ctx.JSON(controller.StatusFor(err), dto.QuestionsEnvelope{Status: dto.StatusError, Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.QuestionsEnvelope{Status: dto.StatusSuccess, Data: questions})
}
