package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/studyhub-ai/internal/controller"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/lshigami/studyhub-ai/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminQuestionController struct {
	customTestService service.CustomTestService
}

func NewAdminQuestionController(customTestService service.CustomTestService) *AdminQuestionController {
	return &AdminQuestionController{customTestService: customTestService}
}

func (c *AdminQuestionController) RegisterRoutes(router *gin.Engine) {
	adminAPIGroup := router.Group("/api/v1/admin")
	adminAPIGroup.POST("/questions", c.UpsertQuestion)
}

// UpsertQuestion godoc
// @Summary (Admin) Add or replace a question bank entry
// @Description Inserts the question, or replaces the one with the same id. An id is generated when absent.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param question body dto.BankQuestionDTO true "Question document"
// @Success 200 {object} dto.UpsertResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 503 {object} dto.ErrorResponse "No document store configured"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions [post]
func (c *AdminQuestionController) UpsertQuestion(ctx *gin.Context) {
	var req dto.BankQuestionDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin UpsertQuestion: Failed to bind JSON")
		controller.AbortWithBindError(ctx, err)
		return
	}

	id, err := c.customTestService.UpsertQuestion(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("questionID", req.ID).Msg("Admin UpsertQuestion: Service error")
		controller.AbortWithServiceError(ctx, "Failed to save question", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.UpsertResponse{Status: dto.StatusOK, ID: id})
}
