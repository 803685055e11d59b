package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/studyhub-ai/internal/controller"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/lshigami/studyhub-ai/internal/service"
	"github.com/rs/zerolog/log"
)

type UserTestController struct {
	customTestService service.CustomTestService
}

func NewUserTestController(customTestService service.CustomTestService) *UserTestController {
	return &UserTestController{customTestService: customTestService}
}

func (c *UserTestController) RegisterRoutes(router *gin.Engine) {
	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.POST("/tests/custom", c.CreateCustomTest)
		userAPIGroup.GET("/tests/:test_id/questions", c.GetTestQuestions)
		userAPIGroup.GET("/tests/:test_id/attempts", c.GetTestAttempts) // optional ?user_id=
		userAPIGroup.POST("/attempts", c.SubmitAttempt)
	}
}

// CreateCustomTest godoc
// @Summary Build a custom test from the question bank
// @Description Draws from the bank by CEFR range and preferred tags, tops up missing questions from the model and stores the test.
// @Tags Custom Tests
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomTestRequest true "Learner profile and preferences"
// @Success 200 {object} dto.CustomTestSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 502 {object} dto.ErrorResponse "Neither the bank nor the model supplied questions"
// @Failure 503 {object} dto.ErrorResponse "No document store configured"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tests/custom [post]
func (c *UserTestController) CreateCustomTest(ctx *gin.Context) {
	var req dto.CreateCustomTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateCustomTest: Failed to bind JSON")
		controller.AbortWithBindError(ctx, err)
		return
	}

	resp, err := c.customTestService.CreateCustomTest(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("CreateCustomTest: Service error")
		controller.AbortWithServiceError(ctx, "Failed to create custom test", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetTestQuestions godoc
// @Summary Get the questions of a custom test without answers
// @Tags Custom Tests
// @Produce json
// @Param test_id path string true "Test ID"
// @Success 200 {object} dto.TestQuestionsDTO
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 503 {object} dto.ErrorResponse "No document store configured"
// @Router /tests/{test_id}/questions [get]
func (c *UserTestController) GetTestQuestions(ctx *gin.Context) {
	testID := ctx.Param("test_id")

	resp, err := c.customTestService.GetTestQuestions(ctx.Request.Context(), testID)
	if err != nil {
		log.Warn().Err(err).Str("testID", testID).Msg("GetTestQuestions: Service error")
		controller.AbortWithServiceError(ctx, "Test not available", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetTestAttempts godoc
// @Summary List graded attempts of a custom test
// @Tags Custom Tests
// @Produce json
// @Param test_id path string true "Test ID"
// @Param user_id query string false "Only attempts of this user"
// @Success 200 {array} dto.AttemptResultDTO
// @Failure 503 {object} dto.ErrorResponse "No document store configured"
// @Router /tests/{test_id}/attempts [get]
func (c *UserTestController) GetTestAttempts(ctx *gin.Context) {
	testID := ctx.Param("test_id")
	var userID *string
	if u, ok := ctx.GetQuery("user_id"); ok && u != "" {
		userID = &u
	}

	attempts, err := c.customTestService.ListAttempts(ctx.Request.Context(), testID, userID)
	if err != nil {
		log.Error().Err(err).Str("testID", testID).Msg("GetTestAttempts: Service error")
		controller.AbortWithServiceError(ctx, "Failed to list attempts", err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// SubmitAttempt godoc
// @Summary Submit and grade an attempt of a custom test
// @Tags Custom Tests
// @Accept json
// @Produce json
// @Param request body dto.SubmitAttemptRequest true "MCQ and gap-fill answers"
// @Success 200 {object} dto.AttemptResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 503 {object} dto.ErrorResponse "No document store configured"
// @Router /attempts [post]
func (c *UserTestController) SubmitAttempt(ctx *gin.Context) {
	var req dto.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAttempt: Failed to bind JSON")
		controller.AbortWithBindError(ctx, err)
		return
	}

	resp, err := c.customTestService.SubmitAttempt(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("testID", req.TestID).Msg("SubmitAttempt: Service error")
		controller.AbortWithServiceError(ctx, "Failed to submit attempt", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
