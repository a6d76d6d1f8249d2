package controller

import (
	"codementor_backend/internal/exam"
	"codementor_backend/internal/service"
	"codementor_backend/internal/util"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AIController struct {
	AIService   *service.AIService
	TestService *service.TestService
}

func NewAIController(aiService *service.AIService, testService *service.TestService) *AIController {
	return &AIController{
		AIService:   aiService,
		TestService: testService,
	}
}

// ChatRequest 助教对话请求
type ChatRequest struct {
	Message string                  `json:"message" binding:"required"`
	History []service.AIChatMessage `json:"history"`
}

// Chat godoc
// @Summary AI 助教问答
// @Tags AI
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChatRequest true "问题与历史"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 502 {object} util.Response "AI 服务错误"
// @Router /api/ai/chat [post]
func (c *AIController) Chat(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	messages := append(req.History, service.AIChatMessage{Role: "user", Content: req.Message})
	reply, err := c.AIService.Chat(ctx.Request.Context(),
		"You are a patient programming tutor. Only answer questions about programming and this platform's courses.",
		messages)
	if err != nil {
		util.Error(ctx, 502, err.Error())
		return
	}
	util.Success(ctx, gin.H{"reply": reply})
}

// ExplainAttempt godoc
// @Summary 对测验结果生成学习建议
// @Tags AI
// @Produce  json
// @Security ApiKeyAuth
// @Param   attemptId path string true "测验记录ID"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 404 {object} util.Response "记录不存在"
// @Failure 502 {object} util.Response "AI 服务错误"
// @Router /api/ai/attempts/{attemptId}/feedback [post]
func (c *AIController) ExplainAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.TestService.GetAttempt(claims.UserID, ctx.Param("attemptId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, util.ErrAttemptNotYours) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	test, err := c.TestService.GetTest(attempt.TestID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	var breakdown []exam.QuestionResult
	if err := json.Unmarshal(attempt.QuestionResults, &breakdown); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	result := &exam.Result{
		TestID:          attempt.TestID,
		Completed:       true,
		Score:           attempt.Score,
		TotalPoints:     attempt.TotalPoints,
		EarnedPoints:    attempt.EarnedPoints,
		Passed:          attempt.Passed,
		QuestionResults: breakdown,
	}

	feedback, err := c.AIService.ExplainResult(ctx.Request.Context(), test.Language, result)
	if err != nil {
		util.Error(ctx, 502, err.Error())
		return
	}
	util.Success(ctx, gin.H{"feedback": feedback})
}
