package controller

import (
	"codementor_backend/internal/exam"
	"codementor_backend/internal/service"
	"codementor_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TestController struct {
	TestService *service.TestService
	AIService   *service.AIService
}

func NewTestController(testService *service.TestService, aiService *service.AIService) *TestController {
	return &TestController{
		TestService: testService,
		AIService:   aiService,
	}
}

// ListTests godoc
// @Summary 已发布测验列表
// @Tags 测验
// @Produce  json
// @Param   language query string false "编程语言"
// @Param   difficulty query string false "难度"
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/tests [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	page, limit := pagination(ctx)
	tests, total, err := c.TestService.ListPublished(ctx.Request.Context(), ctx.Query("language"), ctx.Query("difficulty"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: tests, Total: total, Page: page, Limit: limit})
}

// GetTest godoc
// @Summary 测验详情（考生视图，不含答案）
// @Tags 测验
// @Produce  json
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Test} "Success"
// @Failure 404 {object} util.Response "测验不存在或未发布"
// @Router /api/tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid test id")
		return
	}
	test, err := c.TestService.GetPublishedTest(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, util.ErrTestNotPublished) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, test)
}

// SubmitTestRequest 一次性提交全部作答
type SubmitTestRequest struct {
	Answers []exam.RawAnswer `json:"answers" binding:"required"`
}

// SubmitTest godoc
// @Summary 提交测验作答并评分
// @Description 无状态评分：未作答或形状不符的题按错误计，不会使提交失败
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body SubmitTestRequest true "作答"
// @Success 200 {object} util.Response{data=exam.Result} "Success"
// @Failure 404 {object} util.Response "测验不存在或未发布"
// @Router /api/tests/{id}/submit [post]
func (c *TestController) SubmitTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid test id")
		return
	}
	var req SubmitTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, attempt, err := c.TestService.SubmitTest(claims.UserID, id, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, util.ErrTestNotPublished):
			util.NotFound(ctx)
		case errors.Is(err, exam.ErrNoQuestions), errors.Is(err, exam.ErrInvalidQuestion):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"attemptId": attempt.ID, "result": result})
}

// ListAttempts godoc
// @Summary 我的测验记录
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/tests/attempts [get]
func (c *TestController) ListAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	page, limit := pagination(ctx)
	attempts, total, err := c.TestService.ListAttempts(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: attempts, Total: total, Page: page, Limit: limit})
}

// GetAttempt godoc
// @Summary 测验记录详情
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   attemptId path string true "记录ID"
// @Success 200 {object} util.Response{data=model.TestAttempt} "Success"
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/tests/attempts/{attemptId} [get]
func (c *TestController) GetAttempt(ctx *gin.Context) {
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
	util.Success(ctx, attempt)
}

// CreateTest godoc
// @Summary 创建测验（教师）
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.TestReq true "测验定义"
// @Success 201 {object} util.Response{data=model.Test} "创建成功"
// @Failure 400 {object} util.Response "测验定义无效"
// @Router /api/tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	test, err := c.TestService.CreateTest(claims.UserID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, test)
}

// UpdateTest godoc
// @Summary 更新测验（教师）
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body service.TestReq true "测验定义"
// @Success 200 {object} util.Response{data=model.Test} "Success"
// @Router /api/tests/{id} [put]
func (c *TestController) UpdateTest(ctx *gin.Context) {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid test id")
		return
	}
	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	test, err := c.TestService.UpdateTest(id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, test)
}

// DeleteTest godoc
// @Summary 删除测验（教师）
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/tests/{id} [delete]
func (c *TestController) DeleteTest(ctx *gin.Context) {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid test id")
		return
	}
	if err := c.TestService.DeleteTest(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// PublishRequest 发布开关
type PublishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// PublishTest godoc
// @Summary 发布/下线测验（教师）
// @Description 发布前重新校验测验定义
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body PublishRequest true "发布状态"
// @Success 200 {object} util.Response "Success"
// @Failure 400 {object} util.Response "测验定义无效"
// @Router /api/tests/{id}/publish [put]
func (c *TestController) PublishTest(ctx *gin.Context) {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid test id")
		return
	}
	var req PublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.TestService.Publish(id, *req.Published); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, nil)
}

// GenerateRequest AI 出题请求
type GenerateRequest struct {
	Language   string `json:"language" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required"`
	Count      int    `json:"count" binding:"required,min=1,max=20"`
}

// GenerateQuestions godoc
// @Summary AI 生成测验题目草稿（教师）
// @Description 生成结果经过与手写题目相同的校验，教师确认后再保存
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body GenerateRequest true "生成参数"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 502 {object} util.Response "AI 服务错误"
// @Router /api/tests/generate [post]
func (c *TestController) GenerateQuestions(ctx *gin.Context) {
	var req GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	questions, err := c.AIService.GenerateTestQuestions(ctx.Request.Context(), req.Language, req.Difficulty, req.Count)
	if err != nil {
		util.Error(ctx, 502, err.Error())
		return
	}
	util.Success(ctx, gin.H{"questions": exam.QuestionList(questions)})
}
