package controller

import (
	"codementor_backend/internal/service"
	"codementor_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ChallengeController struct {
	ChallengeService *service.ChallengeService
	Executor         *service.CodeExecutionService
}

func NewChallengeController(challengeService *service.ChallengeService, executor *service.CodeExecutionService) *ChallengeController {
	return &ChallengeController{
		ChallengeService: challengeService,
		Executor:         executor,
	}
}

// ListChallenges godoc
// @Summary 编程挑战列表
// @Tags 挑战
// @Produce  json
// @Param   language query string false "编程语言"
// @Param   difficulty query string false "难度"
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/challenges [get]
func (c *ChallengeController) ListChallenges(ctx *gin.Context) {
	page, limit := pagination(ctx)
	challenges, total, err := c.ChallengeService.ListPublished(ctx.Query("language"), ctx.Query("difficulty"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: challenges, Total: total, Page: page, Limit: limit})
}

// GetChallenge godoc
// @Summary 挑战详情
// @Tags 挑战
// @Produce  json
// @Param   id path int true "挑战ID"
// @Success 200 {object} util.Response{data=model.Challenge} "Success"
// @Failure 404 {object} util.Response "挑战不存在"
// @Router /api/challenges/{id} [get]
func (c *ChallengeController) GetChallenge(ctx *gin.Context) {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid challenge id")
		return
	}
	challenge, err := c.ChallengeService.GetChallenge(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, challenge)
}

// CreateChallenge godoc
// @Summary 创建挑战（教师）
// @Tags 挑战
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ChallengeReq true "挑战信息"
// @Success 201 {object} util.Response{data=model.Challenge} "创建成功"
// @Router /api/challenges [post]
func (c *ChallengeController) CreateChallenge(ctx *gin.Context) {
	var req service.ChallengeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	challenge, err := c.ChallengeService.CreateChallenge(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, challenge)
}

// UpdateChallenge godoc
// @Summary 更新挑战（教师）
// @Tags 挑战
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "挑战ID"
// @Param   body body service.ChallengeReq true "挑战信息"
// @Success 200 {object} util.Response{data=model.Challenge} "Success"
// @Router /api/challenges/{id} [put]
func (c *ChallengeController) UpdateChallenge(ctx *gin.Context) {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid challenge id")
		return
	}
	var req service.ChallengeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	challenge, err := c.ChallengeService.UpdateChallenge(id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, challenge)
}

// DeleteChallenge godoc
// @Summary 删除挑战（教师）
// @Tags 挑战
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "挑战ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/challenges/{id} [delete]
func (c *ChallengeController) DeleteChallenge(ctx *gin.Context) {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid challenge id")
		return
	}
	if err := c.ChallengeService.DeleteChallenge(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// SubmitRequest 提交代码请求
type SubmitRequest struct {
	Code string `json:"code" binding:"required"`
}

// SubmitSolution godoc
// @Summary 提交挑战解答
// @Description 在沙箱中运行代码并对照测试用例评判
// @Tags 挑战
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "挑战ID"
// @Param   body body SubmitRequest true "代码"
// @Success 200 {object} util.Response{data=service.ChallengeRunResult} "Success"
// @Router /api/challenges/{id}/submit [post]
func (c *ChallengeController) SubmitSolution(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid challenge id")
		return
	}
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	run, err := c.ChallengeService.SubmitSolution(ctx.Request.Context(), claims.UserID, id, req.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, run)
}

// ExecuteRequest 临时运行代码请求
type ExecuteRequest struct {
	Language string `json:"language" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Stdin    string `json:"stdin"`
}

// Execute godoc
// @Summary 运行一段代码
// @Description 不评判，只返回沙箱输出
// @Tags 挑战
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ExecuteRequest true "代码"
// @Success 200 {object} util.Response{data=service.ExecutionResult} "Success"
// @Router /api/execute [post]
func (c *ChallengeController) Execute(ctx *gin.Context) {
	var req ExecuteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.Executor.Execute(ctx.Request.Context(), req.Language, req.Code, req.Stdin)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, result)
}
