package controller

import (
	"codementor_backend/internal/exam"
	"codementor_backend/internal/service"
	"codementor_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AttemptController exposes the live, server-hosted test session: the
// countdown, navigation and per-question answering live here, while the
// one-shot grading path stays on TestController.
type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// StartAttempt godoc
// @Summary 开始一次计时测验
// @Description 创建服务端会话并启动倒计时，超时自动交卷
// @Tags 考试会话
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 201 {object} util.Response{data=service.AttemptState} "创建成功"
// @Failure 404 {object} util.Response "测验不存在或未发布"
// @Router /api/tests/{id}/attempts [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	testID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid test id")
		return
	}

	_, state, err := c.AttemptService.Start(claims.UserID, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, util.ErrTestNotPublished) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, state)
}

// GetState godoc
// @Summary 会话状态
// @Description 当前题号、剩余时间、作答进度与标记
// @Tags 考试会话
// @Produce  json
// @Security ApiKeyAuth
// @Param   attemptId path string true "会话ID"
// @Success 200 {object} util.Response{data=service.AttemptState} "Success"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/attempts/{attemptId} [get]
func (c *AttemptController) GetState(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	state, err := c.AttemptService.State(claims.UserID, ctx.Param("attemptId"))
	if err != nil {
		c.writeSessionError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

// AnswerRequest 作答请求。单选题传 selectedOption，多选题传 toggleOption。
type AnswerRequest struct {
	QuestionID     string `json:"questionId" binding:"required"`
	SelectedOption *int   `json:"selectedOption,omitempty"`
	ToggleOption   *int   `json:"toggleOption,omitempty"`
}

// Answer godoc
// @Summary 作答
// @Description 单选/代码题整体替换所选项；多选题按选项开关
// @Tags 考试会话
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   attemptId path string true "会话ID"
// @Param   body body AnswerRequest true "作答"
// @Success 200 {object} util.Response "Success"
// @Failure 400 {object} util.Response "选项越界或题型不符"
// @Router /api/attempts/{attemptId}/answers [put]
func (c *AttemptController) Answer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attemptID := ctx.Param("attemptId")
	var err error
	switch {
	case req.SelectedOption != nil:
		err = c.AttemptService.SelectSingle(claims.UserID, attemptID, req.QuestionID, *req.SelectedOption)
	case req.ToggleOption != nil:
		err = c.AttemptService.ToggleMulti(claims.UserID, attemptID, req.QuestionID, *req.ToggleOption)
	default:
		util.BadRequest(ctx, "selectedOption or toggleOption is required")
		return
	}
	if err != nil {
		c.writeSessionError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// NavigateRequest 导航请求。index、direction 二选一。
type NavigateRequest struct {
	Index     *int   `json:"index,omitempty"`
	Direction string `json:"direction,omitempty"` // next | previous
}

// Navigate godoc
// @Summary 切换当前题目
// @Description index 越界返回 400；next/previous 在边界上原地不动
// @Tags 考试会话
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   attemptId path string true "会话ID"
// @Param   body body NavigateRequest true "导航"
// @Success 200 {object} util.Response "Success"
// @Router /api/attempts/{attemptId}/navigate [put]
func (c *AttemptController) Navigate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req NavigateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attemptID := ctx.Param("attemptId")
	var err error
	switch {
	case req.Index != nil:
		err = c.AttemptService.GoTo(claims.UserID, attemptID, *req.Index)
	case req.Direction == "next":
		err = c.AttemptService.Next(claims.UserID, attemptID)
	case req.Direction == "previous":
		err = c.AttemptService.Previous(claims.UserID, attemptID)
	default:
		util.BadRequest(ctx, "index or direction is required")
		return
	}
	if err != nil {
		c.writeSessionError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ToggleFlag godoc
// @Summary 标记/取消标记当前题目
// @Description 标记仅供回查，不影响交卷和评分
// @Tags 考试会话
// @Produce  json
// @Security ApiKeyAuth
// @Param   attemptId path string true "会话ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/attempts/{attemptId}/flag [put]
func (c *AttemptController) ToggleFlag(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	if err := c.AttemptService.ToggleFlag(claims.UserID, ctx.Param("attemptId")); err != nil {
		c.writeSessionError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// SubmitAttempt godoc
// @Summary 交卷
// @Description 幂等：重复交卷（含与倒计时竞态）返回同一结果
// @Tags 考试会话
// @Produce  json
// @Security ApiKeyAuth
// @Param   attemptId path string true "会话ID"
// @Success 200 {object} util.Response{data=exam.Result} "Success"
// @Router /api/attempts/{attemptId}/submit [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	result, err := c.AttemptService.Submit(claims.UserID, ctx.Param("attemptId"))
	if err != nil {
		c.writeSessionError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// AbandonAttempt godoc
// @Summary 放弃本次测验
// @Description 取消倒计时，不评分
// @Tags 考试会话
// @Produce  json
// @Security ApiKeyAuth
// @Param   attemptId path string true "会话ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/attempts/{attemptId} [delete]
func (c *AttemptController) AbandonAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	if err := c.AttemptService.Abandon(claims.UserID, ctx.Param("attemptId")); err != nil {
		c.writeSessionError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *AttemptController) writeSessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAttemptNotFound), errors.Is(err, util.ErrAttemptNotYours):
		util.NotFound(ctx)
	case errors.Is(err, exam.ErrUnknownQuestion),
		errors.Is(err, exam.ErrOptionOutOfRange),
		errors.Is(err, exam.ErrWrongKind),
		errors.Is(err, exam.ErrIndexOutOfRange):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, exam.ErrNotStarted), errors.Is(err, exam.ErrAlreadyStarted):
		util.Error(ctx, http.StatusConflict, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
