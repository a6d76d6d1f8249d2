package controller

import (
	"codementor_backend/internal/service"
	"codementor_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MCQController struct {
	MCQService *service.MCQService
}

func NewMCQController(mcqService *service.MCQService) *MCQController {
	return &MCQController{MCQService: mcqService}
}

// GetPracticeSet godoc
// @Summary 随机练习题
// @Tags 练习题
// @Produce  json
// @Param   language query string false "编程语言"
// @Param   difficulty query string false "难度"
// @Param   count query int false "题目数量" default(10)
// @Success 200 {object} util.Response{data=[]model.MCQ} "Success"
// @Router /api/mcqs/practice [get]
func (c *MCQController) GetPracticeSet(ctx *gin.Context) {
	count, _ := strconv.Atoi(ctx.DefaultQuery("count", "10"))
	mcqs, err := c.MCQService.GetPracticeSet(ctx.Query("language"), ctx.Query("difficulty"), count)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, mcqs)
}

// GetByLesson godoc
// @Summary 课时练习题
// @Tags 练习题
// @Produce  json
// @Param   lessonId path int true "课时ID"
// @Success 200 {object} util.Response{data=[]model.MCQ} "Success"
// @Router /api/lessons/{lessonId}/mcqs [get]
func (c *MCQController) GetByLesson(ctx *gin.Context) {
	id, err := parseUintParam(ctx, "lessonId")
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}
	mcqs, err := c.MCQService.GetByLesson(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, mcqs)
}

// CheckRequest 练习题作答
type CheckRequest struct {
	Selected *int `json:"selected" binding:"required"`
}

// CheckAnswer godoc
// @Summary 提交练习题答案
// @Description 返回对错、正确答案与解析
// @Tags 练习题
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Param   body body CheckRequest true "选项下标"
// @Success 200 {object} util.Response{data=service.MCQCheckResult} "Success"
// @Router /api/mcqs/{id}/check [post]
func (c *MCQController) CheckAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid mcq id")
		return
	}
	var req CheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.MCQService.CheckAnswer(claims.UserID, id, *req.Selected)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, result)
}

// CreateMCQ godoc
// @Summary 创建练习题（教师）
// @Tags 练习题
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.MCQReq true "题目信息"
// @Success 201 {object} util.Response{data=model.MCQ} "创建成功"
// @Router /api/mcqs [post]
func (c *MCQController) CreateMCQ(ctx *gin.Context) {
	var req service.MCQReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	mcq, err := c.MCQService.CreateMCQ(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, mcq)
}

// DeleteMCQ godoc
// @Summary 删除练习题（教师）
// @Tags 练习题
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/mcqs/{id} [delete]
func (c *MCQController) DeleteMCQ(ctx *gin.Context) {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid mcq id")
		return
	}
	if err := c.MCQService.DeleteMCQ(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
