package controller

import (
	"codementor_backend/internal/service"
	"codementor_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LearningPathController struct {
	PathService *service.LearningPathService
}

func NewLearningPathController(pathService *service.LearningPathService) *LearningPathController {
	return &LearningPathController{PathService: pathService}
}

// ListPaths godoc
// @Summary 学习路径列表
// @Tags 学习路径
// @Produce  json
// @Param   language query string false "编程语言"
// @Success 200 {object} util.Response{data=[]model.LearningPath} "Success"
// @Router /api/paths [get]
func (c *LearningPathController) ListPaths(ctx *gin.Context) {
	paths, err := c.PathService.ListPublished(ctx.Query("language"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, paths)
}

// GetPath godoc
// @Summary 学习路径详情（含课程）
// @Tags 学习路径
// @Produce  json
// @Param   id path int true "路径ID"
// @Success 200 {object} util.Response{data=service.PathWithCourses} "Success"
// @Failure 404 {object} util.Response "路径不存在"
// @Router /api/paths/{id} [get]
func (c *LearningPathController) GetPath(ctx *gin.Context) {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid path id")
		return
	}
	path, err := c.PathService.GetPathWithCourses(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, path)
}

// CreatePath godoc
// @Summary 创建学习路径（教师）
// @Tags 学习路径
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.LearningPathReq true "路径信息"
// @Success 201 {object} util.Response{data=model.LearningPath} "创建成功"
// @Router /api/paths [post]
func (c *LearningPathController) CreatePath(ctx *gin.Context) {
	var req service.LearningPathReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	path, err := c.PathService.CreatePath(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, path)
}

// UpdatePath godoc
// @Summary 更新学习路径（教师）
// @Tags 学习路径
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "路径ID"
// @Param   body body service.LearningPathReq true "路径信息"
// @Success 200 {object} util.Response{data=model.LearningPath} "Success"
// @Router /api/paths/{id} [put]
func (c *LearningPathController) UpdatePath(ctx *gin.Context) {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid path id")
		return
	}
	var req service.LearningPathReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	path, err := c.PathService.UpdatePath(id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, path)
}

// DeletePath godoc
// @Summary 删除学习路径（教师）
// @Tags 学习路径
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "路径ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/paths/{id} [delete]
func (c *LearningPathController) DeletePath(ctx *gin.Context) {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid path id")
		return
	}
	if err := c.PathService.DeletePath(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
