package controller

import (
	"codementor_backend/internal/service"
	"codementor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// GetProgress godoc
// @Summary 我的学习进度
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   type query string false "类型（lesson/challenge/mcq）"
// @Success 200 {object} util.Response{data=[]model.UserProgress} "Success"
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	itemType := ctx.Query("type")
	var err error
	var rows interface{}
	if itemType != "" {
		rows, err = c.ProgressService.GetUserProgressByType(claims.UserID, itemType)
	} else {
		rows, err = c.ProgressService.GetUserProgress(claims.UserID)
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
