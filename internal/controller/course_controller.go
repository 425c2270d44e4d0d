package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// viewerKey 闩锁作用域：登录用户按用户号，游客按来源IP
func viewerKey(ctx *gin.Context) string {
	if claims := util.GetUserFromContext(ctx); claims != nil {
		return fmt.Sprintf("u:%d", claims.UserID)
	}
	return "ip:" + ctx.ClientIP()
}

// GetCourse godoc
// @Summary Get the course detail view
// @Description Aggregates course detail, up to 3 related courses and the viewer's enrollment status
// @Tags courses
// @Produce  json
// @Param   id path string true "Course id"
// @Success 200 {object} util.Response{data=service.CourseView} "Success"
// @Failure 404 {object} util.Response "Course not found"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	courseID := ctx.Param("id")

	var userID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	view, err := c.CourseService.GetCourseView(
		ctx.Request.Context(),
		viewerKey(ctx),
		util.GetBearerToken(ctx),
		userID,
		courseID,
	)
	if err != nil {
		// 主读失败是终态，404 不触发重试
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// Enroll godoc
// @Summary Enroll the viewer in a course
// @Description Forwards enrollment to the directory service and sets an optimistic local flag
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Course id"
// @Success 200 {object} util.Response "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Course not found"
// @Failure 502 {object} util.Response "Enrollment rejected upstream"
// @Router /api/courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := ctx.Param("id")
	err := c.CourseService.Enroll(ctx.Request.Context(), util.GetBearerToken(ctx), claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		// 上游拒绝信息可直接展示
		util.Error(ctx, http.StatusBadGateway, err.Error())
		return
	}

	util.Success(ctx, gin.H{"enrolled": true})
}
