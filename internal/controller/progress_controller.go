package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// GetCourseProgress godoc
// @Summary Get reconciled course progress
// @Description Union of the local completion mirror and the remote progress record
// @Tags progress
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Course id"
// @Success 200 {object} util.Response{data=model.CourseProgressView} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/courses/{id}/progress [get]
func (c *ProgressController) GetCourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.ProgressService.CourseProgress(
		ctx.Request.Context(),
		util.GetBearerToken(ctx),
		claims.UserID,
		ctx.Param("id"),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type toggleLectureRequest struct {
	Completed bool `json:"completed"`
}

// ToggleLectureProgress godoc
// @Summary Toggle a lecture's completion state
// @Description Writes the local mirror synchronously and syncs the directory service in the background
// @Tags progress
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Course id"
// @Param   lectureId path string true "Lecture client id"
// @Param   body body toggleLectureRequest true "Completion state"
// @Success 200 {object} util.Response "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/courses/{id}/lectures/{lectureId}/progress [post]
func (c *ProgressController) ToggleLectureProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req toggleLectureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.ProgressService.ToggleLecture(
		ctx.Request.Context(),
		util.GetBearerToken(ctx),
		claims.UserID,
		ctx.Param("id"),
		ctx.Param("lectureId"),
		req.Completed,
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"completed": req.Completed, "remoteSync": "pending"})
}

type positionRequest struct {
	LectureID string  `json:"lectureId" binding:"required"`
	Seconds   float64 `json:"seconds" binding:"min=0"`
}

// RecordPosition godoc
// @Summary Report playback position
// @Description Remembers the last-viewed lecture; the second count is persisted only on 5-second boundaries
// @Tags progress
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Course id"
// @Param   body body positionRequest true "Playback position"
// @Success 200 {object} util.Response "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/courses/{id}/watch/position [post]
func (c *ProgressController) RecordPosition(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req positionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	persisted, err := c.ProgressService.RecordPosition(
		ctx.Request.Context(),
		claims.UserID,
		ctx.Param("id"),
		req.LectureID,
		req.Seconds,
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"persisted": persisted})
}

type videoEndedRequest struct {
	LectureID string `json:"lectureId" binding:"required"`
}

// VideoEnded godoc
// @Summary Handle end-of-video
// @Description Marks the lecture complete (if not already) and advances to the next lecture in curriculum order
// @Tags progress
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Course id"
// @Param   body body videoEndedRequest true "Finished lecture"
// @Success 200 {object} util.Response{data=service.AdvanceResult} "Success"
// @Failure 400 {object} util.Response "Lecture not in curriculum"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Course not found"
// @Router /api/courses/{id}/watch/ended [post]
func (c *ProgressController) VideoEnded(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req videoEndedRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.VideoEnded(
		ctx.Request.Context(),
		util.GetBearerToken(ctx),
		claims.UserID,
		ctx.Param("id"),
		req.LectureID,
	)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrLectureNotFound):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// ResumeWatch godoc
// @Summary Get the watch-page resume state
// @Description Current lecture (last viewed if still present, else first of first section) and its saved playback second
// @Tags progress
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Course id"
// @Success 200 {object} util.Response{data=service.ResumeView} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Course not found"
// @Router /api/courses/{id}/watch [get]
func (c *ProgressController) ResumeWatch(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.ProgressService.ResumeCourse(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}
