package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type WishlistController struct {
	WishlistService *service.WishlistService
}

func NewWishlistController(wishlistService *service.WishlistService) *WishlistController {
	return &WishlistController{WishlistService: wishlistService}
}

// ListWishlist godoc
// @Summary List the viewer's wishlist
// @Tags wishlist
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.WishlistItem} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/wishlist [get]
func (c *WishlistController) ListWishlist(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	items, err := c.WishlistService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, items)
}

type addWishlistRequest struct {
	CourseID string `json:"courseId" binding:"required"`
}

// AddToWishlist godoc
// @Summary Add a course to the wishlist
// @Tags wishlist
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body addWishlistRequest true "Course to add"
// @Success 201 {object} util.Response{data=model.WishlistItem} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 409 {object} util.Response "Already wishlisted"
// @Router /api/wishlist [post]
func (c *WishlistController) AddToWishlist(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req addWishlistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, err := c.WishlistService.Add(claims.UserID, req.CourseID)
	if err != nil {
		if errors.Is(err, util.ErrAlreadyWishlisted) {
			util.Error(ctx, http.StatusConflict, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, item)
}

// RemoveFromWishlist godoc
// @Summary Remove a course from the wishlist
// @Tags wishlist
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "Course id"
// @Success 200 {object} util.Response "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not in wishlist"
// @Router /api/wishlist/{courseId} [delete]
func (c *WishlistController) RemoveFromWishlist(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.WishlistService.Remove(claims.UserID, ctx.Param("courseId"))
	if err != nil {
		if errors.Is(err, util.ErrWishlistItemNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"removed": true})
}
