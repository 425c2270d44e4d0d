package controller

import (
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

// BrowseCourses godoc
// @Summary Browse the course catalog
// @Description Filter, sort and paginate the published course list
// @Tags catalog
// @Accept  json
// @Produce  json
// @Param   query query string false "Free-text search over title, subtitle and category"
// @Param   category query []string false "Category filter (exact match, repeatable)"
// @Param   level query []string false "Level filter (exact match, repeatable)" Enums(all-levels, beginner, intermediate, expert)
// @Param   tool query []string false "Tool filter (substring match against tags, repeatable)"
// @Param   sort query string false "Sort key" Enums(trending, newest, price-low, price-high, rating)
// @Param   page query int false "Page number (1-based)"
// @Success 200 {object} util.Response{data=model.CatalogPage} "Success"
// @Failure 502 {object} util.Response "Directory unavailable"
// @Router /api/courses [get]
func (c *CatalogController) BrowseCourses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))

	sortKey := model.SortKey(ctx.DefaultQuery("sort", string(model.SortTrending)))
	switch sortKey {
	case model.SortTrending, model.SortNewest, model.SortPriceLow, model.SortPriceHigh, model.SortRating:
	default:
		util.BadRequest(ctx, "invalid sort key")
		return
	}

	// 缓存强刷仅限管理员
	refresh := false
	if ctx.Query("refresh") == "true" {
		claims := util.GetUserFromContext(ctx)
		refresh = claims != nil && claims.Role == model.RoleAdmin
	}

	req := service.BrowseRequest{
		Filter: model.CatalogFilter{
			Query:      ctx.Query("query"),
			Levels:     ctx.QueryArray("level"),
			Categories: ctx.QueryArray("category"),
			Tools:      ctx.QueryArray("tool"),
		},
		Sort:    sortKey,
		Page:    page,
		Refresh: refresh,
	}

	result, err := c.CatalogService.Browse(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, util.ErrDirectoryUnavailable) {
			util.Error(ctx, http.StatusBadGateway, "course directory unavailable")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// RefreshCatalog godoc
// @Summary Invalidate the catalog cache
// @Description Drop the cached published course list so the next browse refetches from the directory
// @Tags catalog
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "Success"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/admin/catalog/refresh [post]
func (c *CatalogController) RefreshCatalog(ctx *gin.Context) {
	if err := c.CatalogService.InvalidateCache(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"invalidated": true})
}
