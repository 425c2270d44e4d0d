package service

import (
	"coursehub_backend/internal/model"
	"sort"
)

// SortCourses 目录排序引擎。返回新切片，稳定排序：同键元素保持过滤后的相对顺序。
// trending 与 rating 目前没有排序键（目录服务尚未下发评分字段），作为保序空操作处理，
// 稳定性保证让"空操作"有确定含义而不是任意顺序。
func SortCourses(courses []model.CourseSummary, key model.SortKey) []model.CourseSummary {
	result := make([]model.CourseSummary, len(courses))
	copy(result, courses)

	switch key {
	case model.SortPriceLow:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price.Amount < result[j].Price.Amount
		})
	case model.SortPriceHigh:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price.Amount > result[j].Price.Amount
		})
	case model.SortNewest:
		// 缺失 createdAt 按零值时间处理，排在最后
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
	case model.SortTrending, model.SortRating:
		// 保序空操作
	}

	return result
}
