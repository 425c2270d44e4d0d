package service

import (
	"coursehub_backend/internal/model"
	"fmt"
)

// PaginateCourses 分页引擎。请求页超出总页数时钳到最后一个有效页并置 Corrected，
// 此修正在构造响应前完成，调用方不会渲染出一个空页再回跳。
// 列表为空时 TotalPages 为 0，没有任何有效页，调用方渲染空态而非第 1 页占位。
func PaginateCourses(courses []model.CourseSummary, page, pageSize int) model.CatalogPage {
	total := len(courses)
	if pageSize <= 0 {
		pageSize = 12
	}
	totalPages := (total + pageSize - 1) / pageSize

	if total == 0 {
		return model.CatalogPage{
			Items:      []model.CourseSummary{},
			Total:      0,
			TotalPages: 0,
			Page:       0,
			Corrected:  page > 1,
			Range:      "0 results",
		}
	}

	corrected := false
	if page < 1 {
		page = 1
		corrected = true
	}
	if page > totalPages {
		page = totalPages
		corrected = true
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}

	return model.CatalogPage{
		Items:      courses[start:end],
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		Corrected:  corrected,
		Range:      fmt.Sprintf("Showing %d-%d of %d results", start+1, end, total),
		Markers:    PageMarkers(page, totalPages),
	}
}

// PageMarkers 页码条省略规则：始终显示首页、末页、当前页及其前后各一页，
// 其余页码每个间隙折叠为一个省略号。
func PageMarkers(current, totalPages int) []model.PageMarker {
	if totalPages <= 0 {
		return nil
	}

	markers := make([]model.PageMarker, 0, totalPages)
	lastShown := 0
	for p := 1; p <= totalPages; p++ {
		show := p == 1 || p == totalPages || (p >= current-1 && p <= current+1)
		if !show {
			continue
		}
		if lastShown > 0 && p-lastShown > 1 {
			markers = append(markers, model.PageMarker{Ellipsis: true})
		}
		markers = append(markers, model.PageMarker{Page: p})
		lastShown = p
	}
	return markers
}
