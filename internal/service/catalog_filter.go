package service

import (
	"coursehub_backend/internal/model"
	"strings"
)

// FilterCourses 目录过滤引擎。纯函数：不修改输入，保持输入顺序，
// 相同输入必然得到相同输出。各维度之间为与关系，维度内部为或关系。
func FilterCourses(courses []model.CourseSummary, f model.CatalogFilter) []model.CourseSummary {
	if f.Empty() {
		return courses
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))

	result := make([]model.CourseSummary, 0, len(courses))
	for _, course := range courses {
		if query != "" && !matchesQuery(&course, query) {
			continue
		}
		if len(f.Levels) > 0 && !containsExact(f.Levels, string(course.BasicInfo.Level)) {
			continue
		}
		if len(f.Categories) > 0 && !containsExact(f.Categories, course.BasicInfo.Category) {
			continue
		}
		if len(f.Tools) > 0 && !matchesTools(course.Tags, f.Tools) {
			continue
		}
		result = append(result, course)
	}
	return result
}

// matchesQuery 标题、副标题、分类任一字段包含查询串即命中（不区分大小写）
func matchesQuery(course *model.CourseSummary, query string) bool {
	return strings.Contains(strings.ToLower(course.BasicInfo.Title), query) ||
		strings.Contains(strings.ToLower(course.BasicInfo.Subtitle), query) ||
		strings.Contains(strings.ToLower(course.BasicInfo.Category), query)
}

func containsExact(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// matchesTools 标签与工具任一对存在双向子串关系即命中。
// 无标签的课程永远不命中非空工具过滤。
func matchesTools(tags, tools []string) bool {
	for _, tag := range tags {
		lowerTag := strings.ToLower(tag)
		for _, tool := range tools {
			lowerTool := strings.ToLower(tool)
			if strings.Contains(lowerTag, lowerTool) || strings.Contains(lowerTool, lowerTag) {
				return true
			}
		}
	}
	return false
}
