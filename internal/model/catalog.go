package model

type SortKey string

const (
	SortTrending  SortKey = "trending"
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// CatalogFilter 目录页的过滤条件，空集合表示该维度不过滤
type CatalogFilter struct {
	Query      string
	Levels     []string
	Categories []string
	Tools      []string
}

func (f CatalogFilter) Empty() bool {
	return f.Query == "" && len(f.Levels) == 0 && len(f.Categories) == 0 && len(f.Tools) == 0
}

// PageMarker 页码条的一项：页码或省略号
type PageMarker struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// CatalogPage 分页引擎的输出。Corrected 为 true 时请求页超界，
// Page 已被钳到最后一个有效页，调用方必须在渲染前采用它。
// swagger:model CatalogPage
type CatalogPage struct {
	Items      []CourseSummary `json:"items"`
	Total      int             `json:"total"`
	TotalPages int             `json:"totalPages"`
	Page       int             `json:"page"`
	Corrected  bool            `json:"corrected"`
	Range      string          `json:"range"`
	Markers    []PageMarker    `json:"markers"`
}
