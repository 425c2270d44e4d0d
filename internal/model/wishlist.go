package model

// WishlistItem 心愿单条目，本服务自有数据
// swagger:model WishlistItem
type WishlistItem struct {
	UUIDBase
	UserID   uint   `gorm:"index:idx_user_course_wish,unique" json:"userId"`
	CourseID string `gorm:"size:64;index:idx_user_course_wish,unique" json:"courseId"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
