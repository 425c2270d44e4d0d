package repository

import (
	"coursehub_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionRepository 本地完成镜像的持久层。镜像只增不减（与远端并集对账），
// 唯一的删除入口是用户显式取消完成。
type CompletionRepository struct {
	DB *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: db}
}

func (r *CompletionRepository) CompletedLectureIDs(userID uint, courseID string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.LectureCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("completed_at ASC").
		Pluck("lecture_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *CompletionRepository) MarkCompleted(userID uint, courseID, lectureID string, completedAt time.Time) error {
	completion := model.LectureCompletion{
		UserID:      userID,
		CourseID:    courseID,
		LectureID:   lectureID,
		CompletedAt: completedAt,
	}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion).Error
}

// MarkManyCompleted 对账时批量补写远端已有而本地缺失的完成记录
func (r *CompletionRepository) MarkManyCompleted(userID uint, courseID string, lectures []model.CompletedLecture) error {
	if len(lectures) == 0 {
		return nil
	}
	rows := make([]model.LectureCompletion, 0, len(lectures))
	now := time.Now()
	for _, l := range lectures {
		completedAt := now
		if l.CompletedAt != nil {
			completedAt = *l.CompletedAt
		}
		rows = append(rows, model.LectureCompletion{
			UserID:      userID,
			CourseID:    courseID,
			LectureID:   l.LectureID,
			CompletedAt: completedAt,
		})
	}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *CompletionRepository) Unmark(userID uint, courseID, lectureID string) error {
	return r.DB.
		Where("user_id = ? AND course_id = ? AND lecture_id = ?", userID, courseID, lectureID).
		Delete(&model.LectureCompletion{}).Error
}

func (r *CompletionRepository) IsCompleted(userID uint, courseID, lectureID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.LectureCompletion{}).
		Where("user_id = ? AND course_id = ? AND lecture_id = ?", userID, courseID, lectureID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
