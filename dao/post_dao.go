package dao

import (
	"kraft/model"

	"gorm.io/gorm"
)

type PostDAO struct {
	db *gorm.DB
}

// NewPostDAO 创建一个新的 PostDAO 实例
func NewPostDAO(db *gorm.DB) *PostDAO {
	return &PostDAO{db: db}
}

// WithTx returns a DAO bound to the given transaction.
func (dao *PostDAO) WithTx(tx *gorm.DB) *PostDAO {
	return &PostDAO{db: tx}
}

// CreatePost 创建新帖子
func (dao *PostDAO) CreatePost(post *model.Post) error {
	return dao.db.Create(post).Error
}

// Save persists field changes of an existing post.
func (dao *PostDAO) Save(post *model.Post) error {
	return dao.db.Save(post).Error
}

// FindByID 根据 ID 查询帖子
func (dao *PostDAO) FindByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := dao.db.First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindAllDesc returns every post newest-first by creation time.
func (dao *PostDAO) FindAllDesc() ([]model.Post, error) {
	var posts []model.Post
	err := dao.db.Order("created_at DESC, id DESC").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// FindByUserID lists the posts owned by one user, newest-first.
func (dao *PostDAO) FindByUserID(userID uint64) ([]model.Post, error) {
	var posts []model.Post
	err := dao.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes the post row.
func (dao *PostDAO) Delete(post *model.Post) error {
	return dao.db.Delete(post).Error
}
