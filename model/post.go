package model

import (
	"fmt"
	"strings"
	"time"

	"kraft/internal/errs"
)

// MaxTitleLength bounds post titles.
const MaxTitleLength = 500

// Post 帖子模型
// Ownership is the nullable UserID foreign key; a nil UserID means the post
// was created anonymously and may be mutated by any caller.
type Post struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"not null;size:500" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Author    string    `gorm:"size:100" json:"author"`
	UserID    *uint64   `gorm:"index" json:"user_id,omitempty"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPost validates and builds an unowned post.
func NewPost(title, content, author string) (*Post, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}
	return &Post{
		Title:   title,
		Content: content,
		Author:  author,
	}, nil
}

// Update replaces title and content after validating both.
func (p *Post) Update(title, content string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if err := validateContent(content); err != nil {
		return err
	}
	p.Title = title
	p.Content = content
	return nil
}

// Owned reports whether the post is bound to a user.
func (p *Post) Owned() bool {
	return p.UserID != nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("post title must not be blank: %w", errs.ErrValidation)
	}
	if len([]rune(title)) > MaxTitleLength {
		return fmt.Errorf("post title must not exceed %d characters: %w", MaxTitleLength, errs.ErrValidation)
	}
	return nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("post content must not be blank: %w", errs.ErrValidation)
	}
	return nil
}
