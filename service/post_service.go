package service

import (
	"errors"
	"fmt"
	"time"

	"kraft/dao"
	"kraft/internal/errs"
	"kraft/model"

	"gorm.io/gorm"
)

// PostService implements the post lifecycle with ownership checks. Every
// mutation runs inside one transaction so a concurrent update to the same
// post cannot interleave with the read-modify-write.
type PostService struct {
	db    *gorm.DB
	posts *dao.PostDAO
	users *dao.UserDAO
}

func NewPostService(db *gorm.DB, posts *dao.PostDAO, users *dao.UserDAO) *PostService {
	return &PostService{db: db, posts: posts, users: users}
}

// SaveInput carries the caller-supplied post fields.
type SaveInput struct {
	Title   string
	Content string
	Author  string
}

// PostResponse is the read view of a single post.
type PostResponse struct {
	ID      uint64 `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// PostListItem is one row of the newest-first feed.
type PostListItem struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	ModifiedDate time.Time `json:"modifiedDate"`
}

// Save creates a post. When userEmail is non-empty the matching user is
// attached as owner; an email with no user record is an error rather than a
// silent anonymous save, so a broken login cannot shed ownership unnoticed.
func (s *PostService) Save(in SaveInput, userEmail string) (uint64, error) {
	post, err := model.NewPost(in.Title, in.Content, in.Author)
	if err != nil {
		return 0, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if userEmail != "" {
			user, err := s.users.WithTx(tx).FindByEmail(userEmail)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("no user exists for email %q: %w", userEmail, errs.ErrNotFound)
				}
				return err
			}
			post.UserID = &user.ID
		}
		return s.posts.WithTx(tx).CreatePost(post)
	})
	if err != nil {
		return 0, err
	}
	return post.ID, nil
}

// Update applies new title/content to the post. Owned posts may only be
// updated by their owner; owner-less posts are open to any caller.
func (s *PostService) Update(id uint64, title, content, userEmail string) (uint64, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		posts := s.posts.WithTx(tx)
		post, err := s.loadPost(tx, id)
		if err != nil {
			return err
		}
		if err := s.checkOwnership(tx, post, userEmail, "update"); err != nil {
			return err
		}
		if err := post.Update(title, content); err != nil {
			return err
		}
		return posts.Save(post)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Delete removes the post under the same ownership rule as Update.
func (s *PostService) Delete(id uint64, userEmail string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		post, err := s.loadPost(tx, id)
		if err != nil {
			return err
		}
		if err := s.checkOwnership(tx, post, userEmail, "delete"); err != nil {
			return err
		}
		return s.posts.WithTx(tx).Delete(post)
	})
}

// FindByID returns the read view of one post.
func (s *PostService) FindByID(id uint64) (*PostResponse, error) {
	post, err := s.loadPost(s.db, id)
	if err != nil {
		return nil, err
	}
	return &PostResponse{
		ID:      post.ID,
		Title:   post.Title,
		Content: post.Content,
		Author:  post.Author,
	}, nil
}

// FindAllDesc returns the feed, newest-first by creation time.
func (s *PostService) FindAllDesc() ([]PostListItem, error) {
	posts, err := s.posts.FindAllDesc()
	if err != nil {
		return nil, err
	}
	items := make([]PostListItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, PostListItem{
			ID:           p.ID,
			Title:        p.Title,
			Author:       p.Author,
			ModifiedDate: p.UpdatedAt,
		})
	}
	return items, nil
}

func (s *PostService) loadPost(tx *gorm.DB, id uint64) (*model.Post, error) {
	post, err := s.posts.WithTx(tx).FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no post exists with id %d: %w", id, errs.ErrNotFound)
		}
		return nil, err
	}
	return post, nil
}

// checkOwnership enforces the author lock. The owner is fetched only here,
// at the moment it must be compared against the caller's email.
func (s *PostService) checkOwnership(tx *gorm.DB, post *model.Post, userEmail, action string) error {
	if !post.Owned() {
		return nil
	}
	if userEmail == "" {
		return fmt.Errorf("only an authenticated user may %s this post: %w", action, errs.ErrPermissionDenied)
	}
	owner, err := s.users.WithTx(tx).FindByID(*post.UserID)
	if err != nil {
		return err
	}
	if owner.Email != userEmail {
		return fmt.Errorf("caller is not the owner of post %d: %w", post.ID, errs.ErrPermissionDenied)
	}
	return nil
}
