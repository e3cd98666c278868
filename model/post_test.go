package model

import (
	"errors"
	"strings"
	"testing"

	"kraft/internal/errs"
)

func TestNewPostValidation(t *testing.T) {
	cases := []struct {
		name    string
		title   string
		content string
		wantErr bool
	}{
		{"valid", "title", "content", false},
		{"empty title", "", "content", true},
		{"blank title", "   ", "content", true},
		{"title at bound", strings.Repeat("t", MaxTitleLength), "content", false},
		{"title over bound", strings.Repeat("t", MaxTitleLength+1), "content", true},
		{"empty content", "title", "", true},
		{"blank content", "title", "  \n ", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPost(tc.title, tc.content, "author")
			if tc.wantErr {
				if !errors.Is(err, errs.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPostUpdateValidation(t *testing.T) {
	post, err := NewPost("old title", "old content", "author")
	if err != nil {
		t.Fatalf("NewPost: %v", err)
	}

	if err := post.Update("", "new content"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error for blank title, got %v", err)
	}
	// Failed update must not partially apply.
	if post.Title != "old title" || post.Content != "old content" {
		t.Fatalf("post mutated by failed update: %+v", post)
	}

	if err := post.Update("new title", "new content"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if post.Title != "new title" || post.Content != "new content" {
		t.Fatalf("update not applied: %+v", post)
	}
}

func TestPostOwned(t *testing.T) {
	post, _ := NewPost("title", "content", "author")
	if post.Owned() {
		t.Fatal("new post should be owner-less")
	}
	id := uint64(7)
	post.UserID = &id
	if !post.Owned() {
		t.Fatal("post with user id should be owned")
	}
}
