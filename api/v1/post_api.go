package v1

import (
	"net/http"
	"strconv"

	"kraft/api/v1/request"
	"kraft/internal/auth"
	"kraft/internal/metrics"
	"kraft/service"

	"github.com/gin-gonic/gin"
)

// PostAPI exposes the post CRUD endpoints. The caller's identity, if any,
// is taken from the request context and passed to the service as an email.
type PostAPI struct {
	service *service.PostService
}

// NewPostAPI wires the service layer into the HTTP handlers.
func NewPostAPI(s *service.PostService) *PostAPI {
	return &PostAPI{service: s}
}

// Save handles POST /api/post and returns the new post id.
func (a *PostAPI) Save(c *gin.Context) {
	var req request.PostSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncPostMutation("create", "bad_request")
		writeBindError(c, err)
		return
	}

	id, err := a.service.Save(service.SaveInput{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	}, auth.CurrentEmail(c))
	if err != nil {
		metrics.IncPostMutation("create", "error")
		writeError(c, err)
		return
	}
	metrics.IncPostMutation("create", "success")
	c.JSON(http.StatusOK, id)
}

// Update handles PUT /api/post/:id and returns the updated post id.
func (a *PostAPI) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req request.PostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncPostMutation("update", "bad_request")
		writeBindError(c, err)
		return
	}

	updatedID, err := a.service.Update(id, req.Title, req.Content, auth.CurrentEmail(c))
	if err != nil {
		metrics.IncPostMutation("update", "error")
		writeError(c, err)
		return
	}
	metrics.IncPostMutation("update", "success")
	c.JSON(http.StatusOK, updatedID)
}

// Delete handles DELETE /api/post/:id and returns the deleted post id.
func (a *PostAPI) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.service.Delete(id, auth.CurrentEmail(c)); err != nil {
		metrics.IncPostMutation("delete", "error")
		writeError(c, err)
		return
	}
	metrics.IncPostMutation("delete", "success")
	c.JSON(http.StatusOK, id)
}

// FindByID handles GET /api/post/:id.
func (a *PostAPI) FindByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	post, err := a.service.FindByID(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// List handles GET /api/post/list, newest-first.
func (a *PostAPI) List(c *gin.Context) {
	posts, err := a.service.FindAllDesc()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		writeBindError(c, err)
		return 0, false
	}
	return id, true
}
