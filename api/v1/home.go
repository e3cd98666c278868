package v1

import (
	"net/http"

	"kraft/internal/auth"
	"kraft/service"

	"github.com/gin-gonic/gin"
)

// PageAPI renders the server-side pages: the post feed and the save/update
// editors.
type PageAPI struct {
	posts        *service.PostService
	oauthEnabled bool
}

func NewPageAPI(posts *service.PostService, oauthEnabled bool) *PageAPI {
	return &PageAPI{posts: posts, oauthEnabled: oauthEnabled}
}

// Index renders the feed with the caller's login state.
func (a *PageAPI) Index(c *gin.Context) {
	posts, err := a.posts.FindAllDesc()
	if err != nil {
		writeError(c, err)
		return
	}

	data := gin.H{
		"Posts":        posts,
		"OAuthEnabled": a.oauthEnabled,
		"Error":        c.Query("error"),
	}
	if user := auth.Current(c); user != nil {
		data["UserName"] = user.Name
		data["UserPicture"] = user.Picture
	}
	c.HTML(http.StatusOK, "index.html", data)
}

// SavePage renders the post editor for a new post.
func (a *PageAPI) SavePage(c *gin.Context) {
	c.HTML(http.StatusOK, "posts-save.html", nil)
}

// UpdatePage renders the editor pre-filled with an existing post.
func (a *PageAPI) UpdatePage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	post, err := a.posts.FindByID(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.HTML(http.StatusOK, "posts-update.html", gin.H{"Post": post})
}
