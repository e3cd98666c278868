package request

type PostSaveRequest struct {
	Title   string `json:"title" binding:"required,notblank,max=500"`
	Content string `json:"content" binding:"required,notblank"`
	Author  string `json:"author"`
}

type PostUpdateRequest struct {
	Title   string `json:"title" binding:"required,notblank,max=500"`
	Content string `json:"content" binding:"required,notblank"`
}
