package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"contenthub/middleware"
	"contenthub/services"
	"contenthub/upload"
	"contenthub/utils"
)

// PostController manages CRUD over posts, comments and likes.
type PostController struct {
	posts     *services.PostService
	uploadDir string
}

// NewPostController creates a PostController.
func NewPostController(posts *services.PostService, uploadDir string) *PostController {
	return &PostController{posts: posts, uploadDir: uploadDir}
}

type createPostRequest struct {
	Title   string   `form:"title" binding:"required,max=100"`
	Content string   `form:"content" binding:"required"`
	Tags    []string `form:"tags"`
}

type updatePostRequest struct {
	Title   *string   `form:"title" binding:"omitempty,max=100"`
	Content *string   `form:"content"`
	Tags    *[]string `form:"tags"`
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

// List returns a page of posts filtered by the query string.
func (p *PostController) List(ctx *gin.Context) {
	filter := services.PostFilter{
		Tag:    ctx.Query("tag"),
		Search: ctx.Query("search"),
		Page:   queryInt(ctx, "page", 1),
		Limit:  queryInt(ctx, "limit", 10),
	}

	page, err := p.posts.ListPosts(filter)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.SuccessPage(ctx, http.StatusOK, page.Posts, page.Total, page.CurrentPage, page.TotalPages)
}

// Get returns a single post with author, comments and likes hydrated.
func (p *PostController) Get(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	post, err := p.posts.GetPost(id)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.Success(ctx, http.StatusOK, post)
}

// Create stores a new post authored by the authenticated user,
// attaching an uploaded image when present.
func (p *PostController) Create(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		_ = ctx.Error(utils.NewUnauthorizedError("Not authorized"))
		return
	}

	var req createPostRequest
	if err := ctx.ShouldBind(&req); err != nil {
		_ = ctx.Error(utils.NewValidationError(bindingErrors(err)...))
		return
	}

	filename, err := upload.SaveImage(ctx, "image", p.uploadDir)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	post, err := p.posts.CreatePost(services.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Image:    filename,
		AuthorID: userID,
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.Success(ctx, http.StatusCreated, post)
}

// Update applies a partial update; only the author or an admin may
// modify a post. A new uploaded image replaces the stored file.
func (p *PostController) Update(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if err := p.checkOwnership(ctx, id, "You can only update your own posts"); err != nil {
		_ = ctx.Error(err)
		return
	}

	var req updatePostRequest
	if err := ctx.ShouldBind(&req); err != nil {
		_ = ctx.Error(utils.NewValidationError(bindingErrors(err)...))
		return
	}

	in := services.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	filename, err := upload.SaveImage(ctx, "image", p.uploadDir)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if filename != "" {
		in.Image = &filename
	}

	post, err := p.posts.UpdatePost(id, in)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.Success(ctx, http.StatusOK, post)
}

// Delete removes a post and its stored image; author or admin only.
func (p *PostController) Delete(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if err := p.checkOwnership(ctx, id, "You can only delete your own posts"); err != nil {
		_ = ctx.Error(err)
		return
	}
	if err := p.posts.DeletePost(id); err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.SuccessMessage(ctx, http.StatusOK, "Post deleted", gin.H{})
}

// AddComment prepends a comment by the authenticated user.
func (p *PostController) AddComment(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		_ = ctx.Error(utils.NewUnauthorizedError("Not authorized"))
		return
	}

	var req commentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		_ = ctx.Error(utils.NewValidationError(bindingErrors(err)...))
		return
	}

	post, err := p.posts.AddComment(id, userID, req.Text)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.Success(ctx, http.StatusOK, post)
}

// ToggleLike flips the authenticated user's like on a post.
func (p *PostController) ToggleLike(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		_ = ctx.Error(utils.NewUnauthorizedError("Not authorized"))
		return
	}

	post, err := p.posts.ToggleLike(id, userID)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.Success(ctx, http.StatusOK, post)
}

func (p *PostController) checkOwnership(ctx *gin.Context, postID uint, message string) error {
	post, err := p.posts.GetPost(postID)
	if err != nil {
		return err
	}
	if middleware.IsAdmin(ctx) {
		return nil
	}
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok || post.AuthorID != userID {
		return utils.NewForbiddenError(message)
	}
	return nil
}

func queryInt(ctx *gin.Context, key string, def int) int {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
