package filemanager

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contenthub/utils"
)

// Handler exposes the file store over HTTP.
type Handler struct {
	store *Store
}

// NewHandler creates a Handler around a store.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Mount registers the file-manager routes on a gin router group.
func (h *Handler) Mount(group *gin.RouterGroup) {
	group.GET("/files", h.list)
	group.POST("/files", h.create)
	group.GET("/files/read", h.read)
	group.DELETE("/files/delete", h.delete)
}

// Router builds a standalone gin engine serving the file-manager API.
func Router(store *Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	NewHandler(store).Mount(r.Group("/api"))
	r.NoRoute(func(ctx *gin.Context) {
		utils.Fail(ctx, http.StatusNotFound, "Not found", nil)
	})
	return r
}

func (h *Handler) list(ctx *gin.Context) {
	files, err := h.store.List()
	if err != nil {
		h.fail(ctx, err)
		return
	}
	utils.Success(ctx, http.StatusOK, gin.H{"files": files})
}

func (h *Handler) create(ctx *gin.Context) {
	var req struct {
		Filename string `json:"filename" binding:"required"`
		Content  string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "Invalid request format", nil)
		return
	}
	if err := h.store.Create(req.Filename, req.Content); err != nil {
		h.fail(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, http.StatusCreated, "File created successfully", gin.H{"filename": req.Filename})
}

func (h *Handler) read(ctx *gin.Context) {
	name := ctx.Query("filename")
	content, err := h.store.Read(name)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	utils.Success(ctx, http.StatusOK, gin.H{"filename": name, "content": content})
}

func (h *Handler) delete(ctx *gin.Context) {
	name := ctx.Query("filename")
	if err := h.store.Delete(name); err != nil {
		h.fail(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, http.StatusOK, "File deleted successfully", nil)
}

func (h *Handler) fail(ctx *gin.Context, err error) {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		utils.Fail(ctx, appErr.Status, appErr.Message, appErr.Errors)
		return
	}
	utils.Fail(ctx, http.StatusInternalServerError, "Internal server error", nil)
}
