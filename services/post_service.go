package services

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"contenthub/models"
	"contenthub/utils"
)

// PostService owns CRUD over posts, their comments and likes. It decides
// what to hydrate: author and comment-user references are resolved here
// with explicit fetches, never by the storage layer.
type PostService struct {
	db        *gorm.DB
	uploadDir string
}

// NewPostService creates a PostService. uploadDir is where stored image
// files live; replacing or deleting a post removes its file from there.
func NewPostService(db *gorm.DB, uploadDir string) *PostService {
	return &PostService{db: db, uploadDir: uploadDir}
}

// PostFilter narrows and pages ListPosts results.
type PostFilter struct {
	Tag    string
	Search string
	Page   int
	Limit  int
}

// PostPage is one page of posts plus pagination metadata.
type PostPage struct {
	Posts       []models.Post
	Total       int64
	CurrentPage int
	TotalPages  int
}

// CreatePostInput is the payload for post creation.
type CreatePostInput struct {
	Title    string
	Content  string
	Tags     []string
	Image    string
	AuthorID uint
}

// UpdatePostInput carries partial update fields; nil means unchanged.
// A non-nil Image replaces the stored file.
type UpdatePostInput struct {
	Title   *string
	Content *string
	Tags    *[]string
	Image   *string
}

// ListPosts returns a page of posts, newest first, with authors
// hydrated. Filtering supports tag equality and case-insensitive
// substring search over title and content.
func (s *PostService) ListPosts(filter PostFilter) (*PostPage, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	query := s.db.Model(&models.Post{})
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		// Tags are stored as a JSON array; equality means the quoted tag
		// appears in the serialized list.
		query = query.Where("tags LIKE ?", `%"`+tag+`"%`)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", needle, needle)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, utils.NewInternalError("failed to count posts")
	}

	var posts []models.Post
	if err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&posts).Error; err != nil {
		return nil, utils.NewInternalError("failed to list posts")
	}

	if err := s.hydrateAuthors(posts); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &PostPage{
		Posts:       posts,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
	}, nil
}

// GetPost returns a single post with author, comments (newest first,
// each with its user) and the like set hydrated.
func (s *PostService) GetPost(id uint) (*models.Post, error) {
	post, err := s.findPost(id)
	if err != nil {
		return nil, err
	}
	if err := s.hydratePost(post, true); err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePost persists a new post. Title and content are sanitized; the
// image argument is the stored filename from the upload handler, empty
// when no file was sent.
func (s *PostService) CreatePost(in CreatePostInput) (*models.Post, error) {
	post := models.Post{
		Title:    utils.Sanitize(strings.TrimSpace(in.Title)),
		Content:  utils.Sanitize(in.Content),
		Tags:     normalizeTags(in.Tags),
		Image:    in.Image,
		AuthorID: in.AuthorID,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, utils.NewInternalError("failed to create post")
	}

	utils.Sugar.Infow("post created", "id", post.ID, "author", post.AuthorID)
	if err := s.hydratePost(&post, false); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost applies a partial update. When a new image is supplied the
// previously stored file is deleted first; a missing file is not an
// error.
func (s *PostService) UpdatePost(id uint, in UpdatePostInput) (*models.Post, error) {
	post, err := s.findPost(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = utils.Sanitize(strings.TrimSpace(*in.Title))
	}
	if in.Content != nil {
		updates["content"] = utils.Sanitize(*in.Content)
	}
	if in.Tags != nil {
		updates["tags"] = normalizeTags(*in.Tags)
	}
	if in.Image != nil {
		s.removeImageFile(post.Image)
		updates["image"] = *in.Image
	}

	if len(updates) > 0 {
		if err := s.db.Model(post).Updates(updates).Error; err != nil {
			return nil, utils.NewInternalError("failed to update post")
		}
	}

	return s.GetPost(id)
}

// DeletePost removes the post, its comments and likes, and its stored
// image file when present.
func (s *PostService) DeletePost(id uint) error {
	post, err := s.findPost(id)
	if err != nil {
		return err
	}

	s.removeImageFile(post.Image)

	// No FK cascade is assumed; owned rows are removed explicitly.
	if err := s.db.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return utils.NewInternalError("failed to delete post comments")
	}
	if err := s.db.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
		return utils.NewInternalError("failed to delete post likes")
	}
	if err := s.db.Delete(post).Error; err != nil {
		return utils.NewInternalError("failed to delete post")
	}

	utils.Sugar.Infow("post deleted", "id", id)
	return nil
}

// AddComment prepends a comment to the post and returns the post fully
// hydrated.
func (s *PostService) AddComment(postID, userID uint, text string) (*models.Post, error) {
	if _, err := s.findPost(postID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		PostID: postID,
		UserID: userID,
		Text:   utils.Sanitize(text),
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, utils.NewInternalError("failed to create comment")
	}

	return s.GetPost(postID)
}

// ToggleLike flips userID's like on the post: present likes are removed,
// absent ones added. Two toggles in sequence restore the original state.
func (s *PostService) ToggleLike(postID, userID uint) (*models.Post, error) {
	if _, err := s.findPost(postID); err != nil {
		return nil, err
	}

	var existing models.PostLike
	err := s.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
	switch {
	case err == nil:
		if err := s.db.Delete(&existing).Error; err != nil {
			return nil, utils.NewInternalError("failed to remove like")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.PostLike{PostID: postID, UserID: userID}
		if err := s.db.Create(&like).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.NewInternalError("failed to add like")
		}
	default:
		return nil, utils.NewInternalError("failed to check like")
	}

	post, err := s.findPost(postID)
	if err != nil {
		return nil, err
	}
	if err := s.hydratePost(post, false); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) findPost(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Post not found")
		}
		return nil, utils.NewInternalError("failed to load post")
	}
	return &post, nil
}

// hydratePost resolves the author, like set, and optionally comments
// with their users.
func (s *PostService) hydratePost(post *models.Post, withComments bool) error {
	author, err := s.publicUser(post.AuthorID)
	if err != nil {
		return err
	}
	// A deleted author leaves a zero-value public user.
	post.Author = author

	var likes []models.PostLike
	if err := s.db.Where("post_id = ?", post.ID).Order("created_at DESC").Find(&likes).Error; err != nil {
		return utils.NewInternalError("failed to load likes")
	}
	post.Likes = make([]uint, 0, len(likes))
	for _, l := range likes {
		post.Likes = append(post.Likes, l.UserID)
	}

	if !withComments {
		return nil
	}

	var comments []models.Comment
	if err := s.db.Where("post_id = ?", post.ID).Order("created_at DESC, id DESC").Find(&comments).Error; err != nil {
		return utils.NewInternalError("failed to load comments")
	}

	userIDs := make([]uint, 0, len(comments))
	seen := map[uint]bool{}
	for _, c := range comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			userIDs = append(userIDs, c.UserID)
		}
	}
	userMap, err := s.publicUsers(userIDs)
	if err != nil {
		return err
	}
	for i := range comments {
		u := userMap[comments[i].UserID]
		// Comment users expose name and image only.
		u.Email = ""
		comments[i].User = u
	}
	post.Comments = comments
	return nil
}

// hydrateAuthors fills the Author field for a slice of posts with one
// batched user fetch.
func (s *PostService) hydrateAuthors(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(posts))
	seen := map[uint]bool{}
	for _, p := range posts {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			ids = append(ids, p.AuthorID)
		}
	}
	userMap, err := s.publicUsers(ids)
	if err != nil {
		return err
	}
	for i := range posts {
		// A deleted author leaves a zero-value public user.
		posts[i].Author = userMap[posts[i].AuthorID]
		if posts[i].Likes == nil {
			posts[i].Likes = []uint{}
		}
	}
	return nil
}

func (s *PostService) publicUsers(ids []uint) (map[uint]models.PublicUser, error) {
	result := map[uint]models.PublicUser{}
	if len(ids) == 0 {
		return result, nil
	}
	var users []models.User
	if err := s.db.Find(&users, ids).Error; err != nil {
		return nil, utils.NewInternalError("failed to load users")
	}
	for _, u := range users {
		result[u.ID] = u.Public()
	}
	return result, nil
}

func (s *PostService) publicUser(id uint) (models.PublicUser, error) {
	users, err := s.publicUsers([]uint{id})
	if err != nil {
		return models.PublicUser{}, err
	}
	return users[id], nil
}

// removeImageFile deletes a stored upload, best-effort.
func (s *PostService) removeImageFile(filename string) {
	if filename == "" {
		return
	}
	path := filepath.Join(s.uploadDir, filepath.Base(filename))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		utils.Sugar.Warnf("failed to remove stored image %s: %v", path, err)
	}
}

func normalizeTags(tags []string) models.TagList {
	out := models.TagList{}
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
