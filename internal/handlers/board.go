package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"corkboard/internal/listing"
	"corkboard/internal/middleware"
	"corkboard/internal/models"
	"corkboard/internal/store"
	"corkboard/internal/utils"
	"corkboard/internal/views"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	store *store.Store

	// detailCache holds shared detail renders; viewer-specific fields are
	// injected per request.
	detailCache *utils.Cache
}

func NewBoardHandler(st *store.Store) *BoardHandler {
	return &BoardHandler{
		store:       st,
		detailCache: utils.NewCache(500),
	}
}

// PostItem is a post plus its resolved author display name.
type PostItem struct {
	models.Post
	AuthorName string
}

// authorName resolves a post's author to a display name. Author 0 is the
// system, and so is any id that no longer resolves.
func (h *BoardHandler) authorName(author int) string {
	if author != 0 {
		if user, ok := h.store.FindUser(author); ok {
			return user.Nickname
		}
	}
	return "system"
}

func (h *BoardHandler) fillAuthors(posts []models.Post) []PostItem {
	items := make([]PostItem, len(posts))
	for i, p := range posts {
		items[i] = PostItem{Post: p, AuthorName: h.authorName(p.Author)}
	}
	return items
}

// Index serves the board front page: the sorted, paginated list, or a single
// post when an id query parameter is present.
func (h *BoardHandler) Index(c *gin.Context) {
	if idStr := c.Query("id"); idStr != "" {
		h.detail(c, idStr)
		return
	}

	state := listState(c)
	sorted := listing.Sort(h.store.Posts(), state.Sort)
	pageSlice, total := listing.Paginate(sorted, state.Page, state.Limit)

	Render(c, http.StatusOK, "board/list.html", gin.H{
		"Title": "Board",
		"Posts": h.fillAuthors(pageSlice),
		"Pager": views.BuildPager(total, state.Page, state.Limit),
		"State": state,
	})
}

func (h *BoardHandler) detail(c *gin.Context, idStr string) {
	id, err := strconv.Atoi(idStr)
	if err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	// The rendered body is shared between viewers; only the edit/delete
	// controls depend on who is looking, so they are injected per request.
	cacheKey := fmt.Sprintf("board:detail:%d", id)
	var data gin.H
	if cached := h.detailCache.Get(cacheKey); cached != nil {
		data, _ = cached.(gin.H)
	}

	if data == nil {
		post, ok := h.store.FindPost(id)
		if !ok {
			RenderError(c, http.StatusNotFound, "Post not found")
			return
		}
		data = gin.H{
			"Title":       post.Title,
			"Post":        PostItem{Post: post, AuthorName: h.authorName(post.Author)},
			"PostContent": utils.RenderMarkdown(post.Description),
		}
		h.detailCache.Set(cacheKey, data, 5*time.Minute)
	}

	// Copy before injecting per-viewer fields; the cached map is shared.
	obj := gin.H{}
	for k, v := range data {
		obj[k] = v
	}

	canModify := false
	if user := middleware.CurrentUser(c); user != nil {
		if item, ok := obj["Post"].(PostItem); ok {
			canModify = item.Author == user.ID
		}
	}
	obj["CanModify"] = canModify

	Render(c, http.StatusOK, "board/detail.html", obj)
}

func (h *BoardHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "board/create.html", gin.H{
		"Title":       "New post",
		"FormTitle":   "",
		"Description": "",
	})
}

func (h *BoardHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	title := c.PostForm("title")
	description := c.PostForm("description")
	if title == "" || description == "" {
		Render(c, http.StatusBadRequest, "board/create.html", gin.H{
			"Title":       "New post",
			"Error":       "Title and description are required",
			"FormTitle":   title,
			"Description": description,
		})
		return
	}

	h.store.CreatePost(title, description, user.ID)

	c.Redirect(http.StatusFound, "/?"+listState(c).Encode())
}

func (h *BoardHandler) ShowEdit(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	id, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		RenderError(c, http.StatusForbidden, "You cannot edit this post")
		return
	}
	post, ok := h.store.FindPost(id)
	if !ok || post.Author != user.ID {
		RenderError(c, http.StatusForbidden, "You cannot edit this post")
		return
	}

	Render(c, http.StatusOK, "board/edit.html", gin.H{
		"Title": "Edit post",
		"Post":  post,
	})
}

func (h *BoardHandler) Update(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	id, err := strconv.Atoi(c.PostForm("id"))
	if err != nil {
		RenderError(c, http.StatusForbidden, "You cannot edit this post")
		return
	}
	post, ok := h.store.FindPost(id)
	if !ok || post.Author != user.ID {
		RenderError(c, http.StatusForbidden, "You cannot edit this post")
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")
	if title == "" || description == "" {
		Render(c, http.StatusBadRequest, "board/edit.html", gin.H{
			"Title": "Edit post",
			"Post":  post,
			"Error": "Title and description are required",
		})
		return
	}

	if _, err := h.store.UpdatePost(id, title, description); err != nil {
		RenderError(c, http.StatusForbidden, "You cannot edit this post")
		return
	}
	h.detailCache.Delete(fmt.Sprintf("board:detail:%d", id))

	c.Redirect(http.StatusFound, fmt.Sprintf("/?id=%d&%s", id, listState(c).Encode()))
}

func (h *BoardHandler) Delete(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	id, err := strconv.Atoi(c.PostForm("id"))
	if err != nil {
		RenderError(c, http.StatusForbidden, "You cannot delete this post")
		return
	}
	post, ok := h.store.FindPost(id)
	if !ok || post.Author != user.ID {
		RenderError(c, http.StatusForbidden, "You cannot delete this post")
		return
	}

	if err := h.store.DeletePost(id); err != nil {
		RenderError(c, http.StatusForbidden, "You cannot delete this post")
		return
	}
	h.detailCache.Delete(fmt.Sprintf("board:detail:%d", id))

	c.Redirect(http.StatusFound, "/?"+listState(c).Encode())
}

// NotFound is the catch-all for unknown paths.
func (h *BoardHandler) NotFound(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "Page not found")
}
