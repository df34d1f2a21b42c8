package handlers

import (
	"corkboard/internal/middleware"
	"corkboard/internal/views"

	"github.com/gin-gonic/gin"
)

// Render injects common variables (current user, list state) before handing
// off to the template.
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}

	if _, ok := obj["State"]; !ok {
		obj["State"] = listState(c)
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the error page inside the full shell so failures look
// like every other page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message, "Title": "Error"})
}

// listState reads the round-tripped page/limit/sort parameters, falling back
// to form fields so POST handlers can redirect back to the right spot.
func listState(c *gin.Context) views.ListState {
	page := c.Query("page")
	limit := c.Query("limit")
	sort := c.Query("sort")
	if c.Request.Method == "POST" {
		if v := c.PostForm("page"); v != "" {
			page = v
		}
		if v := c.PostForm("limit"); v != "" {
			limit = v
		}
		if v := c.PostForm("sort"); v != "" {
			sort = v
		}
	}
	return views.ParseListState(page, limit, sort)
}
