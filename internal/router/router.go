package router

import (
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"corkboard/internal/handlers"
	"corkboard/internal/middleware"
	"corkboard/internal/session"
	"corkboard/internal/store"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
)

// New builds the engine: templates, middleware and the full route table.
func New(st *store.Store, sessions *session.Table, templatesDir string) *gin.Engine {
	r := gin.Default()
	r.HTMLRender = LoadTemplates(templatesDir)
	r.Use(middleware.LoadUser(st, sessions))

	authHandler := handlers.NewAuthHandler(st, sessions)
	boardHandler := handlers.NewBoardHandler(st)

	// Public routes
	r.GET("/", boardHandler.Index) // list, or single post via ?id=
	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register_process", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login_process", authHandler.Login)
	r.POST("/logout_process", authHandler.Logout)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create", boardHandler.ShowCreate)
		authorized.POST("/create_process", boardHandler.Create)
		authorized.GET("/update", boardHandler.ShowEdit)
		authorized.POST("/update_process", boardHandler.Update)
		authorized.POST("/delete_process", boardHandler.Delete)
	}

	r.NoRoute(boardHandler.NotFound)

	return r
}

// LoadTemplates assembles each view with the shared layouts and components.
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	components, err := filepath.Glob(templatesDir + "/components/*.html")
	if err != nil {
		panic(err)
	}

	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, components...)
		files = append(files, view)
		return files
	}

	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"formatTime": func(t time.Time) string {
			return t.Local().Format("2006-01-02 15:04")
		},
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	// Board
	r.AddFromFilesFuncs("board/list.html", funcMap, assemble(templatesDir+"/views/board/list.html")...)
	r.AddFromFilesFuncs("board/detail.html", funcMap, assemble(templatesDir+"/views/board/detail.html")...)
	r.AddFromFilesFuncs("board/create.html", funcMap, assemble(templatesDir+"/views/board/create.html")...)
	r.AddFromFilesFuncs("board/edit.html", funcMap, assemble(templatesDir+"/views/board/edit.html")...)

	// Auth
	r.AddFromFilesFuncs("auth/login.html", funcMap, assemble(templatesDir+"/views/auth/login.html")...)
	r.AddFromFilesFuncs("auth/register.html", funcMap, assemble(templatesDir+"/views/auth/register.html")...)

	// Error
	r.AddFromFilesFuncs("error.html", funcMap, assemble(templatesDir+"/views/error.html")...)

	return r
}
