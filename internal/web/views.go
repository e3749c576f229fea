package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// Layout wraps every page; pages are inserted where it calls embed
const Layout = "layout"

// NewViews creates the html engine over the embedded templates. Pages are
// addressed by file name without extension ("map", "login", ...).
func NewViews() *html.Engine {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("join", strings.Join)
	return engine
}
