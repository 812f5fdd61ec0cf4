package frontend

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/whiteborder/internal/border"
	"github.com/jo-hoe/whiteborder/internal/core"
	"github.com/jo-hoe/whiteborder/internal/icons"
	"github.com/labstack/echo/v4"
)

const (
	MainPageName = "index.html"
	viewsPattern = "views/*.html"

	mimeJS       = "text/javascript; charset=utf-8"
	mimeCSS      = "text/css; charset=utf-8"
	mimeSVG      = "image/svg+xml"
	mimeManifest = "application/manifest+json"
)

//go:embed views/*.html
var templateFS embed.FS

//go:embed views/app.js views/app.css views/icon.svg
var assetsFS embed.FS

// Template renders the embedded page templates.
type Template struct {
	templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

// FrontendService serves the page, its script and style, the WebAssembly
// bundle and the generated icons. All image work happens in the browser.
type FrontendService struct {
	config *core.ServiceConfig
}

type pageData struct {
	BasePath       string
	MinPercent     int
	MaxPercent     int
	DefaultPercent int
}

type manifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

type webManifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	StartURL        string         `json:"start_url"`
	Display         string         `json:"display"`
	BackgroundColor string         `json:"background_color"`
	ThemeColor      string         `json:"theme_color"`
	Icons           []manifestIcon `json:"icons"`
}

func NewFrontendService(config *core.ServiceConfig) *FrontendService {
	return &FrontendService{
		config: config,
	}
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, service.config.BasePath+"/"+MainPageName)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(templateFS, viewsPattern)),
	}

	base := service.config.BasePath
	if base == "" {
		e.GET("/", service.rootRedirectHandler)
	} else {
		e.GET(base, service.rootRedirectHandler)
	}

	g := e.Group(base)
	g.GET("/"+MainPageName, service.indexHandler)
	g.GET("/app.js", service.embeddedAssetHandler("views/app.js", mimeJS))
	g.GET("/app.css", service.embeddedAssetHandler("views/app.css", mimeCSS))
	g.GET("/icon.svg", service.embeddedAssetHandler("views/icon.svg", mimeSVG))
	g.GET("/manifest.webmanifest", service.manifestHandler)

	// wasm_exec.js, app.wasm and generated icons
	g.Static("/assets", service.config.AssetsDir)

	e.GET("/probe", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "ok")
	})
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, MainPageName, pageData{
		BasePath:       service.config.BasePath,
		MinPercent:     border.MinPercent,
		MaxPercent:     border.MaxPercent,
		DefaultPercent: border.DefaultPercent,
	})
}

func (service *FrontendService) embeddedAssetHandler(name, contentType string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		data, err := assetsFS.ReadFile(name)
		if err != nil {
			slog.Error("embeddedAssetHandler: failed to read asset",
				"status", http.StatusInternalServerError, "asset", name, "error", err)
			return ctx.String(http.StatusInternalServerError, "Failed to load asset")
		}
		// Cache for 1 hour
		ctx.Response().Header().Set("Cache-Control", "public, max-age=3600")
		return ctx.Blob(http.StatusOK, contentType, data)
	}
}

func (service *FrontendService) manifestHandler(ctx echo.Context) error {
	base := service.config.BasePath
	manifest := webManifest{
		Name:            "White Border",
		ShortName:       "White Border",
		StartURL:        base + "/" + MainPageName,
		Display:         "standalone",
		BackgroundColor: service.config.Icons.Background,
		ThemeColor:      service.config.Icons.Background,
		Icons:           make([]manifestIcon, 0, len(service.config.Icons.ManifestSizes)),
	}
	for _, size := range service.config.Icons.ManifestSizes {
		manifest.Icons = append(manifest.Icons, manifestIcon{
			Src:   fmt.Sprintf("%s/assets/%s", base, icons.ManifestPath(size)),
			Sizes: fmt.Sprintf("%dx%d", size, size),
			Type:  "image/png",
		})
	}

	data, err := json.Marshal(manifest)
	if err != nil {
		slog.Error("manifestHandler: failed to encode manifest",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to build manifest")
	}
	return ctx.Blob(http.StatusOK, mimeManifest, data)
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}
