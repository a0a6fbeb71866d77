package server

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/llehouerou/carousel/internal/slide"
)

const jsAPIFlag = "enablejsapi=1"

//go:embed web
var webFS embed.FS

var (
	staticFS, _ = fs.Sub(webFS, "web/static")
	pageTmpl    = template.Must(template.ParseFS(webFS, "web/index.html"))
)

type pageSlide struct {
	Index  int
	Kind   string
	Source string
	Title  string
}

type pageData struct {
	Title  string
	Slides []pageSlide
	Total  int
}

// handlePage renders the widget skeleton. Markers, counter and media state
// arrive over the websocket.
func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	descs := s.ctrl.Slides()
	data := pageData{Title: s.cfg.Title, Total: len(descs)}
	if data.Title == "" {
		data.Title = "Carousel"
	}
	for i, d := range descs {
		src := s.remote.source(i)
		if d.Kind == slide.EmbeddedPlayer {
			src = playerSource(src)
		}
		data.Slides = append(data.Slides, pageSlide{
			Index:  i,
			Kind:   d.Kind.String(),
			Source: src,
			Title:  d.Title,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		s.log.Error("server: rendering page", "error", err)
	}
}

// playerSource turns on the embedded player's script API, without which
// the player never reports ready or state changes to the page.
func playerSource(src string) string {
	if src == "" || strings.Contains(src, "enablejsapi=") {
		return src
	}
	if strings.Contains(src, "?") {
		return src + "&" + jsAPIFlag
	}
	return src + "?" + jsAPIFlag
}
