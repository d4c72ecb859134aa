package views

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed layouts errors partials auth events invitations users *.html
var files embed.FS

const dateTimeLayout = "02 Jan 2006, 15:04"

// NewEngine gömülü şablonlardan HTML motorunu oluşturur. Tarihler loc'a göre gösterilir.
func NewEngine(loc *time.Location) *html.Engine {
	if loc == nil {
		loc = time.UTC
	}
	engine := html.NewFileSystem(http.FS(files), ".html")
	engine.AddFunc("safe", func(s string) template.HTML {
		return template.HTML(s)
	})
	engine.AddFunc("localTime", func(t time.Time) string {
		return t.In(loc).Format(dateTimeLayout)
	})
	engine.AddFunc("isoLocal", func(t time.Time) string {
		return t.In(loc).Format("2006-01-02T15:04")
	})
	engine.AddFunc("dict", dict)
	return engine
}

// dict partial'lara anahtar/değer çiftlerinden bir map geçirmek için.
func dict(pairs ...any) map[string]any {
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if key, ok := pairs[i].(string); ok {
			m[key] = pairs[i+1]
		}
	}
	return m
}
