package controllers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"yatube/app/middleware"
	"yatube/app/models"

	"go.uber.org/zap"
)

// viewData is embedded in every page model for the layout.
type viewData struct {
	Actor *models.User
}

// Renderer executes page templates and writes the shared error responses.
type Renderer struct {
	templates map[string]*template.Template
	log       *zap.Logger
}

// NewRenderer creates a Renderer over templates loaded by views.Load
func NewRenderer(templates map[string]*template.Template, log *zap.Logger) *Renderer {
	return &Renderer{templates: templates, log: log}
}

func (rd *Renderer) view(r *http.Request) viewData {
	return viewData{Actor: middleware.ActorFrom(r.Context())}
}

// render buffers the page so a template failure can still produce a clean 500.
func (rd *Renderer) render(w http.ResponseWriter, r *http.Request, name string, status int, data interface{}) {
	tmpl, ok := rd.templates[name]
	if !ok {
		rd.serverError(w, r, fmt.Errorf("template %q not loaded", name))
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		rd.serverError(w, r, fmt.Errorf("render %s: %w", name, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// NotFound renders the 404 page.
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	data := struct {
		viewData
		Path string
	}{
		viewData: rd.view(r),
		Path:     r.URL.Path,
	}
	rd.render(w, r, "not_found", http.StatusNotFound, data)
}

func (rd *Renderer) serverError(w http.ResponseWriter, r *http.Request, err error) {
	rd.log.Error("request failed",
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
