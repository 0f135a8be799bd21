// Package views embeds the HTML templates and static assets.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"time"
)

//go:embed layout.html includes posts auth errors static
var files embed.FS

// pages maps a template name to the page file rendered inside the layout.
var pages = map[string]string{
	"index":       "posts/index.html",
	"group_list":  "posts/group_list.html",
	"profile":     "posts/profile.html",
	"post_detail": "posts/post_detail.html",
	"create_post": "posts/create_post.html",
	"login":       "auth/login.html",
	"signup":      "auth/signup.html",
	"not_found":   "errors/404.html",
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2 January 2006")
	},
}

// Load parses every page together with the layout and shared includes.
func Load() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for name, page := range pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(files, "layout.html", "includes/*.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// Static returns the embedded static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
