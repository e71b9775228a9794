// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package view renders pages to HTML.

Route handlers never build markup themselves: they pick a page template and
fill a [Layout]. The result is a [Node] that the HTML capability turns into
bytes.
*/
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"
)

//go:embed templates/*.html
var files embed.FS

const layoutFile = "layout.html"

// Node is anything that renders to HTML.
type Node interface {
	Render(w io.Writer) error
}

// Viewer is the signed-in user as shown in the page chrome.
type Viewer struct {
	Name      string
	AvatarURL string
	Premium   bool
}

// Layout is the data every page template receives.
type Layout struct {
	Title   string
	Viewer  *Viewer
	CSRF    string
	Login   string
	Content any
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("2 January 2006") },
	"minutes": func(d time.Duration) int {
		return int(d.Round(time.Minute) / time.Minute)
	},
	"cents": func(amount int) string { return fmt.Sprintf("%d.%02d", amount/100, amount%100) },
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	base, err := template.New(layoutFile).Funcs(funcs).ParseFS(files, "templates/"+layoutFile)
	if err != nil {
		return nil, fmt.Errorf("view: parse layout: %w", err)
	}

	entries, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: list templates: %w", err)
	}

	renderer := &Renderer{pages: make(map[string]*template.Template, len(entries))}
	for _, entry := range entries {
		name := strings.TrimSuffix(path.Base(entry), ".html")
		if name+".html" == layoutFile {
			continue
		}

		page, err := template.Must(base.Clone()).ParseFS(files, entry)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", entry, err)
		}
		renderer.pages[name] = page
	}

	return renderer, nil
}

// Page binds layout to the named page template.
func (renderer *Renderer) Page(name string, layout Layout) Node {
	return page{template: renderer.pages[name], name: name, layout: layout}
}

type page struct {
	template *template.Template
	name     string
	layout   Layout
}

func (p page) Render(w io.Writer) error {
	if p.template == nil {
		return fmt.Errorf("view: unknown page %q", p.name)
	}
	return p.template.ExecuteTemplate(w, layoutFile, p.layout)
}

// Bytes renders node into memory, so a failed render never leaves a half
// written response behind.
func Bytes(node Node) ([]byte, error) {
	var buffer bytes.Buffer
	if err := node.Render(&buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
