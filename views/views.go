// Package views holds the HTML documents the site serves: the page shell the
// browser app mounts into, and the error pages.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/sage/head"
)

// AppMountID is the element the browser app mounts into.
const AppMountID = "__sage"

// PageData is what every document needs: the head descriptor and the
// public runtime config.
type PageData struct {
	Head    head.Descriptor
	Runtime head.RuntimeConfig
}

// Page is the shell for GET /.
func Page(p PageData) templ.Component {
	return document(p, func(w io.Writer) error {
		_, err := io.WriteString(w, `<div id="`+AppMountID+`"></div>`+"\n"+
			"<noscript>"+templ.EscapeString(p.Head.Title)+" needs JavaScript to chat.</noscript>\n")
		return err
	})
}

// NotFound is rendered for unknown routes.
func NotFound(p PageData) templ.Component {
	return document(p, errorBody("404", "Page not found", "The page you are looking for does not exist."))
}

// ServerError is rendered when a handler fails.
func ServerError(p PageData) templ.Component {
	return document(p, errorBody("500", "Something went wrong", "Please try again in a moment."))
}

func errorBody(code, title, detail string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, `<main class="error">`+"\n"+
			"<h1>"+code+"</h1>\n"+
			"<p>"+templ.EscapeString(title)+"</p>\n"+
			"<p>"+templ.EscapeString(detail)+"</p>\n"+
			`<a href="/">Back to the sage</a>`+"\n"+
			"</main>\n")
		return err
	}
}

func document(p PageData, body func(io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html>\n<html lang=\"en\">\n"); err != nil {
			return err
		}
		if err := head.Head(p.Head, p.Runtime).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n<body>\n"); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}
