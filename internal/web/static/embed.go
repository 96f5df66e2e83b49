// Package static embeds the HTML templates and assets of the web pages.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html assets/*
var files embed.FS

// Templates returns the template directory.
func Templates() fs.FS {
	fsys, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return fsys
}

// GetFileSystem returns an http.FileSystem for the embedded assets directory.
func GetFileSystem() http.FileSystem {
	fsys, err := fs.Sub(files, "assets")
	if err != nil {
		panic(err)
	}
	return http.FS(fsys)
}
