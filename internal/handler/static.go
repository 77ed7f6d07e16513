package handler

import (
	"io/fs"
	"net/http"
	"strings"
)

// imageFS exposes only the regular, visible files of a category
// directory: the same set the image listing shows.
type imageFS struct {
	root http.FileSystem
}

func (f imageFS) Open(name string) (http.File, error) {
	for _, segment := range strings.Split(name, "/") {
		if strings.HasPrefix(segment, ".") {
			return nil, fs.ErrNotExist
		}
	}

	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}

// NewImageFileServer serves the files of dir without directory listings
// or hidden files.
func NewImageFileServer(dir string) http.Handler {
	return http.FileServer(imageFS{root: http.Dir(dir)})
}
