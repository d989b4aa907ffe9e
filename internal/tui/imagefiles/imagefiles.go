// ABOUTME: Discovers cover image candidates on disk
// ABOUTME: Looks in BOOKX_IMAGES_DIR or the working directory

package imagefiles

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ImageFile represents a discovered image
type ImageFile struct {
	Name string // e.g. "dune-cover.jpg"
	Path string
	Size int64
}

// Label is the picker display text, e.g. "dune-cover.jpg (24 kB)"
func (f ImageFile) Label() string {
	return f.Name + " (" + humanize.Bytes(uint64(f.Size)) + ")"
}

// IsImage reports whether path has a supported image extension
func IsImage(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// Discover lists image files directly inside dir, sorted by name. A missing dir yields none.
func Discover(dir string) ([]ImageFile, error) {
	if dir == "" {
		return []ImageFile{}, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []ImageFile{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := []ImageFile{}
	for _, entry := range entries {
		if entry.IsDir() || !IsImage(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, ImageFile{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// FindImagesDir returns BOOKX_IMAGES_DIR when it exists, else the working directory
func FindImagesDir() string {
	if envPath := os.Getenv("BOOKX_IMAGES_DIR"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return ""
}
