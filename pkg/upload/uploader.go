// Package upload stores user photos and returns the URL they are served from.
package upload

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

// Uploader stores data at dest and returns a URL for it.
type Uploader interface {
	UploadFile(ctx context.Context, data []byte, dest string) (string, error)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Path builds "{prefix}/{unixMillis}-{name}" with name reduced to a safe
// file name.
func Path(prefix string, at time.Time, name string) string {
	base := unsafeName.ReplaceAllString(path.Base(strings.ReplaceAll(name, "\\", "/")), "_")
	if base == "" || base == "." || base == "_" {
		base = "photo"
	}
	return fmt.Sprintf("%s/%d-%s", strings.Trim(prefix, "/"), at.UnixMilli(), base)
}

func cleanDest(dest string) (string, error) {
	d := path.Clean("/" + strings.ReplaceAll(dest, "\\", "/"))
	d = strings.TrimPrefix(d, "/")
	if d == "" || d == "." {
		return "", fmt.Errorf("empty destination")
	}
	return d, nil
}
