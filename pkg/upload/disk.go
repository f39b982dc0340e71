package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kisaan/pkg/apperr"
	"kisaan/pkg/metrics"
)

type disk struct {
	root    string
	baseURL string
}

// NewDisk writes files under root; they are served at baseURL (see the
// router's static mount).
func NewDisk(root, baseURL string) Uploader {
	return &disk{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (d *disk) UploadFile(ctx context.Context, data []byte, dest string) (string, error) {
	url, err := d.put(ctx, data, dest)
	metrics.ObserveUpload(err)
	return url, err
}

func (d *disk) put(ctx context.Context, data []byte, dest string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrUploadFailed, err)
	}
	rel, err := cleanDest(dest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrUploadFailed, err)
	}
	full := filepath.Join(d.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrUploadFailed, err)
	}
	// write then rename so a reader never sees half a photo
	tmp := full + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrUploadFailed, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", apperr.ErrUploadFailed, err)
	}
	return d.baseURL + "/" + rel, nil
}
