package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"kisaan/pkg/apperr"
	"kisaan/pkg/metrics"
)

// objectBucket is the part of jetstream.ObjectStore that ObjectStore uses.
type objectBucket interface {
	PutBytes(ctx context.Context, name string, data []byte) (*jetstream.ObjectInfo, error)
	GetBytes(ctx context.Context, name string, opts ...jetstream.GetObjectOpt) ([]byte, error)
}

// ObjectStore keeps photos in a JetStream object store bucket.
type ObjectStore struct {
	nc      *nats.Conn
	baseURL string
	obs     objectBucket
}

// NewObjectStore connects to url and creates the bucket if it is missing.
// Returned URLs are baseURL/<name>; mount Serve under the same prefix.
func NewObjectStore(ctx context.Context, url, bucket, baseURL string) (*ObjectStore, error) {
	nc, err := nats.Connect(url, nats.Name("kisaan-uploads"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	obs, err := js.CreateOrUpdateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      bucket,
		Description: "farming problem and task verification photos",
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("object store %s: %w", bucket, err)
	}
	slog.Info("upload object store ready", "bucket", bucket)
	return newObjectStore(nc, obs, baseURL), nil
}

func newObjectStore(nc *nats.Conn, obs objectBucket, baseURL string) *ObjectStore {
	return &ObjectStore{nc: nc, baseURL: strings.TrimRight(baseURL, "/"), obs: obs}
}

func (s *ObjectStore) UploadFile(ctx context.Context, data []byte, dest string) (string, error) {
	name, err := cleanDest(dest)
	if err == nil {
		_, err = s.obs.PutBytes(ctx, name, data)
	}
	metrics.ObserveUpload(err)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrUploadFailed, err)
	}
	return s.baseURL + "/" + name, nil
}

// Get returns the stored bytes for a name previously returned by UploadFile.
func (s *ObjectStore) Get(ctx context.Context, name string) ([]byte, error) {
	b, err := s.obs.GetBytes(ctx, name)
	if err != nil {
		if errors.Is(err, jetstream.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, name)
		}
		return nil, err
	}
	return b, nil
}

// Serve streams the object named by the "*" route parameter.
func (s *ObjectStore) Serve(c echo.Context) error {
	name, err := cleanDest(c.Param("*"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := s.Get(c.Request().Context(), name)
	if errors.Is(err, apperr.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.Blob(http.StatusOK, http.DetectContentType(b), b)
}

func (s *ObjectStore) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}
