package service

import (
	"context"

	"kisaan/entities"
)

type KBService interface {
	UpsertDocument(ctx context.Context, title, tags, text, sourceURL string) (*entities.KBDocument, int, error)
	// IngestURL fetches an allow-listed page and stores its main text.
	IngestURL(ctx context.Context, rawURL, title, tags string) (*entities.KBDocument, int, error)
	Search(ctx context.Context, query string, k int) ([]entities.KBChunk, error)
	DocsMeta(ctx context.Context, ids []uint) (map[uint]entities.KBDocument, error)
	ListDocs(ctx context.Context) ([]entities.KBDocument, error)
}
