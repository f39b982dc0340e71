package repository

import (
	"context"

	"kisaan/entities"
)

type KBRepository interface {
	// CreateDocWithChunks stores d and its chunks together; chunk DocIDs are
	// set from the new document id.
	CreateDocWithChunks(ctx context.Context, d *entities.KBDocument, chunks []entities.KBChunk) error
	ListDocs(ctx context.Context) ([]entities.KBDocument, error)
	AllChunks(ctx context.Context) ([]entities.KBChunk, error)
	DocsByIDs(ctx context.Context, ids []uint) (map[uint]entities.KBDocument, error)
}
