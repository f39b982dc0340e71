package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"kisaan/entities"
	"kisaan/pkg/kb/repository"
)

type repo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.KBRepository { return &repo{db} }

func (r *repo) CreateDocWithChunks(ctx context.Context, d *entities.KBDocument, chunks []entities.KBChunk) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(d).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		for i := range chunks {
			chunks[i].DocID = d.DocID
		}
		return tx.CreateInBatches(&chunks, 100).Error
	})
}

func (r *repo) ListDocs(ctx context.Context) ([]entities.KBDocument, error) {
	var ds []entities.KBDocument
	return ds, r.db.WithContext(ctx).Order("doc_id DESC").Find(&ds).Error
}

func (r *repo) AllChunks(ctx context.Context) ([]entities.KBChunk, error) {
	var cs []entities.KBChunk
	return cs, r.db.WithContext(ctx).Order("doc_id, ord").Find(&cs).Error
}

func (r *repo) DocsByIDs(ctx context.Context, ids []uint) (map[uint]entities.KBDocument, error) {
	if len(ids) == 0 {
		return map[uint]entities.KBDocument{}, nil
	}
	var ds []entities.KBDocument
	if err := r.db.WithContext(ctx).Where("doc_id IN ?", ids).Find(&ds).Error; err != nil {
		return nil, err
	}
	m := make(map[uint]entities.KBDocument, len(ds))
	for i := range ds {
		m[ds[i].DocID] = ds[i]
	}
	return m, nil
}
