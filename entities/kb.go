package entities

import "time"

// KBDocument is an agronomy reference (extension note, article) whose
// chunks are offered to the generator as background.
type KBDocument struct {
	DocID     uint      `gorm:"primaryKey" json:"docId"`
	Title     string    `json:"title"`
	SourceURL string    `json:"sourceUrl"`
	Tags      string    `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

type KBChunk struct {
	ChunkID   uint      `gorm:"primaryKey" json:"chunkId"`
	DocID     uint      `gorm:"index" json:"docId"`
	Ord       int       `json:"ord"`
	Text      string    `json:"text"`
	Embedding []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func (KBDocument) TableName() string { return "kb_documents" }

func (KBChunk) TableName() string { return "kb_chunks" }
