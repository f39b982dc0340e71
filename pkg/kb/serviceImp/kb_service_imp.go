package serviceImp

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"kisaan/entities"
	"kisaan/pkg/apperr"
	"kisaan/pkg/kb/embedder"
	"kisaan/pkg/kb/repository"
	"kisaan/pkg/kb/service"
	"kisaan/pkg/logger"
)

const (
	chunkRunes   = 1000
	queryCacheN  = 256
	queryCacheTT = 30 * time.Minute
)

// Embedder turns texts into vectors. *embedder.Client satisfies it.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type Config struct {
	AllowedDomains  []string
	MaxBytesPerPage int
}

type Svc struct {
	r        repository.KBRepository
	emb      Embedder
	queries  *expirable.LRU[string, []float32]
	allow    map[string]bool
	maxBytes int
	fetch    func(ctx context.Context, u string, maxBytes int) (string, string, error)
}

// New builds the service. emb may be nil, in which case search falls back
// to keyword matching.
func New(r repository.KBRepository, emb Embedder, cfg Config) *Svc {
	allow := map[string]bool{}
	for _, h := range cfg.AllowedDomains {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allow[h] = true
		}
	}
	mb := cfg.MaxBytesPerPage
	if mb <= 0 {
		mb = 1500000
	}
	return &Svc{
		r:        r,
		emb:      emb,
		queries:  expirable.NewLRU[string, []float32](queryCacheN, nil, queryCacheTT),
		allow:    allow,
		maxBytes: mb,
		fetch:    fetchMainText,
	}
}

var _ service.KBService = (*Svc)(nil)

// chunkText splits text into pieces of at least maxRunes runes, cutting
// only at line ends.
func chunkText(text string, maxRunes int) []string {
	if maxRunes <= 0 {
		maxRunes = chunkRunes
	}
	var parts []string
	var cur strings.Builder
	count := 0
	for _, r := range text {
		cur.WriteRune(r)
		count++
		if count >= maxRunes && r == '\n' {
			parts = append(parts, cur.String())
			cur.Reset()
			count = 0
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		parts = append(parts, cur.String())
	}
	return parts
}

func (s *Svc) UpsertDocument(ctx context.Context, title, tags, text, sourceURL string) (*entities.KBDocument, int, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(text) == "" {
		return nil, 0, fmt.Errorf("%w: title and text are required", apperr.ErrInvalidInput)
	}
	d := &entities.KBDocument{Title: title, Tags: strings.TrimSpace(tags), SourceURL: sourceURL}

	chs := chunkText(text, chunkRunes)
	var embs [][]float32
	if s.emb != nil && len(chs) > 0 {
		var err error
		if embs, err = s.emb.Embed(ctx, chs); err != nil {
			// chunks without vectors are still found by keyword search
			logger.FromContext(ctx).Warn("kb embedding failed", "title", title, "error", err)
			embs = nil
		}
	}

	rows := make([]entities.KBChunk, len(chs))
	for i := range chs {
		rows[i] = entities.KBChunk{Ord: i, Text: chs[i]}
		if i < len(embs) {
			rows[i].Embedding = embedder.FloatsToBytes(embs[i])
		}
	}
	if err := s.r.CreateDocWithChunks(ctx, d, rows); err != nil {
		return nil, 0, fmt.Errorf("%w: kb document: %v", apperr.ErrStoreUnavailable, err)
	}
	logger.FromContext(ctx).Info("kb document stored", "doc_id", d.DocID, "chunks", len(rows), "embedded", len(embs) > 0)
	return d, len(rows), nil
}

func (s *Svc) queryVector(ctx context.Context, q string) []float32 {
	if s.emb == nil {
		return nil
	}
	if v, ok := s.queries.Get(q); ok {
		return v
	}
	vec, err := s.emb.Embed(ctx, []string{q})
	if err != nil || len(vec) == 0 {
		return nil
	}
	s.queries.Add(q, vec[0])
	return vec[0]
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := 0; i < len(a) && i < len(b); i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// keywordScore is the share of query terms that occur in text.
func keywordScore(terms []string, text string) float64 {
	if len(terms) == 0 {
		return 0
	}
	low := strings.ToLower(text)
	hit := 0
	for _, t := range terms {
		if strings.Contains(low, t) {
			hit++
		}
	}
	return float64(hit) / float64(len(terms))
}

func (s *Svc) Search(ctx context.Context, query string, k int) ([]entities.KBChunk, error) {
	q := strings.TrimSpace(query)
	if q == "" || k <= 0 {
		return nil, nil
	}
	chunks, err := s.r.AllChunks(ctx)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	type scored struct {
		ch entities.KBChunk
		sc float64
	}
	list := make([]scored, 0, len(chunks))

	if qvec := s.queryVector(ctx, q); len(qvec) > 0 {
		for _, ch := range chunks {
			v := embedder.BytesToFloats(ch.Embedding)
			if len(v) != len(qvec) {
				continue
			}
			if sc := cosine(qvec, v); sc > 0 {
				list = append(list, scored{ch, sc})
			}
		}
	}
	if len(list) == 0 {
		terms := strings.Fields(strings.ToLower(q))
		for _, ch := range chunks {
			if sc := keywordScore(terms, ch.Text); sc > 0 {
				list = append(list, scored{ch, sc})
			}
		}
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].sc > list[j].sc })
	if k > len(list) {
		k = len(list)
	}
	out := make([]entities.KBChunk, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, list[i].ch)
	}
	return out, nil
}

func (s *Svc) DocsMeta(ctx context.Context, ids []uint) (map[uint]entities.KBDocument, error) {
	return s.r.DocsByIDs(ctx, ids)
}

func (s *Svc) ListDocs(ctx context.Context) ([]entities.KBDocument, error) {
	return s.r.ListDocs(ctx)
}
