package controllerImp

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"kisaan/pkg/apperr"
	"kisaan/pkg/httpresp"
	"kisaan/pkg/kb/service"
)

const defaultTopK = 6

type KBCtrl struct {
	s service.KBService
}

func New(s service.KBService) *KBCtrl {
	return &KBCtrl{s: s}
}

type ingestReq struct {
	Title     string `json:"title"`
	Tags      string `json:"tags"`
	Text      string `json:"text"`
	SourceURL string `json:"sourceUrl"`
}

type ingestURLReq struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Tags  string `json:"tags"`
}

func (h *KBCtrl) IngestText(c echo.Context) error {
	var req ingestReq
	if err := c.Bind(&req); err != nil {
		return httpresp.Error(c, fmt.Errorf("%w: invalid json", apperr.ErrInvalidInput))
	}
	doc, n, err := h.s.UpsertDocument(c.Request().Context(), req.Title, req.Tags, req.Text, strings.TrimSpace(req.SourceURL))
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"doc": doc, "chunks": n})
}

func (h *KBCtrl) IngestURL(c echo.Context) error {
	var req ingestURLReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		return httpresp.Error(c, fmt.Errorf("%w: url required", apperr.ErrInvalidInput))
	}
	doc, n, err := h.s.IngestURL(c.Request().Context(), req.URL, req.Title, req.Tags)
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"doc": doc, "chunks": n})
}

type searchHit struct {
	ChunkID   uint   `json:"chunkId"`
	DocID     uint   `json:"docId"`
	Ord       int    `json:"ord"`
	Text      string `json:"text"`
	DocTitle  string `json:"docTitle,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`
}

func (h *KBCtrl) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return httpresp.Error(c, fmt.Errorf("%w: q required", apperr.ErrInvalidInput))
	}
	k := defaultTopK
	if v := c.QueryParam("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return httpresp.Error(c, fmt.Errorf("%w: k must be a positive integer", apperr.ErrInvalidInput))
		}
		k = n
	}

	ctx := c.Request().Context()
	chunks, err := h.s.Search(ctx, q, k)
	if err != nil {
		return httpresp.Error(c, err)
	}

	seen := map[uint]bool{}
	ids := make([]uint, 0, len(chunks))
	for _, ch := range chunks {
		if !seen[ch.DocID] {
			seen[ch.DocID] = true
			ids = append(ids, ch.DocID)
		}
	}
	meta, err := h.s.DocsMeta(ctx, ids)
	if err != nil {
		return httpresp.Error(c, err)
	}

	out := make([]searchHit, 0, len(chunks))
	for _, ch := range chunks {
		hit := searchHit{ChunkID: ch.ChunkID, DocID: ch.DocID, Ord: ch.Ord, Text: ch.Text}
		if d, ok := meta[ch.DocID]; ok {
			hit.DocTitle = d.Title
			hit.SourceURL = d.SourceURL
		}
		out = append(out, hit)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *KBCtrl) ListDocs(c echo.Context) error {
	docs, err := h.s.ListDocs(c.Request().Context())
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusOK, docs)
}
