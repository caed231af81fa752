package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/igomarket/backend/internal/domain"
	"github.com/igomarket/backend/internal/infrastructure/cache"
	"github.com/igomarket/backend/internal/infrastructure/flyer"
	"github.com/igomarket/backend/internal/logger"
	"github.com/igomarket/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	extraction *usecase.ExtractionService
	comparison *usecase.ComparisonService
	cart       *usecase.CartService
	cache      *cache.SnapshotCache
	log        *logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	extraction *usecase.ExtractionService,
	comparison *usecase.ComparisonService,
	cart *usecase.CartService,
	snapshotCache *cache.SnapshotCache,
	log *logger.Logger,
) *Handler {
	return &Handler{
		extraction: extraction,
		comparison: comparison,
		cart:       cart,
		cache:      snapshotCache,
		log:        log,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "igomarket-backend",
		"version": "1.0.0",
	})
}

// ingestRequest is the wire form of one ingestion batch. A batch carries
// either raw text lines or a whole HTML document; HTML lines are appended
// after the raw ones.
type ingestRequest struct {
	Vendor    string   `json:"mercado" binding:"required"`
	SourceURL string   `json:"url_fonte"`
	Lines     []string `json:"linhas"`
	HTML      string   `json:"html"`
}

// IngestBatch parses one batch of raw lines and persists it as a new snapshot.
func (h *Handler) IngestBatch(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "mercado é obrigatório"})
		return
	}
	if len(req.Lines) == 0 && req.HTML == "" {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "linhas ou html são obrigatórios"})
		return
	}

	lines := req.Lines
	if req.HTML != "" {
		htmlLines, err := flyer.LinesFromHTML(strings.NewReader(req.HTML))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "html inválido"})
			return
		}
		lines = append(lines, htmlLines...)
	}

	result, err := h.extraction.IngestLines(c.Request.Context(), usecase.IngestRequest{
		Lines:     lines,
		Vendor:    req.Vendor,
		SourceURL: req.SourceURL,
	})
	if err != nil {
		h.log.Error("batch ingestion failed", zap.String("vendor", req.Vendor), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"erro": "falha ao processar o lote"})
		return
	}

	h.log.Info("batch ingested",
		zap.String("vendor", req.Vendor),
		zap.String("snapshot", result.Snapshot),
		zap.Int("accepted", result.Accepted))
	c.JSON(http.StatusCreated, result)
}

// Compare returns one comparison group per SKU matching the query filters.
func (h *Handler) Compare(c *gin.Context) {
	records, ok := h.loadRecords(c)
	if !ok {
		return
	}

	groups := h.comparison.Compare(records, usecase.Filter{
		Name:     c.Query("produto"),
		Brand:    c.Query("marca"),
		Quantity: c.Query("quantidade"),
	})
	c.JSON(http.StatusOK, gin.H{
		"total":      len(groups),
		"resultados": groups,
	})
}

// Search returns the raw records whose name or brand matches the query term.
func (h *Handler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "parâmetro q é obrigatório"})
		return
	}

	records, ok := h.loadRecords(c)
	if !ok {
		return
	}

	matches := h.comparison.SearchRecords(records, term)
	c.JSON(http.StatusOK, gin.H{
		"total":      len(matches),
		"resultados": matches,
	})
}

// Stats summarizes the snapshot in use.
func (h *Handler) Stats(c *gin.Context) {
	records, ok := h.loadRecords(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.comparison.Stats(records))
}

// BestOffers returns the cheapest offer per SKU.
func (h *Handler) BestOffers(c *gin.Context) {
	records, ok := h.loadRecords(c)
	if !ok {
		return
	}

	offers := h.comparison.BestOffers(records)
	c.JSON(http.StatusOK, gin.H{
		"total":      len(offers),
		"resultados": offers,
	})
}

// cartRequest is the wire form of a cart request.
type cartRequest struct {
	Products []domain.CartDescriptor `json:"produtos" binding:"required"`
}

// CheapestCart prices a wish-list across vendors.
func (h *Handler) CheapestCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "produtos é obrigatório"})
		return
	}

	records, ok := h.loadRecords(c)
	if !ok {
		return
	}

	result, err := h.cart.CheapestCart(records, req.Products)
	if errors.Is(err, domain.ErrNoData) {
		c.JSON(http.StatusOK, gin.H{"mensagem": "nenhum dado disponível"})
		return
	}
	if err != nil {
		h.log.Error("cart computation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"erro": "falha ao calcular o carrinho"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Snapshots lists the available snapshot names, newest first.
func (h *Handler) Snapshots(c *gin.Context) {
	names, err := h.extraction.Snapshots(c.Request.Context())
	if err != nil {
		h.log.Error("listing snapshots failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"erro": "falha ao listar snapshots"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": names})
}

// loadRecords resolves the record collection for a read request: the snapshot
// named in the query, or the latest one. The false return means the response
// has already been written.
func (h *Handler) loadRecords(c *gin.Context) ([]domain.ProductRecord, bool) {
	ctx := c.Request.Context()

	if name := c.Query("snapshot"); name != "" {
		if records, err := h.cache.Get(ctx, name); err == nil {
			return records, true
		}
		records, err := h.extraction.SnapshotRecords(ctx, name)
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"erro": "snapshot não encontrado"})
			return nil, false
		}
		var missingErr *domain.MissingColumnsError
		if errors.As(err, &missingErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"erro":              "snapshot com colunas obrigatórias ausentes",
				"colunas_faltantes": missingErr.Missing,
				"colunas_presentes": missingErr.Present,
			})
			return nil, false
		}
		if err != nil {
			h.log.Error("loading snapshot failed", zap.String("snapshot", name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"erro": "falha ao carregar snapshot"})
			return nil, false
		}
		_ = h.cache.Set(ctx, name, records)
		return records, true
	}

	name, records, err := h.extraction.LatestRecords(ctx)
	if errors.Is(err, domain.ErrNoData) {
		c.JSON(http.StatusOK, gin.H{"mensagem": "nenhum dado disponível", "resultados": []any{}})
		return nil, false
	}
	var missingErr *domain.MissingColumnsError
	if errors.As(err, &missingErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"erro":              "snapshot com colunas obrigatórias ausentes",
			"colunas_faltantes": missingErr.Missing,
			"colunas_presentes": missingErr.Present,
		})
		return nil, false
	}
	if err != nil {
		h.log.Error("loading latest snapshot failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"erro": "falha ao carregar dados"})
		return nil, false
	}
	_ = h.cache.Set(ctx, name, records)
	return records, true
}
