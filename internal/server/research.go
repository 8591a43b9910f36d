package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/axpress-labs/scholard/internal/files"
	"github.com/axpress-labs/scholard/internal/index"
	"github.com/axpress-labs/scholard/internal/recommend"
	"github.com/axpress-labs/scholard/internal/search"
	"github.com/axpress-labs/scholard/internal/store"
	"github.com/axpress-labs/scholard/internal/telemetry"
	"github.com/axpress-labs/scholard/models"
)

// ResearchHandler exposes the paper discovery pipeline over HTTP.
type ResearchHandler struct {
	Orch   *search.Orchestrator
	Files  *files.Storage
	Store  *store.Store
	Index  *index.PaperIndex
	Logger *log.Logger
}

func (h *ResearchHandler) logf(format string, args ...interface{}) {
	if h.Logger != nil {
		h.Logger.Printf(format, args...)
	}
}

// Register mounts the public discovery routes and the token-protected
// research CRUD routes.
func (h *ResearchHandler) Register(api *echo.Group, secret []byte) {
	api.POST("/research/search", h.search)
	api.POST("/research_download", h.download)
	api.GET("/research/files/:filename", h.serveFile)
	api.GET("/research/local_search", h.localSearch)
	api.GET("/domains", h.domains)

	rg := api.Group("/research")
	rg.Use(authMiddleware(secret))
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

func (h *ResearchHandler) search(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	domain, ok := models.ParseDomain(req.Domain)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown domain: "+req.Domain)
	}
	papers, err := h.Orch.Search(c.Request().Context(), domain)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, SearchResponse{
		Domain: string(domain),
		Count:  len(papers),
		Papers: papers,
	})
}

func (h *ResearchHandler) download(c echo.Context) error {
	var req DownloadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PDFURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "pdf_url required")
	}
	res, err := h.Files.Download(c.Request().Context(), req.PDFURL, req.Title)
	if err != nil {
		telemetry.PDFDownloads.WithLabelValues("failure").Inc()
		if errors.Is(err, files.ErrUpstream) || errors.Is(err, files.ErrNotPDF) {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	telemetry.PDFDownloads.WithLabelValues("success").Inc()

	if h.Store != nil && req.ArxivURL != "" {
		if err := h.Store.UpdateObjectKey(c.Request().Context(), req.ArxivURL, res.Filename); err != nil {
			h.logf("record object key for %s: %v", req.ArxivURL, err)
		}
	}
	return c.JSON(http.StatusOK, DownloadResponse{
		OutputPath:  res.OutputPath,
		DownloadURL: res.DownloadURL,
		Filename:    res.Filename,
	})
}

func (h *ResearchHandler) serveFile(c echo.Context) error {
	filename := c.Param("filename")
	path, err := h.Files.ResolvePath(filename)
	if err != nil {
		switch {
		case errors.Is(err, files.ErrBadExtension):
			return echo.NewHTTPError(http.StatusBadRequest, "only PDF files are available")
		case errors.Is(err, files.ErrTraversal):
			return echo.NewHTTPError(http.StatusForbidden, "access denied")
		case errors.Is(err, files.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "file not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.Attachment(path, filename)
}

func (h *ResearchHandler) localSearch(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q required")
	}
	k := 10
	if raw := c.QueryParam("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "k must be a positive integer")
		}
		k = n
	}
	hits, err := h.Index.Search(q, k)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	out := make([]LocalSearchHit, 0, len(hits))
	for _, hit := range hits {
		out = append(out, LocalSearchHit{Paper: hit.Paper, Score: hit.Score, Rank: hit.Rank})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ResearchHandler) domains(c echo.Context) error {
	all := models.Domains()
	out := make([]DomainInfo, 0, len(all))
	for _, d := range all {
		info := DomainInfo{Domain: string(d), DisplayName: string(d)}
		if p, ok := recommend.Profile(d); ok {
			info.DisplayName = p.DisplayName
		}
		out = append(out, info)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ResearchHandler) create(c echo.Context) error {
	var rec store.ResearchRecord
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if rec.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title required")
	}
	created, err := h.Store.CreateResearch(c.Request().Context(), rec)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *ResearchHandler) list(c echo.Context) error {
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := h.Store.ListResearch(c.Request().Context(), offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ResearchHandler) get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	rec, err := h.Store.GetResearch(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrResearchNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "research not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *ResearchHandler) update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req ResearchUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.Store.UpdateResearch(c.Request().Context(), id, req.Title, req.Abstract)
	if err != nil {
		if errors.Is(err, models.ErrResearchNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "research not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *ResearchHandler) delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Store.DeleteResearch(c.Request().Context(), id); err != nil {
		if errors.Is(err, models.ErrResearchNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "research not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
