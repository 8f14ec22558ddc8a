package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finmcp/finmcp/core"
	"github.com/finmcp/finmcp/search"
)

type recommendRequest struct {
	Query string `json:"query"`
	TopN  int    `json:"top_n"`
}

type recommendResponse struct {
	Classification core.Classification `json:"classification"`
	Matches        []core.Match        `json:"matches"`
	Markdown       string              `json:"markdown"`
}

type searchResponse struct {
	Query string       `json:"query"`
	Count int          `json:"count"`
	Hits  []search.Hit `json:"hits"`
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"providers": len(s.service.Providers()),
		"time":      time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) getProviders(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.Providers())
}

func (s *Server) postRecommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	classification, matches, markdown := s.service.RecommendFull(req.Query, req.TopN)
	if matches == nil {
		matches = []core.Match{}
	}
	c.JSON(http.StatusOK, recommendResponse{
		Classification: classification,
		Matches:        matches,
		Markdown:       markdown,
	})
}

func (s *Server) getDoc(c *gin.Context) {
	provider := c.Param("provider")
	// The wildcard keeps its leading slash; the index page has no path at all.
	path := strings.TrimPrefix(c.Param("path"), "/")
	refresh := c.Query("refresh") == "true"

	doc, err := s.service.Doc(c.Request.Context(), provider, path, refresh)
	if err != nil {
		if errors.Is(err, core.ErrUnknownProvider) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "fetch documentation: " + err.Error()})
		return
	}

	c.String(http.StatusOK, doc.Content)
}

func (s *Server) getSearch(c *gin.Context) {
	query := c.Query("q")

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	hits, err := s.service.Search(query, limit)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search: " + err.Error()})
		return
	}
	if hits == nil {
		hits = []search.Hit{}
	}

	c.JSON(http.StatusOK, searchResponse{
		Query: query,
		Count: len(hits),
		Hits:  hits,
	})
}
