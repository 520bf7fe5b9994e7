package server

import (
	"errors"
	"net/http"
	"strconv"

	"stockdash/internal/stock"
	"stockdash/pkg/yahoo"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createStockRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// home renders the dashboard, filtered by the query string.
func (s *Server) home(c *gin.Context) {
	page, err := s.dashboard.Page(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		var fe *stock.FilterError
		if errors.As(err, &fe) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": fe.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}

	c.HTML(http.StatusOK, "index.html", page)
}

// createStock validates the symbol upstream and schedules background ingestion.
func (s *Server) createStock(c *gin.Context) {
	var req createStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	if err := s.ingest.Validate(c.Request.Context(), req.Symbol); err != nil {
		if errors.Is(err, yahoo.ErrSymbolNotFound) {
			c.JSON(http.StatusOK, gin.H{"result": "Symbol doesnt exist"})
			return
		}
		s.logger.Error("symbol validation failed",
			zap.String("request_id", GetRequestID(c)),
			zap.String("symbol", req.Symbol),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}

	if err := s.ingest.Schedule(req.Symbol); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Service Unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"message":     "Stock created",
	})
}

// readStock echoes its parameters; it never touches the store.
func (s *Server) readStock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("stock_id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "stock_id must be an integer"})
		return
	}

	var q *string
	if v, ok := c.GetQuery("q"); ok {
		q = &v
	}

	c.JSON(http.StatusOK, gin.H{"stock_id": id, "q": q})
}

func (s *Server) health(c *gin.Context) {
	if !s.store.IsHealthy(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
