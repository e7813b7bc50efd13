package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/praxisjuris/praxis/internal/invoice/domain"
	"github.com/praxisjuris/praxis/pkg/db/pagination"
)

type generateInvoiceRequest struct {
	TaskID       string  `json:"task_id"`
	Currency     string  `json:"currency"`
	ExchangeRate float64 `json:"exchange_rate"`
	WithTax      bool    `json:"with_tax"`
	PeriodStart  string  `json:"period_start"`
	PeriodEnd    string  `json:"period_end"`
	Percentage   float64 `json:"percentage"`
	ContractID   string  `json:"contract_id"`
}

func (s *Server) GenerateInvoice(c *gin.Context) {
	var req generateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	gen := invoicedomain.GenerateRequest{
		TaskID:       req.TaskID,
		Currency:     req.Currency,
		ExchangeRate: req.ExchangeRate,
		WithTax:      req.WithTax,
		Percentage:   req.Percentage,
		ContractID:   req.ContractID,
	}
	if raw := strings.TrimSpace(req.PeriodStart); raw != "" {
		t, err := s.parseTimestamp("period_start", raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		gen.PeriodStart = t
	}
	if raw := strings.TrimSpace(req.PeriodEnd); raw != "" {
		t, err := s.parseTimestamp("period_end", raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		gen.PeriodEnd = t
	}

	inv, err := s.invoiceSvc.Generate(c.Request.Context(), gen)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": inv})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, newValidationError("pagination", "invalid_pagination", "invalid pagination parameters"))
		return
	}

	req := invoicedomain.ListRequest{
		TaskID:     strings.TrimSpace(c.Query("task_id")),
		ClientID:   strings.TrimSpace(c.Query("client_id")),
		Pagination: page,
	}
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		t, err := s.parseTimestamp("from", raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		req.From = t
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		t, err := s.parseTimestamp("to", raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		req.To = t
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp.Invoices, "page_info": resp.PageInfo})
}

func (s *Server) GetInvoice(c *gin.Context) {
	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) ListInvoiceItems(c *gin.Context) {
	items, err := s.invoiceSvc.ListItems(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
