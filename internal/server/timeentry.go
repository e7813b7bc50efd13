package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	tedomain "github.com/praxisjuris/praxis/internal/timeentry/domain"
)

// createTimeEntryRequest carries timestamps as strings so zone-naive input
// can be read in the practice timezone.
type createTimeEntryRequest struct {
	TaskID      string `json:"task_id"`
	LawyerID    string `json:"lawyer_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
}

type createTimeEntryByDurationRequest struct {
	TaskID      string  `json:"task_id"`
	LawyerID    string  `json:"lawyer_id"`
	StartTime   string  `json:"start_time"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

type updateTimeEntryRequest struct {
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (s *Server) parseTimestamp(field, raw string) (time.Time, error) {
	t, err := tedomain.ParseTimestamp(raw, s.billing.Get().Location())
	if err != nil {
		return time.Time{}, newValidationError(field, "invalid_timestamp", "invalid timestamp")
	}
	return t, nil
}

func (s *Server) CreateTimeEntry(c *gin.Context) {
	var req createTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	start, err := s.parseTimestamp("start_time", req.StartTime)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	end, err := s.parseTimestamp("end_time", req.EndTime)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entry, err := s.ledger.Create(c.Request.Context(), tedomain.CreateRequest{
		TaskID:      req.TaskID,
		LawyerID:    req.LawyerID,
		StartTime:   start,
		EndTime:     end,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": entry})
}

func (s *Server) CreateTimeEntryByDuration(c *gin.Context) {
	var req createTimeEntryByDurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	start, err := s.parseTimestamp("start_time", req.StartTime)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entry, err := s.ledger.CreateByDuration(c.Request.Context(), tedomain.CreateByDurationRequest{
		TaskID:      req.TaskID,
		LawyerID:    req.LawyerID,
		StartTime:   start,
		Hours:       req.Hours,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": entry})
}

func (s *Server) ListTimeEntries(c *gin.Context) {
	req := tedomain.ListRequest{
		TaskID:   strings.TrimSpace(c.Query("task_id")),
		LawyerID: strings.TrimSpace(c.Query("lawyer_id")),
	}
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		t, err := s.parseTimestamp("from", raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		req.PeriodStart = t
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		t, err := s.parseTimestamp("to", raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		req.PeriodEnd = t
	}

	entries, err := s.ledger.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (s *Server) GetTimeEntry(c *gin.Context) {
	entry, err := s.ledger.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) UpdateTimeEntry(c *gin.Context) {
	var req updateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	update := tedomain.UpdateRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Description: req.Description,
	}
	if req.StartTime != nil {
		t, err := s.parseTimestamp("start_time", *req.StartTime)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		update.StartTime = &t
	}
	if req.EndTime != nil {
		t, err := s.parseTimestamp("end_time", *req.EndTime)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		update.EndTime = &t
	}

	entry, err := s.ledger.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) DeleteTimeEntry(c *gin.Context) {
	if err := s.ledger.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
