package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	reportsdomain "github.com/praxisjuris/praxis/internal/reports/domain"
)

func (s *Server) reportPeriod(c *gin.Context) (reportsdomain.Period, error) {
	var period reportsdomain.Period
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		t, err := s.parseTimestamp("from", raw)
		if err != nil {
			return reportsdomain.Period{}, err
		}
		period.From = t
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		t, err := s.parseTimestamp("to", raw)
		if err != nil {
			return reportsdomain.Period{}, err
		}
		period.To = t
	}
	return period, nil
}

func (s *Server) LawyerProfitability(c *gin.Context) {
	period, err := s.reportPeriod(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	report, err := s.reportsSvc.LawyerProfitability(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) LawyerCostVsHours(c *gin.Context) {
	period, err := s.reportPeriod(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	report, err := s.reportsSvc.LawyerCostVsHours(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) LawyerWorkload(c *gin.Context) {
	report, err := s.reportsSvc.LawyerWorkload(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) ClientContributions(c *gin.Context) {
	period, err := s.reportPeriod(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	report, err := s.reportsSvc.ClientContributions(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) HoursByClient(c *gin.Context) {
	period, err := s.reportPeriod(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	report, err := s.reportsSvc.HoursByClient(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) OfficeSummary(c *gin.Context) {
	period, err := s.reportPeriod(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	report, err := s.reportsSvc.OfficeSummary(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}
