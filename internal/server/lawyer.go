package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	lawyerdomain "github.com/praxisjuris/praxis/internal/lawyer/domain"
)

func (s *Server) CreateLawyer(c *gin.Context) {
	var req lawyerdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	lawyer, err := s.lawyerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": lawyer})
}

func (s *Server) ListLawyers(c *gin.Context) {
	lawyers, err := s.lawyerSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": lawyers})
}

func (s *Server) GetLawyer(c *gin.Context) {
	lawyer, err := s.lawyerSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": lawyer})
}

func (s *Server) UpdateLawyer(c *gin.Context) {
	var req lawyerdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	lawyer, err := s.lawyerSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": lawyer})
}
