// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jcodagnone/flotilla/cluster"
	"github.com/jcodagnone/flotilla/roster"
)

// Server exposes the roster and the planner over a local JSON API.
type Server struct {
	repo    roster.Repository
	planner *Planner
}

// NewServer creates a Server over the given repository.
func NewServer(repo roster.Repository) *Server {
	return &Server{
		repo:    repo,
		planner: New(repo),
	}
}

// Run serves until interrupted. Local only.
func (s *Server) Run() error {
	r := gin.Default()

	r.GET("/api/visitors", s.listVisitors)
	r.GET("/api/loads", s.listLoads)
	r.POST("/api/plan", s.runPlan)
	r.GET("/api/density", s.getDensity)

	return r.Run("localhost:8080")
}

func (s *Server) listVisitors(ctx *gin.Context) {
	visitors, err := s.repo.ListVisitors()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, visitors)
}

func (s *Server) listLoads(ctx *gin.Context) {
	summaries, err := s.repo.LoadSummaries()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, summaries)
}

type planRequest struct {
	MaxSize int `json:"max_size"`
	MinSize int `json:"min_size"`
}

func (s *Server) runPlan(ctx *gin.Context) {
	var req planRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	summaries, err := s.planner.Plan(req.MaxSize, req.MinSize)

	switch {
	case errors.Is(err, cluster.ErrInvalidParameter):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cluster.ErrNoProgress):
		// Infeasible band for this roster; the client retries with a
		// lower minimum.
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case err != nil:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusOK, summaries)
	}
}

func (s *Server) getDensity(ctx *gin.Context) {
	res, err := strconv.Atoi(ctx.DefaultQuery("res", "5"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid res parameter"})

		return
	}

	cells, err := s.repo.DensityByH3(res)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, cells)
}
