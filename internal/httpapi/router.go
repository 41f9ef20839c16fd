// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package httpapi

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/kraklabs/cie-review/internal/compliance"
	"github.com/kraklabs/cie-review/internal/fabric"
	"github.com/kraklabs/cie-review/internal/relstore"
	"github.com/kraklabs/cie-review/pkg/ast"
	"github.com/kraklabs/cie-review/pkg/graphstore"
)

// SecretResolver maps a project to the HMAC secret its webhook deliveries
// are signed with (spec §6 "Validates an HMAC-SHA256 signature header
// against a per-project secret").
type SecretResolver interface {
	SecretForProject(projectID string) (string, error)
}

// Server wires every spec §6 external interface onto the stores and the
// Task Fabric. It never runs a review itself: webhook deliveries are enqueued,
// and the Review Orchestrator that dequeues and runs them lives in a separate
// worker process (cmd/cie-review worker) so an HTTP replica can be scaled
// independently of review throughput. The Analyze API parses and upserts its
// submitted files in-request.
type Server struct {
	store      *relstore.Store
	fab        *fabric.Fabric
	compliance *compliance.Service
	graph      *graphstore.Adapter
	parsers    *ast.Registry
	secrets    SecretResolver
	logger     *slog.Logger
}

func NewServer(store *relstore.Store, fab *fabric.Fabric, svc *compliance.Service, graph *graphstore.Adapter, secrets SecretResolver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:      store,
		fab:        fab,
		compliance: svc,
		graph:      graph,
		parsers:    ast.NewRegistry(ast.ModeAuto, 0, logger),
		secrets:    secrets,
		logger:     logger,
	}
}

// Router builds the gin engine; NewServer's caller owns serving it (net/http
// listen, graceful shutdown, TLS termination all live in cmd/, matching
// spec.md's Non-goal on HTTP transport *design* beyond this route contract).
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.POST("/webhooks/:project_id", s.rateLimited("webhook"), s.handleWebhook)

	r.POST("/projects/:id/analyze", s.rateLimited("analyze"), s.handleAnalyze)
	r.GET("/analyses/:task_id/status", s.handleAnalysisStatus)

	r.GET("/pr/:pr_id/review", s.handleReviewResult)
	r.GET("/projects/:id/pulls", s.handleListPulls)

	r.POST("/security-compliance/process-audit", s.handleProcessAudit)
	r.GET("/security-audit/quality-grade/:project_id", s.handleQualityGrade)

	return r
}
