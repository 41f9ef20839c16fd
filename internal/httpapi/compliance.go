// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package httpapi

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleProcessAudit implements `POST /security-compliance/process-audit`:
// the request body is the raw npm-audit-shaped JSON document, identified by
// query params rather than a structured envelope since the payload's own
// shape isn't ours to define (spec §6).
func (s *Server) handleProcessAudit(c *gin.Context) {
	projectID := c.Query("project_id")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "project_id is required"})
		return
	}
	commitSHA := c.Query("commit_sha")
	developerID := c.Query("developer_id")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "could not read body"})
		return
	}

	report, err := s.compliance.ProcessAudit(c.Request.Context(), projectID, body, commitSHA, developerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// handleQualityGrade implements `GET /security-audit/quality-grade/{project_id}`.
func (s *Server) handleQualityGrade(c *gin.Context) {
	projectID := c.Param("project_id")

	grade, err := s.compliance.QualityGrade(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not compute quality grade"})
		return
	}

	c.JSON(http.StatusOK, grade)
}
