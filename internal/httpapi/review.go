// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	cieerrors "github.com/kraklabs/cie-review/internal/errors"
)

// handleReviewResult implements spec §6's `GET /pr/{pr_id}/review`: the
// latest review_results row for the PR, or 404 if none has been produced
// yet (still PENDING/ANALYZING, or the PR ID doesn't exist).
func (s *Server) handleReviewResult(c *gin.Context) {
	prID := c.Param("pr_id")

	result, err := s.store.ReviewResults.ByPullRequestID(c.Request.Context(), prID)
	if err != nil {
		if cieerrors.KindOf(err) == cieerrors.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "no review available for this pull request"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load review result"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pull_request_id":  result.PullRequestID,
		"ai_suggestions":   json.RawMessage(result.AISuggestions),
		"confidence_score": result.ConfidenceScore,
		"total_issues":     result.TotalIssues,
		"critical_issues":  result.CriticalIssues,
		"created_at":       result.CreatedAt,
	})
}

// handleListPulls implements `GET /projects/{id}/pulls?state=open|closed|all`.
func (s *Server) handleListPulls(c *gin.Context) {
	projectID := c.Param("id")
	state := c.DefaultQuery("state", "open")

	prs, err := s.store.PullRequests.ListByProject(c.Request.Context(), projectID, state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not list pull requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pull_requests": prs})
}
