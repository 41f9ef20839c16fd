// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package httpapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kraklabs/cie-review/internal/fabric"
	"github.com/kraklabs/cie-review/internal/relstore"
	"github.com/kraklabs/cie-review/internal/review"
)

// webhookPayload is the recognized pull-request lifecycle event (spec §6
// "Inbound webhook"), deliberately host-agnostic: a real deployment's
// adapter layer maps GitHub/GitLab/Bitbucket's native payload shape onto
// this one before it reaches the core.
type webhookPayload struct {
	Action      string `json:"action"`
	ProjectID   string `json:"project_id"`
	PRNumber    int    `json:"pr_number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	BranchName  string `json:"branch_name"`
	CommitSHA   string `json:"commit_sha"`
	FilesChanged int   `json:"files_changed"`
	LinesAdded   int   `json:"lines_added"`
	LinesDeleted int   `json:"lines_deleted"`
}

var recognizedActions = map[string]bool{
	"opened": true, "synchronize": true, "reopened": true, "closed": true,
}

// handleWebhook implements spec §6's inbound webhook contract: HMAC-SHA256
// signature verification with constant-time compare, delivery dedup via the
// Task Fabric, and enqueueing a fresh analysis task.
func (s *Server) handleWebhook(c *gin.Context) {
	projectID := c.Param("project_id")

	secret, err := s.secrets.SecretForProject(projectID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "unknown project"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "could not read body"})
		return
	}

	signature := c.GetHeader("X-Hub-Signature-256")
	if !validSignature(secret, body, signature) {
		s.auditSignatureFailure(c, projectID)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "signature mismatch"})
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed payload"})
		return
	}
	if !recognizedActions[payload.Action] {
		c.JSON(http.StatusOK, gin.H{"message": "ignored: unrecognized action"})
		return
	}

	deliveryID := c.GetHeader("X-Delivery-ID")
	if deliveryID != "" {
		firstTime, err := s.fab.SeenDelivery(c.Request.Context(), deliveryID)
		if err == nil && !firstTime {
			c.JSON(http.StatusOK, gin.H{"message": "Webhook already processed"})
			return
		}
	}

	prID, err := s.store.PullRequests.Upsert(c.Request.Context(), relstore.PullRequest{
		ProjectID:        projectID,
		ExternalPRNumber: payload.PRNumber,
		Title:            payload.Title,
		Description:      payload.Description,
		BranchName:       payload.BranchName,
		CommitSHA:        payload.CommitSHA,
		FilesChanged:     payload.FilesChanged,
		LinesAdded:       payload.LinesAdded,
		LinesDeleted:     payload.LinesDeleted,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not record pull request"})
		return
	}

	if payload.Action != "closed" {
		_ = fabric.NewAnalysisCache(s.fab).Invalidate(c.Request.Context(), prID)
		_ = s.store.PullRequests.SetStatus(c.Request.Context(), prID, review.StatusPending)
		_ = s.fab.Enqueue(c.Request.Context(), fabric.AnalysisTask{
			PullRequestID: prID,
			ProjectID:     projectID,
			CommitSHA:     payload.CommitSHA,
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "accepted"})
}

// validSignature verifies the `sha256=<hex>` header format GitHub and
// compatible hosts use, with a constant-time digest compare.
func validSignature(secret string, body []byte, header string) bool {
	const prefix = "sha256="
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	expected := strings.TrimPrefix(header, prefix)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	computed := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(computed))
}

func (s *Server) auditSignatureFailure(c *gin.Context, projectID string) {
	changes, _ := json.Marshal(map[string]string{"remote_addr": c.ClientIP()})
	_ = s.store.AuditLogs.Record(c.Request.Context(), relstore.AuditLogEntry{
		Action:     "webhook.signature_invalid",
		EntityType: "project",
		EntityID:   projectID,
		Changes:    changes,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
	})
}
