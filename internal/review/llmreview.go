// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package review

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kraklabs/cie-review/pkg/llm"
)

const reviewSystemPrompt = `You are an expert code reviewer for a continuous-integration pipeline.
You will be given repository context, a pull request's description, an architectural
context bundle derived from a dependency graph, and a truncated unified diff.
Respond with a single JSON object only, no prose outside it, matching:
{"issues":[{"type":"bug|security|performance|quality|style","severity":"critical|high|medium|low","confidence":0-100,"file":"...","line":0,"title":"...","description":"...","suggestion":"...","example":"..."}],"summary":"...","risk_score":0-100}`

const neutralReviewRiskScore = 50

// buildReviewPrompt assembles the user prompt from spec §4.4 step 6's
// ingredient list.
func buildReviewPrompt(repoIdentity, prTitle, prBody string, fileCount int, language, contextBundle, baselineRules, truncatedDiff string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", repoIdentity)
	fmt.Fprintf(&b, "Pull request: %s\n\n%s\n\n", prTitle, prBody)
	fmt.Fprintf(&b, "Files changed: %d\nPrimary language: %s\n\n", fileCount, language)
	b.WriteString("Architectural context:\n")
	b.WriteString(contextBundle)
	b.WriteString("\n")
	if baselineRules != "" {
		b.WriteString("Baseline rules:\n")
		b.WriteString(baselineRules)
		b.WriteString("\n")
	}
	b.WriteString("\nUnified diff:\n")
	b.WriteString(truncatedDiff)
	return b.String()
}

// runLLMReview calls the oracle and returns a validated payload (spec §4.4
// steps 7-8). On an unparseable or erroring response it falls through to a
// single neutral-review fallback rather than failing the task — an LLM
// failure is recoverable by design (internal/errors.KindLLMFailed).
func (o *Orchestrator) runLLMReview(ctx context.Context, systemPrompt, userPrompt string) ReviewPayload {
	resp, err := o.llm.Generate(ctx, llm.GenerateRequest{
		Prompt:      systemPrompt + "\n\n" + userPrompt,
		Temperature: 0.3,
	})
	if err != nil {
		o.logger.Warn("review.llm.call_failed", "err", err)
		return neutralReview()
	}

	var payload ReviewPayload
	if err := json.Unmarshal([]byte(extractJSON(resp.Text)), &payload); err != nil {
		o.logger.Warn("review.llm.parse_failed", "err", err)
		return neutralReview()
	}

	for i := range payload.Issues {
		validateIssue(&payload.Issues[i])
	}
	payload.RiskScore = clamp(payload.RiskScore, 0, 100)
	return payload
}

func neutralReview() ReviewPayload {
	return ReviewPayload{
		Issues: []Issue{{
			Type:        "quality",
			Severity:    "medium",
			Confidence:  0,
			Title:       "Automated review unavailable",
			Description: "The review oracle could not produce a structured result for this commit; manual review is recommended.",
		}},
		Summary:   "Automated review fell back to a neutral result.",
		RiskScore: neutralReviewRiskScore,
	}
}

// extractJSON trims any prose surrounding the first top-level JSON object,
// tolerating an oracle that doesn't respect JSON-mode strictly.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}
