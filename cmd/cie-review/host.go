// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"fmt"

	"github.com/kraklabs/cie-review/internal/review"
)

// unconfiguredHost is the review.SourceHost used when no git-forge adapter
// has been wired in. Designing that adapter (the GitHub/GitLab/Bitbucket API
// client behind SourceHost) is explicitly out of scope; this stub keeps the
// worker loadable and gives a worker operator a clear, immediate failure
// instead of a nil-pointer panic the first time a task actually reaches it.
type unconfiguredHost struct{}

func (unconfiguredHost) ListChangedFiles(ctx context.Context, projectID string, externalPRNumber int) ([]review.ChangedFile, error) {
	return nil, fmt.Errorf("no source host configured: cannot list changed files for project %s PR #%d", projectID, externalPRNumber)
}

func (unconfiguredHost) FetchFileContent(ctx context.Context, projectID, path, commitSHA string) ([]byte, error) {
	return nil, fmt.Errorf("no source host configured: cannot fetch %s@%s for project %s", path, commitSHA, projectID)
}

func (unconfiguredHost) FetchUnifiedDiff(ctx context.Context, projectID string, externalPRNumber int) (string, error) {
	return "", fmt.Errorf("no source host configured: cannot fetch diff for project %s PR #%d", projectID, externalPRNumber)
}

func (unconfiguredHost) PostCommitStatus(ctx context.Context, projectID, commitSHA string, status review.CommitStatus) error {
	return fmt.Errorf("no source host configured: cannot post status for project %s@%s", projectID, commitSHA)
}
