// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package review

import "context"

// CommitStatusState mirrors the source host's commit-status vocabulary.
type CommitStatusState string

const (
	CommitStatusSuccess CommitStatusState = "success"
	CommitStatusFailure CommitStatusState = "failure"
	CommitStatusPending CommitStatusState = "pending"
)

// CommitStatus is posted back to the source host against a commit SHA
// (spec §4.4 step 10-11).
type CommitStatus struct {
	Context     string
	State       CommitStatusState
	Description string
}

// SourceHost abstracts the git-forge API a real implementation would call
// (GitHub/GitLab/Bitbucket). spec.md's Non-goals exclude the transport
// design of this boundary; this interface is the narrow oracle seam the
// orchestrator depends on, the same way it depends on llm.Provider.
type SourceHost interface {
	// ListChangedFiles returns the files touched by a PR at its current
	// HEAD commit.
	ListChangedFiles(ctx context.Context, projectID string, externalPRNumber int) ([]ChangedFile, error)

	// FetchFileContent returns a file's full content at commitSHA.
	FetchFileContent(ctx context.Context, projectID, path, commitSHA string) ([]byte, error)

	// FetchUnifiedDiff returns the unified diff for a PR at its current HEAD.
	FetchUnifiedDiff(ctx context.Context, projectID string, externalPRNumber int) (string, error)

	// PostCommitStatus posts a status check against commitSHA.
	PostCommitStatus(ctx context.Context, projectID, commitSHA string, status CommitStatus) error
}
