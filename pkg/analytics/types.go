// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

// Severity buckets a finding by how urgently it needs attention.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Cycle is one simple cycle found among modules/files in a project.
type Cycle struct {
	Nodes    []string
	Length   int
	Severity Severity
}

// CycleReport is the full result of a bounded cycle search.
type CycleReport struct {
	Cycles    []Cycle
	Truncated bool
}

// Layer is one entry in a golden-standard schema: a named architectural
// tier matched against file paths/basenames, with allow/forbid lists over
// other layer names.
type Layer struct {
	Name                 string
	PathPatterns         []string
	AllowedDependencies   []string
	ForbiddenDependencies []string
}

// LayerSchema is the golden-standard input to drift detection.
type LayerSchema struct {
	Layers     []Layer
	Thresholds DriftThresholds
}

// DriftThresholds are the integer limits, per severity, that a violation
// count is compared against when turning a violation report into a
// pass/fail verdict.
type DriftThresholds struct {
	Critical int
	High     int
	Medium   int
	Low      int
}

// ViolationType distinguishes the two structural-dependency violation kinds
// from the cyclic-dependency kind the cycle detector contributes.
type ViolationType string

const (
	ViolationForbidden  ViolationType = "forbidden"
	ViolationDisallowed ViolationType = "disallowed"
	ViolationCyclic     ViolationType = "cyclic_dependency"
)

// Violation is one layering or cyclic-dependency finding.
type Violation struct {
	Type         ViolationType
	Severity     Severity
	SourceLayer  string
	TargetLayer  string
	SourceID     string
	TargetID     string
	Reason       string
}

// ViolationReport is the full layer-violation + cyclic-dependency result.
type ViolationReport struct {
	Violations []Violation
	Counts     map[Severity]int
}

// DriftReport is the scored verdict over a ViolationReport.
type DriftReport struct {
	Score   int
	FailCI  bool
	Counts  map[Severity]int
}

// CouplingMetrics is one module/file's instability profile.
type CouplingMetrics struct {
	ID              string
	Afferent        int
	Efferent        int
	Instability     float64
	HighlyUnstable  bool
}

// CouplingReport ranks modules by instability, most unstable first.
type CouplingReport struct {
	Modules []CouplingMetrics
}

// Path is one acyclic dependency chain, longest first in a PathReport.
type Path struct {
	Nodes  []string
	Length int
}

// PathReport lists the longest acyclic DEPENDS_ON chains in a project,
// bounded by a cap (DefaultLongestPathCap unless the caller passes one) to
// protect downstream consumers.
type PathReport struct {
	Paths     []Path
	Truncated bool
}
