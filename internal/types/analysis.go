package types

import "time"

// DocumentFormat is the declared format of an uploaded resume.
type DocumentFormat string

// Supported document formats.
const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
)

// ResumeDocument holds the raw bytes of one upload plus its content
// fingerprint. It lives only for the duration of a pipeline run.
type ResumeDocument struct {
	FileName    string
	Format      DocumentFormat
	Content     []byte
	Fingerprint string
}

// Stage identifies one step of the analysis pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageIngest         Stage = "ingest"
	StageParse          Stage = "parse"
	StageRoleMatch      Stage = "role_match"
	StageQualitySummary Stage = "quality_summary"
)

// PipelineStatus is the overall outcome of a pipeline run.
type PipelineStatus string

// Pipeline statuses. A run that completed ingest+parse but lost a later
// stage is StatusPartial; the per-stage outcomes carry the detail.
const (
	StatusPending         PipelineStatus = "pending"
	StatusIngestFailed    PipelineStatus = "ingest_failed"
	StatusParseFailed     PipelineStatus = "parse_failed"
	StatusRoleMatchFailed PipelineStatus = "role_match_failed"
	StatusSummaryFailed   PipelineStatus = "summary_failed"
	StatusPartial         PipelineStatus = "partial"
	StatusComplete        PipelineStatus = "complete"
)

// StageOutcome records how a single stage ended.
type StageOutcome struct {
	Stage   Stage  `json:"stage"`
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"` // upstream dependency failed
	Error   string `json:"error,omitempty"`
}

// RoleMatch is one recommended job role with the model's confidence.
type RoleMatch struct {
	Role       string   `json:"role"`
	Confidence float64  `json:"confidence"` // 0-100
	Reasoning  string   `json:"reasoning,omitempty"`
	KeySkills  []string `json:"key_skills,omitempty"`
}

// QualityAssessment is the review of resume quality.
type QualityAssessment struct {
	Score       float64  `json:"score"` // 0-10
	Summary     string   `json:"summary"`
	Strengths   []string `json:"strengths,omitempty"`
	Issues      []string `json:"issues,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// AnalysisResult is the complete output of one pipeline run. It is
// immutable once stored in the cache; a fingerprint maps to at most one
// stored result.
type AnalysisResult struct {
	Fingerprint string             `json:"fingerprint"`
	FileName    string             `json:"file_name,omitempty"`
	Profile     *ParsedProfile     `json:"profile,omitempty"`
	RoleMatches []RoleMatch        `json:"role_matches,omitempty"` // <=3, confidence descending
	Quality     *QualityAssessment `json:"quality,omitempty"`
	Status      PipelineStatus     `json:"status"`
	Stages      []StageOutcome     `json:"stages"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
	FromCache   bool               `json:"from_cache,omitempty"`
}

// StageOutcomeFor returns the recorded outcome for a stage, if any.
func (r *AnalysisResult) StageOutcomeFor(stage Stage) (StageOutcome, bool) {
	for _, o := range r.Stages {
		if o.Stage == stage {
			return o, true
		}
	}
	return StageOutcome{}, false
}

// StageOK reports whether a stage completed successfully.
func (r *AnalysisResult) StageOK(stage Stage) bool {
	o, ok := r.StageOutcomeFor(stage)
	return ok && o.OK
}

// Cacheable reports whether the result may be stored: ingest and parse
// must both have succeeded. Role/summary failures make it a partial,
// which is cacheable only when the caller opts in.
func (r *AnalysisResult) Cacheable(includePartial bool) bool {
	if !r.StageOK(StageIngest) || !r.StageOK(StageParse) {
		return false
	}
	if r.Status == StatusComplete {
		return true
	}
	return includePartial
}
