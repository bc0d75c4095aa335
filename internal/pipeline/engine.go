// Package pipeline orchestrates the 4-stage resume analysis workflow:
// ingest, parse, role_match, quality_summary.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-insight/internal/hashing"
	"github.com/jonathan/resume-insight/internal/llm"
	"github.com/jonathan/resume-insight/internal/types"
)

// DocumentSource supplies the raw upload bytes for the ingest stage.
type DocumentSource interface {
	Fetch(ctx context.Context) (types.ResumeDocument, error)
}

// BytesSource is a DocumentSource over bytes already in hand, such as
// an HTTP upload body.
type BytesSource struct {
	FileName string
	Format   types.DocumentFormat
	Content  []byte
}

// Fetch returns the held document.
func (s BytesSource) Fetch(ctx context.Context) (types.ResumeDocument, error) {
	return types.ResumeDocument{
		FileName: s.FileName,
		Format:   s.Format,
		Content:  s.Content,
	}, nil
}

// StructuralParser turns a document into a ParsedProfile.
type StructuralParser interface {
	Parse(ctx context.Context, doc types.ResumeDocument, onFragment llm.FragmentFunc) (*types.ParsedProfile, error)
}

// ProgressEvent represents a progress update during pipeline execution.
type ProgressEvent struct {
	Stage   types.Stage `json:"stage"`
	State   string      `json:"state"` // "start", "complete", "failed", "skipped"
	Message string      `json:"message,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs.
type ProgressCallback func(event ProgressEvent)

// RunOptions holds per-run inputs for the engine.
type RunOptions struct {
	Source     DocumentSource
	OnProgress ProgressCallback
	OnFragment llm.FragmentFunc
}

// Engine executes the analysis stages. Each external call runs under
// its own timeout; a stage failure is recorded on the result instead of
// unwinding, so the engine always returns a complete AnalysisResult.
type Engine struct {
	parser       StructuralParser
	client       llm.Client
	stageTimeout time.Duration
	log          zerolog.Logger
}

// NewEngine creates an engine from its collaborators.
func NewEngine(parser StructuralParser, client llm.Client, stageTimeout time.Duration, log zerolog.Logger) *Engine {
	return &Engine{
		parser:       parser,
		client:       client,
		stageTimeout: stageTimeout,
		log:          log,
	}
}

// Run executes the pipeline. Only an ingest failure is returned as an
// error, and even then the marked result accompanies it. Every other
// failure degrades to a partial result with a nil error.
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*types.AnalysisResult, error) {
	result := &types.AnalysisResult{
		Status:    types.StatusPending,
		StartedAt: time.Now(),
	}

	doc, err := e.ingest(ctx, opts, result)
	if err != nil {
		result.Status = types.StatusIngestFailed
		result.FinishedAt = time.Now()
		e.skipRemaining(opts, result, types.StageParse, types.StageRoleMatch, types.StageQualitySummary)
		return result, err
	}
	result.Fingerprint = doc.Fingerprint
	result.FileName = doc.FileName

	profile, parseOK := e.parse(ctx, opts, result, doc)
	if !parseOK {
		result.Status = types.StatusParseFailed
		result.FinishedAt = time.Now()
		e.skipRemaining(opts, result, types.StageRoleMatch, types.StageQualitySummary)
		return result, nil
	}
	result.Profile = profile

	roleOK := e.roleMatch(ctx, opts, result, profile)

	// quality_summary needs the parse but tolerates a missing role match.
	summaryOK := e.qualitySummary(ctx, opts, result, profile, result.RoleMatches)

	switch {
	case roleOK && summaryOK:
		result.Status = types.StatusComplete
	case !roleOK && !summaryOK:
		result.Status = types.StatusPartial
	case !roleOK:
		result.Status = types.StatusRoleMatchFailed
	default:
		result.Status = types.StatusSummaryFailed
	}
	result.FinishedAt = time.Now()

	e.log.Info().
		Str("fingerprint", result.Fingerprint).
		Str("status", string(result.Status)).
		Dur("elapsed", result.FinishedAt.Sub(result.StartedAt)).
		Msg("pipeline run finished")

	return result, nil
}

// ingest fetches and validates the upload. It is the only stage whose
// failure is fatal to the run.
func (e *Engine) ingest(ctx context.Context, opts RunOptions, result *types.AnalysisResult) (types.ResumeDocument, error) {
	e.emit(opts, types.StageIngest, "start", "")

	stageCtx, cancel := context.WithTimeout(ctx, e.stageTimeout)
	defer cancel()

	doc, err := opts.Source.Fetch(stageCtx)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		e.record(opts, result, types.StageIngest, err)
		return types.ResumeDocument{}, err
	}

	if len(doc.Content) == 0 {
		err = fmt.Errorf("%w: empty file", ErrUnparseableDocument)
		e.record(opts, result, types.StageIngest, err)
		return types.ResumeDocument{}, err
	}
	switch doc.Format {
	case types.FormatPDF, types.FormatDOCX:
	default:
		err = fmt.Errorf("%w: unsupported format %q", ErrUnparseableDocument, doc.Format)
		e.record(opts, result, types.StageIngest, err)
		return types.ResumeDocument{}, err
	}

	doc.Fingerprint = hashing.Fingerprint(doc.Content)
	e.record(opts, result, types.StageIngest, nil)
	return doc, nil
}

// parse delegates to the structural parser.
func (e *Engine) parse(ctx context.Context, opts RunOptions, result *types.AnalysisResult, doc types.ResumeDocument) (*types.ParsedProfile, bool) {
	e.emit(opts, types.StageParse, "start", "")

	stageCtx, cancel := context.WithTimeout(ctx, e.stageTimeout)
	defer cancel()

	profile, err := e.parser.Parse(stageCtx, doc, opts.OnFragment)
	e.record(opts, result, types.StageParse, err)
	return profile, err == nil
}

// roleMatch runs the role recommendation stage, storing matches on the
// result when it succeeds.
func (e *Engine) roleMatch(ctx context.Context, opts RunOptions, result *types.AnalysisResult, profile *types.ParsedProfile) bool {
	e.emit(opts, types.StageRoleMatch, "start", "")

	stageCtx, cancel := context.WithTimeout(ctx, e.stageTimeout)
	defer cancel()

	matches, err := e.matchRoles(stageCtx, profile, opts.OnFragment)
	if err == nil {
		result.RoleMatches = matches
	}
	e.record(opts, result, types.StageRoleMatch, err)
	return err == nil
}

// qualitySummary runs the quality assessment stage.
func (e *Engine) qualitySummary(ctx context.Context, opts RunOptions, result *types.AnalysisResult, profile *types.ParsedProfile, roles []types.RoleMatch) bool {
	e.emit(opts, types.StageQualitySummary, "start", "")

	stageCtx, cancel := context.WithTimeout(ctx, e.stageTimeout)
	defer cancel()

	quality, err := e.assessQuality(stageCtx, profile, roles, opts.OnFragment)
	if err == nil {
		result.Quality = quality
	}
	e.record(opts, result, types.StageQualitySummary, err)
	return err == nil
}

// record appends the stage outcome and emits the matching progress event.
func (e *Engine) record(opts RunOptions, result *types.AnalysisResult, stage types.Stage, err error) {
	outcome := types.StageOutcome{Stage: stage, OK: err == nil}
	if err != nil {
		outcome.Error = err.Error()
		e.log.Warn().Str("stage", string(stage)).Err(err).Msg("stage failed")
		e.emit(opts, stage, "failed", err.Error())
	} else {
		e.emit(opts, stage, "complete", "")
	}
	result.Stages = append(result.Stages, outcome)
}

// skipRemaining marks downstream stages as skipped after a failure.
func (e *Engine) skipRemaining(opts RunOptions, result *types.AnalysisResult, stages ...types.Stage) {
	for _, stage := range stages {
		result.Stages = append(result.Stages, types.StageOutcome{
			Stage:   stage,
			Skipped: true,
		})
		e.emit(opts, stage, "skipped", "")
	}
}

func (e *Engine) emit(opts RunOptions, stage types.Stage, state, message string) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Stage: stage, State: state, Message: message})
	}
}
