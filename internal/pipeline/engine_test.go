package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-insight/internal/llm"
	"github.com/jonathan/resume-insight/internal/types"
)

const (
	goodRoleJSON    = `{"matches": [{"role": "Backend Engineer", "confidence": 70}, {"role": "Data Engineer", "confidence": 85, "reasoning": "strong SQL"}]}`
	goodQualityJSON = `{"score": 7.5, "summary": "solid resume"}`
)

// stageLLM routes canned responses by stage prompt. The role and
// quality prompts are distinguishable by their instruction headers.
type stageLLM struct {
	roleResponse    string
	roleErr         error
	qualityResponse string
	qualityErr      error
	calls           int
}

func (s *stageLLM) GenerateJSON(ctx context.Context, prompt string, onFragment llm.FragmentFunc) (string, error) {
	s.calls++
	var response string
	var err error
	switch {
	case strings.Contains(prompt, "career advisor"):
		response, err = s.roleResponse, s.roleErr
	case strings.Contains(prompt, "resume reviewer"):
		response, err = s.qualityResponse, s.qualityErr
	default:
		return "", errors.New("unexpected prompt")
	}
	if err != nil {
		return "", err
	}
	if onFragment != nil {
		onFragment(response)
	}
	return response, nil
}

func (s *stageLLM) Close() error { return nil }

// stubParser returns a fixed profile or error.
type stubParser struct {
	profile *types.ParsedProfile
	err     error
	calls   int
}

func (p *stubParser) Parse(ctx context.Context, doc types.ResumeDocument, onFragment llm.FragmentFunc) (*types.ParsedProfile, error) {
	p.calls++
	return p.profile, p.err
}

func sampleProfile() *types.ParsedProfile {
	return &types.ParsedProfile{
		Contact: types.Contact{Name: "Ada Lovelace"},
		Skills:  []string{"python", "sql"},
		Experience: []types.Experience{
			{Company: "Recent Co", Title: "Engineer", StartDate: "2022-05"},
		},
	}
}

func workingEngine(client llm.Client, parser StructuralParser) *Engine {
	return NewEngine(parser, client, 5*time.Second, zerolog.Nop())
}

func pdfSource(content string) BytesSource {
	return BytesSource{FileName: "resume.pdf", Format: types.FormatPDF, Content: []byte(content)}
}

func TestRunComplete(t *testing.T) {
	client := &stageLLM{roleResponse: goodRoleJSON, qualityResponse: goodQualityJSON}
	engine := workingEngine(client, &stubParser{profile: sampleProfile()})

	result, err := engine.Run(context.Background(), RunOptions{Source: pdfSource("resume body")})
	require.NoError(t, err)

	assert.Equal(t, types.StatusComplete, result.Status)
	assert.NotEmpty(t, result.Fingerprint)
	assert.Len(t, result.Stages, 4)
	for _, stage := range []types.Stage{types.StageIngest, types.StageParse, types.StageRoleMatch, types.StageQualitySummary} {
		assert.True(t, result.StageOK(stage), "stage %s should be ok", stage)
	}
	require.NotNil(t, result.Quality)
	assert.InDelta(t, 7.5, result.Quality.Score, 0.001)
	// Matches come back confidence-descending regardless of model order.
	require.Len(t, result.RoleMatches, 2)
	assert.Equal(t, "Data Engineer", result.RoleMatches[0].Role)
}

func TestRunEmptyFileFailsIngest(t *testing.T) {
	engine := workingEngine(&stageLLM{}, &stubParser{profile: sampleProfile()})

	result, err := engine.Run(context.Background(), RunOptions{Source: pdfSource("")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnparseableDocument))

	require.NotNil(t, result, "a marked result accompanies the ingest error")
	assert.Equal(t, types.StatusIngestFailed, result.Status)

	for _, stage := range []types.Stage{types.StageParse, types.StageRoleMatch, types.StageQualitySummary} {
		outcome, ok := result.StageOutcomeFor(stage)
		require.True(t, ok)
		assert.True(t, outcome.Skipped, "stage %s should be skipped", stage)
	}
}

func TestRunUnsupportedFormatFailsIngest(t *testing.T) {
	engine := workingEngine(&stageLLM{}, &stubParser{profile: sampleProfile()})
	source := BytesSource{FileName: "resume.txt", Format: "txt", Content: []byte("body")}

	result, err := engine.Run(context.Background(), RunOptions{Source: source})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnparseableDocument))
	assert.Equal(t, types.StatusIngestFailed, result.Status)
}

type failingSource struct{}

func (failingSource) Fetch(ctx context.Context) (types.ResumeDocument, error) {
	return types.ResumeDocument{}, errors.New("connection refused")
}

func TestRunSourceFailure(t *testing.T) {
	engine := workingEngine(&stageLLM{}, &stubParser{profile: sampleProfile()})

	result, err := engine.Run(context.Background(), RunOptions{Source: failingSource{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.Equal(t, types.StatusIngestFailed, result.Status)
}

func TestRunParseFailureSkipsDownstream(t *testing.T) {
	client := &stageLLM{roleResponse: goodRoleJSON, qualityResponse: goodQualityJSON}
	engine := workingEngine(client, &stubParser{err: errors.New("unrecognized layout")})

	result, err := engine.Run(context.Background(), RunOptions{Source: pdfSource("resume body")})
	require.NoError(t, err, "parse failure degrades, it does not error")

	assert.Equal(t, types.StatusParseFailed, result.Status)
	assert.Zero(t, client.calls, "LLM stages must not run without a parse")

	for _, stage := range []types.Stage{types.StageRoleMatch, types.StageQualitySummary} {
		outcome, ok := result.StageOutcomeFor(stage)
		require.True(t, ok)
		assert.True(t, outcome.Skipped)
	}
}

func TestRunRoleMatchFailureToleratedBySummary(t *testing.T) {
	client := &stageLLM{roleErr: llm.ErrServiceUnavailable, qualityResponse: goodQualityJSON}
	engine := workingEngine(client, &stubParser{profile: sampleProfile()})

	result, err := engine.Run(context.Background(), RunOptions{Source: pdfSource("resume body")})
	require.NoError(t, err)

	assert.Equal(t, types.StatusRoleMatchFailed, result.Status)
	assert.Empty(t, result.RoleMatches)
	require.NotNil(t, result.Quality, "quality_summary runs despite the role failure")

	outcome, ok := result.StageOutcomeFor(types.StageRoleMatch)
	require.True(t, ok)
	assert.False(t, outcome.OK)
	assert.NotEmpty(t, outcome.Error)
}

func TestRunSummaryFailure(t *testing.T) {
	client := &stageLLM{roleResponse: goodRoleJSON, qualityErr: llm.ErrServiceUnavailable}
	engine := workingEngine(client, &stubParser{profile: sampleProfile()})

	result, err := engine.Run(context.Background(), RunOptions{Source: pdfSource("resume body")})
	require.NoError(t, err)

	assert.Equal(t, types.StatusSummaryFailed, result.Status)
	assert.NotEmpty(t, result.RoleMatches)
	assert.Nil(t, result.Quality)
}

func TestRunBothLLMStagesFail(t *testing.T) {
	client := &stageLLM{roleErr: llm.ErrServiceUnavailable, qualityErr: llm.ErrServiceUnavailable}
	engine := workingEngine(client, &stubParser{profile: sampleProfile()})

	result, err := engine.Run(context.Background(), RunOptions{Source: pdfSource("resume body")})
	require.NoError(t, err)
	assert.Equal(t, types.StatusPartial, result.Status)
	assert.True(t, result.StageOK(types.StageParse))
}

func TestRunMalformedRoleOutput(t *testing.T) {
	client := &stageLLM{roleResponse: `{"matches": []}`, qualityResponse: goodQualityJSON}
	engine := workingEngine(client, &stubParser{profile: sampleProfile()})

	result, err := engine.Run(context.Background(), RunOptions{Source: pdfSource("resume body")})
	require.NoError(t, err)

	// Empty matches violate the schema, so the stage fails cleanly.
	assert.Equal(t, types.StatusRoleMatchFailed, result.Status)
	outcome, _ := result.StageOutcomeFor(types.StageRoleMatch)
	assert.Contains(t, outcome.Error, "malformed")
}

func TestRunEmitsProgressAndFragments(t *testing.T) {
	client := &stageLLM{roleResponse: goodRoleJSON, qualityResponse: goodQualityJSON}
	engine := workingEngine(client, &stubParser{profile: sampleProfile()})

	var events []ProgressEvent
	var streamed strings.Builder
	_, err := engine.Run(context.Background(), RunOptions{
		Source:     pdfSource("resume body"),
		OnProgress: func(e ProgressEvent) { events = append(events, e) },
		OnFragment: func(text string) { streamed.WriteString(text) },
	})
	require.NoError(t, err)

	// Every stage emits a start and a terminal event, in order.
	require.GreaterOrEqual(t, len(events), 8)
	assert.Equal(t, types.StageIngest, events[0].Stage)
	assert.Equal(t, "start", events[0].State)
	last := events[len(events)-1]
	assert.Equal(t, types.StageQualitySummary, last.Stage)
	assert.Equal(t, "complete", last.State)

	assert.Contains(t, streamed.String(), "solid resume")
}

func TestRunDeterministicFingerprint(t *testing.T) {
	client := &stageLLM{roleResponse: goodRoleJSON, qualityResponse: goodQualityJSON}
	engine := workingEngine(client, &stubParser{profile: sampleProfile()})

	r1, err := engine.Run(context.Background(), RunOptions{Source: pdfSource("same bytes")})
	require.NoError(t, err)
	r2, err := engine.Run(context.Background(), RunOptions{Source: pdfSource("same bytes")})
	require.NoError(t, err)

	assert.Equal(t, r1.Fingerprint, r2.Fingerprint)
}
