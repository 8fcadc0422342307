// Package pipeline chains dictionary substitution and LLM correction passes
// into one parametrised multi-pass correction run.
//
// A Pipeline is configured with an ordered list of [Pass] descriptors; each
// pass is a pure text → (text, corrections) step. The classic products are
// the 3-step run (dictionary → LLM grammar → dictionary) and the 4-step run
// that appends a final overlap-suppressing dictionary cleanup, but any pass
// list composes the same way — plain sequential function application, no
// inheritance and no flags.
//
// A Pipeline is safe for concurrent use; every Run is an independent,
// call-scoped unit of work. The only state shared between runs is the
// dictionary provider's snapshot cache.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shuddhi-ai/shuddhi/pkg/correction"
	"github.com/shuddhi-ai/shuddhi/pkg/dictionary"
	"github.com/shuddhi-ai/shuddhi/pkg/grammar"
)

// ErrEmptyInput is returned before any pass runs when the input is empty or
// whitespace-only. Such input is never sent to the provider.
var ErrEmptyInput = errors.New("pipeline: nothing to correct")

// PassKind selects what a pass does.
type PassKind string

const (
	// PassDictionary applies the substitution table from the dictionary
	// provider.
	PassDictionary PassKind = "dictionary"

	// PassLLMGrammar calls the grammar provider's CorrectGrammar.
	PassLLMGrammar PassKind = "llm-grammar"

	// PassLLMStyle calls the grammar provider's EnhanceStyle. Style passes
	// emit no structured corrections.
	PassLLMStyle PassKind = "llm-style"
)

// Pass describes one pipeline stage.
type Pass struct {
	// Kind selects the pass behaviour.
	Kind PassKind

	// Name is the stage label reported through the progress callback.
	// Empty means a default label derived from Kind.
	Name string

	// Strategy selects the matching strategy for dictionary passes.
	// Ignored for LLM passes. Empty means dictionary.StrategyWordBoundary.
	Strategy dictionary.Strategy
}

// label returns the progress label for the pass.
func (p Pass) label() string {
	if p.Name != "" {
		return p.Name
	}
	switch p.Kind {
	case PassDictionary:
		return "शब्दकोश सुधार"
	case PassLLMGrammar:
		return "व्याकरण सुधार"
	case PassLLMStyle:
		return "शैली सुधार"
	}
	return string(p.Kind)
}

// ThreeStepPasses is the standard pipeline: a pre-dictionary pass, the LLM
// grammar pass, and a post-dictionary pass over the model's output.
func ThreeStepPasses() []Pass {
	return []Pass{
		{Kind: PassDictionary, Strategy: dictionary.StrategyWordBoundary},
		{Kind: PassLLMGrammar},
		{Kind: PassDictionary, Strategy: dictionary.StrategyWordBoundary},
	}
}

// FourStepPasses extends ThreeStepPasses with a final dictionary cleanup
// using the overlap-suppressing longest-match strategy.
func FourStepPasses() []Pass {
	return append(ThreeStepPasses(),
		Pass{Kind: PassDictionary, Strategy: dictionary.StrategyLongestMatch, Name: "अंतिम सफ़ाई"})
}

// Stage describes one pass's share of the progress range. Purely
// observational — part of the contract toward the UI, not of correctness.
type Stage struct {
	Name         string `json:"name"`
	StartPercent int    `json:"startPercent"`
	EndPercent   int    `json:"endPercent"`
}

// ProgressFunc receives progress updates at pass boundaries. It is a side
// channel only: attaching or omitting it never changes the run's outcome.
type ProgressFunc func(percent int, stage string)

// PassTimingFunc receives the wall-clock duration of each executed pass,
// including a failed final pass. Like ProgressFunc it is purely
// observational; callers use it to feed latency histograms.
type PassTimingFunc func(kind PassKind, stage string, elapsed time.Duration)

// PassError wraps a pass failure with enough context for the caller to
// render a specific message.
type PassError struct {
	// Step is the 1-based number of the failed pass.
	Step int

	// Stage is the failed pass's label.
	Stage string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *PassError) Error() string {
	return fmt.Sprintf("pipeline: pass %d (%s): %v", e.Step, e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PassError) Unwrap() error { return e.Err }

// Pipeline orchestrates a fixed pass list over a dictionary provider and a
// grammar provider.
type Pipeline struct {
	dict       *dictionary.Provider
	provider   grammar.Provider
	passes     []Pass
	onProgress ProgressFunc
	onPassDone PassTimingFunc
}

// Option is a functional option for configuring a Pipeline.
type Option func(*Pipeline)

// WithPasses replaces the default three-step pass list.
func WithPasses(passes []Pass) Option {
	return func(p *Pipeline) {
		p.passes = make([]Pass, len(passes))
		copy(p.passes, passes)
	}
}

// WithProgress attaches a progress callback invoked at pass boundaries.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.onProgress = fn }
}

// WithPassTiming attaches a callback invoked with each pass's duration.
func WithPassTiming(fn PassTimingFunc) Option {
	return func(p *Pipeline) { p.onPassDone = fn }
}

// New constructs a Pipeline. dict supplies the substitution table for
// dictionary passes; provider performs the LLM passes.
func New(dict *dictionary.Provider, provider grammar.Provider, opts ...Option) *Pipeline {
	p := &Pipeline{
		dict:     dict,
		provider: provider,
		passes:   ThreeStepPasses(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Stages returns the progress ranges for the configured passes: the 0–100
// range divided evenly in pass order.
func (p *Pipeline) Stages() []Stage {
	n := len(p.passes)
	stages := make([]Stage, n)
	for i, pass := range p.passes {
		stages[i] = Stage{
			Name:         pass.label(),
			StartPercent: i * 100 / n,
			EndPercent:   (i + 1) * 100 / n,
		}
	}
	return stages
}

// Run executes all configured passes over input and returns the final text
// plus the aggregate correction list in pass order. It is shorthand for
// RunTracked with a throwaway tracker.
func (p *Pipeline) Run(ctx context.Context, input string) (*correction.Result, error) {
	return p.RunTracked(ctx, input, NewTracker())
}

// RunTracked executes the pipeline, recording every pass into tr. The
// tracker is reset first so it holds exactly this run afterwards; callers
// use it for word-mapping derivation.
//
// A failure in an LLM pass aborts the whole run — the caller receives a
// *PassError wrapping the provider error, and no partial result. Earlier
// completed passes are discarded with the run.
func (p *Pipeline) RunTracked(ctx context.Context, input string, tr *Tracker) (*correction.Result, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}

	tr.Reset()
	stages := p.Stages()
	text := input

	for i, pass := range p.passes {
		p.reportProgress(stages[i].StartPercent, stages[i].Name)

		started := time.Now()
		out, corrections, err := p.runPass(ctx, pass, i+1, text)
		if p.onPassDone != nil {
			p.onPassDone(pass.Kind, stages[i].Name, time.Since(started))
		}
		if err != nil {
			return nil, &PassError{Step: i + 1, Stage: stages[i].Name, Err: err}
		}
		tr.Add(stages[i].Name, text, out, corrections)
		text = out
	}

	p.reportProgress(100, "पूर्ण")

	// text, not tr.FinalText(): with an empty pass list the run is a no-op
	// and must return the input unchanged.
	return &correction.Result{
		CorrectedText: text,
		Corrections:   tr.AllCorrections(),
	}, nil
}

// runPass executes a single pass and tags its corrections with source and
// step.
func (p *Pipeline) runPass(ctx context.Context, pass Pass, step int, text string) (string, []correction.Correction, error) {
	switch pass.Kind {
	case PassDictionary:
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		strategy := pass.Strategy
		if strategy == "" {
			strategy = dictionary.StrategyWordBoundary
		}
		entries := p.dict.Entries(ctx)
		out, corrections := dictionary.Apply(text, entries, strategy)
		stampStep(corrections, step)
		return out, corrections, nil

	case PassLLMGrammar:
		res, err := p.provider.CorrectGrammar(ctx, text)
		if err != nil {
			return "", nil, err
		}
		stampStep(res.Corrections, step)
		return res.CorrectedText, res.Corrections, nil

	case PassLLMStyle:
		out, err := p.provider.EnhanceStyle(ctx, text)
		if err != nil {
			return "", nil, err
		}
		return out, nil, nil

	default:
		return "", nil, fmt.Errorf("unknown pass kind %q", pass.Kind)
	}
}

// stampStep sets the step identifier on corrections that lack one.
func stampStep(corrections []correction.Correction, step int) {
	for i := range corrections {
		if corrections[i].Step == "" {
			corrections[i].Step = fmt.Sprintf("step%d", step)
		}
	}
}

// reportProgress invokes the callback when attached. Failures of the
// callback are the callback's problem; nothing here reads its effects.
func (p *Pipeline) reportProgress(percent int, stage string) {
	if p.onProgress != nil {
		p.onProgress(percent, stage)
	}
}
