// Package pipeline provides the high-level orchestration for resume generation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-packer/internal/experience"
	"github.com/jonathan/resume-packer/internal/fetch"
	"github.com/jonathan/resume-packer/internal/logger"
	"github.com/jonathan/resume-packer/internal/metrics"
	"github.com/jonathan/resume-packer/internal/rendering"
	"github.com/jonathan/resume-packer/internal/scoring"
	"github.com/jonathan/resume-packer/internal/selection"
	"github.com/jonathan/resume-packer/internal/types"
)

// Stage names, also used as the stage label on duration metrics
const (
	StageLoadBank      = "load_bank"
	StageFetchProjects = "fetch_projects"
	StageAnnotate      = "annotate"
	StageSelect        = "select"
	StageRender        = "render"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// BankStore loads stored candidate banks by username
type BankStore interface {
	LoadCandidateBank(ctx context.Context, username string) (*types.CandidateBank, error)
}

// Options holds configuration for one generation run.
// The bank comes from Bank, BankPath or Store+Username, in that order of preference.
type Options struct {
	Bank     *types.CandidateBank
	BankPath string
	Store    BankStore
	Username string

	// Header and Education replace the bank's own when set
	Header    types.Header
	Education []types.Education

	JobDescription string
	TemplatePath   string
	Budget         float64
	CostModel      selection.CostModel

	Embedder    scoring.Embedder
	SortBullets bool
	Projects    fetch.ProjectSource
	Metrics     *metrics.Metrics
	OnProgress  ProgressCallback
}

// Result holds every intermediate product of a run
type Result struct {
	Bank      *types.CandidateBank
	Keywords  []string
	Records   *types.RecordSet
	Selection *types.SelectionResult
	LaTeX     string
}

type runner struct {
	opts *Options
	log  *zerolog.Logger
}

func (r *runner) emit(stage, message string, content any) {
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(ProgressEvent{Stage: stage, Message: message, Content: content})
	}
}

func (r *runner) timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	r.opts.Metrics.ObserveStage(stage, elapsed.Seconds())
	r.log.Debug().Str("stage", stage).Dur("elapsed", elapsed).Err(err).Msg("stage finished")
	return err
}

// Generate runs load, annotate, select and render for one candidate and job description
func Generate(ctx context.Context, opts Options) (*Result, error) {
	if opts.JobDescription == "" {
		return nil, fmt.Errorf("job description is required")
	}
	if opts.Budget == 0 {
		opts.Budget = selection.DefaultBudget
	}
	if opts.CostModel == (selection.CostModel{}) {
		opts.CostModel = selection.DefaultCostModel()
	}

	selector, err := selection.New(opts.CostModel)
	if err != nil {
		return nil, err
	}

	log := logger.Component("pipeline")
	r := &runner{opts: &opts, log: log}
	res := &Result{}

	if err := r.timed(StageLoadBank, func() error {
		res.Bank, err = loadBank(ctx, &opts)
		return err
	}); err != nil {
		return nil, fmt.Errorf("loading candidate bank failed: %w", err)
	}
	if opts.Header.Name != "" {
		res.Bank.Header = opts.Header
	}
	if len(opts.Education) > 0 {
		res.Bank.Education = opts.Education
	}
	r.emit(StageLoadBank, fmt.Sprintf("Loaded %d experiences and %d projects for %s",
		len(res.Bank.Experiences), len(res.Bank.Projects), res.Bank.Username), nil)

	if opts.Projects != nil && res.Bank.Username != "" {
		var fetched []types.ProjectEntry
		err := r.timed(StageFetchProjects, func() error {
			fetched, err = opts.Projects.Projects(ctx, res.Bank.Username)
			return err
		})
		if err != nil {
			log.Warn().Err(err).Str("username", res.Bank.Username).Msg("project fetch failed, continuing with bank projects")
		} else {
			added := experience.MergeProjects(res.Bank, fetched)
			r.emit(StageFetchProjects, fmt.Sprintf("Added %d fetched projects", added), nil)
		}
	}

	res.Keywords = scoring.ExtractKeywords(opts.JobDescription)
	annotatorOpts := []scoring.Option{}
	if opts.Embedder != nil {
		annotatorOpts = append(annotatorOpts, scoring.WithEmbedder(opts.Embedder))
		if opts.SortBullets {
			annotatorOpts = append(annotatorOpts, scoring.WithBulletSorting())
		}
	}
	if err := r.timed(StageAnnotate, func() error {
		res.Records, err = scoring.NewAnnotator(annotatorOpts...).Annotate(ctx, res.Bank, opts.JobDescription)
		return err
	}); err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}
	r.emit(StageAnnotate, fmt.Sprintf("Scored %d records against %d keywords",
		len(res.Records.Experience)+len(res.Records.Projects), len(res.Keywords)), res.Records)

	if err := r.timed(StageSelect, func() error {
		res.Selection, err = selector.Select(res.Records.Experience, res.Records.Projects, opts.Budget)
		return err
	}); err != nil {
		return nil, fmt.Errorf("selection failed: %w", err)
	}
	opts.Metrics.ObserveSelection(len(res.Records.Experience), len(res.Records.Projects), res.Selection)
	r.emit(StageSelect, fmt.Sprintf("Selected %d records using %.1f of %.1f",
		res.Selection.Len(), res.Selection.TotalCost, opts.Budget), res.Selection)

	if err := r.timed(StageRender, func() error {
		res.LaTeX, err = rendering.RenderLaTeX(rendering.Input{
			Header:    res.Bank.Header,
			Education: res.Bank.Education,
			Selection: res.Selection,
		}, opts.TemplatePath)
		return err
	}); err != nil {
		return nil, fmt.Errorf("rendering failed: %w", err)
	}
	r.emit(StageRender, "Rendered LaTeX resume", nil)

	return res, nil
}

func loadBank(ctx context.Context, opts *Options) (*types.CandidateBank, error) {
	switch {
	case opts.Bank != nil:
		bank := *opts.Bank
		bank.Projects = append([]types.ProjectEntry(nil), opts.Bank.Projects...)
		return &bank, nil
	case opts.BankPath != "":
		return experience.LoadCandidateBank(opts.BankPath)
	case opts.Store != nil && opts.Username != "":
		bank, err := opts.Store.LoadCandidateBank(ctx, opts.Username)
		if err != nil {
			return nil, err
		}
		if bank == nil {
			return nil, fmt.Errorf("no candidate stored for %s", opts.Username)
		}
		return bank, nil
	default:
		return nil, fmt.Errorf("a candidate bank file or a stored username is required")
	}
}
