package scoring

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-packer/internal/types"
)

// Embedder turns texts into embedding vectors, one per input, in input order
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Annotator builds content records from a candidate bank for one job description
type Annotator struct {
	embedder    Embedder
	sortBullets bool
}

// Option configures an Annotator
type Option func(*Annotator)

// WithEmbedder enables similarity scoring. Without one every similarity is 0 and
// ranking falls back to keyword counts and input order.
func WithEmbedder(e Embedder) Option {
	return func(a *Annotator) { a.embedder = e }
}

// WithBulletSorting orders each record's bullets by similarity to the job description
func WithBulletSorting() Option {
	return func(a *Annotator) { a.sortBullets = true }
}

// NewAnnotator creates an Annotator
func NewAnnotator(opts ...Option) *Annotator {
	a := &Annotator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Annotate groups entries by title, counts job keywords in each group and, when an
// embedder is configured, scores each group by cosine similarity to the job description.
func (a *Annotator) Annotate(ctx context.Context, bank *types.CandidateBank, jobDescription string) (*types.RecordSet, error) {
	if bank == nil {
		return nil, fmt.Errorf("candidate bank is nil")
	}

	keywords := ExtractKeywords(jobDescription)

	experiences := groupExperiences(bank.Experiences)
	projects := groupProjects(bank.Projects)

	set := &types.RecordSet{
		Experience: make([]types.ContentRecord, 0, len(experiences)),
		Projects:   make([]types.ContentRecord, 0, len(projects)),
	}
	expTexts := make([]string, 0, len(experiences))
	for _, e := range experiences {
		text := e.Text()
		expTexts = append(expTexts, text)
		set.Experience = append(set.Experience, types.ContentRecord{
			Kind:         types.KindExperience,
			Title:        e.Title,
			KeywordCount: CountKeywords(text, keywords),
			Payload: types.Payload{
				Company:  e.Company,
				Dates:    e.Dates,
				Location: e.Location,
				Bullets:  e.Bullets,
			},
		})
	}
	projTexts := make([]string, 0, len(projects))
	for _, p := range projects {
		text := p.Text()
		projTexts = append(projTexts, text)
		bullets := p.Bullets
		if len(bullets) == 0 && p.Description != "" {
			bullets = []string{p.Description}
		}
		set.Projects = append(set.Projects, types.ContentRecord{
			Kind:         types.KindProject,
			Title:        p.Title,
			KeywordCount: CountKeywords(text, keywords),
			Payload: types.Payload{
				URL:     p.URL,
				Bullets: bullets,
			},
		})
	}

	if a.embedder == nil || jobDescription == "" {
		return set, nil
	}

	var jobVec []float32
	var expVecs, projVecs [][]float32
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vecs, err := a.embedder.EmbedTexts(gctx, []string{jobDescription})
		if err != nil {
			return fmt.Errorf("failed to embed job description: %w", err)
		}
		if len(vecs) != 1 {
			return fmt.Errorf("embedder returned %d vectors for the job description", len(vecs))
		}
		jobVec = vecs[0]
		return nil
	})
	g.Go(func() error {
		var err error
		expVecs, err = a.embedAll(gctx, expTexts)
		return err
	})
	g.Go(func() error {
		var err error
		projVecs, err = a.embedAll(gctx, projTexts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := applySimilarity(set.Experience, expVecs, jobVec); err != nil {
		return nil, err
	}
	if err := applySimilarity(set.Projects, projVecs, jobVec); err != nil {
		return nil, err
	}

	if a.sortBullets {
		if err := a.sortRecordBullets(ctx, set, jobVec); err != nil {
			return nil, err
		}
	}

	return set, nil
}

func (a *Annotator) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := a.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d entries: %w", len(texts), err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d entries", len(vecs), len(texts))
	}
	return vecs, nil
}

func applySimilarity(records []types.ContentRecord, vecs [][]float32, target []float32) error {
	for i := range records {
		sim, err := Cosine(vecs[i], target)
		if err != nil {
			return fmt.Errorf("record %q: %w", records[i].Title, err)
		}
		records[i].Similarity = sim
	}
	return nil
}

func (a *Annotator) sortRecordBullets(ctx context.Context, set *types.RecordSet, target []float32) error {
	for _, records := range [][]types.ContentRecord{set.Experience, set.Projects} {
		for i := range records {
			bullets := records[i].Payload.Bullets
			if len(bullets) < 2 {
				continue
			}
			vecs, err := a.embedAll(ctx, bullets)
			if err != nil {
				return err
			}
			ranked, err := RankBullets(bullets, vecs, target)
			if err != nil {
				return fmt.Errorf("record %q: %w", records[i].Title, err)
			}
			records[i].Payload.Bullets = ranked
		}
	}
	return nil
}

// RankBullets returns bullets ordered by similarity to target, most similar first.
// Equal scores keep their original order.
func RankBullets(bullets []string, vecs [][]float32, target []float32) ([]string, error) {
	if len(vecs) != len(bullets) {
		return nil, fmt.Errorf("got %d vectors for %d bullets", len(vecs), len(bullets))
	}

	type scored struct {
		text  string
		score float64
	}
	items := make([]scored, len(bullets))
	for i, b := range bullets {
		s, err := Cosine(vecs[i], target)
		if err != nil {
			return nil, err
		}
		items[i] = scored{text: b, score: s}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.text
	}
	return out, nil
}

// groupExperiences merges entries sharing a title into one, keeping first-seen
// order and the first non-empty company, dates and location.
func groupExperiences(entries []types.ExperienceEntry) []types.ExperienceEntry {
	index := make(map[string]int)
	out := make([]types.ExperienceEntry, 0, len(entries))
	for _, e := range entries {
		i, ok := index[e.Title]
		if !ok {
			index[e.Title] = len(out)
			e.Bullets = append([]string(nil), e.Bullets...)
			out = append(out, e)
			continue
		}
		g := &out[i]
		if g.Company == "" {
			g.Company = e.Company
		}
		if g.Dates == "" {
			g.Dates = e.Dates
		}
		if g.Location == "" {
			g.Location = e.Location
		}
		g.Bullets = append(g.Bullets, e.Bullets...)
	}
	return out
}

func groupProjects(entries []types.ProjectEntry) []types.ProjectEntry {
	index := make(map[string]int)
	out := make([]types.ProjectEntry, 0, len(entries))
	for _, p := range entries {
		i, ok := index[p.Title]
		if !ok {
			index[p.Title] = len(out)
			p.Bullets = append([]string(nil), p.Bullets...)
			out = append(out, p)
			continue
		}
		g := &out[i]
		if g.Description == "" {
			g.Description = p.Description
		}
		if g.URL == "" {
			g.URL = p.URL
		}
		g.Bullets = append(g.Bullets, p.Bullets...)
	}
	return out
}
