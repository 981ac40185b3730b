package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-packer/internal/metrics"
	"github.com/jonathan/resume-packer/internal/selection"
	"github.com/jonathan/resume-packer/internal/types"
)

const jobDescription = "We need a Go engineer with Kubernetes and PostgreSQL experience."

func sampleBank() *types.CandidateBank {
	return &types.CandidateBank{
		Username: "octo",
		Header:   types.Header{Name: "Octo Cat", Email: "octo@example.com"},
		Education: []types.Education{
			{School: "State University", Degree: "BSc", Major: "Computer Science"},
		},
		Experiences: []types.ExperienceEntry{
			{Title: "Barista", Company: "Cafe", Bullets: []string{"Made coffee"}},
			{Title: "Backend Engineer", Company: "Acme", Bullets: []string{"Built Go services on Kubernetes", "Tuned PostgreSQL"}},
		},
		Projects: []types.ProjectEntry{
			{Title: "packer", Bullets: []string{"Wrote a Go CLI"}},
		},
	}
}

type fakeStore struct {
	bank *types.CandidateBank
	err  error
}

func (f *fakeStore) LoadCandidateBank(_ context.Context, _ string) (*types.CandidateBank, error) {
	return f.bank, f.err
}

type fakeProjects struct {
	projects []types.ProjectEntry
	err      error
}

func (f *fakeProjects) Projects(_ context.Context, _ string) ([]types.ProjectEntry, error) {
	return f.projects, f.err
}

func TestGenerate_EndToEnd(t *testing.T) {
	var events []ProgressEvent
	res, err := Generate(context.Background(), Options{
		Bank:           sampleBank(),
		JobDescription: jobDescription,
		OnProgress:     func(e ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)

	assert.Contains(t, res.Keywords, "kubernetes")
	require.Len(t, res.Records.Experience, 2)
	require.NotNil(t, res.Selection)
	assert.Equal(t, selection.DefaultBudget, res.Selection.Budget)

	require.Len(t, res.Selection.Experience, 2)
	assert.Equal(t, "Backend Engineer", res.Selection.Experience[0].Title)
	assert.Contains(t, res.LaTeX, "Octo Cat")
	assert.Less(t, strings.Index(res.LaTeX, "Backend Engineer"), strings.Index(res.LaTeX, "Barista"))

	var stages []string
	for _, e := range events {
		stages = append(stages, e.Stage)
	}
	assert.Equal(t, []string{StageLoadBank, StageAnnotate, StageSelect, StageRender}, stages)
}

func TestGenerate_HeaderOverride(t *testing.T) {
	res, err := Generate(context.Background(), Options{
		Bank:           sampleBank(),
		JobDescription: jobDescription,
		Header:         types.Header{Name: "Grace Hopper"},
		Education:      []types.Education{{School: "Yale University", Degree: "PhD"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", res.Bank.Header.Name)
	assert.Contains(t, res.LaTeX, "Grace Hopper")
	assert.Contains(t, res.LaTeX, "Yale University")

	res, err = Generate(context.Background(), Options{Bank: sampleBank(), JobDescription: jobDescription})
	require.NoError(t, err)
	assert.Equal(t, sampleBank().Header, res.Bank.Header)
}

func TestGenerate_BudgetLimitsSelection(t *testing.T) {
	res, err := Generate(context.Background(), Options{
		Bank:           sampleBank(),
		JobDescription: jobDescription,
		Budget:         3.5,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Selection.Len())
	assert.Equal(t, "Backend Engineer", res.Selection.Experience[0].Title)
	assert.NotContains(t, res.LaTeX, "Barista")
}

func TestGenerate_NegativeBudgetRendersEmptyPage(t *testing.T) {
	res, err := Generate(context.Background(), Options{
		Bank:           sampleBank(),
		JobDescription: jobDescription,
		Budget:         -1,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Selection.Len())
	assert.NotContains(t, res.LaTeX, `\section*{Experience}`)
}

func TestGenerate_MergesFetchedProjects(t *testing.T) {
	bank := sampleBank()
	res, err := Generate(context.Background(), Options{
		Bank:           bank,
		JobDescription: jobDescription,
		Projects: &fakeProjects{projects: []types.ProjectEntry{
			{Title: "packer", Bullets: []string{"duplicate"}},
			{Title: "k8s-operator", Bullets: []string{"Kubernetes operator in Go"}},
		}},
	})
	require.NoError(t, err)

	require.Len(t, res.Bank.Projects, 2)
	assert.Equal(t, "k8s-operator", res.Bank.Projects[1].Title)
	assert.Len(t, bank.Projects, 1, "caller's bank is not modified")
}

func TestGenerate_ProjectFetchFailureIsNotFatal(t *testing.T) {
	res, err := Generate(context.Background(), Options{
		Bank:           sampleBank(),
		JobDescription: jobDescription,
		Projects:       &fakeProjects{err: errors.New("github down")},
	})
	require.NoError(t, err)
	assert.Len(t, res.Bank.Projects, 1)
}

func TestGenerate_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	content := `{"username": "octo", "header": {"name": "Octo"}, "experiences": [{"title": "Go Developer", "bullets": ["Go"]}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	res, err := Generate(context.Background(), Options{BankPath: path, JobDescription: jobDescription})
	require.NoError(t, err)
	assert.Equal(t, "Go Developer", res.Selection.Experience[0].Title)
}

func TestGenerate_FromStore(t *testing.T) {
	res, err := Generate(context.Background(), Options{
		Store:          &fakeStore{bank: sampleBank()},
		Username:       "octo",
		JobDescription: jobDescription,
	})
	require.NoError(t, err)
	assert.Equal(t, "octo", res.Bank.Username)

	_, err = Generate(context.Background(), Options{
		Store:          &fakeStore{},
		Username:       "ghost",
		JobDescription: jobDescription,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidate stored")
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"no job description", Options{Bank: sampleBank()}, "job description"},
		{"no bank source", Options{JobDescription: jobDescription}, "candidate bank"},
		{"invalid cost model", Options{Bank: sampleBank(), JobDescription: jobDescription, CostModel: selection.CostModel{BaseCost: -1}}, "cost"},
		{"missing template", Options{Bank: sampleBank(), JobDescription: jobDescription, TemplatePath: "/nonexistent.tex"}, "rendering failed"},
		{"malformed record", Options{Bank: &types.CandidateBank{Username: "x", Header: types.Header{Name: "X"}, Experiences: []types.ExperienceEntry{{Title: ""}}}, JobDescription: jobDescription}, "selection failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(context.Background(), tt.opts)
			require.Error(t, err)
			assert.Contains(t, strings.ToLower(err.Error()), tt.want)
		})
	}
}

func TestGenerate_RecordsMetrics(t *testing.T) {
	m := metrics.NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))

	_, err := Generate(context.Background(), Options{
		Bank:           sampleBank(),
		JobDescription: jobDescription,
		Metrics:        m,
	})
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names[metrics.MetricRecordsConsidered])
	assert.True(t, names[metrics.MetricRecordsAdmitted])
	assert.True(t, names[metrics.MetricStageDuration])
}
