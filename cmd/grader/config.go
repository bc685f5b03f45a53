package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
)

type cliConfig struct {
	Mode    string
	File    string
	JobID   string
	EssayID int64
	IDs     string
	Output  string
	OutPath string
	BaseURL string

	Scores  string
	Comment string
	Draft   bool

	Name        string
	Description string
	Weight      float64
	Icon        string
	Active      bool

	// set holds the flags given on the command line.
	set map[string]bool
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.Mode, "mode", "evaluate", "Run mode: evaluate, status, stats, essays, essay, compare, export-csv, verify, "+
		"judge, judge-show, criteria, criteria-add, criteria-update, criteria-delete, criteria-reorder")
	flag.StringVar(&cfg.File, "file", "", "Essay file to evaluate (.pdf or .txt)")
	flag.StringVar(&cfg.JobID, "job", "", "Job id to resume polling (status mode)")
	flag.Int64Var(&cfg.EssayID, "id", 0, "Essay id, or criterion id in criteria-update and criteria-delete")
	flag.StringVar(&cfg.IDs, "ids", "", "Essay ids to compare, or criterion ids in their new order, comma-separated")
	flag.StringVar(&cfg.Output, "output", "text", "Output format: text or json")
	flag.StringVar(&cfg.OutPath, "out", "", "Destination path for export-csv (defaults to the server file name)")
	flag.StringVar(&cfg.BaseURL, "base-url", "", "Overrides GRADER_BASE_URL")

	flag.StringVar(&cfg.Scores, "scores", "", "Judge scores 1-5, e.g. tecnica=4,creatividad=5,vinculacion=3,bienestar=4,uso_ia=5,impacto=3")
	flag.StringVar(&cfg.Comment, "comment", "", "General comment for the judge evaluation")
	flag.BoolVar(&cfg.Draft, "draft", false, "Save the judge evaluation as a draft")

	flag.StringVar(&cfg.Name, "name", "", "Criterion name")
	flag.StringVar(&cfg.Description, "description", "", "Criterion description")
	flag.Float64Var(&cfg.Weight, "weight", domain.DefaultCriterionWeight, "Criterion weight, greater than 0 and at most 100")
	flag.StringVar(&cfg.Icon, "icon", domain.DefaultCriterionIcon, "Criterion icon")
	flag.BoolVar(&cfg.Active, "active", true, "Criterion active flag (criteria-update)")

	flag.Parse()

	cfg.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })
	return cfg
}

// parseScores reads "key=score" pairs into a judge score map.
func (c cliConfig) parseScores() (map[domain.JudgeKey]float64, error) {
	known := make(map[domain.JudgeKey]bool, len(domain.JudgeRubric))
	for _, jc := range domain.JudgeRubric {
		known[jc.Key] = true
	}

	scores := make(map[domain.JudgeKey]float64)
	for _, pair := range strings.Split(c.Scores, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid score %q, want key=value", pair)
		}
		key := domain.JudgeKey(strings.TrimSpace(k))
		if !known[key] {
			return nil, fmt.Errorf("unknown criterion %q", key)
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score for %s: %w", key, err)
		}
		scores[key] = score
	}
	return scores, nil
}

func (c cliConfig) judgeEvaluation() (*domain.JudgeEvaluation, error) {
	scores, err := c.parseScores()
	if err != nil {
		return nil, err
	}
	status := domain.JudgeCompleted
	if c.Draft {
		status = domain.JudgeDraft
	}
	return &domain.JudgeEvaluation{
		EssayID:        c.EssayID,
		Scores:         scores,
		GeneralComment: c.Comment,
		Status:         status,
	}, nil
}

// criterionPatch carries only the criterion flags given on the command line.
func (c cliConfig) criterionPatch() domain.CriterionPatch {
	var p domain.CriterionPatch
	if c.set["name"] {
		p.Name = &c.Name
	}
	if c.set["description"] {
		p.Description = &c.Description
	}
	if c.set["weight"] {
		p.Weight = &c.Weight
	}
	if c.set["icon"] {
		p.Icon = &c.Icon
	}
	if c.set["active"] {
		p.Active = &c.Active
	}
	return p
}

// reorder turns -ids into positions starting at 1.
func (c cliConfig) reorder() ([]domain.CriterionOrder, error) {
	ids, err := c.parseIDs()
	if err != nil {
		return nil, err
	}
	order := make([]domain.CriterionOrder, len(ids))
	for i, id := range ids {
		order[i] = domain.CriterionOrder{ID: id, Order: i + 1}
	}
	return order, nil
}

func (c cliConfig) parseIDs() ([]int64, error) {
	parts := strings.Split(c.IDs, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", p, err)
		}
		if id <= 0 {
			return nil, fmt.Errorf("id must be positive, got %d", id)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c cliConfig) validate() error {
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	return nil
}
