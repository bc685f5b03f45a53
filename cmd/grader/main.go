package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/essay-grader/internal/client"
	"github.com/DjordjeVuckovic/essay-grader/internal/config"
	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
	"github.com/DjordjeVuckovic/essay-grader/internal/notify"
	"github.com/DjordjeVuckovic/essay-grader/internal/poller"
	"github.com/DjordjeVuckovic/essay-grader/internal/render"
	"github.com/DjordjeVuckovic/essay-grader/internal/session"
)

func main() {
	cli := parseFlags()
	if err := cli.validate(); err != nil {
		slog.Error("Invalid flags", "error", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cli.BaseURL != "" {
		cfg.BaseURL = cli.BaseURL
	}
	lvl, _ := cfg.SlogLevel()
	slog.SetLogLoggerLevel(lvl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cli, cfg)
	stop()

	if err != nil {
		slog.Error("Command failed", "mode", cli.Mode, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cli cliConfig, cfg *config.Config) error {
	c, err := client.New(cfg.BaseURL, client.WithTimeout(cfg.HTTPTimeout))
	if err != nil {
		return err
	}

	if cfg.Username != "" {
		user, err := c.Login(ctx, cfg.Username, cfg.Password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		slog.Info("Logged in", "user", user.Username)
	}

	switch cli.Mode {
	case "evaluate":
		return runEvaluate(ctx, c, cfg, cli)
	case "status":
		return runStatus(ctx, c, cfg, cli)
	case "stats":
		stats, err := c.JobsStats(ctx)
		if err != nil {
			return err
		}
		return render.JSON(os.Stdout, stats)
	case "essays":
		essays, err := c.ListEssays(ctx)
		if err != nil {
			return err
		}
		if cli.Output == "json" {
			return render.JSON(os.Stdout, essays)
		}
		return render.EssayList(os.Stdout, essays)
	case "essay":
		ev, err := c.GetEssay(ctx, cli.EssayID)
		if err != nil {
			return err
		}
		return output(cli, ev)
	case "compare":
		return runCompare(ctx, c, cli)
	case "export-csv":
		return runExport(ctx, c, cli)
	case "verify":
		ok, err := c.VerifySession(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "session valid: %t\n", ok)
		return nil
	case "judge":
		return runJudge(ctx, c, cli)
	case "judge-show":
		jev, err := c.GetJudgeEvaluation(ctx, cli.EssayID)
		if err != nil {
			return err
		}
		if cli.Output == "json" {
			return render.JSON(os.Stdout, jev)
		}
		return render.JudgeEvaluation(os.Stdout, jev)
	case "criteria", "criteria-add", "criteria-update", "criteria-delete", "criteria-reorder":
		return runCriteria(ctx, c, cli)
	default:
		return fmt.Errorf("unknown mode %q", cli.Mode)
	}
}

func runEvaluate(ctx context.Context, c *client.Client, cfg *config.Config, cli cliConfig) error {
	if cli.File == "" {
		return errors.New("evaluate mode requires -file")
	}

	var opts []session.FlowOption
	if cli.Output == "json" {
		opts = append(opts, session.WithRenderer(func(w io.Writer, ev *domain.Evaluation) error {
			return render.JSON(w, ev)
		}))
	}

	n := notify.NewSlogNotifier(slog.Default())
	flow, err := session.NewFlow(c, cfg.PollerConfig(), session.NewState(), n, os.Stdout, opts...)
	if err != nil {
		return err
	}

	_, err = flow.EvaluateFile(ctx, cli.File)
	return err
}

// runStatus resumes polling a job submitted earlier.
func runStatus(ctx context.Context, c *client.Client, cfg *config.Config, cli cliConfig) error {
	if cli.JobID == "" {
		return errors.New("status mode requires -job")
	}

	p, err := poller.New(c, cfg.PollerConfig(), poller.WithProgress(func(pr poller.Progress) {
		slog.Info("Job status", "job_id", pr.JobID, "attempt", pr.Attempt, "status", pr.Status, "progress", pr.Percent)
	}))
	if err != nil {
		return err
	}

	out, err := p.Poll(ctx, cli.JobID)
	if err != nil {
		return err
	}
	return output(cli, out.Evaluation)
}

func runCompare(ctx context.Context, c *client.Client, cli cliConfig) error {
	ids, err := cli.parseIDs()
	if err != nil {
		return err
	}

	cmp, err := c.Compare(ctx, ids)
	if err != nil {
		return err
	}
	if cli.Output == "json" {
		return render.JSON(os.Stdout, cmp)
	}

	evs, err := c.GetEssays(ctx, ids)
	if err != nil {
		return err
	}
	if err := render.CriteriaSideBySide(os.Stdout, evs); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout)
	return render.Comparison(os.Stdout, cmp)
}

func runJudge(ctx context.Context, c *client.Client, cli cliConfig) error {
	jev, err := cli.judgeEvaluation()
	if err != nil {
		return err
	}

	res, err := c.SaveJudgeEvaluation(ctx, jev)
	if err != nil {
		return err
	}
	if cli.Output == "json" {
		return render.JSON(os.Stdout, res)
	}
	slog.Info("Judge evaluation saved", "essay_id", res.EssayID, "evaluation_id", res.EvaluationID, "status", res.Status)
	return nil
}

func runCriteria(ctx context.Context, c *client.Client, cli cliConfig) error {
	switch cli.Mode {
	case "criteria-add":
		cr, err := c.CreateCriterion(ctx, domain.CustomCriterion{
			Name:        cli.Name,
			Description: cli.Description,
			Weight:      cli.Weight,
			Icon:        cli.Icon,
		})
		if err != nil {
			return err
		}
		slog.Info("Criterion created", "id", cr.ID, "order", cr.Order)
	case "criteria-update":
		cr, err := c.UpdateCriterion(ctx, cli.EssayID, cli.criterionPatch())
		if err != nil {
			return err
		}
		slog.Info("Criterion updated", "id", cr.ID)
	case "criteria-delete":
		if err := c.DeleteCriterion(ctx, cli.EssayID); err != nil {
			return err
		}
		slog.Info("Criterion deleted", "id", cli.EssayID)
	case "criteria-reorder":
		order, err := cli.reorder()
		if err != nil {
			return err
		}
		if err := c.ReorderCriteria(ctx, order); err != nil {
			return err
		}
	}

	list, err := c.ListCriteria(ctx)
	if err != nil {
		return err
	}
	if cli.Output == "json" {
		return render.JSON(os.Stdout, list)
	}
	return render.CriteriaList(os.Stdout, list)
}

func runExport(ctx context.Context, c *client.Client, cli cliConfig) error {
	exp, err := c.ExportCSV(ctx)
	if err != nil {
		return err
	}

	path := cli.OutPath
	if path == "" {
		path = exp.FileName
	}
	if err := os.WriteFile(path, exp.Data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	slog.Info("Export saved", "path", path, "bytes", len(exp.Data))
	return nil
}

func output(cli cliConfig, ev *domain.Evaluation) error {
	if cli.Output == "json" {
		return render.JSON(os.Stdout, ev)
	}
	return render.Evaluation(os.Stdout, ev)
}
