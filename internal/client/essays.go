package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/DjordjeVuckovic/essay-grader/internal/apperr"
	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds parallel essay lookups for the comparison view.
const maxConcurrentFetches = 4

func (c *Client) ListEssays(ctx context.Context) ([]domain.EssaySummary, error) {
	var essays []domain.EssaySummary
	if err := c.do(ctx, "list essays", http.MethodGet, nil, &essays, "api", "essays"); err != nil {
		return nil, err
	}
	return essays, nil
}

func (c *Client) GetEssay(ctx context.Context, id int64) (*domain.Evaluation, error) {
	var ev domain.Evaluation
	if err := c.do(ctx, "get essay", http.MethodGet, nil, &ev, "api", "essays", strconv.FormatInt(id, 10)); err != nil {
		return nil, err
	}
	return &ev, nil
}

// GetEssays fetches several essays concurrently, preserving the order of ids.
func (c *Client) GetEssays(ctx context.Context, ids []int64) ([]domain.Evaluation, error) {
	out := make([]domain.Evaluation, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, id := range ids {
		g.Go(func() error {
			ev, err := c.GetEssay(gctx, id)
			if err != nil {
				return fmt.Errorf("essay %d: %w", id, err)
			}
			out[i] = *ev
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type compareRequest struct {
	EssayIDs []int64 `json:"essay_ids"`
}

// Compare asks the backend for a comparative analysis of at least two essays.
func (c *Client) Compare(ctx context.Context, ids []int64) (*domain.Comparison, error) {
	if len(ids) < 2 {
		return nil, apperr.NewValidation("at least 2 essays are required to compare")
	}

	var cmp domain.Comparison
	if err := c.do(ctx, "compare", http.MethodPost, compareRequest{EssayIDs: ids}, &cmp, "api", "compare"); err != nil {
		return nil, err
	}
	return &cmp, nil
}

// Export is a downloaded file as served by the backend.
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
}

const defaultExportName = "ensayos_evaluados.csv"

func (c *Client) ExportCSV(ctx context.Context) (*Export, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, "api", "essays", "export", "csv")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &apperr.TransportError{Op: "export csv", Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.TransportError{Op: "export csv", Err: err}
	}

	return &Export{
		FileName:    attachmentName(resp.Header.Get("Content-Disposition"), defaultExportName),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func attachmentName(disposition, fallback string) string {
	if disposition == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil || params["filename"] == "" {
		return fallback
	}
	return params["filename"]
}
