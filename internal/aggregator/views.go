package aggregator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-quiz-metrics/internal/model"
)

// Params selects the parameters of ComputeViews.
type Params struct {
	Metric     model.Metric
	Order      model.Order
	Limit      int
	MinSamples int
}

// DefaultParams returns the parameters the CLI and HTTP surface start from.
func DefaultParams() Params {
	return Params{
		Metric:     model.MetricTotalScore,
		Order:      model.Descending,
		Limit:      DefaultLimit,
		MinSamples: DefaultMinSamples,
	}
}

// Views bundles every dataset-wide view.
type Views struct {
	Leaderboard []model.PlayerSummary
	Speed       []model.SpeedEntry
	Accuracy    []model.PlayerSummary
	Difficulty  []model.DifficultyEntry
	Overview    model.Overview
}

// ComputeViews runs every dataset-wide view concurrently. The Dataset is only
// read, so the result equals calling each view in turn.
func ComputeViews(ctx context.Context, ds model.Dataset, p Params) (Views, error) {
	if !p.Metric.Valid() {
		return Views{}, fmt.Errorf("%w: %s", ErrUnsupportedMetric, p.Metric)
	}

	var v Views
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		v.Leaderboard, err = Rank(ds.Summaries, p.Metric, p.Order, p.Limit)
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		v.Speed = SpeedLeaderboard(ds.Events, p.MinSamples, p.Limit)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		v.Accuracy = AccuracyLeaderboard(ds.Summaries, p.Limit)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		v.Difficulty = Difficulty(ds.Events)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		v.Overview = Overview(ds)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Views{}, fmt.Errorf("compute views: %w", err)
	}
	return v, nil
}
