package scheduler

import (
	"context"

	"pesaprime/internal/pricefeed"
	"pesaprime/internal/services"
)

// PriceRefreshJob runs a full price feed refresh.
type PriceRefreshJob struct {
	Updater *pricefeed.Updater
}

// Name returns the job name.
func (j *PriceRefreshJob) Name() string { return "price-refresh" }

// Run executes one refresh cycle.
func (j *PriceRefreshJob) Run(ctx context.Context) error {
	_, err := j.Updater.Refresh(ctx)
	return err
}

// AutoCloseJob sweeps and settles matured positions.
type AutoCloseJob struct {
	Investments services.InvestmentServicer
}

// Name returns the job name.
func (j *AutoCloseJob) Name() string { return "auto-close" }

// Run executes one sweep.
func (j *AutoCloseJob) Run(ctx context.Context) error {
	_, err := j.Investments.AutoCloseDue(ctx)
	return err
}
