package reconcile

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Workflow runs one reconciliation sweep per cron tick. The activity is
// idempotent (it recomputes totals from progress rows), so activity-level
// retries are safe.
func Workflow(ctx workflow.Context) (Result, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	})

	var out Result
	if err := workflow.ExecuteActivity(ctx, ActivityReconcileAll).Get(ctx, &out); err != nil {
		return Result{}, err
	}
	return out, nil
}
