package reconcile

import (
	"context"
	"fmt"
	"os"
	"strings"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/lumenlearn/progression-backend/internal/platform/logger"
	"github.com/lumenlearn/progression-backend/internal/temporalx"
)

// Runner hosts the reconciliation worker and its cron schedule.
type Runner struct {
	log        *logger.Logger
	tc         temporalsdkclient.Client
	activities *Activities
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client, activities *Activities) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if activities == nil {
		return nil, fmt.Errorf("reconcile worker missing activities")
	}
	return &Runner{log: log, tc: tc, activities: activities}, nil
}

// Start registers the workflow and activities, starts polling, and kicks
// off the cron workflow. Blocks until ctx is canceled.
func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("reconcile worker not initialized")
	}
	cfg := temporalx.LoadConfig()
	if r.log != nil {
		r.log.Info("Starting XP reconcile worker", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue)
	}

	w := worker.New(r.tc, cfg.TaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(Workflow, workflow.RegisterOptions{Name: WorkflowName})
	w.RegisterActivityWithOptions(r.activities.ReconcileAllTotals, activity.RegisterOptions{Name: ActivityReconcileAll})

	if err := r.startCron(ctx, cfg.TaskQueue); err != nil {
		return err
	}

	if err := w.Start(); err != nil {
		return fmt.Errorf("start reconcile worker: %w", err)
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

func (r *Runner) startCron(ctx context.Context, taskQueue string) error {
	schedule := strings.TrimSpace(os.Getenv("XP_RECONCILE_CRON"))
	if schedule == "" {
		schedule = "*/30 * * * *"
	}
	_, err := r.tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:                    WorkflowID,
		TaskQueue:             taskQueue,
		CronSchedule:          schedule,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, WorkflowName)
	if err != nil {
		// Already-running cron is the normal case on restart.
		if strings.Contains(err.Error(), "already started") || strings.Contains(err.Error(), "already running") {
			if r.log != nil {
				r.log.Info("XP reconcile cron already scheduled", "workflow_id", WorkflowID)
			}
			return nil
		}
		return fmt.Errorf("start reconcile cron: %w", err)
	}
	if r.log != nil {
		r.log.Info("XP reconcile cron scheduled", "workflow_id", WorkflowID, "schedule", schedule)
	}
	return nil
}
