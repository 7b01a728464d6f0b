package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"

	"github.com/lumenlearn/progression-backend/internal/observability"
	"github.com/lumenlearn/progression-backend/internal/pkg/dbctx"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"

	dataagg "github.com/lumenlearn/progression-backend/internal/data/aggregates"
	progressrepo "github.com/lumenlearn/progression-backend/internal/data/repos/progress"
)

// Activities repairs drift between user_xp_total and the sum of completed
// progress rows. Drift should never happen while completions go through the
// aggregate; the sweep exists to catch operator mistakes and data surgery.
type Activities struct {
	Log      *logger.Logger
	Runner   dataagg.TxRunner
	Progress progressrepo.UserProgressRepo
	Totals   progressrepo.UserXPTotalRepo
}

func (a *Activities) ReconcileAllTotals(ctx context.Context) (Result, error) {
	if a == nil || a.Runner == nil || a.Progress == nil || a.Totals == nil {
		return Result{}, fmt.Errorf("reconcile: activity not configured")
	}
	start := time.Now()

	userIDs, err := a.Progress.ListDistinctUserIDs(ctx, nil)
	if err != nil {
		return Result{}, err
	}

	res := Result{}
	for i, userID := range userIDs {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if i%100 == 0 {
			activity.RecordHeartbeat(ctx, i)
		}
		repaired, err := a.reconcileUser(ctx, userID)
		if err != nil {
			// One bad user must not starve the rest of the sweep.
			if a.Log != nil {
				a.Log.Warn("xp reconcile failed for user", "user_id", userID, "error", err)
			}
			continue
		}
		res.UsersScanned++
		if repaired {
			res.Repaired++
		}
	}

	if m := observability.Current(); m != nil {
		m.ObserveXPReconcile(res.UsersScanned, res.Repaired)
		m.ObserveActivity(ActivityReconcileAll, "succeeded", time.Since(start))
	}
	if a.Log != nil {
		a.Log.Info("xp reconcile sweep finished",
			"users_scanned", res.UsersScanned,
			"repaired", res.Repaired,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return res, nil
}

// reconcileUser recomputes one user's total under the same per-user row
// lock the completion path takes, so a concurrent CompletePage cannot
// interleave between recompute and write.
func (a *Activities) reconcileUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	repaired := false
	err := a.Runner.InTx(ctx, func(dbc dbctx.Context) error {
		if err := a.Totals.EnsureRow(dbc.Ctx, dbc.Tx, userID); err != nil {
			return err
		}
		row, err := a.Totals.LockByUserID(dbc.Ctx, dbc.Tx, userID)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("xp total row missing after ensure for user %s", userID.String())
		}
		derived, err := a.Progress.SumCompletedXP(dbc.Ctx, dbc.Tx, userID)
		if err != nil {
			return err
		}
		if row.TotalXP == derived {
			return nil
		}
		if a.Log != nil {
			a.Log.Warn("xp total drift detected",
				"user_id", userID,
				"stored", row.TotalXP,
				"derived", derived,
			)
		}
		repaired = true
		return a.Totals.UpdateTotal(dbc.Ctx, dbc.Tx, userID, derived, time.Now().UTC())
	})
	return repaired, err
}
