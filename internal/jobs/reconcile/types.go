package reconcile

// Workflow and activity registration names. The cron workflow id is fixed
// so repeated worker starts reuse the running schedule instead of stacking
// duplicates.
const (
	WorkflowName = "xp-reconcile"
	WorkflowID   = "xp-reconcile-cron"

	ActivityReconcileAll = "ReconcileAllTotals"
)

// Result summarizes one reconciliation sweep.
type Result struct {
	UsersScanned int `json:"users_scanned"`
	Repaired     int `json:"repaired"`
}
