package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/citegate/citegate/internal/model"
)

// Auditor emits the structured audit trail of a verification run. One event
// per claim decision plus run-level start/finish events, so every exclusion
// and flag can be traced after the fact.
type Auditor struct {
	log *zap.Logger
}

// NewAuditor creates an auditor. A nil logger disables auditing.
func NewAuditor(log *zap.Logger) *Auditor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Auditor{log: log}
}

// ClaimVerified records the outcome of scoring one claim
func (a *Auditor) ClaimVerified(record model.VerificationRecord, elapsed time.Duration) {
	a.log.Info("claim verified",
		zap.String("claim_text", record.Claim.Text),
		zap.String("status", string(record.Status)),
		zap.Float64("confidence", record.Confidence),
		zap.Int("evidence_count", len(record.Evidence)),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	)
}

// ClaimTimedOut records a per-claim search that exceeded its budget and was
// degraded to NO_EVIDENCE
func (a *Auditor) ClaimTimedOut(claim model.Claim, budget time.Duration) {
	a.log.Warn("claim search timed out",
		zap.String("claim_text", claim.Text),
		zap.Duration("budget", budget),
	)
}

// RunCompleted records a finished run
func (a *Auditor) RunCompleted(report *model.VerificationReport) {
	a.log.Info("verification completed",
		zap.String("mode", string(report.Mode)),
		zap.Int("claims", len(report.Result.Records)),
		zap.Int("excluded", len(report.Result.ExcludedClaims)),
		zap.Int("flagged", len(report.Result.FlaggedClaims)),
		zap.String("overall_confidence", string(report.Result.Overall)),
		zap.Int64("duration_ms", report.DurationMS),
	)
}

// RunFailed records a run that produced no answer
func (a *Auditor) RunFailed(err error, elapsed time.Duration) {
	a.log.Error("verification failed",
		zap.Error(err),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	)
}
