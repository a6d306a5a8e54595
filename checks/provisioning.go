package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/identityops/idctl/identity"
	"github.com/identityops/idctl/status"
)

// criticalFailureRate is the failure percentage at which provisioning
// status escalates from Warning to Critical.
const criticalFailureRate = 50.0

// ProvisioningChecker reports the state of tracked permission-set
// provisioning operations.
type ProvisioningChecker struct {
	opts Options
}

// NewProvisioningChecker creates the provisioning checker.
func NewProvisioningChecker(opts Options) *ProvisioningChecker {
	return &ProvisioningChecker{opts: opts}
}

// Name implements status.Checker.
func (c *ProvisioningChecker) Name() status.CheckName { return status.CheckProvisioning }

// Fallback implements status.Checker.
func (c *ProvisioningChecker) Fallback(level status.Level, message string) status.Result {
	return status.ProvisioningStatus{
		Header: status.Header{Level: level, Message: message},
	}
}

// Check implements status.Checker.
func (c *ProvisioningChecker) Check(ctx context.Context) (status.Result, error) {
	inst, err := c.opts.instance(ctx)
	if err != nil {
		return nil, err
	}

	var operations []identity.ProvisioningOperation
	token := ""
	for {
		page, next, err := c.opts.Clients.Admin.ListProvisioningOperations(ctx, inst.InstanceARN, token)
		if err != nil {
			return nil, err
		}
		operations = append(operations, page...)
		if next == "" {
			break
		}
		token = next
	}

	ps := status.ProvisioningStatus{}
	var latestEstimate *time.Time
	for _, op := range operations {
		converted := convertOperation(op)
		switch op.Status {
		case identity.OperationInProgress:
			ps.Active = append(ps.Active, converted)
			if op.EstimatedCompletion != nil &&
				(latestEstimate == nil || op.EstimatedCompletion.After(*latestEstimate)) {
				latestEstimate = op.EstimatedCompletion
			}
		case identity.OperationFailed:
			ps.Failed = append(ps.Failed, converted)
		default:
			ps.Completed = append(ps.Completed, converted)
		}
	}
	ps.PendingCount = len(ps.Active)
	ps.EstimatedCompletion = latestEstimate

	switch {
	case len(ps.Failed) == 0 && len(ps.Active) == 0:
		ps.Level = status.LevelHealthy
		ps.Message = fmt.Sprintf("no pending provisioning operations (%d completed)", len(ps.Completed))
	case len(ps.Failed) == 0:
		ps.Level = status.LevelHealthy
		ps.Message = fmt.Sprintf("%d provisioning operations in progress", len(ps.Active))
	case ps.FailureRate() >= criticalFailureRate:
		ps.Level = status.LevelCritical
		ps.Message = fmt.Sprintf("%d of %d provisioning operations failed (%.0f%%)",
			len(ps.Failed), ps.TotalOperations(), ps.FailureRate())
	default:
		ps.Level = status.LevelWarning
		ps.Message = fmt.Sprintf("%d provisioning operations failed", len(ps.Failed))
	}
	return ps, nil
}

func convertOperation(op identity.ProvisioningOperation) status.ProvisioningOperation {
	return status.ProvisioningOperation{
		ID:                  op.ID,
		Type:                op.Type,
		Status:              string(op.Status),
		TargetID:            op.TargetID,
		TargetType:          op.TargetType,
		CreatedDate:         op.CreatedDate,
		FailureReason:       op.FailureReason,
		EstimatedCompletion: op.EstimatedCompletion,
	}
}
