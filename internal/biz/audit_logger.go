package biz

import (
	"context"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	AuditEventCircuitOpened      AuditEventType = "CIRCUIT_OPENED"
	AuditEventCircuitHalfOpen    AuditEventType = "CIRCUIT_HALF_OPEN"
	AuditEventCircuitClosed      AuditEventType = "CIRCUIT_CLOSED"
	AuditEventCircuitReset       AuditEventType = "CIRCUIT_RESET"
	AuditEventUsageLimitExceeded AuditEventType = "USAGE_LIMIT_EXCEEDED"
)

// AuditEventForTransition maps a circuit state change to its audit event.
func AuditEventForTransition(to CircuitState) AuditEventType {
	switch to {
	case CircuitOpen:
		return AuditEventCircuitOpened
	case CircuitHalfOpen:
		return AuditEventCircuitHalfOpen
	default:
		return AuditEventCircuitClosed
	}
}

// AuditLogger defines the interface for audit logging.
// Implementations must not block the caller.
type AuditLogger interface {
	// LogCircuitTransition logs a circuit state change
	LogCircuitTransition(ctx context.Context, service string, from, to CircuitState, status CircuitStatus)

	// LogCircuitReset logs a manual circuit reset
	LogCircuitReset(ctx context.Context, service, operatorID string)

	// LogUsageLimitExceeded logs a denied quota check
	LogUsageLimitExceeded(ctx context.Context, userID string, feature FeatureKey, plan PlanName, current, limit int64)
}
