package data

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"HireAll/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

const auditBufferSize = 1000

// AuditLog is the GORM model for the audit_logs table
type AuditLog struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	Subject    string    `gorm:"column:subject;type:varchar(64);not null;index"` // service name or user id
	ActionType string    `gorm:"column:action_type;type:varchar(50);not null"`
	Details    string    `gorm:"column:details;type:json"`
	OperatorID string    `gorm:"column:operator_id;type:varchar(64);not null;default:'system'"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLoggerImpl implements biz.AuditLogger interface.
// Events are queued on a buffered channel and written by one goroutine. A
// full buffer, or a logger that has been shut down, drops the event.
type AuditLoggerImpl struct {
	db      *gorm.DB
	logChan chan *AuditLog
	wg      sync.WaitGroup
	logger  *log.Helper

	mu     sync.RWMutex
	closed bool
}

// NewAuditLogger creates a new audit logger and starts its writer. The
// returned cleanup drains the queue.
func NewAuditLogger(data *Data, logger log.Logger) (*AuditLoggerImpl, func()) {
	al := &AuditLoggerImpl{
		db:      data.db,
		logChan: make(chan *AuditLog, auditBufferSize),
		logger:  log.NewHelper(logger),
	}

	al.wg.Add(1)
	go al.start()

	cleanup := func() {
		al.close()
		al.wg.Wait()
	}
	return al, cleanup
}

// close stops accepting events. It is safe to call more than once.
func (a *AuditLoggerImpl) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	close(a.logChan)
}

// start processes audit log events from channel
func (a *AuditLoggerImpl) start() {
	defer a.wg.Done()
	for event := range a.logChan {
		a.write(context.Background(), event)
	}
}

func (a *AuditLoggerImpl) write(ctx context.Context, event *AuditLog) {
	if err := a.db.WithContext(ctx).Create(event).Error; err != nil {
		a.logger.Errorw("failed to write audit log",
			"subject", event.Subject,
			"action_type", event.ActionType,
			"error", err)
		return
	}
	a.logger.Debugw("audit log written",
		"subject", event.Subject,
		"action_type", event.ActionType)
}

func (a *AuditLoggerImpl) enqueue(subject string, action biz.AuditEventType, operatorID string, details map[string]interface{}) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		a.logger.Errorw("failed to marshal audit log details", "error", err)
		return
	}

	event := &AuditLog{
		Subject:    subject,
		ActionType: string(action),
		Details:    string(detailsJSON),
		OperatorID: operatorID,
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.logger.Warnw("audit logger closed, dropping event",
			"subject", subject,
			"action_type", event.ActionType)
		return
	}

	select {
	case a.logChan <- event:
	default:
		a.logger.Warnw("audit log channel full, dropping event",
			"subject", subject,
			"action_type", event.ActionType)
	}
}

// LogCircuitTransition logs a circuit state change
func (a *AuditLoggerImpl) LogCircuitTransition(_ context.Context, service string, from, to biz.CircuitState, status biz.CircuitStatus) {
	details := map[string]interface{}{
		"from":          string(from),
		"to":            string(to),
		"failure_count": status.FailureCount,
		"success_count": status.SuccessCount,
	}
	if status.OpenedAt != nil {
		details["opened_at"] = status.OpenedAt.Format(time.RFC3339)
	}
	a.enqueue(service, biz.AuditEventForTransition(to), "system", details)
}

// LogCircuitReset logs a manual circuit reset
func (a *AuditLoggerImpl) LogCircuitReset(_ context.Context, service, operatorID string) {
	if operatorID == "" {
		operatorID = "system"
	}
	a.enqueue(service, biz.AuditEventCircuitReset, operatorID, map[string]interface{}{})
}

// LogUsageLimitExceeded logs a denied quota check
func (a *AuditLoggerImpl) LogUsageLimitExceeded(_ context.Context, userID string, feature biz.FeatureKey, plan biz.PlanName, current, limit int64) {
	a.enqueue(userID, biz.AuditEventUsageLimitExceeded, "system", map[string]interface{}{
		"feature": string(feature),
		"plan":    string(plan),
		"current": current,
		"limit":   limit,
	})
}
