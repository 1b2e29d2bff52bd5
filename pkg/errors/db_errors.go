// Package errors provides database error classification and handling utilities.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// DatabaseErrorType represents the type of database error.
type DatabaseErrorType int

const (
	// ErrorTypeUnknown represents an unknown database error.
	ErrorTypeUnknown DatabaseErrorType = iota
	// ErrorTypeNotFound represents a record not found error.
	ErrorTypeNotFound
	// ErrorTypeDuplicateKey represents a duplicate key constraint violation (MySQL 1062).
	ErrorTypeDuplicateKey
	// ErrorTypeMissingIndex represents a query that names an index that does not exist (MySQL 1176).
	ErrorTypeMissingIndex
	// ErrorTypeMissingSchema represents a missing table or column (MySQL 1146, 1054).
	ErrorTypeMissingSchema
	// ErrorTypeResourceLimit represents sort/memory/temp-space exhaustion (MySQL 1038, 1114, 3024).
	ErrorTypeResourceLimit
	// ErrorTypeDeadlock represents a deadlock or lock wait timeout (MySQL 1213, 1205).
	ErrorTypeDeadlock
	// ErrorTypeConnectionError represents a database connection error.
	ErrorTypeConnectionError
	// ErrorTypeTimeout represents a canceled or timed out query.
	ErrorTypeTimeout
)

// String returns a short, log-friendly name.
func (t DatabaseErrorType) String() string {
	switch t {
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeDuplicateKey:
		return "duplicate_key"
	case ErrorTypeMissingIndex:
		return "missing_index"
	case ErrorTypeMissingSchema:
		return "missing_schema"
	case ErrorTypeResourceLimit:
		return "resource_limit"
	case ErrorTypeDeadlock:
		return "deadlock"
	case ErrorTypeConnectionError:
		return "connection"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// DatabaseError wraps a database error with classification information.
type DatabaseError struct {
	Type         DatabaseErrorType
	OriginalErr  error
	MySQLErrCode uint16
	Message      string
}

// Error implements the error interface.
func (e *DatabaseError) Error() string {
	if e.MySQLErrCode > 0 {
		return fmt.Sprintf("%s (MySQL error %d): %v", e.Message, e.MySQLErrCode, e.OriginalErr)
	}
	return fmt.Sprintf("%s: %v", e.Message, e.OriginalErr)
}

// Unwrap returns the underlying error for errors.Is and errors.As compatibility.
func (e *DatabaseError) Unwrap() error {
	return e.OriginalErr
}

// ClassifyDBError classifies a database error into a specific error type.
//
// Example:
//
//	count, err := repo.CountSince(ctx, kind, userID, since)
//	if errors.IsQueryInfraError(err) {
//	    // degrade: list and filter in memory
//	}
func ClassifyDBError(err error) *DatabaseError {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &DatabaseError{Type: ErrorTypeNotFound, OriginalErr: err, Message: "record not found"}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &DatabaseError{Type: ErrorTypeTimeout, OriginalErr: err, Message: "query canceled or timed out"}
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return classifyMySQLError(err, mysqlErr)
	}

	if isConnectionError(err.Error()) {
		return &DatabaseError{Type: ErrorTypeConnectionError, OriginalErr: err, Message: "database connection error"}
	}

	return &DatabaseError{Type: ErrorTypeUnknown, OriginalErr: err, Message: "unknown database error"}
}

func classifyMySQLError(err error, mysqlErr *mysql.MySQLError) *DatabaseError {
	dbErr := &DatabaseError{OriginalErr: err, MySQLErrCode: mysqlErr.Number}

	switch mysqlErr.Number {
	case 1062: // ER_DUP_ENTRY
		dbErr.Type, dbErr.Message = ErrorTypeDuplicateKey, "duplicate key constraint violation"
	case 1176: // ER_KEY_DOES_NOT_EXITS
		dbErr.Type, dbErr.Message = ErrorTypeMissingIndex, "index does not exist"
	case 1146: // ER_NO_SUCH_TABLE
		dbErr.Type, dbErr.Message = ErrorTypeMissingSchema, "table does not exist"
	case 1054: // ER_BAD_FIELD_ERROR
		dbErr.Type, dbErr.Message = ErrorTypeMissingSchema, "unknown column"
	case 1038, 1114, 3024: // ER_OUT_OF_SORTMEMORY, ER_RECORD_FILE_FULL, ER_QUERY_TIMEOUT
		dbErr.Type, dbErr.Message = ErrorTypeResourceLimit, "query exceeded server resources"
	case 1213, 1205: // ER_LOCK_DEADLOCK, ER_LOCK_WAIT_TIMEOUT
		dbErr.Type, dbErr.Message = ErrorTypeDeadlock, "deadlock or lock wait timeout"
	default:
		dbErr.Type, dbErr.Message = ErrorTypeUnknown, "MySQL error"
	}

	return dbErr
}

var connectionKeywords = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"i/o timeout",
	"connection lost",
	"can't connect",
	"dial tcp",
	"bad connection",
}

func isConnectionError(errMsg string) bool {
	lower := strings.ToLower(errMsg)
	for _, keyword := range connectionKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// IsNotFoundError checks if the error is a record not found error.
func IsNotFoundError(err error) bool {
	dbErr := ClassifyDBError(err)
	return dbErr != nil && dbErr.Type == ErrorTypeNotFound
}

// IsDuplicateKeyError checks if the error is a duplicate key constraint violation.
func IsDuplicateKeyError(err error) bool {
	dbErr := ClassifyDBError(err)
	return dbErr != nil && dbErr.Type == ErrorTypeDuplicateKey
}

// IsQueryInfraError reports whether the query failed for infrastructure
// reasons (missing index or schema, resource limits, lost connection, timeout)
// rather than because of the data it asked for.
func IsQueryInfraError(err error) bool {
	dbErr := ClassifyDBError(err)
	if dbErr == nil {
		return false
	}
	switch dbErr.Type {
	case ErrorTypeMissingIndex, ErrorTypeMissingSchema, ErrorTypeResourceLimit,
		ErrorTypeConnectionError, ErrorTypeTimeout, ErrorTypeDeadlock:
		return true
	default:
		return false
	}
}
