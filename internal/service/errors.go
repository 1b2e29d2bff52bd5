package service

import (
	"errors"
	"strconv"

	"HireAll/internal/biz"

	kerrors "github.com/go-kratos/kratos/v2/errors"
)

// Error reasons returned to clients.
const (
	ReasonUsageLimitExceeded = "USAGE_LIMIT_EXCEEDED"
	ReasonRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ReasonServiceUnavailable = "SERVICE_UNAVAILABLE"
	ReasonUserNotFound       = "USER_NOT_FOUND"
	ReasonInvalidFeature     = "INVALID_FEATURE"
	ReasonInvalidArgument    = "INVALID_ARGUMENT"
	ReasonNotConfigured      = "NOT_CONFIGURED"
	ReasonInternal           = "INTERNAL"
)

// MetadataRetryAfter is the error metadata key holding the retry hint in seconds.
const MetadataRetryAfter = "retry_after"

const statusTooManyRequests = 429

// toKratosError maps domain errors to transport errors. Unknown errors become
// a 500 without leaking their message.
func toKratosError(err error) error {
	if err == nil {
		return nil
	}

	var limitErr *biz.LimitExceededError
	if errors.As(err, &limitErr) {
		return kerrors.New(statusTooManyRequests, ReasonUsageLimitExceeded, limitErr.Error()).
			WithMetadata(map[string]string{
				MetadataRetryAfter: strconv.FormatInt(limitErr.RetryAfterSeconds(), 10),
				"feature":          string(limitErr.Feature),
				"plan":             string(limitErr.Plan),
				"current":          strconv.FormatInt(limitErr.Current, 10),
				"limit":            strconv.FormatInt(limitErr.Limit, 10),
			}).
			WithCause(err)
	}

	var rateErr *biz.RateLimitExceededError
	if errors.As(err, &rateErr) {
		return kerrors.New(statusTooManyRequests, ReasonRateLimitExceeded, rateErr.Error()).
			WithMetadata(map[string]string{
				MetadataRetryAfter: strconv.FormatInt(int64(rateErr.RetryAfter.Seconds()), 10),
			}).
			WithCause(err)
	}

	var unavailable *biz.ServiceUnavailableError
	if errors.As(err, &unavailable) {
		return kerrors.ServiceUnavailable(ReasonServiceUnavailable, unavailable.Error()).
			WithMetadata(map[string]string{"service": unavailable.Service}).
			WithCause(err)
	}

	switch {
	case errors.Is(err, biz.ErrUserNotFound):
		return kerrors.NotFound(ReasonUserNotFound, err.Error()).WithCause(err)
	case errors.Is(err, biz.ErrInvalidFeature):
		return kerrors.BadRequest(ReasonInvalidFeature, err.Error()).WithCause(err)
	case errors.Is(err, biz.ErrGeneratorNotConfigured):
		return kerrors.ServiceUnavailable(ReasonNotConfigured, err.Error()).WithCause(err)
	}

	return kerrors.InternalServer(ReasonInternal, "internal error").WithCause(err)
}

func invalidArgument(msg string) error {
	return kerrors.BadRequest(ReasonInvalidArgument, msg)
}
