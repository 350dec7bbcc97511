package llm

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
)

// DefaultRetryAfter is used when a quota fault carries no parsable delay.
const DefaultRetryAfter = 60 * time.Second

const resourceExhausted = "RESOURCE_EXHAUSTED"

// QuotaInfo is the classification of a failed model call.
type QuotaInfo struct {
	IsQuota    bool
	RetryAfter time.Duration
}

// RetryAfterSeconds returns the retry delay in whole seconds, rounded up.
func (q QuotaInfo) RetryAfterSeconds() int {
	return int(math.Ceil(q.RetryAfter.Seconds()))
}

// StatusCoder is implemented by faults that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// ResponseBodier is implemented by faults that carry the provider's raw reply.
type ResponseBodier interface {
	ResponseBody() string
}

// QuotaClassifier decides whether a model failure is a rate/quota condition
// and how long the caller should wait before trying again.
type QuotaClassifier struct {
	DefaultRetryAfter time.Duration
}

// NewQuotaClassifier returns a classifier with the given fallback delay.
func NewQuotaClassifier(defaultRetryAfter time.Duration) *QuotaClassifier {
	if defaultRetryAfter <= 0 {
		defaultRetryAfter = DefaultRetryAfter
	}
	return &QuotaClassifier{DefaultRetryAfter: defaultRetryAfter}
}

// Classify inspects err and never fails. Status, message and body are each
// decoded independently; any one of them marking a quota condition is enough.
func (c *QuotaClassifier) Classify(err error) QuotaInfo {
	info := QuotaInfo{RetryAfter: c.defaultDelay()}
	if err == nil {
		return info
	}

	status, hasStatus := statusOf(err)
	body := bodyOf(err)

	info.IsQuota = (hasStatus && status == http.StatusTooManyRequests) ||
		messageIndicatesQuota(err.Error()) ||
		strings.Contains(body, resourceExhausted) ||
		grpcResourceExhausted(err)

	if !info.IsQuota {
		return info
	}
	if d, ok := retryDelayOf(err, body); ok {
		info.RetryAfter = d
	}
	return info
}

func (c *QuotaClassifier) defaultDelay() time.Duration {
	if c == nil || c.DefaultRetryAfter <= 0 {
		return DefaultRetryAfter
	}
	return c.DefaultRetryAfter
}

func messageIndicatesQuota(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit")
}

func statusOf(err error) (int, bool) {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code != 0 {
		return gErr.Code, true
	}
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return apiErr.HTTPCode(), true
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode(), true
	}
	return 0, false
}

func bodyOf(err error) string {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Body != "" {
		return gErr.Body
	}
	var rb ResponseBodier
	if errors.As(err, &rb) {
		return rb.ResponseBody()
	}
	return ""
}

func grpcResourceExhausted(err error) bool {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if s := apiErr.GRPCStatus(); s != nil && s.Code().String() == "ResourceExhausted" {
		return true
	}
	return false
}

// retryDelayOf prefers the decoded RetryInfo detail and falls back to the
// raw JSON body.
func retryDelayOf(err error, body string) (time.Duration, bool) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if ri := apiErr.Details().RetryInfo; ri != nil {
			if d := ri.GetRetryDelay().AsDuration(); d > 0 {
				return d, true
			}
		}
	}
	if body == "" {
		return 0, false
	}
	return parseRetryDelay(body)
}

type errorEnvelope struct {
	Error struct {
		Details []map[string]any `json:"details"`
	} `json:"error"`
}

func parseRetryDelay(body string) (time.Duration, bool) {
	var env errorEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return 0, false
	}
	for _, detail := range env.Error.Details {
		typ, _ := detail["@type"].(string)
		if !strings.Contains(typ, "RetryInfo") {
			continue
		}
		raw, _ := detail["retryDelay"].(string)
		if !strings.HasSuffix(raw, "s") {
			return 0, false
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return 0, false
		}
		return d, true
	}
	return 0, false
}
