package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions() *Options {
	opts := DefaultOptions()
	opts.Retry.BaseDelay = time.Millisecond
	opts.Retry.MaxDelay = 5 * time.Millisecond
	return opts
}

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Senior Go Engineer</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, fastOptions())
	require.NoError(t, err)
	assert.Contains(t, result.HTML, "Senior Go Engineer")
	assert.Equal(t, "text/html", result.ContentType)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, u := range []string{"not-a-valid-url", "ftp://example.com/job", "file:///etc/passwd"} {
		_, err := URL(context.Background(), u, fastOptions())
		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr)
		assert.Contains(t, err.Error(), "invalid URL")
	}
}

func TestURL_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("<p>ok</p>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, fastOptions())
	require.NoError(t, err)
	assert.Contains(t, result.HTML, "ok")
	assert.Equal(t, int32(3), hits.Load())
}

func TestURL_DoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, fastOptions())

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestURL_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	opts := fastOptions()
	opts.MaxBytes = 4
	result, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, "0123", result.HTML)
}

func TestExtractMainText(t *testing.T) {
	html := `<html><body>
		<nav>Home | Jobs</nav>
		<div class="job-description">
			<h2>Requirements</h2>
			<ul><li>Experience with   Go</li><li>Knowledge of PostgreSQL</li></ul>
		</div>
		<footer>Copyright</footer>
	</body></html>`

	text, err := ExtractMainText(html, JobPostingSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Requirements\nExperience with Go\nKnowledge of PostgreSQL", text)
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	text, err := ExtractMainText(`<html><body><p>Just text</p><script>x()</script></body></html>`, []string{".missing"})
	require.NoError(t, err)
	assert.Equal(t, "Just text", text)
}

func TestExtractMainText_NoiseSelectors(t *testing.T) {
	html := `<main><p>Role</p><form id="application">Apply now</form></main>`
	text, err := ExtractMainText(html, []string{"main"}, "#application")
	require.NoError(t, err)
	assert.Equal(t, "Role", text)
}

func TestJobPostingText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main><p>Must have Kubernetes</p></main></body></html>`))
	}))
	defer server.Close()

	text, err := JobPostingText(context.Background(), server.URL, fastOptions())
	require.NoError(t, err)
	assert.Equal(t, "Must have Kubernetes", text)
}

func TestError_Temporary(t *testing.T) {
	assert.True(t, (&Error{Message: "HTTP request failed"}).Temporary())
	assert.True(t, (&Error{StatusCode: 503}).Temporary())
	assert.True(t, (&Error{StatusCode: 429}).Temporary())
	assert.False(t, (&Error{StatusCode: 404}).Temporary())
	assert.False(t, (&Error{Message: "invalid URL"}).Temporary())
}
