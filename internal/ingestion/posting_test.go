package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const postingHTML = `<html>
<head><title>Job</title><script>var tracking = true;</script></head>
<body>
<nav>Home | Jobs | About</nav>
<div class="job-description">
  <h1>Senior Backend Engineer</h1>
  <p>Build payment infrastructure in Go.</p>
  <ul><li>5+ years of experience</li><li>PostgreSQL and AWS</li></ul>
</div>
<footer>Copyright Acme</footer>
</body>
</html>`

func TestExtractPostingText(t *testing.T) {
	text, err := ExtractPostingText(postingHTML)
	require.NoError(t, err)

	assert.Contains(t, text, "Senior Backend Engineer")
	assert.Contains(t, text, "payment infrastructure")
	assert.Contains(t, text, "5+ years of experience")
	assert.NotContains(t, text, "Home | Jobs", "navigation is stripped")
	assert.NotContains(t, text, "Copyright", "footer is stripped")
	assert.NotContains(t, text, "tracking", "scripts are stripped")
}

func TestExtractPostingText_FallsBackToBody(t *testing.T) {
	text, err := ExtractPostingText(`<html><body><p>Plain posting text.</p></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Plain posting text.", text)
}

func TestExtractPostingText_BlankLinesDropped(t *testing.T) {
	text, err := ExtractPostingText("<html><body><main><p>First</p>\n\n\n<p>Second</p></main></body></html>")
	require.NoError(t, err)
	assert.Equal(t, "First\nSecond", text)
}

func TestFromURL(t *testing.T) {
	// Pad the posting past the browser-fallback threshold.
	padded := strings.Replace(postingHTML,
		"</ul>",
		"</ul><p>"+strings.Repeat("Responsibilities include owning services end to end. ", 20)+"</p>",
		1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "InterviewCoach")
		_, _ = w.Write([]byte(padded))
	}))
	defer server.Close()

	ingestor := NewIngestor(nil, zap.NewNop())
	text, err := ingestor.FromURL(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "Senior Backend Engineer")
}

func TestFromURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	ingestor := NewIngestor(nil, zap.NewNop())
	_, err := ingestor.FromURL(context.Background(), server.URL)
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Message, "404")
}

func TestFromURL_InvalidURL(t *testing.T) {
	ingestor := NewIngestor(nil, zap.NewNop())
	_, err := ingestor.FromURL(context.Background(), "not-a-url")

	var fe *FetchError
	assert.ErrorAs(t, err, &fe)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posting.txt")
	require.NoError(t, os.WriteFile(path, []byte("Senior Analyst\r\n\r\n  Finance role.  \r\n"), 0o644))

	ingestor := NewIngestor(nil, zap.NewNop())
	text, err := ingestor.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Senior Analyst\nFinance role.", text)
}

func TestFromFile_Missing(t *testing.T) {
	ingestor := NewIngestor(nil, zap.NewNop())
	_, err := ingestor.FromFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
