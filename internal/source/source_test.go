package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteOKFetch(t *testing.T) {
	srv := testServer(t, http.StatusOK, `[
		{"legal": "API terms apply"},
		{"position": "Data Engineer", "company": "Acme", "location": "Remote, Germany",
		 "description": "<p>Build pipelines with SQL.</p>", "url": "https://remoteok.com/jobs/1",
		 "date": "2026-03-10T09:00:00+00:00", "tags": ["python", "sql"],
		 "salary_min": 60000, "salary_max": 90000},
		{"position": "Chef", "company": "Bistro", "url": "https://remoteok.com/jobs/2"}
	]`)

	s := NewRemoteOK(NewClient(5 * time.Second))
	s.baseURL = srv.URL

	got, err := s.Fetch(context.Background(), []string{"data", "analytics"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Data Engineer", got[0].Title)
	assert.Equal(t, "Acme", got[0].Company)
	assert.Equal(t, "Build pipelines with SQL.", got[0].Description)
	assert.Equal(t, "$60000-$90000", got[0].Salary)
	assert.Equal(t, "remoteok", got[0].Source)
	assert.False(t, got[0].FetchedAt.IsZero())
}

func TestArbeitnowFetch(t *testing.T) {
	srv := testServer(t, http.StatusOK, `{"data": [
		{"title": "Data Analyst", "company_name": "Berlin GmbH", "location": "Berlin",
		 "description": "Dashboards and SQL.", "url": "https://arbeitnow.com/jobs/1",
		 "remote": false, "tags": ["sql"], "job_types": ["full-time"], "created_at": 1772020800},
		{"title": "Data Engineer", "company_name": "Hamburg AG", "location": "",
		 "url": "https://arbeitnow.com/jobs/2", "remote": true, "created_at": 0}
	]}`)

	s := NewArbeitnow(NewClient(5 * time.Second))
	s.baseURL = srv.URL

	got, err := s.Fetch(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1772020800", got[0].Posted)
	assert.Equal(t, "full-time", got[0].JobType)
	assert.Equal(t, "Remote", got[1].Location)
	assert.Empty(t, got[1].Posted)
}

func TestWeWorkRemotelyFetch(t *testing.T) {
	srv := testServer(t, http.StatusOK, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
  <item>
    <title>Acme: Senior Data Scientist</title>
    <link>https://weworkremotely.com/jobs/1</link>
    <description>Models in production.</description>
    <pubDate>Mon, 09 Mar 2026 10:00:00 +0000</pubDate>
    <region>Anywhere in the World</region>
  </item>
  <item>
    <title>Untitled listing</title>
    <link>https://weworkremotely.com/jobs/2</link>
    <pubDate>garbled</pubDate>
  </item>
</channel></rss>`)

	s := NewWeWorkRemotely(NewClient(5 * time.Second))
	s.FeedURL = srv.URL

	got, err := s.Fetch(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Senior Data Scientist", got[0].Title)
	assert.Equal(t, "Acme", got[0].Company)
	assert.Equal(t, "2026-03-09T10:00:00Z", got[0].Posted)
	assert.Equal(t, "Unknown", got[1].Company)
	assert.Equal(t, "garbled", got[1].Posted)
}

type fakeUsage struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeUsage) APIUsage(_ context.Context, apiName string, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[apiName+now.Format("2006-01")], nil
}

func (f *fakeUsage) IncrementAPIUsage(_ context.Context, apiName string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[apiName+now.Format("2006-01")]++
	return nil
}

func TestSerpAPIQuota(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"jobs_results": [
			{"title": "Data Engineer", "company_name": "Acme", "location": "Berlin, Germany",
			 "share_link": "https://google.com/jobs/1",
			 "detected_extensions": {"posted_at": "3 hours ago", "schedule_type": "Full-time"}}
		]}`))
	}))
	t.Cleanup(srv.Close)

	usage := &fakeUsage{}
	s := NewSerpAPI(NewClient(5*time.Second), usage, "key", "Germany", 2)
	s.baseURL = srv.URL

	for i := 0; i < 2; i++ {
		got, err := s.Fetch(context.Background(), []string{"data engineer"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "3 hours ago", got[0].Posted)
	}
	assert.Equal(t, 2, hits)

	_, err := s.Fetch(context.Background(), []string{"data engineer"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
	assert.Equal(t, 2, hits, "no network call once the quota is spent")
}

func TestGreenhouseFetch(t *testing.T) {
	srv := testServer(t, http.StatusOK, `<html><body>
		<div class="opening">
			<a href="/acme/jobs/123">Data Platform Engineer</a>
			<span class="location">Berlin, Germany</span>
		</div>
		<div class="opening">
			<a href="/acme/jobs/456">Office Manager</a>
		</div>
		<a href="/acme/jobs/123">View opening</a>
		<a href="https://twitter.com/acme">Twitter</a>
	</body></html>`)

	client := NewClient(5 * time.Second)
	s := NewGreenhouse(client, []GreenhouseBoard{{Slug: "acme", Name: "Acme"}})

	// Board pages are fetched from the configured host; point the test at
	// the local server by fetching it directly.
	got, err := s.fetchBoardURL(context.Background(), srv.URL, GreenhouseBoard{Slug: "acme", Name: "Acme"}, []string{"data"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Data Platform Engineer", got[0].Title)
	assert.Equal(t, "Acme", got[0].Company)
}

func TestClientRetriesServerError(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(5 * time.Second)
	var v struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &v))
	assert.True(t, v.OK)
	assert.Equal(t, 2, hits)
}

func TestClientClientErrorNoRetry(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(5 * time.Second)
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, 1, hits)
}
