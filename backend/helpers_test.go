package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/liangxing/matchsite/backend/content"
	"github.com/liangxing/matchsite/backend/directory"
)

func testConfig() Config {
	return Config{
		Addr:            ":0",
		Env:             "test",
		LogLevel:        "disabled",
		FormTokenSecret: "test-secret-key-for-testing",
		FormTokenTTL:    time.Minute,
		SubmitDelay:     0,
		CORSOrigins:     []string{"http://localhost:5173"},
	}
}

func seedCatalog(t *testing.T) *Catalog {
	t.Helper()
	members, err := content.LoadMembers()
	require.NoError(t, err)
	cat, err := NewCatalog(members)
	require.NoError(t, err)
	return cat
}

// newTestServer wires the full router over the embedded seed.
func newTestServer(t *testing.T, cfg Config) (*server, *httptest.Server) {
	t.Helper()
	site, err := content.LoadSite()
	require.NoError(t, err)

	srv := newServer(cfg, zerolog.Nop(), site, seedCatalog(t))
	h, err := srv.routes()
	require.NoError(t, err)

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return srv, ts
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// many builds n synthetic members, alternating gender, all inside the
// default criteria.
func many(n int) []directory.Candidate {
	out := make([]directory.Candidate, 0, n)
	for i := 1; i <= n; i++ {
		g := directory.Female
		if i%2 == 0 {
			g = directory.Male
		}
		out = append(out, directory.Candidate{
			ID: i, Name: "会员", Age: 30, Height: 170, Gender: g,
			Education: "本科", Income: "10000-20000元", Location: "北京",
		})
	}
	return out
}
