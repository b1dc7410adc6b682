package netradyne

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/scorecard-etl/internal/config"
)

func testConfig(baseURL string) config.Netradyne {
	return config.Netradyne{
		BasicAuth:    "dGVzdDp0ZXN0",
		AuthURL:      baseURL + "/auth/token",
		ScoreURL:     baseURL + "/fleet/scores",
		AuthTimeout:  5 * time.Second,
		FetchTimeout: 5 * time.Second,
	}
}

func TestTokenReusesLatestUnexpired(t *testing.T) {
	future := time.Now().Add(time.Hour).UnixMilli()
	later := time.Now().Add(2 * time.Hour).UnixMilli()
	past := time.Now().Add(-time.Hour).UnixMilli()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/auth/tokens":
			assert.Equal(t, "Basic dGVzdDp0ZXN0", r.Header.Get("Authorization"))
			fmt.Fprintf(w, `{"data":[
				{"accessToken":"expired","expiresOn":%d},
				{"accessToken":"soon","expiresOn":%d},
				{"accessToken":"latest","expiresOn":%d}
			]}`, past, future, later)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	token, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "latest", token)
}

func TestTokenMintsWhenNoneValid(t *testing.T) {
	past := time.Now().Add(-time.Hour).UnixMilli()

	var minted bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/auth/tokens":
			fmt.Fprintf(w, `{"data":[{"accessToken":"old","expiresOn":%d}]}`, past)
		case r.Method == http.MethodPost && r.URL.Path == "/auth/token":
			minted = true
			fmt.Fprint(w, `{"data":{"accessToken":"fresh","expiresOn":9999999999999}}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	token, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.True(t, minted)
	assert.Equal(t, "fresh", token)
}

func TestTokenMintFailureSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `{"data":[]}`)
			return
		}
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	_, err := c.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestFleetScoresDecoding(t *testing.T) {
	month := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/tokens":
			fmt.Fprint(w, `{"data":[{"accessToken":"tok","expiresOn":9999999999999}]}`)
		case r.URL.Path == "/fleet/scores":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			q := r.URL.Query()
			assert.Equal(t, fmt.Sprint(month.UnixMilli()), q.Get("time"))
			assert.Equal(t, "monthly", q.Get("interval"))
			assert.Equal(t, "1000", q.Get("limit"))
			fmt.Fprint(w, `{"data":{"scores":[
				{"driver":{"driverId":"D001"},"score":88},
				{"driver":{"driverId":""},"score":50},
				{"driver":{"driverId":"D003"}}
			]}}`)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	scores, err := c.FleetScores(context.Background(), month)
	require.NoError(t, err)

	// Entries missing a driver id or a score are skipped.
	require.Len(t, scores, 1)
	assert.Equal(t, "D001", scores[0].DriverID)
	assert.Equal(t, 88, scores[0].Score)
}

func TestFleetScoresHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/tokens" {
			fmt.Fprint(w, `{"data":[{"accessToken":"tok","expiresOn":9999999999999}]}`)
			return
		}
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	_, err := c.FleetScores(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
