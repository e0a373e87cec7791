package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/win-predictor/internal/config"
)

const matchesCSV = `id,season,city,date,team1,team2,toss_winner,toss_decision,result,winner
1,2017,Hyderabad,2017-04-05,Sunrisers Hyderabad,Royal Challengers Bangalore,Royal Challengers Bangalore,field,normal,Sunrisers Hyderabad
2,2017,Pune,2017-04-06,Mumbai Indians,Rising Pune Supergiant,Rising Pune Supergiant,field,normal,Rising Pune Supergiant
,2017,Rajkot,2017-04-07,Gujarat Lions,Kolkata Knight Riders,Kolkata Knight Riders,field,normal,Kolkata Knight Riders
3,2017,Bangalore,2017-04-08,Royal Challengers Bangalore,Delhi Daredevils,Royal Challengers Bangalore,bat,no result,
`

const deliveriesCSV = `match_id,inning,batting_team,bowling_team,over,ball,batsman,bowler,total_runs,player_dismissed
1,1,Sunrisers Hyderabad,Royal Challengers Bangalore,1,1,DA Warner,TS Mills,0,
1,1,Sunrisers Hyderabad,Royal Challengers Bangalore,1,2,DA Warner,TS Mills,4,
1,2,Royal Challengers Bangalore,Sunrisers Hyderabad,1,1,CH Gayle,A Nehra,1,
1,2,Royal Challengers Bangalore,Sunrisers Hyderabad,1,x,CH Gayle,A Nehra,1,
1,2,Royal Challengers Bangalore,Sunrisers Hyderabad,1,2,Mandeep Singh,A Nehra,0,Mandeep Singh
`

func TestParseMatches(t *testing.T) {
	matches, stats, err := ParseMatches(strings.NewReader(matchesCSV))
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Rows)
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, matches, 3)

	assert.Equal(t, "1", matches[0].ID)
	assert.Equal(t, "Hyderabad", matches[0].City)
	assert.Equal(t, "Sunrisers Hyderabad", matches[0].Winner)
	assert.Equal(t, "normal", matches[0].Result)
	assert.Equal(t, "no result", matches[2].Result)
	assert.False(t, matches[2].HasWinner())
}

func TestParseDeliveries(t *testing.T) {
	deliveries, stats, err := ParseDeliveries(strings.NewReader(deliveriesCSV))
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Rows)
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, deliveries, 4)

	assert.Equal(t, 4, deliveries[1].TotalRuns)
	assert.Equal(t, 2, deliveries[2].Inning)
	assert.False(t, deliveries[2].IsWicket())
	assert.True(t, deliveries[3].IsWicket())
	assert.Equal(t, 2, deliveries[3].Ball)
}

func TestParse_MissingColumns(t *testing.T) {
	_, _, err := ParseMatches(strings.NewReader("id,team1\n1,Mumbai Indians\n"))
	assert.ErrorIs(t, err, ErrInvalidData)
	assert.Contains(t, err.Error(), "team2")

	_, _, err = ParseDeliveries(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	matchesPath := filepath.Join(dir, "matches.csv")
	deliveriesPath := filepath.Join(dir, "deliveries.csv")
	require.NoError(t, os.WriteFile(matchesPath, []byte(matchesCSV), 0o644))
	require.NoError(t, os.WriteFile(deliveriesPath, []byte(deliveriesCSV), 0o644))

	src := NewFileSource(matchesPath, deliveriesPath)
	assert.Equal(t, "file", src.Name())

	matches, _, err := src.LoadMatches(context.Background())
	require.NoError(t, err)
	assert.Len(t, matches, 3)

	deliveries, _, err := src.LoadDeliveries(context.Background())
	require.NoError(t, err)
	assert.Len(t, deliveries, 4)
}

func TestFileSource_NotFound(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "missing.csv"), "")

	_, _, err := src.LoadMatches(context.Background())
	require.Error(t, err)

	var srcErr SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, ErrCodeNotFound, srcErr.Code)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPSource(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/matches.csv":
			_, _ = w.Write([]byte(matchesCSV))
		case "/deliveries.csv":
			_, _ = w.Write([]byte(deliveriesCSV))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	client := NewRateLimitedHTTPClient(testHTTPConfig(), nil)
	defer client.Close()
	src := NewHTTPSource(client, ts.URL+"/matches.csv", ts.URL+"/deliveries.csv")

	matches, _, err := src.LoadMatches(context.Background())
	require.NoError(t, err)
	assert.Len(t, matches, 3)

	deliveries, stats, err := src.LoadDeliveries(context.Background())
	require.NoError(t, err)
	assert.Len(t, deliveries, 4)
	assert.Equal(t, 1, stats.Skipped)

	missing := NewHTTPSource(client, ts.URL+"/nope.csv", "")
	_, _, err = missing.LoadMatches(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRateLimitedHTTPClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	client := NewRateLimitedHTTPClient(testHTTPConfig(), nil)
	resp, err := client.Get(context.Background(), ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRateLimitedHTTPClient_CircuitBreaker(t *testing.T) {
	cfg := testHTTPConfig()
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 2
	client := NewRateLimitedHTTPClient(cfg, nil)

	// Nothing listens on this address.
	url := "http://127.0.0.1:1/matches.csv"
	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), url)
		require.Error(t, err)
	}

	_, err := client.Get(context.Background(), url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(config.TrainingConfig{Source: "file", MatchesPath: "m.csv", DeliveriesPath: "d.csv"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	src, err = NewSource(config.TrainingConfig{Source: "http", MatchesURL: "http://x/m.csv", DeliveriesURL: "http://x/d.csv"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, src)

	_, err = NewSource(config.TrainingConfig{Source: "http"}, nil)
	assert.Error(t, err)

	_, err = NewSource(config.TrainingConfig{Source: "s3"}, nil)
	assert.Error(t, err)
}

func testHTTPConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:           2 * time.Second,
		MaxRetries:        3,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      5 * time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: 5,
	}
}
