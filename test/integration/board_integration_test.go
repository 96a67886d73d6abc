//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quoteboard/internal/app"
	"github.com/jsamuelsen/quoteboard/internal/testutil"
)

func newStack(t *testing.T, seed ...testutil.Quote) *stack {
	t.Helper()

	s, err := startStack(seed...)
	require.NoError(t, err)
	t.Cleanup(s.close)

	return s
}

func getBoard(t *testing.T, browser *http.Client, url string) app.Board {
	t.Helper()

	resp, err := browser.Get(url + "/api/v1/board")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var board app.Board
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&board))

	return board
}

// TestConcurrent_LikesFromManyBrowsers has several sessions like the same
// quote at once; every like must land and every session must see the total.
func TestConcurrent_LikesFromManyBrowsers(t *testing.T) {
	s := newStack(t, testutil.Quote{Quote: "A", Author: "X"})

	const browsers, likesEach = 5, 4

	var wg sync.WaitGroup

	for range browsers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			b := newBrowser()
			for range likesEach {
				resp, err := b.Post(s.server.URL+"/api/v1/quotes/1/likes", "application/json", nil)
				if !assert.NoError(t, err) {
					return
				}

				resp.Body.Close()
				assert.Equal(t, http.StatusOK, resp.StatusCode)
			}
		}()
	}

	wg.Wait()

	assert.Len(t, s.store.Likes(), browsers*likesEach)

	board := getBoard(t, newBrowser(), s.server.URL)
	require.Len(t, board.Cards, 1)
	assert.Equal(t, browsers*likesEach, board.Cards[0].Likes)
}

func TestAPI_CreateEditDelete(t *testing.T) {
	s := newStack(t)
	b := newBrowser()

	resp, err := b.Post(s.server.URL+"/api/v1/quotes", "application/json",
		strings.NewReader(`{"quote":"Stay hungry","author":"Jobs"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	board := getBoard(t, b, s.server.URL)
	require.Len(t, board.Cards, 1)
	id := board.Cards[0].ID

	req, err := http.NewRequest(http.MethodPatch, s.server.URL+"/api/v1/quotes/"+id,
		strings.NewReader(`{"quote":"Stay foolish","author":"Jobs"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err = b.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Stay foolish", getBoard(t, b, s.server.URL).Cards[0].Content)

	req, err = http.NewRequest(http.MethodDelete, s.server.URL+"/api/v1/quotes/"+id, nil)
	require.NoError(t, err)

	resp, err = b.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Empty(t, getBoard(t, b, s.server.URL).Cards)
	assert.Empty(t, s.store.Quotes())
}

func TestAPI_StoreOutageMapsTo503(t *testing.T) {
	s := newStack(t, testutil.Quote{Quote: "A", Author: "X"})
	s.store.FailWith("GET /quotes", http.StatusServiceUnavailable)

	resp, err := newBrowser().Get(s.server.URL + "/api/v1/board")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "SERVICE_UNAVAILABLE", envelope.Error.Code)
}

func TestMetrics_RecordActionsAndSessions(t *testing.T) {
	s := newStack(t, testutil.Quote{Quote: "A", Author: "X"})

	getBoard(t, newBrowser(), s.server.URL)
	getBoard(t, newBrowser(), s.server.URL)

	count, err := promtest.GatherAndCount(s.metrics, "quoteboard_sync_actions_total")
	require.NoError(t, err)
	assert.Positive(t, count)

	resp, err := http.Get(s.server.URL + "/-/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	expected := `
# HELP quoteboard_sessions_active Board sessions currently held in memory.
# TYPE quoteboard_sessions_active gauge
quoteboard_sessions_active 2
`
	require.NoError(t, promtest.GatherAndCompare(s.metrics, strings.NewReader(expected), "quoteboard_sessions_active"))
}
