package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/daviddao/halftime/pkg/metrics"
	"github.com/daviddao/halftime/pkg/model"
	"github.com/daviddao/halftime/pkg/schedule"
	"github.com/daviddao/halftime/pkg/shuffle"
)

func newTestServer(t *testing.T, baseURL string) (*httptest.Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc := schedule.New(
		schedule.WithSourceFactory(func() shuffle.Source { return shuffle.NewSource(7) }),
		schedule.WithMetrics(metrics.NewPrometheus(reg, "")),
	)
	ts := httptest.NewServer(New(svc, baseURL, reg, zerolog.Nop()).Handler())
	t.Cleanup(ts.Close)
	return ts, reg
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestCreateThenReconstruct(t *testing.T) {
	ts, _ := newTestServer(t, "https://ht.example/")

	resp, created := post(t, ts.URL+"/api/schedules",
		`{"participants":["A","B","C"],"options":{"slots_per_participant":1,"total_duration_seconds":5400},"surprise":true}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := created["token"].(string)
	require.NotEmpty(t, token)
	require.Equal(t, "https://ht.example/#"+token, created["share_url"])
	require.Equal(t, true, created["surprise"])

	resp, body := get(t, ts.URL+"/api/schedules/"+token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rebuilt ScheduleResponse
	require.NoError(t, json.Unmarshal(body, &rebuilt))
	require.Equal(t, token, rebuilt.Token)
	require.Equal(t, []string{"A", "B", "C"}, rebuilt.ParticipantNames)
	require.True(t, rebuilt.Surprise)

	createdAllocs, err := json.Marshal(created["allocations"])
	require.NoError(t, err)
	rebuiltAllocs, err := json.Marshal(rebuilt.Allocations)
	require.NoError(t, err)
	require.JSONEq(t, string(createdAllocs), string(rebuiltAllocs))

	var marker model.Allocation
	for _, a := range rebuilt.Allocations {
		if a.IsMarker() {
			marker = a
		}
	}
	require.Equal(t, model.HalfTimeLabel, marker.Label)
	require.Equal(t, 2700, marker.Start)
}

func TestCreate_Rejects(t *testing.T) {
	ts, _ := newTestServer(t, "")

	cases := []struct {
		name string
		body string
		code string
	}{
		{"no participants", `{"participants":[],"options":{"slots_per_participant":1,"total_duration_seconds":90}}`, "invalid_configuration"},
		{"zero duration", `{"participants":["A"],"options":{"slots_per_participant":1,"total_duration_seconds":0}}`, "invalid_configuration"},
		{"slot count overflows", `{"participants":["A","B","C"],"options":{"slots_per_participant":6148914691236517206,"total_duration_seconds":90,"per_round":true}}`, "invalid_configuration"},
		{"duration above 32 bits", `{"participants":["A"],"options":{"slots_per_participant":1,"total_duration_seconds":4294967296}}`, "invalid_configuration"},
		{"not json", `{`, "bad_request"},
		{"unknown field", `{"players":["A"]}`, "bad_request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, out := post(t, ts.URL+"/api/schedules", tc.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, tc.code, out["error"])
		})
	}
}

func TestCreate_NoShareURLWithoutBase(t *testing.T) {
	ts, _ := newTestServer(t, "")
	resp, out := post(t, ts.URL+"/api/schedules",
		`{"participants":["A"],"options":{"slots_per_participant":2,"total_duration_seconds":60}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_, ok := out["share_url"]
	require.False(t, ok)
}

func TestReconstruct_MalformedToken(t *testing.T) {
	ts, _ := newTestServer(t, "")
	for _, tok := range []string{"garbage", "SFQBCFo", "AAAA"} {
		resp, body := get(t, ts.URL+"/api/schedules/"+tok)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, tok)
		require.JSONEq(t, `{"error":"malformed_token"}`, string(body))
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp, body := get(t, ts.URL+"/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"ok"}`, string(body))

	get(t, ts.URL+"/api/schedules/garbage")
	resp, body = get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `halftime_schedule_rejected_total{reason="malformed_token"} 1`)
}

func TestShareURL(t *testing.T) {
	require.Equal(t, "http://x/#tok", ShareURL("http://x/", "tok"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	srv := New(schedule.New(), "", nil, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
