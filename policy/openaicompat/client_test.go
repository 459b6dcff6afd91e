package openaicompat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gimmyalex/logicrl/core"
)

// fakeEndpoint serves canned chat completions and records the decoded
// request bodies it saw.
func fakeEndpoint(t *testing.T, content string) (*httptest.Server, *[]map[string]interface{}) {
	t.Helper()
	var requests []map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests = append(requests, body)

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"id":     "cmpl-test",
			"object": "chat.completion",
			"choices": []map[string]interface{}{
				{
					"index":   0,
					"message": map[string]interface{}{"role": "assistant", "content": content},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func testTask() core.Task {
	return core.Task{
		Domain:      core.DomainSyllogism,
		Difficulty:  1,
		Seed:        7,
		Question:    "all people are useful. all useful are needed. therefore:",
		GroundTruth: "all people are needed.",
	}
}

func TestClient_GreedySample(t *testing.T) {
	srv, requests := fakeEndpoint(t, "all people are needed.\nbecause the chain composes")
	client := New(Config{BaseURL: srv.URL, Model: "test-model"})

	action, ratio, err := client.Sample(context.Background(), testTask(), false)
	require.NoError(t, err)

	assert.Equal(t, "all people are needed.", action.Answer)
	assert.Equal(t, "because the chain composes", action.Reasoning)
	assert.Equal(t, 0.0, ratio, "greedy samples never enter the surrogate")

	require.Len(t, *requests, 1)
	body := (*requests)[0]
	assert.Equal(t, "test-model", body["model"])
	assert.NotContains(t, body, "temperature", "greedy decoding is temperature zero")
}

func TestClient_StochasticSampleIsOnPolicy(t *testing.T) {
	srv, requests := fakeEndpoint(t, "all people are needed.")
	client := New(Config{BaseURL: srv.URL, Model: "test-model", Temperature: 0.7})

	_, ratio, err := client.Sample(context.Background(), testTask(), true)
	require.NoError(t, err)
	assert.Equal(t, 1.0, ratio)

	require.Len(t, *requests, 1)
	assert.InDelta(t, 0.7, (*requests)[0]["temperature"], 1e-6)
}

func TestClient_NoChoicesFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-test","object":"chat.completion","choices":[]}`))
	}))
	t.Cleanup(srv.Close)
	client := New(Config{BaseURL: srv.URL, Model: "test-model"})

	_, _, err := client.Sample(context.Background(), testTask(), true)
	assert.ErrorContains(t, err, "no choices")
}

func TestClient_ServerErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	client := New(Config{BaseURL: srv.URL, Model: "test-model"})

	_, _, err := client.Sample(context.Background(), testTask(), true)
	assert.ErrorContains(t, err, "policy sample failed")
}
