package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/kotoba/internal/api"
	"github.com/ajitpratap0/kotoba/internal/coherence"
	"github.com/ajitpratap0/kotoba/internal/corpus"
	"github.com/ajitpratap0/kotoba/internal/corpus/corpustest"
	"github.com/ajitpratap0/kotoba/internal/generator"
	"github.com/ajitpratap0/kotoba/internal/models"
)

// newTestServer serves the fixture corpus.
func newTestServer(t *testing.T, authToken string) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := generator.NewProvider(corpus.NewHolder(corpustest.New(t)), logger)
	srv := api.NewServer(p, logger, api.Options{AuthToken: authToken, MaxAttempts: 5, BatchLimit: 10})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func doRequest(t *testing.T, method, url string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(context.Background(), method, url, body)
	} else {
		req, err = http.NewRequestWithContext(context.Background(), method, url, http.NoBody)
	}
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type sentenceResponse struct {
	Seed uint64 `json:"seed"`
	models.Sentence
}

func TestAPI_Healthz(t *testing.T) {
	ts := newTestServer(t, "secret")

	resp := doRequest(t, http.MethodGet, ts.URL+"/healthz", nil, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["status"])
}

func TestAPI_Metrics(t *testing.T) {
	ts := newTestServer(t, "secret")

	gen := doRequest(t, http.MethodPost, ts.URL+"/v1/sentences", jsonBody(t, map[string]any{"theme": "identity", "seed": 1}), "secret")
	gen.Body.Close()

	resp := doRequest(t, http.MethodGet, ts.URL+"/metrics", nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `kotoba_sentences_generated_total{theme="identity"}`)
}

func TestAPI_Auth(t *testing.T) {
	ts := newTestServer(t, "secret")

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"wrong token", "nope", http.StatusUnauthorized},
		{"valid token", "secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodGet, ts.URL+"/v1/themes", nil, tt.token)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAPI_Themes(t *testing.T) {
	ts := newTestServer(t, "")

	resp := doRequest(t, http.MethodGet, ts.URL+"/v1/themes", nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Themes []struct {
			Name         string   `json:"name"`
			Structure    string   `json:"structure"`
			Relationship string   `json:"relationship"`
			Slots        []string `json:"slots"`
		} `json:"themes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Themes, 5)
	assert.Equal(t, "action", result.Themes[0].Name)
	assert.Equal(t, "A_wa_B_wo_Verb", result.Themes[0].Structure)
	assert.Equal(t, "action", result.Themes[0].Relationship)
	assert.Equal(t, []string{"A", "B", "V"}, result.Themes[0].Slots)
}

func TestAPI_GenerateSentence(t *testing.T) {
	ts := newTestServer(t, "")

	resp := doRequest(t, http.MethodPost, ts.URL+"/v1/sentences", jsonBody(t, map[string]any{
		"theme": "identity",
		"seed":  42,
		"debug": true,
	}), "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[sentenceResponse](t, resp)
	assert.Equal(t, uint64(42), got.Seed)
	assert.Equal(t, "identity", got.Theme)
	assert.Equal(t, "A_wa_B_desu", got.Structure)
	assert.NotContains(t, got.Japanese, models.NotFound)
	require.NotNil(t, got.Debug)
	assert.Len(t, got.Debug.Slots, 2)

	again := doRequest(t, http.MethodPost, ts.URL+"/v1/sentences", jsonBody(t, map[string]any{"theme": "identity", "seed": 42}), "")
	defer again.Body.Close()
	second := decode[sentenceResponse](t, again)
	assert.Equal(t, got.Japanese, second.Japanese)
	assert.Equal(t, got.English, second.English)
}

func TestAPI_GenerateSentence_Errors(t *testing.T) {
	ts := newTestServer(t, "")

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"unknown theme", `{"theme":"nope"}`, http.StatusNotFound, "unknown theme"},
		{"malformed body", `{"theme":`, http.StatusBadRequest, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPost, ts.URL+"/v1/sentences", bytes.NewBufferString(tt.body), "")
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, decode[map[string]string](t, resp)["error"], tt.msg)
		})
	}
}

func TestAPI_GenerateCoherentOnly(t *testing.T) {
	ts := newTestServer(t, "")

	resp := doRequest(t, http.MethodPost, ts.URL+"/v1/sentences", jsonBody(t, map[string]any{
		"theme":         "identity",
		"seed":          3,
		"coherent_only": true,
	}), "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[sentenceResponse](t, resp).CoherencePassed)
}

func TestAPI_Batch(t *testing.T) {
	ts := newTestServer(t, "")

	resp := doRequest(t, http.MethodPost, ts.URL+"/v1/sentences/batch", jsonBody(t, map[string]any{
		"theme": "possession",
		"seed":  5,
		"count": 4,
	}), "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Seed      uint64            `json:"seed"`
		Sentences []models.Sentence `json:"sentences"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, uint64(5), result.Seed)
	require.Len(t, result.Sentences, 4)
	for _, s := range result.Sentences {
		assert.Equal(t, "possession", s.Theme)
		assert.Equal(t, "A_no_B", s.Structure)
	}
}

func TestAPI_Batch_Errors(t *testing.T) {
	ts := newTestServer(t, "")

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"zero count", map[string]any{"count": 0}, http.StatusBadRequest},
		{"over limit", map[string]any{"count": 11}, http.StatusBadRequest},
		{"unknown theme", map[string]any{"count": 2, "theme": "nope"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPost, ts.URL+"/v1/sentences/batch", jsonBody(t, tt.body), "")
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAPI_Coherence(t *testing.T) {
	ts := newTestServer(t, "")

	thing := func(english string) models.Component {
		return models.VocabularyComponent(models.VocabularyEntry{English: english, Kana: "かな", Entity: models.EntityThing}, models.EntityThing)
	}
	s := models.Sentence{
		Japanese:     "本の車",
		English:      "book's car",
		Structure:    "A_no_B",
		Relationship: models.RelationshipOwnership,
		SlotOrder:    []string{"A", "B"},
		Components:   map[string]models.Component{"A": thing("book"), "B": thing("car")},
	}

	resp := doRequest(t, http.MethodPost, ts.URL+"/v1/coherence", jsonBody(t, s), "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[coherence.Result](t, resp)
	assert.False(t, result.Passed)
	assert.Contains(t, result.Issues, "ownership: things don't own other things")
}

func TestAPI_Score(t *testing.T) {
	ts := newTestServer(t, "")

	resp := doRequest(t, http.MethodGet, ts.URL+"/v1/score?a=person&b=thing&relationship=OWNERSHIP", nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	score := decode[models.CompatibilityScore](t, resp)
	assert.InDelta(t, 0.8, score.SemanticMatch, 1e-9)
	assert.InDelta(t, 0.82, score.Overall, 1e-9)

	for _, q := range []string{"a=robot&b=thing&relationship=action", "a=person&b=thing&relationship=friendship"} {
		bad := doRequest(t, http.MethodGet, ts.URL+"/v1/score?"+q, nil, "")
		assert.Equal(t, http.StatusBadRequest, bad.StatusCode, q)
		bad.Body.Close()
	}
}
