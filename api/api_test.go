package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelbridge/domain"
	"modelbridge/host"
)

var testModels = []domain.ModelDescriptor{
	{Id: "gpt-4o", Vendor: "copilot", Family: "gpt-4o", Name: "GPT 4o", MaxInputTokens: 64000},
	{Id: "claude-sonnet", Vendor: "anthropic", Family: "claude", Name: "Claude Sonnet", MaxInputTokens: 200000},
}

func newTestRouter(t *testing.T, client host.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := NewController(host.NewGateway(client), "modelbridge-test")
	return DefineRoutes(ctrl)
}

func TestHealthHandler(t *testing.T) {
	router := newTestRouter(t, &host.StaticClient{Models: testModels})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var health domain.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "modelbridge-test", health.Extension)
	assert.NotEmpty(t, health.Timestamp)
}

func TestGetModelsHandler(t *testing.T) {
	router := newTestRouter(t, &host.StaticClient{Models: testModels})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp domain.ModelListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Models, 2)
	assert.Equal(t, "gpt-4o", resp.Models[0].Id)
}

func TestGetModelsHandlerNoModels(t *testing.T) {
	router := newTestRouter(t, &host.StaticClient{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "No language models available", resp["error"])
}

func postChat(t *testing.T, router *gin.Engine, body string) (*httptest.ResponseRecorder, domain.BridgeResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp domain.BridgeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestChatHandler(t *testing.T) {
	testCases := []struct {
		name             string
		client           host.Client
		body             string
		expectedStatus   int
		expectedError    string
		expectedModelId  string
		expectedResponse string
	}{
		{
			name:           "missing messages",
			client:         &host.StaticClient{Models: testModels},
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Messages array is required",
		},
		{
			name:           "empty messages array",
			client:         &host.StaticClient{Models: testModels},
			body:           `{"messages": []}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Messages array is required",
		},
		{
			name:           "malformed messages",
			client:         &host.StaticClient{Models: testModels},
			body:           `{"messages": "not an array"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Messages array is required",
		},
		{
			name:           "no models available",
			client:         &host.StaticClient{},
			body:           `{"messages": [{"content": "2+2?"}]}`,
			expectedStatus: http.StatusNotFound,
			expectedError:  "No language models available",
		},
		{
			name:           "selector matches nothing",
			client:         &host.StaticClient{Models: testModels},
			body:           `{"messages": [{"content": "hi"}], "model": {"vendor": "unknown"}}`,
			expectedStatus: http.StatusNotFound,
			expectedError:  "No language models available",
		},
		{
			name: "defaults to first model",
			client: &host.StaticClient{
				Models: testModels,
				Respond: func(model domain.ModelDescriptor, messages []domain.ChatMessage) (string, error) {
					return "the answer is 4", nil
				},
			},
			body:             `{"messages": [{"content": "2+2?"}]}`,
			expectedStatus:   http.StatusOK,
			expectedModelId:  "gpt-4o",
			expectedResponse: "the answer is 4",
		},
		{
			name: "selector picks a specific model",
			client: &host.StaticClient{
				Models: testModels,
				Respond: func(model domain.ModelDescriptor, messages []domain.ChatMessage) (string, error) {
					return "answered by " + model.Id, nil
				},
			},
			body:             `{"messages": [{"content": "hi"}], "model": {"vendor": "anthropic"}}`,
			expectedStatus:   http.StatusOK,
			expectedModelId:  "claude-sonnet",
			expectedResponse: "answered by claude-sonnet",
		},
		{
			name: "host invocation failure",
			client: &host.StaticClient{
				Models: testModels,
				Respond: func(model domain.ModelDescriptor, messages []domain.ChatMessage) (string, error) {
					return "", errors.New("host model crashed")
				},
			},
			body:           `{"messages": [{"content": "hi"}]}`,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "host model crashed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(t, tc.client)
			w, resp := postChat(t, router, tc.body)

			assert.Equal(t, tc.expectedStatus, w.Code)

			// success=true XOR non-empty error, never both, never neither
			assert.True(t, resp.Success != (resp.Error != ""))

			if tc.expectedError != "" {
				assert.False(t, resp.Success)
				assert.Equal(t, tc.expectedError, resp.Error)
				assert.Empty(t, resp.Response)
			} else {
				assert.True(t, resp.Success)
				assert.Equal(t, tc.expectedResponse, resp.Response)
				require.NotNil(t, resp.Model)
				assert.Equal(t, tc.expectedModelId, resp.Model.Id)
			}
		})
	}
}

func TestChatHandlerConcurrentRequests(t *testing.T) {
	// each invocation parks until both have entered the host client, so the
	// test only passes when chat requests run concurrently instead of
	// queueing behind one another
	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	router := newTestRouter(t, &host.StaticClient{
		Models: testModels,
		Respond: func(model domain.ModelDescriptor, messages []domain.ChatMessage) (string, error) {
			entered <- struct{}{}
			<-release
			return "done", nil
		},
	})

	var wg sync.WaitGroup
	codes := make([]int, 2)
	responses := make([]domain.BridgeResponse, 2)
	for i := range responses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"messages": [{"content": "hi"}]}`))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			codes[i] = w.Code
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &responses[i]))
		}(i)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-entered:
		case <-time.After(2 * time.Second):
			close(release)
			t.Fatal("second invocation never started while the first was in flight")
		}
	}
	close(release)
	wg.Wait()

	for i := range responses {
		assert.Equal(t, http.StatusOK, codes[i])
		assert.True(t, responses[i].Success)
		assert.Equal(t, "done", responses[i].Response)
	}
}

func TestDocsHandler(t *testing.T) {
	router := newTestRouter(t, &host.StaticClient{Models: testModels})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var docs map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	assert.Contains(t, docs, "endpoints")
}

func TestCORSHeaders(t *testing.T) {
	router := newTestRouter(t, &host.StaticClient{Models: testModels})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
