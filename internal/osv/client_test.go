package osv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depscan/internal/models"
)

func TestQueryPinnedDependency(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"vulns":[{"id":"GHSA-x","summary":"bad"}]}`))
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	client.URL = server.URL

	dep := models.Pinned("requests", "2.28.0").WithEcosystem(models.EcosystemPyPI)
	vulns, err := client.Query(context.Background(), dep)
	require.NoError(t, err)
	require.Len(t, vulns, 1)
	assert.Equal(t, "GHSA-x", vulns[0].ID)

	pkg := gotBody["package"].(map[string]interface{})
	assert.Equal(t, "requests", pkg["name"])
	assert.Equal(t, "PyPI", pkg["ecosystem"])
	assert.Equal(t, "2.28.0", gotBody["version"])
}

func TestQueryUnpinnedOmitsVersion(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"vulns":[]}`))
	}))
	defer server.Close()

	client := NewClient(0)
	client.URL = server.URL

	dep := models.Unpinned("flask").WithEcosystem(models.EcosystemPyPI)
	vulns, err := client.Query(context.Background(), dep)
	require.NoError(t, err)
	assert.Empty(t, vulns)
	_, hasVersion := gotBody["version"]
	assert.False(t, hasVersion)
}

func TestQueryNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(time.Second)
	client.URL = server.URL

	_, err := client.Query(context.Background(), models.Pinned("x", "1.0"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestQueryContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(time.Minute)
	client.URL = server.URL

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Query(ctx, models.Pinned("x", "1.0"))
	require.Error(t, err)
}
