package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/localnerve/elementdb/pkg/client"
)

// newTestAPI serves canned API responses and returns a client pointed at it.
func newTestAPI(t *testing.T, handler http.Handler) *client.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api, err := client.New(client.Options{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("client.New failed: %v", err)
	}
	return api
}

// clientRegulation builds a minimal regulation candidate for selection tests.
func clientRegulation(id int64) client.Regulation {
	return client.Regulation{ID: id, EntityType: "Folgeposition"}
}
