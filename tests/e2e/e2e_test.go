// e2e_test.go
//
// A data service and client toolkit for construction element and regulation management
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of elementdb.
// elementdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// elementdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with elementdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/localnerve/elementdb/internal/config"
	"github.com/localnerve/elementdb/internal/database"
	"github.com/localnerve/elementdb/internal/services"
	"github.com/localnerve/elementdb/tests/helpers"
)

// TestE2EWithFullStack tests the entire service stack
func TestE2EWithFullStack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	ctx := context.Background()

	tc, err := helpers.CreateAllTestContainers(t)
	if err != nil {
		t.Fatalf("Failed to start test containers: %v", err)
	}
	defer tc.Terminate(t)

	elementdbHost, _ := tc.ElementDBContainer.Host(ctx)
	elementdbPort, _ := tc.ElementDBContainer.MappedPort(ctx, "3000")
	baseURL := fmt.Sprintf("http://%s:%s", elementdbHost, elementdbPort.Port())

	// Wait a bit for everything to stabilize
	time.Sleep(5 * time.Second)

	// Run E2E tests
	t.Run("HealthCheck", func(t *testing.T) {
		testHealthCheck(t, tc)
	})

	t.Run("HealthEndpoint", func(t *testing.T) {
		testHealthEndpoint(t, baseURL)
	})

	t.Run("PrometheusMetrics", func(t *testing.T) {
		testPrometheusMetrics(t, baseURL)
	})

	t.Run("SwaggerUI", func(t *testing.T) {
		testSwaggerUI(t, baseURL)
	})

	t.Run("ElementAPIRoundTrip", func(t *testing.T) {
		testElementAPIRoundTrip(t, baseURL)
	})

	t.Run("NotFoundIsJSON", func(t *testing.T) {
		testNotFoundIsJSON(t, baseURL)
	})
}

func testHealthCheck(t *testing.T, tc *helpers.TestContainers) {
	ctx := context.Background()

	// 1. Prepare configuration for the health check
	// We need to point to the mapped ports on localhost, not internal container names
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Update DB host and port to mapped values
	dbHost, _ := tc.DBContainer.Host(ctx)
	dbPort, _ := tc.DBContainer.MappedPort(ctx, "3306")
	cfg.DBHost = dbHost
	cfg.DBPort = dbPort.Port()

	// Point the API ping at the mapped service port
	apiHost, _ := tc.ElementDBContainer.Host(ctx)
	apiPort, _ := tc.ElementDBContainer.MappedPort(ctx, "3000")
	cfg.APIURL = fmt.Sprintf("http://%s:%s", apiHost, apiPort.Port())

	// 2. Establish GORM connection to the test database
	gormDB, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	defer database.Close(gormDB)

	// 3. Perform the health check
	result := services.HealthCheck(cfg, gormDB, nil)

	// 4. Verify the result
	if result.Status != "healthy" {
		t.Errorf("Health check failed: %+v", result)
	}
	if result.API != "ok" {
		t.Errorf("Expected API to be reachable, got: %+v", result)
	}

	t.Logf("Health check passed: status=%s, database=%s, api=%s", result.Status, result.Database, result.API)
}

func testHealthEndpoint(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		t.Fatalf("Failed to get health endpoint: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for health, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Health response is not valid JSON: %v", err)
	}
	if result["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", result["status"])
	}
}

func testPrometheusMetrics(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/metrics")
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for metrics, got %d. Body: %s", resp.StatusCode, bodyStr)
	}

	t.Logf("Metrics endpoint working, found %d bytes of metrics", len(bodyStr))
}

func testSwaggerUI(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/swagger/index.html")
	if err != nil {
		t.Fatalf("Failed to get Swagger UI: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for Swagger UI, got %d", resp.StatusCode)
	}
}

// testElementAPIRoundTrip creates an element over HTTP and reads it back
func testElementAPIRoundTrip(t *testing.T, baseURL string) {
	payload := map[string]interface{}{
		"name":    "Trennwand E2E",
		"type":    "wall",
		"user_id": "e2e-user",
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(baseURL+"/api/elements", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to create element: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 201, got %d. Body: %s", resp.StatusCode, string(raw))
	}

	var created map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Create response is not valid JSON: %v", err)
	}

	element, ok := created["element"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected element object in response, got: %v", created)
	}
	id, _ := element["id"].(string)
	if id == "" {
		t.Fatal("Expected created element to have an id")
	}

	getResp, err := http.Get(baseURL + "/api/elements/" + id)
	if err != nil {
		t.Fatalf("Failed to get element: %v", err)
	}
	defer getResp.Body.Close()

	if getResp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for created element, got %d", getResp.StatusCode)
	}
}

func testNotFoundIsJSON(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/api/elements/00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("Failed to access API: %v", err)
	}
	defer resp.Body.Close()

	// Should return 404 with proper JSON
	if resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		t.Logf("Response body: %s", string(body))
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Errorf("Response is not valid JSON: %v", err)
	}
	if _, ok := result["detail"]; !ok {
		t.Errorf("Expected detail in error response, got: %v", result)
	}
}
