package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

var (
	serviceURL       = getEnv("ACCOUNT_SERVICE_URL", "http://localhost:3000")
	testUserEmail    = fmt.Sprintf("test-%d@example.com", time.Now().UnixNano())
	testUserPassword = "testPassword123"
	accountID        string
	authToken        string
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		fmt.Println("Skipping integration tests. Set INTEGRATION_TEST=true to run.")
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func do(t *testing.T, method, path, token string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
	}

	req, err := http.NewRequest(method, serviceURL+path, &body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	result := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return resp, result
}

func TestHealthCheck(t *testing.T) {
	resp, err := http.Get(serviceURL + "/health")
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestUserRegistration(t *testing.T) {
	resp, result := do(t, http.MethodPost, "/api/users/create", "", map[string]string{
		"name":     "Test User",
		"email":    testUserEmail,
		"password": testUserPassword,
	})

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.StatusCode)
	}
	if result["email"] != testUserEmail {
		t.Errorf("expected email %q, got %v", testUserEmail, result["email"])
	}
	if _, ok := result["password"]; ok {
		t.Error("response must not contain the password")
	}

	accountID, _ = result["id"].(string)
	if accountID == "" {
		t.Error("expected id in response")
	}
}

func TestDuplicateRegistration(t *testing.T) {
	resp, _ := do(t, http.MethodPost, "/api/users/create", "", map[string]string{
		"name":     "Someone Else",
		"email":    testUserEmail,
		"password": "another",
	})

	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected status 409, got %d", resp.StatusCode)
	}
}

func TestUserLogin(t *testing.T) {
	resp, result := do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    testUserEmail,
		"password": testUserPassword,
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	authToken, _ = result["token"].(string)
	if authToken == "" {
		t.Error("expected auth token in response")
	}
	if result["id"] != accountID {
		t.Errorf("expected id %q, got %v", accountID, result["id"])
	}
}

func TestWrongPassword(t *testing.T) {
	resp, _ := do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    testUserEmail,
		"password": "wrong",
	})

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", resp.StatusCode)
	}
}

func TestUnauthorizedAccess(t *testing.T) {
	if accountID == "" {
		t.Skip("no account available")
	}

	resp, _ := do(t, http.MethodGet, "/api/users/"+accountID, "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", resp.StatusCode)
	}
}

func TestGetProfile(t *testing.T) {
	if authToken == "" {
		t.Skip("no auth token available")
	}

	resp, result := do(t, http.MethodGet, "/api/users/"+accountID, authToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if result["name"] != "Test User" {
		t.Errorf("expected name 'Test User', got %v", result["name"])
	}
}

func TestUpdateName(t *testing.T) {
	if authToken == "" {
		t.Skip("no auth token available")
	}

	resp, result := do(t, http.MethodPatch, "/api/users/"+accountID, authToken, map[string]string{"name": "Renamed"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if result["name"] != "Renamed" || result["email"] != testUserEmail {
		t.Errorf("unexpected profile after update: %v", result)
	}
}

func TestEmptyUpdate(t *testing.T) {
	if authToken == "" {
		t.Skip("no auth token available")
	}

	resp, _ := do(t, http.MethodPatch, "/api/users/"+accountID, authToken, map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestDeleteTwice(t *testing.T) {
	if authToken == "" {
		t.Skip("no auth token available")
	}

	resp, _ := do(t, http.MethodDelete, "/api/users/"+accountID, authToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	resp, _ = do(t, http.MethodDelete, "/api/users/"+accountID, authToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404 on second delete, got %d", resp.StatusCode)
	}
}

func TestUnknownRoute(t *testing.T) {
	resp, result := do(t, http.MethodGet, "/api/nothing-here", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp.StatusCode)
	}
	if result["message"] != "invalid url" {
		t.Errorf("expected 'invalid url', got %v", result["message"])
	}
}
