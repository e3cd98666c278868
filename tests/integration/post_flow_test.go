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

// TestPostLifecycle drives create → read → update → delete against a running
// server. Requires INTEGRATION_BASE_URL plus the seeded admin credentials in
// INTEGRATION_EMAIL / INTEGRATION_PASSWORD (mutations need a USER-role
// identity; Basic auth is accepted on the API).
func TestPostLifecycle(t *testing.T) {
	baseURL := os.Getenv("INTEGRATION_BASE_URL")
	if baseURL == "" {
		t.Skip("INTEGRATION_BASE_URL not set; skipping integration test")
	}
	email := os.Getenv("INTEGRATION_EMAIL")
	password := os.Getenv("INTEGRATION_PASSWORD")
	if email == "" || password == "" {
		t.Skip("INTEGRATION_EMAIL / INTEGRATION_PASSWORD not set; skipping integration test")
	}

	client := &http.Client{Timeout: 5 * time.Second}
	title := fmt.Sprintf("it-post-%d", time.Now().UnixNano())

	// 1. Create
	var id json.Number
	createBody := map[string]string{"title": title, "content": "integration content", "author": "integration"}
	if err := doJSON(client, http.MethodPost, baseURL+"/api/post", email, password, createBody, http.StatusOK, &id); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// 2. Read back
	var post map[string]any
	if err := doJSON(client, http.MethodGet, fmt.Sprintf("%s/api/post/%s", baseURL, id), "", "", nil, http.StatusOK, &post); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if post["title"] != title {
		t.Fatalf("round trip mismatch: %v", post)
	}

	// 3. Update as the owner
	updateBody := map[string]string{"title": title + "-v2", "content": "updated content"}
	if err := doJSON(client, http.MethodPut, fmt.Sprintf("%s/api/post/%s", baseURL, id), email, password, updateBody, http.StatusOK, nil); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	// 4. Delete
	if err := doJSON(client, http.MethodDelete, fmt.Sprintf("%s/api/post/%s", baseURL, id), email, password, nil, http.StatusOK, nil); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// 5. Gone
	if err := doJSON(client, http.MethodGet, fmt.Sprintf("%s/api/post/%s", baseURL, id), "", "", nil, http.StatusNotFound, nil); err != nil {
		t.Fatalf("get after delete: %v", err)
	}
}

func doJSON(client *http.Client, method, url, email, password string, body any, expectedStatus int, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		req.SetBasicAuth(email, password)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != expectedStatus {
		return fmt.Errorf("unexpected status %d (want %d)", resp.StatusCode, expectedStatus)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
