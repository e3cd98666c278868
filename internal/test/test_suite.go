// Command-line stress test that simulates concurrent post create / update /
// delete flows against the API and produces CSV + HTML reports.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

var (
	baseURL  = envOr("STRESS_BASE_URL", "http://127.0.0.1:8080")
	email    = os.Getenv("STRESS_EMAIL")
	password = os.Getenv("STRESS_PASSWORD")
)

var client = &http.Client{Timeout: 10 * time.Second}

// flowResult captures one worker's create→update→delete pass.
type flowResult struct {
	Worker     int
	PostID     uint64
	Stage      string // stage that finished last ("deleted" on success)
	StatusCode int
	ErrMessage string
	Elapsed    time.Duration
	Timestamp  time.Time
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ======================= HTTP helpers =======================

func doJSON(method, url string, body any) (int, []byte, error) {
	var buf []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		buf = b
	}
	req, _ := http.NewRequest(method, url, bytes.NewBuffer(buf))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		req.SetBasicAuth(email, password)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data, nil
}

func createPost(title string) (uint64, int, error) {
	body := map[string]string{"title": title, "content": "stress content", "author": "stress"}
	status, data, err := doJSON("POST", baseURL+"/api/post", body)
	if err != nil || status != 200 {
		return 0, status, fmt.Errorf("create status=%d err=%v body=%s", status, err, string(data))
	}
	var id uint64
	if err := json.Unmarshal(data, &id); err != nil {
		return 0, status, err
	}
	return id, status, nil
}

func updatePost(id uint64, title string) (int, error) {
	body := map[string]string{"title": title, "content": "updated content"}
	status, data, err := doJSON("PUT", fmt.Sprintf("%s/api/post/%d", baseURL, id), body)
	if err != nil || status != 200 {
		return status, fmt.Errorf("update status=%d err=%v body=%s", status, err, string(data))
	}
	return status, nil
}

func deletePost(id uint64) (int, error) {
	status, data, err := doJSON("DELETE", fmt.Sprintf("%s/api/post/%d", baseURL, id), nil)
	if err != nil || status != 200 {
		return status, fmt.Errorf("delete status=%d err=%v body=%s", status, err, string(data))
	}
	return status, nil
}

func getPostStatus(id uint64) int {
	status, _, err := doJSON("GET", fmt.Sprintf("%s/api/post/%d", baseURL, id), nil)
	if err != nil {
		return 0
	}
	return status
}

// ======================= smoke tests =======================

// endpointSmokeTests exercises the CRUD endpoints with positive and negative
// cases before the concurrent run starts.
func endpointSmokeTests() error {
	title := fmt.Sprintf("smoke-%d", time.Now().UnixNano())

	id, _, err := createPost(title)
	if err != nil {
		return fmt.Errorf("create (valid) failed: %w", err)
	}

	// Blank title should be rejected.
	if status, _, _ := doJSON("POST", baseURL+"/api/post",
		map[string]string{"title": "   ", "content": "c"}); status != http.StatusBadRequest {
		return fmt.Errorf("create (blank title) expected 400, got %d", status)
	}

	// Unknown id should 404.
	if status := getPostStatus(99999999); status != http.StatusNotFound {
		return fmt.Errorf("get (unknown id) expected 404, got %d", status)
	}

	if _, err := updatePost(id, title+"-v2"); err != nil {
		return fmt.Errorf("update (valid) failed: %w", err)
	}
	if _, err := deletePost(id); err != nil {
		return fmt.Errorf("delete (valid) failed: %w", err)
	}
	if status := getPostStatus(id); status != http.StatusNotFound {
		return fmt.Errorf("get (after delete) expected 404, got %d", status)
	}

	log.Println("endpoint smoke tests passed: create/update/delete basic scenarios verified")
	return nil
}

// ======================= concurrent run + report =======================

func runFlow(worker int) flowResult {
	start := time.Now()
	title := fmt.Sprintf("stress-%d-%d", worker, time.Now().UnixNano())

	id, status, err := createPost(title)
	if err != nil {
		return flowResult{Worker: worker, Stage: "create", StatusCode: status, ErrMessage: err.Error(), Elapsed: time.Since(start), Timestamp: time.Now()}
	}
	if status, err = updatePost(id, title+"-v2"); err != nil {
		return flowResult{Worker: worker, PostID: id, Stage: "update", StatusCode: status, ErrMessage: err.Error(), Elapsed: time.Since(start), Timestamp: time.Now()}
	}
	if status, err = deletePost(id); err != nil {
		return flowResult{Worker: worker, PostID: id, Stage: "delete", StatusCode: status, ErrMessage: err.Error(), Elapsed: time.Since(start), Timestamp: time.Now()}
	}
	return flowResult{Worker: worker, PostID: id, Stage: "deleted", StatusCode: 200, Elapsed: time.Since(start), Timestamp: time.Now()}
}

func concurrentFlowTest(flows, maxConcurrent int, outCSV, outHTML string) error {
	jobs := make(chan int, flows)
	results := make(chan flowResult, flows)

	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for n := range jobs {
			results <- runFlow(n)
		}
	}

	if maxConcurrent < 1 {
		maxConcurrent = 10
	}
	wg.Add(maxConcurrent)
	for i := 0; i < maxConcurrent; i++ {
		go worker()
	}
	for i := 0; i < flows; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(results)

	csvFile, err := os.Create(outCSV)
	if err != nil {
		return err
	}
	defer csvFile.Close()
	csvWriter := csv.NewWriter(csvFile)
	defer csvWriter.Flush()
	_ = csvWriter.Write([]string{"Worker", "PostID", "Stage", "StatusCode", "ErrMessage", "Elapsed", "Timestamp"})

	var allResults []flowResult
	failures := 0
	for r := range results {
		if r.Stage != "deleted" {
			failures++
		}
		_ = csvWriter.Write([]string{
			fmt.Sprintf("%d", r.Worker),
			fmt.Sprintf("%d", r.PostID),
			r.Stage,
			fmt.Sprintf("%d", r.StatusCode),
			r.ErrMessage,
			r.Elapsed.String(),
			r.Timestamp.Format(time.RFC3339),
		})
		allResults = append(allResults, r)
	}
	csvWriter.Flush()

	if err := writeHTMLReport(outHTML, allResults); err != nil {
		log.Printf("write HTML report error: %v", err)
	}

	log.Printf("concurrent flows finished: total=%d failures=%d", len(allResults), failures)
	if failures > 0 {
		return fmt.Errorf("%d of %d flows failed", failures, len(allResults))
	}
	return nil
}

// writeHTMLReport renders a basic table so failures are easy to eyeball.
func writeHTMLReport(path string, results []flowResult) error {
	const tpl = `
<!doctype html>
<html>
<head><meta charset="utf-8"><title>Post Flow Test Report</title>
<style>
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 8px; text-align:left }
th { background: #f4f4f4; }
</style>
</head>
<body>
<h2>Post Flow Test Report ({{ .GeneratedAt }})</h2>
<table>
<thead><tr><th>Worker</th><th>PostID</th><th>Stage</th><th>StatusCode</th><th>Error</th><th>Elapsed</th><th>Timestamp</th></tr></thead>
<tbody>
{{ range .Rows }}
<tr>
<td>{{ .Worker }}</td>
<td>{{ .PostID }}</td>
<td>{{ .Stage }}</td>
<td>{{ .StatusCode }}</td>
<td>{{ .ErrMessage }}</td>
<td>{{ .Elapsed }}</td>
<td>{{ .Timestamp }}</td>
</tr>
{{ end }}
</tbody>
</table>
</body>
</html>`

	data := struct {
		GeneratedAt string
		Rows        []flowResult
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Rows:        results,
	}

	t, err := template.New("report").Parse(tpl)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Execute(f, data)
}

// ======================= main =======================

func main() {
	if email == "" || password == "" {
		log.Fatal("STRESS_EMAIL and STRESS_PASSWORD must be set (mutations require a USER-role account)")
	}

	flows := 50
	maxConcurrent := 5
	outCSV := "post_flow_report.csv"
	outHTML := "post_flow_report.html"

	if err := endpointSmokeTests(); err != nil {
		log.Fatalf("endpoint smoke tests failed: %v", err)
	}

	start := time.Now()
	if err := concurrentFlowTest(flows, maxConcurrent, outCSV, outHTML); err != nil {
		log.Fatalf("concurrent test failed: %v", err)
	}
	log.Printf("concurrent test finished in %s, CSV=%s HTML=%s\n", time.Since(start).String(), outCSV, outHTML)
	fmt.Println("All post flow tests completed successfully!")
}
