package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const defaultAPIBase = "http://localhost:8080"

var (
	apiBase      string
	client       = &http.Client{Timeout: 30 * time.Second}
	trainerToken string
	clientToken  string
	clientID     string
	inviteCode   string
	testDate     string
)

func main() {
	fmt.Println("=== Coach Hub E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	testDate = time.Now().UTC().Format("2006-01-02")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Test date: %s\n", testDate)
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Register Trainer", testRegisterTrainer},
		{"Create Invite", testCreateInvite},
		{"Register Client", testRegisterClient},
		{"Put Goal", testPutGoal},
		{"Sync Diary Day", testSyncDiary},
		{"Sync Measurement", testSyncMeasurement},
		{"Sync Survey", testSyncSurvey},
		{"Dashboard Summaries", testDashboard},
		{"Weekly Report (CSV)", testWeeklyReport},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	resp, err := client.Get(apiBase + "/healthz")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func testRegisterTrainer() error {
	// Unique email per run so the smoke test can be repeated.
	email := fmt.Sprintf("smoke-coach-%d@example.com", time.Now().UnixNano())
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := postJSON("/v1/auth/register/trainer", "", map[string]string{
		"email": email, "password": "smoke-password", "name": "Smoke Coach",
	}, &out); err != nil {
		return err
	}
	if out.AccessToken == "" {
		return fmt.Errorf("no access token returned")
	}
	trainerToken = out.AccessToken
	return nil
}

func testCreateInvite() error {
	var out struct {
		Code string `json:"code"`
	}
	if err := postJSON("/v1/invites", trainerToken, nil, &out); err != nil {
		return err
	}
	if len(out.Code) != 6 {
		return fmt.Errorf("unexpected invite code %q", out.Code)
	}
	inviteCode = out.Code
	return nil
}

func testRegisterClient() error {
	email := fmt.Sprintf("smoke-client-%d@example.com", time.Now().UnixNano())
	var out struct {
		AccessToken string `json:"access_token"`
		ProfileID   string `json:"profile_id"`
	}
	if err := postJSON("/v1/auth/register/client", "", map[string]string{
		"email": email, "password": "smoke-password", "name": "Smoke Client",
		"invite_code": inviteCode,
	}, &out); err != nil {
		return err
	}
	clientToken = out.AccessToken
	clientID = out.ProfileID
	return nil
}

func testPutGoal() error {
	return putJSON("/v1/goals", trainerToken, map[string]any{
		"client_id":  clientID,
		"start_date": testDate,
		"protein_g":  150,
		"fat_g":      60,
		"carbs_g":    200,
	}, nil)
}

func testSyncDiary() error {
	var out struct {
		Created bool `json:"created"`
	}
	return postJSON("/v1/diary/sync", clientToken, map[string]any{
		"date": testDate,
		"meals": []map[string]any{
			{"name": "Breakfast", "protein_g": 50, "fat_g": 20, "carbs_g": 70},
			{"name": "Dinner", "protein_g": 100, "fat_g": 40, "carbs_g": 130},
		},
	}, &out)
}

func testSyncMeasurement() error {
	return postJSON("/v1/measurements/sync", clientToken, map[string]any{
		"date":     testDate,
		"chest_cm": 101.5,
		"waist_cm": 82.0,
	}, nil)
}

func testSyncSurvey() error {
	return postJSON("/v1/surveys/sync", clientToken, map[string]any{
		"date":       testDate,
		"motivation": "high",
		"stress":     "low",
		"hunger":     "medium",
		"libido":     "medium",
		"sleep":      "6-8",
		"water":      "1.5-2.5",
	}, nil)
}

func testDashboard() error {
	var out struct {
		Clients []struct {
			ComplianceScore float64 `json:"compliance_score"`
		} `json:"clients"`
	}
	if err := getJSON("/v1/dashboard/clients", trainerToken, &out); err != nil {
		return err
	}
	if len(out.Clients) == 0 {
		return fmt.Errorf("no clients on the dashboard")
	}
	if out.Clients[0].ComplianceScore <= 0 {
		return fmt.Errorf("expected a positive compliance score, got %v", out.Clients[0].ComplianceScore)
	}
	return nil
}

func testWeeklyReport() error {
	path := fmt.Sprintf("/v1/reports/weekly?client_id=%s&week=%s&format=csv", clientID, testDate)
	req, err := http.NewRequest(http.MethodGet, apiBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+trainerToken)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(body, []byte("date,")) {
		return fmt.Errorf("unexpected CSV output: %.60s", body)
	}
	return nil
}

// ---- HTTP helpers ----

func postJSON(path, token string, body, out any) error {
	return doJSON(http.MethodPost, path, token, body, out)
}

func putJSON(path, token string, body, out any) error {
	return doJSON(http.MethodPut, path, token, body, out)
}

func getJSON(path, token string, out any) error {
	return doJSON(http.MethodGet, path, token, nil, out)
}

func doJSON(method, path, token string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, apiBase+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
