// Command smoke exercises a running server end to end: login, whoami and,
// when PACKAGE_ID is set, a booking for that package.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	// Either a Firebase ID token or a Google access token (ya29.)
	assertion := os.Getenv("FIREBASE_ID_TOKEN")
	if assertion == "" {
		assertion = os.Getenv("GOOGLE_ACCESS_TOKEN")
	}
	if assertion == "" {
		fmt.Println("Please set FIREBASE_ID_TOKEN or GOOGLE_ACCESS_TOKEN")
		fmt.Println("You can get one from the browser DevTools when logged in to the frontend")
		os.Exit(1)
	}

	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/api/v1"
	}

	client := &http.Client{Timeout: 15 * time.Second}

	var login struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	status, err := call(client, http.MethodPost, baseURL+"/auth/firebase-login", "",
		map[string]string{"idToken": assertion}, &login)
	if err != nil || status != http.StatusOK {
		fmt.Printf("\n❌ Login failed (status %d): %v\n", status, err)
		os.Exit(1)
	}
	fmt.Printf("✅ Logged in, session expires at %s\n", login.ExpiresAt.Format(time.RFC3339))

	var me map[string]interface{}
	if status, err = call(client, http.MethodGet, baseURL+"/auth/me", login.Token, nil, &me); err != nil || status != http.StatusOK {
		fmt.Printf("\n❌ /auth/me failed (status %d): %v\n", status, err)
		os.Exit(1)
	}
	fmt.Printf("✅ Authenticated as %v\n", me["email"])

	packageID := os.Getenv("PACKAGE_ID")
	if packageID == "" {
		return
	}

	booking := map[string]string{
		"packageId":        packageID,
		"selectedTourDate": time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
		"notes":            "smoke test",
	}
	var created map[string]interface{}
	status, err = call(client, http.MethodPost, baseURL+"/bookings", login.Token, booking, &created)
	switch {
	case err != nil:
		fmt.Printf("\n❌ Booking request failed: %v\n", err)
		os.Exit(1)
	case status == http.StatusCreated:
		fmt.Printf("✅ Booking created: %v\n", created["insertedId"])
	case status == http.StatusConflict:
		fmt.Println("✅ Package already booked by this account")
	default:
		fmt.Printf("\n❌ Booking rejected (status %d): %v\n", status, created["error"])
		os.Exit(1)
	}
}

// call sends body as JSON and decodes the response into out
func call(client *http.Client, method, url, token string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding %q: %w", string(data), err)
	}
	return resp.StatusCode, nil
}
