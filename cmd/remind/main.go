// Command remind triggers a reminder sweep on a running eventplanner server.
// It is meant to be invoked once a minute by cron or a similar scheduler:
//
//	* * * * * remind -url http://localhost:8080
//
// With -all it dispatches for every stored event regardless of start date.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "base URL of the eventplanner server")
		all     = flag.Bool("all", false, "dispatch for every event instead of the current minute")
		timeout = flag.Duration("timeout", 30*time.Second, "request timeout")
	)
	flag.Parse()

	// Best effort; the job token may come from the real environment instead.
	_ = godotenv.Load()
	jobToken := os.Getenv("JOB_TOKEN")

	path := "/jobs/remind"
	if *all {
		path = "/jobs/remind-all"
	}

	req, err := http.NewRequest(http.MethodPost, *baseURL+path, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build request: %v\n", err)
		os.Exit(1)
	}
	if jobToken != "" {
		req.Header.Set("X-Job-Token", jobToken)
	}

	client := &http.Client{Timeout: *timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var body struct {
		Data *struct {
			Events    int `json:"events"`
			Delivered int `json:"delivered"`
			Skipped   int `json:"skipped"`
			Failed    int `json:"failed"`
		} `json:"data"`
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fmt.Fprintf(os.Stderr, "unexpected response (status %d): %v\n", resp.StatusCode, err)
		os.Exit(1)
	}

	if resp.StatusCode != http.StatusOK || body.Error != nil {
		msg := "unknown error"
		if body.Error != nil {
			msg = body.Error.Message
		}
		fmt.Fprintf(os.Stderr, "sweep failed (status %d): %s\n", resp.StatusCode, msg)
		os.Exit(1)
	}

	r := body.Data
	fmt.Printf("events=%d delivered=%d skipped=%d failed=%d\n", r.Events, r.Delivered, r.Skipped, r.Failed)
}
