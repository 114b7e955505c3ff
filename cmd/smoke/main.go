// Command smoke exercises a running API: it times catalog reads twice to show the
// cache at work, then races concurrent reservations for one seat and checks that
// exactly one wins.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

type EndpointResult struct {
	Endpoint     string        `json:"endpoint"`
	CacheStatus  string        `json:"cache_status"`
	ResponseTime time.Duration `json:"response_time"`
	DataSize     int           `json:"data_size"`
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
}

type SmokeSuite struct {
	BaseURL string
	Token   string
	Client  *http.Client
	Results []EndpointResult
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080/api/v1", "API base URL")
	email := flag.String("email", "alice@theatre.local", "login email")
	password := flag.String("password", "qwerty", "login password")
	racers := flag.Int("racers", 20, "concurrent reservations for the same seat")
	flag.Parse()

	suite := &SmokeSuite{
		BaseURL: *baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}

	fmt.Println("🧪 Starting theatre smoke test...")

	if err := suite.login(*email, *password); err != nil {
		log.Fatalf("❌ Login failed: %v", err)
	}
	fmt.Println("✅ Logged in")

	for _, endpoint := range []string{"/genres", "/actors", "/theatre-halls", "/plays", "/performances"} {
		fmt.Printf("\n🔍 Testing: %s\n", endpoint)

		first := suite.testEndpoint(endpoint, "MISS")
		time.Sleep(100 * time.Millisecond)
		second := suite.testEndpoint(endpoint, "HIT")
		suite.Results = append(suite.Results, first, second)

		if first.Success && second.Success && first.ResponseTime > 0 {
			improvement := float64(first.ResponseTime-second.ResponseTime) / float64(first.ResponseTime) * 100
			fmt.Printf("   📈 Improvement: %.1f%% (%v -> %v)\n", improvement, first.ResponseTime, second.ResponseTime)
		}
	}

	if err := suite.raceForSeat(*racers); err != nil {
		log.Printf("❌ Contention check failed: %v", err)
		suite.printSummary()
		os.Exit(1)
	}

	suite.printSummary()
	fmt.Println("\n🎉 Smoke test complete!")
}

func (s *SmokeSuite) do(method, endpoint string, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, s.BaseURL+endpoint, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, err
}

func (s *SmokeSuite) login(email, password string) error {
	status, body, err := s.do(http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", status, body)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return err
	}
	var auth struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &auth); err != nil {
		return err
	}
	s.Token = auth.AccessToken
	return nil
}

func (s *SmokeSuite) testEndpoint(endpoint, expected string) EndpointResult {
	start := time.Now()
	status, body, err := s.do(http.MethodGet, endpoint, nil)
	elapsed := time.Since(start)

	result := EndpointResult{Endpoint: endpoint, ResponseTime: elapsed, DataSize: len(body)}
	if err != nil {
		result.CacheStatus = "ERROR"
		result.Error = err.Error()
		fmt.Printf("   ❌ %v\n", err)
		return result
	}

	// Cache hits should be significantly faster
	result.CacheStatus = "MISS"
	if expected == "HIT" && elapsed < 50*time.Millisecond {
		result.CacheStatus = "HIT"
	}
	result.Success = status >= 200 && status < 400
	if !result.Success {
		result.Error = fmt.Sprintf("HTTP %d", status)
	}

	icon := "✅"
	if !result.Success {
		icon = "❌"
	}
	fmt.Printf("   %s [%s] %v (%d bytes)\n", icon, result.CacheStatus, elapsed, len(body))
	return result
}

// raceForSeat picks the first listed performance and reserves seat (1,1) from
// many goroutines at once
func (s *SmokeSuite) raceForSeat(racers int) error {
	fmt.Printf("\n🏁 Racing %d reservations for one seat...\n", racers)

	status, body, err := s.do(http.MethodGet, "/performances", nil)
	if err != nil || status != http.StatusOK {
		return fmt.Errorf("listing performances: status %d: %v", status, err)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return err
	}
	var list []struct {
		ID                  string `json:"id"`
		TheatreHallCapacity int    `json:"theatre_hall_capacity"`
		TicketsAvailable    int    `json:"tickets_available"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		return err
	}
	if len(list) == 0 {
		return fmt.Errorf("no performances to reserve")
	}
	perf := list[0]

	// Confirm the performance resolves before racing
	status, body, err = s.do(http.MethodGet, "/performances/"+perf.ID+"/availability", nil)
	if err != nil || status != http.StatusOK {
		return fmt.Errorf("availability: status %d: %v", status, err)
	}
	fmt.Printf("   🎟️  %s: %d of %d seats free\n", perf.ID, perf.TicketsAvailable, perf.TheatreHallCapacity)

	request := map[string]interface{}{
		"tickets": []map[string]interface{}{{"row": 1, "seat": 1, "performance": perf.ID}},
	}

	var created, conflicts, other atomic.Int32
	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < racers; i++ {
		g.Go(func() error {
			status, _, err := s.do(http.MethodPost, "/reservations", request)
			if err != nil {
				return err
			}
			switch status {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicts.Add(1)
			default:
				other.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("   created=%d conflicts=%d other=%d\n", created.Load(), conflicts.Load(), other.Load())
	if created.Load() > 1 {
		return fmt.Errorf("seat sold %d times", created.Load())
	}
	if created.Load() == 0 && conflicts.Load() == 0 {
		return fmt.Errorf("no reservation attempt succeeded or conflicted")
	}
	return nil
}

func (s *SmokeSuite) printSummary() {
	fmt.Println("\n📊 Summary")
	var ok int
	for _, r := range s.Results {
		if r.Success {
			ok++
		}
	}
	fmt.Printf("   %d/%d catalog requests succeeded\n", ok, len(s.Results))
}
