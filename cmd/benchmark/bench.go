package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

// Load-tests the gateway's OpenAI chat route against a local mock that plays
// both the catalog backend and the vendor API, so no real keys are spent.
const (
	mockPort = 9091
	appPort  = 8081
)

var streamChunks = [][]byte{
	[]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Bench\"}}]}\n\n"),
	[]byte("data: {\"choices\":[{\"delta\":{\"content\":\"mark\"}}]}\n\n"),
	[]byte("data: {\"choices\":[{\"delta\":{\"content\":\" done\"}}]}\n\n"),
	[]byte("data: [DONE]\n\n"),
}

var unaryResp = []byte(`{"id":"bench-1","choices":[{"message":{"role":"assistant","content":"Hello"}}]}`)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 50, "Requests per second")
	stream := flag.Bool("stream", false, "Use streaming requests")
	flag.Parse()

	go startMockServer()

	fmt.Println("Building gateway...")
	buildCmd := exec.Command("go", "build", "-o", "bin/server", "./cmd/server")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		log.Fatalf("Failed to build gateway: %v", err)
	}

	fmt.Println("Starting gateway...")
	cmd := exec.Command("./bin/server")
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("SERVER_PORT=%d", appPort),
		fmt.Sprintf("BACKEND_URL=http://localhost:%d", mockPort),
		"STORE_DSN=file:bench.db?cache=shared&mode=rwc",
		"RATE_LIMIT_REQUESTS_PER_SECOND=100000",
		"RATE_LIMIT_BURST=100000",
		"LOG_LEVEL=error",
	)

	logFile, _ := os.Create("bench_server.log")
	defer logFile.Close()
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to start gateway: %v", err)
	}
	defer func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}()

	waitForApp(fmt.Sprintf("http://localhost:%d/health", appPort))

	mode := "Unary"
	if *stream {
		mode = "Streaming"
	}
	fmt.Printf("Running %s benchmark: %s duration, %d req/s\n", mode, *duration, *rate)

	body := `{"messages": [{"role": "user", "content": "Hello"}]}`
	if *stream {
		body = `{"stream": true, "messages": [{"role": "user", "content": "Hello"}]}`
	}

	targeter := func(t *vegeta.Target) error {
		t.Method = "POST"
		t.URL = fmt.Sprintf("http://localhost:%d/v1/openai/chat", appPort)
		t.Body = []byte(body)
		t.Header = http.Header{
			"Content-Type": []string{"application/json"},
		}
		return nil
	}

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics

	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "Benchmark") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Errors (first 5):")
		for i, msg := range metrics.Errors {
			if i >= 5 {
				break
			}
			fmt.Println(msg)
		}
	}

	os.Remove("bench.db")
}

// startMockServer serves the catalog endpoint and the fake vendor API on one
// port. The catalog points the gateway back at this server.
func startMockServer() {
	mux := http.NewServeMux()

	mux.HandleFunc("/ai-providers/complete", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		catalog := map[string]interface{}{
			"data": []map[string]interface{}{
				{
					"id":                "bench-openai",
					"name":              "OpenAI",
					"isActive":          true,
					"supportsStreaming": true,
					"parameters": []map[string]string{
						{"label": "API_KEY", "value": "sk-bench-mock"},
					},
					"models": []map[string]interface{}{
						{
							"modelKey":     "gpt-4o-mini",
							"endpoint":     fmt.Sprintf("http://localhost:%d/v1/chat/completions", mockPort),
							"capabilities": []string{"text"},
							"isDefault":    true,
						},
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(catalog)
	})

	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&req)

		if val, ok := req["stream"].(bool); ok && val {
			w.Header().Set("Content-Type", "text/event-stream")
			flusher, _ := w.(http.Flusher)
			for _, chunk := range streamChunks {
				time.Sleep(20 * time.Millisecond)
				_, _ = w.Write(chunk)
				flusher.Flush()
			}
			return
		}

		time.Sleep(10 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(unaryResp)
	})

	_ = http.ListenAndServe(fmt.Sprintf(":%d", mockPort), mux)
}

func waitForApp(url string) {
	for i := 0; i < 20; i++ {
		resp, err := http.Get(url)
		if err == nil && resp.StatusCode == 200 {
			resp.Body.Close()
			return
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Fatal("Gateway timed out")
}
