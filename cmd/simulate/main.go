package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// simulate fires concurrent booking requests at one time window and reports
// how many were admitted versus rejected. Run it against a slot with a small
// capacity to observe the admission invariant under contention: admitted
// must never exceed the slot's max_appointments.

type bookingPayload struct {
	PatientName     string `json:"patientName"`
	PatientEmail    string `json:"patientEmail"`
	PatientPhone    string `json:"patientPhone"`
	AppointmentDate string `json:"appointmentDate"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	Reason          string `json:"reason"`
}

type results struct {
	admitted  int64
	rejected  int64
	contended int64
	errored   int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (r *results) record(latency time.Duration, status int) {
	switch {
	case status == http.StatusCreated:
		atomic.AddInt64(&r.admitted, 1)
	case status == http.StatusBadRequest:
		atomic.AddInt64(&r.rejected, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&r.contended, 1)
	default:
		atomic.AddInt64(&r.errored, 1)
	}

	r.mu.Lock()
	r.latencies = append(r.latencies, latency)
	r.mu.Unlock()
}

func (r *results) percentiles() (p50, p95, max time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.latencies) == 0 {
		return 0, 0, 0
	}

	sorted := make([]time.Duration, len(r.latencies))
	copy(sorted, r.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := func(p int) int {
		i := len(sorted) * p / 100
		if i >= len(sorted) {
			i = len(sorted) - 1
		}
		return i
	}

	return sorted[idx(50)], sorted[idx(95)], sorted[len(sorted)-1]
}

func main() {
	baseURL := flag.String("url", "http://127.0.0.1:8080", "API base URL")
	startTime := flag.String("start", "09:00", "slot start time to contend for")
	endTime := flag.String("end", "10:00", "slot end time")
	date := flag.String("date", time.Now().AddDate(0, 0, 7).Format("2006-01-02"), "appointment date")
	workers := flag.Int("workers", 50, "concurrent booking requests")
	flag.Parse()

	log.SetFlags(log.LstdFlags)
	log.Printf("simulating %d concurrent bookings for %s-%s on %s", *workers, *startTime, *endTime, *date)

	gofakeit.Seed(time.Now().UnixNano())

	client := &http.Client{Timeout: 10 * time.Second}
	var res results

	// Pre-build payloads so marshalling cost stays out of the timed section.
	payloads := make([][]byte, *workers)
	for i := range payloads {
		body, err := json.Marshal(bookingPayload{
			PatientName:     gofakeit.Name(),
			PatientEmail:    gofakeit.Email(),
			PatientPhone:    gofakeit.Phone(),
			AppointmentDate: *date,
			StartTime:       *startTime,
			EndTime:         *endTime,
			Reason:          "Routine checkup",
		})
		if err != nil {
			log.Fatalf("marshal payload: %v", err)
		}
		payloads[i] = body
	}

	start := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func(body []byte) {
			defer wg.Done()
			<-start

			began := time.Now()
			resp, err := client.Post(*baseURL+"/api/appointments", "application/json", bytes.NewReader(body))
			took := time.Since(began)
			if err != nil {
				res.record(took, 0)
				return
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()

			res.record(took, resp.StatusCode)
		}(payloads[i])
	}

	close(start)
	wg.Wait()

	p50, p95, max := res.percentiles()

	fmt.Println("--- simulation results ---")
	fmt.Printf("admitted:  %d\n", res.admitted)
	fmt.Printf("rejected:  %d (slot unavailable)\n", res.rejected)
	fmt.Printf("contended: %d (lock busy, retryable)\n", res.contended)
	fmt.Printf("errors:    %d\n", res.errored)
	fmt.Printf("latency:   p50=%s p95=%s max=%s\n", p50, p95, max)
}
