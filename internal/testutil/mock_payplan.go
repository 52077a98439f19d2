// Package testutil provides testing utilities for the pay plan pipeline.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
)

// MockPayPlan is a configurable mock of the pay plan DataTables endpoint.
// It serves a fixed row set honoring the start/length paging parameters
// and supports error injection for transport failure tests.
type MockPayPlan struct {
	server *httptest.Server

	mu            sync.RWMutex
	rows          [][]string
	totalOverride *int
	omitTotal     bool
	failStatus    int
	failAfter     int

	requestCount int
	lastQuery    url.Values
}

// NewMockPayPlan creates a mock server backed by the given rows. Each row
// is a positional record in upstream column order.
func NewMockPayPlan(rows [][]string) *MockPayPlan {
	mock := &MockPayPlan{rows: rows}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the mock server URL.
func (m *MockPayPlan) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockPayPlan) Close() {
	m.server.Close()
}

// SetFailure makes the server respond with the given status code once
// more than `after` requests have been served.
func (m *MockPayPlan) SetFailure(status, after int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failStatus = status
	m.failAfter = after
}

// SetTotalOverride forces recordsTotal to a fixed value regardless of the
// actual row count, for overshoot and runaway-pagination tests.
func (m *MockPayPlan) SetTotalOverride(total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalOverride = &total
}

// OmitTotal drops the recordsTotal field from responses entirely.
func (m *MockPayPlan) OmitTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.omitTotal = true
}

// RequestCount returns the number of requests served so far.
func (m *MockPayPlan) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// LastQuery returns the query parameters of the most recent request.
func (m *MockPayPlan) LastQuery() url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery
}

func (m *MockPayPlan) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requestCount++
	m.lastQuery = r.URL.Query()
	count := m.requestCount
	failStatus, failAfter := m.failStatus, m.failAfter
	rows := m.rows
	totalOverride := m.totalOverride
	omitTotal := m.omitTotal
	m.mu.Unlock()

	if failStatus != 0 && count > failAfter {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(failStatus)
		_, _ = w.Write([]byte(`{"error": "injected failure"}`))
		return
	}

	start := intQuery(r, "start", 0)
	length := intQuery(r, "length", len(rows))
	draw := intQuery(r, "draw", 0)

	page := [][]string{}
	if start < len(rows) {
		end := start + length
		if end > len(rows) {
			end = len(rows)
		}
		page = rows[start:end]
	}

	total := len(rows)
	if totalOverride != nil {
		total = *totalOverride
	}

	body := map[string]any{
		"draw":            draw,
		"recordsFiltered": total,
		"data":            page,
	}
	if !omitTotal {
		body["recordsTotal"] = total
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}

func intQuery(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// SampleRows returns three fixture rows covering the interesting shapes:
// a fully populated record, one with an absent annual salary pair, and
// one whose title markup does not match.
func SampleRows() [][]string {
	return [][]string{
		{
			`<a href="/profiles/0001">Librarian I</a>`,
			"0001 (L001)",
			"Library",
			"09/01/2025",
			"$45,000.00 - $60,000.00",
			"$3,750.00 - $5,000.00",
		},
		{
			`<a href="/profiles/0002">Accountant II</a>`,
			"0002 (A002)",
			"Finance",
			"09/01/2025",
			"Not Available",
			"$4,166.67 - $5,416.67",
		},
		{
			"Groundskeeper",
			"0003 (G003)",
			"Facilities",
			"01/15/2025",
			"$31,200.00 - $37,440.00",
			"$2,600.00 - $3,120.00",
		},
	}
}
