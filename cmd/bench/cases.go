// README: Bench cases: environment, schema, roster, quote, booking burst, field change, invoice and load checks.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"hirebook/internal/migrations"
	"hirebook/internal/modules/fare"
	"hirebook/internal/types"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

const (
	benchRateOneWay = "50"
	benchRateReturn = "40"
)

// Colombo Fort to Kandy.
var benchRoute = fare.Route{
	Pickup: types.Point{Lat: 6.9271, Lng: 79.8612},
	Drop:   types.Point{Lat: 7.2906, Lng: 80.6337},
}

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	vehicleNo string
	driverID  int64
	hireIDs   []int64
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:       cfg,
		httpc:     &http.Client{Timeout: 10 * time.Second},
		vehicleNo: "BENCH-" + strings.ToUpper(uuid.New().String()[:8]),
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{Name: "Env: Postgres connect", Run: checkPostgres},
		{Name: "Env: Redis connect (geocode cache)", Run: checkRedis},
		{Name: "Schema: provision (optional)", Run: provisionSchema},
		{Name: "Schema: tables exist", Run: checkTables},
		{Name: "API: health", Run: checkHealth},
		{Name: "Roster: create bench driver", Run: createDriver},
		{Name: "Roster: duplicate vehicle rejected", Run: duplicateDriver},
		{Name: "Fare: quote matches local engine", Run: checkQuote},
		{Name: "Booking: missing fields -> 400", Run: bookInvalid},
		{Name: "Booking: concurrent burst gets distinct contiguous invoices", Run: bookingBurst},
		{Name: "Booking: additionalKm change recomputes totals", Run: applyAdditionalKm},
		{Name: "Invoice: PDF download", Run: downloadInvoice},
		{Name: "Perf: quote throughput", Run: quoteLoad},
		{Name: "Cleanup: remove bench records", Run: cleanup},
	}
}

func checkPostgres(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: statusFail, Note: "db not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.db.Ping(ctx); err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	return Result{Status: statusPass}
}

func checkRedis(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: statusSkip, Note: "redis not configured; geocoding runs uncached"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	return Result{Status: statusPass}
}

func provisionSchema(ctx context.Context, r *Runner) Result {
	if !r.cfg.ApplyMigration {
		return Result{Status: statusSkip, Note: "apply-migration=false"}
	}
	if r.db == nil {
		return Result{Status: statusFail, Note: "db not configured"}
	}
	if err := migrations.Provision(ctx, r.db); err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	return Result{Status: statusPass}
}

func checkTables(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: statusFail, Note: "db not configured"}
	}
	for _, t := range []string{"drivers", "customers", "invoice_counter", "schema_migrations"} {
		var exists bool
		err := r.db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1)",
			t,
		).Scan(&exists)
		if err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
		if !exists {
			return Result{Status: statusFail, Note: "missing table: " + t}
		}
	}
	return Result{Status: statusPass}
}

func checkHealth(ctx context.Context, r *Runner) Result {
	status, latency, err := r.call(ctx, http.MethodGet, "/health", nil, nil)
	return expect(status, latency, err, http.StatusOK)
}

func createDriver(ctx context.Context, r *Runner) Result {
	var out struct {
		ID int64 `json:"id"`
	}
	status, latency, err := r.call(ctx, http.MethodPost, "/api/drivers", benchDriver(r.vehicleNo), &out)
	res := expect(status, latency, err, http.StatusCreated)
	if res.Status == statusPass {
		r.driverID = out.ID
		res.Note = fmt.Sprintf("id=%d vehicle=%s", out.ID, r.vehicleNo)
	}
	return res
}

func duplicateDriver(ctx context.Context, r *Runner) Result {
	status, latency, err := r.call(ctx, http.MethodPost, "/api/drivers", benchDriver(r.vehicleNo), nil)
	res := expect(status, latency, err, http.StatusConflict)
	if res.Status == statusFail && status == http.StatusCreated {
		res = Result{Status: statusSkip, Latency: latency, Note: "vehicle uniqueness disabled on server"}
	}
	return res
}

func checkQuote(ctx context.Context, r *Runner) Result {
	var q struct {
		Km           string `json:"km"`
		Amount       string `json:"amount"`
		VehicleFound bool   `json:"vehicleFound"`
	}
	status, latency, err := r.call(ctx, http.MethodPost, "/api/fares/quote", map[string]any{
		"route":     benchRoute,
		"tripType":  string(fare.TripOneWay),
		"vehicleNo": r.vehicleNo,
	}, &q)
	if res := expect(status, latency, err, http.StatusOK); res.Status != statusPass {
		return res
	}
	want := expectedAmount(benchRoute, fare.TripOneWay)
	if !q.VehicleFound || q.Amount != want {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("amount=%q want %q found=%v", q.Amount, want, q.VehicleFound)}
	}
	return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("km=%s amount=%s", q.Km, q.Amount)}
}

func bookInvalid(ctx context.Context, r *Runner) Result {
	status, latency, err := r.call(ctx, http.MethodPost, "/api/hires", map[string]any{"vehicleNo": r.vehicleNo}, nil)
	return expect(status, latency, err, http.StatusBadRequest)
}

func bookingBurst(ctx context.Context, r *Runner) Result {
	n := r.cfg.Concurrency
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		invoices []string
		failures []string
	)
	start := time.Now()
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out struct {
				ID            int64  `json:"id"`
				InvoiceNumber string `json:"invoice_number"`
			}
			status, _, err := r.call(ctx, http.MethodPost, "/api/hires", benchHire(r.vehicleNo, i), &out)
			mu.Lock()
			defer mu.Unlock()
			if err != nil || status != http.StatusCreated {
				failures = append(failures, fmt.Sprintf("status=%d err=%v", status, err))
				return
			}
			invoices = append(invoices, out.InvoiceNumber)
			r.hireIDs = append(r.hireIDs, out.ID)
		}(i)
	}
	wg.Wait()
	latency := time.Since(start)

	if len(failures) > 0 {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("%d/%d failed, first: %s", len(failures), n, failures[0])}
	}
	if err := checkContiguous(invoices); err != nil {
		return Result{Status: statusFail, Latency: latency, Note: err.Error()}
	}
	sort.Strings(invoices)
	return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("%d bookings, invoices %s..%s", n, invoices[0], invoices[len(invoices)-1])}
}

func applyAdditionalKm(ctx context.Context, r *Runner) Result {
	if len(r.hireIDs) == 0 {
		return Result{Status: statusSkip, Note: "no bench hire booked"}
	}
	var h struct {
		Amount      string `json:"amount"`
		ExtraKm     string `json:"extraKm"`
		TotalAmount string `json:"totalAmount"`
	}
	path := fmt.Sprintf("/api/hires/%d", r.hireIDs[0])
	status, latency, err := r.call(ctx, http.MethodPatch, path, map[string]string{"field": "additionalKm", "value": "10"}, &h)
	if res := expect(status, latency, err, http.StatusOK); res.Status != statusPass {
		return res
	}
	wantExtra := decimal.RequireFromString(benchRateOneWay).Mul(decimal.NewFromInt(10)).StringFixed(2)
	amount, err := fare.ParseAmount(h.Amount)
	if err != nil || h.Amount == "" {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("amount=%q not priced", h.Amount)}
	}
	wantTotal := amount.Add(decimal.RequireFromString(wantExtra)).StringFixed(2)
	if h.ExtraKm != wantExtra || h.TotalAmount != wantTotal {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("extraKm=%s total=%s want %s/%s", h.ExtraKm, h.TotalAmount, wantExtra, wantTotal)}
	}
	return Result{Status: statusPass, Latency: latency, Note: "total=" + h.TotalAmount}
}

func downloadInvoice(ctx context.Context, r *Runner) Result {
	if len(r.hireIDs) == 0 {
		return Result{Status: statusSkip, Note: "no bench hire booked"}
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/hires/%d/invoice.pdf", r.cfg.BaseURL, r.hireIDs[0]), nil)
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	latency := time.Since(start)
	if resp.StatusCode != http.StatusOK || !bytes.HasPrefix(body, []byte("%PDF-")) {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d bytes=%d", resp.StatusCode, len(body))}
	}
	return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("bytes=%d", len(body))}
}

func quoteLoad(ctx context.Context, r *Runner) Result {
	payload := map[string]any{"route": benchRoute, "tripType": string(fare.TripReturn), "vehicleNo": r.vehicleNo}
	end := time.Now().Add(r.cfg.Duration)
	var (
		count, errCount int64
		mu              sync.Mutex
		wg              sync.WaitGroup
	)

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				status, _, err := r.call(ctx, http.MethodPost, "/api/fares/quote", payload, nil)
				mu.Lock()
				if err != nil || status != http.StatusOK {
					errCount++
				} else {
					count++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func cleanup(ctx context.Context, r *Runner) Result {
	removed := 0
	for _, id := range r.hireIDs {
		if status, _, err := r.call(ctx, http.MethodDelete, fmt.Sprintf("/api/hires/%d", id), nil, nil); err == nil && status == http.StatusNoContent {
			removed++
		}
	}
	if r.driverID > 0 {
		_, _, _ = r.call(ctx, http.MethodDelete, fmt.Sprintf("/api/drivers/%d", r.driverID), nil, nil)
	}
	if removed != len(r.hireIDs) {
		return Result{Status: statusFail, Note: fmt.Sprintf("removed %d/%d hires", removed, len(r.hireIDs))}
	}
	return Result{Status: statusPass, Note: fmt.Sprintf("removed %d hires", removed)}
}

// call sends body as JSON and decodes the response into out when non-nil.
func (r *Runner) call(ctx context.Context, method, path string, body, out any) (int, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, 0, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	latency := time.Since(start)
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, latency, fmt.Errorf("decode response: %w", err)
		}
		return resp.StatusCode, latency, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, latency, nil
}

func expect(status int, latency time.Duration, err error, want int) Result {
	if err != nil {
		return Result{Status: statusFail, Latency: latency, Note: err.Error()}
	}
	if status != want {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d want %d", status, want)}
	}
	return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
}

func benchDriver(vehicleNo string) map[string]string {
	return map[string]string{
		"name":        "Bench Driver",
		"contactNo":   "0770000000",
		"vehicleNo":   vehicleNo,
		"vehicleType": "Car",
		"acType":      "AC",
		"driverNo":    "BENCH",
		"seatCount":   "4",
		"rateOneWay":  benchRateOneWay,
		"rateReturn":  benchRateReturn,
	}
}

func benchHire(vehicleNo string, i int) map[string]any {
	return map[string]any{
		"contactNo": "0771234567",
		"name":      "Bench Customer",
		"nic":       fmt.Sprintf("BENCH%04d", i),
		"date":      time.Now().Format("2006-01-02"),
		"time":      "08:00",
		"tripType":  string(fare.TripOneWay),
		"vehicleNo": vehicleNo,
		"pickup":    "Colombo Fort",
		"drop":      "Kandy",
		"route":     benchRoute,
	}
}

func expectedAmount(route fare.Route, trip fare.TripType) string {
	km, _ := fare.RouteDistanceKm(route)
	card := &fare.RateCard{
		OneWay: decimal.RequireFromString(benchRateOneWay),
		Return: decimal.RequireFromString(benchRateReturn),
	}
	amount, _ := fare.BaseAmount(km, trip, card)
	return fare.FormatAmount(amount)
}

// checkContiguous reports an error unless the invoice numbers are distinct
// and form one unbroken run.
func checkContiguous(invoices []string) error {
	if len(invoices) == 0 {
		return fmt.Errorf("no invoices")
	}
	nums := make([]int, 0, len(invoices))
	seen := make(map[int]bool, len(invoices))
	for _, inv := range invoices {
		n, err := strconv.Atoi(inv)
		if err != nil {
			return fmt.Errorf("invoice %q is not numeric", inv)
		}
		if seen[n] {
			return fmt.Errorf("duplicate invoice %s", inv)
		}
		seen[n] = true
		nums = append(nums, n)
	}
	sort.Ints(nums)
	if span := nums[len(nums)-1] - nums[0] + 1; span != len(nums) {
		return fmt.Errorf("invoices %d..%d have gaps (%d numbers for %d bookings)", nums[0], nums[len(nums)-1], span, len(nums))
	}
	return nil
}
