package cleanup

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/caching/interfaces"
)

const (
	cyan    = "\033[38;2;86;182;194m"
	grey    = "\033[38;2;110;118;129m"
	dimGrey = "\033[38;2;75;82;99m"
	white   = "\033[38;2;171;178;191m"
	reset   = "\033[0m"
	bold    = "\033[1m"
)

// Report is the admin view of the cart cache and the cleanup history.
type Report struct {
	GeneratedAt    time.Time `json:"generatedAt"`
	ActiveCarts    int       `json:"activeCarts"`
	Runs           int       `json:"runs"`
	CartsExpired   int       `json:"cartsExpired"`
	SessionsPurged int64     `json:"sessionsPurged"`
	LastRun        *Result   `json:"lastRun,omitempty"`
	LastRunAt      time.Time `json:"lastRunAt,omitempty"`
}

// Reporter accumulates cleanup results. Safe for concurrent use.
type Reporter struct {
	carts interfaces.CartCache

	mu        sync.Mutex
	runs      int
	expired   int
	purged    int64
	last      *Result
	lastRunAt time.Time
}

func NewReporter(carts interfaces.CartCache) *Reporter {
	return &Reporter{carts: carts}
}

// Record adds one pass to the running totals.
func (r *Reporter) Record(res Result, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
	r.expired += res.CartsExpired
	r.purged += res.SessionsPurged
	r.last = &res
	r.lastRunAt = at
}

// GenerateReport snapshots the current totals.
func (r *Reporter) GenerateReport() Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	report := Report{
		GeneratedAt:    time.Now().UTC(),
		ActiveCarts:    r.carts.Len(),
		Runs:           r.runs,
		CartsExpired:   r.expired,
		SessionsPurged: r.purged,
		LastRunAt:      r.lastRunAt,
	}
	if r.last != nil {
		last := *r.last
		report.LastRun = &last
	}
	return report
}

// Render formats a report for the console in verbose mode.
func (r *Reporter) Render(report Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s▓ %s | cleanup pass %d%s\n", bold, cyan, report.GeneratedAt.Format("2006-01-02 15:04:05 MST"), report.Runs, reset)
	if report.ActiveCarts > 0 {
		fmt.Fprintf(&b, "%s✦ %scarts: %s%d%s\n", cyan, grey, white, report.ActiveCarts, reset)
	} else {
		fmt.Fprintf(&b, "%s○ %scarts: %s--%s\n", dimGrey, grey, dimGrey, reset)
	}
	fmt.Fprintf(&b, "%s▶ %sexpired %s%d%s carts, purged %s%d%s sessions in total%s\n",
		dimGrey, grey, white, report.CartsExpired, grey, white, report.SessionsPurged, grey, reset)
	return b.String()
}
