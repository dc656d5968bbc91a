package tryfail

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/icons"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/metrics"
	module "github.com/louisbranch/storybuilder/internal/services/storybuilder/module"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage/sqlite"
)

type submitRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (s *submitRecorder) Submit(_ context.Context, ref storage.IconRef, sourceText string) (*icons.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, ref.String()+"="+sourceText)
	return &icons.Job{ID: "job", Ref: ref, SourceText: sourceText}, nil
}

func (s *submitRecorder) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type fixture struct {
	store     *sqlite.Store
	submitter *submitRecorder
	metrics   *metrics.Metrics
	mux       *http.ServeMux
}

func newFixture(t *testing.T, auto bool) fixture {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "story_builder.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	f := fixture{store: store, submitter: &submitRecorder{}, metrics: metrics.New(), mux: http.NewServeMux()}
	m := New(store, module.Icons{Submitter: f.submitter, Auto: auto}, f.metrics, zaptest.NewLogger(t))
	if err := m.Mount(f.mux); err != nil {
		t.Fatalf("mount: %v", err)
	}
	return f
}

func (f fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.mux.ServeHTTP(rr, req)
	return rr
}

func (f fixture) orders(t *testing.T) map[string]int {
	t.Helper()
	cards, err := f.store.ListCycleCards(context.Background(), storage.DefaultStoryID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	out := make(map[string]int, len(cards))
	for _, c := range cards {
		out[c.Attempt] = c.OrderNum
	}
	return out
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	return req
}

func cardForm(attempt string, order int) url.Values {
	return url.Values{
		"type":        {"Failure"},
		"order_num":   {strconv.Itoa(order)},
		"attempt":     {attempt},
		"failure":     {"it fails"},
		"consequence": {attempt + " consequence"},
	}
}

func TestCreateInsertsAtPositionAndRedirects(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	for _, attempt := range []string{"a", "b", "c"} {
		rr := f.serve(formRequest(http.MethodPost, "/try-cards", cardForm(attempt, 99)))
		if got := rr.Header().Get("HX-Redirect"); got != "/" {
			t.Fatalf("HX-Redirect = %q, want %q", got, "/")
		}
	}
	f.serve(formRequest(http.MethodPost, "/try-cards", cardForm("first", 1)))

	want := map[string]int{"first": 1, "a": 2, "b": 3, "c": 4}
	if diff := cmp.Diff(want, f.orders(t)); diff != "" {
		t.Fatalf("orders mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateRequestsConsequenceIcon(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	f.serve(formRequest(http.MethodPost, "/try-cards", cardForm("ask", 1)))

	want := []string{"try/1/consequence=ask consequence"}
	if diff := cmp.Diff(want, f.submitter.Calls()); diff != "" {
		t.Fatalf("submit calls mismatch (-want +got):\n%s", diff)
	}
}

func TestReorderMovesCardAndCountsReorder(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	for i, attempt := range []string{"one", "two", "three"} {
		f.serve(formRequest(http.MethodPost, "/try-cards", cardForm(attempt, i+1)))
	}

	rr := f.serve(formRequest(http.MethodPost, "/try-cards/3/reorder", url.Values{"new_order": {"1"}}))
	if got := rr.Header().Get("HX-Redirect"); got != "/" {
		t.Fatalf("HX-Redirect = %q, want %q", got, "/")
	}
	want := map[string]int{"three": 1, "one": 2, "two": 3}
	if diff := cmp.Diff(want, f.orders(t)); diff != "" {
		t.Fatalf("orders mismatch (-want +got):\n%s", diff)
	}
	expected := `
# HELP storybuilder_cycle_reorders_total Try/Fail card reorders that changed a position.
# TYPE storybuilder_cycle_reorders_total counter
storybuilder_cycle_reorders_total 1
`
	if err := testutil.GatherAndCompare(f.metrics.Registry(), strings.NewReader(expected), "storybuilder_cycle_reorders_total"); err != nil {
		t.Fatalf("reorder metric: %v", err)
	}
}

func TestReorderToCurrentPositionIsNotCounted(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	for i, attempt := range []string{"one", "two", "three"} {
		f.serve(formRequest(http.MethodPost, "/try-cards", cardForm(attempt, i+1)))
	}

	f.serve(formRequest(http.MethodPost, "/try-cards/2/reorder", url.Values{"new_order": {"2"}}))
	f.serve(formRequest(http.MethodPost, "/try-cards/3/reorder", url.Values{"new_order": {"99"}}))

	want := map[string]int{"one": 1, "two": 2, "three": 3}
	if diff := cmp.Diff(want, f.orders(t)); diff != "" {
		t.Fatalf("orders mismatch (-want +got):\n%s", diff)
	}
	expected := `
# HELP storybuilder_cycle_reorders_total Try/Fail card reorders that changed a position.
# TYPE storybuilder_cycle_reorders_total counter
storybuilder_cycle_reorders_total 0
`
	if err := testutil.GatherAndCompare(f.metrics.Registry(), strings.NewReader(expected), "storybuilder_cycle_reorders_total"); err != nil {
		t.Fatalf("reorder metric: %v", err)
	}
}

func TestReorderRejectsMissingPosition(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	rr := f.serve(formRequest(http.MethodPost, "/try-cards/1/reorder", url.Values{}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestUpdateWithSameOrderReturnsFragment(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	f.serve(formRequest(http.MethodPost, "/try-cards", cardForm("one", 1)))
	f.serve(formRequest(http.MethodPost, "/try-cards", cardForm("two", 2)))

	values := cardForm("two", 2)
	values.Set("consequence", "worse")
	rr := f.serve(formRequest(http.MethodPut, "/try-cards/2", values))
	if got := rr.Header().Get("HX-Redirect"); got != "" {
		t.Fatalf("HX-Redirect = %q, want none", got)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `id="try-card-2"`) || !strings.Contains(body, "worse") {
		t.Fatalf("body = %q, want re-rendered card", body)
	}
	calls := f.submitter.Calls()
	if calls[len(calls)-1] != "try/2/consequence=worse" {
		t.Fatalf("submit calls = %v, want consequence change queued", calls)
	}
}

func TestUpdateWithNewOrderRedirects(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	for i, attempt := range []string{"one", "two", "three"} {
		f.serve(formRequest(http.MethodPost, "/try-cards", cardForm(attempt, i+1)))
	}

	rr := f.serve(formRequest(http.MethodPut, "/try-cards/1", cardForm("one", 3)))
	if got := rr.Header().Get("HX-Redirect"); got != "/" {
		t.Fatalf("HX-Redirect = %q, want %q", got, "/")
	}
	want := map[string]int{"two": 1, "three": 2, "one": 3}
	if diff := cmp.Diff(want, f.orders(t)); diff != "" {
		t.Fatalf("orders mismatch (-want +got):\n%s", diff)
	}
	if calls := f.submitter.Calls(); len(calls) != 0 {
		t.Fatalf("submit calls = %v, want none with auto icons off", calls)
	}
}

func TestDeleteLeavesGapAndRedirects(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	for i, attempt := range []string{"one", "two", "three"} {
		f.serve(formRequest(http.MethodPost, "/try-cards", cardForm(attempt, i+1)))
	}
	rr := f.serve(httptest.NewRequest(http.MethodDelete, "/try-cards/2", nil))
	if got := rr.Header().Get("HX-Redirect"); got != "/" {
		t.Fatalf("HX-Redirect = %q, want %q", got, "/")
	}
	want := map[string]int{"one": 1, "three": 3}
	if diff := cmp.Diff(want, f.orders(t)); diff != "" {
		t.Fatalf("orders mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingCardReadsAndUpdatesReturnEmptyOK(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/try-card/42", nil),
		httptest.NewRequest(http.MethodGet, "/try-edit/42", nil),
		formRequest(http.MethodPut, "/try-cards/42", cardForm("x", 1)),
	}
	for _, req := range requests {
		rr := f.serve(req)
		if rr.Code != http.StatusOK || rr.Body.Len() != 0 {
			t.Fatalf("%s %s = %d %q, want empty 200", req.Method, req.URL.Path, rr.Code, rr.Body.String())
		}
	}
}

func TestFormRoutes(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	form := f.serve(httptest.NewRequest(http.MethodGet, "/try-form", nil))
	if !strings.Contains(form.Body.String(), `hx-post="/try-cards"`) {
		t.Fatalf("form body = %q", form.Body.String())
	}
	clear := f.serve(httptest.NewRequest(http.MethodGet, "/clear-try-form", nil))
	if clear.Code != http.StatusOK || clear.Body.Len() != 0 {
		t.Fatalf("clear = %d %q, want empty 200", clear.Code, clear.Body.String())
	}
}
