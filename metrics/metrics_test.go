package metrics

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestReporterCounts(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(20, slog.New(slog.NewTextHandler(&buf, nil)))

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(r.Inc)
	}
	wg.Wait()

	if r.Done() != 20 {
		t.Fatalf("done = %d", r.Done())
	}
	if got := testutil.ToFloat64(r.generated); got != 20 {
		t.Fatalf("generated_total = %v", got)
	}
	if got := testutil.ToFloat64(r.target); got != 20 {
		t.Fatalf("target = %v", got)
	}
	// One line per 10%.
	if n := strings.Count(buf.String(), "msg=progress"); n != 10 {
		t.Fatalf("logged %d progress lines, want 10:\n%s", n, buf.String())
	}
}

func TestReporterTextfile(t *testing.T) {
	r := NewReporter(3, nil)
	r.Inc()
	r.Inc()

	path := filepath.Join(t.TempDir(), "traitgen.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"traitgen_tokens_generated_total 2", "traitgen_tokens_target 3"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
	if n, err := testutil.GatherAndCount(r.Gatherer()); err != nil || n != 3 {
		t.Fatalf("gathered %d metrics, err %v", n, err)
	}
}
