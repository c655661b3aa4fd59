package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sophialabs/vhttp/internal/app"
	"github.com/sophialabs/vhttp/internal/domain/scenario"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestApp(t *testing.T) (*app.App, app.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := app.DefaultConfig()
	cfg.RootDir = filepath.Join(dir, "virtual")
	cfg.ScenarioDir = filepath.Join(dir, "scenarios")
	cfg.WatcherDebounce = 20 * time.Millisecond

	writeFile(t, filepath.Join(cfg.ScenarioDir, "shop.yaml"), `
checkout:
  "cart:1":
    method: get
    uri: http://shop/cart
  "pay":
    method: post
    uri_pattern: "^http://shop/pay/\\d+$"
    status: 201
broken:
  "bad":
    method: get
    uri: http://shop/bad
`)
	writeFile(t, filepath.Join(cfg.RootDir, "cart.response.json"), `{"items": []}`)
	writeFile(t, filepath.Join(cfg.RootDir, "pay.request.tmpl.json"), `{"total": "${total}"}`)
	writeFile(t, filepath.Join(cfg.RootDir, "pay.request.data.js"), `module.exports = {total: 42};`)
	writeFile(t, filepath.Join(cfg.RootDir, "bad.response.json"), `{oops`)

	a, err := app.New(cfg, io.Discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(a.Close)
	return a, cfg
}

func TestDefaultConfig_HasSensibleValues(t *testing.T) {
	cfg := app.DefaultConfig()

	if cfg.RootDir == "" {
		t.Error("RootDir should not be empty")
	}
	if cfg.ScenarioDir == "" {
		t.Error("ScenarioDir should not be empty")
	}
	if cfg.Engine == "" {
		t.Error("Engine should not be empty")
	}
	if cfg.TraceSize == 0 {
		t.Error("TraceSize should not be zero")
	}
	if cfg.LogLevel == "" {
		t.Error("LogLevel should not be empty")
	}
	if cfg.ThrottleTTL == 0 {
		t.Error("ThrottleTTL should not be zero")
	}
	if cfg.WatcherDebounce == 0 {
		t.Error("WatcherDebounce should not be zero")
	}
}

func TestNew_UnknownEngine(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.Engine = "mustache"

	if _, err := app.New(cfg, io.Discard); err == nil {
		t.Error("expected error for unknown engine")
	}
}

func TestCheck_ReportsEveryScenario(t *testing.T) {
	a, _ := newTestApp(t)

	report, err := a.Check(context.Background())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if report.OK() || report.Failed != 1 {
		t.Fatalf("expected exactly one failure, got %d", report.Failed)
	}

	byName := map[string]app.ScenarioReport{}
	for _, s := range report.Scenarios {
		byName[s.Name] = s
	}

	checkout := byName["checkout"]
	if checkout.Error != "" {
		t.Errorf("unexpected checkout error: %s", checkout.Error)
	}
	want := []app.CallReport{
		{Key: "cart:1", Method: "get", URI: "http://shop/cart", Request: "none", Response: "json", Status: 200},
		{Key: "pay", Method: "post", URI: `^http://shop/pay/\d+$`, Pattern: true, Request: "template-json", Response: "none", Status: 201},
	}
	if diff := cmp.Diff(want, checkout.Calls); diff != "" {
		t.Errorf("unexpected calls (-want +got):\n%s", diff)
	}

	if broken := byName["broken"]; !strings.Contains(broken.Error, "bad.response.json") {
		t.Errorf("expected parse error naming the fixture, got %q", broken.Error)
	}

	var buf bytes.Buffer
	if err := report.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "2 scenarios, 1 failed") {
		t.Errorf("unexpected text report:\n%s", buf.String())
	}
}

func TestCheck_MissingScenarioDir(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.ScenarioDir = filepath.Join(t.TempDir(), "missing")
	a, err := app.New(cfg, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if _, err := a.Check(context.Background()); err == nil {
		t.Error("expected error for missing scenario directory")
	}
}

func TestRender(t *testing.T) {
	a, _ := newTestApp(t)

	r, err := a.Render(context.Background(), "checkout")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if r.Scenario != "checkout" || r.Activation == "" || len(r.Calls) != 2 {
		t.Fatalf("unexpected rendering: %+v", r)
	}
	if diff := cmp.Diff(map[string]any{"total": 42}, r.Calls[1].Body); diff != "" {
		t.Errorf("unexpected rendered request body (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"items": []any{}}, r.Calls[0].Response.Body); diff != "" {
		t.Errorf("unexpected rendered response body (-want +got):\n%s", diff)
	}

	if _, err := a.Render(context.Background(), "nope"); !errors.Is(err, scenario.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestWatch_RechecksOnChange(t *testing.T) {
	a, cfg := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu      sync.Mutex
		reports []*app.Report
	)
	changed := make(chan struct{}, 8)
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Watch(ctx, func(r *app.Report, err error) {
			if err != nil {
				t.Errorf("check failed: %v", err)
				return
			}
			mu.Lock()
			reports = append(reports, r)
			mu.Unlock()
			changed <- struct{}{}
		})
	}()

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the initial check")
	}

	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(cfg.RootDir, "bad.response.json"), `{"fixed": true}`)

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the re-check")
	}

	mu.Lock()
	last := reports[len(reports)-1]
	mu.Unlock()
	if !last.OK() {
		t.Errorf("expected the re-check to pass, got %d failures", last.Failed)
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Errorf("Watch returned error: %v", err)
	}
}
