package usecases_test

import (
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
	"github.com/sophialabs/vhttp/internal/domain/trace"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/fixture"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/template"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/xmlcodec"
	"github.com/sophialabs/vhttp/internal/infrastructure/ports"
	"github.com/sophialabs/vhttp/internal/infrastructure/services"
	"github.com/sophialabs/vhttp/internal/infrastructure/usecases"
	"github.com/sophialabs/vhttp/internal/testutil"
)

func writeFixture(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// harness wires the use cases over real fixtures and fake I/O ports.
type harness struct {
	root      string
	store     *services.ScenarioStore
	register  *usecases.RegisterScenariosUseCase
	activate  *usecases.ActivateScenarioUseCase
	send      *usecases.SendRequestUseCase
	sink      *testutil.RecordingSink
	clock     *testutil.FixedClock
	transport *testutil.StubTransport
	traces    *trace.RingBuffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	helpers := template.Helpers(func() time.Time { return now })
	logger := &testutil.NoopLogger{}

	var ids atomic.Int64
	newID := func() string { return "act-" + strconv.FormatInt(ids.Add(1), 10) }

	h := &harness{
		root:      t.TempDir(),
		store:     services.NewScenarioStore(),
		sink:      &testutil.RecordingSink{},
		clock:     &testutil.FixedClock{T: now},
		transport: &testutil.StubTransport{},
		traces:    trace.NewRingBuffer(32),
	}
	compiler := services.NewCompiler(fixture.NewResolver(template.NewDataLoader(helpers)))
	renderer := services.NewRenderer(template.NewExprEngine(helpers), xmlcodec.Decode)

	h.register = usecases.NewRegisterScenariosUseCase(compiler, h.store, logger)
	h.activate = usecases.NewActivateScenarioUseCase(h.store, renderer, newID, logger)
	h.send = usecases.NewSendRequestUseCase(h.transport, renderer, h.clock, h.traces,
		func() ports.Sink { return h.sink })
	return h
}

func (h *harness) mustRegister(t *testing.T, name string, def scenario.Definition) {
	t.Helper()
	if err := h.register.Execute(h.root, []scenario.Named{{Name: name, Definition: def}}); err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
}

func (h *harness) session(name string) *usecases.Session {
	return usecases.NewSession(name, h.activate)
}
