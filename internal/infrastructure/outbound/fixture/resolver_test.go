package fixture_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
	"github.com/sophialabs/vhttp/internal/domain/vherr"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/fixture"
)

type stubLoader struct {
	loaded []string
	err    error
}

func (l *stubLoader) Load(path string) (scenario.DataSource, error) {
	l.loaded = append(l.loaded, filepath.Base(path))
	if l.err != nil {
		return nil, l.err
	}
	return scenario.StaticData{Value: filepath.Base(path)}, nil
}

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		path := filepath.Join(root, n)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		base string
		name string
		seq  string
		ok   bool
		dir  fixture.Direction
		role fixture.Role
	}{
		{"call.request.json", "call", "", true, fixture.Request, fixture.RoleJSON},
		{"call.response.xml", "call", "1", true, fixture.Response, fixture.RoleXML},
		{"call.request.tmpl.json", "call", "", true, fixture.Request, fixture.RoleTemplateJSON},
		{"call.response.tmpl.xml", "call", "", true, fixture.Response, fixture.RoleTemplateXML},
		{"call.request.data.js", "call", "2", true, fixture.Request, fixture.RoleData},
		{"call.response.data.2.js", "call", "2", true, fixture.Response, fixture.RoleSeqData},
		{"call.response.data.2.js", "call", "3", false, 0, 0},
		{"call.response.data.2.js", "call", "", false, 0, 0},
		{"call2.request.json", "call", "", false, 0, 0},
		{"other.request.json", "call", "", false, 0, 0},
		{"call.request.json.bak", "call", "", false, 0, 0},
		{"call", "call", "", false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.base+"/"+tt.seq, func(t *testing.T) {
			dir, role, ok := fixture.Classify(tt.base, tt.name, tt.seq)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (dir != tt.dir || role != tt.role) {
				t.Errorf("got (%v, %v), want (%v, %v)", dir, role, tt.dir, tt.role)
			}
		})
	}
}

func TestResolve_Recursive(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"a/call.request.json",
		"b/deep/call.response.tmpl.xml",
		"b/call.response.data.js",
		"unrelated.request.json",
	)

	set, err := fixture.NewResolver(&stubLoader{}).Resolve(root, "call", "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if filepath.Base(set.Request.JSON) != "call.request.json" {
		t.Errorf("unexpected request json: %q", set.Request.JSON)
	}
	if filepath.Base(set.Response.TemplateXML) != "call.response.tmpl.xml" {
		t.Errorf("unexpected response template: %q", set.Response.TemplateXML)
	}
	if set.Response.Data == nil {
		t.Error("expected response data to be loaded")
	}
	if set.Request.Data != nil {
		t.Error("expected no request data")
	}
}

func TestResolve_SequenceDataWins(t *testing.T) {
	for _, names := range [][]string{
		{"call.response.data.js", "call.response.data.1.js"},
		{"z/call.response.data.js", "a/call.response.data.1.js"},
		{"a/call.response.data.js", "z/call.response.data.1.js"},
	} {
		root := t.TempDir()
		writeFiles(t, root, names...)

		set, err := fixture.NewResolver(&stubLoader{}).Resolve(root, "call", "1")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		got, _ := set.Response.Data.Data()
		if got != "call.response.data.1.js" {
			t.Errorf("files %v: expected sequence data to win, got %v", names, got)
		}
	}
}

func TestResolve_SharedDataForOtherSequence(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "call.response.data.js", "call.response.data.1.js")

	set, err := fixture.NewResolver(&stubLoader{}).Resolve(root, "call", "2")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	got, _ := set.Response.Data.Data()
	if got != "call.response.data.js" {
		t.Errorf("expected shared data, got %v", got)
	}
}

func TestResolve_MissingRoot(t *testing.T) {
	set, err := fixture.NewResolver(&stubLoader{}).Resolve(filepath.Join(t.TempDir(), "nope"), "call", "")
	if err != nil {
		t.Fatalf("expected no error for missing root, got %v", err)
	}
	if set != (fixture.Set{}) {
		t.Errorf("expected empty set, got %+v", set)
	}
}

func TestResolve_LoadErrorIsFixtureLoad(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "call.request.data.js")

	_, err := fixture.NewResolver(&stubLoader{err: errors.New("boom")}).Resolve(root, "call", "")
	if !errors.Is(err, vherr.ErrFixtureLoad) {
		t.Fatalf("expected FixtureLoad error, got %v", err)
	}
	var ve *vherr.Error
	if !errors.As(err, &ve) || filepath.Base(ve.Path) != "call.request.data.js" {
		t.Errorf("expected error to name the file, got %v", err)
	}
}

func TestSnapshot_ReusedAcrossCalls(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.request.json", "b.response.json")
	loader := &stubLoader{}

	snap, err := fixture.NewResolver(loader).Snapshot(root)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Files()) != 2 {
		t.Fatalf("expected 2 files, got %d", len(snap.Files()))
	}

	a, _ := snap.Resolve("a", "")
	b, _ := snap.Resolve("b", "")
	if a.Request.JSON == "" || b.Response.JSON == "" {
		t.Errorf("unexpected sets: a=%+v b=%+v", a, b)
	}
}
