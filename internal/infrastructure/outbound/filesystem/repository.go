package filesystem

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
)

var _ scenario.Repository = (*YAMLRepository)(nil)

// YAMLRepository loads scenario definitions from YAML files in a directory tree.
// Each file is a mapping of scenario name to an ordered mapping of call key
// to call.
type YAMLRepository struct {
	rootDir  string
	resolver *IncludeResolver
}

// NewYAMLRepository creates a repository rooted at rootDir.
func NewYAMLRepository(rootDir string) (*YAMLRepository, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}
	return &YAMLRepository{
		rootDir:  absRoot,
		resolver: NewIncludeResolver(absRoot),
	}, nil
}

// RootDir returns the absolute directory definitions are loaded from.
func (r *YAMLRepository) RootDir() string {
	return r.rootDir
}

// LoadAll walks the root directory for .yaml files and returns parsed definitions.
func (r *YAMLRepository) LoadAll(ctx context.Context) ([]scenario.Named, error) {
	var named []scenario.Named

	err := filepath.WalkDir(r.rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isYAMLFile(path) {
			return nil
		}

		loaded, err := r.loadFile(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		named = append(named, loaded...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk scenarios directory: %w", err)
	}

	return named, nil
}

// LoadByName loads a single definition by its scenario name. The first
// definition in walk order wins.
func (r *YAMLRepository) LoadByName(ctx context.Context, name string) (scenario.Named, error) {
	all, err := r.LoadAll(ctx)
	if err != nil {
		return scenario.Named{}, fmt.Errorf("failed to load scenarios: %w", err)
	}
	for _, n := range all {
		if n.Name == name {
			return n, nil
		}
	}
	return scenario.Named{}, scenario.ErrNotFound
}

func (r *YAMLRepository) loadFile(path string) ([]scenario.Named, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return r.parse(path, data)
}

func (r *YAMLRepository) parse(path string, data []byte) ([]scenario.Named, error) {
	// Parse into yaml.Node tree to handle !include tags and keep key order.
	var rootNode yaml.Node
	if err := yaml.Unmarshal(data, &rootNode); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if rootNode.Kind == 0 {
		return nil, nil // empty file
	}

	if err := r.resolver.ResolveIncludes(&rootNode, filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to resolve includes: %w", err)
	}

	if rootNode.Kind != yaml.DocumentNode || len(rootNode.Content) == 0 {
		return nil, fmt.Errorf("unexpected YAML structure")
	}
	top := rootNode.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of scenario names", top.Line)
	}

	named := make([]scenario.Named, 0, len(top.Content)/2)
	for i := 0; i+1 < len(top.Content); i += 2 {
		name := top.Content[i].Value
		def, err := decodeDefinition(top.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", name, err)
		}
		named = append(named, scenario.Named{Name: name, Definition: def, SourceFile: path})
	}
	return named, nil
}

// decodeDefinition reads an ordered mapping of call key to call.
func decodeDefinition(node *yaml.Node) (scenario.Definition, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of call keys", node.Line)
	}

	def := make(scenario.Definition, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var yc yamlCall
		if err := node.Content[i+1].Decode(&yc); err != nil {
			return nil, fmt.Errorf("call %q: %w", key, err)
		}
		spec, err := toCallSpec(&yc)
		if err != nil {
			return nil, fmt.Errorf("call %q: %w", key, err)
		}
		def = append(def, scenario.Call{Key: key, Spec: spec})
	}
	return def, nil
}

func toCallSpec(yc *yamlCall) (scenario.CallSpec, error) {
	spec := scenario.CallSpec{
		Method: strings.TrimSpace(yc.Method),
		URI:    yc.URI,
		Status: yc.Status,
		Delay:  time.Duration(yc.DelayMs) * time.Millisecond,
	}

	if yc.URIPattern != "" {
		re, err := regexp.Compile(yc.URIPattern)
		if err != nil {
			return spec, fmt.Errorf("invalid uri_pattern %q: %w", yc.URIPattern, err)
		}
		spec.URIPattern = re
	}

	if len(yc.Query) > 0 {
		spec.Query = make(url.Values, len(yc.Query))
		for k, v := range yc.Query {
			spec.Query[k] = []string(v)
		}
	}

	if yc.RequestData != nil {
		spec.RequestData = scenario.StaticData{Value: yc.RequestData}
	}
	if yc.ResponseData != nil {
		spec.ResponseData = scenario.StaticData{Value: yc.ResponseData}
	}
	return spec, nil
}

func isYAMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
