package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// IncludeResolver resolves !include tags in YAML node trees.
type IncludeResolver struct {
	rootDir string
}

// NewIncludeResolver creates a resolver bound to rootDir for @root references.
func NewIncludeResolver(rootDir string) *IncludeResolver {
	return &IncludeResolver{rootDir: rootDir}
}

// ResolveIncludes walks a yaml.Node tree and replaces !include tagged nodes
// with the contents of the referenced YAML or JSON files.
func (r *IncludeResolver) ResolveIncludes(node *yaml.Node, currentDir string) error {
	return r.walk(node, currentDir, 0, map[string]bool{})
}

const maxIncludeDepth = 10

func (r *IncludeResolver) walk(node *yaml.Node, currentDir string, depth int, active map[string]bool) error {
	if depth > maxIncludeDepth {
		return fmt.Errorf("!include depth exceeds maximum of %d", maxIncludeDepth)
	}
	if node == nil {
		return nil
	}

	if node.Tag == "!include" {
		return r.resolveInclude(node, currentDir, depth, active)
	}

	for _, child := range node.Content {
		if err := r.walk(child, currentDir, depth, active); err != nil {
			return err
		}
	}

	return nil
}

func (r *IncludeResolver) resolveInclude(node *yaml.Node, currentDir string, depth int, active map[string]bool) error {
	ref := node.Value
	if ref == "" {
		return fmt.Errorf("line %d: !include tag has empty value", node.Line)
	}

	resolved, err := r.resolvePath(ref, currentDir)
	if err != nil {
		return fmt.Errorf("failed to resolve !include %q: %w", ref, err)
	}

	if err := r.validatePath(resolved); err != nil {
		return fmt.Errorf("!include path %q is not allowed: %w", ref, err)
	}
	if active[resolved] {
		return fmt.Errorf("!include cycle through %q", ref)
	}

	ext := strings.ToLower(filepath.Ext(resolved))
	if ext != ".yaml" && ext != ".yml" && ext != ".json" {
		return fmt.Errorf("!include %q: only .yaml, .yml and .json files can be included", ref)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return fmt.Errorf("failed to read included file %q: %w", resolved, err)
	}

	var included yaml.Node
	if err := yaml.Unmarshal(data, &included); err != nil {
		return fmt.Errorf("failed to parse included file %q: %w", resolved, err)
	}

	// Recursively resolve nested includes.
	active[resolved] = true
	err = r.walk(&included, filepath.Dir(resolved), depth+1, active)
	delete(active, resolved)
	if err != nil {
		return err
	}

	if included.Kind == yaml.DocumentNode && len(included.Content) > 0 {
		*node = *included.Content[0]
	} else {
		*node = yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}

	return nil
}

func (r *IncludeResolver) resolvePath(ref, currentDir string) (string, error) {
	switch {
	case strings.HasPrefix(ref, "@root/"):
		return filepath.Join(r.rootDir, ref[6:]), nil
	case strings.HasPrefix(ref, "@here/"):
		return filepath.Join(currentDir, ref[6:]), nil
	case filepath.IsAbs(ref):
		return "", fmt.Errorf("absolute paths are not allowed in !include")
	default:
		return filepath.Join(currentDir, ref), nil
	}
}

func (r *IncludeResolver) validatePath(resolved string) error {
	// Evaluate symlinks to prevent traversal attacks.
	realPath, err := filepath.EvalSymlinks(resolved)
	if err != nil {
		realPath = resolved
	}

	absRoot, err := filepath.EvalSymlinks(r.rootDir)
	if err != nil {
		absRoot = r.rootDir
	}

	rel, err := filepath.Rel(absRoot, realPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes root directory")
	}

	return nil
}
