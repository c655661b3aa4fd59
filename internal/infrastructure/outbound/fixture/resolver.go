// Package fixture locates the fixture files of a call under a fixture root.
package fixture

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
	"github.com/sophialabs/vhttp/internal/domain/vherr"
)

// Role classifies a fixture file.
type Role int

const (
	RoleSeqData Role = iota
	RoleData
	RoleTemplateJSON
	RoleTemplateXML
	RoleJSON
	RoleXML
)

// Direction selects the request or response side of a call.
type Direction int

const (
	Request Direction = iota
	Response
)

func (d Direction) String() string {
	if d == Response {
		return "response"
	}
	return "request"
}

type suffixRule struct {
	direction Direction
	role      Role
	suffix    func(seq string) string
}

func fixed(s string) func(string) string { return func(string) string { return s } }

// suffixes is ordered most specific first.
var suffixes = []suffixRule{
	{Request, RoleSeqData, func(seq string) string { return ".request.data." + seq + ".js" }},
	{Response, RoleSeqData, func(seq string) string { return ".response.data." + seq + ".js" }},
	{Request, RoleData, fixed(".request.data.js")},
	{Response, RoleData, fixed(".response.data.js")},
	{Request, RoleTemplateJSON, fixed(".request.tmpl.json")},
	{Response, RoleTemplateJSON, fixed(".response.tmpl.json")},
	{Request, RoleTemplateXML, fixed(".request.tmpl.xml")},
	{Response, RoleTemplateXML, fixed(".response.tmpl.xml")},
	{Request, RoleJSON, fixed(".request.json")},
	{Response, RoleJSON, fixed(".response.json")},
	{Request, RoleXML, fixed(".request.xml")},
	{Response, RoleXML, fixed(".response.xml")},
}

// Classify matches a file base name against the fixtures of call name/seq.
// The remainder after name must equal a suffix exactly.
func Classify(base, name, seq string) (Direction, Role, bool) {
	rest, ok := strings.CutPrefix(base, name)
	if !ok || rest == "" {
		return 0, 0, false
	}
	for _, rule := range suffixes {
		if rule.role == RoleSeqData && seq == "" {
			continue
		}
		if rest == rule.suffix(seq) {
			return rule.direction, rule.role, true
		}
	}
	return 0, 0, false
}

// Side holds the fixtures found for one direction of a call.
type Side struct {
	JSON         string
	TemplateJSON string
	XML          string
	TemplateXML  string
	DataPath     string
	Data         scenario.DataSource

	seqData bool
}

// Set is the fixtures of one call.
type Set struct {
	Request  Side
	Response Side
}

// Side returns the fixtures of direction d.
func (s *Set) Side(d Direction) *Side {
	if d == Response {
		return &s.Response
	}
	return &s.Request
}

// DataLoader compiles a data-provider file.
type DataLoader interface {
	Load(path string) (scenario.DataSource, error)
}

// Resolver finds fixture files and loads their data providers.
type Resolver struct {
	loader DataLoader
}

// NewResolver creates a Resolver loading data providers through loader.
func NewResolver(loader DataLoader) *Resolver {
	return &Resolver{loader: loader}
}

// Snapshot is the list of files under a root at one point in time.
type Snapshot struct {
	resolver *Resolver
	files    []string
}

// Snapshot scans root recursively. A missing root yields an empty snapshot.
func (r *Resolver) Snapshot(root string) (*Snapshot, error) {
	snap := &Snapshot{resolver: r}
	if root == "" {
		return snap, nil
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			snap.files = append(snap.files, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return snap, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan fixture root %s: %w", root, err)
	}
	return snap, nil
}

// Resolve scans root and resolves the fixtures of one call.
func (r *Resolver) Resolve(root, name, seq string) (Set, error) {
	snap, err := r.Snapshot(root)
	if err != nil {
		return Set{}, err
	}
	return snap.Resolve(name, seq)
}

// Files returns the scanned file paths in walk order.
func (s *Snapshot) Files() []string {
	return append([]string(nil), s.files...)
}

// Resolve classifies the snapshot's files for call name/seq. The first file
// in walk order wins for each role; sequence data replaces shared data.
func (s *Snapshot) Resolve(name, seq string) (Set, error) {
	var set Set
	for _, path := range s.files {
		dir, role, ok := Classify(filepath.Base(path), name, seq)
		if !ok {
			continue
		}
		side := set.Side(dir)

		switch role {
		case RoleSeqData, RoleData:
			if side.seqData || (role == RoleData && side.DataPath != "") {
				continue
			}
			data, err := s.resolver.loader.Load(path)
			if err != nil {
				return Set{}, vherr.FixtureLoad(path, err)
			}
			side.DataPath = path
			side.Data = data
			side.seqData = role == RoleSeqData
		case RoleTemplateJSON:
			setOnce(&side.TemplateJSON, path)
		case RoleTemplateXML:
			setOnce(&side.TemplateXML, path)
		case RoleJSON:
			setOnce(&side.JSON, path)
		case RoleXML:
			setOnce(&side.XML, path)
		}
	}
	return set, nil
}

func setOnce(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
