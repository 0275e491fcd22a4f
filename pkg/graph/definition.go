package graph

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/trackerlab/keylogic/pkg/access"
	"github.com/trackerlab/keylogic/pkg/ids"
	"github.com/trackerlab/keylogic/pkg/requirement"
	"github.com/trackerlab/keylogic/pkg/state"
)

var validate = validator.New()

// Definition is the declarative form of a world graph.
type Definition struct {
	Edges     []EdgeDef     `yaml:"edges" validate:"required,min=1,dive"`
	Entrances []EntranceDef `yaml:"entrances,omitempty" validate:"dive"`
}

// EdgeDef declares one connection. Requires is a requirement expression;
// blank means always met. Ceiling optionally caps the level passed on.
type EdgeDef struct {
	From     string        `yaml:"from" validate:"required"`
	To       string        `yaml:"to" validate:"required"`
	Requires string        `yaml:"requires,omitempty"`
	Ceiling  *access.Level `yaml:"ceiling,omitempty"`
}

// EntranceDef seeds an alternate entrance counter.
type EntranceDef struct {
	Node  string `yaml:"node" validate:"required"`
	Tier  string `yaml:"tier" validate:"required,oneof=all dungeon insanity"`
	Count int    `yaml:"count" validate:"min=1"`
}

// Compiler turns requirement source text into a Requirement.
type Compiler interface {
	Parse(src string) (requirement.Requirement, error)
}

// ParseDefinition decodes and validates a YAML graph definition. Unknown
// fields are rejected.
func ParseDefinition(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("graph definition is empty")
		}
		return nil, fmt.Errorf("failed to decode graph definition: %w", err)
	}
	if err := validate.Struct(&def); err != nil {
		return nil, fmt.Errorf("invalid graph definition: %w", err)
	}
	return &def, nil
}

// Build resolves def against the identity enumeration, compiles its
// requirements and returns a wired graph.
func Build(def *Definition, compiler Compiler, mode *state.Mode, opts ...Option) (*Graph, error) {
	edges := make([]Edge, 0, len(def.Edges))
	for i, e := range def.Edges {
		from, err := ids.ParseNode(e.From)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		to, err := ids.ParseNode(e.To)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		req, err := compiler.Parse(e.Requires)
		if err != nil {
			return nil, fmt.Errorf("edge %d (%s -> %s): %w", i, from, to, err)
		}
		edge := Edge{From: from, To: to, Requirement: req}
		if e.Ceiling != nil {
			if *e.Ceiling == access.None {
				return nil, fmt.Errorf("edge %d (%s -> %s): ceiling None would never pass", i, from, to)
			}
			edge.Ceiling = *e.Ceiling
		}
		edges = append(edges, edge)
	}

	g := New(mode, opts...)
	for i, en := range def.Entrances {
		id, err := ids.ParseNode(en.Node)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("entrance %d: %w", i, err)
		}
		tier, err := ParseTier(en.Tier)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("entrance %d: %w", i, err)
		}
		n := g.Node(id)
		for j := 0; j < en.Count; j++ {
			n.AddEntrance(tier)
		}
	}

	if err := g.Wire(edges); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}
