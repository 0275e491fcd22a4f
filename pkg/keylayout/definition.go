package keylayout

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/trackerlab/keylogic/pkg/ids"
	"github.com/trackerlab/keylogic/pkg/requirement"
)

var validate = validator.New()

// Definition is the declarative description of every dungeon's layouts.
type Definition struct {
	Dungeons []DungeonDef `yaml:"dungeons" validate:"required,min=1,dive"`
}

// DungeonDef lists the gated layout trees of one dungeon. SmallKeys and
// KeyDrops override the stock key pool when set.
type DungeonDef struct {
	Dungeon   string      `yaml:"dungeon" validate:"required"`
	SmallKeys *int        `yaml:"small_keys,omitempty" validate:"omitempty,min=0"`
	KeyDrops  *int        `yaml:"key_drops,omitempty" validate:"omitempty,min=0"`
	Layouts   []LayoutDef `yaml:"layouts" validate:"required,min=1,dive"`
}

// LayoutDef is one top-level tree. Gate is a requirement expression; blank
// means the tree always applies.
type LayoutDef struct {
	Name string  `yaml:"name,omitempty"`
	Gate string  `yaml:"gate,omitempty"`
	Root NodeDef `yaml:"root"`
}

// Node kinds accepted in NodeDef.Kind.
const (
	KindEnd      = "end"
	KindBigKey   = "big"
	KindSmallKey = "small"
)

// NodeDef is the declarative form of a Node.
type NodeDef struct {
	Kind         string    `yaml:"kind" validate:"required,oneof=end big small"`
	Requires     string    `yaml:"requires,omitempty"`
	Keys         int       `yaml:"keys,omitempty" validate:"min=0"`
	Locations    []string  `yaml:"locations,omitempty"`
	BigKeyInList bool      `yaml:"big_key_in_list,omitempty"`
	Children     []NodeDef `yaml:"children,omitempty" validate:"dive"`
}

// Compiler turns requirement source text into a Requirement.
type Compiler interface {
	Parse(src string) (requirement.Requirement, error)
}

// ParseDefinition decodes and validates YAML layout definitions. Unknown
// fields are rejected.
func ParseDefinition(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("layout definition is empty")
		}
		return nil, fmt.Errorf("failed to decode layout definition: %w", err)
	}
	if err := validate.Struct(&def); err != nil {
		return nil, fmt.Errorf("invalid layout definition: %w", err)
	}
	return &def, nil
}

// builder resolves NodeDefs for one dungeon and key drop mode. Requirements
// are compiled once and shared between modes.
type builder struct {
	dungeon  Dungeon
	compiler Compiler
	reqs     map[string]requirement.Requirement
}

func (b *builder) requirement(src string) (requirement.Requirement, error) {
	if r, ok := b.reqs[src]; ok {
		return r, nil
	}
	r, err := b.compiler.Parse(src)
	if err != nil {
		return nil, err
	}
	b.reqs[src] = r
	return r, nil
}

func (b *builder) locations(names []string) ([]ids.LocationID, error) {
	out := make([]ids.LocationID, 0, len(names))
	seen := make(map[ids.LocationID]bool, len(names))
	for _, name := range names {
		loc, err := ids.ParseLocation(name)
		if err != nil {
			return nil, err
		}
		if loc.Dungeon() != b.dungeon.ID {
			return nil, fmt.Errorf("location %s belongs to %s, not %s: %w", loc, loc.Dungeon(), b.dungeon.ID, ids.ErrUnknown)
		}
		if seen[loc] {
			return nil, fmt.Errorf("location %s listed twice", loc)
		}
		seen[loc] = true
		out = append(out, loc)
	}
	return out, nil
}

func (b *builder) node(def NodeDef, path string, keyDropShuffle bool) (Node, error) {
	children := make([]Node, 0, len(def.Children))
	for i, c := range def.Children {
		child, err := b.node(c, fmt.Sprintf("%s/%d", path, i), keyDropShuffle)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	switch def.Kind {
	case KindEnd:
		if len(def.Children) > 0 || len(def.Locations) > 0 || def.Keys != 0 {
			return nil, fmt.Errorf("%s: end node takes only a requirement", path)
		}
		req, err := b.requirement(def.Requires)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return NewEnd(req), nil

	case KindBigKey:
		if def.Requires != "" || def.Keys != 0 || def.BigKeyInList {
			return nil, fmt.Errorf("%s: big key node takes only locations and children", path)
		}
		if len(def.Locations) == 0 {
			return nil, fmt.Errorf("%s: big key node needs at least one location", path)
		}
		locs, err := b.locations(def.Locations)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return NewBigKey(locs, children...), nil

	case KindSmallKey:
		if def.Requires != "" {
			return nil, fmt.Errorf("%s: small key node does not take a requirement", path)
		}
		locs, err := b.locations(def.Locations)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return NewSmallKey(SmallKeySpec{
			Keys:         def.Keys,
			Locations:    locs,
			BigKeyInList: def.BigKeyInList,
			TotalKeys:    b.dungeon.TotalKeys(keyDropShuffle),
		}, children...), nil
	}
	return nil, fmt.Errorf("%s: unknown node kind %q", path, def.Kind)
}
