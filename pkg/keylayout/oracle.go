package keylayout

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/trackerlab/keylogic/pkg/access"
	"github.com/trackerlab/keylogic/pkg/ids"
)

type oracleFile struct {
	Default   string            `yaml:"default"`
	Locations map[string]string `yaml:"locations"`
}

// ParseOracle decodes a StaticOracle from YAML:
//
//	default: None
//	locations:
//	  EPCannonballChest: Normal
func ParseOracle(data []byte) (StaticOracle, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f oracleFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return StaticOracle{}, fmt.Errorf("failed to decode oracle: %w", err)
	}

	o := StaticOracle{Levels: make(map[ids.LocationID]access.Level, len(f.Locations))}
	if f.Default != "" {
		l, err := access.ParseLevel(f.Default)
		if err != nil {
			return StaticOracle{}, fmt.Errorf("oracle default: %w", err)
		}
		o.Default = l
	}
	for name, level := range f.Locations {
		loc, err := ids.ParseLocation(name)
		if err != nil {
			return StaticOracle{}, fmt.Errorf("oracle: %w", err)
		}
		l, err := access.ParseLevel(level)
		if err != nil {
			return StaticOracle{}, fmt.Errorf("oracle %s: %w", loc, err)
		}
		o.Levels[loc] = l
	}
	return o, nil
}
