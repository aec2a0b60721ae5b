package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"jarshrink/core/internal/proguard"
)

// ToolOptions are extra tool options in declaration order. A null value
// renders a bare flag.
type ToolOptions []proguard.Option

func (o *ToolOptions) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: options must be a mapping", n.Line)
	}
	opts := make(ToolOptions, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: option %q must have a scalar value", v.Line, k.Value)
		}
		opt := proguard.Option{Name: strings.TrimPrefix(k.Value, "-")}
		if v.Tag != "!!null" {
			opt.Value = v.Value
		}
		opts = append(opts, opt)
	}
	*o = opts
	return nil
}
