package config

import (
	"fmt"

	"framekit/pkg/clique"
)

// AssembleConfig configures sequence grouping.
type AssembleConfig struct {
	Patterns                  []string `yaml:"patterns"`       // raw expressions with index/padding groups
	NamedPatterns             []string `yaml:"named_patterns"` // keys of clique.Patterns, e.g. frames
	MinimumItems              int      `yaml:"minimum_items"`
	CaseSensitive             bool     `yaml:"case_sensitive"`
	AssumePaddedWhenAmbiguous bool     `yaml:"assume_padded_when_ambiguous"`
}

// Options converts the config into clique.Assemble options. With no
// patterns configured the digits pattern applies.
func (a AssembleConfig) Options() ([]clique.Option, error) {
	opts := []clique.Option{
		clique.WithMinimumItems(a.MinimumItems),
		clique.WithCaseSensitive(a.CaseSensitive),
		clique.WithAssumePaddedWhenAmbiguous(a.AssumePaddedWhenAmbiguous),
	}

	sources := append([]string(nil), a.Patterns...)
	for _, name := range a.NamedPatterns {
		source, ok := clique.Patterns[name]
		if !ok {
			return nil, fmt.Errorf("assemble.named_patterns: unknown pattern %q", name)
		}
		sources = append(sources, source)
	}
	if len(sources) > 0 {
		opts = append(opts, clique.WithPatterns(sources...))
	}

	// Surface bad expressions at config time rather than on first scan.
	if _, _, err := clique.Assemble(nil, opts...); err != nil {
		return nil, fmt.Errorf("assemble.patterns: %w", err)
	}
	return opts, nil
}
