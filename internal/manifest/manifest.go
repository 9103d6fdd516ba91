// Package manifest defines the overlay set reoverlay maintains: which files
// are targeted and the banner, fixed edits, and canonical list blocks each
// one must carry. The built-in defaults cover the embedded-llama fork; an
// optional YAML manifest file can replace them. The manifest describes the
// overlay definitions only — target files stay opaque text.
package manifest

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/embeddedllama/reoverlay/pkg/errors"
	"github.com/embeddedllama/reoverlay/pkg/overlay"
)

// Manifest is the full overlay set, in the fixed order targets run.
type Manifest struct {
	Targets []TargetSpec `yaml:"targets"`
}

// TargetSpec describes one target file and its reconcilers. Reconcilers run
// banner first, then list blocks, then edits.
type TargetSpec struct {
	Path     string      `yaml:"path"`
	Optional bool        `yaml:"optional,omitempty"`
	Banner   *BannerSpec `yaml:"banner,omitempty"`
	Lists    []ListSpec  `yaml:"lists,omitempty"`
	Edits    []EditsSpec `yaml:"edits,omitempty"`
}

// BannerSpec describes a banner presence reconciliation.
type BannerSpec struct {
	Label          string `yaml:"label"`
	Text           string `yaml:"text"`
	OriginalPrefix string `yaml:"original_prefix"`
}

// ListSpec describes an ordered-list reconciliation.
type ListSpec struct {
	Label      string   `yaml:"label"`
	Marker     string   `yaml:"marker"`
	ItemPrefix string   `yaml:"item_prefix"`
	Items      []string `yaml:"items"`
}

// EditsSpec groups fixed edits under one report label.
type EditsSpec struct {
	Label string     `yaml:"label"`
	Edits []EditSpec `yaml:"edits"`
}

// EditSpec describes one literal needle→replacement edit.
type EditSpec struct {
	Marker      string `yaml:"marker,omitempty"`
	Needle      string `yaml:"needle"`
	Replacement string `yaml:"replacement,omitempty"`
	Optional    bool   `yaml:"optional,omitempty"`
}

// Load reads and validates an overlay manifest from a YAML file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that every target carries enough definition to reconcile.
func (m *Manifest) Validate() error {
	if len(m.Targets) == 0 {
		return &errors.ValidationError{Field: "targets", Message: "manifest defines no targets"}
	}
	for _, t := range m.Targets {
		if t.Path == "" {
			return &errors.ValidationError{Field: "targets.path", Message: "target has no path"}
		}
		if t.Banner == nil && len(t.Lists) == 0 && len(t.Edits) == 0 {
			return &errors.ValidationError{Field: "targets", Message: t.Path + " has no reconcilers"}
		}
		if t.Banner != nil {
			if t.Banner.Text == "" || t.Banner.OriginalPrefix == "" {
				return &errors.ValidationError{Field: "banner", Message: t.Path + ": banner needs text and original_prefix"}
			}
		}
		for _, l := range t.Lists {
			if l.Marker == "" || l.ItemPrefix == "" || len(l.Items) == 0 {
				return &errors.ValidationError{Field: "lists", Message: t.Path + ": list needs marker, item_prefix and items"}
			}
		}
		for _, g := range t.Edits {
			if len(g.Edits) == 0 {
				return &errors.ValidationError{Field: "edits", Message: t.Path + ": edit group is empty"}
			}
			for _, e := range g.Edits {
				if e.Needle == "" {
					return &errors.ValidationError{Field: "edits.needle", Message: t.Path + ": edit has no needle"}
				}
				if !e.Optional && e.Replacement == "" {
					return &errors.ValidationError{Field: "edits.optional", Message: t.Path + ": pure deletion must be optional to stay idempotent"}
				}
				if !e.Optional && e.Marker == "" && e.Replacement != "" {
					return &errors.ValidationError{Field: "edits.marker", Message: t.Path + ": required insertion needs an already-applied marker"}
				}
			}
		}
	}
	return nil
}

// Overlays converts the manifest into runnable targets.
func (m *Manifest) Overlays() []overlay.Target {
	targets := make([]overlay.Target, 0, len(m.Targets))
	for _, t := range m.Targets {
		var recs []overlay.Reconciler
		if t.Banner != nil {
			recs = append(recs, overlay.NewBanner(t.Banner.Label, t.Banner.Text, t.Banner.OriginalPrefix))
		}
		for _, l := range t.Lists {
			recs = append(recs, overlay.NewListBlock(l.Label, l.Marker, l.ItemPrefix, l.Items))
		}
		for _, g := range t.Edits {
			edits := make([]overlay.Edit, 0, len(g.Edits))
			for _, e := range g.Edits {
				edits = append(edits, overlay.Edit{
					Marker:      e.Marker,
					Needle:      e.Needle,
					Replacement: e.Replacement,
					Optional:    e.Optional,
				})
			}
			recs = append(recs, overlay.NewEdits(g.Label, edits...))
		}
		targets = append(targets, overlay.Target{
			Path:        t.Path,
			Optional:    t.Optional,
			Reconcilers: recs,
		})
	}
	return targets
}
