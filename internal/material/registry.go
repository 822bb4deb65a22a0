/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package material resolves palette entries dropped on the canvas into fresh
// component instances. The built-in catalog is embedded; callers can register
// further materials at runtime.
package material

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"pagecanvas/internal/domain"
)

//go:embed catalog.yaml
var builtinCatalog []byte

var (
	// ErrUnknownMaterial is returned when a drop names a type that is not registered.
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrMalformedPayload is returned when drop data is not a valid descriptor.
	ErrMalformedPayload = errors.New("malformed drop payload")
)

// Template is the default schema of a new instance.
type Template struct {
	Style     domain.Style
	Props     map[string]any
	Visible   bool
	Lock      bool
	Animation *domain.Animation
}

// Material is one palette entry.
type Material struct {
	ID       string
	Name     string
	Category string
	Template Template
}

// Registry maps material types to templates. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Material
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{items: make(map[string]Material)} }

// Builtin returns a registry loaded with the embedded catalog.
func Builtin() *Registry {
	r := NewRegistry()
	if err := r.LoadCatalog(bytes.NewReader(builtinCatalog)); err != nil {
		// embedded content is fixed at build time
		panic(fmt.Sprintf("material: builtin catalog: %v", err))
	}
	return r
}

type catalogFile struct {
	Version   int            `yaml:"version"`
	Materials []catalogEntry `yaml:"materials"`
}

type catalogEntry struct {
	ID        string          `yaml:"id"`
	Name      string          `yaml:"name"`
	Category  string          `yaml:"category"`
	Width     float64         `yaml:"width"`
	Height    float64         `yaml:"height"`
	Visible   *bool           `yaml:"visible"`
	Lock      bool            `yaml:"lock"`
	Props     map[string]any  `yaml:"props"`
	Animation *animationEntry `yaml:"animation"`
}

type animationEntry struct {
	Enable         bool    `yaml:"enable"`
	Name           string  `yaml:"name"`
	Duration       float64 `yaml:"duration"`
	Delay          float64 `yaml:"delay"`
	IterationCount int     `yaml:"iterationCount"`
	Direction      string  `yaml:"direction"`
	Speed          string  `yaml:"speed"`
}

// LoadCatalog reads a YAML catalog and registers every entry in it.
func (r *Registry) LoadCatalog(rd io.Reader) error {
	var f catalogFile
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("decode material catalog: %w", err)
	}
	for i, e := range f.Materials {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("material catalog entry %d: missing id", i)
		}
		if e.Width <= 0 || e.Height <= 0 {
			return fmt.Errorf("material %q: width and height must be positive", e.ID)
		}
		r.Register(e.material())
	}
	return nil
}

func (e catalogEntry) material() Material {
	visible := true
	if e.Visible != nil {
		visible = *e.Visible
	}
	m := Material{
		ID:       e.ID,
		Name:     e.Name,
		Category: e.Category,
		Template: Template{
			Style:   domain.Style{Width: e.Width, Height: e.Height, Scale: 1},
			Props:   e.Props,
			Visible: visible,
			Lock:    e.Lock,
		},
	}
	if a := e.Animation; a != nil {
		m.Template.Animation = &domain.Animation{
			Enable: a.Enable, Name: a.Name, Duration: a.Duration, Delay: a.Delay,
			IterationCount: a.IterationCount, Direction: a.Direction, Speed: a.Speed,
		}
	}
	return m
}

// Register adds or replaces a material.
func (r *Registry) Register(m Material) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[m.ID] = m
}

// Lookup returns the material registered under id.
func (r *Registry) Lookup(id string) (Material, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.items[id]
	return m, ok
}

// List returns all materials sorted by category then id.
func (r *Registry) List() []Material {
	r.mu.RLock()
	out := make([]Material, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, m)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Instantiate builds a component for payload with the given id. Left and top
// are zero; callers place it. Name defaults to the material name.
func (r *Registry) Instantiate(p DropPayload, id string) (domain.ComponentSchema, error) {
	m, ok := r.Lookup(p.ID)
	if !ok {
		return domain.ComponentSchema{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, p.ID)
	}
	name := p.Name
	if name == "" {
		name = m.Name
	}
	c := domain.ComponentSchema{
		ID:      id,
		Type:    m.ID,
		Name:    name,
		Style:   m.Template.Style,
		Visible: m.Template.Visible,
		Lock:    m.Template.Lock,
		Props:   m.Template.Props,
	}
	if m.Template.Animation != nil {
		a := *m.Template.Animation
		c.Animation = &a
	}
	// detach from the registry's template maps
	return c.Clone(), nil
}

// NewID returns a fresh component id prefixed with the material type.
func NewID(materialType string) string {
	prefix := strings.TrimSpace(materialType)
	if prefix == "" {
		prefix = "cmp"
	}
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
