/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the page schema persisted externally and rendered by a separate runtime.
// Field names and JSON tags follow the page document shape; style values are canvas-space pixels.

// PageSchema is the persisted page document.
// The editor splits Components and State into its own stores on load and re-merges them on save.
type PageSchema struct {
	ID            string              `json:"id"`
	Width         float64             `json:"width"`
	Height        float64             `json:"height"`
	Background    Background          `json:"background"`
	AdapterType   string              `json:"adapterType,omitempty"`
	Filter        Filter              `json:"filter"`
	GlobalHeaders []map[string]string `json:"globalHeaders,omitempty"`
	GlobalCSS     string              `json:"globalCss,omitempty"`
	State         map[string]any      `json:"state,omitempty"`
	Components    []ComponentSchema   `json:"components"`
}

// Background describes the page backdrop. UseType is "color" or "image".
type Background struct {
	UseType string `json:"useType"`
	Color   string `json:"color,omitempty"`
	Image   string `json:"image,omitempty"`
}

// Filter holds page-wide CSS filter settings.
type Filter struct {
	Open       bool    `json:"open"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Brightness float64 `json:"brightness"`
	Opacity    float64 `json:"opacity"`
}

// ComponentSchema is one placed material instance on a page.
// ID and Type are immutable once created. When Group is true, Children hold the
// member components whose Style is relative to this component's origin.
type ComponentSchema struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Name      string            `json:"name"`
	Style     Style             `json:"style"`
	Visible   bool              `json:"visible"`
	Lock      bool              `json:"lock"`
	Animation *Animation        `json:"animation,omitempty"`
	Props     map[string]any    `json:"props,omitempty"`
	Group     bool              `json:"group,omitempty"`
	Children  []ComponentSchema `json:"children,omitempty"`
}

// Style is the geometry and transform box of a component.
type Style struct {
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	RotateX float64 `json:"rotateX"`
	RotateY float64 `json:"rotateY"`
	RotateZ float64 `json:"rotateZ"`
	SkewX   float64 `json:"skewX"`
	SkewY   float64 `json:"skewY"`
	Scale   float64 `json:"scale"`
}

// Animation is consumed only by the render runtime.
type Animation struct {
	Enable         bool    `json:"enable"`
	Name           string  `json:"name"`
	Duration       float64 `json:"duration"`
	Delay          float64 `json:"delay"`
	IterationCount int     `json:"iterationCount"`
	Direction      string  `json:"direction,omitempty"`
	Speed          string  `json:"speed,omitempty"`
}

// Position is a left/top pair in canvas space.
type Position struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// Size is a width/height pair in canvas space.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Box is the axis-aligned placement of a component.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s Style) Box() Box { return Box{Left: s.Left, Top: s.Top, Width: s.Width, Height: s.Height} }

func (s Style) Position() Position { return Position{Left: s.Left, Top: s.Top} }

func (s Style) Size() Size { return Size{Width: s.Width, Height: s.Height} }

// WithBox returns a copy of s with the box fields replaced.
func (s Style) WithBox(b Box) Style {
	s.Left, s.Top, s.Width, s.Height = b.Left, b.Top, b.Width, b.Height
	return s
}

func (b Box) Position() Position { return Position{Left: b.Left, Top: b.Top} }

func (b Box) Size() Size { return Size{Width: b.Width, Height: b.Height} }

// StylePatch carries optional style fields; nil fields are preserved on merge.
type StylePatch struct {
	Left    *float64
	Top     *float64
	Width   *float64
	Height  *float64
	RotateX *float64
	RotateY *float64
	RotateZ *float64
	SkewX   *float64
	SkewY   *float64
	Scale   *float64
}

// Apply merges the patch into s key by key.
func (p StylePatch) Apply(s Style) Style {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.Left, p.Left)
	set(&s.Top, p.Top)
	set(&s.Width, p.Width)
	set(&s.Height, p.Height)
	set(&s.RotateX, p.RotateX)
	set(&s.RotateY, p.RotateY)
	set(&s.RotateZ, p.RotateZ)
	set(&s.SkewX, p.SkewX)
	set(&s.SkewY, p.SkewY)
	set(&s.Scale, p.Scale)
	return s
}

// ComponentPatch is a partial update for a component. ID and Type are never patched.
type ComponentPatch struct {
	Name      *string
	Style     *StylePatch
	Visible   *bool
	Lock      *bool
	Animation *Animation
	Props     map[string]any
}

// Apply merges the patch into a copy of c. Props keys are merged individually.
func (p ComponentPatch) Apply(c ComponentSchema) ComponentSchema {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Style != nil {
		c.Style = p.Style.Apply(c.Style)
	}
	if p.Visible != nil {
		c.Visible = *p.Visible
	}
	if p.Lock != nil {
		c.Lock = *p.Lock
	}
	if p.Animation != nil {
		a := *p.Animation
		c.Animation = &a
	}
	if len(p.Props) > 0 {
		merged := make(map[string]any, len(c.Props)+len(p.Props))
		for k, v := range c.Props {
			merged[k] = v
		}
		for k, v := range p.Props {
			merged[k] = v
		}
		c.Props = merged
	}
	return c
}

// F returns a pointer to v; handy for building patches.
func F(v float64) *float64 { return &v }

// B returns a pointer to v.
func B(v bool) *bool { return &v }

// S returns a pointer to v.
func S(v string) *string { return &v }
