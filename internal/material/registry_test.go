/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package material

import (
	"errors"
	"strings"
	"testing"
)

func TestBuiltinCatalogHasTextTemplate(t *testing.T) {
	r := Builtin()
	m, ok := r.Lookup("text")
	if !ok {
		t.Fatalf("text material missing from builtin catalog")
	}
	if m.Template.Style.Width != 200 || m.Template.Style.Height != 40 || !m.Template.Visible {
		t.Fatalf("unexpected text template: %+v", m.Template)
	}
	if len(r.List()) < 5 {
		t.Fatalf("expected the builtin palette to carry several materials")
	}
}

func TestInstantiateDetachesTemplate(t *testing.T) {
	r := Builtin()
	c, err := r.Instantiate(DropPayload{ID: "text", Name: "Headline"}, "text_1")
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if c.ID != "text_1" || c.Type != "text" || c.Name != "Headline" {
		t.Fatalf("unexpected component: %+v", c)
	}
	c.Props["text"] = "mutated"
	again, _ := r.Instantiate(DropPayload{ID: "text"}, "text_2")
	if again.Props["text"] == "mutated" {
		t.Fatalf("instances share the template props map")
	}
	if again.Name != "文本" {
		t.Fatalf("name should default to the material name, got %q", again.Name)
	}
}

func TestInstantiateUnknownMaterial(t *testing.T) {
	_, err := Builtin().Instantiate(DropPayload{ID: "hologram"}, "x")
	if !errors.Is(err, ErrUnknownMaterial) {
		t.Fatalf("expected ErrUnknownMaterial, got %v", err)
	}
}

func TestParseDropPayload(t *testing.T) {
	p, err := ParseDropPayload([]byte(`{"id":"text","name":"文本"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.ID != "text" || p.Name != "文本" {
		t.Fatalf("unexpected payload %+v", p)
	}
	bad := []string{``, `not json`, `{}`, `{"id":""}`, `{"id":42}`, `["text"]`, `{"id":"has space"}`}
	for _, in := range bad {
		if _, err := ParseDropPayload([]byte(in)); !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("payload %q: expected ErrMalformedPayload, got %v", in, err)
		}
	}
	round, err := ParseDropPayload(DropPayload{ID: "bar", Name: "Sales"}.Encode())
	if err != nil || round.ID != "bar" || round.Name != "Sales" {
		t.Fatalf("encode round trip failed: %+v %v", round, err)
	}
}

func TestLoadCatalogValidatesEntries(t *testing.T) {
	r := NewRegistry()
	err := r.LoadCatalog(strings.NewReader("materials:\n  - id: gauge\n    width: 0\n    height: 10\n"))
	if err == nil {
		t.Fatalf("expected error for zero width")
	}
	err = r.LoadCatalog(strings.NewReader("materials:\n  - id: gauge\n    name: Gauge\n    width: 120\n    height: 120\n    visible: false\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m, ok := r.Lookup("gauge")
	if !ok || m.Template.Visible || m.Template.Style.Scale != 1 {
		t.Fatalf("unexpected gauge material: %+v", m)
	}
	if err := r.LoadCatalog(strings.NewReader("materials:\n  - id: x\n    colour: red\n")); err == nil {
		t.Fatalf("unknown catalog fields must be rejected")
	}
}

func TestNewIDIsPrefixedAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID("text")
		if !strings.HasPrefix(id, "text_") {
			t.Fatalf("unexpected id %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if !strings.HasPrefix(NewID(""), "cmp_") {
		t.Fatalf("empty type should fall back to cmp prefix")
	}
}
