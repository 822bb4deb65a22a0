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

import (
	"encoding/json"
	"testing"
)

func TestPageJSONUsesExternalFieldNames(t *testing.T) {
	p := PageSchema{
		ID:          "page-1",
		Width:       1920,
		Height:      1080,
		Background:  Background{UseType: "color", Color: "#000"},
		AdapterType: "full-screen",
		Filter:      Filter{Open: true, Contrast: 100},
		GlobalCSS:   ".a{}",
		Components:  []ComponentSchema{},
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"adapterType", "globalCss", "background", "filter", "components"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("expected key %q in %s", k, string(b))
		}
	}
	bg := m["background"].(map[string]any)
	if bg["useType"] != "color" {
		t.Fatalf("background.useType = %v", bg["useType"])
	}
}

func TestStylePatchPreservesOmittedFields(t *testing.T) {
	s := Style{Left: 1, Top: 2, Width: 3, Height: 4, RotateZ: 45, Scale: 1}
	got := StylePatch{Left: F(10)}.Apply(s)
	if got.Left != 10 || got.Top != 2 || got.Width != 3 || got.RotateZ != 45 || got.Scale != 1 {
		t.Fatalf("unexpected merge result: %+v", got)
	}
}

func TestComponentPatchMergesProps(t *testing.T) {
	c := ComponentSchema{ID: "a", Type: "text", Props: map[string]any{"text": "hi", "size": 12}}
	got := ComponentPatch{Props: map[string]any{"size": 14}, Visible: B(true)}.Apply(c)
	if got.Props["text"] != "hi" || got.Props["size"] != 14 || !got.Visible {
		t.Fatalf("unexpected patch result: %+v", got)
	}
	if c.Props["size"] != 12 {
		t.Fatalf("original props mutated: %+v", c.Props)
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := ComponentSchema{
		ID:        "g",
		Group:     true,
		Animation: &Animation{Name: "fade"},
		Props:     map[string]any{"series": []any{map[string]any{"v": 1}}},
		Children:  []ComponentSchema{{ID: "a", Props: map[string]any{"k": "v"}}},
	}
	cp := c.Clone()
	cp.Children[0].Props["k"] = "changed"
	cp.Animation.Name = "slide"
	cp.Props["series"].([]any)[0].(map[string]any)["v"] = 2
	if c.Children[0].Props["k"] != "v" {
		t.Fatalf("child props shared with clone")
	}
	if c.Animation.Name != "fade" {
		t.Fatalf("animation shared with clone")
	}
	if c.Props["series"].([]any)[0].(map[string]any)["v"] != 1 {
		t.Fatalf("nested props shared with clone")
	}
}

func TestWalkVisitsChildren(t *testing.T) {
	c := ComponentSchema{ID: "g", Children: []ComponentSchema{{ID: "a"}, {ID: "b", Children: []ComponentSchema{{ID: "c"}}}}}
	var ids []string
	c.Walk(func(x ComponentSchema) { ids = append(ids, x.ID) })
	if len(ids) != 4 || ids[0] != "g" || ids[3] != "c" {
		t.Fatalf("unexpected walk order: %v", ids)
	}
}
