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

// Clone returns a deep copy of c including children, props and animation.
// History records keep clones so later store mutations never leak into them.
func (c ComponentSchema) Clone() ComponentSchema {
	out := c
	if c.Animation != nil {
		a := *c.Animation
		out.Animation = &a
	}
	out.Props = cloneMap(c.Props)
	if c.Children != nil {
		out.Children = make([]ComponentSchema, len(c.Children))
		for i, ch := range c.Children {
			out.Children[i] = ch.Clone()
		}
	}
	return out
}

// CloneComponents deep-copies a component list.
func CloneComponents(in []ComponentSchema) []ComponentSchema {
	if in == nil {
		return nil
	}
	out := make([]ComponentSchema, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the page.
func (p PageSchema) Clone() PageSchema {
	out := p
	out.Components = CloneComponents(p.Components)
	out.State = cloneMap(p.State)
	if p.GlobalHeaders != nil {
		out.GlobalHeaders = make([]map[string]string, len(p.GlobalHeaders))
		for i, h := range p.GlobalHeaders {
			m := make(map[string]string, len(h))
			for k, v := range h {
				m[k] = v
			}
			out.GlobalHeaders[i] = m
		}
	}
	return out
}

// Walk visits c and all nested children depth-first.
func (c ComponentSchema) Walk(fn func(ComponentSchema)) {
	fn(c)
	for _, ch := range c.Children {
		ch.Walk(fn)
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	case []float64:
		return append([]float64(nil), t...)
	default:
		return v
	}
}
