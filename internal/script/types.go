/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package script

import "fmt"

// Script is a parsed gesture script: sections of steps replayed in order
// against an editor.
type Script struct {
	Sections []Section
}

// Section groups steps under a "#" heading.
type Section struct {
	Title string
	Steps []Step
}

// Op is the kind of a step.
type Op int

const (
	OpNote Op = iota
	OpDrop
	OpDown
	OpMove
	OpUp
	OpLeave
	OpFrame
	OpZoom
	OpSelect
	OpKey
	OpExpect
)

var opNames = map[string]Op{
	"drop":   OpDrop,
	"down":   OpDown,
	"move":   OpMove,
	"up":     OpUp,
	"leave":  OpLeave,
	"frame":  OpFrame,
	"zoom":   OpZoom,
	"select": OpSelect,
	"key":    OpKey,
	"expect": OpExpect,
}

func (o Op) String() string {
	for name, op := range opNames {
		if op == o {
			return name
		}
	}
	return "note"
}

// LastRef in select or expect names the component created by the most
// recent drop or paste.
const LastRef = "@last"

// Step is one line of a script. Only the fields of its Op are set.
// X and Y are screen pixels; HasPoint is false for "up" without coordinates.
type Step struct {
	Op       Op
	X, Y     float64
	HasPoint bool
	Shift    bool
	Pan      bool
	Material string
	Name     string
	Zoom     float64
	IDs      []string
	Command  string
	Args     []string
	Text     string
	LineNo   int // 1-based line number in the source
}

// Error represents a parse or run error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string { return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message) }

// Steps returns all steps in order, notes included.
func (s Script) Steps() []Step {
	var out []Step
	for _, sec := range s.Sections {
		out = append(out, sec.Steps...)
	}
	return out
}
