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

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var reSection = regexp.MustCompile(`^(#+)\s*(.*)$`)

// Parse parses gesture script text. Supported syntax, one step per line:
//
//	# Section title
//	; note
//	drop <material> <x> <y> [name...]
//	down <x> <y> [shift] [pan]
//	move <x> <y> [shift] [pan]
//	up [<x> <y>]
//	leave
//	frame
//	zoom <factor> [<x> <y>]
//	select [<id|@last>...]
//	key <command> [args...]
//	expect <id|@last> <left> <top>
//
// Blank lines are ignored. Lines with errors are reported and skipped so one
// bad line does not hide the rest.
func Parse(input string) (Script, []Error) {
	s := Script{Sections: []Section{}}
	var errs []Error
	current := Section{}

	flush := func() {
		if strings.TrimSpace(current.Title) != "" || len(current.Steps) > 0 {
			s.Sections = append(s.Sections, current)
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		trim := strings.TrimSpace(scanner.Text())
		if trim == "" {
			continue
		}
		if m := reSection.FindStringSubmatch(trim); m != nil {
			flush()
			current = Section{Title: strings.TrimSpace(m[2])}
			continue
		}
		if strings.HasPrefix(trim, ";") {
			current.Steps = append(current.Steps, Step{Op: OpNote, Text: strings.TrimSpace(strings.TrimPrefix(trim, ";")), LineNo: lineNo})
			continue
		}
		if len(s.Sections) == 0 && current.Title == "" && len(current.Steps) == 0 {
			current.Title = "Untitled"
		}
		st, err := parseStep(strings.Fields(trim), lineNo)
		if err != nil {
			errs = append(errs, *err)
			continue
		}
		current.Steps = append(current.Steps, st)
	}
	flush()

	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}
	return s, errs
}

func parseStep(f []string, lineNo int) (Step, *Error) {
	fail := func(format string, args ...any) (Step, *Error) {
		return Step{}, &Error{Line: lineNo, Column: 1, Message: fmt.Sprintf(format, args...)}
	}
	op, ok := opNames[strings.ToLower(f[0])]
	if !ok {
		return fail("unknown step %q", f[0])
	}
	st := Step{Op: op, LineNo: lineNo}
	args := f[1:]
	switch op {
	case OpDrop:
		if len(args) < 3 {
			return fail("drop wants <material> <x> <y> [name]")
		}
		st.Material = args[0]
		if err := point(&st, args[1:3]); err != "" {
			return fail("drop: %s", err)
		}
		st.Name = strings.Join(args[3:], " ")
	case OpDown, OpMove:
		if len(args) < 2 {
			return fail("%s wants <x> <y>", op)
		}
		if err := point(&st, args[:2]); err != "" {
			return fail("%s: %s", op, err)
		}
		for _, m := range args[2:] {
			switch strings.ToLower(m) {
			case "shift":
				st.Shift = true
			case "pan":
				st.Pan = true
			default:
				return fail("%s: unknown modifier %q", op, m)
			}
		}
	case OpUp:
		switch len(args) {
		case 0:
		case 2:
			if err := point(&st, args); err != "" {
				return fail("up: %s", err)
			}
		default:
			return fail("up wants no arguments or <x> <y>")
		}
	case OpLeave, OpFrame:
		if len(args) != 0 {
			return fail("%s takes no arguments", op)
		}
	case OpZoom:
		if len(args) != 1 && len(args) != 3 {
			return fail("zoom wants <factor> [<x> <y>]")
		}
		z, err := strconv.ParseFloat(args[0], 64)
		if err != nil || z <= 0 {
			return fail("zoom: bad factor %q", args[0])
		}
		st.Zoom = z
		if len(args) == 3 {
			if err := point(&st, args[1:]); err != "" {
				return fail("zoom: %s", err)
			}
		}
	case OpSelect:
		st.IDs = append([]string(nil), args...)
	case OpKey:
		if len(args) == 0 {
			return fail("key wants <command>")
		}
		st.Command = strings.ToLower(args[0])
		st.Args = append([]string(nil), args[1:]...)
	case OpExpect:
		if len(args) != 3 {
			return fail("expect wants <id> <left> <top>")
		}
		st.IDs = []string{args[0]}
		if err := point(&st, args[1:]); err != "" {
			return fail("expect: %s", err)
		}
	}
	return st, nil
}

func point(st *Step, args []string) string {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Sprintf("bad x %q", args[0])
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Sprintf("bad y %q", args[1])
	}
	st.X, st.Y, st.HasPoint = x, y, true
	return ""
}
