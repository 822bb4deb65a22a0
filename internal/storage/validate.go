/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"pagecanvas/internal/domain"
)

//go:embed page.schema.json
var pageSchemaJSON []byte

var pageSchema = gojsonschema.NewBytesLoader(pageSchemaJSON)

// PageSchemaJSON returns the embedded page JSON schema.
func PageSchemaJSON() []byte { return append([]byte(nil), pageSchemaJSON...) }

// ValidationError lists every problem found in a page document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("page invalid: %s", strings.Join(e.Problems, "; "))
}

// Validate checks a page document against the embedded schema and verifies
// that component ids are unique across the page, group members included.
func Validate(data []byte) error {
	res, err := gojsonschema.Validate(pageSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate page: %w", err)
	}
	var problems []string
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	if res.Valid() {
		var p domain.PageSchema
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("parse page: %w", err)
		}
		problems = append(problems, duplicateIDs(p.Components)...)
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func duplicateIDs(cs []domain.ComponentSchema) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range cs {
		c.Walk(func(x domain.ComponentSchema) {
			if seen[x.ID] {
				out = append(out, fmt.Sprintf("duplicate component id %q", x.ID))
			}
			seen[x.ID] = true
		})
	}
	return out
}
