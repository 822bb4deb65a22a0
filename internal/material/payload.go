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
	"encoding/json"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// DropPayload is the descriptor carried by a palette drag: the material type and a label.
type DropPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

const dropSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id"],
  "properties": {
    "id":   {"type": "string", "minLength": 1, "pattern": "^[A-Za-z0-9_.-]+$"},
    "name": {"type": "string"}
  }
}`

var dropSchemaLoader = gojsonschema.NewStringLoader(dropSchema)

// ParseDropPayload decodes drag data. Any parse or validation failure wraps ErrMalformedPayload.
func ParseDropPayload(data []byte) (DropPayload, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return DropPayload{}, fmt.Errorf("%w: empty", ErrMalformedPayload)
	}
	res, err := gojsonschema.Validate(dropSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return DropPayload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return DropPayload{}, fmt.Errorf("%w: %s", ErrMalformedPayload, strings.Join(msgs, "; "))
	}
	var p DropPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return DropPayload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return p, nil
}

// Encode is the inverse of ParseDropPayload, used by palettes and scripts.
func (p DropPayload) Encode() []byte {
	b, _ := json.Marshal(p)
	return b
}
