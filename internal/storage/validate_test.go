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
	"encoding/json"
	"errors"
	"strings"
	"testing"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

func TestSamplePageConformsToSchema(t *testing.T) {
	data, err := encodePage(samplePage())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(PageSchemaJSON()), gojsonschema.NewBytesLoader(data))
	if err != nil {
		t.Fatalf("schema validate error: %v", err)
	}
	if !result.Valid() {
		for _, e := range result.Errors() {
			t.Logf("schema error: %s", e)
		}
		t.Fatalf("page does not conform to schema")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"missing components", `{"id":"p","width":10,"height":10}`, "components"},
		{"zero width", `{"id":"p","width":0,"height":10,"components":[]}`, "width"},
		{"bad component id", `{"id":"p","width":10,"height":10,"components":[{"id":"a b","type":"text","visible":true,"lock":false,"style":{"left":0,"top":0,"width":1,"height":1}}]}`, "id"},
		{"negative size", `{"id":"p","width":10,"height":10,"components":[{"id":"a","type":"text","visible":true,"lock":false,"style":{"left":0,"top":0,"width":-1,"height":1}}]}`, "width"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate([]byte(tc.doc))
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if !strings.Contains(ve.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", ve, tc.want)
			}
		})
	}
}

func TestValidateDetectsDuplicateIDsInsideGroups(t *testing.T) {
	p := samplePage()
	p.Components[1].Children[0].ID = "t1"
	data, _ := json.Marshal(p)
	err := Validate(data)
	if err == nil || !strings.Contains(err.Error(), `duplicate component id "t1"`) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestValidateRejectsNonJSON(t *testing.T) {
	if err := Validate([]byte("nope")); err == nil {
		t.Fatalf("expected error for non-JSON input")
	}
}
