/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package history

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKind is returned by Unmarshal for an envelope with an unrecognised kind.
var ErrUnknownKind = errors.New("unknown history record kind")

type envelope struct {
	Kind    Kind            `json:"kind"`
	Meta    Meta            `json:"meta"`
	Payload json.RawMessage `json:"payload"`
}

// Marshal encodes r as {kind, meta, payload} for the persisted journal.
func Marshal(r Record) ([]byte, error) {
	if r == nil {
		return nil, errors.New("nil record")
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", r.Meta().Kind, err)
	}
	meta := r.Meta()
	return json.Marshal(envelope{Kind: meta.Kind, Meta: meta, Payload: payload})
}

// Unmarshal decodes an envelope produced by Marshal.
func Unmarshal(b []byte) (Record, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode record envelope: %w", err)
	}
	var r Record
	switch env.Kind {
	case KindAdd:
		r = &AddRecord{}
	case KindAddMultiple:
		r = &AddMultipleRecord{}
	case KindDelete:
		r = &DeleteRecord{}
	case KindDeleteMultiple:
		r = &DeleteMultipleRecord{}
	case KindMove:
		r = &MoveRecord{}
	case KindMoveMultiple:
		r = &MoveMultipleRecord{}
	case KindSize:
		r = &SizeRecord{}
	case KindGroup:
		r = &GroupRecord{}
	case KindSplit:
		r = &SplitRecord{}
	case KindLock:
		r = &LockRecord{}
	case KindUnlock:
		r = &UnlockRecord{}
	case KindVisible:
		r = &VisibleRecord{}
	case KindHidden:
		r = &HiddenRecord{}
	case KindLayer:
		r = &LayerRecord{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}
	if err := json.Unmarshal(env.Payload, r); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", env.Kind, err)
	}
	setMeta(r, env.Meta)
	return r, nil
}

func setMeta(r Record, m Meta) {
	switch v := r.(type) {
	case *AddRecord:
		v.Info = m
	case *AddMultipleRecord:
		v.Info = m
	case *DeleteRecord:
		v.Info = m
	case *DeleteMultipleRecord:
		v.Info = m
	case *MoveRecord:
		v.Info = m
	case *MoveMultipleRecord:
		v.Info = m
	case *SizeRecord:
		v.Info = m
	case *GroupRecord:
		v.Info = m
	case *SplitRecord:
		v.Info = m
	case *LockRecord:
		v.Info = m
	case *UnlockRecord:
		v.Info = m
	case *VisibleRecord:
		v.Info = m
	case *HiddenRecord:
		v.Info = m
	case *LayerRecord:
		v.Info = m
	}
}
