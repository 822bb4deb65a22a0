/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
}

func TestBoundingBox(t *testing.T) {
	if _, ok := BoundingBox(nil); ok {
		t.Fatalf("expected empty input to report !ok")
	}
	b, ok := BoundingBox([]Rect{R(10, 10, 10, 10), R(50, 0, 20, 5), R(0, 40, 5, 5)})
	if !ok || b != R(0, 0, 70, 45) {
		t.Fatalf("unexpected bbox: %+v", b)
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 {
		t.Fatalf("unexpected transform result: %+v", p)
	}
	q := m.Invert().Apply(p)
	if math.Abs(q.X-1) > 1e-9 || math.Abs(q.Y-1) > 1e-9 {
		t.Fatalf("inverse did not round-trip: %+v", q)
	}
}

func TestHitRotated(t *testing.T) {
	r := R(0, 0, 100, 10) // long thin bar centered at (50,5)
	if !HitRotated(r, 0, Pt{90, 5}) {
		t.Fatalf("unrotated bar should contain (90,5)")
	}
	// After a 90 degree turn the bar is vertical around its center.
	if HitRotated(r, 90, Pt{90, 5}) {
		t.Fatalf("rotated bar should not contain (90,5)")
	}
	if !HitRotated(r, 90, Pt{50, 45}) {
		t.Fatalf("rotated bar should contain (50,45)")
	}
}
