/*
 * Copyright 2025 Ted Dunning
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package support

import (
	"testing"
	"time"
)

func Test_micros(t *testing.T) {
	tests := []struct {
		hi1, lo1, hi2, lo2 uint32
		want               uint64
	}{
		{100, 40, 100, 45, 100<<32 + 40},
		{100, 0xffff_fff5, 101, 3, 101<<32 + 3},
		{7, 0, 7, 0, 7 << 32},
	}
	for _, tt := range tests {
		got := Micros(tt.hi1, tt.lo1, tt.hi2, tt.lo2)
		if got != tt.want {
			t.Errorf("Micros(%d, %d, %d, %d) = %d, want %d", tt.hi1, tt.lo1, tt.hi2, tt.lo2, got, tt.want)
		}
	}
	if Since(1500) != 1500*time.Microsecond {
		t.Errorf("Since(1500) = %s", Since(1500))
	}
}
