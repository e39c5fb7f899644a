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

import "time"

/*
Micros assembles a 64-bit microsecond timer from two reads of its high and
low 32-bit halves, taken in the order hi1, lo1, hi2, lo2.

The halves can't be read at the same instant, so the low word may roll over
between the reads. If the high word didn't change, lo1 belongs with it. If it
did change, the carry happened somewhere in between and the second pair is
consistent.

This is cheap enough to call from the encoder interrupt.
*/
func Micros(hi1, lo1, hi2, lo2 uint32) uint64 {
	if hi1 == hi2 {
		return uint64(hi1)<<32 | uint64(lo1)
	}
	return uint64(hi2)<<32 | uint64(lo2)
}

// Since converts a microsecond timestamp to a Duration so that it can be
// compared with the debounce and double-click windows.
func Since(micros uint64) time.Duration {
	return time.Duration(micros) * time.Microsecond
}
