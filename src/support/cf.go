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

/*
NearestFraction returns p/q ≈ a/b with q <= maxDenominator.

The answer is the last convergent of the continued fraction of a/b whose
denominator still fits. Convergents are the best rational approximations
for their denominator, which is what we want when squeezing a feedback
ratio like 35.1424 into the a + b/c form of a PLL with c < 2^20.

Each step peels off the integer part t = a/b and inverts the remainder. The
numerators and denominators of the convergents follow the usual recurrence

	h(n) = t(n) * h(n-1) + h(n-2)
	k(n) = t(n) * k(n-1) + k(n-2)

starting from h(-1) = 1, h(-2) = 0, k(-1) = 0, k(-2) = 1. We stop at the first
term whose denominator is too big or when the remainder runs out, in which
case the answer is exact.

b must not be zero.
*/
func NearestFraction(a, b, maxDenominator uint64) (p, q uint64) {
	h1, h2 := uint64(1), uint64(0)
	k1, k2 := uint64(0), uint64(1)
	for {
		t := a / b
		h := t*h1 + h2
		k := t*k1 + k2
		if k > maxDenominator {
			break
		}
		h2, h1 = h1, h
		k2, k1 = k1, k
		rem := a - t*b
		if rem == 0 {
			break
		}
		a, b = b, rem
	}
	return h1, k1
}
