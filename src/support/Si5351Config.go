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
	"errors"
	"fmt"
)

const (
	// largest denominator of the fractional part of a Si5351 divider
	maxDenominator = 1<<20 - 1

	feedbackMin = 15
	feedbackMax = 90
)

// Divider is a Si5351 divider ratio of the form A + B/C.
type Divider struct {
	A, B, C uint32
}

// Integer reports whether the divider has no fractional part.
func (d Divider) Integer() bool {
	return d.B == 0
}

/*
Params encodes the divider as the P1, P2 and P3 values that the Si5351
wants in its registers (AN619, section 3.2):

	P1 = 128*A + floor(128*B/C) - 512
	P2 = 128*B - C*floor(128*B/C)
	P3 = C
*/
func (d Divider) Params() (p1, p2, p3 uint32) {
	f := 128 * uint64(d.B) / uint64(d.C)
	p1 = uint32(128*uint64(d.A) + f - 512)
	p2 = uint32(128*uint64(d.B) - uint64(d.C)*f)
	p3 = d.C
	return p1, p2, p3
}

func (d Divider) String() string {
	return fmt.Sprintf("%d+%d/%d", d.A, d.B, d.C)
}

type Si5351Config struct {
	Xtal     uint64  // reference crystal (Hz)
	Pll      uint64  // requested PLL frequency (Hz)
	Feedback Divider // PLL feedback multisynth
	Eps      float64 // requested minus achieved PLL frequency (Hz)
}

/*
NewPllConfig computes the feedback divider that takes the PLL from the
crystal frequency `xtal` to `pll`, both in Hz.

The integer part of pll/xtal comes straight from integer division. The
remainder is approximated with NearestFraction so that the denominator fits
in the 20 bits the chip allows. For the round numbers that quadrature
synthesis produces the fraction is usually exact.

An error is returned if the PLL is outside the VCO range or the feedback
ratio is outside what the chip can do.
*/
func NewPllConfig(xtal, pll uint64) (Si5351Config, error) {
	if xtal < 10e6 || xtal > 40e6 {
		return Si5351Config{}, errors.New("Si5351Config: invalid crystal frequency")
	}
	if pll < PllMin || pll > PllMax {
		return Si5351Config{}, fmt.Errorf("Si5351Config: pll %d is out of range", pll)
	}
	a := pll / xtal
	b, c := NearestFraction(pll%xtal, xtal, maxDenominator)
	if b >= c {
		a++
		b -= c
	}
	if b == 0 {
		c = 1
	}
	if a < feedbackMin || a > feedbackMax {
		return Si5351Config{}, fmt.Errorf("Si5351Config: feedback ratio %d out of range", a)
	}
	r := Si5351Config{
		Xtal:     xtal,
		Pll:      pll,
		Feedback: Divider{A: uint32(a), B: uint32(b), C: uint32(c)},
	}
	r.Eps = float64(pll) - float64(xtal)*(float64(a)+float64(b)/float64(c))
	return r, nil
}

// OutputDivider returns the integer multisynth divider that takes pll down to
// output. The ratio has to be exact.
func OutputDivider(pll, output uint64) (Divider, error) {
	if output == 0 || pll%output != 0 {
		return Divider{}, fmt.Errorf("Si5351Config: %d is not a multiple of %d", pll, output)
	}
	r := pll / output
	if r < DividerMin || r > 2048 {
		return Divider{}, fmt.Errorf("Si5351Config: output divider %d out of range", r)
	}
	return Divider{A: uint32(r), C: 1}, nil
}
