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
	PllMin = 600_000_000 // lowest VCO frequency (Hz)
	PllMax = 900_000_000 // highest VCO frequency (Hz)

	DividerMin = 4   // smallest integer output divider we will use
	DividerMax = 900 // largest integer output divider we will use

	// MaxPhase is the largest value the 7-bit phase offset register holds.
	MaxPhase = 127
)

// ErrUnreachable means that no integer divider puts the PLL for the requested
// output frequency inside the VCO range.
var ErrUnreachable = errors.New("quadrature: no divider reaches the VCO range")

// Plan describes how to produce two outputs at the same frequency a quarter
// period apart from a single PLL.
type Plan struct {
	Output      uint64 // output frequency in Hz, calibration included
	Pll         uint64 // PLL frequency in Hz, always Output * Divider
	Divider     uint32 // integer output divider, always a multiple of 4
	Phase       uint8  // phase offset for the quadrature channel in PLL quarter periods
	PhaseCapped bool   // Phase is clipped at MaxPhase and is not exactly 90°
}

func (p Plan) String() string {
	return fmt.Sprintf("f=%d pll=%d R=%d phase=%d capped=%v", p.Output, p.Pll, p.Divider, p.Phase, p.PhaseCapped)
}

/*
Synthesize picks a PLL frequency and an integer output divider R for the
frequency `frequency + offset` so that the phase offset register can put the
second output a quarter period behind the first.

In integer mode, one unit of phase offset is a quarter period of the PLL, so a
quarter period of the output is exactly R units. The register is only 7 bits,
so exact quadrature needs R <= 127. The largest such multiple of 4 that keeps
the PLL in range is preferred. When every workable divider is bigger than
that, the smallest multiple of 4 is used and the phase is capped at 127.

The result depends only on the arguments. ErrUnreachable is returned when
the target is zero or no divider places the PLL within [PllMin, PllMax].
*/
func Synthesize(frequency uint32, offset int32) (Plan, error) {
	target := int64(frequency) + int64(offset)
	if target <= 0 {
		return Plan{}, ErrUnreachable
	}
	fout := uint64(target)

	rmin := ceilDiv(PllMin, fout)
	rmax := PllMax / fout
	if rmin < DividerMin {
		rmin = DividerMin
	}
	if rmax > DividerMax {
		rmax = DividerMax
	}
	if rmax < DividerMin {
		rmax = DividerMin
	}

	var r uint64
	capped := false
	if exact := min(rmax, MaxPhase) &^ 3; exact >= rmin && exact >= DividerMin {
		r = exact
	} else {
		r = (rmin + 3) &^ 3
		if r > rmax {
			return Plan{}, ErrUnreachable
		}
		capped = r > MaxPhase
	}

	pll := fout * r
	if pll < PllMin || pll > PllMax {
		return Plan{}, ErrUnreachable
	}

	phase := uint8(MaxPhase)
	if r <= MaxPhase {
		phase = uint8(r)
	}
	return Plan{
		Output:      fout,
		Pll:         pll,
		Divider:     uint32(r),
		Phase:       phase,
		PhaseCapped: capped,
	}, nil
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}
