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

import "fmt"

// Channel is one of the two clock outputs of the generator.
type Channel uint8

const (
	Reference  Channel = iota // CLK0, phase 0
	Quadrature                // CLK1, phase delayed by a quarter period
)

// Channels lists both outputs in programming order.
var Channels = [2]Channel{Reference, Quadrature}

func (c Channel) String() string {
	switch c {
	case Reference:
		return "I"
	case Quadrature:
		return "Q"
	default:
		return fmt.Sprintf("CLK%d", uint8(c))
	}
}

// PLL selects one of the synthesizer's two phase locked loops.
type PLL uint8

const (
	PllA PLL = iota
	PllB
)

func (p PLL) String() string {
	if p == PllA {
		return "PLLA"
	}
	return "PLLB"
}

// Drive is an output current in milliamps.
type Drive uint8

// Drives holds the selectable output currents in cycling order.
var Drives = [4]Drive{2, 4, 6, 8}

func (d Drive) String() string {
	return fmt.Sprintf("%dmA", uint8(d))
}

// Synthesizer is the set of chip operations needed to put a Plan on the
// outputs. Implementations talk to the hardware; nothing here knows about
// registers.
type Synthesizer interface {
	SetPllSource(ch Channel, pll PLL) error
	SetIntegerMode(ch Channel, on bool) error
	SetFrequency(ch Channel, output, pll uint64) error
	SetPhase(ch Channel, steps uint8) error
	ResetPll(pll PLL) error
	SetOutputEnabled(ch Channel, on bool) error
	SetDriveLevel(ch Channel, level Drive) error
}
