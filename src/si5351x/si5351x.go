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

/*
Package si5351x drives a Si5351 for quadrature output. The si5351 driver
brings the chip up and programs the PLL feedback and multisynth dividers.
This package adds what that driver doesn't reach: integer mode, the divide
by 4 multisynth mode, phase offsets, PLL reset, and output drive. Register
numbers and bit layouts follow AN619.
*/
package si5351x

import (
	"errors"
	"fmt"

	"github.com/chiefMarlin/tinygo-drivers/si5351"
	"tinygo.org/x/drivers"

	"iqgen/src/support"
)

// Address is the I2C address of the Si5351. The si5351 driver uses the same
// fixed address.
const Address = 0x60

const (
	regOutputEnable = 3
	regClkControl   = 16  // +n for CLKn
	regPllA         = 26  // 8 bytes
	regPllB         = 34  // 8 bytes
	regMultisynth   = 42  // +8n for MSn, 8 bytes each
	regPhase        = 165 // +n for CLKn
	regPllReset     = 177
)

// CLKn control bits
const (
	clkPowerDown  = 1 << 7
	clkInteger    = 1 << 6
	clkSourcePllB = 1 << 5
	clkInvert     = 1 << 4
	clkMultisynth = 3 << 2
	clkDriveMask  = 3
)

const (
	pllResetA = 1 << 5
	pllResetB = 1 << 7

	divBy4 = 3 << 2
)

var errChannel = errors.New("si5351x: no such channel")

/*
Device keeps shadow copies of the control and output enable registers so
that changing one field doesn't need a read back over the bus. The si5351
driver writes the control register with its own idea of drive and mode
whenever it sets up a multisynth, so the shadow is written back after it.
*/
type Device struct {
	bus   drivers.I2C
	xtal  uint64
	stock stock

	control [2]uint8
	disable uint8
	source  [2]support.PLL
}

// stock holds the si5351 driver calls this package uses, bound to one
// driver instance on the same bus.
type stock struct {
	connected  func() (bool, error)
	configure  func() error
	pll        func(pll support.PLL, mult uint8, num, denom uint32) error
	multisynth func(ch support.Channel, pll support.PLL, div uint32) error
}

func bind(bus drivers.I2C) stock {
	chip := si5351.New(bus)
	return stock{
		connected: chip.Connected,
		configure: chip.Configure,
		pll: func(pll support.PLL, mult uint8, num, denom uint32) error {
			if pll == support.PllB {
				return chip.ConfigurePLL(si5351.PLL_B, mult, num, denom)
			}
			return chip.ConfigurePLL(si5351.PLL_A, mult, num, denom)
		},
		multisynth: func(ch support.Channel, pll support.PLL, div uint32) error {
			switch {
			case ch == support.Reference && pll == support.PllB:
				return chip.ConfigureMultisynth(0, si5351.PLL_B, div, 0, 1)
			case ch == support.Reference:
				return chip.ConfigureMultisynth(0, si5351.PLL_A, div, 0, 1)
			case pll == support.PllB:
				return chip.ConfigureMultisynth(1, si5351.PLL_B, div, 0, 1)
			default:
				return chip.ConfigureMultisynth(1, si5351.PLL_A, div, 0, 1)
			}
		},
	}
}

// New creates a Device for a chip with the given crystal frequency (Hz). It
// does not touch the bus.
func New(bus drivers.I2C, xtal uint64) *Device {
	d := &Device{
		bus:     bus,
		xtal:    xtal,
		stock:   bind(bus),
		disable: 0xff,
	}
	for i := range d.control {
		d.control[i] = clkPowerDown | clkMultisynth
	}
	return d
}

// Connected reports whether the chip answers on the bus.
func (d *Device) Connected() (bool, error) {
	return d.stock.connected()
}

// Configure runs the si5351 driver's initialization and then puts both
// channels in a known state: powered down, outputs disabled, fed from their
// multisynth.
func (d *Device) Configure() error {
	if err := d.stock.configure(); err != nil {
		return fmt.Errorf("si5351x: configure: %w", err)
	}
	if err := d.write(regOutputEnable, d.disable); err != nil {
		return err
	}
	for _, ch := range support.Channels {
		if err := d.writeControl(ch); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) SetPllSource(ch support.Channel, pll support.PLL) error {
	if err := check(ch); err != nil {
		return err
	}
	d.source[ch] = pll
	if pll == support.PllB {
		d.control[ch] |= clkSourcePllB
	} else {
		d.control[ch] &^= clkSourcePllB
	}
	return d.writeControl(ch)
}

func (d *Device) SetIntegerMode(ch support.Channel, on bool) error {
	if err := check(ch); err != nil {
		return err
	}
	if on {
		d.control[ch] |= clkInteger
	} else {
		d.control[ch] &^= clkInteger
	}
	return d.writeControl(ch)
}

// SetFrequency programs the channel's PLL to pll and its multisynth to the
// integer ratio pll/output.
func (d *Device) SetFrequency(ch support.Channel, output, pll uint64) error {
	if err := check(ch); err != nil {
		return err
	}
	cfg, err := support.NewPllConfig(d.xtal, pll)
	if err != nil {
		return err
	}
	div, err := support.OutputDivider(pll, output)
	if err != nil {
		return err
	}
	fb := cfg.Feedback
	if err := d.stock.pll(d.source[ch], uint8(fb.A), fb.B, fb.C); err != nil {
		return fmt.Errorf("si5351x: PLL %s to %s: %w", d.source[ch], fb, err)
	}
	if div.A == 4 {
		// the driver has no divide by 4 mode
		return d.write(regMultisynth+8*uint8(ch), encode(div, divBy4)...)
	}
	if err := d.stock.multisynth(ch, d.source[ch], div.A); err != nil {
		return fmt.Errorf("si5351x: multisynth %s to %s: %w", ch, div, err)
	}
	return d.writeControl(ch)
}

// SetPhase sets the phase offset of a channel in quarter periods of its PLL.
func (d *Device) SetPhase(ch support.Channel, steps uint8) error {
	if err := check(ch); err != nil {
		return err
	}
	if steps > support.MaxPhase {
		return fmt.Errorf("si5351x: phase %d does not fit in 7 bits", steps)
	}
	return d.write(regPhase+uint8(ch), steps)
}

// ResetPll restarts a PLL. Phase offsets only take effect after a reset.
func (d *Device) ResetPll(pll support.PLL) error {
	if pll == support.PllB {
		return d.write(regPllReset, pllResetB)
	}
	return d.write(regPllReset, pllResetA)
}

func (d *Device) SetOutputEnabled(ch support.Channel, on bool) error {
	if err := check(ch); err != nil {
		return err
	}
	bit := uint8(1) << ch
	if on {
		d.control[ch] &^= clkPowerDown
		d.disable &^= bit
	} else {
		d.control[ch] |= clkPowerDown
		d.disable |= bit
	}
	if err := d.writeControl(ch); err != nil {
		return err
	}
	return d.write(regOutputEnable, d.disable)
}

func (d *Device) SetDriveLevel(ch support.Channel, level support.Drive) error {
	if err := check(ch); err != nil {
		return err
	}
	var bits uint8
	switch level {
	case 2:
		bits = 0
	case 4:
		bits = 1
	case 6:
		bits = 2
	case 8:
		bits = 3
	default:
		return fmt.Errorf("si5351x: unsupported drive %s", level)
	}
	d.control[ch] = d.control[ch]&^clkDriveMask | bits
	return d.writeControl(ch)
}

func (d *Device) writeControl(ch support.Channel) error {
	return d.write(regClkControl+uint8(ch), d.control[ch])
}

func (d *Device) write(reg uint8, data ...uint8) error {
	buf := append([]byte{reg}, data...)
	if err := d.bus.Tx(Address, buf, nil); err != nil {
		return fmt.Errorf("si5351x: write register %d: %w", reg, err)
	}
	return nil
}

// encode lays out a divider in the 8 byte multisynth register block. extra
// goes into the R_DIV/DIVBY4 bits of byte 2.
func encode(div support.Divider, extra uint8) []uint8 {
	p1, p2, p3 := div.Params()
	return []uint8{
		uint8(p3 >> 8),
		uint8(p3),
		extra | uint8(p1>>16)&0x03,
		uint8(p1 >> 8),
		uint8(p1),
		uint8(p3>>12)&0xf0 | uint8(p2>>16)&0x0f,
		uint8(p2 >> 8),
		uint8(p2),
	}
}

func check(ch support.Channel) error {
	if ch > support.Quadrature {
		return errChannel
	}
	return nil
}
