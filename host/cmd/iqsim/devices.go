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

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"iqgen/src/display"
	"iqgen/src/input"
	"iqgen/src/support"
)

// imageSize matches a small EEPROM page, comfortably more than the layout.
const imageSize = 16

// openImage opens the EEPROM image, creating it erased if it is missing or
// short.
func openImage(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("eeprom image: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("eeprom image: %w", err)
	}
	if n := info.Size(); n < imageSize {
		if _, err := f.WriteAt(bytes.Repeat([]byte{0xff}, int(imageSize-n)), n); err != nil {
			f.Close()
			return nil, fmt.Errorf("eeprom image: %w", err)
		}
	}
	return f, nil
}

// printingSynth logs each chip operation instead of doing it.
type printingSynth struct {
	out interface{ Printf(string, ...any) }
}

func (s *printingSynth) SetPllSource(ch support.Channel, pll support.PLL) error {
	s.out.Printf("  %s <- %s\n", ch, pll)
	return nil
}

func (s *printingSynth) SetIntegerMode(ch support.Channel, on bool) error {
	s.out.Printf("  %s integer=%v\n", ch, on)
	return nil
}

func (s *printingSynth) SetFrequency(ch support.Channel, output, pll uint64) error {
	s.out.Printf("  %s f=%d pll=%d R=%d\n", ch, output, pll, pll/output)
	return nil
}

func (s *printingSynth) SetPhase(ch support.Channel, steps uint8) error {
	s.out.Printf("  %s phase=%d\n", ch, steps)
	return nil
}

func (s *printingSynth) ResetPll(pll support.PLL) error {
	s.out.Printf("  reset %s\n", pll)
	return nil
}

func (s *printingSynth) SetOutputEnabled(ch support.Channel, on bool) error {
	s.out.Printf("  %s enabled=%v\n", ch, on)
	return nil
}

func (s *printingSynth) SetDriveLevel(ch support.Channel, level support.Drive) error {
	s.out.Printf("  %s drive=%s\n", ch, level)
	return nil
}

// statusLine shows the display record as one line of text.
type statusLine struct {
	out interface{ Printf(string, ...any) }
}

func (s *statusLine) Show(st display.State) error {
	s.out.Printf("[%s MHz  step %s  cal %s  %s  %s]\n",
		st.FrequencyText, st.StepLabel, display.FormatCalibration(st.Calibration), st.Drive, st.Status)
	return nil
}

// panel holds the simulated button levels.
type panel struct {
	buttonDown bool
	modeDown   bool
}

// key acts on one keystroke. It returns false when the simulator should
// stop.
func (p *panel) key(k byte, enc *input.Encoder, now time.Duration) bool {
	switch k {
	case '+', '=':
		enc.Edge(now, true)
	case '-':
		enc.Edge(now, false)
	case 'b':
		p.buttonDown = true
	case 'm':
		p.modeDown = !p.modeDown
	case 'q', 3: // ctrl-c arrives as a byte in raw mode
		return false
	}
	return true
}

// levels reports the lines for one poll. A button press lasts exactly one
// poll so the next one sees the release.
func (p *panel) levels() input.Levels {
	l := input.Levels{Button: p.buttonDown, Mode: p.modeDown}
	p.buttonDown = false
	return l
}

func readKeys(r io.Reader, keys chan<- byte) {
	defer close(keys)
	buf := make([]byte, 1)
	for {
		if _, err := r.Read(buf); err != nil {
			return
		}
		keys <- buf[0]
	}
}
