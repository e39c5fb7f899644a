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

// Package tuning holds the values that the operator can change and decides
// when they are written to non-volatile storage.
package tuning

import (
	"sync"

	"iqgen/src/support"
)

const (
	FrequencyMin uint32 = 100_000
	FrequencyMax uint32 = 220_000_000

	CalibrationMin int32 = -2_000_000
	CalibrationMax int32 = 2_000_000
)

// Snapshot is a consistent copy of the values that feed synthesis.
type Snapshot struct {
	Frequency   uint32
	Calibration int32
}

/*
Params is the only place the tunable values change. Every mutation keeps the
values in range, marks the store dirty and bumps a revision number that the
persistence policy uses to see when things settle down.

The polling loop is the only writer. The mutex makes Snapshot safe if that
ever stops being true.
*/
type Params struct {
	mu          sync.Mutex
	frequency   uint32
	calibration int32
	freqStep    Cycle
	calStep     Cycle
	drive       Cycle
	dirty       bool
	revision    uint32
}

// NewParams starts from values read at boot. Out of range values are
// clamped; callers are expected to have validated them already.
func NewParams(frequency uint32, calibration int32, drive int) *Params {
	return &Params{
		frequency:   clampFrequency(int64(frequency)),
		calibration: clampCalibration(int64(calibration)),
		freqStep:    NewCycle(len(FrequencySteps), indexOf(FrequencySteps, 1_000)),
		calStep:     NewCycle(len(CalibrationSteps), 0),
		drive:       NewCycle(len(support.Drives), drive),
		dirty:       true,
	}
}

/*
Adjust moves the calibration offset (when modeActive) or the frequency by
delta steps of the current step size. Results saturate at the range limits.
It reports whether the value changed.
*/
func (p *Params) Adjust(delta int, modeActive bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if modeActive {
		step := int64(CalibrationSteps[p.calStep.Index()].Hz)
		v := clampCalibration(int64(p.calibration) + int64(delta)*step)
		if v == p.calibration {
			return false
		}
		p.calibration = v
	} else {
		step := int64(FrequencySteps[p.freqStep.Index()].Hz)
		v := clampFrequency(int64(p.frequency) + int64(delta)*step)
		if v == p.frequency {
			return false
		}
		p.frequency = v
	}
	p.touch()
	return true
}

// CycleStep advances the calibration step (when modeActive) or the
// frequency step to the next size, wrapping after the largest.
func (p *Params) CycleStep(modeActive bool) Step {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.touch()
	if modeActive {
		return CalibrationSteps[p.calStep.Next()]
	}
	return FrequencySteps[p.freqStep.Next()]
}

// CycleDrive selects the next output current, wrapping after the last.
func (p *Params) CycleDrive() support.Drive {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.touch()
	return support.Drives[p.drive.Next()]
}

func (p *Params) touch() {
	p.dirty = true
	p.revision++
}

// MarkDirty forces the next pass to resynthesize without changing anything.
func (p *Params) MarkDirty() {
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()
}

// ConsumeDirty reports whether anything changed since the last call and
// clears the flag.
func (p *Params) ConsumeDirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.dirty
	p.dirty = false
	return d
}

func (p *Params) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{Frequency: p.frequency, Calibration: p.calibration}
}

func (p *Params) Frequency() uint32 {
	return p.Snapshot().Frequency
}

func (p *Params) Calibration() int32 {
	return p.Snapshot().Calibration
}

func (p *Params) FrequencyStep() Step {
	p.mu.Lock()
	defer p.mu.Unlock()
	return FrequencySteps[p.freqStep.Index()]
}

func (p *Params) CalibrationStep() Step {
	p.mu.Lock()
	defer p.mu.Unlock()
	return CalibrationSteps[p.calStep.Index()]
}

// ActiveStep is the step that the encoder currently applies.
func (p *Params) ActiveStep(modeActive bool) Step {
	if modeActive {
		return p.CalibrationStep()
	}
	return p.FrequencyStep()
}

func (p *Params) DriveIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.drive.Index()
}

func (p *Params) Drive() support.Drive {
	return support.Drives[p.DriveIndex()]
}

// Revision changes every time a value does.
func (p *Params) Revision() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revision
}

func clampFrequency(v int64) uint32 {
	if v < int64(FrequencyMin) {
		return FrequencyMin
	}
	if v > int64(FrequencyMax) {
		return FrequencyMax
	}
	return uint32(v)
}

func clampCalibration(v int64) int32 {
	if v < int64(CalibrationMin) {
		return CalibrationMin
	}
	if v > int64(CalibrationMax) {
		return CalibrationMax
	}
	return int32(v)
}
