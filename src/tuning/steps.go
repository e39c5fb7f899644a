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

package tuning

// Step is one entry of a step size table.
type Step struct {
	Hz    uint32
	Label string
}

// FrequencySteps are the increments for the output frequency, in cycling order.
var FrequencySteps = []Step{
	{10, "10Hz"},
	{100, "100Hz"},
	{1_000, "1kHz"},
	{5_000, "5kHz"},
	{10_000, "10kHz"},
	{100_000, "100kHz"},
	{1_000_000, "1MHz"},
}

// CalibrationSteps are the increments for the calibration offset.
var CalibrationSteps = []Step{
	{10, "10Hz"},
	{100, "100Hz"},
	{1_000, "1kHz"},
	{10_000, "10kHz"},
	{100_000, "100kHz"},
	{1_000_000, "1MHz"},
}

// Cycle is a position in a fixed table that advances with wraparound.
type Cycle struct {
	index, size int
}

// NewCycle starts at start, or at 0 if start is not a valid index.
func NewCycle(size, start int) Cycle {
	c := Cycle{size: size}
	if start >= 0 && start < size {
		c.index = start
	}
	return c
}

// Next advances one entry, wrapping to 0, and returns the new index.
func (c *Cycle) Next() int {
	c.index = (c.index + 1) % c.size
	return c.index
}

// Index is the current position.
func (c Cycle) Index() int {
	return c.index
}

// indexOf finds the entry of steps with the given size.
func indexOf(steps []Step, hz uint32) int {
	for i, s := range steps {
		if s.Hz == hz {
			return i
		}
	}
	return 0
}
