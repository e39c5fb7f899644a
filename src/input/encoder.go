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

package input

import "time"

// Direction of one encoder step.
type Direction int8

const (
	Down Direction = -1
	Up   Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

/*
Mailbox is a one-slot hand-off from the encoder interrupt to the polling
loop. Both sides touch it with the interrupt masked, so the loop never sees a
new direction with a stale pending flag, and a step that lands while the
loop is reading is not lost.

There is at most one step in the box. A second edge before the loop drains
it replaces the direction instead of adding a step.
*/
type Mailbox struct {
	dir     Direction
	pending bool
}

// Post is called from the interrupt handler.
func (m *Mailbox) Post(d Direction) {
	s := disableInterrupts()
	m.dir = d
	m.pending = true
	restoreInterrupts(s)
}

// Take empties the box and reports whether a step was waiting.
func (m *Mailbox) Take() (Direction, bool) {
	s := disableInterrupts()
	d, ok := m.dir, m.pending
	m.pending = false
	restoreInterrupts(s)
	return d, ok
}

/*
Encoder turns raw edges on the encoder's clock line into steps. Edges closer
together than the debounce interval are contact bounce and are dropped. The
level of the companion line at the time of an accepted edge gives the
direction; which way is "up" depends on the wiring, hence Reversed.
*/
type Encoder struct {
	Mailbox

	interval time.Duration
	reversed bool

	// only touched by Edge
	last time.Duration
	seen bool
}

func NewEncoder(interval time.Duration, reversed bool) *Encoder {
	return &Encoder{interval: interval, reversed: reversed}
}

// Edge handles one edge of the clock line at time now. It must stay short
// since it runs in interrupt context. It reports whether the edge counted.
func (e *Encoder) Edge(now time.Duration, companion bool) bool {
	if e.seen && now-e.last < e.interval {
		return false
	}
	e.seen = true
	e.last = now
	d := Down
	if companion != e.reversed {
		d = Up
	}
	e.Post(d)
	return true
}
