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

import (
	"fmt"
	"time"
)

// Button reports a click for each press followed by a release.
type Button struct {
	pressed bool
}

// Update takes the current level of the line (true when pressed) and
// reports whether it completed a click.
func (b *Button) Update(active bool) bool {
	if active {
		b.pressed = true
		return false
	}
	click := b.pressed
	b.pressed = false
	return click
}

// Click is what a release of the mode pin meant.
type Click uint8

const (
	NoClick Click = iota
	SingleClick
	DoubleClick
)

func (c Click) String() string {
	switch c {
	case NoClick:
		return "none"
	case SingleClick:
		return "single"
	case DoubleClick:
		return "double"
	default:
		return fmt.Sprintf("Click(%d)", uint8(c))
	}
}

/*
ClickDetector classifies releases. A release within the window of the
previous one is a double click, anything else is a single click. A double
click uses up both releases, so a third quick release starts over as a
single.
*/
type ClickDetector struct {
	window time.Duration
	last   time.Duration
	armed  bool
}

func NewClickDetector(window time.Duration) ClickDetector {
	return ClickDetector{window: window}
}

func (c *ClickDetector) Release(now time.Duration) Click {
	if c.armed && now-c.last <= c.window {
		c.armed = false
		return DoubleClick
	}
	c.armed = true
	c.last = now
	return SingleClick
}

// ModePin is both a modifier, through its level, and a source of clicks,
// through its releases.
type ModePin struct {
	active bool
	clicks ClickDetector
}

func NewModePin(window time.Duration) *ModePin {
	return &ModePin{clicks: NewClickDetector(window)}
}

// Update records the current level and classifies a release.
func (m *ModePin) Update(active bool, now time.Duration) Click {
	released := m.active && !active
	m.active = active
	if !released {
		return NoClick
	}
	return m.clicks.Release(now)
}

// Active is the level as of the last Update.
func (m *ModePin) Active() bool {
	return m.active
}
