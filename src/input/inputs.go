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

// Package input turns the noisy encoder and button lines into clean events.
package input

import "time"

// Levels are the button lines as sampled by the polling loop, true when
// active.
type Levels struct {
	Button bool
	Mode   bool
}

// Events is what happened since the previous poll.
type Events struct {
	Step       Direction // zero if the encoder did not move
	Click      bool      // main button
	Mode       Click     // mode pin release
	ModeActive bool      // mode pin level
}

// Inputs ties the encoder mailbox to the two polled lines.
type Inputs struct {
	Encoder *Encoder
	button  Button
	mode    *ModePin
}

func New(debounce, doubleClick time.Duration, reversed bool) *Inputs {
	return &Inputs{
		Encoder: NewEncoder(debounce, reversed),
		mode:    NewModePin(doubleClick),
	}
}

// Poll samples the lines and drains the encoder.
func (in *Inputs) Poll(l Levels, now time.Duration) Events {
	ev := Events{
		Click: in.button.Update(l.Button),
		Mode:  in.mode.Update(l.Mode, now),
	}
	ev.ModeActive = in.mode.Active()
	if d, ok := in.Encoder.Take(); ok {
		ev.Step = d
	}
	return ev
}

func (in *Inputs) ModeActive() bool {
	return in.mode.Active()
}
