//go:build rp2040

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

package config

import "machine"

// Pin assignments for the Pico board. All inputs are active low with pull-ups.
var (
	SDA = machine.GP4
	SCL = machine.GP5

	EncoderClock     = machine.GP10
	EncoderDirection = machine.GP11
	Button           = machine.GP12
	Mode             = machine.GP13

	// Erase is read once at startup. Holding it low clears the EEPROM.
	Erase = machine.GP14
)
