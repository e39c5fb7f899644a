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

// Package display builds the record shown to the operator and draws it.
package display

import "fmt"

// Status summarizes the last synthesis attempt.
type Status uint8

const (
	Locked       Status = iota // exact quadrature
	PhaseLimited               // outputs running, phase capped below 90°
	NoLock                     // target unreachable, outputs unchanged
)

func (s Status) String() string {
	switch s {
	case Locked:
		return "LOCK"
	case PhaseLimited:
		return "PHASE"
	case NoLock:
		return "NOLOCK"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// State is an immutable snapshot for the presentation side.
type State struct {
	FrequencyText string
	StepLabel     string
	Calibration   int32
	Drive         string
	Status        Status
}

// Sink consumes display states. Drawing is its business.
type Sink interface {
	Show(State) error
}

// FormatFrequency writes hz as MHz with six decimals, for example
// 27455000 becomes "27.455000". The integer part has at least two digits.
func FormatFrequency(hz uint32) string {
	return fmt.Sprintf("%02d.%06d", hz/1_000_000, hz%1_000_000)
}

// FormatCalibration shows the offset with an explicit sign.
func FormatCalibration(hz int32) string {
	return fmt.Sprintf("%+d", hz)
}
