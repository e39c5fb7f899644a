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

// Package config holds the settings that differ between builds of the
// generator, with defaults for all of them.
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"iqgen/src/tuning"
)

// Settings configures the control loop.
type Settings struct {
	// EncoderReversed swaps which encoder direction counts as up. It depends
	// only on how the encoder is wired.
	EncoderReversed bool `json:"encoder_reversed"`

	Debounce    Duration `json:"debounce"`     // minimum time between encoder edges
	DoubleClick Duration `json:"double_click"` // window for a mode pin double click
	Settle      Duration `json:"settle"`       // quiet time before frequency is saved

	DefaultFrequency   uint32 `json:"default_frequency"`
	DefaultCalibration int32  `json:"default_calibration"`
	DefaultDrive       int    `json:"default_drive"`

	Xtal uint64 `json:"xtal"` // synthesizer reference crystal (Hz)

	EEPROMAddress  uint16 `json:"eeprom_address"`
	DisplayAddress uint16 `json:"display_address"`
}

// Duration reads "350ms" style strings from JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("config: duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d Duration) D() time.Duration {
	return time.Duration(d)
}

// Default returns the settings the firmware is built with.
func Default() Settings {
	var s Settings
	applyDefaults(&s)
	return s
}

// Load parses JSON settings. Missing fields get their defaults.
func Load(data []byte) (Settings, error) {
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	applyDefaults(&s)
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the defaults are usable values.
func (s Settings) Validate() error {
	if s.DefaultFrequency < tuning.FrequencyMin || s.DefaultFrequency > tuning.FrequencyMax {
		return fmt.Errorf("config: default frequency %d out of range", s.DefaultFrequency)
	}
	if s.DefaultCalibration < tuning.CalibrationMin || s.DefaultCalibration > tuning.CalibrationMax {
		return fmt.Errorf("config: default calibration %d out of range", s.DefaultCalibration)
	}
	if s.DefaultDrive < 0 || s.DefaultDrive > 3 {
		return fmt.Errorf("config: default drive %d out of range", s.DefaultDrive)
	}
	return nil
}

// Defaults returns the fallback values for persisted parameters.
func (s Settings) Defaults() tuning.Values {
	return tuning.Values{
		Frequency:   s.DefaultFrequency,
		Calibration: s.DefaultCalibration,
		Drive:       s.DefaultDrive,
	}
}

// applyDefaults fills in missing values
func applyDefaults(s *Settings) {
	if s.Debounce == 0 {
		s.Debounce = Duration(500 * time.Microsecond)
	}
	if s.DoubleClick == 0 {
		s.DoubleClick = Duration(350 * time.Millisecond)
	}
	if s.Settle == 0 {
		s.Settle = Duration(2 * time.Second)
	}
	if s.DefaultFrequency == 0 {
		s.DefaultFrequency = 10_000_000
	}
	if s.Xtal == 0 {
		s.Xtal = 25_000_000
	}
	if s.EEPROMAddress == 0 {
		s.EEPROMAddress = 0x50
	}
	if s.DisplayAddress == 0 {
		s.DisplayAddress = 0x3c
	}
}
