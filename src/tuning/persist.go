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

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"iqgen/src/support"
)

/*
Storage layout, native widths of the RP2040, little endian:

	0  frequency    uint32
	4  calibration  int32
	8  drive index  uint8

An erased EEPROM reads 0xFF everywhere. Frequency and drive fail range
validation, and an all-ones calibration word is treated as unwritten, so all
three fall back to the defaults.
*/
const (
	frequencyOffset   = 0
	calibrationOffset = frequencyOffset + 4
	driveOffset       = calibrationOffset + 4

	// StorageSize is the number of bytes the layout uses.
	StorageSize = driveOffset + 1

	Erased = 0xFF

	erasedWord = 0xFFFF_FFFF
)

// Storage is byte addressable non-volatile memory. The at24cx EEPROM driver
// and *os.File both qualify.
type Storage interface {
	io.ReaderAt
	io.WriterAt
}

// Values is the persisted subset of the parameters.
type Values struct {
	Frequency   uint32
	Calibration int32
	Drive       int
}

// Loaded is what Load found in storage.
type Loaded struct {
	Values    Values   // validated, ready to use
	Raw       Values   // exactly what was read
	Corrected []string // fields that were replaced by defaults
}

// Erase writes the erased byte value over the whole layout.
func Erase(dev Storage) error {
	_, err := dev.WriteAt(bytes.Repeat([]byte{Erased}, StorageSize), 0)
	if err != nil {
		return fmt.Errorf("tuning: erase: %w", err)
	}
	return nil
}

/*
Load reads the persisted values and replaces anything out of range with the
matching default. A corrected value is not an error. If the read itself
fails, the defaults are returned together with the error.
*/
func Load(dev Storage, defaults Values) (Loaded, error) {
	buf := bytes.Repeat([]byte{Erased}, StorageSize)
	if _, err := dev.ReadAt(buf, 0); err != nil && !errors.Is(err, io.EOF) {
		return Loaded{Values: defaults, Raw: defaults}, fmt.Errorf("tuning: load: %w", err)
	}
	raw := Values{
		Frequency:   binary.LittleEndian.Uint32(buf[frequencyOffset:]),
		Calibration: int32(binary.LittleEndian.Uint32(buf[calibrationOffset:])),
		Drive:       int(buf[driveOffset]),
	}
	r := Loaded{Values: raw, Raw: raw}
	if raw.Frequency < FrequencyMin || raw.Frequency > FrequencyMax {
		r.Values.Frequency = defaults.Frequency
		r.Corrected = append(r.Corrected, "frequency")
	}
	// an erased word reads as -1, which is in range but was never written
	calErased := binary.LittleEndian.Uint32(buf[calibrationOffset:]) == erasedWord
	if calErased || raw.Calibration < CalibrationMin || raw.Calibration > CalibrationMax {
		r.Values.Calibration = defaults.Calibration
		r.Corrected = append(r.Corrected, "calibration")
	}
	if raw.Drive < 0 || raw.Drive >= len(support.Drives) {
		r.Values.Drive = defaults.Drive
		r.Corrected = append(r.Corrected, "drive")
	}
	return r, nil
}

/*
Saver keeps the EEPROM in step with the parameters while writing as little
as possible. Every field is compared with what was last written and only
written when it differs.

Frequency and calibration change in bursts while the knob turns, so they
are only written once the parameters have not changed for the settle
delay. Calibration can also be committed right away, and the drive level is
always written as soon as it changes.

A failed write leaves the last-saved value alone. The settled write is not
attempted again until the parameters change, so a dead EEPROM costs one
attempt per burst of changes rather than one per loop pass.
*/
type Saver struct {
	dev      Storage
	settle   time.Duration
	saved    Values
	revision uint32
	changed  time.Duration
	failed   bool // the settled write for revision failed
}

// NewSaver starts from what is currently in storage.
func NewSaver(dev Storage, saved Values, settle time.Duration) *Saver {
	return &Saver{
		dev:    dev,
		settle: settle,
		saved:  saved,
	}
}

// Saved returns the values as they are believed to be in storage.
func (s *Saver) Saved() Values {
	return s.saved
}

// SaveSettled writes frequency and calibration if they changed and the
// parameters have been quiet for the settle delay. It reports whether
// anything was written.
func (s *Saver) SaveSettled(p *Params, now time.Duration) (bool, error) {
	if rev := p.Revision(); rev != s.revision {
		s.revision = rev
		s.changed = now
		s.failed = false
		return false, nil
	}
	if s.failed || now-s.changed < s.settle {
		return false, nil
	}
	v := p.Snapshot()
	f, errF := s.saveFrequency(v.Frequency)
	c, errC := s.saveCalibration(v.Calibration)
	err := errors.Join(errF, errC)
	s.failed = err != nil
	return f || c, err
}

// SaveCalibration writes the calibration offset now if it changed.
func (s *Saver) SaveCalibration(p *Params) (bool, error) {
	return s.saveCalibration(p.Calibration())
}

// SaveDrive writes the drive level index now if it changed.
func (s *Saver) SaveDrive(p *Params) (bool, error) {
	d := p.DriveIndex()
	if d == s.saved.Drive {
		return false, nil
	}
	if _, err := s.dev.WriteAt([]byte{byte(d)}, driveOffset); err != nil {
		return false, fmt.Errorf("tuning: save drive: %w", err)
	}
	s.saved.Drive = d
	return true, nil
}

func (s *Saver) saveFrequency(f uint32) (bool, error) {
	if f == s.saved.Frequency {
		return false, nil
	}
	if _, err := s.dev.WriteAt(binary.LittleEndian.AppendUint32(nil, f), frequencyOffset); err != nil {
		return false, fmt.Errorf("tuning: save frequency: %w", err)
	}
	s.saved.Frequency = f
	return true, nil
}

func (s *Saver) saveCalibration(c int32) (bool, error) {
	if c == s.saved.Calibration {
		return false, nil
	}
	if _, err := s.dev.WriteAt(binary.LittleEndian.AppendUint32(nil, uint32(c)), calibrationOffset); err != nil {
		return false, fmt.Errorf("tuning: save calibration: %w", err)
	}
	s.saved.Calibration = c
	return true, nil
}
