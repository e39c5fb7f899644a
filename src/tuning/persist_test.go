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
	"errors"
	"testing"
	"time"
)

// memory is an EEPROM image that counts writes.
type memory struct {
	data     [16]byte
	writes   int
	attempts int
	fail     error
}

func (m *memory) ReadAt(p []byte, off int64) (int, error) {
	return copy(p, m.data[off:]), nil
}

func (m *memory) WriteAt(p []byte, off int64) (int, error) {
	m.attempts++
	if m.fail != nil {
		return 0, m.fail
	}
	m.writes++
	return copy(m.data[off:], p), nil
}

var defaults = Values{Frequency: 10_000_000, Calibration: 0, Drive: 0}

func Test_erasedStorageLoadsDefaults(t *testing.T) {
	m := &memory{}
	if err := Erase(m); err != nil {
		t.Fatalf("Erase: %s", err)
	}
	for i := 0; i < StorageSize; i++ {
		if m.data[i] != Erased {
			t.Fatalf("byte %d = %#x after erase", i, m.data[i])
		}
	}
	l, err := Load(m, defaults)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	if l.Values != defaults {
		t.Errorf("values = %+v, want %+v", l.Values, defaults)
	}
	if len(l.Corrected) != 3 {
		t.Errorf("corrected = %v, want all three fields", l.Corrected)
	}
	if l.Raw.Frequency != 0xffff_ffff || l.Raw.Calibration != -1 || l.Raw.Drive != 0xff {
		t.Errorf("raw = %+v", l.Raw)
	}
}

func Test_roundTrip(t *testing.T) {
	m := &memory{}
	Erase(m)
	p := NewParams(27_455_000, -1_250, 2)
	s := NewSaver(m, Values{}, time.Second)
	s.SaveSettled(p, 0)
	if _, err := s.SaveSettled(p, 2*time.Second); err != nil {
		t.Fatalf("SaveSettled: %s", err)
	}
	if _, err := s.SaveDrive(p); err != nil {
		t.Fatalf("SaveDrive: %s", err)
	}
	l, err := Load(m, defaults)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	want := Values{Frequency: 27_455_000, Calibration: -1_250, Drive: 2}
	if l.Values != want || len(l.Corrected) != 0 {
		t.Errorf("loaded %+v (corrected %v), want %+v", l.Values, l.Corrected, want)
	}
	// little endian at fixed offsets
	if m.data[0] != 0x18 || m.data[4] != 0x1e || m.data[7] != 0xff || m.data[8] != 2 {
		t.Errorf("layout = % x", m.data[:StorageSize])
	}
}

func Test_loadRejectsOutOfRange(t *testing.T) {
	m := &memory{}
	p := NewParams(FrequencyMax, CalibrationMin, 1)
	s := NewSaver(m, Values{}, 0)
	s.saveFrequency(FrequencyMax + 1)
	s.saveCalibration(CalibrationMin)
	s.SaveDrive(p)
	l, err := Load(m, defaults)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	want := Values{Frequency: defaults.Frequency, Calibration: CalibrationMin, Drive: 1}
	if l.Values != want {
		t.Errorf("values = %+v, want %+v", l.Values, want)
	}
	if len(l.Corrected) != 1 || l.Corrected[0] != "frequency" {
		t.Errorf("corrected = %v", l.Corrected)
	}
}

func Test_settleDelay(t *testing.T) {
	m := &memory{}
	saved := Values{Frequency: 10_000_000}
	p := NewParams(saved.Frequency, 0, 0)
	s := NewSaver(m, saved, 2*time.Second)

	// nothing changed, nothing written
	if w, _ := s.SaveSettled(p, 5*time.Second); w || m.writes != 0 {
		t.Fatalf("wrote unchanged values")
	}

	p.Adjust(1, false)
	now := 10 * time.Second
	for i := 0; i < 5; i++ {
		now += 100 * time.Millisecond
		p.Adjust(1, false)
		s.SaveSettled(p, now)
	}
	if m.writes != 0 {
		t.Errorf("wrote %d times while the knob was turning", m.writes)
	}
	if w, _ := s.SaveSettled(p, now+time.Second); w {
		t.Errorf("wrote before the settle delay")
	}
	if w, _ := s.SaveSettled(p, now+2*time.Second); !w || m.writes != 1 {
		t.Errorf("expected a single frequency write, got %d", m.writes)
	}
	if s.Saved().Frequency != 10_006_000 {
		t.Errorf("saved frequency = %d", s.Saved().Frequency)
	}
	// and nothing more after that
	s.SaveSettled(p, now+time.Minute)
	if m.writes != 1 {
		t.Errorf("rewrote an unchanged value, %d writes", m.writes)
	}
}

func Test_immediateSaves(t *testing.T) {
	m := &memory{}
	p := NewParams(10_000_000, 0, 0)
	s := NewSaver(m, Values{Frequency: 10_000_000}, time.Hour)

	if w, _ := s.SaveCalibration(p); w {
		t.Errorf("saved unchanged calibration")
	}
	p.Adjust(5, true)
	if w, err := s.SaveCalibration(p); !w || err != nil || s.Saved().Calibration != 50 {
		t.Errorf("calibration not saved: %v %v %d", w, err, s.Saved().Calibration)
	}
	p.CycleDrive()
	if w, err := s.SaveDrive(p); !w || err != nil || m.data[driveOffset] != 1 {
		t.Errorf("drive not saved: %v %v %d", w, err, m.data[driveOffset])
	}
	if m.writes != 2 {
		t.Errorf("writes = %d, want 2", m.writes)
	}
}

func Test_failedWriteIsRetriedLater(t *testing.T) {
	broken := errors.New("nack")
	m := &memory{fail: broken}
	p := NewParams(10_000_000, 0, 0)
	s := NewSaver(m, Values{Frequency: 10_000_000}, 0)
	p.CycleDrive()
	if _, err := s.SaveDrive(p); !errors.Is(err, broken) {
		t.Fatalf("error = %v, want %v", err, broken)
	}
	if s.Saved().Drive != 0 {
		t.Errorf("failed write updated the saved value")
	}
	m.fail = nil
	if w, err := s.SaveDrive(p); !w || err != nil {
		t.Errorf("retry: %v %v", w, err)
	}
}

func Test_failedSettledWriteWaitsForChange(t *testing.T) {
	broken := errors.New("nack")
	m := &memory{fail: broken}
	p := NewParams(10_000_000, 0, 0)
	s := NewSaver(m, Values{Frequency: 1}, 2*time.Second)

	failures := 0
	for now := time.Duration(0); now < 5*time.Second; now += time.Millisecond {
		if _, err := s.SaveSettled(p, now); err != nil {
			failures++
		}
	}
	if m.attempts != 1 || failures != 1 {
		t.Fatalf("attempts = %d, errors = %d, want one of each", m.attempts, failures)
	}

	// the next change earns another attempt once it settles
	m.fail = nil
	p.Adjust(1, false)
	s.SaveSettled(p, 5*time.Second)
	if w, err := s.SaveSettled(p, 7*time.Second); !w || err != nil {
		t.Fatalf("after change: %v %v", w, err)
	}
	if s.Saved().Frequency != 10_001_000 || m.attempts != 2 {
		t.Errorf("saved = %d after %d attempts", s.Saved().Frequency, m.attempts)
	}
}
