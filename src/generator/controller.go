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

/*
Package generator runs the control loop of the quadrature generator.

The encoder interrupt posts steps into the input mailbox. Everything else
happens in Poll, which the main loop calls as often as it can: it samples the
buttons, applies whatever changed to the parameters, and if anything did,
synthesizes once, programs the chip, and refreshes the display. Saving to
EEPROM comes last and only when the write policy says so.
*/
package generator

import (
	"time"

	"iqgen/src/config"
	"iqgen/src/display"
	"iqgen/src/input"
	"iqgen/src/support"
	"iqgen/src/tuning"
)

// Controller owns all of the mutable state of the generator.
type Controller struct {
	// Printf receives log lines. The firmware points it at the console.
	Printf func(format string, a ...any)

	settings config.Settings
	synth    support.Synthesizer
	storage  tuning.Storage
	sink     display.Sink

	inputs *input.Inputs
	params *tuning.Params
	saver  *tuning.Saver

	plan      support.Plan
	applied   bool
	status    display.Status
	shownMode bool

	// a failed Apply can leave the channels on different plans, so it is
	// tried again at retryAt even if nothing changes
	retryAt time.Duration
}

// retryInterval paces attempts to reprogram a synthesizer that failed.
const retryInterval = time.Second

func New(s config.Settings, synth support.Synthesizer, storage tuning.Storage, sink display.Sink) *Controller {
	return &Controller{
		Printf:   func(string, ...any) {},
		settings: s,
		synth:    synth,
		storage:  storage,
		sink:     sink,
		inputs:   input.New(s.Debounce.D(), s.DoubleClick.D(), s.EncoderReversed),
		status:   display.NoLock,
	}
}

// Encoder is what the edge interrupt feeds.
func (c *Controller) Encoder() *input.Encoder {
	return c.inputs.Encoder
}

// Params exposes the parameter store, mostly for tests and the simulator.
func (c *Controller) Params() *tuning.Params {
	return c.params
}

// Status is the lock status shown with the last display refresh.
func (c *Controller) Status() display.Status {
	return c.status
}

/*
Start loads the persisted parameters and sets the output drive. If erase is
set, storage is wiped first. Nothing here is fatal: bad or unreadable
storage means defaults. The first Poll synthesizes and draws.
*/
func (c *Controller) Start(erase bool) {
	if erase {
		if err := tuning.Erase(c.storage); err != nil {
			c.Printf("erase failed: %s\n", err)
		} else {
			c.Printf("storage erased\n")
		}
	}
	loaded, err := tuning.Load(c.storage, c.settings.Defaults())
	if err != nil {
		c.Printf("%s, using defaults\n", err)
	}
	if len(loaded.Corrected) > 0 {
		c.Printf("replaced stored %v with defaults\n", loaded.Corrected)
	}
	v := loaded.Values
	c.Printf("start: f=%d cal=%d drive=%s\n", v.Frequency, v.Calibration, support.Drives[v.Drive])

	c.params = tuning.NewParams(v.Frequency, v.Calibration, v.Drive)
	c.saver = tuning.NewSaver(c.storage, loaded.Raw, c.settings.Settle.D())
	c.applyDrive()
	c.params.MarkDirty()
}

// Poll runs one pass of the control loop at time now.
func (c *Controller) Poll(l input.Levels, now time.Duration) {
	ev := c.inputs.Poll(l, now)

	if ev.Step != 0 {
		c.params.Adjust(int(ev.Step), ev.ModeActive)
	}
	if ev.Click {
		step := c.params.CycleStep(ev.ModeActive)
		c.Printf("step %s\n", step.Label)
	}
	switch ev.Mode {
	case input.SingleClick:
		c.commitCalibration()
	case input.DoubleClick:
		c.cycleDrive()
	}

	refresh := ev.ModeActive != c.shownMode
	dirty := c.params.ConsumeDirty()
	if c.retryAt != 0 && now >= c.retryAt {
		dirty = true
	}
	if dirty {
		c.resynthesize(now)
		refresh = true
	}
	if refresh {
		c.show(ev.ModeActive)
	}

	if _, err := c.saver.SaveSettled(c.params, now); err != nil {
		c.Printf("save failed: %s\n", err)
	}
}

// resynthesize computes a plan for the current parameters and programs it.
// An unreachable target leaves the hardware as it was.
func (c *Controller) resynthesize(now time.Duration) {
	snap := c.params.Snapshot()
	plan, err := support.Synthesize(snap.Frequency, snap.Calibration)
	if err != nil {
		c.Printf("f=%d cal=%d: %s\n", snap.Frequency, snap.Calibration, err)
		c.status = display.NoLock
		c.retryAt = 0
		return
	}
	if !c.applied || plan != c.plan {
		if err := Apply(c.synth, plan); err != nil {
			c.Printf("%s\n", err)
			c.applied = false
			c.status = display.NoLock
			c.retryAt = now + retryInterval
			return
		}
		c.retryAt = 0
		c.plan = plan
		c.applied = true
		c.Printf("%s\n", plan)
	}
	c.status = display.Locked
	if plan.PhaseCapped {
		c.status = display.PhaseLimited
	}
}

func (c *Controller) show(modeActive bool) {
	snap := c.params.Snapshot()
	st := display.State{
		FrequencyText: display.FormatFrequency(snap.Frequency),
		StepLabel:     c.params.ActiveStep(modeActive).Label,
		Calibration:   snap.Calibration,
		Drive:         c.params.Drive().String(),
		Status:        c.status,
	}
	c.shownMode = modeActive
	if err := c.sink.Show(st); err != nil {
		c.Printf("display: %s\n", err)
	}
}

func (c *Controller) commitCalibration() {
	saved, err := c.saver.SaveCalibration(c.params)
	if err != nil {
		c.Printf("save failed: %s\n", err)
	} else if saved {
		c.Printf("calibration %d saved\n", c.params.Calibration())
	}
}

// cycleDrive moves to the next output current and saves it right away.
func (c *Controller) cycleDrive() {
	c.params.CycleDrive()
	c.applyDrive()
	if _, err := c.saver.SaveDrive(c.params); err != nil {
		c.Printf("save failed: %s\n", err)
	}
}

func (c *Controller) applyDrive() {
	d := c.params.Drive()
	for _, ch := range support.Channels {
		if err := c.synth.SetDriveLevel(ch, d); err != nil {
			c.Printf("drive %s: %s\n", ch, err)
		}
	}
}
