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

// Firmware for the quadrature generator on a Raspberry Pi Pico.
package main

import (
	"fmt"
	"machine"
	"time"

	"tinygo.org/x/drivers/at24cx"
	"tinygo.org/x/drivers/ssd1306"

	"iqgen/src/config"
	"iqgen/src/display"
	"iqgen/src/generator"
	"iqgen/src/input"
	"iqgen/src/si5351x"
)

func main() {
	// give the USB console a moment to attach
	time.Sleep(2 * time.Second)

	settings := config.Default()

	err := machine.I2C0.Configure(machine.I2CConfig{SDA: config.SDA, SCL: config.SCL})
	if err != nil {
		panic("Failed to configure I2C0")
	}

	synth := setupClock(settings)

	eeprom := at24cx.New(machine.I2C0)
	eeprom.Address = settings.EEPROMAddress
	eeprom.Configure(at24cx.Config{})

	panel := ssd1306.NewI2C(machine.I2C0)
	panel.Configure(ssd1306.Config{Address: settings.DisplayAddress, Width: 128, Height: 64})

	for _, p := range []machine.Pin{config.EncoderClock, config.EncoderDirection, config.Button, config.Mode, config.Erase} {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}

	c := generator.New(settings, synth, &eeprom, display.NewScreen(panel))
	c.Printf = func(format string, a ...any) {
		fmt.Printf(format, a...)
	}
	c.Start(!config.Erase.Get())

	enc := c.Encoder()
	err = config.EncoderClock.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		enc.Edge(Now(), config.EncoderDirection.Get())
	})
	if err != nil {
		panic(fmt.Errorf("unable to attach encoder interrupt: %v", err))
	}

	for {
		c.Poll(input.Levels{
			Button: !config.Button.Get(),
			Mode:   !config.Mode.Get(),
		}, Now())
		time.Sleep(time.Millisecond)
	}
}

// setupClock checks that the Si5351 answers and initializes it.
func setupClock(settings config.Settings) *si5351x.Device {
	clockgen := si5351x.New(machine.I2C0, settings.Xtal)

	connected, err := clockgen.Connected()
	if err != nil {
		panic("Unable to read device status")
	}
	if !connected {
		panic("Unable to connect to SI5351 device")
	}

	err = clockgen.Configure()
	if err != nil {
		panic(fmt.Errorf("unable to configure device: %v", err))
	}
	return clockgen
}
