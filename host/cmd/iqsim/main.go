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
iqsim runs the generator control loop on a workstation. The keyboard stands
in for the encoder and buttons, a file stands in for the EEPROM, and the
synthesizer and display print to the terminal.

	key       action
	+ or =    encoder up
	-         encoder down
	b         click the step button
	m         press or release the mode button
	q         quit
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"iqgen/src/config"
	"iqgen/src/generator"
)

func main() {
	configPath := flag.String("config", "", "JSON settings file")
	imagePath := flag.String("eeprom", "iqsim.eeprom", "EEPROM image file")
	erase := flag.Bool("erase", false, "erase the EEPROM image at start")
	flag.Parse()

	settings := config.Default()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			fail(err)
		}
		if settings, err = config.Load(data); err != nil {
			fail(err)
		}
	}

	image, err := openImage(*imagePath)
	if err != nil {
		fail(err)
	}
	defer image.Close()

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			fail(err)
		}
		defer term.Restore(fd, state)
	}

	out := &console{w: os.Stdout}
	c := generator.New(settings, &printingSynth{out: out}, image, &statusLine{out: out})
	c.Printf = out.Printf
	c.Start(*erase)

	keys := make(chan byte, 16)
	go readKeys(os.Stdin, keys)

	start := time.Now()
	var sim panel
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Since(start)
		select {
		case k, ok := <-keys:
			if !ok || !sim.key(k, c.Encoder(), now) {
				out.Printf("bye\n")
				return
			}
		default:
		}
		c.Poll(sim.levels(), now)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "iqsim: %s\n", err)
	os.Exit(1)
}

// console translates newlines for a terminal in raw mode.
type console struct {
	w *os.File
}

func (c *console) Printf(format string, a ...any) {
	s := fmt.Sprintf(format, a...)
	fmt.Fprint(c.w, strings.ReplaceAll(s, "\n", "\r\n"))
}
