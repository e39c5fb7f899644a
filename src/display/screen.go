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

package display

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

// Panel is a monochrome frame buffer such as the ssd1306 driver.
type Panel interface {
	drivers.Displayer
	ClearBuffer()
}

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

/*
Screen draws a State on a 128x64 panel:

	27.455000          (large)
	STEP 1kHz    4mA
	CAL +120     LOCK
*/
type Screen struct {
	panel Panel
}

func NewScreen(p Panel) *Screen {
	return &Screen{panel: p}
}

func (s *Screen) Show(st State) error {
	s.panel.ClearBuffer()
	tinyfont.WriteLine(s.panel, &freemono.Bold9pt7b, 0, 16, st.FrequencyText, white)
	tinyfont.WriteLine(s.panel, &proggy.TinySZ8pt7b, 0, 40, "STEP "+st.StepLabel, white)
	tinyfont.WriteLine(s.panel, &proggy.TinySZ8pt7b, 88, 40, st.Drive, white)
	tinyfont.WriteLine(s.panel, &proggy.TinySZ8pt7b, 0, 58, "CAL "+FormatCalibration(st.Calibration), white)
	tinyfont.WriteLine(s.panel, &proggy.TinySZ8pt7b, 80, 58, st.Status.String(), white)
	return s.panel.Display()
}
