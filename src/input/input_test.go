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

package input

import (
	"sync"
	"testing"
	"time"
)

const ms = time.Millisecond

func Test_doubleClick(t *testing.T) {
	tests := []struct {
		name     string
		releases []time.Duration
		want     []Click
	}{
		{"double", []time.Duration{0, 200 * ms}, []Click{SingleClick, DoubleClick}},
		{"too slow", []time.Duration{0, 500 * ms}, []Click{SingleClick, SingleClick}},
		{"edge of window", []time.Duration{0, 350 * ms}, []Click{SingleClick, DoubleClick}},
		{"triple", []time.Duration{0, 100 * ms, 200 * ms}, []Click{SingleClick, DoubleClick, SingleClick}},
		{"slow then fast", []time.Duration{0, 400 * ms, 600 * ms}, []Click{SingleClick, SingleClick, DoubleClick}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClickDetector(350 * ms)
			for i, at := range tt.releases {
				if got := c.Release(at); got != tt.want[i] {
					t.Errorf("release %d at %s = %s, want %s", i, at, got, tt.want[i])
				}
			}
		})
	}
}

func Test_modePin(t *testing.T) {
	m := NewModePin(350 * ms)
	if c := m.Update(false, 0); c != NoClick {
		t.Errorf("idle line clicked: %s", c)
	}
	if c := m.Update(true, 10*ms); c != NoClick || !m.Active() {
		t.Errorf("press: click=%s active=%v", c, m.Active())
	}
	if c := m.Update(true, 20*ms); c != NoClick {
		t.Errorf("held line clicked: %s", c)
	}
	if c := m.Update(false, 30*ms); c != SingleClick || m.Active() {
		t.Errorf("release: click=%s active=%v", c, m.Active())
	}
	m.Update(true, 100*ms)
	if c := m.Update(false, 230*ms); c != DoubleClick {
		t.Errorf("second release = %s, want double", c)
	}
}

func Test_button(t *testing.T) {
	var b Button
	levels := []bool{false, true, true, false, false, true, false}
	clicks := []bool{false, false, false, true, false, false, true}
	for i, l := range levels {
		if got := b.Update(l); got != clicks[i] {
			t.Errorf("sample %d: click = %v, want %v", i, got, clicks[i])
		}
	}
}

func Test_encoderDebounce(t *testing.T) {
	e := NewEncoder(500*time.Microsecond, false)
	if !e.Edge(0, true) {
		t.Fatalf("first edge rejected")
	}
	if e.Edge(200*time.Microsecond, true) {
		t.Errorf("bounce accepted")
	}
	if d, ok := e.Take(); !ok || d != Up {
		t.Errorf("take = %s %v, want up", d, ok)
	}
	if _, ok := e.Take(); ok {
		t.Errorf("bounce produced a second step")
	}
	if !e.Edge(time.Millisecond, false) {
		t.Errorf("edge after the interval rejected")
	}
	if d, ok := e.Take(); !ok || d != Down {
		t.Errorf("take = %s %v, want down", d, ok)
	}
}

func Test_encoderReversed(t *testing.T) {
	e := NewEncoder(0, true)
	e.Edge(0, true)
	if d, _ := e.Take(); d != Down {
		t.Errorf("reversed encoder went %s", d)
	}
}

func Test_mailboxHoldsOneStep(t *testing.T) {
	e := NewEncoder(500*time.Microsecond, false)
	e.Edge(0, true)
	e.Edge(time.Millisecond, false)
	d, ok := e.Take()
	if !ok || d != Down {
		t.Errorf("take = %s %v, want the latest direction", d, ok)
	}
	if _, ok := e.Take(); ok {
		t.Errorf("two edges produced two steps")
	}
}

// Edges arrive on another goroutine while the loop drains. Every take that
// succeeds must correspond to at least one edge, and the final edge is never
// lost.
func Test_mailboxConcurrent(t *testing.T) {
	e := NewEncoder(0, false)
	const edges = 10_000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < edges; i++ {
			e.Edge(time.Duration(i), true)
		}
	}()
	taken := 0
	for i := 0; i < edges; i++ {
		if d, ok := e.Take(); ok {
			if d != Up {
				t.Fatalf("direction %s", d)
			}
			taken++
		}
	}
	wg.Wait()
	if _, ok := e.Take(); ok {
		taken++
	}
	if taken == 0 || taken > edges {
		t.Errorf("took %d steps from %d edges", taken, edges)
	}
}

func Test_inputsPoll(t *testing.T) {
	in := New(500*time.Microsecond, 350*ms, false)
	in.Encoder.Edge(0, true)
	ev := in.Poll(Levels{Mode: true}, 0)
	if ev.Step != Up || !ev.ModeActive || ev.Click || ev.Mode != NoClick {
		t.Errorf("events = %+v", ev)
	}
	ev = in.Poll(Levels{Button: true}, 10*ms)
	if ev.Step != 0 || ev.ModeActive || ev.Mode != SingleClick {
		t.Errorf("events = %+v", ev)
	}
	ev = in.Poll(Levels{}, 20*ms)
	if !ev.Click {
		t.Errorf("button release did not click: %+v", ev)
	}
}
