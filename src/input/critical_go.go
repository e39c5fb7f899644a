//go:build !tinygo

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

import "sync"

// On a regular Go runtime the encoder handler runs on its own goroutine, so
// masking is a plain mutex.
var mask sync.Mutex

type state struct{}

func disableInterrupts() state {
	mask.Lock()
	return state{}
}

func restoreInterrupts(state) {
	mask.Unlock()
}
