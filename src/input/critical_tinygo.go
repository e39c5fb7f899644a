//go:build tinygo

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

import "runtime/interrupt"

type state = interrupt.State

// disableInterrupts masks the encoder interrupt and returns the previous state
func disableInterrupts() state {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt state
func restoreInterrupts(s state) {
	interrupt.Restore(s)
}
