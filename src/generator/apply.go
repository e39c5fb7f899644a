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

package generator

import (
	"fmt"

	"iqgen/src/support"
)

// Apply puts a plan on the synthesizer. Both channels run from PLLA in
// integer mode with the same PLL frequency, the reference channel at phase 0
// and the quadrature channel delayed by plan.Phase. The PLL reset comes
// after the phase registers because they only load on reset.
//
// Apply stops at the first error, which can leave the two channels on
// different plans. The controller retries until a whole Apply succeeds.
func Apply(s support.Synthesizer, plan support.Plan) error {
	for _, ch := range support.Channels {
		if err := s.SetPllSource(ch, support.PllA); err != nil {
			return fmt.Errorf("apply: pll source %s: %w", ch, err)
		}
		if err := s.SetIntegerMode(ch, true); err != nil {
			return fmt.Errorf("apply: integer mode %s: %w", ch, err)
		}
	}
	for _, ch := range support.Channels {
		if err := s.SetFrequency(ch, plan.Output, plan.Pll); err != nil {
			return fmt.Errorf("apply: frequency %s: %w", ch, err)
		}
	}
	if err := s.SetPhase(support.Reference, 0); err != nil {
		return fmt.Errorf("apply: phase %s: %w", support.Reference, err)
	}
	if err := s.SetPhase(support.Quadrature, plan.Phase); err != nil {
		return fmt.Errorf("apply: phase %s: %w", support.Quadrature, err)
	}
	if err := s.ResetPll(support.PllA); err != nil {
		return fmt.Errorf("apply: reset: %w", err)
	}
	for _, ch := range support.Channels {
		if err := s.SetOutputEnabled(ch, true); err != nil {
			return fmt.Errorf("apply: enable %s: %w", ch, err)
		}
	}
	return nil
}
