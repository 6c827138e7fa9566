// Copyright 2023 Zippie Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

// Package machine drives one invocation of the state transition engine as a
// finite state machine: load the input, authenticate it, process the
// operations against a fresh snapshot and commit everything as one logical
// unit. Any transition error aborts the run before a single write happens.
package machine

import (
	"fmt"
)

// FSM is the finite state machine of one run.
type FSM struct {
	state       *State
	transitions map[Status]TransitionFunc
}

// NewFSM creates a new FSM on the given state, with the given transitions.
func NewFSM(state *State, options ...func(*FSM)) *FSM {

	f := FSM{
		state:       state,
		transitions: make(map[Status]TransitionFunc),
	}
	for _, option := range options {
		option(&f)
	}

	return &f
}

// WithTransition specifies which TransitionFunc should be used when the
// state machine has the given status.
func WithTransition(status Status, transition TransitionFunc) func(*FSM) {
	return func(f *FSM) {
		f.transitions[status] = transition
	}
}

// Run drives the state machine until it is done or a transition fails. A
// failed run performs no writes; the caller should surface the error and
// terminate with a non-zero signal.
func (f *FSM) Run() error {
	for f.state.status != StatusDone {
		transition, ok := f.transitions[f.state.status]
		if !ok {
			return fmt.Errorf("could not find transition for status (%s)", f.state.status)
		}
		err := transition(f.state)
		if err != nil {
			return fmt.Errorf("could not apply transition to state (status: %s): %w", f.state.status, err)
		}
	}
	return nil
}
