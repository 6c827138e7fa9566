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

package machine

import "fmt"

// Status is a representation of the run controller's status.
type Status uint8

// The following is an enumeration of all possible statuses the run
// controller can have.
const (
	StatusInitialize Status = iota + 1
	StatusAuthenticate
	StatusLoad
	StatusProcess
	StatusCommit
	StatusDone
)

// String implements the Stringer interface.
func (s Status) String() string {
	switch s {
	case StatusInitialize:
		return "initialize"
	case StatusAuthenticate:
		return "authenticate"
	case StatusLoad:
		return "load"
	case StatusProcess:
		return "process"
	case StatusCommit:
		return "commit"
	case StatusDone:
		return "done"
	default:
		return fmt.Sprintf("invalid status %d", s)
	}
}
