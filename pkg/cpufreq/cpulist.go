// Copyright The Power Tools Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cpufreq

import (
	"strconv"
	"strings"

	idset "github.com/intel/goresctrl/pkg/utils"
)

// ParseCPUList parses the kernel's compact CPU-list syntax ("0,4,6-12")
// into an explicit slice of CPU ids. Each comma-separated token is either
// a decimal id or an inclusive lo-hi range. Token expansions are
// concatenated in textual order and overlapping tokens are kept as
// duplicates, so the result round-trips what the kernel listed rather
// than a normalized set.
func ParseCPUList(list string) ([]idset.ID, error) {
	var cpus []idset.ID

	for _, token := range strings.Split(strings.TrimSpace(list), ",") {
		bounds := strings.Split(strings.TrimSpace(token), "-")
		switch len(bounds) {
		case 1:
			id, err := parseCPUID(bounds[0])
			if err != nil {
				return nil, err
			}
			cpus = append(cpus, id)
		case 2:
			lo, err := parseCPUID(bounds[0])
			if err != nil {
				return nil, err
			}
			hi, err := parseCPUID(bounds[1])
			if err != nil {
				return nil, err
			}
			if lo > hi {
				return nil, parseError("invalid CPU range %q", token)
			}
			for id := lo; id <= hi; id++ {
				cpus = append(cpus, id)
			}
		default:
			return nil, parseError("invalid CPU range %q", token)
		}
	}

	return cpus, nil
}

func parseCPUID(s string) (idset.ID, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, parseError("invalid CPU id %q", s)
	}
	return idset.ID(id), nil
}
