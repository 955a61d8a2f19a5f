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

// Top-level CPU list entries.
const (
	onlineList  = "online"
	presentList = "present"
)

// Per-CPU attribute entries, relative to cpu{N}/.
const (
	onlineAttr    = "online"
	governorAttr  = "cpufreq/scaling_governor"
	curFreqAttr   = "cpufreq/scaling_cur_freq"
	maxFreqAttr   = "cpufreq/scaling_max_freq"
	minFreqAttr   = "cpufreq/scaling_min_freq"
	availFreqAttr = "cpufreq/scaling_available_frequencies"
	setSpeedAttr  = "cpufreq/scaling_setspeed"
	driverAttr    = "cpufreq/scaling_driver"
	siblingsAttr  = "topology/thread_siblings_list"
)

// scalar constrains attribute values to the grammars the kernel uses for
// cpufreq entries: short identifier strings and decimal kHz frequencies.
type scalar interface {
	string | uint64
}

func cpuPath(id idset.ID, attr string) string {
	return "cpu" + strconv.Itoa(int(id)) + "/" + attr
}

// parseScalar parses trimmed attribute text to the requested type.
func parseScalar[T scalar](raw string) (T, error) {
	var value T
	switch v := any(&value).(type) {
	case *string:
		*v = raw
	case *uint64:
		u, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return value, parseError("invalid value %q", raw)
		}
		*v = u
	}
	return value, nil
}

// formatScalar serializes an attribute value the way the kernel expects
// it on write.
func formatScalar[T scalar](value T) string {
	switch v := any(value).(type) {
	case string:
		return v
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return ""
}

// getVariable reads the named attribute of one CPU, trims surrounding
// whitespace and parses the text to T.
func getVariable[T scalar](c *controller, id idset.ID, attr string) (T, error) {
	var zero T

	raw, err := c.readEntry(cpuPath(id, attr))
	if err != nil {
		return zero, err
	}
	value, err := parseScalar[T](strings.TrimSpace(raw))
	if err != nil {
		return zero, cpufreqError("cpu%d/%s: %w", id, attr, err)
	}
	return value, nil
}

// setVariable serializes value and writes it to the named attribute of
// one CPU. No read-back verification is done: the kernel may clamp or
// adjust the value and this layer cannot detect that.
func setVariable[T scalar](c *controller, id idset.ID, attr string, value T) error {
	return c.writeEntry(cpuPath(id, attr), formatScalar(value))
}

// getVariableAll reads the named attribute of every online CPU. The
// online set is captured once at the start of the call; concurrent
// hotplug is not re-observed mid-operation. The first error aborts the
// call and discards results already read.
func getVariableAll[T scalar](c *controller, attr string) (map[idset.ID]T, error) {
	online, err := c.getCPUList(onlineList)
	if err != nil {
		return nil, err
	}

	values := make(map[idset.ID]T, len(online))
	for _, id := range online {
		value, err := getVariable[T](c, id, attr)
		if err != nil {
			return nil, err
		}
		values[id] = value
	}
	return values, nil
}

// setVariableAll writes value to the named attribute of every online
// CPU, with the same snapshot-once semantics as getVariableAll. The
// fan-out fails fast and is not atomic: a failure partway leaves the
// already-written CPUs mutated and the remainder untouched, with no
// compensating rollback.
func setVariableAll[T scalar](c *controller, attr string, value T) error {
	online, err := c.getCPUList(onlineList)
	if err != nil {
		return err
	}

	for _, id := range online {
		if err := setVariable(c, id, attr, value); err != nil {
			return err
		}
	}
	return nil
}
