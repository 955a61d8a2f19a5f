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

// Package cpufreq is a programmatic control layer over the Linux kernel's
// cpufreq subsystem. It enumerates CPUs, reads and writes per-CPU scaling
// attributes and performs bulk operations (core hotplug, frequency
// pinning, hyperthread disabling, reset to a default operating point)
// against the sysfs file tree. The kernel owns all state; every operation
// here is a synchronous, non-transactional read or write against it.
package cpufreq

import (
	"runtime"
	"strings"

	idset "github.com/intel/goresctrl/pkg/utils"
	"github.com/pkg/errors"

	logger "github.com/power-tools/cpufreq/pkg/log"
	"github.com/power-tools/cpufreq/pkg/utils/cpuset"
)

// defaultGovernor is the governor Reset restores.
const defaultGovernor = "schedutil"

// supportedDrivers is the allow-list of scaling drivers this library has
// been validated against. There is no degraded mode for other drivers.
var supportedDrivers = map[string]struct{}{
	"intel_pstate": {},
	"acpi-cpufreq": {},
}

var log = logger.NewLogger("cpufreq")

// Controller controls the CPUs of the local machine through the cpufreq
// file tree. A Controller holds no state of its own between calls and no
// open file descriptors; the per-CPU state machine (online/offline,
// governor, frequency bounds) lives in the kernel.
//
// Fan-out operations capture the online (or present) CPU set once at the
// start of the call and then apply per CPU, failing fast on the first
// error. A partial failure leaves already-processed CPUs mutated with no
// rollback; callers must re-query state to determine what succeeded.
type Controller interface {
	// Online returns the CPUs currently online, in kernel list order.
	Online() ([]idset.ID, error)
	// Present returns the CPUs known to the hardware, online or not.
	Present() ([]idset.ID, error)

	// Governors returns the scaling governor of every online CPU.
	Governors() (map[idset.ID]string, error)
	// Frequencies returns the current frequency (kHz) of every online CPU.
	Frequencies() (map[idset.ID]uint64, error)
	// MaxFrequencies returns the scaling upper bound of every online CPU.
	MaxFrequencies() (map[idset.ID]uint64, error)
	// MinFrequencies returns the scaling lower bound of every online CPU.
	MinFrequencies() (map[idset.ID]uint64, error)
	// AvailableFrequencies returns the discrete frequencies every online
	// CPU advertises, in the order the kernel lists them.
	AvailableFrequencies() (map[idset.ID][]uint64, error)

	// SetFrequencies pins every online CPU to freq by writing the set
	// speed and collapsing the min/max bounds onto it.
	SetFrequencies(freq uint64) error
	// SetMaxFrequencies sets the scaling upper bound of every online CPU.
	SetMaxFrequencies(freq uint64) error
	// SetMinFrequencies sets the scaling lower bound of every online CPU.
	SetMinFrequencies(freq uint64) error
	// SetGovernors sets the scaling governor of every online CPU. The
	// name is not checked against the advertised governor list; an
	// unsupported name surfaces as the kernel's write error.
	SetGovernors(governor string) error

	// Enable brings the given CPU online.
	Enable(id idset.ID) error
	// Disable takes the given CPU offline.
	Disable(id idset.ID) error
	// EnableAll brings every present CPU except CPU 0 online.
	EnableAll() error
	// DisableAll takes every present CPU except CPU 0 offline.
	DisableAll() error
	// DisableHyperthreads takes the sibling threads of every online CPU
	// offline, leaving one thread per physical core.
	DisableHyperthreads() error

	// Reset brings all CPUs online, restores the default governor and
	// widens the frequency bounds to the full advertised range.
	Reset() error
}

// controller implements Controller.
type controller struct {
	logger.Logger
	root string
	fs   FS
}

// Option is an opaque controller construction option.
type Option func(*controller)

// WithSysRoot overrides the root directory of the cpufreq file tree.
func WithSysRoot(root string) Option {
	return func(c *controller) {
		c.root = root
	}
}

// WithFS overrides the file tree implementation itself. Used by tests to
// substitute an in-memory tree; takes precedence over WithSysRoot.
func WithFS(fs FS) Option {
	return func(c *controller) {
		c.fs = fs
	}
}

// New validates that the running system is controllable and returns a
// Controller for it. It fails on non-Linux platforms and on machines
// whose active scaling driver (read from CPU 0) is not on the allow-list.
func New(opts ...Option) (Controller, error) {
	c := &controller{
		Logger: log,
		root:   DefaultSysRoot,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fs == nil {
		c.fs = NewFS(c.root)
	}

	if runtime.GOOS != "linux" {
		return nil, errors.Wrap(ErrUnsupportedPlatform, runtime.GOOS)
	}

	driver, err := getVariable[string](c, 0, driverAttr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to determine scaling driver")
	}
	if _, ok := supportedDrivers[driver]; !ok {
		return nil, errors.Wrapf(ErrUnsupportedDriver, "%q", driver)
	}

	c.Debug("controlling cpufreq at %s, scaling driver %q", c.root, driver)
	return c, nil
}

// readEntry reads one entry of the file tree, counting the access.
func (c *controller) readEntry(path string) (string, error) {
	readsTotal.Inc()
	data, err := c.fs.Read(path)
	if err != nil {
		readErrorsTotal.Inc()
		return "", cpufreqError("%s: %w", path, err)
	}
	return data, nil
}

// writeEntry writes one entry of the file tree, counting the access.
func (c *controller) writeEntry(path, data string) error {
	writesTotal.Inc()
	if err := c.fs.Write(path, data); err != nil {
		writeErrorsTotal.Inc()
		return cpufreqError("%s: failed to write %q: %w", path, data, err)
	}
	c.Debug("wrote %q to %s", data, path)
	return nil
}

// getCPUList reads and expands one of the top-level CPU list entries.
func (c *controller) getCPUList(entry string) ([]idset.ID, error) {
	raw, err := c.readEntry(entry)
	if err != nil {
		return nil, err
	}
	cpus, err := ParseCPUList(raw)
	if err != nil {
		return nil, cpufreqError("%s: %w", entry, err)
	}
	return cpus, nil
}

func (c *controller) Online() ([]idset.ID, error) {
	return c.getCPUList(onlineList)
}

func (c *controller) Present() ([]idset.ID, error) {
	return c.getCPUList(presentList)
}

func (c *controller) Governors() (map[idset.ID]string, error) {
	return getVariableAll[string](c, governorAttr)
}

func (c *controller) Frequencies() (map[idset.ID]uint64, error) {
	return getVariableAll[uint64](c, curFreqAttr)
}

func (c *controller) MaxFrequencies() (map[idset.ID]uint64, error) {
	return getVariableAll[uint64](c, maxFreqAttr)
}

func (c *controller) MinFrequencies() (map[idset.ID]uint64, error) {
	return getVariableAll[uint64](c, minFreqAttr)
}

func (c *controller) AvailableFrequencies() (map[idset.ID][]uint64, error) {
	lists, err := getVariableAll[string](c, availFreqAttr)
	if err != nil {
		return nil, err
	}

	freqs := make(map[idset.ID][]uint64, len(lists))
	for id, list := range lists {
		parsed, err := parseFrequencyList(list)
		if err != nil {
			return nil, cpufreqError("cpu%d/%s: %w", id, availFreqAttr, err)
		}
		freqs[id] = parsed
	}
	return freqs, nil
}

// parseFrequencyList parses a single line of space-separated kHz values.
func parseFrequencyList(list string) ([]uint64, error) {
	fields := strings.Fields(list)
	freqs := make([]uint64, 0, len(fields))
	for _, field := range fields {
		freq, err := parseScalar[uint64](field)
		if err != nil {
			return nil, err
		}
		freqs = append(freqs, freq)
	}
	return freqs, nil
}

func (c *controller) SetFrequencies(freq uint64) error {
	c.Debug("pinning online CPUs to %d kHz", freq)
	for _, attr := range []string{setSpeedAttr, maxFreqAttr, minFreqAttr} {
		if err := setVariableAll(c, attr, freq); err != nil {
			return errors.Wrap(err, "failed to pin frequency")
		}
	}
	return nil
}

func (c *controller) SetMaxFrequencies(freq uint64) error {
	return setVariableAll(c, maxFreqAttr, freq)
}

func (c *controller) SetMinFrequencies(freq uint64) error {
	return setVariableAll(c, minFreqAttr, freq)
}

func (c *controller) SetGovernors(governor string) error {
	c.Debug("setting governor of online CPUs to %q", governor)
	return setVariableAll(c, governorAttr, governor)
}

func (c *controller) Enable(id idset.ID) error {
	return setVariable(c, id, onlineAttr, "1")
}

func (c *controller) Disable(id idset.ID) error {
	return setVariable(c, id, onlineAttr, "0")
}

func (c *controller) EnableAll() error {
	return c.toggleAllPresent(true)
}

func (c *controller) DisableAll() error {
	return c.toggleAllPresent(false)
}

// toggleAllPresent walks the present set in order and writes each CPU's
// online control. CPU 0 is always online and has no control entry, so it
// is skipped.
func (c *controller) toggleAllPresent(online bool) error {
	present, err := c.getCPUList(presentList)
	if err != nil {
		return err
	}

	for _, id := range present {
		if id == 0 {
			continue
		}
		if online {
			err = c.Enable(id)
		} else {
			err = c.Disable(id)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *controller) DisableHyperthreads() error {
	online, err := c.getCPUList(onlineList)
	if err != nil {
		return err
	}

	siblings := idset.NewIDSet()
	for _, id := range online {
		raw, err := c.readEntry(cpuPath(id, siblingsAttr))
		if err != nil {
			return err
		}
		threads, err := ParseCPUList(raw)
		if err != nil {
			return cpufreqError("cpu%d/%s: %w", id, siblingsAttr, err)
		}
		// The first entry is the primary thread of the core; every
		// remaining entry is a hyperthread sharing its resources.
		for _, sibling := range threads[1:] {
			siblings.Add(sibling)
		}
	}

	if siblings.Size() == 0 {
		return nil
	}

	c.Info("disabling hyperthread siblings %s", cpuset.FromIDs(siblings.SortedMembers()))
	for _, id := range siblings.SortedMembers() {
		if err := c.Disable(id); err != nil {
			return errors.Wrap(err, "failed to disable hyperthreads")
		}
	}
	return nil
}

func (c *controller) Reset() error {
	if err := c.EnableAll(); err != nil {
		return errors.Wrap(err, "reset")
	}
	if err := c.SetGovernors(defaultGovernor); err != nil {
		return errors.Wrap(err, "reset")
	}

	// CPU 0's advertised list stands in for every CPU here, which is
	// wrong on asymmetric-core hardware.
	raw, err := getVariable[string](c, 0, availFreqAttr)
	if err != nil {
		return errors.Wrap(err, "reset")
	}
	freqs, err := parseFrequencyList(raw)
	if err != nil {
		return cpufreqError("cpu0/%s: %w", availFreqAttr, err)
	}
	if len(freqs) == 0 {
		return cpufreqError("cpu0/%s: empty frequency list", availFreqAttr)
	}

	min, max := freqs[0], freqs[0]
	for _, freq := range freqs[1:] {
		if freq < min {
			min = freq
		}
		if freq > max {
			max = freq
		}
	}

	if err := c.SetMaxFrequencies(max); err != nil {
		return errors.Wrap(err, "reset")
	}
	if err := c.SetMinFrequencies(min); err != nil {
		return errors.Wrap(err, "reset")
	}
	return nil
}
