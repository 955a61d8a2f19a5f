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

package cpufreq_test

import (
	"os"
	"strconv"
	"strings"

	"github.com/power-tools/cpufreq/pkg/utils/cpuset"
)

// fakeFS is an in-memory cpufreq file tree. Unlike a plain directory
// fixture it models the one piece of kernel behavior hotplug tests need:
// writing a cpu{N}/online control refreshes the top-level online list.
type fakeFS struct {
	files      map[string]string
	failWrites map[string]error
	writes     []string
}

func newFakeFS(files map[string]string) *fakeFS {
	return &fakeFS{
		files:      files,
		failWrites: map[string]error{},
	}
}

func (f *fakeFS) Read(path string) (string, error) {
	data, ok := f.files[path]
	if !ok {
		return "", os.ErrNotExist
	}
	return data, nil
}

func (f *fakeFS) Write(path, data string) error {
	if err, ok := f.failWrites[path]; ok {
		return err
	}
	if _, ok := f.files[path]; !ok {
		return os.ErrNotExist
	}
	f.files[path] = data
	f.writes = append(f.writes, path)
	if cpu, ok := onlineControl(path); ok && cpu > 0 {
		f.refreshOnlineList()
	}
	return nil
}

// onlineControl reports whether path is a cpu{N}/online hotplug control.
func onlineControl(path string) (int, bool) {
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[1] != "online" || !strings.HasPrefix(parts[0], "cpu") {
		return 0, false
	}
	cpu, err := strconv.Atoi(strings.TrimPrefix(parts[0], "cpu"))
	if err != nil {
		return 0, false
	}
	return cpu, true
}

func (f *fakeFS) refreshOnlineList() {
	online := []int{0} // cpu0 has no hotplug control
	for path, data := range f.files {
		if cpu, ok := onlineControl(path); ok && cpu > 0 && strings.TrimSpace(data) == "1" {
			online = append(online, cpu)
		}
	}
	f.files["online"] = cpuset.New(online...).String() + "\n"
}

// sampleTree builds the file tree of a machine with ncpu online CPUs,
// the intel_pstate driver and per-CPU sibling lists. Every frequency
// attribute gets a distinct value so tests catch accessors collapsed
// onto a single underlying file.
func sampleTree(ncpu int, siblings map[int]string) map[string]string {
	list := "0-" + strconv.Itoa(ncpu-1) + "\n"
	if ncpu == 1 {
		list = "0\n"
	}
	files := map[string]string{
		"online":  list,
		"present": list,
	}
	for cpu := 0; cpu < ncpu; cpu++ {
		prefix := "cpu" + strconv.Itoa(cpu) + "/"
		if cpu > 0 {
			files[prefix+"online"] = "1\n"
		}
		files[prefix+"cpufreq/scaling_driver"] = "intel_pstate\n"
		files[prefix+"cpufreq/scaling_governor"] = "performance\n"
		files[prefix+"cpufreq/scaling_cur_freq"] = "2000000\n"
		files[prefix+"cpufreq/scaling_max_freq"] = "3700000\n"
		files[prefix+"cpufreq/scaling_min_freq"] = "400000\n"
		files[prefix+"cpufreq/scaling_setspeed"] = "<unsupported>\n"
		files[prefix+"cpufreq/scaling_available_frequencies"] = "400000 1200000 2000000 3700000\n"
		sibs, ok := siblings[cpu]
		if !ok {
			sibs = strconv.Itoa(cpu)
		}
		files[prefix+"topology/thread_siblings_list"] = sibs + "\n"
	}
	return files
}
