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

// Package metrics provides a registry for prometheus collectors exposed
// by this library. Collectors register themselves here; gathering and
// exporting is left to the embedding program.
package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	logger "github.com/power-tools/cpufreq/pkg/log"
)

var log = logger.Get("metrics")

// Collector is a registered prometheus.Collector.
type Collector struct {
	name      string
	group     string
	collector prometheus.Collector
}

// Option can adjust the registration of a collector.
type Option func(*Collector)

// WithGroup registers a collector as part of the given group.
func WithGroup(group string) Option {
	return func(c *Collector) {
		c.group = group
	}
}

// registry tracks all registered collectors.
type registry struct {
	sync.Mutex
	collectors map[string]*Collector
	gatherer   *prometheus.Registry
}

var reg = &registry{
	collectors: make(map[string]*Collector),
	gatherer:   prometheus.NewRegistry(),
}

// Register registers a prometheus collector under the given name.
func Register(name string, collector prometheus.Collector, opts ...Option) error {
	reg.Lock()
	defer reg.Unlock()

	if _, ok := reg.collectors[name]; ok {
		return metricsError("collector %q already registered", name)
	}

	c := &Collector{
		name:      name,
		collector: collector,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := reg.gatherer.Register(collector); err != nil {
		return metricsError("failed to register collector %q: %v", name, err)
	}
	reg.collectors[name] = c

	log.Debug("registered collector %q (group %q)", c.name, c.group)
	return nil
}

// MustRegister registers a collector, panicking on failure.
func MustRegister(name string, collector prometheus.Collector, opts ...Option) {
	if err := Register(name, collector, opts...); err != nil {
		panic(err)
	}
}

// Gatherer returns the prometheus gatherer for all registered collectors.
func Gatherer() prometheus.Gatherer {
	return reg.gatherer
}

// NamesInGroup returns the names of the collectors registered in a group.
func NamesInGroup(group string) []string {
	reg.Lock()
	defer reg.Unlock()

	var names []string
	for name, c := range reg.collectors {
		if c.group == group {
			names = append(names, name)
		}
	}
	return names
}

// metricsError returns a package-specific formatted error.
func metricsError(format string, args ...interface{}) error {
	return fmt.Errorf("metrics: "+format, args...)
}
