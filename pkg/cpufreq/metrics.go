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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/power-tools/cpufreq/pkg/metrics"
)

const metricsGroup = "cpufreq"

var (
	readsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cpufreq_sysfs_reads_total",
		Help: "Number of cpufreq sysfs entry reads issued.",
	})
	readErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cpufreq_sysfs_read_errors_total",
		Help: "Number of cpufreq sysfs entry reads that failed.",
	})
	writesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cpufreq_sysfs_writes_total",
		Help: "Number of cpufreq sysfs entry writes issued.",
	})
	writeErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cpufreq_sysfs_write_errors_total",
		Help: "Number of cpufreq sysfs entry writes that failed.",
	})
)

func init() {
	metrics.MustRegister("cpufreq_sysfs_reads_total", readsTotal, metrics.WithGroup(metricsGroup))
	metrics.MustRegister("cpufreq_sysfs_read_errors_total", readErrorsTotal, metrics.WithGroup(metricsGroup))
	metrics.MustRegister("cpufreq_sysfs_writes_total", writesTotal, metrics.WithGroup(metricsGroup))
	metrics.MustRegister("cpufreq_sysfs_write_errors_total", writeErrorsTotal, metrics.WithGroup(metricsGroup))
}
