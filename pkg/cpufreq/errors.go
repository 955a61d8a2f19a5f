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
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPlatform is returned by New on non-Linux systems.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrUnsupportedDriver is returned by New when the active scaling
	// driver is not on the allow-list.
	ErrUnsupportedDriver = errors.New("unsupported scaling driver")
	// ErrParse indicates malformed numeric or CPU-list text.
	ErrParse = errors.New("malformed attribute value")
	// ErrEncoding indicates attribute content that is not valid UTF-8.
	ErrEncoding = errors.New("attribute content is not valid text")
)

// cpufreqError returns a formatted package-specific error.
func cpufreqError(format string, args ...interface{}) error {
	return fmt.Errorf("cpufreq: "+format, args...)
}

// parseError returns an ErrParse wrapped with the given context.
func parseError(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrParse)...)
}
