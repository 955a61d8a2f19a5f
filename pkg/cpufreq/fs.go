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
	"os"
	"path/filepath"
	"unicode/utf8"
)

// DefaultSysRoot is where the kernel exposes the cpufreq file tree.
const DefaultSysRoot = "/sys/devices/system/cpu"

// FS reads and writes text entries below a root directory. It is the
// sole point of contact with the external file tree; tests substitute an
// implementation backed by a temporary directory or memory.
type FS interface {
	// Read returns the full text content of the entry at relPath.
	Read(relPath string) (string, error)
	// Write writes exactly data to the entry at relPath, no implicit
	// newline. Writes have real side effects on the running kernel and
	// are not safe to retry blindly.
	Write(relPath string, data string) error
}

// osFS is an FS over a real directory tree. Every access is a scoped
// open/read-or-write/close; no descriptors are retained across calls.
type osFS struct {
	root string
}

// NewFS returns an FS rooted at the given directory.
func NewFS(root string) FS {
	return &osFS{root: root}
}

func (fs *osFS) Read(relPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(fs.root, relPath))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrEncoding
	}
	return string(data), nil
}

func (fs *osFS) Write(relPath string, data string) error {
	return os.WriteFile(filepath.Join(fs.root, relPath), []byte(data), 0644)
}
