// Copyright 2025 The benchmark-results Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchraw

import (
	"os"
	"path/filepath"
	"strings"
)

// A ResultDir identifies one RTOS/configuration result set discovered
// under an analysis root.
type ResultDir struct {
	// ConfigID is the directory name, taken verbatim.
	ConfigID string

	// RTOS and Variant are the two halves of ConfigID. The naming
	// convention is "<rtos>_<variant>": the part before the first
	// underscore names the RTOS, the rest names the build variant.
	// A name with no underscore is an RTOS with variant "default".
	RTOS    string
	Variant string

	// Path is the directory's path, rooted at the analysis root.
	Path string
}

// Discover enumerates the result directories under root, one per
// immediate subdirectory, in name order. Hidden directories are
// skipped. It fails with a *DiscoveryError if root cannot be read or
// contains no result directories.
func Discover(root string) ([]ResultDir, error) {
	ents, err := os.ReadDir(root)
	if err != nil {
		return nil, &DiscoveryError{root, "cannot read results root: " + err.Error()}
	}
	// os.ReadDir returns entries sorted by name, which fixes the
	// discovery order.
	var dirs []ResultDir
	for _, ent := range ents {
		if !ent.IsDir() || strings.HasPrefix(ent.Name(), ".") {
			continue
		}
		name := ent.Name()
		rtos, variant := name, "default"
		if i := strings.Index(name, "_"); i > 0 {
			rtos, variant = name[:i], name[i+1:]
		}
		dirs = append(dirs, ResultDir{
			ConfigID: name,
			RTOS:     rtos,
			Variant:  variant,
			Path:     filepath.Join(root, name),
		})
	}
	if len(dirs) == 0 {
		return nil, &DiscoveryError{root, "no result directories found"}
	}
	return dirs, nil
}
