/*
Copyright 2011 Google Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package osutil provides operating system-specific path information
// for locating this program's on-disk state.
package osutil

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// HomeDir returns the path to the user's home directory.
// It returns the empty string if the value isn't known.
func HomeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}

// Username returns the current user's username, as
// reported by the relevant environment variable.
func Username() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("USERNAME")
	}
	return os.Getenv("USER")
}

var appDataDirOnce sync.Once

// AppDataDir returns this program's root directory for on-disk state:
// the downloaded image tree, generated card-back tiers, and any
// user overrides. It is created on first use. The SCRYIMG_DATA_DIR
// environment variable overrides the OS default location.
func AppDataDir() string {
	appDataDirOnce.Do(makeAppDataDir)
	return appDataDir()
}

func appDataDir() string {
	if d := os.Getenv("SCRYIMG_DATA_DIR"); d != "" {
		return d
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(HomeDir(), "Library", "Application Support", "scryimg")
	case "windows":
		for _, ev := range []string{"APPDATA", "TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return filepath.Join(v, "scryimg")
			}
		}
		panic("No Windows APPDATA, TEMP or TMP environment variables found; please file a bug report.")
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "scryimg")
	}
	return filepath.Join(HomeDir(), ".local", "share", "scryimg")
}

func makeAppDataDir() {
	err := os.MkdirAll(appDataDir(), 0700)
	if err != nil {
		log.Fatalf("could not create app data dir %v: %v", appDataDir(), err)
	}
}

// ImagesRoot returns the root directory under which resolved images are
// written, mirroring AppDataDir()/images unless overridden by a
// single-line path written to AppDataDir()/imagepath.txt.
func ImagesRoot() string {
	override := filepath.Join(AppDataDir(), "imagepath.txt")
	if b, err := os.ReadFile(override); err == nil {
		if p := strings.TrimSpace(string(b)); p != "" {
			return p
		}
	}
	return filepath.Join(AppDataDir(), "images")
}

// CardbackCacheDir returns the directory generated card-back tiers are
// cached to. The embedded original asset is read-only at compile time,
// so tiers derived from it (resized/cropped on demand) are written
// alongside the rest of this program's on-disk state instead.
func CardbackCacheDir() string {
	return filepath.Join(AppDataDir(), "cardback")
}
