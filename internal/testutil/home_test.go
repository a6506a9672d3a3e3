// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"runtime"
	"testing"
)

func homeEnvKey() string {
	if runtime.GOOS == "windows" {
		return "USERPROFILE"
	}
	return "HOME"
}

func TestSetHomeDir(t *testing.T) {
	key := homeEnvKey()
	original, hadOriginal := os.LookupEnv(key)
	tmpDir := t.TempDir()

	cleanup := SetHomeDir(t, tmpDir)
	if got := os.Getenv(key); got != tmpDir {
		t.Errorf("%s = %q, want %q", key, got, tmpDir)
	}
	if home, err := os.UserHomeDir(); err != nil || home != tmpDir {
		t.Errorf("os.UserHomeDir() = %q, %v, want %q", home, err, tmpDir)
	}

	cleanup()
	got, has := os.LookupEnv(key)
	if has != hadOriginal || got != original {
		t.Errorf("after cleanup %s = %q (set %v), want %q (set %v)", key, got, has, original, hadOriginal)
	}
}

func TestMustSetenv_UnsetRestores(t *testing.T) {
	const key = "SKETCHPUB_TESTUTIL_PROBE"
	restoreUnset := MustUnsetenv(t, key)

	restore := MustSetenv(t, key, "1")
	if os.Getenv(key) != "1" {
		t.Fatal("MustSetenv did not set the variable")
	}
	restore()
	if _, ok := os.LookupEnv(key); ok {
		t.Error("cleanup should unset a variable that was not set before")
	}
	restoreUnset()
}
