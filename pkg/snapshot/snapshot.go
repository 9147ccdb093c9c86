// Package snapshot compares values against JSON files in a package's testdata directory
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var (
	lock      sync.Mutex
	callCount = make(map[string]int)
)

// ValidateSnapshot compares obj with testdata/<test name>-<call>.json
// A missing file is written and the check passes. Set UPDATE_SNAPSHOTS=1 to rewrite every file.
func ValidateSnapshot(t *testing.T, obj interface{}, msgAndArgs ...interface{}) bool {
	t.Helper()

	filename := nextFilename(t.Name())
	objJSON, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		t.Fatalf("could not encode snapshot: %v", err)
		return false
	}

	expects, err := os.ReadFile(filename)
	if os.IsNotExist(err) || os.Getenv("UPDATE_SNAPSHOTS") == "1" {
		write(t, filename, objJSON)
		return true
	} else if err != nil {
		t.Fatalf("could not read snapshot: %v", err)
		return false
	}

	if !assert.Equal(t, strings.TrimSpace(string(expects)), strings.TrimSpace(string(objJSON)), msgAndArgs...) {
		t.Logf("snapshot %s", filename)
		return false
	}

	return true
}

func nextFilename(testName string) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(testName)

	lock.Lock()
	call := callCount[name]
	callCount[name] = call + 1
	lock.Unlock()

	return filepath.Join("testdata", fmt.Sprintf("%s-%d.json", name, call))
}

func write(t *testing.T, filename string, b []byte) {
	t.Helper()
	logrus.WithField("filename", filename).Info("writing snapshot file")

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		t.Fatalf("could not create snapshot directory: %v", err)
	}

	if err := os.WriteFile(filename, append(b, '\n'), 0o644); err != nil {
		t.Fatalf("could not write snapshot: %v", err)
	}
}
