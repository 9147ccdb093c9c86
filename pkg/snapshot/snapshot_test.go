package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSnapshot(t *testing.T) {
	a := assert.New(t)
	dir := t.TempDir()
	wd, err := os.Getwd()
	if !a.NoError(err) {
		return
	}
	a.NoError(os.Chdir(dir))
	defer func() {
		_ = os.Chdir(wd)
	}()

	obj := map[string]int{"ship": 6, "captain": 5, "crew": 4}
	a.True(ValidateSnapshot(t, obj))

	b, err := os.ReadFile(filepath.Join("testdata", "TestValidateSnapshot-0.json"))
	a.NoError(err)
	a.JSONEq(`{"ship":6,"captain":5,"crew":4}`, string(b))

	// each call in a test gets its own file
	a.True(ValidateSnapshot(t, []int{1, 2}))
	_, err = os.Stat(filepath.Join("testdata", "TestValidateSnapshot-1.json"))
	a.NoError(err)

	a.Equal(filepath.Join("testdata", "TestValidateSnapshot_sub-0.json"), nextFilename("TestValidateSnapshot/sub"))
}
