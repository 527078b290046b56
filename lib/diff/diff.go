// Package diff checks test output against expectations kept under testdata.
//
// Expectations live next to the test in <path>.exp<ext>. On a mismatch the output is left
// in <path>.got<ext>; rerun with $TESTDATA_ACCEPT=1 to replace the expectation with it.
package diff

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"oss.terrastruct.com/diff"
)

// TestdataJSON compares v, indented with two spaces, against <path>.exp.json.
func TestdataJSON(path string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return Testdata(path, ".json", append(b, '\n'))
}

func Testdata(path, ext string, got []byte) error {
	expPath := fmt.Sprintf("%s.exp%s", path, ext)
	gotPath := fmt.Sprintf("%s.got%s", path, ext)

	if err := os.MkdirAll(filepath.Dir(gotPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(gotPath, got, 0644); err != nil {
		return err
	}
	if _, err := os.Stat(expPath); os.IsNotExist(err) && os.Getenv("TESTDATA_ACCEPT") != "" {
		return os.Rename(gotPath, expPath)
	}

	ds, err := diff.Files(expPath, gotPath)
	if err != nil {
		return err
	}
	if ds != "" {
		if os.Getenv("TESTDATA_ACCEPT") != "" {
			return os.Rename(gotPath, expPath)
		}
		return fmt.Errorf("%s differs (rerun with $TESTDATA_ACCEPT=1 to accept):\n%s", expPath, ds)
	}
	return os.Remove(gotPath)
}
