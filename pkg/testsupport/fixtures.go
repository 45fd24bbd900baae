package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// LoadFixture reads name from the calling package's testdata directory.
func LoadFixture(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join("testdata", name))
}

// LoadJSONFixture decodes a testdata JSON file into v.
func LoadJSONFixture(name string, v any) error {
	data, err := LoadFixture(name)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
