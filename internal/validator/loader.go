package validator

import (
	"os"
	"path/filepath"
	"strings"
)

// LoadAllowlist builds the process allowlist: the built-in rules merged
// with every *.rules file under {home}/rules/, in directory order. A
// missing rules directory is not an error.
func LoadAllowlist(home string) (*Allowlist, error) {
	merged := DefaultAllowlist()

	rulesDir := filepath.Join(home, "rules")
	entries, err := os.ReadDir(rulesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return merged, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".rules") {
			continue
		}
		path := filepath.Join(rulesDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		parsed, err := ParseAllowlist(path, string(data))
		if err != nil {
			return nil, err
		}
		merged.Merge(parsed)
	}

	return merged, nil
}
