package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Manifest is the subset of package.json the installer reads.
type Manifest struct {
	Name       string          `json:"name"`
	Version    string          `json:"version"`
	Repository json.RawMessage `json:"repository,omitempty"`
}

// LoadManifest reads package.json from the package root.
func LoadManifest(packageRoot string) (*Manifest, error) {
	path := filepath.Join(packageRoot, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &ParseError{Message: "invalid " + ManifestFile, Detail: err.Error()}
	}
	if m.Version == "" {
		return nil, &ValidationError{Field: "version", Message: ManifestFile + " has no version"}
	}
	return &m, nil
}

// Repo returns the owner/name of the manifest's GitHub repository, or ""
// when the manifest names none or a non-GitHub one.
//
// npm accepts a bare string ("owner/name", "github:owner/name" or a URL)
// as well as an object with a url field.
func (m *Manifest) Repo() string {
	if len(m.Repository) == 0 {
		return ""
	}

	var raw string
	if err := json.Unmarshal(m.Repository, &raw); err != nil {
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(m.Repository, &obj); err != nil {
			return ""
		}
		raw = obj.URL
	}

	return githubRepo(raw)
}

func githubRepo(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = strings.TrimSuffix(s, ".git")
	s = strings.TrimSuffix(s, "/")

	switch {
	case strings.HasPrefix(s, "github:"):
		s = strings.TrimPrefix(s, "github:")
	case strings.Contains(s, "github.com/"):
		s = s[strings.Index(s, "github.com/")+len("github.com/"):]
	case strings.Contains(s, "github.com:"):
		s = s[strings.Index(s, "github.com:")+len("github.com:"):]
	case strings.Contains(s, ":"):
		// gitlab:, bitbucket: and other hosts
		return ""
	}

	if !repoPattern.MatchString(s) {
		return ""
	}
	return s
}
