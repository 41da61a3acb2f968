// Package snapshotcfg loads the virtual-host configuration snapshot from
// the filesystem: one YAML file per Host.
package snapshotcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"

	"streamctl/internal/vhost"
)

// Loader reads Host descriptors from a directory on disk.
type Loader struct {
	dir string
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load reads every *.yaml/*.yml file directly under the loader's
// directory and unmarshals each into a vhost.HostConfig. Files are
// processed in lexical filename order for deterministic VirtualHost
// declaration order (§4.4 relies on configuration order for domain
// resolution ties). A missing directory yields an empty snapshot rather
// than an error, so a fresh deployment can start with no snapshot at all.
func (l *Loader) Load() ([]vhost.HostConfig, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot directory %s: %w", l.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !isYAMLFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	hosts := make([]vhost.HostConfig, 0, len(names))
	for _, name := range names {
		path := filepath.Join(l.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read host file %s: %w", path, err)
		}

		var host vhost.HostConfig
		if err := yaml.Unmarshal(data, &host); err != nil {
			return nil, fmt.Errorf("parse host file %s: %w", path, err)
		}
		if host.Name == "" {
			host.Name = strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
		}
		hosts = append(hosts, host)
	}

	return hosts, nil
}

func isYAMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
