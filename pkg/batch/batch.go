// Package batch loads YAML manifests that describe multiple scan jobs, so a
// set of statement folders can be tallied in one invocation sharing a single
// rate cache.
package batch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest lists the scan jobs of one batch invocation.
type Manifest struct {
	Jobs []Job `yaml:"jobs"`
}

// Job names one folder to scan and, optionally, where its CSV goes.
type Job struct {
	Folder string `yaml:"folder"`
	Output string `yaml:"output"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(m.Jobs) == 0 {
		return nil, fmt.Errorf("manifest has no jobs")
	}
	for i, job := range m.Jobs {
		if job.Folder == "" {
			return nil, fmt.Errorf("job %d has no folder", i+1)
		}
	}
	return &m, nil
}

// Print writes a one-line preview per job in manifest order.
func (m *Manifest) Print() {
	for i, job := range m.Jobs {
		output := job.Output
		if output == "" {
			output = "(default)"
		}
		fmt.Printf("[%d] folder=%s output=%s\n", i+1, job.Folder, output)
	}
}
