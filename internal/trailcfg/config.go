// Package trailcfg holds the command-line and JSON-overlay
// configuration of the maw32trail command.
package trailcfg

import (
	"encoding/json"
	"os"
)

// Config describes one search run: how many rounds to propagate,
// what probability threshold to sample at, how large and how mutable
// the gene pool is, and where memo/log files live on disk.
type Config struct {
	Rounds          int     `json:"rounds"`
	Threshold       float64 `json:"threshold"`
	PoolSize        int     `json:"poolsize"`
	ImmigrationRate float64 `json:"immigrationrate"`
	Generations     int     `json:"generations"` // 0 = run until interrupted
	Threads         int     `json:"threads"`
	Convention      string  `json:"convention"` // "legacy" or "split"
	ScratchDir      string  `json:"scratchdir"`
	BoltCache       string  `json:"boltcache"`
	Archive         string  `json:"archive"`
	Log             string  `json:"log"`
	FitnessLog      string  `json:"fitnesslog"`
	DryRun          bool    `json:"dryrun"`
	RandomOnly      bool    `json:"randomonly"`
	Quiet           bool    `json:"quiet"`
	Generate        bool    `json:"generate"`
	Progress        bool    `json:"progress"`
}

// ParseJSONConfig overlays path's JSON object onto config, the same
// "load after flags, let it win" overlay pattern the teacher's tools
// use for their own -c flag.
func ParseJSONConfig(config *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(config)
}
