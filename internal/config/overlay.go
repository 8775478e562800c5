package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tanishq20011430/job-watchdog/internal/source"
)

type boardsFile struct {
	Greenhouse struct {
		Boards []source.GreenhouseBoard `yaml:"boards"`
	} `yaml:"greenhouse"`
}

// OverlayBoards merges a separate boards file into the config, so the
// user can maintain their greenhouse watch list without touching the
// main config. A missing file is not an error.
func OverlayBoards(cfg *Config, boardsPath string) error {
	b, err := os.ReadFile(boardsPath)
	if err != nil {
		return nil
	}

	var bf boardsFile
	if err := yaml.Unmarshal(b, &bf); err != nil {
		return err
	}

	if len(bf.Greenhouse.Boards) > 0 {
		cfg.Sources.Greenhouse.Boards = bf.Greenhouse.Boards
	}
	return nil
}
