package commands

import (
	"fmt"

	"github.com/siteporter/siteporter/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir   string `arg:"" optional:"" default:"." help:"Project directory"`
	Force bool   `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, _ *CLI) error {
	if err := config.Init(i.Dir, i.Force); err != nil {
		return err
	}
	fmt.Printf("Initialized siteporter project in %s\n", i.Dir)
	return nil
}
