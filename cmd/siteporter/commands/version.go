package commands

import (
	"fmt"

	"github.com/siteporter/siteporter/internal/version"
)

// VersionCmd prints version and build metadata.
type VersionCmd struct{}

func (VersionCmd) Run(_ *Global, _ *CLI) error {
	fmt.Printf("siteporter %s (commit %s, built %s)\n",
		version.Version, version.GitCommit, version.BuildTime)
	return nil
}
