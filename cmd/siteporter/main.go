package main

import (
	"github.com/alecthomas/kong"

	"github.com/siteporter/siteporter/cmd/siteporter/commands"
	"github.com/siteporter/siteporter/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("siteporter"),
		kong.Description("Bulk site migration with a plugin runtime and live preview."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}
