package commands

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/siteporter/siteporter/internal/config"
	"github.com/siteporter/siteporter/internal/logfields"
)

// PluginsCmd groups plugin runtime inspection subcommands.
type PluginsCmd struct {
	List PluginsListCmd `cmd:"" default:"1" help:"List loaded plugins"`
}

// PluginsListCmd loads the configured plugins and prints them.
type PluginsListCmd struct{}

func (PluginsListCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	manager, err := newPluginManager(cfg, nil)
	if err != nil {
		return fmt.Errorf("load plugins: %w", err)
	}
	defer func() {
		if uerr := manager.UnloadAll(); uerr != nil {
			slog.Warn("plugin unload failed", logfields.Error(uerr))
		}
	}()

	metas := manager.ListPlugins()
	if len(metas) == 0 {
		fmt.Println("No plugins loaded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tAUTHOR\tDESCRIPTION")
	for _, m := range metas {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Name, m.Version, m.Author, m.Description)
	}
	return w.Flush()
}
