package build

import (
	"context"
	"fmt"

	"github.com/siteporter/siteporter/pkg/plugin"
)

// stageHooks maps each stage to the hooks that bracket it.
var stageHooks = map[StageName][2]plugin.Hook{
	StageInit:     {plugin.HookPreInit, plugin.HookPostInit},
	StageRead:     {plugin.HookPreRead, plugin.HookPostRead},
	StageGenerate: {plugin.HookPreGenerate, plugin.HookPostGenerate},
	StageRender:   {plugin.HookPreRender, plugin.HookPostRender},
	StageWrite:    {plugin.HookPreWrite, plugin.HookPostWrite},
	StageClean:    {plugin.HookPreClean, plugin.HookPostClean},
}

// dispatch runs one hook through the plugin manager. A stop result counts as
// success for the stage; an error result becomes a fatal stage error carrying
// the plugin's error unchanged.
func (st *State) dispatch(h plugin.Hook, stage StageName) error {
	if st.Plugins == nil {
		return nil
	}
	res := st.Plugins.ExecuteHook(h, st.HookCtx)
	if res.Failed() {
		err := res.Err
		if err == nil {
			err = fmt.Errorf("hook %s failed", h)
		}
		return NewFatalStageError(stage, err)
	}
	return nil
}

// hooked wraps a stage body in its pre_/post_ hook dispatches. The render
// stage dispatches per page instead and does not use this wrapper.
func hooked(name StageName, body Stage) Stage {
	pre, post := stageHooks[name][0], stageHooks[name][1]
	return func(ctx context.Context, st *State) error {
		if err := st.dispatch(pre, name); err != nil {
			return err
		}
		if err := body(ctx, st); err != nil {
			return err
		}
		return st.dispatch(post, name)
	}
}
