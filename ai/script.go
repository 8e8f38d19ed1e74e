package ai

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/dungeonshift/prefabs"
)

// Behavior scripts define `decide := func(ctx) { ... }` returning a mode
// string. The dispatch tail invokes it with the per-turn context.
const scriptDispatch = `
__result := decide(__ctx)
`

// ScriptCache compiles behavior scripts once per path and reuses them across
// turns and enemies.
type ScriptCache struct {
	compiled map[string]*tengo.Compiled
}

// NewScriptCache returns an empty cache.
func NewScriptCache() *ScriptCache {
	return &ScriptCache{compiled: map[string]*tengo.Compiled{}}
}

// Decide runs the script at path with ctx bound and returns the chosen mode.
func (c *ScriptCache) Decide(path string, ctx map[string]interface{}) (string, error) {
	compiled, err := c.get(path)
	if err != nil {
		return "", err
	}

	// Clone so per-run state never leaks between enemies sharing a script.
	run := compiled.Clone()
	if err := run.Set("__ctx", ctx); err != nil {
		return "", fmt.Errorf("ai: bind script context: %w", err)
	}
	if err := run.Run(); err != nil {
		return "", fmt.Errorf("ai: run %s: %w", path, err)
	}
	return run.Get("__result").String(), nil
}

func (c *ScriptCache) get(path string) (*tengo.Compiled, error) {
	if compiled, ok := c.compiled[path]; ok {
		return compiled, nil
	}

	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("ai: load script %s: %w", path, err)
	}

	script := tengo.NewScript(append(src, []byte(scriptDispatch)...))
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := script.Add("__ctx", map[string]interface{}{}); err != nil {
		return nil, fmt.Errorf("ai: declare script context: %w", err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("ai: compile %s: %w", path, err)
	}
	c.compiled[path] = compiled
	return compiled, nil
}

// Invalidate drops a compiled script so the next run recompiles it, used by
// hot reload.
func (c *ScriptCache) Invalidate(path string) {
	delete(c.compiled, path)
}
