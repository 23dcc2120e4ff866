package system

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/parser"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/carry/ecs"
	"github.com/milk9111/carry/prefabs"
)

// PickupScriptEventType tags events emitted from pickup scripts.
const PickupScriptEventType = "pickup_script"

// PickupScriptEvent is pushed when a pickup script calls engine.emit(name).
type PickupScriptEvent struct {
	Item  ecs.Entity
	Actor ecs.Entity
	Name  string
}

var pickupHookFuncs = map[string]string{
	"picked":   "on_picked",
	"put_down": "on_put_down",
	"enter":    "on_actor_enter",
	"exit":     "on_actor_exit",
}

// ScriptHooks runs pickup hooks from a tengo script. Any of on_picked,
// on_put_down, on_actor_enter and on_actor_exit may be assigned at the top
// level; each is called as fn(engine, state), where state persists between
// calls. The whole script runs once per hook call, so top-level code should
// only declare functions and imports.
type ScriptHooks struct {
	name     string
	log      *slog.Logger
	compiled *tengo.Compiled
	state    *tengo.Map
}

// LoadScriptHooks compiles a script shipped under prefabs/scripts.
func LoadScriptHooks(name string, log *slog.Logger) (*ScriptHooks, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("script pickup: no script configured")
	}
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script pickup: load %s: %w", name, err)
	}
	return NewScriptHooks(name, src, log)
}

// NewScriptHooks compiles src into hooks.
func NewScriptHooks(name string, src []byte, log *slog.Logger) (*ScriptHooks, error) {
	if log == nil {
		log = slog.Default()
	}

	defined, err := topLevelNames(name, src)
	if err != nil {
		return nil, fmt.Errorf("script pickup: compile %s: %w", name, err)
	}

	var dispatch strings.Builder
	dispatch.WriteString(string(src))
	dispatch.WriteString("\n")
	first := true
	for hook, fn := range pickupHookFuncs {
		if !defined[fn] {
			continue
		}
		if first {
			dispatch.WriteString("if ")
			first = false
		} else {
			dispatch.WriteString(" else if ")
		}
		fmt.Fprintf(&dispatch, "__hook == %q {\n\t%s(__engine, __state)\n}", hook, fn)
	}
	dispatch.WriteString("\n")

	script := tengo.NewScript([]byte(dispatch.String()))
	_ = script.Add("__hook", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script pickup: compile %s: %w", name, err)
	}

	return &ScriptHooks{
		name:     name,
		log:      log,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

// topLevelNames returns the identifiers assigned by top-level statements.
func topLevelNames(name string, src []byte) (map[string]bool, error) {
	fileSet := parser.NewFileSet()
	file := fileSet.AddFile(name, -1, len(src))
	parsed, err := parser.NewParser(file, src, nil).ParseFile()
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool)
	for _, stmt := range parsed.Stmts {
		assign, ok := stmt.(*parser.AssignStmt)
		if !ok {
			continue
		}
		for _, lhs := range assign.LHS {
			if ident, ok := lhs.(*parser.Ident); ok {
				names[ident.Name] = true
			}
		}
	}
	return names, nil
}

func (h *ScriptHooks) OnPicked(ctx HookContext)     { h.run("picked", ctx) }
func (h *ScriptHooks) OnPutDown(ctx HookContext)    { h.run("put_down", ctx) }
func (h *ScriptHooks) OnActorEnter(ctx HookContext) { h.run("enter", ctx) }
func (h *ScriptHooks) OnActorExit(ctx HookContext)  { h.run("exit", ctx) }

// State returns the value stored under key by the script, or nil.
func (h *ScriptHooks) State(key string) any {
	if h == nil || h.state == nil {
		return nil
	}
	obj, ok := h.state.Value[key]
	if !ok {
		return nil
	}
	return tengo.ToInterface(obj)
}

func (h *ScriptHooks) run(hook string, ctx HookContext) {
	if h == nil || h.compiled == nil {
		return
	}
	if err := h.compiled.Set("__hook", hook); err != nil {
		h.log.Error("pickup script: set hook", "script", h.name, "err", err)
		return
	}
	if err := h.compiled.Set("__engine", h.engine(ctx)); err != nil {
		h.log.Error("pickup script: set engine", "script", h.name, "err", err)
		return
	}
	if err := h.compiled.Set("__state", h.state); err != nil {
		h.log.Error("pickup script: set state", "script", h.name, "err", err)
		return
	}
	if err := h.compiled.Run(); err != nil {
		h.log.Error("pickup script: run", "script", h.name, "hook", hook, "item", ctx.Item, "err", err)
	}
}

func (h *ScriptHooks) engine(ctx HookContext) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"item":  &tengo.Int{Value: int64(ctx.Item)},
		"actor": &tengo.Int{Value: int64(ctx.Actor)},
	}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx.World == nil {
			return tengo.UndefinedValue, nil
		}
		x, y := ctx.World.WorldPosition(ctx.Item)
		return &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"x": &tengo.Float{Value: x},
			"y": &tengo.Float{Value: y},
		}}, nil
	}}

	values["emit"] = &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx.World == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(scriptString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		ctx.World.Events().Push(ecs.Event{
			Type: PickupScriptEventType,
			Data: PickupScriptEvent{Item: ctx.Item, Actor: ctx.Actor, Name: name},
		})
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, scriptString(a))
		}
		h.log.Info(strings.Join(parts, " "), "script", h.name, "item", ctx.Item)
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func scriptString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj.(*tengo.String); ok {
		return s.Value
	}
	return strings.Trim(obj.String(), "\"")
}
