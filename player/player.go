// Package player ties an engine, a host surface and the GL bridge together
// and exposes the command and property surface to the host.
//
// A Player goes through construct (New), create (Create), a steady state
// where commands, properties and observers are used while callbacks deliver
// frames and events, and dispose (Dispose). Only one Player may be created
// at a time because the GL entry points route through a single active
// bridge.
package player

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/mpvbridge/config"
	"github.com/wippyai/mpvbridge/dispatch"
	"github.com/wippyai/mpvbridge/engine"
	"github.com/wippyai/mpvbridge/errors"
	"github.com/wippyai/mpvbridge/events"
	"github.com/wippyai/mpvbridge/host"
	"github.com/wippyai/mpvbridge/render"
	"github.com/wippyai/mpvbridge/variant"
)

// Settings are optional construction parameters.
type Settings struct {
	// Handlers maps event names such as "log-message", "end-file" or
	// "file-loaded" to callbacks.
	Handlers map[string]events.Handler

	// Config supplies engine options, the context kind and cache timing.
	// Nil selects config.Default.
	Config *config.Config

	// LogLevel overrides Config.LogLevel when not empty.
	LogLevel string
}

type state uint8

const (
	stateNew state = iota
	stateReady
	stateFailed
	stateDisposed
)

// Player is one engine instance rendering into a host surface. Its methods
// must be called from the host goroutine.
type Player struct {
	surface  host.Surface
	context  host.Context
	factory  engine.Factory
	cfg      *config.Config
	handlers map[string]events.Handler
	logLevel string

	engine engine.Engine
	render engine.RenderContext
	gl     *render.Bridge
	events *events.Bridge

	initErr error
	state   state
}

// New acquires the rendering context from surface. The engine is not
// started until Create.
func New(surface host.Surface, factory engine.Factory, settings *Settings) (*Player, error) {
	if settings == nil {
		settings = &Settings{}
	}
	cfg := settings.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if settings.LogLevel != "" {
		level = settings.LogLevel
	}

	known := make(map[string]bool)
	for _, n := range events.HandlerNames() {
		known[n] = true
	}
	for name := range settings.Handlers {
		if !known[name] {
			return nil, errors.NotFound(errors.PhaseInit, "event handler", name)
		}
	}

	ctx, err := surface.GetContext(cfg.Context)
	if err != nil {
		return nil, errors.Init("failed to acquire "+cfg.Context+" context", err)
	}

	return &Player{
		surface:  surface,
		context:  ctx,
		factory:  factory,
		cfg:      cfg,
		handlers: settings.Handlers,
		logLevel: level,
	}, nil
}

// Create starts the engine and connects it to the surface. Any failure is
// final: the player stays unusable and every later call reports it.
func (p *Player) Create() error {
	switch p.state {
	case stateReady:
		return errors.InvalidInput(errors.PhaseInit, "player already created")
	case stateFailed, stateDisposed:
		return p.notInitialized()
	}
	if err := p.start(); err != nil {
		p.teardown()
		p.initErr = err
		p.state = stateFailed
		Logger().Error("player create failed", zap.Error(err))
		return err
	}
	p.state = stateReady
	Logger().Info("player created", zap.String("context", p.cfg.Context), zap.String("log_level", p.logLevel))
	return nil
}

func (p *Player) start() error {
	eng, err := p.factory()
	if err != nil {
		return errors.Init("failed to create engine", err)
	}
	p.engine = eng

	p.events, err = events.New(eng, events.NewSizeCache(p.surface, p.cfg.SizeCacheTTL.Duration), p.handlers)
	if err != nil {
		return err
	}
	eng.SetWakeupCallback(p.events.Wakeup)

	if err := eng.RequestLogMessages(p.logLevel); err != nil {
		return errors.Init("failed to request log messages", err)
	}
	for _, name := range p.cfg.OptionNames() {
		if err := eng.SetOptionString(name, p.cfg.Options[name]); err != nil {
			return errors.Init("failed to set option "+name, err)
		}
	}
	if err := eng.Initialize(); err != nil {
		return errors.Init("failed to initialize engine", err)
	}

	p.gl, err = render.New(p.context, eng.Memory())
	if err != nil {
		return errors.Init("failed to resolve WebGL methods", err)
	}
	if err := render.Install(p.gl); err != nil {
		p.gl.Close()
		p.gl = nil
		return err
	}

	p.render, err = eng.RenderContext()
	if err != nil {
		return errors.Init("failed to initialize opengl subapi", err)
	}
	if err := p.render.InitGL("", dispatch.Lookup); err != nil {
		p.render = nil
		return errors.Init("failed to initialize WebGL functions", err)
	}
	p.render.SetUpdateCallback(p.events.RequestRedraw)
	p.events.Attach(p.render)
	return nil
}

// teardown detaches callbacks first, then drops the active bridge, then
// releases engine and graphics resources.
func (p *Player) teardown() {
	if p.engine != nil {
		p.engine.SetWakeupCallback(nil)
	}
	if p.render != nil {
		p.render.SetUpdateCallback(nil)
	}
	if p.events != nil {
		p.events.Detach()
	}
	if p.gl != nil {
		render.Uninstall(p.gl)
	}
	if p.render != nil {
		if err := p.render.UninitGL(); err != nil {
			Logger().Warn("uninit gl", zap.Error(err))
		}
		p.render = nil
	}
	if p.engine != nil {
		p.engine.Destroy()
		p.engine = nil
	}
	if p.gl != nil {
		for cat, n := range p.gl.Live() {
			if n > 0 {
				Logger().Debug("gl objects left at dispose", zap.String("category", string(cat)), zap.Int("count", n))
			}
		}
		p.gl.Close()
		p.gl = nil
	}
}

// Dispose releases the engine and every graphics object. A second Dispose
// reports not initialized.
func (p *Player) Dispose() error {
	if p.state != stateReady {
		return p.notInitialized()
	}
	p.teardown()
	p.state = stateDisposed
	Logger().Info("player disposed")
	return nil
}

func (p *Player) notInitialized() error {
	err := errors.NotInitialized(errors.PhaseRuntime, "player")
	err.Cause = p.initErr
	return err
}

func (p *Player) ready() error {
	if p.state != stateReady {
		return p.notInitialized()
	}
	return nil
}

// Command runs an engine command given as its name followed by arguments.
// A single argument is passed to the engine as is.
func (p *Player) Command(args ...any) (any, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	cmd, err := variant.EncodeCommand(args...)
	if err != nil {
		return nil, err
	}
	res, err := p.engine.Command(cmd)
	if rerr := variant.Release(cmd); rerr != nil {
		Logger().Warn("release command", zap.Error(rerr))
	}
	if err != nil {
		return nil, errors.Engine("command", err)
	}
	return p.take(res), nil
}

// GetProperty returns the current value of name as a host value.
func (p *Player) GetProperty(name string) (any, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	v, err := p.engine.GetProperty(name)
	if err != nil {
		return nil, errors.Engine("get_property", err)
	}
	return p.take(v), nil
}

// SetProperty sets name to a host value.
func (p *Player) SetProperty(name string, value any) error {
	if err := p.ready(); err != nil {
		return err
	}
	v, err := variant.FromHost(value)
	if err != nil {
		return err
	}
	err = p.engine.SetProperty(name, v)
	if rerr := variant.Release(v); rerr != nil {
		Logger().Warn("release property value", zap.Error(rerr))
	}
	if err != nil {
		return errors.Engine("set_property", err)
	}
	return nil
}

// ObserveProperty calls fn with the new value of name, or nil, on every
// change.
func (p *Player) ObserveProperty(name string, fn events.PropertyFunc) (uint64, error) {
	if err := p.ready(); err != nil {
		return 0, err
	}
	return p.events.ObserveProperty(name, fn)
}

// Unobserve cancels a subscription made by ObserveProperty.
func (p *Player) Unobserve(id uint64) error {
	if err := p.ready(); err != nil {
		return err
	}
	p.events.Unobserve(id)
	return nil
}

// Pump handles pending draw and event signals without blocking.
func (p *Player) Pump() error {
	if err := p.ready(); err != nil {
		return err
	}
	_, _, err := p.events.Pump()
	return err
}

// PumpUntil pumps until done reports true or the timeout expires.
func (p *Player) PumpUntil(timeout time.Duration, done func() bool) bool {
	if p.ready() != nil {
		return false
	}
	return p.events.PumpUntil(timeout, done)
}

// Run services draw and event signals until ctx is done.
func (p *Player) Run(ctx context.Context) error {
	if err := p.ready(); err != nil {
		return err
	}
	return p.events.Run(ctx)
}

// Bridge returns the GL bridge of a created player.
func (p *Player) Bridge() *render.Bridge { return p.gl }

func (p *Player) take(n *variant.Node) any {
	if n == nil {
		return nil
	}
	v := variant.ToHost(n)
	p.engine.FreeNode(n)
	return v
}
