package player

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/mpvbridge/config"
	"github.com/wippyai/mpvbridge/engine"
	"github.com/wippyai/mpvbridge/engine/enginetest"
	"github.com/wippyai/mpvbridge/errors"
	"github.com/wippyai/mpvbridge/events"
	"github.com/wippyai/mpvbridge/host/hosttest"
	"github.com/wippyai/mpvbridge/render"
	"github.com/wippyai/mpvbridge/variant"
)

type fixture struct {
	player  *Player
	engine  *enginetest.Engine
	webgl   *hosttest.WebGL
	surface *hosttest.Surface
}

func newFixture(t *testing.T, settings *Settings) *fixture {
	t.Helper()
	f := &fixture{engine: enginetest.New(), webgl: hosttest.New()}
	f.surface = hosttest.NewSurface(f.webgl, 640, 360)
	p, err := New(f.surface, f.engine.Factory(), settings)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.player = p
	return f
}

func created(t *testing.T, settings *Settings) *fixture {
	t.Helper()
	f := newFixture(t, settings)
	if err := f.player.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { f.player.Dispose() })
	return f
}

func isNotInitialized(err error) bool {
	return stderrors.Is(err, errors.NotInitialized(errors.PhaseRuntime, ""))
}

func TestEndToEnd(t *testing.T) {
	f := created(t, nil)
	f.engine.SetProperties(map[string]*variant.Node{"volume": variant.Double(80.5)})

	vol, err := f.player.GetProperty("volume")
	if err != nil {
		t.Fatalf("GetProperty volume: %v", err)
	}
	if vol != 80.5 {
		t.Errorf("volume = %v, want 80.5", vol)
	}

	if err := f.player.SetProperty("pause", true); err != nil {
		t.Fatalf("SetProperty pause: %v", err)
	}
	pause, err := f.player.GetProperty("pause")
	if err != nil {
		t.Fatalf("GetProperty pause: %v", err)
	}
	if pause != true {
		t.Errorf("pause = %v, want true", pause)
	}

	var got []any
	if _, err := f.player.ObserveProperty("time-pos", func(v any) { got = append(got, v) }); err != nil {
		t.Fatalf("ObserveProperty: %v", err)
	}
	f.engine.ChangeProperty("time-pos", variant.Double(1))
	f.engine.ChangeProperty("time-pos", variant.Double(2.5))
	f.engine.ChangeProperty("time-pos", variant.Int64(3))

	if !f.player.PumpUntil(time.Second, func() bool { return len(got) == 3 }) {
		t.Fatalf("observed %d changes, want 3", len(got))
	}
	if diff := cmp.Diff([]any{1.0, 2.5, 3.0}, got); diff != "" {
		t.Errorf("time-pos changes (-want +got):\n%s", diff)
	}
	if n := f.engine.Outstanding(); n != 0 {
		t.Errorf("Outstanding = %d, want 0", n)
	}
}

func TestCreateStartupOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Options["osc"] = "no"
	f := created(t, &Settings{Config: cfg, LogLevel: "warn"})

	if got := f.engine.LogLevel(); got != "warn" {
		t.Errorf("LogLevel = %q, want warn", got)
	}
	if diff := cmp.Diff(cfg.Options, f.engine.Options()); diff != "" {
		t.Errorf("options (-want +got):\n%s", diff)
	}
	if !f.engine.Render().Ready() {
		t.Error("render context not initialized")
	}
	if render.Active() != f.player.Bridge() {
		t.Error("bridge not installed")
	}
	if f.engine.Render().Extensions() != "" {
		t.Errorf("extensions = %q, want empty", f.engine.Render().Extensions())
	}
}

func TestCreateFailures(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(f *fixture)
		detail string
	}{
		{
			name:   "engine initialize",
			setup:  func(f *fixture) { f.engine.InitError = engine.ErrGeneric },
			detail: "failed to initialize engine",
		},
		{
			name:   "render context",
			setup:  func(f *fixture) { f.engine.RenderError = engine.ErrUnsupported },
			detail: "failed to initialize opengl subapi",
		},
		{
			name:   "option rejected",
			setup:  func(f *fixture) { f.engine.RejectOptions = map[string]bool{"hwdec": true} },
			detail: "failed to set option hwdec",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			tt.setup(f)

			err := f.player.Create()
			var e *errors.Error
			if !stderrors.As(err, &e) || e.Phase != errors.PhaseInit {
				t.Fatalf("Create error = %v, want init error", err)
			}
			if e.Detail != tt.detail {
				t.Errorf("Detail = %q, want %q", e.Detail, tt.detail)
			}
			if render.Active() != nil {
				t.Error("active bridge left installed")
			}
			if !f.engine.Destroyed() {
				t.Error("engine not destroyed")
			}

			_, err = f.player.Command("stop")
			if !isNotInitialized(err) {
				t.Errorf("Command after failed create = %v, want not initialized", err)
			}
			if !stderrors.Is(err, e) {
				t.Errorf("later error does not carry the init failure: %v", err)
			}
			if err := f.player.Create(); !isNotInitialized(err) {
				t.Errorf("second Create = %v, want not initialized", err)
			}
		})
	}
}

func TestCreateMissingHostMethods(t *testing.T) {
	eng := enginetest.New()
	surface := hosttest.NewSurface(hosttest.New().Without("readPixels"), 64, 64)
	p, err := New(surface, eng.Factory(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = p.Create()
	var missing *errors.MissingMethodsError
	if !stderrors.As(err, &missing) {
		t.Fatalf("Create error = %v, want missing methods", err)
	}
	if diff := cmp.Diff([]string{"readPixels"}, missing.Methods); diff != "" {
		t.Errorf("missing (-want +got):\n%s", diff)
	}
	if render.Active() != nil {
		t.Error("active bridge left installed")
	}
}

func TestNewErrors(t *testing.T) {
	eng := enginetest.New()

	surface := hosttest.NewSurface(hosttest.New(), 64, 64)
	surface.Kinds = map[string]bool{"2d": true}
	if _, err := New(surface, eng.Factory(), nil); !stderrors.Is(err, errors.Init("", nil)) {
		t.Errorf("unavailable context: err = %v, want init error", err)
	}

	surface = hosttest.NewSurface(hosttest.New(), 64, 64)
	_, err := New(surface, eng.Factory(), &Settings{Handlers: map[string]events.Handler{"bogus": func(any) {}}})
	if !stderrors.Is(err, errors.NotFound(errors.PhaseInit, "", "")) {
		t.Errorf("unknown handler: err = %v, want not found", err)
	}

	cfg := config.Default()
	cfg.LogLevel = "loud"
	if _, err := New(surface, eng.Factory(), &Settings{Config: cfg}); err == nil {
		t.Error("invalid config accepted")
	}
}

func TestCommand(t *testing.T) {
	var loaded, ended []any
	f := created(t, &Settings{Handlers: map[string]events.Handler{
		"file-loaded": func(v any) { loaded = append(loaded, v) },
		"end-file":    func(v any) { ended = append(ended, v) },
	}})

	res, err := f.player.Command("loadfile", "clip.mkv")
	if err != nil {
		t.Fatalf("loadfile: %v", err)
	}
	if res != nil {
		t.Errorf("loadfile result = %v, want nil", res)
	}
	if _, err := f.player.Command("stop"); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !f.player.PumpUntil(time.Second, func() bool { return len(loaded) == 1 && len(ended) == 1 }) {
		t.Fatalf("loaded=%d ended=%d, want 1 each", len(loaded), len(ended))
	}
	path, _ := f.player.GetProperty("path")
	if path != "clip.mkv" {
		t.Errorf("path = %v, want clip.mkv", path)
	}

	echo, err := f.player.Command("echo", 1, "two", []any{true})
	if err != nil {
		t.Fatalf("echo: %v", err)
	}
	if diff := cmp.Diff([]any{1.0, "two", []any{true}}, echo); diff != "" {
		t.Errorf("echo (-want +got):\n%s", diff)
	}

	_, err = f.player.Command("bogus")
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindEngine {
		t.Fatalf("bogus: err = %v, want engine error", err)
	}
	if e.Detail != "invalid parameter" {
		t.Errorf("Detail = %q, want the engine message", e.Detail)
	}
	var code engine.Error
	if !stderrors.As(err, &code) || code != engine.ErrInvalidParameter {
		t.Errorf("engine code = %v, want %v", code, engine.ErrInvalidParameter)
	}

	if _, err := f.player.Command(); !stderrors.Is(err, errors.InvalidInput(errors.PhaseConvert, "")) {
		t.Errorf("empty command: err = %v, want invalid input", err)
	}
	if n := f.engine.Outstanding(); n != 0 {
		t.Errorf("Outstanding = %d, want 0", n)
	}
}

func TestPropertyErrors(t *testing.T) {
	f := created(t, nil)

	_, err := f.player.GetProperty("nope")
	var code engine.Error
	if !stderrors.As(err, &code) || code != engine.ErrPropertyNotFound {
		t.Errorf("GetProperty missing: err = %v", err)
	}
	if err := f.player.SetProperty("speed", struct{}{}); !stderrors.Is(err, errors.UnsupportedType(nil, nil)) {
		t.Errorf("SetProperty unsupported: err = %v", err)
	}
}

func TestRedrawDrawsAtSurfaceSize(t *testing.T) {
	f := created(t, nil)

	f.engine.Render().FrameReady()
	if !f.player.PumpUntil(time.Second, func() bool { return len(f.engine.Render().Frames()) == 1 }) {
		t.Fatal("no frame drawn")
	}
	frame := f.engine.Render().Frames()[0]
	want := enginetest.Frame{Version: "OpenGL ES 2.0 Chromium", FBO: 0, Width: 640, Height: 360}
	if diff := cmp.Diff(want, frame); diff != "" {
		t.Errorf("frame (-want +got):\n%s", diff)
	}
}

func TestDispose(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.player.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.player.ObserveProperty("volume", func(any) {}); err != nil {
		t.Fatalf("ObserveProperty: %v", err)
	}
	f.engine.Render().FrameReady()
	f.player.PumpUntil(time.Second, func() bool { return len(f.engine.Render().Frames()) == 1 })

	if err := f.player.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if !f.engine.Destroyed() {
		t.Error("engine not destroyed")
	}
	if f.engine.Render().Ready() {
		t.Error("render context still initialized")
	}
	if render.Active() != nil {
		t.Error("active bridge still installed")
	}

	if err := f.player.Dispose(); !isNotInitialized(err) {
		t.Errorf("second Dispose = %v, want not initialized", err)
	}
	if _, err := f.player.Command("stop"); !isNotInitialized(err) {
		t.Errorf("Command = %v, want not initialized", err)
	}
	if _, err := f.player.GetProperty("volume"); !isNotInitialized(err) {
		t.Errorf("GetProperty = %v, want not initialized", err)
	}
	if err := f.player.SetProperty("volume", 1); !isNotInitialized(err) {
		t.Errorf("SetProperty = %v, want not initialized", err)
	}
	if _, err := f.player.ObserveProperty("volume", func(any) {}); !isNotInitialized(err) {
		t.Errorf("ObserveProperty = %v, want not initialized", err)
	}
}

func TestSecondPlayerWaitsForDispose(t *testing.T) {
	first := created(t, nil)

	second := newFixture(t, nil)
	if err := second.player.Create(); err == nil {
		second.player.Dispose()
		t.Fatal("second Create succeeded while another bridge is active")
	}

	if err := first.player.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	third := created(t, nil)
	if render.Active() != third.player.Bridge() {
		t.Error("third player not active")
	}
}
