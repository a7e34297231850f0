package dispatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/simdeck/internal/action"
	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/device/mocks"
	"github.com/mattjoyce/simdeck/internal/events"
	"github.com/mattjoyce/simdeck/internal/runner"
	"github.com/mattjoyce/simdeck/internal/search"
)

const testUDID = "8A1C-TEST"

func newTarget(t *testing.T) (*gomock.Controller, *mocks.MockTarget) {
	t.Helper()
	ctrl := gomock.NewController(t)
	target := mocks.NewMockTarget(ctrl)
	target.EXPECT().UDID().Return(testUDID).AnyTimes()
	return ctrl, target
}

func newContext() (*events.Recorder, Context) {
	rec := &events.Recorder{}
	return rec, Context{Reporter: events.NewReporter(rec), Format: events.FormatJSON}
}

func phases(evs []events.Event) []string {
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, string(ev.Name)+":"+string(ev.Phase))
	}
	return out
}

func TestDispatchIsTotal(t *testing.T) {
	_, target := newTarget(t)
	_, c := newContext()
	d := New()

	for _, tag := range action.Tags() {
		a, ok := action.Placeholder(tag)
		require.True(t, ok, tag)
		assert.NotNil(t, d.Dispatch(a, target, c), "tag %s with target", tag)
		assert.NotNil(t, d.Dispatch(a, nil, c), "tag %s without target", tag)
	}
	assert.NotNil(t, d.Dispatch(nil, target, c))
}

func TestUnimplementedReportsNothing(t *testing.T) {
	_, target := newTarget(t)
	d := New()

	for _, a := range []action.Action{action.Record{Start: true}, action.Stream{}, action.Custom{Name: "no-body"}} {
		rec, c := newContext()
		res := d.Dispatch(a, target, c).Run(context.Background())

		assert.False(t, res.OK())
		assert.Equal(t, runner.KindUnimplemented, res.Kind)
		assert.Equal(t, "action not implemented: "+string(a.Tag()), res.Message)
		assert.Empty(t, rec.Events())
	}
}

func TestConcreteHandlerReportsStartedAndEnded(t *testing.T) {
	_, target := newTarget(t)
	target.EXPECT().OpenURL(gomock.Any(), "https://example.com").Return(nil)
	rec, c := newContext()

	res := New().Dispatch(action.Open{URL: "https://example.com"}, target, c).Run(context.Background())
	require.True(t, res.OK())
	assert.Equal(t, []string{"open:started", "open:ended"}, phases(rec.Events()))
	assert.Equal(t, testUDID, rec.Events()[0].Target)
}

func TestConcreteHandlerFailureHasNoEnded(t *testing.T) {
	_, target := newTarget(t)
	target.EXPECT().Erase(gomock.Any()).Return(errors.New("device is booted"))
	rec, c := newContext()

	res := New().Dispatch(action.Erase{}, target, c).Run(context.Background())
	assert.False(t, res.OK())
	assert.Equal(t, runner.KindExternal, res.Kind)
	assert.Contains(t, res.Message, testUDID)
	assert.Contains(t, res.Message, "device is booted")
	assert.Equal(t, []string{"erase:started"}, phases(rec.Events()))
}

func TestTapInjectsTapEvent(t *testing.T) {
	_, target := newTarget(t)
	target.EXPECT().Inject(gomock.Any(), device.InputEvent{Kind: device.InputTap, X: 10, Y: 20}).Return(nil)
	rec, c := newContext()

	res := New().Dispatch(action.Tap{X: 10, Y: 20}, target, c).Run(context.Background())
	assert.True(t, res.OK())
	assert.Equal(t, []string{"tap:started", "tap:ended"}, phases(rec.Events()))
}

func TestNoTargetFailsAsMissing(t *testing.T) {
	rec, c := newContext()

	res := New().Dispatch(action.Boot{}, nil, c).Run(context.Background())
	assert.False(t, res.OK())
	assert.Equal(t, runner.KindMissing, res.Kind)
	assert.Contains(t, res.Message, "no target selected")
	assert.Empty(t, rec.Events())
}

func TestCustomProviderRunsBody(t *testing.T) {
	_, target := newTarget(t)
	rec, c := newContext()

	var got device.Target
	a := action.Custom{
		Name: "screenshot",
		Body: func(_ context.Context, tt device.Target) (any, error) {
			got = tt
			return "shot.png", nil
		},
	}

	res := New().Dispatch(a, target, c).Run(context.Background())
	require.True(t, res.OK())
	assert.Same(t, target, got)
	assert.Equal(t, "shot.png", res.Subject)
	assert.Equal(t, []string{"custom:started", "custom:ended"}, phases(rec.Events()))
}

func TestProvidersTakePriorityOverBuiltins(t *testing.T) {
	_, target := newTarget(t)
	_, c := newContext()

	override := ProviderFunc(func(c Context) (runner.Runnable, bool) {
		if _, ok := c.Action.(action.Boot); !ok {
			return nil, false
		}
		return runner.Func(func(context.Context) runner.Result { return runner.Success("provided") }), true
	})
	d := New(WithProviders(override))

	res := d.Dispatch(action.Boot{}, target, c).Run(context.Background())
	require.True(t, res.OK())
	assert.Equal(t, "provided", res.Subject)
}

func TestDecliningProviderFallsThrough(t *testing.T) {
	_, target := newTarget(t)
	target.EXPECT().Shutdown(gomock.Any()).Return(nil)
	_, c := newContext()

	consulted := 0
	decline := ProviderFunc(func(Context) (runner.Runnable, bool) {
		consulted++
		return nil, false
	})

	res := New(WithProviders(decline)).Dispatch(action.Shutdown{}, target, c).Run(context.Background())
	assert.True(t, res.OK())
	assert.Equal(t, 1, consulted)
}

func TestRelaunchIgnoresNotRunning(t *testing.T) {
	_, target := newTarget(t)
	cfg := device.LaunchConfig{BundleID: "com.example.app"}
	gomock.InOrder(
		target.EXPECT().Terminate(gomock.Any(), "com.example.app").Return(device.ErrNotFound),
		target.EXPECT().Launch(gomock.Any(), cfg).Return(4242, nil),
	)
	rec, c := newContext()

	res := New().Dispatch(action.Relaunch{Config: cfg}, target, c).Run(context.Background())
	require.True(t, res.OK())
	assert.Equal(t, launched{BundleID: "com.example.app", PID: 4242}, res.Subject)
	assert.Equal(t, []string{"relaunch:started", "relaunch:ended"}, phases(rec.Events()))
}

func TestLaunchReportsLaunch(t *testing.T) {
	_, target := newTarget(t)
	cfg := device.LaunchConfig{BundleID: "com.example.app"}
	target.EXPECT().Launch(gomock.Any(), cfg).Return(7, nil)
	rec, c := newContext()

	res := New().Dispatch(action.Launch{Config: cfg}, target, c).Run(context.Background())
	require.True(t, res.OK())
	assert.Equal(t, []string{"launch:started", "launch:ended"}, phases(rec.Events()))
}

func TestLaunchAgentReportsPID(t *testing.T) {
	_, target := newTarget(t)
	cfg := device.AgentLaunchConfig{Path: "/opt/agent/runner", Arguments: []string{"--port", "8100"}}
	target.EXPECT().LaunchAgent(gomock.Any(), cfg).Return(4321, nil)
	rec, c := newContext()

	res := New().Dispatch(action.LaunchAgent{Config: cfg}, target, c).Run(context.Background())
	require.True(t, res.OK(), res.Message)
	assert.Equal(t, agentLaunched{Path: "/opt/agent/runner", PID: 4321}, res.Subject)
	assert.Equal(t, []string{"launch:started", "launch:ended"}, phases(rec.Events()))
}

func TestKeyboardOverrideCallsTarget(t *testing.T) {
	_, target := newTarget(t)
	target.EXPECT().SetupKeyboard(gomock.Any()).Return(nil)
	rec, c := newContext()

	res := New().Dispatch(action.KeyboardOverride{}, target, c).Run(context.Background())
	require.True(t, res.OK(), res.Message)
	assert.Equal(t, []string{"keyboard_override:started", "keyboard_override:ended"}, phases(rec.Events()))
}

func TestNewTargetActionsNeedTarget(t *testing.T) {
	for _, a := range []action.Action{action.KeyboardOverride{}, action.LaunchAgent{}} {
		rec, c := newContext()
		res := New().Dispatch(a, nil, c).Run(context.Background())
		assert.Equal(t, runner.KindMissing, res.Kind, a.Tag())
		assert.Empty(t, rec.Events())
	}
}

func TestSearchIsIdempotent(t *testing.T) {
	_, target := newTarget(t)
	diags := []device.Diagnostic{{Name: "system.log", ShortName: "system", Content: []byte("boot ok\nerror: disk\n")}}
	target.EXPECT().Diagnostics(gomock.Any()).Return(diags, nil).Times(2)
	rec, c := newContext()

	q := search.Query{Mapping: map[string][]search.Predicate{search.AllDiagnostics: {search.ParsePredicate("error")}}}
	d := New()
	first := d.Dispatch(action.Search{Query: q}, target, c).Run(context.Background())
	second := d.Dispatch(action.Search{Query: q}, target, c).Run(context.Background())

	require.True(t, first.OK())
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"search:discrete", "search:discrete"}, phases(rec.Events()))
}

func TestUploadWritesIntoPerTargetAuxDir(t *testing.T) {
	_, target := newTarget(t)
	rec, c := newContext()
	aux := t.TempDir()
	c = c.WithControls(Controls{AuxDir: aux})

	a := action.Upload{Diagnostics: []device.Diagnostic{{Name: "crash.ips", Content: []byte("trace")}}}
	res := New().Dispatch(a, target, c).Run(context.Background())
	require.True(t, res.OK(), res.Message)

	data, err := os.ReadFile(filepath.Join(aux, testUDID, "crash.ips"))
	require.NoError(t, err)
	assert.Equal(t, "trace", string(data))
	assert.Equal(t, []string{"upload:discrete"}, phases(rec.Events()))
}

func TestListUsesDeviceSet(t *testing.T) {
	ctrl, target := newTarget(t)
	set := mocks.NewMockSet(ctrl)
	info := device.Info{UDID: testUDID, Name: "Phone", State: device.StateBooted}
	set.EXPECT().Targets(gomock.Any()).Return([]device.Target{target}, nil)
	target.EXPECT().Info(gomock.Any()).Return(info, nil)

	rec, c := newContext()
	c = c.WithControls(Controls{Set: set})

	res := New().Dispatch(action.List{}, nil, c).Run(context.Background())
	require.True(t, res.OK())
	assert.Equal(t, []device.Info{info}, res.Subject)
	assert.Equal(t, []string{"list:discrete"}, phases(rec.Events()))
}

func TestCreateWithoutSetFails(t *testing.T) {
	_, c := newContext()
	res := New().Dispatch(action.Create{AllMissingDefaults: true}, nil, c).Run(context.Background())
	assert.False(t, res.OK())
	assert.Equal(t, runner.KindMissing, res.Kind)
}

func TestContextWithReturnsCopies(t *testing.T) {
	_, target := newTarget(t)
	_, c := newContext()

	bound := c.WithAction(action.Boot{}).WithTarget(target)
	assert.Nil(t, c.Action)
	assert.Nil(t, c.Target)
	assert.Equal(t, "", c.Reporter.Target())
	assert.Equal(t, testUDID, bound.Reporter.Target())
}

func TestExecuteDetachesSink(t *testing.T) {
	for _, bootErr := range []error{nil, errors.New("timed out")} {
		_, target := newTarget(t)
		_, c := newContext()

		detached := 0
		target.EXPECT().AttachSink(gomock.Any()).Return(func() { detached++ })
		target.EXPECT().Boot(gomock.Any(), gomock.Any()).Return(bootErr)

		res := New().Execute(context.Background(), action.Boot{}, target, c)
		assert.Equal(t, bootErr == nil, res.OK())
		assert.Equal(t, 1, detached, "sink must be detached exactly once (boot error: %v)", bootErr)
	}
}

func TestExecuteDetachesSinkOnPanic(t *testing.T) {
	_, target := newTarget(t)
	_, c := newContext()

	detached := false
	target.EXPECT().AttachSink(gomock.Any()).Return(func() { detached = true })
	target.EXPECT().Focus(gomock.Any()).DoAndReturn(func(context.Context) error { panic("backend crashed") })

	res := New().Execute(context.Background(), action.Focus{}, target, c)
	assert.False(t, res.OK())
	assert.Contains(t, res.Message, "backend crashed")
	assert.True(t, detached)
}

func TestExecuteWithoutSinkDoesNotAttach(t *testing.T) {
	_, target := newTarget(t)
	target.EXPECT().Shutdown(gomock.Any()).Return(nil)

	res := New().Execute(context.Background(), action.Shutdown{}, target, Context{})
	assert.True(t, res.OK())
}

func TestChainStopsAtFirstFailure(t *testing.T) {
	_, target := newTarget(t)
	rec, c := newContext()
	target.EXPECT().AttachSink(gomock.Any()).Return(func() {}).Times(2)
	target.EXPECT().Boot(gomock.Any(), gomock.Any()).Return(nil)
	target.EXPECT().Erase(gomock.Any()).Return(errors.New("busy"))

	actions := []action.Action{action.Boot{}, action.Erase{}, action.Launch{Config: device.LaunchConfig{BundleID: "x"}}}
	results, ok := New().Chain(context.Background(), actions, target, c)

	assert.False(t, ok)
	require.Len(t, results, 2)
	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.Equal(t, []string{"boot:started", "boot:ended", "erase:started"}, phases(rec.Events()))
}

func TestMetricsCountOutcomes(t *testing.T) {
	_, target := newTarget(t)
	_, c := newContext()
	reg := prometheus.NewRegistry()
	d := New(WithMetrics(NewMetrics(reg)))

	target.EXPECT().AttachSink(gomock.Any()).Return(func() {}).AnyTimes()
	target.EXPECT().Shutdown(gomock.Any()).Return(nil)
	d.Execute(context.Background(), action.Shutdown{}, target, c)
	d.Execute(context.Background(), action.Record{}, target, c)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "simdeck_actions_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var tag, outcome string
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "action":
					tag = lp.GetValue()
				case "outcome":
					outcome = lp.GetValue()
				}
			}
			counts[tag+"/"+outcome] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{
		"shutdown/success":     1,
		"record/unimplemented": 1,
	}, counts)
}
