package events

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_ReportStampsTarget(t *testing.T) {
	var rec Recorder
	r := NewReporter(&rec).ForTarget("UDID-1")

	r.Report(NameBoot, PhaseStarted, map[string]string{"udid": "UDID-1"})

	evs := rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, NameBoot, evs[0].Name)
	assert.Equal(t, PhaseStarted, evs[0].Phase)
	assert.Equal(t, "UDID-1", evs[0].Target)
	assert.False(t, evs[0].Timestamp.IsZero())
}

func TestReporter_ForTargetDoesNotMutateParent(t *testing.T) {
	var rec Recorder
	parent := NewReporter(&rec)
	child := parent.ForTarget("A")

	parent.Report(NameList, PhaseDiscrete, nil)
	child.Report(NameList, PhaseDiscrete, nil)

	evs := rec.Events()
	require.Len(t, evs, 2)
	assert.Empty(t, evs[0].Target)
	assert.Equal(t, "A", evs[1].Target)
	assert.Equal(t, "A", child.Target())
}

func TestReporter_ReportSimpleWrapsValue(t *testing.T) {
	var rec Recorder
	NewReporter(&rec).ReportSimple(NameLaunch, PhaseDiscrete, 4242)

	evs := rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, Value{Value: 4242}, evs[0].Subject)
}

func TestReporter_NilIsSilent(t *testing.T) {
	var r *Reporter
	assert.NotPanics(t, func() {
		r.Report(NameBoot, PhaseStarted, nil)
		r.ReportSimple(NameBoot, PhaseEnded, "x")
	})
	assert.Nil(t, r.ForTarget("x"))
}

func TestFanout_AttachDetach(t *testing.T) {
	var a, b Recorder
	f := NewFanout(&a)
	detach := f.Attach(&b)
	assert.Equal(t, 2, f.Len())

	f.Emit(Event{Name: NameState})
	detach()
	detach()
	f.Emit(Event{Name: NameState})

	assert.Len(t, a.Events(), 2)
	assert.Len(t, b.Events(), 1)
	assert.Equal(t, 1, f.Len())
}

func TestWriterSink_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(NewWriterSink(&buf, FormatJSON)).ForTarget("T1")

	r.Report(NameErase, PhaseEnded, map[string]any{"state": "shutdown"})

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "erase", out["event_name"])
	assert.Equal(t, "ended", out["event_type"])
	assert.Equal(t, "T1", out["target"])
	assert.Equal(t, map[string]any{"state": "shutdown"}, out["subject"])
}

func TestWriterSink_Human(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(NewWriterSink(&buf, FormatHuman)).ForTarget("T1")

	r.ReportSimple(NameLaunch, PhaseDiscrete, "com.example.app")

	line := buf.String()
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "T1")
	assert.Contains(t, line, "launch")
	assert.Contains(t, line, "discrete")
	assert.Contains(t, line, "com.example.app")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("human")
	require.NoError(t, err)
	assert.Equal(t, FormatHuman, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
