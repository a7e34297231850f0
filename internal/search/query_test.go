package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/simdeck/internal/device"
)

const systemLog = `launchd started
SpringBoard: application launched com.example.app
crash: EXC_BAD_ACCESS in com.example.app
SpringBoard: application launched com.apple.mobilesafari
`

func TestQuery_RunSubstringFragments(t *testing.T) {
	q := Query{Mapping: map[string][]Predicate{AllDiagnostics: {{Substring: "SpringBoard"}}}}
	got, err := q.Run([]device.Diagnostic{{Name: "system_log", Content: []byte(systemLog)}})
	require.NoError(t, err)
	assert.Equal(t, Result{"system_log": {"SpringBoard", "SpringBoard"}}, got)
}

func TestQuery_RunRegexLines(t *testing.T) {
	q := Query{
		Mapping: map[string][]Predicate{"syslog": {{Regex: `launched com\.apple\.\w+`}}},
		Lines:   true,
	}
	diags := []device.Diagnostic{
		{Name: "System Log", ShortName: "syslog", Content: []byte(systemLog)},
		{Name: "other", Content: []byte(systemLog)},
	}
	got, err := q.Run(diags)
	require.NoError(t, err)
	assert.Equal(t, Result{"syslog": {"SpringBoard: application launched com.apple.mobilesafari"}}, got)
}

func TestQuery_FirstOnly(t *testing.T) {
	q := Query{Mapping: map[string][]Predicate{AllDiagnostics: {ParsePredicate("re:com\\.\\w+\\.\\w+")}}, FirstOnly: true}
	got, err := q.Run([]device.Diagnostic{{Name: "log", Content: []byte(systemLog)}})
	require.NoError(t, err)
	assert.Equal(t, Result{"log": {"com.example.app"}}, got)
}

func TestQuery_ReadsFromPathAndSkipsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.log")
	require.NoError(t, os.WriteFile(path, []byte(systemLog), 0o644))

	q := Query{Mapping: map[string][]Predicate{AllDiagnostics: {{Substring: "crash"}}}}
	got, err := q.Run([]device.Diagnostic{
		{Name: "system.log", Path: path},
		{Name: "no-content"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"system.log"}, got.Names())
}

func TestQuery_MissingFileIsError(t *testing.T) {
	q := Query{Mapping: map[string][]Predicate{AllDiagnostics: {{Substring: "x"}}}}
	_, err := q.Run([]device.Diagnostic{{Name: "gone", Path: filepath.Join(t.TempDir(), "missing.log")}})
	assert.Error(t, err)
}

func TestQuery_Validate(t *testing.T) {
	assert.Error(t, Query{}.Validate())
	assert.Error(t, Query{Mapping: map[string][]Predicate{AllDiagnostics: {{Regex: "("}}}}.Validate())
	assert.Error(t, Query{Mapping: map[string][]Predicate{AllDiagnostics: {{}}}}.Validate())
	assert.NoError(t, Query{Mapping: map[string][]Predicate{AllDiagnostics: {{Substring: "ok"}}}}.Validate())
}

func TestParsePredicate(t *testing.T) {
	assert.Equal(t, Predicate{Regex: "a+b"}, ParsePredicate("re:a+b"))
	assert.Equal(t, Predicate{Substring: "hello"}, ParsePredicate("hello"))
	assert.Equal(t, "re:a+b", ParsePredicate("re:a+b").String())
}
