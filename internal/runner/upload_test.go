package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/events"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPartition(t *testing.T) {
	diags := []device.Diagnostic{
		{Name: "shot.PNG", Path: "/tmp/shot.PNG"},
		{Name: "app.log", Path: "/tmp/app.log"},
		{Name: "clip.mov", Path: "/tmp/clip.mov"},
		{Name: "inline", Content: []byte("x")},
	}
	media, other := Partition(diags, nil)
	assert.Equal(t, []device.Diagnostic{diags[0], diags[2]}, media)
	assert.Equal(t, []device.Diagnostic{diags[1], diags[3]}, other)
}

func TestUploadRunner_MediaFailureSkipsFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := t.TempDir()
	aux := filepath.Join(t.TempDir(), "aux")
	media1 := writeFile(t, src, "media1.jpg", "jpeg")
	file1 := writeFile(t, src, "file1.log", "one")
	file2 := writeFile(t, src, "file2.txt", "two")

	target := targetWithUDID(ctrl, "UDID-1")
	target.EXPECT().UploadMedia(gomock.Any(), []string{media1}).Return(errors.New("import failed"))

	rec, rep := newRecorder()
	res := UploadRunner{
		Reporter: rep,
		Target:   target,
		AuxDir:   aux,
		Diagnostics: []device.Diagnostic{
			{Name: "media1.jpg", Path: media1},
			{Name: "file1.log", Path: file1},
			{Name: "file2.txt", Path: file2},
		},
	}.Run(context.Background())

	assert.False(t, res.OK())
	assert.Contains(t, res.Message, "import failed")
	assert.Empty(t, rec.Events())
	_, err := os.Stat(aux)
	assert.True(t, os.IsNotExist(err), "no artifact should have been written")
}

func TestUploadRunner_AllSucceed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := t.TempDir()
	aux := filepath.Join(t.TempDir(), "aux")
	media1 := writeFile(t, src, "media1.jpg", "jpeg")
	file1 := writeFile(t, src, "file1.log", "one")

	target := targetWithUDID(ctrl, "UDID-1")
	target.EXPECT().UploadMedia(gomock.Any(), []string{media1}).Return(nil)

	rec, rep := newRecorder()
	res := UploadRunner{
		Reporter: rep,
		Target:   target,
		AuxDir:   aux,
		Diagnostics: []device.Diagnostic{
			{Name: "media1.jpg", Path: media1},
			{Name: "file1.log", Path: file1},
			{Name: "inline.txt", Content: []byte("two")},
		},
	}.Run(context.Background())

	require.True(t, res.OK(), res.Message)
	evs := rec.Events()
	assert.Equal(t, []string{"upload:discrete", "upload:discrete", "upload:discrete"}, phases(evs))
	assert.Equal(t, []string{media1}, evs[0].Subject)

	first := evs[1].Subject.(Artifact)
	second := evs[2].Subject.(Artifact)
	assert.Equal(t, "file1.log", first.Name)
	assert.Equal(t, "inline.txt", second.Name)
	assert.True(t, strings.HasPrefix(first.Checksum, "blake3:"))
	assert.Equal(t, int64(3), second.Size)

	got, err := os.ReadFile(filepath.Join(aux, "file1.log"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(got))
	assert.Len(t, res.Subject.([]Artifact), 2)
}

func TestUploadRunner_FirstWriteFailureStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := t.TempDir()
	aux := filepath.Join(t.TempDir(), "aux")
	file2 := writeFile(t, src, "file2.log", "two")

	target := targetWithUDID(ctrl, "UDID-1")

	rec, rep := newRecorder()
	res := UploadRunner{
		Reporter: rep,
		Target:   target,
		AuxDir:   aux,
		Diagnostics: []device.Diagnostic{
			{Name: "file1.log", Path: filepath.Join(src, "missing.log")},
			{Name: "file2.log", Path: file2},
		},
	}.Run(context.Background())

	assert.False(t, res.OK())
	assert.Contains(t, res.Message, "file1.log")
	assert.Empty(t, rec.Events())
	_, err := os.Stat(filepath.Join(aux, "file2.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadRunner_NoContentIsMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	res := UploadRunner{
		Reporter:    events.NewReporter(nil),
		Target:      targetWithUDID(ctrl, "UDID-1"),
		AuxDir:      t.TempDir(),
		Diagnostics: []device.Diagnostic{{Name: "ghost"}},
	}.Run(context.Background())

	assert.False(t, res.OK())
	assert.Equal(t, KindMissing, res.Kind)
	assert.Contains(t, res.Message, "ghost")
}

func TestUploadRunner_MissingDiagnosticSendsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := t.TempDir()
	aux := filepath.Join(t.TempDir(), "aux")
	shot := writeFile(t, src, "shot.png", "png")

	// No UploadMedia expectation: gomock fails the test if it is called.
	target := targetWithUDID(ctrl, "UDID-1")

	rec, rep := newRecorder()
	res := UploadRunner{
		Reporter: rep,
		Target:   target,
		AuxDir:   aux,
		Diagnostics: []device.Diagnostic{
			{Name: "shot.png", Path: shot},
			{Name: "ghost"},
		},
	}.Run(context.Background())

	assert.False(t, res.OK())
	assert.Equal(t, KindMissing, res.Kind)
	assert.Contains(t, res.Message, "ghost")
	assert.Empty(t, rec.Events())
	_, err := os.Stat(aux)
	assert.True(t, os.IsNotExist(err))
}

func TestUploadRunner_SameBaseNameKeepsBoth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	aux := t.TempDir()
	rec, rep := newRecorder()
	res := UploadRunner{
		Reporter: rep,
		Target:   targetWithUDID(ctrl, "UDID-1"),
		AuxDir:   aux,
		Diagnostics: []device.Diagnostic{
			{Name: "a/system.log", Content: []byte("first")},
			{Name: "b/system.log", Content: []byte("second")},
		},
	}.Run(context.Background())
	require.True(t, res.OK(), res.Message)
	assert.Len(t, rec.Events(), 2)

	got, err := os.ReadFile(filepath.Join(aux, "a", "system.log"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))
	got, err = os.ReadFile(filepath.Join(aux, "b", "system.log"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestUploadRunner_DuplicateNameFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	res := UploadRunner{
		Reporter: events.NewReporter(nil),
		Target:   targetWithUDID(ctrl, "UDID-1"),
		AuxDir:   t.TempDir(),
		Diagnostics: []device.Diagnostic{
			{Name: "app.log", Content: []byte("one")},
			{Name: "./app.log", Content: []byte("two")},
		},
	}.Run(context.Background())

	assert.False(t, res.OK())
	assert.Contains(t, res.Message, "both map to app.log")
}

func TestArtifactPathStaysInsideDir(t *testing.T) {
	assert.Equal(t, filepath.Join("etc", "passwd"), artifactPath(device.Diagnostic{Name: "../../etc/passwd"}))
	assert.Equal(t, filepath.Join("var", "log", "x.log"), artifactPath(device.Diagnostic{Name: "/var/log/x.log"}))
	assert.Equal(t, "y.log", artifactPath(device.Diagnostic{Path: "/tmp/y.log"}))
	assert.Equal(t, "artifact", artifactPath(device.Diagnostic{Content: []byte("x")}))
}
