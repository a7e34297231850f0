package device_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/device/mocks"
)

func fakeSet(t *testing.T, infos ...device.Info) *mocks.MockSet {
	t.Helper()
	ctrl := gomock.NewController(t)
	set := mocks.NewMockSet(ctrl)

	targets := make([]device.Target, 0, len(infos))
	for _, info := range infos {
		target := mocks.NewMockTarget(ctrl)
		target.EXPECT().UDID().Return(info.UDID).AnyTimes()
		target.EXPECT().Info(gomock.Any()).Return(info, nil).AnyTimes()
		targets = append(targets, target)
	}
	set.EXPECT().Targets(gomock.Any()).Return(targets, nil).AnyTimes()
	return set
}

func udids(ts []device.Target) []string {
	var out []string
	for _, t := range ts {
		out = append(out, t.UDID())
	}
	return out
}

func TestSelect(t *testing.T) {
	set := fakeSet(t,
		device.Info{UDID: "A", Name: "iPhone 15", State: device.StateBooted},
		device.Info{UDID: "B", Name: "iPad Air", State: device.StateShutdown},
		device.Info{UDID: "C", Name: "Watch", State: device.StateBooted},
	)
	ctx := context.Background()

	tests := []struct {
		selectors []string
		want      []string
	}{
		{[]string{"all"}, []string{"A", "B", "C"}},
		{[]string{"booted"}, []string{"A", "C"}},
		{[]string{"B"}, []string{"B"}},
		{[]string{"ipad air"}, []string{"B"}},
		{[]string{"C", "A", "A"}, []string{"A", "C"}},
		{nil, nil},
	}
	for _, tt := range tests {
		got, err := device.Select(ctx, set, tt.selectors)
		require.NoError(t, err, tt.selectors)
		assert.Equal(t, tt.want, udids(got), tt.selectors)
	}
}

func TestSelectUnknownIsNotFound(t *testing.T) {
	set := fakeSet(t, device.Info{UDID: "A", Name: "iPhone 15"})

	_, err := device.Select(context.Background(), set, []string{"Z"})
	assert.ErrorIs(t, err, device.ErrNotFound)
}

func TestSelectBootedWithNoneBootedIsEmpty(t *testing.T) {
	set := fakeSet(t, device.Info{UDID: "A", State: device.StateShutdown})

	got, err := device.Select(context.Background(), set, []string{"booted"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
