package module

import (
	"errors"
	"testing"

	"github.com/atomicstack/modbar/internal/widget"
	"github.com/stretchr/testify/require"
)

type stubConfig struct {
	kind   string
	common *widget.CommonConfig
}

func (c stubConfig) Kind() string                 { return c.kind }
func (c stubConfig) Common() *widget.CommonConfig { return c.common }

func TestAddToWrapsAndAppends(t *testing.T) {
	var gotName string
	app := NewApp(FactoryFunc(func(cfg Config, id ID, _ *App, name string, _ Info, _ Popups) (Parts[widget.Widget], error) {
		gotName = name
		return Parts[widget.Widget]{Widget: &fakeWidget{text: cfg.Kind()}, id: id}, nil
	}))
	parent := widget.NewBox(widget.Horizontal)

	parts, err := AddTo(parent, stubConfig{kind: "clock", common: &widget.CommonConfig{Name: "c", Length: 12}}, app, Info{}, nil)
	require.NoError(t, err)
	require.NotZero(t, parts.ID())
	require.Equal(t, "c", gotName)
	require.Equal(t, 1, parent.Len())

	wrapped, ok := parent.Children()[0].(*widget.Wrapped)
	require.True(t, ok)
	width, height := wrapped.Size()
	require.Equal(t, 12, width)
	require.Zero(t, height)
}

func TestAddToFailureLeavesParentUntouched(t *testing.T) {
	app := NewApp(FactoryFunc(func(Config, ID, *App, string, Info, Popups) (Parts[widget.Widget], error) {
		return Parts[widget.Widget]{}, errors.New("boom")
	}))
	parent := widget.NewBox(widget.Horizontal)
	_, err := AddTo(parent, stubConfig{kind: "clock", common: &widget.CommonConfig{}}, app, Info{}, nil)
	require.EqualError(t, err, "boom")
	require.Zero(t, parent.Len())
}

func TestAddToWithoutCommonPanics(t *testing.T) {
	parent := widget.NewBox(widget.Horizontal)
	require.Panics(t, func() {
		_, _ = AddTo(parent, stubConfig{kind: "clock"}, NewApp(nil), Info{}, nil)
	})
}

func TestNextIDIsMonotonic(t *testing.T) {
	a, b := NextID(), NextID()
	require.Greater(t, uint64(b), uint64(a))
}

func TestParsePosition(t *testing.T) {
	cases := map[string]Position{"": Top, "TOP": Top, "bottom": Bottom, "Left": Left, "right": Right}
	for in, want := range cases {
		got, err := ParsePosition(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParsePosition("middle")
	var cerr *widget.ConfigError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, widget.Vertical, Left.Orientation())
	require.Equal(t, widget.Horizontal, Bottom.Orientation())
}
