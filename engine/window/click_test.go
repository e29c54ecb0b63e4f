package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClickTracker(t *testing.T) {
	now := time.Unix(10, 0)
	c := newClickTracker(300*time.Millisecond, func() time.Time { return now })

	assert.False(t, c.click())
	now = now.Add(200 * time.Millisecond)
	assert.True(t, c.click(), "second click inside the interval")

	now = now.Add(100 * time.Millisecond)
	assert.False(t, c.click(), "a third click starts over")

	now = now.Add(301 * time.Millisecond)
	assert.False(t, c.click(), "too slow")
	now = now.Add(300 * time.Millisecond)
	assert.True(t, c.click())
}

func TestMouseDownFiresDoubleClick(t *testing.T) {
	now := time.Unix(0, 0)
	w := &engineWindow{clicks: newClickTracker(300*time.Millisecond, func() time.Time { return now })}

	var presses []MouseButton
	doubles := 0
	w.SetMouseDownCallback(func(b MouseButton, _, _ int32) { presses = append(presses, b) })
	w.SetDoubleClickCallback(func() { doubles++ })

	w.mouseDown(MouseLeft, 1, 1)
	w.mouseDown(MouseRight, 1, 1)
	w.mouseDown(MouseLeft, 1, 1)

	assert.Equal(t, []MouseButton{MouseLeft, MouseRight, MouseLeft}, presses)
	assert.Equal(t, 1, doubles)
}
