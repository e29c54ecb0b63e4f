package panel

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the value type a Control edits.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindColor
	KindChoice
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindColor:
		return "color"
	case KindChoice:
		return "choice"
	case KindAction:
		return "action"
	default:
		return "unknown"
	}
}

// ErrNotEditable is returned when a value is assigned to an action control.
var ErrNotEditable = errors.New("control is not editable")

// Range bounds a numeric control. Step is the keyboard increment.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

func (r Range) clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Option is one entry of a choice control.
type Option struct {
	Label string
	Value int
}

// Control is a named value bound to a getter and a setter.
// The panel never touches the bound representation directly.
type Control interface {
	// Name returns the unique control name, which is also its key in a params file.
	Name() string

	// Kind returns the value type of the control.
	Kind() Kind

	// Value returns the live value read through the getter: float64, int, a "#rrggbb" string,
	// the selected option value, or nil for actions.
	Value() any

	// Set coerces v to the control's type, clamps it to the control's range and writes it through the setter.
	Set(v any) error

	// Nudge moves the value by steps increments, or by steps options for a choice.
	Nudge(steps int) error

	// Describe returns a one-line human readable form of the control and its value.
	Describe() string
}

type floatControl struct {
	name string
	r    Range
	get  func() float64
	set  func(float64)
}

// Float creates a float control clamped to r.
func Float(name string, r Range, get func() float64, set func(float64)) Control {
	return &floatControl{name: name, r: r, get: get, set: set}
}

func (c *floatControl) Name() string { return c.name }
func (c *floatControl) Kind() Kind   { return KindFloat }
func (c *floatControl) Value() any   { return c.get() }

func (c *floatControl) Set(v any) error {
	f, err := toFloat(v)
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	c.set(c.r.clamp(f))
	return nil
}

func (c *floatControl) Nudge(steps int) error {
	next := c.get() + float64(steps)*c.r.Step
	if c.r.Step > 0 {
		next = math.Round(next/c.r.Step) * c.r.Step
	}
	c.set(c.r.clamp(next))
	return nil
}

func (c *floatControl) Describe() string {
	return fmt.Sprintf("%s = %g [%g, %g]", c.name, c.get(), c.r.Min, c.r.Max)
}

type intControl struct {
	name string
	r    Range
	get  func() int
	set  func(int)
}

// Int creates an integer control clamped to r.
func Int(name string, r Range, get func() int, set func(int)) Control {
	return &intControl{name: name, r: r, get: get, set: set}
}

func (c *intControl) Name() string { return c.name }
func (c *intControl) Kind() Kind   { return KindInt }
func (c *intControl) Value() any   { return c.get() }

func (c *intControl) Set(v any) error {
	f, err := toFloat(v)
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	c.set(int(math.Round(c.r.clamp(f))))
	return nil
}

func (c *intControl) Nudge(steps int) error {
	step := math.Max(1, c.r.Step)
	c.set(int(math.Round(c.r.clamp(float64(c.get()) + float64(steps)*step))))
	return nil
}

func (c *intControl) Describe() string {
	return fmt.Sprintf("%s = %d [%g, %g]", c.name, c.get(), c.r.Min, c.r.Max)
}

type colorControl struct {
	name string
	get  func() string
	set  func(string) error
}

// Color creates a control editing a hex color string. The setter rejects malformed colors.
func Color(name string, get func() string, set func(string) error) Control {
	return &colorControl{name: name, get: get, set: set}
}

func (c *colorControl) Name() string { return c.name }
func (c *colorControl) Kind() Kind   { return KindColor }
func (c *colorControl) Value() any   { return c.get() }

func (c *colorControl) Set(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%s: expected a hex color string, got %T", c.name, v)
	}
	return c.set(strings.ToLower(strings.TrimSpace(s)))
}

func (c *colorControl) Nudge(int) error { return nil }

func (c *colorControl) Describe() string {
	return fmt.Sprintf("%s = %s", c.name, c.get())
}

type choiceControl struct {
	name    string
	options []Option
	get     func() int
	set     func(int)
}

// Choice creates a control selecting one of options. Values may be assigned by option value or label.
func Choice(name string, options []Option, get func() int, set func(int)) Control {
	return &choiceControl{name: name, options: options, get: get, set: set}
}

func (c *choiceControl) Name() string { return c.name }
func (c *choiceControl) Kind() Kind   { return KindChoice }
func (c *choiceControl) Value() any   { return c.get() }

func (c *choiceControl) Set(v any) error {
	if s, ok := v.(string); ok {
		for _, o := range c.options {
			if strings.EqualFold(o.Label, strings.TrimSpace(s)) {
				c.set(o.Value)
				return nil
			}
		}
	}
	f, err := toFloat(v)
	if err != nil {
		return fmt.Errorf("%s: unknown option %v", c.name, v)
	}
	for _, o := range c.options {
		if float64(o.Value) == f {
			c.set(o.Value)
			return nil
		}
	}
	return fmt.Errorf("%s: unknown option %v", c.name, v)
}

func (c *choiceControl) Nudge(steps int) error {
	if len(c.options) == 0 {
		return nil
	}
	idx := 0
	current := c.get()
	for i, o := range c.options {
		if o.Value == current {
			idx = i
			break
		}
	}
	n := len(c.options)
	idx = ((idx+steps)%n + n) % n
	c.set(c.options[idx].Value)
	return nil
}

func (c *choiceControl) Describe() string {
	current := c.get()
	for _, o := range c.options {
		if o.Value == current {
			return fmt.Sprintf("%s = %s", c.name, o.Label)
		}
	}
	return fmt.Sprintf("%s = %d", c.name, current)
}

type actionControl struct {
	name string
	do   func()
}

// Action creates a button-like control. Committing it runs do.
func Action(name string, do func()) Control {
	return &actionControl{name: name, do: do}
}

func (c *actionControl) Name() string     { return c.name }
func (c *actionControl) Kind() Kind       { return KindAction }
func (c *actionControl) Value() any       { return nil }
func (c *actionControl) Set(any) error    { return fmt.Errorf("%s: %w", c.name, ErrNotEditable) }
func (c *actionControl) Nudge(int) error  { return nil }
func (c *actionControl) Describe() string { return "[" + c.name + "]" }

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

// sameValue reports whether a decoded file value already matches the control's live value.
func sameValue(c Control, v any) bool {
	switch c.Kind() {
	case KindFloat:
		f, err := toFloat(v)
		return err == nil && f == c.Value().(float64)
	case KindInt, KindChoice:
		if s, ok := v.(string); ok && c.Kind() == KindChoice {
			cc := c.(*choiceControl)
			for _, o := range cc.options {
				if strings.EqualFold(o.Label, s) {
					return o.Value == cc.get()
				}
			}
			return false
		}
		f, err := toFloat(v)
		return err == nil && int(f) == c.Value().(int)
	case KindColor:
		s, ok := v.(string)
		return ok && strings.EqualFold(strings.TrimSpace(s), c.Value().(string))
	default:
		return true
	}
}
