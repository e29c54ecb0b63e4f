package galaxy

import (
	"github.com/Carmen-Shannon/oxy-galaxy/panel"
)

// Control names, also used as keys in a params file.
const (
	ControlSpinSpeed       = "spinSpeed"
	ControlStarSize        = "starSize"
	ControlStarCount       = "starCount"
	ControlPattern         = "pattern"
	ControlRadius          = "radius"
	ControlBranches        = "branches"
	ControlRandomness      = "randomness"
	ControlRandomnessPower = "randomnessPower"
	ControlConcentration   = "concentration"
	ControlInsideColor     = "insideColor"
	ControlOutsideColor    = "outsideColor"
	ControlSpinMode        = "spinMode"
	ControlReplaySpin      = "replaySpin"
)

var patternOptions = []panel.Option{
	{Label: "Disc", Value: int(PatternDisc)},
	{Label: "Diffuse Point", Value: int(PatternDiffusePoint)},
	{Label: "Light Point", Value: int(PatternLightPoint)},
}

var spinModeOptions = []panel.Option{
	{Label: "Uniform Driven", Value: int(SpinUniformDriven)},
	{Label: "Baked In", Value: int(SpinBakedIn)},
}

func (c *controller) Bind(r *panel.Registry) error {
	folder := r.Folder("Galaxy", c.Regenerate)

	controls := []panel.Control{
		c.floatControl(ControlSpinSpeed, panel.Range{Min: -25, Max: 25, Step: 0.001},
			func(p *ParameterSet) *float64 { return &p.SpinSpeed }),
		c.floatControl(ControlStarSize, panel.Range{Min: 0.001, Max: 15, Step: 0.001},
			func(p *ParameterSet) *float64 { return &p.StarSize }),
		c.intControl(ControlStarCount, panel.Range{Min: 1000, Max: 200000, Step: 1000},
			func(p *ParameterSet) *int { return &p.StarCount }),
		panel.Choice(ControlPattern, patternOptions,
			func() int { return int(c.Params().Pattern) },
			func(v int) { c.update(func(p *ParameterSet) { p.Pattern = Pattern(v) }) }),
		c.floatControl(ControlRadius, panel.Range{Min: 0, Max: 8, Step: 0.001},
			func(p *ParameterSet) *float64 { return &p.Radius }),
		c.intControl(ControlBranches, panel.Range{Min: 1, Max: 10, Step: 1},
			func(p *ParameterSet) *int { return &p.Branches }),
		c.floatControl(ControlRandomness, panel.Range{Min: 0, Max: 3, Step: 0.001},
			func(p *ParameterSet) *float64 { return &p.Randomness }),
		c.floatControl(ControlRandomnessPower, panel.Range{Min: 0, Max: 9, Step: 0.01},
			func(p *ParameterSet) *float64 { return &p.RandomnessPower }),
		c.floatControl(ControlConcentration, panel.Range{Min: 0.01, Max: 9, Step: 0.001},
			func(p *ParameterSet) *float64 { return &p.Concentration }),
		panel.Color(ControlInsideColor,
			func() string { return c.Params().InsideColor.Hex() },
			func(hex string) error { return c.setColor(ControlInsideColor, hex, true) }),
		panel.Color(ControlOutsideColor,
			func() string { return c.Params().OutsideColor.Hex() },
			func(hex string) error { return c.setColor(ControlOutsideColor, hex, false) }),
		panel.Choice(ControlSpinMode, spinModeOptions,
			func() int { return int(c.Params().SpinMode) },
			func(v int) { c.update(func(p *ParameterSet) { p.SpinMode = SpinMode(v) }) }),
	}
	for _, ctl := range controls {
		if err := folder.Add(ctl); err != nil {
			folder.Release()
			return err
		}
	}

	replay, err := r.Register(panel.Action(ControlReplaySpin, c.ReplaySpin), nil)
	if err != nil {
		folder.Release()
		return err
	}

	c.mu.Lock()
	c.bindings = append(c.bindings, folder, replay)
	c.mu.Unlock()
	return nil
}

func (c *controller) update(fn func(p *ParameterSet)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.params)
}

func (c *controller) floatControl(name string, r panel.Range, field func(p *ParameterSet) *float64) panel.Control {
	return panel.Float(name, r,
		func() float64 {
			p := c.Params()
			return *field(&p)
		},
		func(v float64) { c.update(func(p *ParameterSet) { *field(p) = v }) },
	)
}

func (c *controller) intControl(name string, r panel.Range, field func(p *ParameterSet) *int) panel.Control {
	return panel.Int(name, r,
		func() int {
			p := c.Params()
			return *field(&p)
		},
		func(v int) { c.update(func(p *ParameterSet) { *field(p) = v }) },
	)
}

func (c *controller) setColor(field, hex string, inside bool) error {
	color, err := ParseColor(field, hex)
	if err != nil {
		return err
	}
	c.update(func(p *ParameterSet) {
		if inside {
			p.InsideColor = color
		} else {
			p.OutsideColor = color
		}
	})
	return nil
}
