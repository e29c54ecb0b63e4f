package app

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-galaxy/config"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer"
	"github.com/Carmen-Shannon/oxy-galaxy/galaxy"
)

// variantParams returns the starting parameters of a galaxy variant.
func variantParams(variant string) (galaxy.ParameterSet, error) {
	switch variant {
	case config.VariantStructured, "":
		return galaxy.DefaultParameters(), nil
	case config.VariantFlat:
		return galaxy.FlatParameters(), nil
	default:
		return galaxy.ParameterSet{}, fmt.Errorf("unknown galaxy variant %q", variant)
	}
}

func presentMode(mode string) renderer.PresentMode {
	if mode == "uncapped" {
		return renderer.PresentModeUncapped
	}
	return renderer.PresentModeVSync
}

func msaaSamples(samples int) renderer.MSAASampleCount {
	switch samples {
	case 1:
		return renderer.MSAAOff
	case 8:
		return renderer.MSAA8x
	case 16:
		return renderer.MSAA16x
	default:
		return renderer.MSAA4x
	}
}
