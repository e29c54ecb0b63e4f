package pipeline

import (
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

// mergeBindGroupLayouts merges the layouts of a vertex and a fragment shader into the layouts of one pipeline.
// A binding declared by both stages keeps the vertex declaration with both visibility flags set.
//
// Parameters:
//   - vertexLayouts: layout descriptors from the vertex shader, nil safe
//   - fragmentLayouts: layout descriptors from the fragment shader, nil safe
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index, entries sorted by binding
func mergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	byGroup := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)
	labels := make(map[int]string)

	add := func(layouts map[int]wgpu.BindGroupLayoutDescriptor) {
		for g, desc := range layouts {
			if byGroup[g] == nil {
				byGroup[g] = make(map[uint32]wgpu.BindGroupLayoutEntry)
				labels[g] = desc.Label
			}
			for _, e := range desc.Entries {
				if existing, ok := byGroup[g][e.Binding]; ok {
					existing.Visibility |= e.Visibility
					e = existing
				}
				byGroup[g][e.Binding] = e
			}
		}
	}
	add(vertexLayouts)
	add(fragmentLayouts)

	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, len(byGroup))
	for g, entryMap := range byGroup {
		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
		for _, e := range entryMap {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		merged[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   labels[g],
			Entries: entries,
		}
	}
	return merged
}

// GroupCount returns one past the highest group index in layouts, the length of a pipeline layout's bind group slice.
func GroupCount(layouts map[int]wgpu.BindGroupLayoutDescriptor) int {
	count := 0
	for g := range layouts {
		count = max(count, g+1)
	}
	return count
}
