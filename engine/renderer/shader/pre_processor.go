package shader

import (
	"fmt"
	"strings"
)

// Include is a WGSL struct definition that shaders can pull in by name with //@oxy:include.
type Include struct {
	// Name is the key used in annotations, e.g. "camera".
	Name string

	// Type is the WGSL struct name declared by Source, e.g. "CameraUniform".
	Type string

	// Source is the WGSL struct definition, normally embedded from a .wgsl asset next to the Go type it mirrors.
	Source string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	registry map[string]Include

	// declarations accumulates group annotations during a Process call.
	declarations []Annotation
}

// PreProcessor rewrites @oxy: annotations in WGSL source into plain WGSL.
type PreProcessor interface {
	// Process replaces include annotations with the registered struct source and group annotations
	// with generated @group/@binding declarations. The declarations list is reset on every call.
	//
	// Parameters:
	//   - source: the annotated WGSL source
	//
	// Returns:
	//   - string: plain WGSL source
	//   - error: an error if an annotation is malformed or names an unregistered struct
	Process(source string) (string, error)

	// Declarations returns the group annotations collected by the last Process call, in source order.
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor that resolves the given includes.
//
// Parameters:
//   - includes: the struct definitions available to //@oxy:include and //@oxy:group
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor(includes ...Include) PreProcessor {
	p := &preProcessor{registry: make(map[string]Include, len(includes))}
	for _, inc := range includes {
		p.registry[inc.Name] = inc
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	included := make(map[string]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			entry, ok := p.registry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", a.Line, a.Args[0])
			}
			if included[entry.Name] {
				continue
			}
			included[entry.Name] = true
			out = append(out, strings.TrimRight(entry.Source, "\n"))
		case AnnotationTypeBindingGroup:
			wgslType, err := p.resolveType(a.Args[2])
			if err != nil {
				return "", fmt.Errorf("line %d: %w", a.Line, err)
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				a.Group, a.Binding, addressSpaces[a.Args[0]], a.Args[1], wgslType))
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

// resolveType maps a group annotation type argument to its WGSL type name.
func (p *preProcessor) resolveType(arg string) (string, error) {
	if inner, ok := strings.CutPrefix(arg, "array<"); ok {
		inner = strings.TrimSuffix(inner, ">")
		entry, ok := p.registry[inner]
		if !ok {
			return "", fmt.Errorf("unknown array element type %q in @oxy group annotation", inner)
		}
		return fmt.Sprintf("array<%s>", entry.Type), nil
	}
	entry, ok := p.registry[arg]
	if !ok {
		return "", fmt.Errorf("unknown struct type %q in @oxy group annotation", arg)
	}
	return entry.Type, nil
}
