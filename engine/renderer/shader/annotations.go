// annotations.go defines the @oxy: annotations understood by the WGSL pre-processor.
// Annotations are single-line WGSL comments that inject registered struct sources and
// generate bind group declarations, so struct layouts shared between Go and WGSL live
// in exactly one .wgsl asset.
package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct at the annotation site.
	// A struct included more than once is only emitted the first time.
	//
	// Syntax: //@oxy:include <name>
	//
	// Example: //@oxy:include camera
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a @group/@binding variable declaration for a registered
	// struct, or a runtime-sized array of one, and records the declaration.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <name|array<name>>
	//
	// Example: //@oxy:group 2 0 storage_read stars array<star>
	AnnotationTypeBindingGroup AnnotationType = "group"
)

// addressSpaces maps the address space argument of a group annotation to its WGSL var<> syntax.
var addressSpaces = map[string]string{
	"uniform":            "var<uniform>",
	"storage_read":       "var<storage, read>",
	"storage_read_write": "var<storage, read_write>",
}

// Annotation is a single parsed @oxy: annotation.
type Annotation struct {
	Type AnnotationType

	// Args holds the annotation's arguments:
	//   - include: [0] = registered struct name
	//   - group:   [0] = address space, [1] = var name, [2] = struct name or array<struct name>
	Args []string

	// Line is the 1-based source line, used for error reporting.
	Line int

	// Group and Binding are only set for group annotations.
	Group   int
	Binding int
}

// parseAnnotation parses one line of WGSL source. Lines without the annotation prefix return nil, nil.
//
// Parameters:
//   - line: the raw WGSL source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		return &Annotation{Type: annotationTypeInclude, Args: args[1:], Line: lineNum}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires group, binding, address space, name and type", lineNum)
		}
		group, err := strconv.Atoi(args[1])
		if err != nil || group < 0 {
			return nil, fmt.Errorf("line %d: invalid group number %q in @oxy group annotation", lineNum, args[1])
		}
		binding, err := strconv.Atoi(args[2])
		if err != nil || binding < 0 {
			return nil, fmt.Errorf("line %d: invalid binding number %q in @oxy group annotation", lineNum, args[2])
		}
		if _, ok := addressSpaces[args[3]]; !ok {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy group annotation", lineNum, args[3])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    args[3:],
			Line:    lineNum,
			Group:   group,
			Binding: binding,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
