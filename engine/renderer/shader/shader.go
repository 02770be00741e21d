package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies a pipeline stage an entry point runs in.
type ShaderType int

const (
	// ShaderTypeCompute indicates a @compute entry point.
	ShaderTypeCompute ShaderType = iota

	// ShaderTypeVertex is the vertex stage of a render pipeline.
	ShaderTypeVertex

	// ShaderTypeFragment is the fragment stage of a render pipeline.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
// It holds the processed source and everything reflected from it.
type shader struct {
	key                        string
	source                     string
	entryPoints                map[ShaderType]string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	module                     *wgpu.ShaderModuleDescriptor

	pp PreProcessor
}

// Shader is a pre-processed WGSL module together with the entry points and bind group layouts
// reflected from it.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used as the module label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the processed WGSL source.
	//
	// Returns:
	//   - string: the WGSL source code with annotations expanded
	Source() string

	// EntryPoint returns the first entry point declared for a stage.
	//
	// Parameters:
	//   - stage: the pipeline stage
	//
	// Returns:
	//   - string: the entry point name, or "" if the shader has none for the stage
	EntryPoint(stage ShaderType) string

	// BindGroupLayoutDescriptor retrieves the reflected layout descriptor for a group.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is unused
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all reflected layout descriptors keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the WGSL variable name bound at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// BindGroupFromVarName retrieves the binding index of a named variable within a group.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the variable name within the group
	//
	// Returns:
	//   - int: the binding index, or -1 if not found
	//   - bool: true if the variable name was found
	BindGroupFromVarName(group int, varName string) (int, bool)

	// CheckLayout verifies that a layout created elsewhere can serve one of this shader's groups.
	//
	// Parameters:
	//   - group: the @group index
	//   - want: the descriptor the layout was created from
	//
	// Returns:
	//   - error: an error wrapping ErrLayoutMismatch describing every incompatible binding
	CheckLayout(group int, want wgpu.BindGroupLayoutDescriptor) error

	// Module returns the descriptor for creating the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// Declarations returns the @mood:group annotations expanded from the source.
	//
	// Returns:
	//   - []Annotation: the generated declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes WGSL source, lowers it with naga and reflects its entry points and
// bind group layouts.
//
// Parameters:
//   - key: a unique identifier for the shader, used as the module label and layout label prefix
//   - source: the WGSL source, optionally containing @mood: annotations
//
// Returns:
//   - Shader: the reflected shader
//   - error: a pre-processing, parse, lowering or reflection error
func NewShader(key string, source string) (Shader, error) {
	s := &shader{
		key: key,
		pp:  NewPreProcessor(),
	}

	processed, err := s.pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to pre-process: %w", key, err)
	}
	s.source = processed

	module, err := lowerSource(processed)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	s.entryPoints = reflectEntryPoints(module)
	s.bindGroupLayoutDescriptors, s.bindingVarNames, err = reflectBindGroups(module, key)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	s.module = &wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint(stage ShaderType) string {
	return s.entryPoints[stage]
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if bindings, ok := s.bindingVarNames[group]; ok {
		return bindings[binding]
	}
	return ""
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) CheckLayout(group int, want wgpu.BindGroupLayoutDescriptor) error {
	reflected, ok := s.bindGroupLayoutDescriptors[group]
	if !ok {
		return fmt.Errorf("%w: shader %s has no group %d", ErrLayoutMismatch, s.key, group)
	}
	return checkLayout(reflected, want)
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) Declarations() []Annotation {
	return s.pp.Declarations()
}
