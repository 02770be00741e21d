package shader

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

var (
	// ErrLayoutMismatch is returned by CheckLayout when a layout cannot serve the shader's bindings.
	ErrLayoutMismatch = errors.New("bind group layout does not match shader")

	// ErrUnsupportedResource is returned when a binding has a type that cannot be reflected into a layout entry.
	ErrUnsupportedResource = errors.New("unsupported shader resource")
)

// lowerSource parses WGSL and lowers it to naga IR.
func lowerSource(source string) (*ir.Module, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse WGSL: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("failed to lower WGSL: %w", err)
	}
	return module, nil
}

// reflectEntryPoints returns the first entry point name for each stage.
func reflectEntryPoints(m *ir.Module) map[ShaderType]string {
	entries := make(map[ShaderType]string, len(m.EntryPoints))
	for _, ep := range m.EntryPoints {
		t := stageShaderType(ep.Stage)
		if _, ok := entries[t]; !ok {
			entries[t] = ep.Name
		}
	}
	return entries
}

func stageShaderType(stage ir.ShaderStage) ShaderType {
	switch stage {
	case ir.StageVertex:
		return ShaderTypeVertex
	case ir.StageFragment:
		return ShaderTypeFragment
	default:
		return ShaderTypeCompute
	}
}

func stageVisibility(stage ir.ShaderStage) wgpu.ShaderStage {
	switch stage {
	case ir.StageVertex:
		return wgpu.ShaderStageVertex
	case ir.StageFragment:
		return wgpu.ShaderStageFragment
	default:
		return wgpu.ShaderStageCompute
	}
}

// reflectVisibility computes the stages each global variable is used from. Entry point bodies
// are inline in the module, so m.Functions only holds helpers. Calls are not traced, so a global
// touched by a helper function is visible to every stage in the module. Globals nothing
// references get the module's full stage set.
func reflectVisibility(m *ir.Module) map[ir.GlobalVariableHandle]wgpu.ShaderStage {
	visibility := make(map[ir.GlobalVariableHandle]wgpu.ShaderStage, len(m.GlobalVariables))

	var all wgpu.ShaderStage
	for _, ep := range m.EntryPoints {
		stage := stageVisibility(ep.Stage)
		all |= stage
		for _, g := range referencedGlobals(&ep.Function) {
			visibility[g] |= stage
		}
	}

	for i := range m.Functions {
		for _, g := range referencedGlobals(&m.Functions[i]) {
			visibility[g] |= all
		}
	}

	for i := range m.GlobalVariables {
		h := ir.GlobalVariableHandle(i)
		if visibility[h] == 0 {
			visibility[h] = all
		}
	}
	return visibility
}

func referencedGlobals(fn *ir.Function) []ir.GlobalVariableHandle {
	var globals []ir.GlobalVariableHandle
	for _, expr := range fn.Expressions {
		if g, ok := expr.Kind.(ir.ExprGlobalVariable); ok {
			globals = append(globals, g.Variable)
		}
	}
	return globals
}

// reflectBindGroups builds one layout descriptor per @group, entries sorted by binding, and the
// variable name of every binding.
func reflectBindGroups(m *ir.Module, key string) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string, error) {
	visibility := reflectVisibility(m)
	descriptors := make(map[int]wgpu.BindGroupLayoutDescriptor)
	names := make(map[int]map[int]string)

	for i, gv := range m.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		entry, err := classifyResource(m, gv, visibility[ir.GlobalVariableHandle(i)])
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", gv.Name, err)
		}

		group := int(gv.Binding.Group)
		desc := descriptors[group]
		if desc.Label == "" {
			desc.Label = fmt.Sprintf("%s_group_%d_layout", key, group)
		}
		desc.Entries = append(desc.Entries, entry)
		descriptors[group] = desc

		if names[group] == nil {
			names[group] = make(map[int]string)
		}
		names[group][int(gv.Binding.Binding)] = gv.Name
	}

	for group, desc := range descriptors {
		sort.Slice(desc.Entries, func(a, b int) bool {
			return desc.Entries[a].Binding < desc.Entries[b].Binding
		})
		descriptors[group] = desc
	}
	return descriptors, names, nil
}

// classifyResource maps a bound global variable onto a bind group layout entry.
// Sampled textures are reflected as filterable float; storage buffers are writable only when
// a compute stage sees them.
//
// Parameters:
//   - m: the module the variable belongs to
//   - gv: the bound global variable
//   - visibility: the shader stages that reference the variable
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: a fully populated layout entry for the resource
//   - error: ErrUnsupportedResource for storage textures and unknown handle types
func classifyResource(m *ir.Module, gv ir.GlobalVariable, visibility wgpu.ShaderStage) (wgpu.BindGroupLayoutEntry, error) {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    gv.Binding.Binding,
		Visibility: visibility,
	}

	switch gv.Space {
	case ir.SpaceUniform:
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		entry.Buffer.MinBindingSize = uint64(typeSize(m, gv.Type))
		return entry, nil
	case ir.SpaceStorage:
		if visibility&wgpu.ShaderStageCompute != 0 {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		} else {
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		}
		entry.Buffer.MinBindingSize = uint64(typeSize(m, gv.Type))
		return entry, nil
	case ir.SpaceHandle:
	default:
		return entry, fmt.Errorf("%w: address space %d", ErrUnsupportedResource, gv.Space)
	}

	if int(gv.Type) >= len(m.Types) {
		return entry, fmt.Errorf("%w: dangling type handle %d", ErrUnsupportedResource, gv.Type)
	}
	switch t := m.Types[gv.Type].Inner.(type) {
	case ir.SamplerType:
		if t.Comparison {
			entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
		} else {
			entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
		}
	case ir.ImageType:
		switch t.Class {
		case ir.ImageClassSampled:
			entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		case ir.ImageClassDepth:
			entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		default:
			return entry, fmt.Errorf("%w: storage texture", ErrUnsupportedResource)
		}
		entry.Texture.ViewDimension = viewDimension(t.Dim, t.Arrayed)
		entry.Texture.Multisampled = t.Multisampled
	default:
		return entry, fmt.Errorf("%w: %T", ErrUnsupportedResource, t)
	}
	return entry, nil
}

func viewDimension(dim ir.ImageDimension, arrayed bool) wgpu.TextureViewDimension {
	switch dim {
	case ir.Dim1D:
		return wgpu.TextureViewDimension1D
	case ir.Dim3D:
		return wgpu.TextureViewDimension3D
	case ir.DimCube:
		if arrayed {
			return wgpu.TextureViewDimensionCubeArray
		}
		return wgpu.TextureViewDimensionCube
	default:
		if arrayed {
			return wgpu.TextureViewDimension2DArray
		}
		return wgpu.TextureViewDimension2D
	}
}

// typeSize returns the host-shareable size of a type. Runtime-sized arrays report one element.
func typeSize(m *ir.Module, h ir.TypeHandle) uint32 {
	_, size := typeLayout(m, h)
	return size
}

// typeLayout returns alignment and size under WGSL host-shareable layout rules.
func typeLayout(m *ir.Module, h ir.TypeHandle) (align, size uint32) {
	if int(h) >= len(m.Types) {
		return 4, 0
	}
	switch t := m.Types[h].Inner.(type) {
	case ir.ScalarType:
		return 4, 4
	case ir.VectorType:
		return vectorLayout(uint32(t.Size))
	case ir.MatrixType:
		colAlign, colSize := vectorLayout(uint32(t.Rows))
		return colAlign, roundUp(colAlign, colSize) * uint32(t.Columns)
	case ir.AtomicType:
		return 4, 4
	case ir.ArrayType:
		elemAlign, elemSize := typeLayout(m, t.Base)
		stride := t.Stride
		if stride == 0 {
			stride = roundUp(elemAlign, elemSize)
		}
		if t.Size.Constant != nil {
			return elemAlign, stride * *t.Size.Constant
		}
		return elemAlign, stride
	case ir.StructType:
		var maxAlign uint32 = 1
		for _, member := range t.Members {
			if a, _ := typeLayout(m, member.Type); a > maxAlign {
				maxAlign = a
			}
		}
		return maxAlign, t.Span
	}
	return 4, 0
}

func vectorLayout(components uint32) (align, size uint32) {
	switch components {
	case 2:
		return 8, 8
	case 3:
		return 16, 12
	case 4:
		return 16, 16
	default:
		return 4, 4
	}
}

func roundUp(alignment, value uint32) uint32 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) / alignment * alignment
}

// checkLayout reports how want fails to cover the reflected descriptor. want may be visible to
// more stages than the shader uses and may declare a larger minimum buffer size.
func checkLayout(reflected, want wgpu.BindGroupLayoutDescriptor) error {
	byBinding := make(map[uint32]wgpu.BindGroupLayoutEntry, len(want.Entries))
	for _, e := range want.Entries {
		byBinding[e.Binding] = e
	}

	var errs []error
	for _, r := range reflected.Entries {
		w, ok := byBinding[r.Binding]
		if !ok {
			errs = append(errs, fmt.Errorf("binding %d is missing", r.Binding))
			continue
		}
		if r.Visibility&^w.Visibility != 0 {
			errs = append(errs, fmt.Errorf("binding %d is not visible to every stage that uses it", r.Binding))
		}
		switch {
		case r.Buffer.Type != wgpu.BufferBindingTypeUndefined:
			if w.Buffer.Type != r.Buffer.Type {
				errs = append(errs, fmt.Errorf("binding %d: buffer type %v, shader needs %v", r.Binding, w.Buffer.Type, r.Buffer.Type))
			} else if w.Buffer.MinBindingSize != 0 && w.Buffer.MinBindingSize < r.Buffer.MinBindingSize {
				errs = append(errs, fmt.Errorf("binding %d: min size %d, shader reads %d bytes", r.Binding, w.Buffer.MinBindingSize, r.Buffer.MinBindingSize))
			}
		case r.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			if (w.Sampler.Type == wgpu.SamplerBindingTypeComparison) != (r.Sampler.Type == wgpu.SamplerBindingTypeComparison) {
				errs = append(errs, fmt.Errorf("binding %d: sampler type %v, shader needs %v", r.Binding, w.Sampler.Type, r.Sampler.Type))
			}
		default:
			if w.Texture.ViewDimension != r.Texture.ViewDimension || w.Texture.Multisampled != r.Texture.Multisampled {
				errs = append(errs, fmt.Errorf("binding %d: texture dimension %v, shader needs %v", r.Binding, w.Texture.ViewDimension, r.Texture.ViewDimension))
			}
			if (w.Texture.SampleType == wgpu.TextureSampleTypeDepth) != (r.Texture.SampleType == wgpu.TextureSampleTypeDepth) {
				errs = append(errs, fmt.Errorf("binding %d: sample type %v, shader needs %v", r.Binding, w.Texture.SampleType, r.Texture.SampleType))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s: %w", ErrLayoutMismatch, want.Label, errors.Join(errs...))
	}
	return nil
}
