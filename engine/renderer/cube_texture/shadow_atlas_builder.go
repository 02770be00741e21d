package cube_texture

// ShadowAtlasBuilderOption is a functional option applied to a shadow atlas during construction via NewShadowAtlas.
type ShadowAtlasBuilderOption func(*shadowAtlas)

// WithAtlasLabel sets the debug label prefix used for every GPU object the atlas creates.
//
// Parameters:
//   - label: the label prefix
//
// Returns:
//   - ShadowAtlasBuilderOption: a function that applies the label option to a shadow atlas
func WithAtlasLabel(label string) ShadowAtlasBuilderOption {
	return func(a *shadowAtlas) {
		a.label = label
	}
}
