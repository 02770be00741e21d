package cube_texture

// CubeTextureBuilderOption is a functional option applied to an environment cubemap during construction.
type CubeTextureBuilderOption func(*cubeTexture)

// WithLabel sets the debug label of the cubemap texture. Its view and sampler derive their labels from it.
//
// Parameters:
//   - label: the texture label
//
// Returns:
//   - CubeTextureBuilderOption: a function that applies the label option to a cube texture
func WithLabel(label string) CubeTextureBuilderOption {
	return func(c *cubeTexture) {
		c.label = label
	}
}

// WithDecoder replaces the default file decoder used by LoadEnvironmentCubemap.
//
// Parameters:
//   - decoder: the Decoder that turns each path into RGBA8 pixels
//
// Returns:
//   - CubeTextureBuilderOption: a function that applies the decoder option to a cube texture
func WithDecoder(decoder Decoder) CubeTextureBuilderOption {
	return func(c *cubeTexture) {
		c.decoder = decoder
	}
}
