package cube_texture

import (
	"errors"
	"testing"
)

func TestFaceLayer(t *testing.T) {
	tests := []struct {
		name      string
		light     uint32
		face      uint32
		numLights uint32
		want      uint32
		wantErr   error
	}{
		{"first face of first light", 0, 0, 1, 0, nil},
		{"last face of first light", 0, 5, 1, 5, nil},
		{"light 2 face 3", 2, 3, 4, 15, nil},
		{"last layer", 3, 5, 4, 23, nil},
		{"face out of range", 0, 6, 4, 0, ErrFaceOutOfRange},
		{"light out of range", 4, 0, 4, 0, ErrLightOutOfRange},
		{"no lights", 0, 0, 0, 0, ErrLightOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FaceLayer(tt.light, tt.face, tt.numLights)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FaceLayer() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FaceLayer() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FaceLayer() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFaceLayerCoversAtlasExactlyOnce(t *testing.T) {
	const numLights = 4
	seen := make(map[uint32]bool)
	for l := uint32(0); l < numLights; l++ {
		for f := uint32(0); f < FacesPerCube; f++ {
			layer, err := FaceLayer(l, f, numLights)
			if err != nil {
				t.Fatalf("FaceLayer(%d, %d) error = %v", l, f, err)
			}
			if layer >= FacesPerCube*numLights {
				t.Errorf("FaceLayer(%d, %d) = %d, outside [0, %d)", l, f, layer, FacesPerCube*numLights)
			}
			if seen[layer] {
				t.Errorf("FaceLayer(%d, %d) = %d, already used", l, f, layer)
			}
			seen[layer] = true
		}
	}
	if len(seen) != FacesPerCube*numLights {
		t.Errorf("covered %d layers, want %d", len(seen), FacesPerCube*numLights)
	}
}

func TestCubeFaceString(t *testing.T) {
	want := []string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}
	for i, f := range CubeFaces {
		if f.String() != want[i] {
			t.Errorf("CubeFaces[%d].String() = %q, want %q", i, f.String(), want[i])
		}
	}
}
