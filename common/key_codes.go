package common

// Key is a physical key code. Values match GLFW key codes, which use ASCII for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
type Key int

const (
	KeyUnknown Key = -1

	KeySpace Key = 32
	KeyA     Key = 65
	KeyD     Key = 68
	KeyE     Key = 69
	KeyQ     Key = 81
	KeyS     Key = 83
	KeyW     Key = 87

	KeyEscape Key = 256
	KeyRight  Key = 262
	KeyLeft   Key = 263
	KeyDown   Key = 264
	KeyUp     Key = 265

	KeyLeftShift    Key = 340
	KeyLeftControl  Key = 341
	KeyRightShift   Key = 344
	KeyRightControl Key = 345
)

// KeyState is the transition a keyboard event reports for a key.
type KeyState int

const (
	// KeyPressed is reported on the initial press and on OS key repeat.
	KeyPressed KeyState = iota
	// KeyReleased is reported once when the key goes up.
	KeyReleased
)

// String returns a human-readable name for the key state, used in log output.
func (s KeyState) String() string {
	switch s {
	case KeyPressed:
		return "pressed"
	case KeyReleased:
		return "released"
	default:
		return "unknown"
	}
}
