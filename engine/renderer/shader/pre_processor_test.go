package shader

import (
	"strings"
	"testing"
)

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    AnnotationType
		nilOK   bool
		wantErr string
	}{
		{name: "plain wgsl", line: "var<private> x: f32;", nilOK: true},
		{name: "plain comment", line: "// lights are in world space", nilOK: true},
		{name: "prefix outside comment", line: "let s = \"@mood:include camera\";", nilOK: true},
		{name: "include", line: "  //@mood:include camera", want: annotationTypeInclude},
		{name: "group", line: "//@mood:group 0 1 storage_read cubes array<shadow_cube>", want: AnnotationTypeBindingGroup},
		{name: "empty", line: "//@mood:", wantErr: "empty @mood annotation"},
		{name: "unknown type", line: "//@mood:define FOO", wantErr: "unknown @mood annotation type"},
		{name: "include arity", line: "//@mood:include camera shadow_cube", wantErr: "exactly one argument"},
		{name: "unknown include", line: "//@mood:include teapot", wantErr: "unknown struct type"},
		{name: "group arity", line: "//@mood:group 0 0 uniform camera", wantErr: "exactly five arguments"},
		{name: "bad binding", line: "//@mood:group 0 b uniform camera camera", wantErr: "invalid binding number"},
		{name: "bad space", line: "//@mood:group 0 0 private camera camera", wantErr: "unknown address space"},
		{name: "unknown array element", line: "//@mood:group 0 0 storage_read xs array<teapot>", wantErr: "unknown struct type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAnnotation(tt.line, 7)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("parseAnnotation(%q) error = %v, want %q", tt.line, err, tt.wantErr)
				}
				if !strings.HasPrefix(err.Error(), "line 7:") {
					t.Errorf("error %q does not name the line", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAnnotation(%q) = %v", tt.line, err)
			}
			if tt.nilOK {
				if a != nil {
					t.Errorf("parseAnnotation(%q) = %+v, want nil", tt.line, a)
				}
				return
			}
			if a == nil || a.Type != tt.want || a.Line != 7 {
				t.Errorf("parseAnnotation(%q) = %+v, want type %q on line 7", tt.line, a, tt.want)
			}
		})
	}
}

func TestProcessIncludesOnce(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@mood:include camera\n//@mood:include camera\nfn f() {}")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if n := strings.Count(out, "struct CameraUniform"); n != 1 {
		t.Errorf("CameraUniform declared %d times, want 1:\n%s", n, out)
	}
	if strings.Contains(out, "@mood:") {
		t.Errorf("annotation left in output:\n%s", out)
	}
	if !strings.HasSuffix(out, "fn f() {}") {
		t.Errorf("source after annotations was not kept:\n%s", out)
	}
}

func TestProcessGroupDeclarations(t *testing.T) {
	pp := NewPreProcessor()
	src := strings.Join([]string{
		"//@mood:group 0 0 uniform camera camera",
		"//@mood:group 2 3 storage_read_write cubes array<shadow_cube>",
	}, "\n")
	out, err := pp.Process(src)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := []string{
		"@group(0) @binding(0) var<uniform> camera: CameraUniform;",
		"@group(2) @binding(3) var<storage, read_write> cubes: array<ShadowCube>;",
	}
	if got := strings.Split(out, "\n"); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Process output:\n%s\nwant:\n%s", out, strings.Join(want, "\n"))
	}

	decls := pp.Declarations()
	if len(decls) != 2 {
		t.Fatalf("Declarations() has %d entries, want 2", len(decls))
	}
	if *decls[1].Group != 2 || *decls[1].Binding != 3 || decls[1].Args[1] != "cubes" {
		t.Errorf("second declaration = %+v", decls[1])
	}

	if _, err := pp.Process("fn f() {}"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if n := len(pp.Declarations()); n != 0 {
		t.Errorf("Declarations() kept %d entries from the previous call", n)
	}
}

func TestProcessReportsMalformedAnnotation(t *testing.T) {
	_, err := NewPreProcessor().Process("fn f() {}\n//@mood:group 0 0 uniform camera")
	if err == nil || !strings.HasPrefix(err.Error(), "line 2:") {
		t.Errorf("Process error = %v, want a line 2 error", err)
	}
}
