package opengl

import (
	"testing"

	"github.com/go-gl/gl/v4.6-core/gl"
	"go.uber.org/zap/zapcore"
)

func TestSeverityLevel(t *testing.T) {
	tests := []struct {
		severity uint32
		name     string
		level    zapcore.Level
	}{
		{gl.DEBUG_SEVERITY_HIGH, "HIGH", zapcore.ErrorLevel},
		{gl.DEBUG_SEVERITY_MEDIUM, "MEDIUM", zapcore.WarnLevel},
		{gl.DEBUG_SEVERITY_LOW, "LOW", zapcore.InfoLevel},
		{gl.DEBUG_SEVERITY_NOTIFICATION, "NOTIFICATION", zapcore.DebugLevel},
		{0, "UNKNOWN", zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SeverityName(tt.severity); got != tt.name {
				t.Errorf("SeverityName = %q, want %q", got, tt.name)
			}
			if got := SeverityLevel(tt.severity); got != tt.level {
				t.Errorf("SeverityLevel = %v, want %v", got, tt.level)
			}
		})
	}
}

func TestSourceAndTypeNames(t *testing.T) {
	if got := SourceName(gl.DEBUG_SOURCE_SHADER_COMPILER); got != "SHADER COMPILER" {
		t.Errorf("SourceName = %q", got)
	}
	if got := SourceName(gl.DEBUG_SOURCE_WINDOW_SYSTEM); got != "WINDOW SYSTEM" {
		t.Errorf("SourceName = %q", got)
	}
	if got := TypeName(gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR); got != "UNDEFINED BEHAVIOR" {
		t.Errorf("TypeName = %q", got)
	}
	if got := TypeName(12345); got != "UNKNOWN" {
		t.Errorf("TypeName(unknown) = %q", got)
	}
}

func TestFramebufferStatusName(t *testing.T) {
	if got := FramebufferStatusName(gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT); got != "FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT" {
		t.Errorf("FramebufferStatusName = %q", got)
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		name, what, want string
	}{
		{"<quad>", "indices", "<quad indices>"},
		{"<box.glb>", "vertex normals", "<box.glb vertex normals>"},
		{"plain", "indices", "plain indices"},
	}
	for _, tt := range tests {
		if got := labelFor(tt.name, tt.what); got != tt.want {
			t.Errorf("labelFor(%q, %q) = %q, want %q", tt.name, tt.what, got, tt.want)
		}
	}
}
