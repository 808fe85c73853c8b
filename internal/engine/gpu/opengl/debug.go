package opengl

import (
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnableDebugOutput routes driver debug messages to log when the current
// context was created with the debug flag. It reports whether output was
// enabled.
func EnableDebugOutput(log *zap.Logger) bool {
	var flags int32
	gl.GetIntegerv(gl.CONTEXT_FLAGS, &flags)
	if flags&gl.CONTEXT_FLAG_DEBUG_BIT == 0 {
		log.Debug("context has no debug flag, GL debug output disabled")
		return false
	}

	gl.Enable(gl.DEBUG_OUTPUT)
	gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
	gl.DebugMessageCallback(func(source, gltype, id, severity uint32, _ int32, message string, _ unsafe.Pointer) {
		if ce := log.Check(SeverityLevel(severity), message); ce != nil {
			ce.Write(
				zap.String("source", SourceName(source)),
				zap.String("type", TypeName(gltype)),
				zap.String("severity", SeverityName(severity)),
				zap.Uint32("id", id),
			)
		}
	}, nil)
	gl.DebugMessageControl(gl.DONT_CARE, gl.DONT_CARE, gl.DONT_CARE, 0, nil, true)

	log.Info("GL debug output enabled")
	return true
}

// SourceName names a debug message source.
func SourceName(source uint32) string {
	switch source {
	case gl.DEBUG_SOURCE_API:
		return "API"
	case gl.DEBUG_SOURCE_WINDOW_SYSTEM:
		return "WINDOW SYSTEM"
	case gl.DEBUG_SOURCE_SHADER_COMPILER:
		return "SHADER COMPILER"
	case gl.DEBUG_SOURCE_THIRD_PARTY:
		return "THIRD PARTY"
	case gl.DEBUG_SOURCE_APPLICATION:
		return "APPLICATION"
	case gl.DEBUG_SOURCE_OTHER:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// TypeName names a debug message type.
func TypeName(gltype uint32) string {
	switch gltype {
	case gl.DEBUG_TYPE_ERROR:
		return "ERROR"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		return "DEPRECATED BEHAVIOR"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		return "UNDEFINED BEHAVIOR"
	case gl.DEBUG_TYPE_PORTABILITY:
		return "PORTABILITY"
	case gl.DEBUG_TYPE_PERFORMANCE:
		return "PERFORMANCE"
	case gl.DEBUG_TYPE_MARKER:
		return "MARKER"
	case gl.DEBUG_TYPE_PUSH_GROUP:
		return "PUSH GROUP"
	case gl.DEBUG_TYPE_POP_GROUP:
		return "POP GROUP"
	case gl.DEBUG_TYPE_OTHER:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// SeverityName names a debug message severity.
func SeverityName(severity uint32) string {
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		return "HIGH"
	case gl.DEBUG_SEVERITY_MEDIUM:
		return "MEDIUM"
	case gl.DEBUG_SEVERITY_LOW:
		return "LOW"
	case gl.DEBUG_SEVERITY_NOTIFICATION:
		return "NOTIFICATION"
	default:
		return "UNKNOWN"
	}
}

// SeverityLevel maps a debug severity to the level it is logged at.
func SeverityLevel(severity uint32) zapcore.Level {
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		return zapcore.ErrorLevel
	case gl.DEBUG_SEVERITY_MEDIUM:
		return zapcore.WarnLevel
	case gl.DEBUG_SEVERITY_LOW:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
