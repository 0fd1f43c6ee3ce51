package diag

// Code identifies a diagnostic's exact condition. Ranges are
// phase-prefixed in the thousands, mirroring the teacher's codes.go
// (1000s lex, 2000s syntax): Fyg's internal/lexer and internal/parser
// report plain errors without codes, so the ranges start at 3000,
// where the core pipeline begins.
type Code uint16

const (
	UnknownCode Code = 0

	// Binder (§4.2).
	BindInfo          Code = 3000
	BindRedeclaration Code = 3001

	// Constraint Collector (§4.3).
	CollectInfo           Code = 4000
	CollectUnsupportedDot Code = 4001

	// Unifier (§4.4).
	UnifyInfo        Code = 5000
	UnifyTypeMismatch Code = 5001
	UnifyArityMismatch Code = 5002
	UnifyOccursCheck  Code = 5003

	// Emitter (§4.6).
	EmitInfo              Code = 6000
	EmitUnsupportedType   Code = 6001

	// Module Graph (§4.5).
	ModGraphInfo        Code = 7000
	ModGraphUnknownImport Code = 7001
	ModGraphImportCycle   Code = 7002

	// Project / CLI (fyg.toml, command wiring).
	ProjectInfo         Code = 8000
	ProjectManifestError Code = 8001
)

func (c Code) String() string {
	switch c {
	case UnknownCode:
		return "E0000"
	case BindRedeclaration:
		return "E3001"
	case CollectUnsupportedDot:
		return "E4001"
	case UnifyTypeMismatch:
		return "E5001"
	case UnifyArityMismatch:
		return "E5002"
	case UnifyOccursCheck:
		return "E5003"
	case EmitUnsupportedType:
		return "E6001"
	case ModGraphUnknownImport:
		return "E7001"
	case ModGraphImportCycle:
		return "E7002"
	case ProjectManifestError:
		return "E8001"
	default:
		if c%1000 == 0 {
			return "I" + phaseDigits(c)
		}
		return "E" + phaseDigits(c)
	}
}

func phaseDigits(c Code) string {
	digits := [4]byte{}
	n := uint16(c)
	for i := 3; i >= 0; i-- {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[:])
}
