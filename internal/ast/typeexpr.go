package ast

import "fygc/internal/token"

// TypeExprKind discriminates the TypeExpr sum type (spec §3).
type TypeExprKind uint8

const (
	TypeString TypeExprKind = iota
	TypeNumber
	TypeBoolean
	TypeVoid
	TypeRef
	TypeRecord
	TypeEnumDec
	TypeImportRef
	TypeExternPackage
	TypeFunctionDefinition
	TypeFunctionCall
	TypeInferenceRequired
)

// TypeRecordMember is one named field of a Record TypeExpr.
type TypeRecordMember struct {
	Name string
	Type TypeExpr
}

// ModuleRef is one candidate module a TypeImportRef may resolve
// against; populated by the Module Graph once module discovery has run
// (spec §4.2 step 2, §4.5).
type ModuleRef int32

// TypeExpr is a Fyg type, in the same representation whether it
// appears as a user annotation, an inferred symbol-table entry, or a
// unification constraint operand. An absent annotation is a
// TypeInferenceRequired with a nil Var at the AST level (see
// NewInferenceRequired); the binder replaces each one with a fresh
// type variable, so a nil Var only appears before binding completes
// (spec §3 invariant 4).
type TypeExpr struct {
	Kind TypeExprKind

	// TypeRef
	RefIdent TypeIdentifier

	// TypeRecord
	RecordMembers []TypeRecordMember

	// TypeEnumDec
	EnumDec *EnumDec

	// TypeImportRef
	ImportName    string
	ImportModules []ModuleRef

	// TypeExternPackage
	ExternName    string
	ExternMembers []ExternMember

	// TypeFunctionDefinition
	FuncIdent  *TypeIdentifier // nil for call-site synthesized definitions
	FuncParams []TypeExpr
	FuncReturn *TypeExpr

	// TypeFunctionCall
	CallArgs   []TypeExpr
	CallReturn *TypeExpr
	CallCallee *TypeExpr

	// TypeInferenceRequired
	Var *TypeIdentifier // nil before the binder assigns a fresh variable
}

func Ground(kind TypeExprKind) TypeExpr { return TypeExpr{Kind: kind} }

var (
	StringType  = Ground(TypeString)
	NumberType  = Ground(TypeNumber)
	BooleanType = Ground(TypeBoolean)
	VoidType    = Ground(TypeVoid)
)

// NewInferenceRequired builds an unresolved type-variable reference.
// ident is nil only for the instant between AST construction and
// binding (spec §3 invariant 4).
func NewInferenceRequired(ident *TypeIdentifier) TypeExpr {
	return TypeExpr{Kind: TypeInferenceRequired, Var: ident}
}

// IsGround reports whether t carries no unresolved inference variable
// at its top level.
func (t TypeExpr) IsGround() bool {
	return t.Kind != TypeInferenceRequired && t.Kind != TypeRef
}

// TypeExprEqual is structural equality over TypeExpr, used by
// resolve_type's occurs-check (a chase stops the moment it revisits an
// equal type) and by the unifier's ground/ground comparison. Hand
// written rather than derived, matching the teacher's Equal methods on
// its own AST/symbol types (no reflect.DeepEqual on exported state that
// carries unexported arena indices).
func TypeExprEqual(a, b TypeExpr) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TypeString, TypeNumber, TypeBoolean, TypeVoid:
		return true
	case TypeRef:
		return a.RefIdent.Joined() == b.RefIdent.Joined()
	case TypeInferenceRequired:
		if (a.Var == nil) != (b.Var == nil) {
			return false
		}
		if a.Var == nil {
			return true
		}
		return a.Var.Joined() == b.Var.Joined()
	case TypeRecord:
		if len(a.RecordMembers) != len(b.RecordMembers) {
			return false
		}
		for i := range a.RecordMembers {
			if a.RecordMembers[i].Name != b.RecordMembers[i].Name {
				return false
			}
			if !TypeExprEqual(a.RecordMembers[i].Type, b.RecordMembers[i].Type) {
				return false
			}
		}
		return true
	case TypeEnumDec:
		return a.EnumDec != nil && b.EnumDec != nil && a.EnumDec.Ident.Joined() == b.EnumDec.Ident.Joined()
	case TypeImportRef:
		return a.ImportName == b.ImportName
	case TypeExternPackage:
		return a.ExternName == b.ExternName
	case TypeFunctionDefinition:
		if !typeExprSliceEqual(a.FuncParams, b.FuncParams) {
			return false
		}
		return typeExprPtrEqual(a.FuncReturn, b.FuncReturn)
	case TypeFunctionCall:
		if !typeExprSliceEqual(a.CallArgs, b.CallArgs) {
			return false
		}
		return typeExprPtrEqual(a.CallReturn, b.CallReturn)
	default:
		return false
	}
}

func typeExprSliceEqual(a, b []TypeExpr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !TypeExprEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func typeExprPtrEqual(a, b *TypeExpr) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return TypeExprEqual(*a, *b)
}

// ModuleParser describes a token-based parser boundary: a token stream
// in, a Program out, with ParseHeader as a cheap pass that reads only
// the module declaration and import list (spec §4.5). Nothing in this
// module implements or consumes it: the build pipeline drives the
// path-based modgraph.HeaderParser and buildpipeline.ModuleParser,
// which parser.FileParser implements.
type ModuleParser interface {
	Parse(tokens []token.Token) (*Program, error)
	ParseHeader(tokens []token.Token) (moduleName []string, imports []Import, err error)
}
