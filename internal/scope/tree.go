package scope

import (
	"fmt"

	"fortio.org/safecast"

	"fygc/internal/ast"
)

// Tree is the Scope Tree arena (spec §4.1). Index 0 is always the root
// (global) scope, allocated by New.
type Tree struct {
	scopes []Scope

	nextTypeVar int
	nextFn      int
}

// New creates a Tree containing only the root scope.
func New() *Tree {
	return &Tree{scopes: []Scope{newScope(ast.NoScopeID)}}
}

// Len reports the number of allocated scopes.
func (t *Tree) Len() int { return len(t.scopes) }

func (t *Tree) get(id ast.ScopeID) *Scope {
	if id < 0 || int(id) >= len(t.scopes) {
		panic(fmt.Errorf("scope: invalid scope index %d", id))
	}
	return &t.scopes[id]
}

// NewProgramScope allocates a child of the root scope (spec §4.1).
func (t *Tree) NewProgramScope() ast.ScopeID {
	return t.NewChildScope(0)
}

// NewChildScope allocates a new scope as a child of parent.
func (t *Tree) NewChildScope(parent ast.ScopeID) ast.ScopeID {
	idx, err := safecast.Conv[int32](len(t.scopes))
	if err != nil {
		panic(fmt.Errorf("scope: arena overflow: %w", err))
	}
	id := ast.ScopeID(idx)
	t.scopes = append(t.scopes, newScope(parent))
	p := t.get(parent)
	p.Children = append(p.Children, id)
	return id
}

// ScopeDepth returns the number of parent edges from index to the root.
func (t *Tree) ScopeDepth(index ast.ScopeID) int {
	depth := 0
	cur := t.get(index)
	for cur.Parent != ast.NoScopeID {
		cur = t.get(cur.Parent)
		depth++
	}
	return depth
}

// CreateValueSymbol installs name in scope, panicking on redeclaration
// (spec §3 invariant 2: a hard error, since redeclaration can only
// happen if the binder mis-walks its own program — never user input
// the binder hasn't already rejected via the same check).
func (t *Tree) CreateValueSymbol(scopeIdx ast.ScopeID, name string, typeExpr ast.TypeExpr) ValueSymbol {
	if _, ok := t.FindValueSymbol(scopeIdx, name); ok {
		panic(fmt.Errorf("cannot redeclare value symbol %q", name))
	}
	sc := t.get(scopeIdx)
	sym := ValueSymbol{Name: name, TypeExpr: typeExpr, ScopeIndex: scopeIdx}
	sc.ValueSymbols[name] = sym
	return sym
}

// FindValueSymbol walks from scopeIdx up through parent links, returning
// the first match.
func (t *Tree) FindValueSymbol(scopeIdx ast.ScopeID, name string) (ValueSymbol, bool) {
	cur := t.get(scopeIdx)
	for {
		if sym, ok := cur.ValueSymbols[name]; ok {
			return sym, true
		}
		if cur.Parent == ast.NoScopeID {
			return ValueSymbol{}, false
		}
		cur = t.get(cur.Parent)
	}
}

// CreateTypeSymbol installs ident (joined with '.') in scope, panicking
// on redeclaration (spec §3 invariant 2).
func (t *Tree) CreateTypeSymbol(scopeIdx ast.ScopeID, ident ast.TypeIdentifier, typeExpr ast.TypeExpr) TypeSymbol {
	joined := ident.Joined()
	if _, ok := t.FindTypeSymbol(scopeIdx, ident); ok {
		panic(fmt.Errorf("cannot redeclare type symbol %q", joined))
	}
	sc := t.get(scopeIdx)
	sym := TypeSymbol{Name: joined, TypeExpr: typeExpr, ScopeIndex: scopeIdx}
	sc.TypeSymbols[joined] = sym
	return sym
}

// UpdateTypeSymbol walks upward from scopeIdx to the first scope
// containing ident and overwrites its type. A missing key is a fatal
// internal error (spec §4.1): unification only ever updates a symbol
// the binder already installed.
func (t *Tree) UpdateTypeSymbol(scopeIdx ast.ScopeID, ident ast.TypeIdentifier, typeExpr ast.TypeExpr) {
	joined := ident.Joined()
	cur := t.get(scopeIdx)
	for {
		if _, ok := cur.TypeSymbols[joined]; ok {
			cur.TypeSymbols[joined] = TypeSymbol{Name: joined, TypeExpr: typeExpr, ScopeIndex: scopeIdx}
			return
		}
		if cur.Parent == ast.NoScopeID {
			panic(fmt.Errorf("scope: update_type_symbol: %q not found from scope %d to root", joined, scopeIdx))
		}
		cur = t.get(cur.Parent)
	}
}

// FindTypeSymbol walks from scopeIdx up through parent links, returning
// the first match.
func (t *Tree) FindTypeSymbol(scopeIdx ast.ScopeID, ident ast.TypeIdentifier) (TypeSymbol, bool) {
	joined := ident.Joined()
	cur := t.get(scopeIdx)
	for {
		if sym, ok := cur.TypeSymbols[joined]; ok {
			return sym, true
		}
		if cur.Parent == ast.NoScopeID {
			return TypeSymbol{}, false
		}
		cur = t.get(cur.Parent)
	}
}

// CreateTypeVar allocates a fresh inference variable t<k>, installs it
// as a type symbol in scopeIdx, and returns the InferenceRequired
// TypeExpr referencing it — the canonical way new inference variables
// enter the system (spec §4.1).
func (t *Tree) CreateTypeVar(scopeIdx ast.ScopeID) ast.TypeExpr {
	name := fmt.Sprintf("t%d", t.nextTypeVar)
	t.nextTypeVar++
	ident := ast.TypeIdentifier{Segments: []string{name}}
	te := ast.NewInferenceRequired(&ident)
	t.CreateTypeSymbol(scopeIdx, ident, te)
	return te
}

// NextFnName returns a fresh fn<k> name for an anonymous function
// literal (spec §4.2 step 4).
func (t *Tree) NextFnName() string {
	name := fmt.Sprintf("fn%d", t.nextFn)
	t.nextFn++
	return name
}
