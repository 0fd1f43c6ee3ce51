package scope

import "fygc/internal/ast"

// visitKey identifies one (type, scope) step of a resolve_type chase,
// for the occurs-check spec §9 Open Question 1 calls for.
type visitKey struct {
	joined string
	scope  ast.ScopeID
}

// ResolveType chases TypeRef/InferenceRequired chains by repeated
// lookup in scopeIdx and its ancestors (spec §4.1). It stops when a
// lookup fails, when the result equals the input, or — the
// occurs-check addition spec §9 calls for — when a (type, scope) pair
// it has already visited during this chase recurs, at which point the
// type expression reached at the repeat is returned as it is rather
// than looping forever.
//
// FindTypeSymbol already walks scopeIdx's full ancestor chain up to and
// including the root scope, so a lookup failure here means the
// identifier is absent everywhere reachable from scopeIdx — there is no
// separate parent scope left to retry.
func (t *Tree) ResolveType(typeExpr ast.TypeExpr, scopeIdx ast.ScopeID) ast.TypeExpr {
	return t.resolveType(typeExpr, scopeIdx, make(map[visitKey]bool))
}

func (t *Tree) resolveType(typeExpr ast.TypeExpr, scopeIdx ast.ScopeID, seen map[visitKey]bool) ast.TypeExpr {
	var ident ast.TypeIdentifier
	switch typeExpr.Kind {
	case ast.TypeRef:
		ident = typeExpr.RefIdent
	case ast.TypeInferenceRequired:
		if typeExpr.Var == nil {
			return typeExpr
		}
		ident = *typeExpr.Var
	default:
		return typeExpr
	}

	key := visitKey{joined: ident.Joined(), scope: scopeIdx}
	if seen[key] {
		return typeExpr
	}
	seen[key] = true

	sym, ok := t.FindTypeSymbol(scopeIdx, ident)
	if !ok {
		return typeExpr
	}

	resolved := sym.TypeExpr
	if !ast.TypeExprEqual(resolved, typeExpr) {
		return t.resolveType(resolved, scopeIdx, seen)
	}
	return resolved
}

// ApplySubstitutions replaces every value symbol's type with
// resolve_type(current, owning_scope), resolved against a snapshot of
// the pre-substitution scopes and committed only after every
// resolution completes (spec §3 invariant 5) — matching the Rust
// source's clone-then-write-back shape exactly (see SPEC_FULL.md §3),
// so that substitution order across scopes can never change the
// result.
func (t *Tree) ApplySubstitutions() {
	type update struct {
		scope ast.ScopeID
		name  string
		typ   ast.TypeExpr
	}

	snapshot := make([]Scope, len(t.scopes))
	copy(snapshot, t.scopes)

	var updates []update
	for idx, sc := range snapshot {
		for name, sym := range sc.ValueSymbols {
			resolved := t.resolveType(sym.TypeExpr, ast.ScopeID(idx), make(map[visitKey]bool))
			updates = append(updates, update{scope: ast.ScopeID(idx), name: name, typ: resolved})
		}
	}

	for _, u := range updates {
		sc := t.get(u.scope)
		sym := sc.ValueSymbols[u.name]
		sym.TypeExpr = u.typ
		sc.ValueSymbols[u.name] = sym
	}
}
