package symtab

import (
	"pysema/internal/pytree"
	"pysema/internal/source"
)

// BuiltinTag is a nominal tag for the handful of builtin types the shallow
// inferencer (C6) can name with confidence. It is not a type system: no
// generic parameters, no union algebra beyond the Any escape hatch.
type BuiltinTag uint8

const (
	TagUnknown BuiltinTag = iota
	TagInt
	TagFloat
	TagStr
	TagBytes
	TagBool
	TagNone
	TagList
	TagSet
	TagDict
	TagTuple
	TagCallable
	TagInstance // instance of a user-defined class; see InferredType.Class
)

func (t BuiltinTag) String() string {
	switch t {
	case TagInt:
		return "int"
	case TagFloat:
		return "float"
	case TagStr:
		return "str"
	case TagBytes:
		return "bytes"
	case TagBool:
		return "bool"
	case TagNone:
		return "none"
	case TagList:
		return "list"
	case TagSet:
		return "set"
	case TagDict:
		return "dict"
	case TagTuple:
		return "tuple"
	case TagCallable:
		return "callable"
	case TagInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// InferredType answers the three questions spec.md §4.6 asks of it. The
// zero value is Any: pessimistic, since an absent type must never cause a
// downstream rule to assume too much (§4.6: "every canOnlyBe returns false
// and every canHaveMember returns true").
type InferredType struct {
	// known is false for Any. When true, Tag names the single possible
	// builtin tag (this inferencer never produces true unions).
	known bool
	Tag   BuiltinTag
	// Class is set when Tag == TagInstance: the class symbol this value is
	// an instance of.
	Class SymbolID
}

// Any is the pessimistic type used whenever inference is uncertain.
var Any = InferredType{}

func known(tag BuiltinTag) InferredType { return InferredType{known: true, Tag: tag} }

func instanceOf(class SymbolID) InferredType {
	return InferredType{known: true, Tag: TagInstance, Class: class}
}

func callable() InferredType { return InferredType{known: true, Tag: TagCallable} }

// CanOnlyBe reports whether this value can only ever have the given tag.
// Any type always answers false, per §4.6.
func (t InferredType) CanOnlyBe(tag BuiltinTag) bool {
	return t.known && t.Tag == tag
}

// CanHaveMember reports whether an attribute named name could plausibly
// exist on this value. Any type always answers true (pessimistic: suppress
// false positives rather than risk a false "no such member"). A known
// instance type defers to the class's resolveMember; other known builtin
// tags currently have no member model of their own, so they also defer to
// "maybe" rather than claim a closed member set.
func (t InferredType) CanHaveMember(symbols *Symbols, name source.StringID) bool {
	if !t.known {
		return true
	}
	if t.Tag != TagInstance {
		return true
	}
	if t.Class == NoSymbolID {
		return true
	}
	class := symbols.Get(t.Class)
	if class == nil || class.Kind != SymClass {
		return true
	}
	id, known := class.Class.ResolveMember(symbols, name)
	if !known {
		return true
	}
	return id.IsValid()
}

// IsIdentityComparableWith reports whether two values of these inferred
// types could plausibly be the same object (`is` comparison). Conservative:
// true whenever either side is Any, or both known sides name the same tag;
// two known-distinct tags can never be identical.
func (t InferredType) IsIdentityComparableWith(other InferredType) bool {
	if !t.known || !other.known {
		return true
	}
	return t.Tag == other.Tag
}

// literalTag maps an expression's literal kind to its builtin tag, for C6's
// leaf case. e carries the payload literalTag needs beyond Kind alone (the
// int/float distinction on ExprNumber); it may be nil for any other kind.
func literalTag(kind pytree.ExprKind, e *pytree.Expr) (BuiltinTag, bool) {
	switch kind {
	case pytree.ExprNumber:
		if e != nil && e.IsFloat {
			return TagFloat, true
		}
		return TagInt, true
	case pytree.ExprString:
		return TagStr, true
	case pytree.ExprBytes:
		return TagBytes, true
	case pytree.ExprBool:
		return TagBool, true
	case pytree.ExprNone:
		return TagNone, true
	case pytree.ExprList, pytree.ExprListComp:
		return TagList, true
	case pytree.ExprSet, pytree.ExprSetComp:
		return TagSet, true
	case pytree.ExprDict, pytree.ExprDictComp:
		return TagDict, true
	case pytree.ExprTuple:
		return TagTuple, true
	default:
		return TagUnknown, false
	}
}
