package types

import (
	"strconv"
	"strings"
)

// Label returns a user-friendly label for a TypeID.
func Label(in *Interner, id TypeID) string {
	return LabelWith(in, id, nil)
}

// LabelWith renders id after mapping every type through resolve, which lets
// inference print variables by what they are currently bound to.
func LabelWith(in *Interner, id TypeID, resolve func(TypeID) TypeID) string {
	var sb strings.Builder
	writeLabel(&sb, in, id, resolve, 0)
	return sb.String()
}

func writeLabel(sb *strings.Builder, in *Interner, id TypeID, resolve func(TypeID) TypeID, depth int) {
	if resolve != nil {
		id = resolve(id)
	}
	if id == NoTypeID || in == nil {
		sb.WriteString("?")
		return
	}
	if depth > 8 {
		sb.WriteString("...")
		return
	}
	tt, ok := in.Lookup(id)
	if !ok {
		sb.WriteString("?")
		return
	}
	list := func(ids []TypeID, sep string) {
		for i, e := range ids {
			if i > 0 {
				sb.WriteString(sep)
			}
			writeLabel(sb, in, e, resolve, depth+1)
		}
	}
	switch tt.Kind {
	case KindUnit:
		sb.WriteString("()")
	case KindBool:
		sb.WriteString("bool")
	case KindChar:
		sb.WriteString("char")
	case KindString:
		sb.WriteString("str")
	case KindInt:
		sb.WriteString("i" + strconv.Itoa(int(tt.Width)))
	case KindUint:
		sb.WriteString("u" + strconv.Itoa(int(tt.Width)))
	case KindFloat:
		sb.WriteString("f" + strconv.Itoa(int(tt.Width)))
	case KindPointer:
		sb.WriteString("*")
		writeLabel(sb, in, tt.Elem, resolve, depth+1)
	case KindReference:
		sb.WriteString("&")
		writeLabel(sb, in, tt.Elem, resolve, depth+1)
	case KindTuple:
		elems, _ := in.TupleElems(id)
		sb.WriteString("(")
		list(elems, ", ")
		if len(elems) == 1 {
			sb.WriteString(",")
		}
		sb.WriteString(")")
	case KindObject:
		fields, _ := in.ObjectFields(id)
		sb.WriteString("{")
		for i, f := range fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			writeLabel(sb, in, f.Type, resolve, depth+1)
		}
		sb.WriteString("}")
	case KindUnion:
		alts, _ := in.UnionAlts(id)
		list(alts, " | ")
	case KindFn:
		info, _ := in.FnInfo(id)
		sb.WriteString("fn(")
		list(info.Params, ", ")
		sb.WriteString(") -> ")
		writeLabel(sb, in, info.Result, resolve, depth+1)
	case KindNamed:
		_, name, _ := in.NamedSymbol(id)
		sb.WriteString(name)
	case KindVar:
		sb.WriteString("?T")
		sb.WriteString(strconv.FormatUint(uint64(tt.Payload), 10))
	default:
		sb.WriteString("?")
	}
}
