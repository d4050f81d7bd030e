package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические, приходят от внешнего лексера
	LexError Code = 1001

	// Синтаксические, приходят от внешнего парсера
	ParseError Code = 2001

	// Семантические
	SemaDuplicateDefinition             Code = 3001
	SemaMissingDeclaration              Code = 3002
	SemaRecursiveTypeWithoutIndirection Code = 3003
	SemaTypeMismatch                    Code = 3004
	SemaArgumentCountMismatch           Code = 3005
	SemaInvalidCallee                   Code = 3006
	SemaUnsafeOperationOutsideContext   Code = 3007
	SemaCannotInferType                 Code = 3008
	SemaNonConstantInitializer          Code = 3009
	SemaUnknownField                    Code = 3010
	SemaShadowedBinding                 Code = 3011
	SemaReferenceReturn                 Code = 3012

	// Ошибки I/O и загрузки пакета
	IOLoadModuleError   Code = 4001
	IODuplicateModule   Code = 4002
	IODecodeModuleError Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode:                         "Unknown error",
	LexError:                            "Lexical error",
	ParseError:                          "Syntax error",
	SemaDuplicateDefinition:             "Duplicate definition",
	SemaMissingDeclaration:              "Missing declaration",
	SemaRecursiveTypeWithoutIndirection: "Recursive type without indirection",
	SemaTypeMismatch:                    "Type mismatch",
	SemaArgumentCountMismatch:           "Argument count mismatch",
	SemaInvalidCallee:                   "Invalid callee",
	SemaUnsafeOperationOutsideContext:   "Unsafe operation outside unsafe context",
	SemaCannotInferType:                 "Cannot infer type",
	SemaNonConstantInitializer:          "Constant initializer is not a compile-time value",
	SemaUnknownField:                    "Unknown field",
	SemaShadowedBinding:                 "Binding shadows an outer binding",
	SemaReferenceReturn:                 "Reference returned from a function",
	IOLoadModuleError:                   "Cannot load module",
	IODuplicateModule:                   "Duplicate module qualifier",
	IODecodeModuleError:                 "Cannot decode module",
}

// ID returns the stable short identifier, e.g. SEM3004.
func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// DuplicateKind names the declaration class that was redefined.
type DuplicateKind uint8

const (
	DuplicateParameter DuplicateKind = iota
	DuplicateBinding
	DuplicateFunction
	DuplicateForeignFunction
	DuplicateForeignVariable
	DuplicateTypeDef
	DuplicateConstant
)

func (k DuplicateKind) String() string {
	switch k {
	case DuplicateParameter:
		return "parameter"
	case DuplicateBinding:
		return "binding"
	case DuplicateFunction:
		return "function"
	case DuplicateForeignFunction:
		return "foreign-function"
	case DuplicateForeignVariable:
		return "foreign-variable"
	case DuplicateTypeDef:
		return "type"
	case DuplicateConstant:
		return "constant"
	}
	return "unknown"
}

// CalleeKind distinguishes a named callee from a computed one.
type CalleeKind uint8

const (
	CalleeDirect CalleeKind = iota
	CalleeIndirect
)

func (k CalleeKind) String() string {
	if k == CalleeDirect {
		return "direct"
	}
	return "indirect"
}
