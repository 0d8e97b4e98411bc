package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Парсерные
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynUnclosedParen    Code = 2006
	SynUnclosedBrace    Code = 2007
	SynUnclosedBracket  Code = 2008
	SynExpectSemicolon  Code = 2012
	SynUnknownAttribute Code = 2016
	SynAttrExpectFn     Code = 2017

	// items & imports
	SynUnexpectedTopLevel Code = 2101
	SynExpectIdentifier   Code = 2102
	SynExpectModuleSeg    Code = 2103

	// types & generics
	SynInfoTypeExpr         Code = 2200
	SynExpectRightBracket   Code = 2201
	SynExpectType           Code = 2202
	SynExpectExpression     Code = 2203
	SynExpectColon          Code = 2204
	SynExpectLength         Code = 2205
	SynExpectGenericParam   Code = 2206
	SynUnclosedAngle        Code = 2207
	SynLengthLiteralRange   Code = 2208
	SynGenericMissingType   Code = 2209
	SynGenericForbiddenType Code = 2210

	// Семантические
	SemaInfo                  Code = 3000
	SemaError                 Code = 3001
	SemaDuplicateSymbol       Code = 3002
	SemaUnresolvedSymbol      Code = 3005
	SemaUnknownType           Code = 3006
	SemaLowLevelOutsideStd    Code = 3007
	SemaMissingBody           Code = 3008
	SemaTypeMismatch          Code = 3010
	SemaTypeAnnotationsNeeded Code = 3011
	SemaTurbofishCount        Code = 3012
	SemaArgumentCount         Code = 3013
	SemaUnresolvedImport      Code = 3014
	SemaLengthOutOfRange      Code = 3015

	// I/O
	IOLoadFileError Code = 4001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynUnclosedBracket:          "Unclosed bracket",
		SynExpectSemicolon:          "Expect semicolon",
		SynUnknownAttribute:         "Unknown attribute",
		SynAttrExpectFn:             "Attribute must precede a function",
		SynUnexpectedTopLevel:       "Expected an item",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectModuleSeg:          "Expected module path segment",
		SynInfoTypeExpr:             "Type expression information",
		SynExpectRightBracket:       "Expected right bracket",
		SynExpectType:               "Expected type",
		SynExpectExpression:         "Expected expression",
		SynExpectColon:              "Expected colon",
		SynExpectLength:             "Expected array length",
		SynExpectGenericParam:       "Expected generic parameter",
		SynUnclosedAngle:            "Unclosed angle bracket",
		SynLengthLiteralRange:       "Array length out of range",
		SynGenericMissingType:       "Missing type for numeric generic",
		SynGenericForbiddenType:     "Forbidden numeric generic type",
		SemaInfo:                    "Semantic information",
		SemaError:                   "Semantic error",
		SemaDuplicateSymbol:         "Duplicate symbol",
		SemaUnresolvedSymbol:        "Unresolved symbol",
		SemaUnknownType:             "Unknown type",
		SemaLowLevelOutsideStd:      "Low-level function outside of standard library",
		SemaMissingBody:             "Function has no body",
		SemaTypeMismatch:            "Type mismatch",
		SemaTypeAnnotationsNeeded:   "Type annotations needed",
		SemaTurbofishCount:          "Incorrect number of explicit generics",
		SemaArgumentCount:           "Incorrect number of arguments",
		SemaUnresolvedImport:        "Unresolved import",
		SemaLengthOutOfRange:        "Length value out of range",
		IOLoadFileError:             "I/O load file error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
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
