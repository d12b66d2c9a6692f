package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002

	// Syntax
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynExpectSemicolon     Code = 2002
	SynExpectType          Code = 2003
	SynExpectIdentifier    Code = 2004
	SynUnclosedParen       Code = 2005
	SynUnclosedAngle       Code = 2006
	SynUnclosedBrace       Code = 2007
	SynDuplicateQualifier  Code = 2008
	SynConflictingRef      Code = 2009
	SynVariadicMustBeLast  Code = 2010
	SynUnexpectedTopLevel  Code = 2011
	SynExpectMemberPointer Code = 2012

	// Semantic
	SemaInfo                    Code = 3000
	SemaUnresolvedType          Code = 3001
	SemaUnknownTemplate         Code = 3002
	SemaDuplicateDecl           Code = 3003
	SemaDuplicateMember         Code = 3004
	SemaDuplicateCallOperator   Code = 3005
	SemaIndirectReference       Code = 3006
	SemaInvalidVoid             Code = 3007
	SemaFunctionReturnsFunction Code = 3008
	SemaMisplacedCV             Code = 3009
	SemaNotAClass               Code = 3010
	SemaNotInvocable            Code = 3011

	// IO
	IOLoadFileError Code = 4000

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedBlockComment: "Unterminated block comment",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynExpectSemicolon:          "Expected ';'",
		SynExpectType:               "Expected type",
		SynExpectIdentifier:         "Expected identifier",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedAngle:            "Unclosed angle bracket",
		SynUnclosedBrace:            "Unclosed brace",
		SynDuplicateQualifier:       "Duplicate qualifier",
		SynConflictingRef:           "Conflicting reference qualifiers",
		SynVariadicMustBeLast:       "'...' must be the last parameter",
		SynUnexpectedTopLevel:       "Unexpected top-level token",
		SynExpectMemberPointer:      "Expected '::*'",
		SemaInfo:                    "Semantic information",
		SemaUnresolvedType:          "Unresolved type name",
		SemaUnknownTemplate:         "Unknown template",
		SemaDuplicateDecl:           "Duplicate declaration",
		SemaDuplicateMember:         "Duplicate member",
		SemaDuplicateCallOperator:   "Duplicate call operator",
		SemaIndirectReference:       "Pointer or reference to reference",
		SemaInvalidVoid:             "Invalid use of void",
		SemaFunctionReturnsFunction: "Function returning function",
		SemaMisplacedCV:             "cv-qualifier on function or reference type",
		SemaNotAClass:               "Member pointer into non-class type",
		SemaNotInvocable:            "Type is not invocable",
		IOLoadFileError:             "I/O load file error",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
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
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
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
