package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                Code = 1000
	LexUnterminatedTag     Code = 1001
	LexUnterminatedHeader  Code = 1002
	LexUnterminatedString  Code = 1003
	LexUnterminatedComment Code = 1004
	LexDanglingEscape      Code = 1005

	// Парсерные
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynMissingHeader       Code = 2002
	SynBadTag              Code = 2003
	SynBadAnnotation       Code = 2004
	SynHeaderJSON          Code = 2005
	SynUnbalancedVariation Code = 2006
	SynAmbiguity           Code = 2007

	// Заголовок и онтология
	HdrInfo                      Code = 3000
	HdrMissingOntologyField      Code = 3001
	HdrMissingOntologyRoot       Code = 3002
	HdrDiscontinuousRoot         Code = 3003
	HdrUnexpectedKey             Code = 3004
	HdrMissingElementDescription Code = 3005
	HdrUnknownElementField       Code = 3006
	HdrInvalidAttributeFieldName Code = 3007
	HdrMissingAttributeDesc      Code = 3008
	HdrMissingAttributeDataType  Code = 3009
	HdrUnknownAttributeDataType  Code = 3010
	HdrUnknownAttributeField     Code = 3011
	HdrUsedUndefinedAttribute    Code = 3012
	HdrRuleError                 Code = 3013
	HdrExpectedObject            Code = 3014
	HdrExpectedArray             Code = 3015
	HdrUndefinedRoot             Code = 3016

	// Тело документа
	DocInfo                  Code = 4000
	DocUndefinedElement      Code = 4001
	DocUndefinedAttribute    Code = 4002
	DocUnexpectedRoot        Code = 4003
	DocNamespaceNotDefined   Code = 4004
	DocIllegalMilestone      Code = 4005
	DocNoAttributesOnResume  Code = 4006
	DocResumeWithoutSuspend  Code = 4007
	DocUnexpectedOpenTag     Code = 4008
	DocIllegalSuspend        Code = 4009
	DocUnexpectedCloseTag    Code = 4010
	DocMissingOpenTag        Code = 4011
	DocWrongDataType         Code = 4012
	DocMissingAttribute      Code = 4013
	DocUndefinedEntity       Code = 4014
	DocUnknownAnnotationType Code = 4015
	DocUnclosedMarkup        Code = 4016
	DocUnresumedMarkup       Code = 4017
	DocAmbiguousClose        Code = 4018

	// I/O
	IOLoadFileError Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                  "Unknown error",
		LexInfo:                      "Lexical information",
		LexUnterminatedTag:           "Unterminated markup tag",
		LexUnterminatedHeader:        "Unterminated header",
		LexUnterminatedString:        "Unterminated string",
		LexUnterminatedComment:       "Unterminated comment",
		LexDanglingEscape:            "Dangling escape",
		SynInfo:                      "Syntax information",
		SynUnexpectedToken:           "Unexpected token",
		SynMissingHeader:             "Missing header",
		SynBadTag:                    "Malformed tag",
		SynBadAnnotation:             "Malformed annotation",
		SynHeaderJSON:                "Malformed header",
		SynUnbalancedVariation:       "Unbalanced text variation",
		SynAmbiguity:                 "Ambiguous input",
		HdrInfo:                      "Header information",
		HdrMissingOntologyField:      "Missing :ontology field",
		HdrMissingOntologyRoot:       "Missing ontology root",
		HdrDiscontinuousRoot:         "Discontinuous root",
		HdrUnexpectedKey:             "Unexpected ontology key",
		HdrMissingElementDescription: "Missing element description",
		HdrUnknownElementField:       "Unknown element field",
		HdrInvalidAttributeFieldName: "Invalid attribute field name",
		HdrMissingAttributeDesc:      "Missing attribute description",
		HdrMissingAttributeDataType:  "Missing attribute dataType",
		HdrUnknownAttributeDataType:  "Unknown attribute dataType",
		HdrUnknownAttributeField:     "Unknown attribute field",
		HdrUsedUndefinedAttribute:    "Used undefined attribute",
		HdrRuleError:                 "Invalid ontology rule",
		HdrExpectedObject:            "Expected object",
		HdrExpectedArray:             "Expected array",
		HdrUndefinedRoot:             "Undefined root",
		DocInfo:                      "Document information",
		DocUndefinedElement:          "Undefined element",
		DocUndefinedAttribute:        "Undefined attribute",
		DocUnexpectedRoot:            "Unexpected root",
		DocNamespaceNotDefined:       "Namespace not defined",
		DocIllegalMilestone:          "Illegal milestone",
		DocNoAttributesOnResume:      "Attributes on resume tag",
		DocResumeWithoutSuspend:      "Resume without suspend",
		DocUnexpectedOpenTag:         "Unexpected opening tag",
		DocIllegalSuspend:            "Illegal suspend",
		DocUnexpectedCloseTag:        "Unexpected closing tag",
		DocMissingOpenTag:            "Missing opening tag",
		DocWrongDataType:             "Wrong dataType",
		DocMissingAttribute:          "Missing required attribute",
		DocUndefinedEntity:           "Undefined entity",
		DocUnknownAnnotationType:     "Unknown annotation type",
		DocUnclosedMarkup:            "Unclosed markup",
		DocUnresumedMarkup:           "Suspended markup never resumed",
		DocAmbiguousClose:            "Ambiguous closing tag",
		IOLoadFileError:              "I/O load file error",
	}

	// шаблоны сообщений; текст сообщений стабилен, на него завязаны тесты и пользователи
	codeTemplate = map[Code]string{
		LexUnterminatedTag:     "syntax error: unterminated markup tag",
		LexUnterminatedHeader:  `syntax error: unterminated header, expected "!]"`,
		LexUnterminatedString:  "syntax error: unterminated string literal",
		LexUnterminatedComment: `syntax error: unterminated comment, expected "!]"`,
		LexDanglingEscape:      "syntax error: dangling escape character at end of input",

		SynUnexpectedToken:     "syntax error: %s",
		SynMissingHeader:       "syntax error: document must start with a header [!{...}!]",
		SynBadTag:              "syntax error: %s",
		SynBadAnnotation:       "syntax error: %s",
		SynHeaderJSON:          "syntax error: %s",
		SynUnbalancedVariation: "syntax error: %s",
		SynAmbiguity:           "ambiguity: %s",

		HdrMissingOntologyField:      `Field ":ontology" missing in header.`,
		HdrMissingOntologyRoot:       `Field "root" missing in ontology header.`,
		HdrDiscontinuousRoot:         `Root element "%s" is not allowed to be discontinuous.`,
		HdrUnexpectedKey:             `Unexpected key %s`,
		HdrMissingElementDescription: `Element "%s" is missing a description.`,
		HdrUnknownElementField:       `Unknown element field "%s"`,
		HdrInvalidAttributeFieldName: `Invalid attribute field name %s`,
		HdrMissingAttributeDesc:      `Attribute "%s" is missing a description.`,
		HdrMissingAttributeDataType:  `Attribute "%s" is missing a dataType.`,
		HdrUnknownAttributeDataType:  `DataType "%s" for attribute "%s" is unknown. Valid dataTypes are: String, Boolean, Integer, IntegerList, StringList, ID, URI, Pointer, RichText, Object`,
		HdrUnknownAttributeField:     `Unknown attribute field "%s"`,
		HdrUsedUndefinedAttribute:    `Attribute "%s" is used on an elementDefinition, but has no valid definition in the ontology.`,
		HdrRuleError:                 `%s`,
		HdrExpectedObject:            `Value of "%s" must be an object.`,
		HdrExpectedArray:             `Value of "%s" must be an array.`,
		HdrUndefinedRoot:             `Root element "%s" is not defined in "elements".`,

		DocUndefinedElement:      `Element "%s" is not defined in the ontology.`,
		DocUndefinedAttribute:    `Attribute "%s" on element "%s" is not defined in the ontology.`,
		DocUnexpectedRoot:        `Root element "%s" does not match the one defined in the header: "%s"`,
		DocNamespaceNotDefined:   `Namespace "%s" has not been defined in the header.`,
		DocIllegalMilestone:      `Element "%s" does not have the "milestone" property in its definition.`,
		DocNoAttributesOnResume:  `Resume tag "%s" has attributes, this is not allowed`,
		DocResumeWithoutSuspend:  `Resume tag "%s" found without a corresponding suspended markup.`,
		DocUnexpectedOpenTag:     `Unexpected opening tag: found [%s> as child of [%s>, but expected %s.`,
		DocIllegalSuspend:        `Element %s may not be suspended: it has not been marked as discontinuous in the ontology.`,
		DocUnexpectedCloseTag:    `Unexpected closing tag: found %s, but expected <%s]`,
		DocMissingOpenTag:        `Closing tag "%s" found without corresponding open tag.`,
		DocWrongDataType:         `Attribute "%s" is defined as dataType %s, but is used as dataType %s`,
		DocMissingAttribute:      `Required attribute "%s" is missing on element "%s".`,
		DocUndefinedEntity:       `Entity "%s" has not been defined in the header.`,
		DocUnknownAnnotationType: `Cannot determine the type of this annotation: %s`,
		DocUnclosedMarkup:        `Markup [%s> in layer "%s" is never closed.`,
		DocUnresumedMarkup:       `Markup [%s> is suspended but never resumed.`,
		DocAmbiguousClose:        `ambiguity: closing tag %s matches open markup in layers %s`,

		IOLoadFileError: "failed to load file: %s",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("HDR%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("DOC%04d", ic)
	case ic >= 5000 && ic < 6000:
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

// Template returns the message template of the code, or its title when none is registered.
func (c Code) Template() string {
	if tpl, ok := codeTemplate[c]; ok {
		return tpl
	}
	return c.Title()
}

// Format renders the message of the code with args.
func (c Code) Format(args ...any) string {
	tpl := c.Template()
	if len(args) == 0 {
		return tpl
	}
	return fmt.Sprintf(tpl, args...)
}

// IsSyntax reports whether the code belongs to the lexer or the grammar.
func (c Code) IsSyntax() bool {
	return c >= 1000 && c < 3000 && c != SynAmbiguity
}
