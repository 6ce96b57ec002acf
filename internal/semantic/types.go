package semantic

// Type is the primary classification of a semantic node.
type Type int

const (
	TypeNone Type = iota // unset; used for the embellished field
	TypeIdentifier
	TypeNumber
	TypeOperator
	TypeRelation
	TypeFence
	TypePunctuation
	TypeLargeOp
	TypeFunction
	TypeText
	TypeEmpty
	TypeUnknown
	TypeAppl
	TypeFraction
	TypeRoot
	TypeSqrt
	TypeRelSeq
	TypeMultiRel
	TypeInfixOp
	TypePrefixOp
	TypePostfixOp
	TypeFenced
	TypeEnclose
	TypeTable
	TypeMultiline
	TypeMatrix
	TypeVector
	TypeCases
	TypeRow
	TypeLine
	TypeCell
	TypePunctuated
	TypeSubscript
	TypeSuperscript
	TypeSubsup // collapsed sub+superscript, annotation only
	TypeUnderscore
	TypeOverscore
	TypeUnderover // collapsed under+overscore, annotation only
	TypeLimLower
	TypeLimUpper
	TypeLimBoth
	TypeTensor
	TypeBigOp
	TypeIntegral
	TypeInference
	TypePremises
)

var typeNames = [...]string{
	TypeNone:        "",
	TypeIdentifier:  "identifier",
	TypeNumber:      "number",
	TypeOperator:    "operator",
	TypeRelation:    "relation",
	TypeFence:       "fence",
	TypePunctuation: "punctuation",
	TypeLargeOp:     "largeop",
	TypeFunction:    "function",
	TypeText:        "text",
	TypeEmpty:       "empty",
	TypeUnknown:     "unknown",
	TypeAppl:        "appl",
	TypeFraction:    "fraction",
	TypeRoot:        "root",
	TypeSqrt:        "sqrt",
	TypeRelSeq:      "relseq",
	TypeMultiRel:    "multirel",
	TypeInfixOp:     "infixop",
	TypePrefixOp:    "prefixop",
	TypePostfixOp:   "postfixop",
	TypeFenced:      "fenced",
	TypeEnclose:     "enclose",
	TypeTable:       "table",
	TypeMultiline:   "multiline",
	TypeMatrix:      "matrix",
	TypeVector:      "vector",
	TypeCases:       "cases",
	TypeRow:         "row",
	TypeLine:        "line",
	TypeCell:        "cell",
	TypePunctuated:  "punctuated",
	TypeSubscript:   "subscript",
	TypeSuperscript: "superscript",
	TypeSubsup:      "subsup",
	TypeUnderscore:  "underscore",
	TypeOverscore:   "overscore",
	TypeUnderover:   "underover",
	TypeLimLower:    "limlower",
	TypeLimUpper:    "limupper",
	TypeLimBoth:     "limboth",
	TypeTensor:      "tensor",
	TypeBigOp:       "bigop",
	TypeIntegral:    "integral",
	TypeInference:   "inference",
	TypePremises:    "premises",
}

var typeByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = Type(t)
	}
	return m
}()

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// ParseType maps an annotation value back to a Type.
// Unrecognized names yield TypeUnknown and false.
func ParseType(s string) (Type, bool) {
	t, ok := typeByName[s]
	if !ok {
		return TypeUnknown, false
	}
	return t, true
}

// Embellishable reports whether nodes of this type can be the core of an
// embellishment chain.
func (t Type) Embellishable() bool {
	switch t {
	case TypeOperator, TypeRelation, TypeFence, TypePunctuation:
		return true
	}
	return false
}

// Role refines a node's Type. The vocabulary is open: enclose notations
// and unprocessed tag names are carried as roles verbatim.
type Role string

const (
	RoleNone Role = ""

	// identifiers
	RoleLatinLetter Role = "latinletter"
	RoleGreekLetter Role = "greekletter"
	RoleOtherLetter Role = "otherletter"
	RoleNumberSet   Role = "numberset"
	RoleUnit        Role = "unit"
	RoleInfinity    Role = "infinity"
	RoleSimpleFunc  Role = "simplefunc"
	RolePrefixFunc  Role = "prefixfunc"
	RoleLimFunc     Role = "limfunc"
	RoleUnknown     Role = "unknown"

	// numbers
	RoleInteger     Role = "integer"
	RoleFloat       Role = "float"
	RoleOtherNumber Role = "othernumber"
	RoleVulgar      Role = "vulgar"
	RoleMixed       Role = "mixed"

	// fences
	RoleOpen      Role = "open"
	RoleClose     Role = "close"
	RoleNeutral   Role = "neutral"
	RoleLeftRight Role = "leftright"

	// punctuation
	RoleComma      Role = "comma"
	RoleSemicolon  Role = "semicolon"
	RoleColon      Role = "colon"
	RoleFullstop   Role = "fullstop"
	RoleEllipsis   Role = "ellipsis"
	RolePrime      Role = "prime"
	RoleDummy      Role = "dummy"
	RoleVBar       Role = "vbar"
	RoleOpenFence  Role = "openfence"
	RoleCloseFence Role = "closefence"

	// operators
	RoleAddition       Role = "addition"
	RoleSubtraction    Role = "subtraction"
	RoleMultiplication Role = "multiplication"
	RoleDivision       Role = "division"
	RoleApplication    Role = "application"
	RoleImplicit       Role = "implicit"
	RoleNegative       Role = "negative"
	RolePrefixOp       Role = "prefixop"
	RolePostfixOp      Role = "postfixop"
	RoleSum            Role = "sum"
	RoleIntegral       Role = "integral"

	// relations
	RoleEquality   Role = "equality"
	RoleInequality Role = "inequality"
	RoleElement    Role = "element"
	RoleSet        Role = "set"
	RoleArrow      Role = "arrow"

	// text
	RoleString Role = "string"
	RoleSpace  Role = "space"
	RoleText   Role = "text"

	// fractions and tables
	RoleBevelled     Role = "bevelled"
	RoleBinomial     Role = "binomial"
	RoleDeterminant  Role = "determinant"
	RoleSquareMatrix Role = "squarematrix"
	RoleRowVector    Role = "rowvector"
	RoleCases        Role = "cases"
	RoleTable        Role = "table"
	RoleMultiline    Role = "multiline"
	RoleLabel        Role = "label"

	// punctuated
	RoleStartPunct Role = "startpunct"
	RoleEndPunct   Role = "endpunct"
	RoleSequence   Role = "sequence"

	// sets
	RoleSetEmpty   Role = "setempty"
	RoleSetSingle  Role = "setsingle"
	RoleSetCollect Role = "setcollect"
	RoleSetExt     Role = "setext"

	// scripts
	RoleSubsup      Role = "subsup"
	RoleUnderover   Role = "underover"
	RoleLeftSub     Role = "leftsub"
	RoleLeftSuper   Role = "leftsuper"
	RoleRightSub    Role = "rightsub"
	RoleRightSuper  Role = "rightsuper"
	RoleOverAccent  Role = "overaccent"
	RoleUnderAccent Role = "underaccent"

	// proofs
	RoleDown       Role = "down"
	RoleUp         Role = "up"
	RoleLeft       Role = "left"
	RoleRight      Role = "right"
	RolePremises   Role = "premises"
	RoleConclusion Role = "conclusion"
)

func (r Role) String() string { return string(r) }

// Font is the typographic variant of a node.
type Font int

const (
	FontNone Font = iota
	FontNormal
	FontItalic
	FontBold
	FontBoldItalic
	FontDoubleStruck
	FontFraktur
	FontBoldFraktur
	FontScript
	FontBoldScript
	FontSansSerif
	FontSansSerifBold
	FontSansSerifItalic
	FontSansSerifBoldItalic
	FontMonospace
	FontUnknown
)

var fontNames = [...]string{
	FontNone:                "",
	FontNormal:              "normal",
	FontItalic:              "italic",
	FontBold:                "bold",
	FontBoldItalic:          "bold-italic",
	FontDoubleStruck:        "double-struck",
	FontFraktur:             "fraktur",
	FontBoldFraktur:         "bold-fraktur",
	FontScript:              "script",
	FontBoldScript:          "bold-script",
	FontSansSerif:           "sans-serif",
	FontSansSerifBold:       "bold-sans-serif",
	FontSansSerifItalic:     "sans-serif-italic",
	FontSansSerifBoldItalic: "sans-serif-bold-italic",
	FontMonospace:           "monospace",
	FontUnknown:             "unknown",
}

var fontByName = func() map[string]Font {
	m := make(map[string]Font, len(fontNames))
	for f, name := range fontNames {
		m[name] = Font(f)
	}
	return m
}()

func (f Font) String() string {
	if f < 0 || int(f) >= len(fontNames) {
		return "unknown"
	}
	return fontNames[f]
}

// ParseFont accepts both annotation names and mathvariant attribute values,
// which share one vocabulary.
func ParseFont(s string) (Font, bool) {
	f, ok := fontByName[s]
	if !ok {
		return FontUnknown, false
	}
	return f, true
}
