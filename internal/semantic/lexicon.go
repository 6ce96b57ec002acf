package semantic

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Meaning is the lexical classification of a character string.
type Meaning struct {
	Type Type
	Role Role
	Font Font
}

var symbolMeanings = map[string]Meaning{}

func addSymbols(t Type, r Role, chars ...string) {
	for _, c := range chars {
		symbolMeanings[c] = Meaning{Type: t, Role: r, Font: FontNormal}
	}
}

func init() {
	addSymbols(TypeFence, RoleOpen, "(", "[", "{", "⟨", "⌈", "⌊", "⦃", "⟦", "⦅", "〈", "﹛", "｛", "⁅", "❲", "⟮", "⌜", "⌞", "（", "［")
	addSymbols(TypeFence, RoleClose, ")", "]", "}", "⟩", "⌉", "⌋", "⦄", "⟧", "⦆", "〉", "﹜", "｝", "⁆", "❳", "⟯", "⌝", "⌟", "）", "］")
	addSymbols(TypeFence, RoleNeutral, "|", "‖", "¦", "⦀", "∣", "∥", "⏐", "｜")

	addSymbols(TypePunctuation, RoleComma, ",", "،", "，", "﹐")
	addSymbols(TypePunctuation, RoleSemicolon, ";", "；", "﹔")
	addSymbols(TypePunctuation, RoleColon, ":", "：", "﹕")
	addSymbols(TypePunctuation, RoleFullstop, ".", "．", "﹒")
	addSymbols(TypePunctuation, RoleEllipsis, "…", "⋯", "⋮", "⋰", "⋱", "...")
	addSymbols(TypePunctuation, RolePrime, "′", "″", "‴", "'", "⁗", "‵")
	addSymbols(TypePunctuation, RoleDummy, InvisibleComma)

	addSymbols(TypeOperator, RoleAddition, "+", "±", "∓", "⊕", "∔", "⊞", InvisiblePlus)
	addSymbols(TypeOperator, RoleSubtraction, "-", "−", "∖", "⊖", "⊟", "‐")
	addSymbols(TypeOperator, RoleMultiplication, "*", "×", "·", "⋅", "∗", "⊗", "∘", "⊙", "⊠", "•", InvisibleTimes)
	addSymbols(TypeOperator, RoleDivision, "/", "÷", "∕", "⁄", "⊘")
	addSymbols(TypeOperator, RoleApplication, FunctionApplication)
	addSymbols(TypeOperator, RoleUnknown, "^", "ˆ", "ˇ", "˘", "˙", "¨", "˜", "¯", "‾", "_", "⏞", "⏟", "⎴", "⎵", "!", "∂", "∇", "¬")

	addSymbols(TypeLargeOp, RoleSum, "∑", "∏", "∐", "⨁", "⨂", "⨀", "⋃", "⋂", "⋁", "⋀", "⨄", "⨆")
	addSymbols(TypeLargeOp, RoleIntegral, "∫", "∬", "∭", "∮", "∯", "∰", "∱", "∲", "∳", "⨌")

	addSymbols(TypeRelation, RoleEquality, "=", "~", "≁", "≃", "≄", "≅", "≆", "≇", "≈", "≉", "≊", "≋", "≍", "≐", "≑", "≒", "≓", "≔", "≕", "≗", "≜", "≝", "≟", "≡", "≢", "∼", "≘", "≙")
	addSymbols(TypeRelation, RoleInequality, "<", ">", "≤", "≥", "≦", "≧", "≪", "≫", "≠", "≮", "≯", "≰", "≱", "⩽", "⩾", "≺", "≻", "≼", "≽", "⪯", "⪰")
	addSymbols(TypeRelation, RoleElement, "∈", "∉", "∋", "∌", "∊", "∍")
	addSymbols(TypeRelation, RoleSet, "⊂", "⊃", "⊆", "⊇", "⊄", "⊅", "⊈", "⊉", "⊊", "⊋", "⊏", "⊐", "⊑", "⊒")
	addSymbols(TypeRelation, RoleArrow, "→", "←", "↔", "⇒", "⇐", "⇔", "↦", "⟶", "⟵", "⟷", "⟹", "⟸", "⟺", "↑", "↓", "⇑", "⇓", "↗", "↘", "↖", "↙", "⟼", "↪", "↩", "⇀", "⇁", "⇌")
}

var limitFunctions = map[string]bool{
	"lim": true, "liminf": true, "limsup": true, "lim inf": true, "lim sup": true,
	"max": true, "min": true, "sup": true, "inf": true, "injlim": true, "projlim": true,
}

var prefixFunctions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"sinh": true, "cosh": true, "tanh": true, "coth": true, "sech": true, "csch": true,
	"arcsin": true, "arccos": true, "arctan": true, "arccot": true, "arcsec": true, "arccsc": true,
	"arsinh": true, "arcosh": true, "artanh": true, "arcoth": true,
	"log": true, "ln": true, "lg": true, "exp": true, "expt": true,
	"det": true, "dim": true, "ker": true, "hom": true, "arg": true, "deg": true,
	"gcd": true, "lcm": true, "Pr": true, "tr": true, "Tr": true, "rank": true, "sgn": true,
}

var numberSets = map[string]bool{"N": true, "Z": true, "Q": true, "R": true, "C": true, "P": true, "H": true}

var vulgarFractions = "¼½¾⅐⅑⅒⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞↉"

// Fold applies compatibility normalization so styled math alphanumerics
// classify like their plain counterparts.
func Fold(s string) string {
	return norm.NFKC.String(s)
}

// Lookup classifies a character string independently of its source tag.
// Unknown strings yield TypeUnknown.
func Lookup(s string) Meaning {
	if m, ok := symbolMeanings[s]; ok {
		return m
	}
	font := FontOf(s)
	folded := Fold(s)
	if m, ok := symbolMeanings[folded]; ok && folded != s {
		m.Font = font
		return m
	}
	if limitFunctions[folded] {
		return Meaning{Type: TypeFunction, Role: RoleLimFunc, Font: font}
	}
	if prefixFunctions[folded] {
		return Meaning{Type: TypeFunction, Role: RolePrefixFunc, Font: font}
	}
	if role, ok := numberRole(folded, s); ok {
		return Meaning{Type: TypeNumber, Role: role, Font: font}
	}
	if folded == "∞" {
		return Meaning{Type: TypeIdentifier, Role: RoleInfinity, Font: font}
	}
	if utf8.RuneCountInString(folded) == 1 {
		r, _ := utf8.DecodeRuneInString(folded)
		if role := letterRole(r); role != RoleNone {
			if font == FontDoubleStruck && numberSets[folded] {
				role = RoleNumberSet
			}
			return Meaning{Type: TypeIdentifier, Role: role, Font: font}
		}
	}
	return Meaning{Type: TypeUnknown, Role: RoleUnknown, Font: font}
}

func letterRole(r rune) Role {
	switch {
	case r < unicode.MaxASCII && unicode.IsLetter(r):
		return RoleLatinLetter
	case unicode.Is(unicode.Greek, r) && unicode.IsLetter(r):
		return RoleGreekLetter
	case unicode.IsLetter(r):
		return RoleOtherLetter
	}
	return RoleNone
}

func numberRole(folded, raw string) (Role, bool) {
	if utf8.RuneCountInString(raw) == 1 && strings.ContainsAny(raw, vulgarFractions) {
		return RoleVulgar, true
	}
	if folded == "" {
		return RoleNone, false
	}
	digits, seps := 0, 0
	for _, r := range folded {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',':
			seps++
		default:
			return RoleNone, false
		}
	}
	switch {
	case digits == 0:
		return RoleNone, false
	case seps == 0:
		return RoleInteger, true
	case seps == 1:
		return RoleFloat, true
	}
	return RoleOtherNumber, true
}

// IsLetter reports whether s is a single letter in any script or style.
func IsLetter(s string) bool {
	folded := Fold(s)
	if utf8.RuneCountInString(folded) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(folded)
	return unicode.IsLetter(r)
}

// IsCharacterD reports whether s is one of the styled forms of the
// differential d.
func IsCharacterD(s string) bool {
	return utf8.RuneCountInString(s) == 1 && Fold(s) == "d"
}

type fontRange struct {
	lo, hi rune
	font   Font
}

var mathAlphanumerics = []fontRange{
	{0x1D400, 0x1D433, FontBold},
	{0x1D434, 0x1D467, FontItalic},
	{0x1D468, 0x1D49B, FontBoldItalic},
	{0x1D49C, 0x1D4CF, FontScript},
	{0x1D4D0, 0x1D503, FontBoldScript},
	{0x1D504, 0x1D537, FontFraktur},
	{0x1D538, 0x1D56B, FontDoubleStruck},
	{0x1D56C, 0x1D59F, FontBoldFraktur},
	{0x1D5A0, 0x1D5D3, FontSansSerif},
	{0x1D5D4, 0x1D607, FontSansSerifBold},
	{0x1D608, 0x1D63B, FontSansSerifItalic},
	{0x1D63C, 0x1D66F, FontSansSerifBoldItalic},
	{0x1D670, 0x1D6A3, FontMonospace},
	{0x1D6A8, 0x1D6E1, FontBold},
	{0x1D6E2, 0x1D71B, FontItalic},
	{0x1D71C, 0x1D755, FontBoldItalic},
	{0x1D756, 0x1D78F, FontSansSerifBold},
	{0x1D790, 0x1D7C9, FontSansSerifBoldItalic},
	{0x1D7CE, 0x1D7D7, FontBold},
	{0x1D7D8, 0x1D7E1, FontDoubleStruck},
	{0x1D7E2, 0x1D7EB, FontSansSerif},
	{0x1D7EC, 0x1D7F5, FontSansSerifBold},
	{0x1D7F6, 0x1D7FF, FontMonospace},
}

var letterlikeFonts = map[rune]Font{
	'ℕ': FontDoubleStruck, 'ℤ': FontDoubleStruck, 'ℚ': FontDoubleStruck,
	'ℝ': FontDoubleStruck, 'ℂ': FontDoubleStruck, 'ℙ': FontDoubleStruck, 'ℍ': FontDoubleStruck,
	'ℬ': FontScript, 'ℰ': FontScript, 'ℱ': FontScript, 'ℋ': FontScript, 'ℐ': FontScript,
	'ℒ': FontScript, 'ℳ': FontScript, 'ℛ': FontScript, 'ℯ': FontScript, 'ℊ': FontScript, 'ℴ': FontScript,
	'ℭ': FontFraktur, 'ℌ': FontFraktur, 'ℑ': FontFraktur, 'ℜ': FontFraktur, 'ℨ': FontFraktur,
	'ℎ': FontItalic,
}

// FontOf derives the font carried by the code points of s. Strings mixing
// styles, or with no styled code points, are normal.
func FontOf(s string) Font {
	font := FontNone
	for _, r := range s {
		f := runeFont(r)
		if font == FontNone {
			font = f
			continue
		}
		if f != font {
			return FontNormal
		}
	}
	if font == FontNone {
		return FontNormal
	}
	return font
}

func runeFont(r rune) Font {
	if f, ok := letterlikeFonts[r]; ok {
		return f
	}
	for _, fr := range mathAlphanumerics {
		if r >= fr.lo && r <= fr.hi {
			return fr.font
		}
	}
	return FontNormal
}

// IsNumberSet reports whether s names a standard number set when set in
// double-struck type.
func IsNumberSet(s string) bool {
	return numberSets[Fold(s)]
}
