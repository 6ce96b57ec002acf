package mathml

import "strings"

// Tag is the closed set of element names the forward builder dispatches on.
type Tag int

const (
	TagUnknown Tag = iota
	TagText        // text pseudo-element
	TagMath
	TagMrow
	TagMstyle
	TagMpadded
	TagMphantom
	TagMerror
	TagMaction
	TagSemantics
	TagAnnotation
	TagAnnotationXML
	TagMfrac
	TagMroot
	TagMsqrt
	TagMsub
	TagMsup
	TagMsubsup
	TagMunder
	TagMover
	TagMunderover
	TagMmultiscripts
	TagMprescripts
	TagNone
	TagMtable
	TagMtr
	TagMlabeledtr
	TagMtd
	TagMfenced
	TagMenclose
	TagMi
	TagMn
	TagMo
	TagMtext
	TagMs
	TagMspace
	TagMglyph
)

var tagByName = map[string]Tag{
	"":               TagText,
	"math":           TagMath,
	"mrow":           TagMrow,
	"mstyle":         TagMstyle,
	"mpadded":        TagMpadded,
	"mphantom":       TagMphantom,
	"merror":         TagMerror,
	"maction":        TagMaction,
	"semantics":      TagSemantics,
	"annotation":     TagAnnotation,
	"annotation-xml": TagAnnotationXML,
	"mfrac":          TagMfrac,
	"mroot":          TagMroot,
	"msqrt":          TagMsqrt,
	"msub":           TagMsub,
	"msup":           TagMsup,
	"msubsup":        TagMsubsup,
	"munder":         TagMunder,
	"mover":          TagMover,
	"munderover":     TagMunderover,
	"mmultiscripts":  TagMmultiscripts,
	"mprescripts":    TagMprescripts,
	"none":           TagNone,
	"mtable":         TagMtable,
	"mtr":            TagMtr,
	"mlabeledtr":     TagMlabeledtr,
	"mtd":            TagMtd,
	"mfenced":        TagMfenced,
	"menclose":       TagMenclose,
	"mi":             TagMi,
	"mn":             TagMn,
	"mo":             TagMo,
	"mtext":          TagMtext,
	"ms":             TagMs,
	"mspace":         TagMspace,
	"mglyph":         TagMglyph,
}

// LookupTag maps an element name, case-insensitively and ignoring any
// namespace prefix, to its Tag.
func LookupTag(name string) Tag {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	if t, ok := tagByName[strings.ToLower(name)]; ok {
		return t
	}
	return TagUnknown
}

// IsToken reports whether elements with this tag hold literal text.
func (t Tag) IsToken() bool {
	switch t {
	case TagMi, TagMn, TagMo, TagMtext, TagMs, TagMglyph:
		return true
	}
	return false
}
