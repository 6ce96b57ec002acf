package aural

import (
	"encoding/xml"
	"fmt"
	"math"
	"strings"
)

// propertyOrder fixes the order of prosody properties in markup.
var propertyOrder = []string{Rate, Pitch, Volume}

// PlainRenderer joins descriptions with spaces. Pauses become commas.
type PlainRenderer struct{}

func (PlainRenderer) Markup(items []Item) string {
	var words []string
	for _, it := range items {
		switch v := it.(type) {
		case Description:
			if s := v.String(); s != "" {
				words = append(words, s)
			}
		case Pause:
			if n := len(words); n > 0 && !strings.HasSuffix(words[n-1], ",") {
				words[n-1] += ","
			}
		}
	}
	return strings.Join(words, " ")
}

// ACSSRenderer produces Emacspeak audio CSS s-expressions. Personality
// offsets in [-2, 2] are scaled to [0, 10].
type ACSSRenderer struct{}

func (ACSSRenderer) Markup(items []Item) string {
	var out []string
	var pending Pause
	spoken := false
	for _, it := range items {
		switch v := it.(type) {
		case Pause:
			if spoken {
				pending = max(pending, v)
			}
		case Description:
			s := v.String()
			if s == "" {
				continue
			}
			if pending > 0 {
				out = append(out, fmt.Sprintf("(pause . %d)", int(pending)))
				pending = 0
			}
			spoken = true
			str := `"` + s + `"`
			if pros := acssProsody(v.Personality); pros != "" {
				str = "(text (" + pros + ") " + str + ")"
			}
			out = append(out, str)
		}
	}
	return "(exp " + strings.Join(out, " ") + ")"
}

func acssProsody(pers map[string]float64) string {
	var parts []string
	for _, key := range propertyOrder {
		v, ok := pers[key]
		if !ok {
			continue
		}
		scaled := scale(v, -2, 2, 0, 10)
		switch key {
		case Rate:
			parts = append(parts, fmt.Sprintf("(richness . %d)", scaled))
		case Pitch:
			parts = append(parts, fmt.Sprintf("(average-pitch . %d)", scaled))
		case Volume:
			parts = append(parts, fmt.Sprintf("(stress . %d)", scaled))
		}
	}
	return strings.Join(parts, " ")
}

// scale maps v linearly from [a, b] onto [c, d], clamped and rounded.
func scale(v, a, b, c, d float64) int {
	v = min(max(v, a), b)
	return int(math.Round(c + (v-a)*(d-c)/(b-a)))
}

// SSMLRenderer produces a speak document with prosody and break elements.
// Personality offsets are rendered as percentages.
type SSMLRenderer struct{}

func (SSMLRenderer) Markup(items []Item) string {
	var b strings.Builder
	b.WriteString("<speak>")
	for _, it := range items {
		switch v := it.(type) {
		case Pause:
			fmt.Fprintf(&b, `<break time="%dms"/>`, int(v))
		case Description:
			s := v.String()
			if s == "" {
				continue
			}
			var text strings.Builder
			_ = xml.EscapeText(&text, []byte(s))
			attrs := ssmlProsody(v.Personality)
			if attrs == "" {
				b.WriteString(text.String())
			} else {
				b.WriteString("<prosody" + attrs + ">" + text.String() + "</prosody>")
			}
			b.WriteByte(' ')
		}
	}
	return strings.TrimSuffix(b.String(), " ") + "</speak>"
}

func ssmlProsody(pers map[string]float64) string {
	var b strings.Builder
	for _, key := range propertyOrder {
		v, ok := pers[key]
		if !ok || v == 0 {
			continue
		}
		fmt.Fprintf(&b, ` %s="%+d%%"`, key, int(math.Round(v*100)))
	}
	return b.String()
}
