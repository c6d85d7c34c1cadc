package jsonval

import (
	"fmt"
	"strconv"
	"strings"
)

// Encode renders v as canonical JSON: compact separators, object keys in
// insertion order, matching spec §3's determinism requirement.
func Encode(v Value) string {
	var sb strings.Builder
	encodeInto(&sb, v)
	return sb.String()
}

func encodeInto(sb *strings.Builder, v Value) {
	switch v.Kind() {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.AsBool() {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		sb.WriteString(formatNumber(v.AsNumber()))
	case KindString:
		encodeString(sb, v.AsString())
	case KindArray:
		sb.WriteByte('[')
		for i, item := range v.AsArray() {
			if i > 0 {
				sb.WriteByte(',')
			}
			encodeInto(sb, item)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		first := true
		obj := v.AsObject()
		if obj != nil {
			for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
				if !first {
					sb.WriteByte(',')
				}
				first = false
				encodeString(sb, pair.Key)
				sb.WriteByte(':')
				encodeInto(sb, pair.Value)
			}
		}
		sb.WriteByte('}')
	}
}

// formatNumber renders the canonical decimal form used both for JSON output
// and RJS's toString(number): integral values print without a fraction.
func formatNumber(f float64) string {
	if f == float64(int64(f)) && !isNegZero(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func isNegZero(f float64) bool {
	return f == 0 && strconv.FormatFloat(f, 'g', -1, 64) == "-0"
}

func encodeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}

// Pointer builds an RFC-6901-ish JSON pointer from path segments, used to
// attribute ConfigLoadError/RouteBuildError to a location in the source tree.
func Pointer(segments ...string) string {
	if len(segments) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(s))
	}
	return sb.String()
}

// PointerIndex appends an array index segment, e.g. Pointer("resources") + "/3".
func PointerIndex(base string, idx int) string {
	return base + "/" + fmt.Sprintf("%d", idx)
}
