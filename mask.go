package veil

// Transformer applies a deterministic privacy transformation to a single
// value. Implementations must be safe for concurrent use.
type Transformer interface {
	// Transform transforms one value. Most strategies return the string
	// form of the result; Keep returns the value unchanged.
	Transform(value any) any
}

// maskTransformer replaces characters with a mask character, keeping the
// designated positions visible.
type maskTransformer struct {
	keep     []int
	maskChar rune
}

// NewMaskTransformer returns a masking transformer. keepPositions lists
// character positions that retain their original character; negative
// positions index from the end (-1 is the last character). With no keep
// positions the entire value is masked. Positions outside range are
// ignored.
func NewMaskTransformer(keepPositions []int, maskChar rune) Transformer {
	if maskChar == 0 {
		maskChar = '*'
	}
	return &maskTransformer{
		keep:     append([]int(nil), keepPositions...),
		maskChar: maskChar,
	}
}

func (m *maskTransformer) Transform(value any) any {
	s := valueString(value)
	if s == "" {
		return ""
	}

	runes := []rune(s)
	masked := make([]rune, len(runes))
	for i := range masked {
		masked[i] = m.maskChar
	}

	for _, pos := range m.keep {
		if pos < 0 {
			pos += len(runes)
		}
		if pos >= 0 && pos < len(runes) {
			masked[pos] = runes[pos]
		}
	}

	return string(masked)
}
