package typesystem

// NumberKind classifies numeric literal text by lexical shape.
type NumberKind int

const (
	NumberInt NumberKind = iota
	NumberFloat
)

// ClassifyNumber reports whether text is a plain numeric literal and
// whether it is integral or fractional. An optional leading minus is
// allowed; at most one dot, and the dot must be followed by a digit.
func ClassifyNumber(text string) (NumberKind, bool) {
	runes := []rune(text)
	i := 0
	if i < len(runes) && runes[i] == '-' {
		i++
	}
	sawDigit := false
	sawDot := false
	for ; i < len(runes); i++ {
		ch := runes[i]
		if ch >= '0' && ch <= '9' {
			sawDigit = true
			continue
		}
		if ch == '.' && !sawDot {
			sawDot = true
			continue
		}
		return NumberInt, false
	}
	if !sawDigit {
		return NumberInt, false
	}
	if sawDot {
		last := runes[len(runes)-1]
		if last < '0' || last > '9' {
			return NumberInt, false
		}
		return NumberFloat, true
	}
	return NumberInt, true
}

// SplitSuffixedNumber splits a suffixed numeric literal like "5s" or
// "1.5kg" into its numeric part and suffix. Suffixes are alphanumeric
// (underscores allowed).
func SplitSuffixedNumber(text string) (number string, suffix string, kind NumberKind, ok bool) {
	runes := []rune(text)
	i := 0
	var num []rune
	if i < len(runes) && runes[i] == '-' {
		num = append(num, '-')
		i++
	}
	sawDigit := false
	sawDot := false
	for ; i < len(runes); i++ {
		ch := runes[i]
		if ch >= '0' && ch <= '9' {
			sawDigit = true
			num = append(num, ch)
			continue
		}
		if ch == '.' && !sawDot {
			sawDot = true
			num = append(num, ch)
			continue
		}
		break
	}
	if !sawDigit || i == len(runes) {
		return "", "", NumberInt, false
	}
	for _, ch := range runes[i:] {
		alnum := ch == '_' || (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
		if !alnum {
			return "", "", NumberInt, false
		}
	}
	kind = NumberInt
	if sawDot {
		kind = NumberFloat
	}
	return string(num), string(runes[i:]), kind, true
}
