package usecase

import (
	"strconv"
	"strings"
	"unicode"

	"faqbot/internal/domain"
)

// ResolveFollowUp interprets input as a reply to the suggestions pending in
// state. A numeric reply selects by 1-based position; otherwise the first
// pending question containing the input (case-insensitive) wins. Decimal
// digits from any script count, so a full-width "２" selects the second
// suggestion. On a match the answer is returned and state is cleared;
// otherwise state is untouched.
func ResolveFollowUp(input string, state *domain.ConversationState) (string, bool) {
	if state == nil || !state.Awaiting() {
		return "", false
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", false
	}

	if digits, ok := asciiDigits(trimmed); ok {
		// Out-of-range or overflowing numbers fall through to text matching.
		if n, err := strconv.Atoi(digits); err == nil && n >= 1 && n <= len(state.Pending) {
			answer := state.Pending[n-1].Answer
			state.Clear()
			return answer, true
		}
	}

	needle := strings.ToLower(trimmed)
	for _, s := range state.Pending {
		if strings.Contains(strings.ToLower(s.Question), needle) {
			state.Clear()
			return s.Answer, true
		}
	}

	return "", false
}

// asciiDigits rewrites s as ASCII digits if every rune is a decimal digit.
func asciiDigits(s string) (string, bool) {
	var sb strings.Builder
	for _, r := range s {
		v, ok := digitValue(r)
		if !ok {
			return "", false
		}
		sb.WriteByte(byte('0' + v))
	}
	return sb.String(), sb.Len() > 0
}

// digitValue returns the value of a Unicode decimal digit. Decimal digits are
// encoded as contiguous runs of ten starting at zero, so the offset into the
// enclosing Nd range gives the value.
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if !unicode.IsDigit(r) {
		return 0, false
	}
	for _, rg := range unicode.Nd.R16 {
		if r <= 0xFFFF && uint16(r) >= rg.Lo && uint16(r) <= rg.Hi {
			return int(uint16(r)-rg.Lo) % 10, true
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if uint32(r) >= rg.Lo && uint32(r) <= rg.Hi {
			return int(uint32(r)-rg.Lo) % 10, true
		}
	}
	return 0, false
}
