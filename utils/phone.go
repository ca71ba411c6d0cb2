package utils

// NormalizePhoneNumber strips everything from a phone number except digits and
// a single leading '+'. Returns the empty string when nothing usable remains.
func NormalizePhoneNumber(phone string) string {
	out := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		ch := phone[i]
		switch {
		case ch >= '0' && ch <= '9':
			out = append(out, ch)
		case ch == '+' && len(out) == 0:
			out = append(out, ch)
		}
	}
	if len(out) == 0 || (len(out) == 1 && out[0] == '+') {
		return ""
	}
	return string(out)
}
