package service

import "strconv"

// formatVND renders an amount the way vi-VN locale does: dot-separated
// thousands with a VNĐ suffix, e.g. 100000 -> "100.000 VNĐ".
func formatVND(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}
	if negative {
		return "-" + string(out) + " VNĐ"
	}
	return string(out) + " VNĐ"
}
