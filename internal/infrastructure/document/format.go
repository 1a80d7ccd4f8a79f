package document

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var thaiMonths = [...]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// buddhistEraOffset converts a Gregorian year to the Thai solar calendar
const buddhistEraOffset = 543

// formatDate renders "15 มีนาคม 2567" or "15 March 2024"
func formatDate(t time.Time, thai bool) string {
	if thai {
		return fmt.Sprintf("%d %s %d", t.Day(), thaiMonths[t.Month()-1], t.Year()+buddhistEraOffset)
	}
	return t.Format("2 January 2006")
}

var amountPrinter = message.NewPrinter(language.Thai)

// formatAmount renders 1234.5 as "1,234.50"
func formatAmount(v float64) string {
	return amountPrinter.Sprintf("%.2f", v)
}

// formatDistance renders kilometres with two decimals
func formatDistance(km float64) string {
	return amountPrinter.Sprintf("%.2f", km)
}

// toLatin1 maps s onto Windows-1252 for the core PDF fonts, which cannot
// show other scripts. Unmappable runes become '?'.
func toLatin1(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}

// safeFileName strips characters that would break a download file name
func safeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '"' || r == '*' || r == '?' || r == '<' || r == '>' || r == '|':
			return '_'
		case unicode.IsControl(r):
			return -1
		case unicode.IsSpace(r):
			return '_'
		}
		return r
	}, name)
	if name == "" {
		return "Report"
	}
	return name
}

// fileName returns Travel_Claim_<claimant>.<ext>
func fileName(claimant, ext string) string {
	return "Travel_Claim_" + safeFileName(claimant) + "." + ext
}
