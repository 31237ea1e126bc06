package receiptocr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// UPI apps render amounts cleanly, so parsing is far simpler than general
// receipt OCR: find currency-marked numbers, normalize Indian digit grouping
// (1,00,000.00), and convert to paise.

var (
	paiseRE = regexp.MustCompile(`[.]\d{2}$`)
	wsRE    = regexp.MustCompile(`\s+`)
	// amount patterns in rough priority order: labeled amounts first, then
	// bare currency-marked numbers.
	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:amount|paid|payment of|sent)[:\s]*(?:₹|Rs\.?|INR)\s*([0-9][0-9,]*(?:\.[0-9]{2})?)`),
		regexp.MustCompile(`(?:₹)\s*([0-9][0-9,]*(?:\.[0-9]{2})?)`),
		regexp.MustCompile(`(?i)\bRs\.?\s*([0-9][0-9,]*(?:\.[0-9]{2})?)`),
		regexp.MustCompile(`(?i)\bINR\s*([0-9][0-9,]*(?:\.[0-9]{2})?)`),
	}
)

// normalizeText flattens OCR output for matching: non-breaking spaces and
// runs of whitespace collapse to single spaces so the amount patterns can
// anchor across line breaks.
func normalizeText(text string) string {
	t := strings.ReplaceAll(text, " ", " ")
	t = wsRE.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// findAmountMatches returns currency-marked amount substrings in match
// order, deduplicated, with implausible candidates dropped.
func findAmountMatches(text string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, re := range amountPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			s := strings.TrimSpace(m[1])
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			if !isPlausibleAmount(s) {
				continue
			}
			out = append(out, s)
		}
	}
	return out
}

// isPlausibleAmount filters out digit runs that are UPI reference numbers
// (12 digits), phone numbers (10 digits) or other ids that slipped past the
// currency-marker anchoring.
func isPlausibleAmount(s string) bool {
	digits := onlyDigits(strings.TrimSuffix(s, paiseRE.FindString(s)))
	if digits == "" || strings.HasPrefix(digits, "0") {
		return false
	}
	// rupee part above 8 digits (> ₹99,999,999) is outside anything this
	// system collects; long unseparated runs are ids, not amounts
	if len(digits) > 8 {
		return false
	}
	if len(digits) >= 10 && !strings.Contains(s, ",") && !strings.Contains(s, ".") {
		return false
	}
	return true
}

// ParseAmountPaise converts a matched amount substring into paise. The
// fractional part must be exactly two digits to count as paise; otherwise
// the whole match is read as rupees. Indian grouping separators are ignored.
func ParseAmountPaise(found string) (int64, error) {
	s := strings.TrimSpace(found)
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	var rupeePart, paisePart string
	if paiseRE.MatchString(s) {
		dot := strings.LastIndex(s, ".")
		rupeePart, paisePart = s[:dot], s[dot+1:]
	} else {
		rupeePart, paisePart = s, "00"
	}
	digits := onlyDigits(rupeePart)
	if digits == "" {
		return 0, fmt.Errorf("no digits extracted from %q", found)
	}
	rupees, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", digits, err)
	}
	paise, err := strconv.ParseInt(paisePart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse paise %q: %w", paisePart, err)
	}
	return rupees*100 + paise, nil
}

// bestAmount picks the strongest candidate: labeled/grouped matches come
// first in pattern order, so the first parseable match wins.
func bestAmount(matches []string) (int64, string, bool) {
	for _, m := range matches {
		if amt, err := ParseAmountPaise(m); err == nil && amt > 0 {
			return amt, m, true
		}
	}
	return 0, "", false
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// snippet returns a shortened ASCII-only version of text for logging.
func snippet(s string, n int) string {
	var b strings.Builder
	for _, r := range s {
		if r < 32 || r > 126 {
			continue
		}
		b.WriteRune(r)
		if b.Len() >= n {
			break
		}
	}
	return b.String()
}
