package receiptocr

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// ExtractAmountPaise performs light preprocessing + Tesseract OCR on a UPI
// app screenshot and attempts to extract the paid amount in paise. The
// result is advisory: callers must never treat it as verification that the
// transfer happened.
func ExtractAmountPaise(path string) (int64, float64, string, error) {
	text, err := recognize(path)
	if err != nil {
		return 0, 0, "", err
	}
	text = normalizeText(text)
	log.Printf("receipt OCR %s snippet=%q", path, snippet(text, 160))

	matches := findAmountMatches(text)
	if len(matches) == 0 {
		return 0, 0, "", ErrNoAmount
	}
	amt, raw, ok := bestAmount(matches)
	if !ok {
		return 0, 0, "", ErrNoAmount
	}
	// Confidence proxy: currency-marked, decimal-trailing matches from a UPI
	// screenshot are near-certain; bare numbers much less so.
	conf := 0.5
	if strings.Contains(text, "₹") || strings.Contains(strings.ToLower(text), "inr") {
		conf = 0.85
	}
	if paiseRE.MatchString(raw) {
		conf += 0.1
	}
	if conf > 1 {
		conf = 1
	}
	return amt, conf, raw, nil
}

// recognize runs a single grayscale+upscale pass through Tesseract. UPI
// screenshots are synthetic UI renders, so one clean pass beats the
// multi-variant passes needed for photographed paper receipts.
func recognize(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	gray := imaging.Grayscale(img)
	if gray.Bounds().Dy() < 800 {
		gray = imaging.Resize(gray, 0, 1200, imaging.Lanczos)
	}
	tmp := path
	if tmpFile, err := os.CreateTemp("", "receipt-*.png"); err == nil {
		tmp = tmpFile.Name()
		_ = tmpFile.Close()
		if err := imaging.Save(gray, tmp); err != nil {
			tmp = path
		}
	}

	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage("eng")
	client.SetImage(tmp)
	text, err := client.Text()
	if tmp != path {
		_ = os.Remove(tmp)
	}
	if err != nil {
		return "", fmt.Errorf("ocr error: %w", err)
	}
	return text, nil
}
