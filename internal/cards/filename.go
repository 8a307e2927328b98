package cards

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// vietnameseASCII folds Vietnamese letters to their base ASCII forms so
// generated filenames survive every filesystem and download dialog.
var vietnameseASCII = strings.NewReplacer(
	"à", "a", "á", "a", "ả", "a", "ã", "a", "ạ", "a",
	"ă", "a", "ằ", "a", "ắ", "a", "ẳ", "a", "ẵ", "a", "ặ", "a",
	"â", "a", "ầ", "a", "ấ", "a", "ẩ", "a", "ẫ", "a", "ậ", "a",
	"è", "e", "é", "e", "ẻ", "e", "ẽ", "e", "ẹ", "e",
	"ê", "e", "ề", "e", "ế", "e", "ể", "e", "ễ", "e", "ệ", "e",
	"ì", "i", "í", "i", "ỉ", "i", "ĩ", "i", "ị", "i",
	"ò", "o", "ó", "o", "ỏ", "o", "õ", "o", "ọ", "o",
	"ô", "o", "ồ", "o", "ố", "o", "ổ", "o", "ỗ", "o", "ộ", "o",
	"ơ", "o", "ờ", "o", "ớ", "o", "ở", "o", "ỡ", "o", "ợ", "o",
	"ù", "u", "ú", "u", "ủ", "u", "ũ", "u", "ụ", "u",
	"ư", "u", "ừ", "u", "ứ", "u", "ử", "u", "ữ", "u", "ự", "u",
	"ỳ", "y", "ý", "y", "ỷ", "y", "ỹ", "y", "ỵ", "y",
	"đ", "d",
	"À", "A", "Á", "A", "Ả", "A", "Ã", "A", "Ạ", "A",
	"Ă", "A", "Ằ", "A", "Ắ", "A", "Ẳ", "A", "Ẵ", "A", "Ặ", "A",
	"Â", "A", "Ầ", "A", "Ấ", "A", "Ẩ", "A", "Ẫ", "A", "Ậ", "A",
	"È", "E", "É", "E", "Ẻ", "E", "Ẽ", "E", "Ẹ", "E",
	"Ê", "E", "Ề", "E", "Ế", "E", "Ể", "E", "Ễ", "E", "Ệ", "E",
	"Ì", "I", "Í", "I", "Ỉ", "I", "Ĩ", "I", "Ị", "I",
	"Ò", "O", "Ó", "O", "Ỏ", "O", "Õ", "O", "Ọ", "O",
	"Ô", "O", "Ồ", "O", "Ố", "O", "Ổ", "O", "Ỗ", "O", "Ộ", "O",
	"Ơ", "O", "Ờ", "O", "Ớ", "O", "Ở", "O", "Ỡ", "O", "Ợ", "O",
	"Ù", "U", "Ú", "U", "Ủ", "U", "Ũ", "U", "Ụ", "U",
	"Ư", "U", "Ừ", "U", "Ứ", "U", "Ử", "U", "Ữ", "U", "Ự", "U",
	"Ỳ", "Y", "Ý", "Y", "Ỷ", "Y", "Ỹ", "Y", "Ỵ", "Y",
	"Đ", "D",
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SanitizeName folds a display name into a filename-safe token:
// diacritics stripped, runs of unsafe characters collapsed to a single dash.
func SanitizeName(name string) string {
	s := vietnameseASCII.Replace(strings.TrimSpace(name))
	s = unsafeFilenameChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "unnamed"
	}
	return s
}

// TicketFileName is "{invoice_code}-{sanitized_full_name}.png".
func TicketFileName(invoiceCode, fullName string) string {
	return fmt.Sprintf("%s-%s.png", invoiceCode, SanitizeName(fullName))
}

// BadgeFileName is "Badge-{sanitized_full_name}.png".
func BadgeFileName(fullName string) string {
	return fmt.Sprintf("Badge-%s.png", SanitizeName(fullName))
}

// BatchPDFName is "cards_batch_{NN}.pdf" with a 1-based zero-padded batch number.
func BatchPDFName(n int) string {
	return fmt.Sprintf("cards_batch_%02d.pdf", n)
}

// ArchiveName is "{prefix}_{yyyy-MM-dd-HHmm}.zip".
func ArchiveName(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%s.zip", prefix, t.Format("2006-01-02-1504"))
}
