package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/foadjalali/tcmindai/internal/i18n"
)

var months = map[i18n.Locale][12]string{
	i18n.EN: {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	i18n.TR: {"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran", "Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık"},
	i18n.AR: {"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو", "يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر"},
}

// Date formats t as a long date in the conventions of l:
// "May 2, 2024", "2 Mayıs 2024", "2 مايو 2024". A zero time formats as "".
func Date(t time.Time, l i18n.Locale) string {
	if t.IsZero() {
		return ""
	}
	names, ok := months[l]
	if !ok {
		names = months[i18n.Base]
		l = i18n.Base
	}
	month := names[t.Month()-1]
	switch l {
	case i18n.EN:
		return fmt.Sprintf("%s %d, %d", month, t.Day(), t.Year())
	default:
		return fmt.Sprintf("%d %s %d", t.Day(), month, t.Year())
	}
}

// ISODate formats t for datetime attributes.
func ISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// Minutes renders a reading time such as "5 min read" using the localized
// template, where "{n}" is replaced with the number.
func Minutes(n int, tmpl string) string {
	if tmpl == "" {
		tmpl = "{n} min"
	}
	return strings.ReplaceAll(tmpl, "{n}", strconv.Itoa(n))
}
