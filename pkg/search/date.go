package search

import (
	"time"

	"github.com/ncruces/go-strftime"
)

// FormatDate renders t with a C strftime pattern such as "%d-%m-%Y".
func FormatDate(t time.Time, pattern string) string {
	return strftime.Format(pattern, t)
}
