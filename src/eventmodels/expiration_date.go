package eventmodels

import (
	"fmt"
	"strings"
	"time"
)

const ExpirationDateLayout = "2006/01/02"

// ExpirationDate is a settlement date in the feed's YYYY/MM/DD form. The
// lexical order of valid values is their chronological order.
type ExpirationDate string

func NewExpirationDate(s string) (ExpirationDate, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ExpirationDateLayout, "2006-01-02", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ExpirationDate(t.Format(ExpirationDateLayout)), nil
		}
	}

	return "", fmt.Errorf("NewExpirationDate: %q: %w", s, ErrInvalidExpiration)
}

func (d ExpirationDate) String() string {
	return string(d)
}

func (d ExpirationDate) Before(other ExpirationDate) bool {
	return d < other
}
