package models

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	idPrefix       = "DOC"
	idRandomLength = 6
	base36Digits   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var documentIDPattern = regexp.MustCompile(`^DOC-[0-9A-Z]+-[0-9A-Z]{6}$`)

// NewDocumentID generates DOC-<millis in base36>-<6 random base36 chars>, upper case.
func NewDocumentID(now time.Time) string {
	timestamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))

	var random strings.Builder
	random.Grow(idRandomLength)
	for range idRandomLength {
		random.WriteByte(base36Digits[rand.IntN(len(base36Digits))])
	}

	return idPrefix + "-" + timestamp + "-" + random.String()
}

// IsDocumentID reports whether id has the generated document ID shape
func IsDocumentID(id string) bool {
	return documentIDPattern.MatchString(id)
}
