// Package domain defines the record types of the talk corpus. Talk is both
// the in-memory search record and the GORM model of the SQLite corpus table.
package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// dateLen is the number of leading characters of a source timestamp kept as
// the display date ("2020-01-05T10:00:00Z" -> "2020-01-05").
const dateLen = 10

// ErrInvalidID is returned when a source record carries an identifier that is
// neither a string nor a number.
var ErrInvalidID = errors.New("record id must be a string or a number")

// Talk is one recorded talk. Optional fields hold the empty string when the
// source omitted them, so consumers never need presence checks.
//
// Fields:
//   - Seq: insertion sequence in the SQLite table; preserves load order.
//   - ID: identifier, unique within the corpus.
//   - Title: talk title.
//   - Date: date-only display form (YYYY-MM-DD when the source is ISO-8601).
//   - URL: link to the recording; "" means no link.
//   - Transcript: full transcript text; "" means absent.
type Talk struct {
	Seq        int64  `json:"-"                    gorm:"primaryKey;autoIncrement"`
	ID         string `json:"id"                   gorm:"column:talk_id;type:varchar(64);not null;uniqueIndex:ux_talks_talk_id"`
	Title      string `json:"title"                gorm:"type:text;not null"`
	Date       string `json:"date"                 gorm:"type:varchar(16);not null"`
	URL        string `json:"url"                  gorm:"type:text;not null"`
	Transcript string `json:"transcript,omitempty" gorm:"type:text;not null"`
}

// TableName returns the database table name for Talk.
func (Talk) TableName() string { return "talks" }

// HasTranscript reports whether the talk carries a non-empty transcript.
func (t Talk) HasTranscript() bool { return t.Transcript != "" }

// RawTalk is the wire shape of a record as found in external sources. Every
// field is optional; Normalize fills in defaults.
type RawTalk struct {
	ID         json.RawMessage `json:"id"`
	Title      string          `json:"title"`
	Date       string          `json:"date"`
	URL        string          `json:"url"`
	Transcript string          `json:"transcript"`
}

// Normalize converts a raw record into a Talk. pos is the record's position in
// the source and becomes its identifier when the source has none.
func (r RawTalk) Normalize(pos int) (Talk, error) {
	id, err := parseID(r.ID)
	if err != nil {
		return Talk{}, err
	}
	if id == "" {
		id = strconv.Itoa(pos)
	}
	return Talk{
		ID:         id,
		Title:      strings.TrimSpace(r.Title),
		Date:       NormalizeDate(r.Date),
		URL:        strings.TrimSpace(r.URL),
		Transcript: r.Transcript,
	}, nil
}

// NormalizeDate truncates a timestamp to its date portion, i.e. its first ten
// characters. Shorter values are returned trimmed but otherwise unchanged.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= dateLen {
		return s
	}
	n := 0
	for i := range s {
		if n == dateLen {
			return s[:i]
		}
		n++
	}
	return s
}

func parseID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		return strings.TrimSpace(s), nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		return n.String(), nil
	default:
		return "", fmt.Errorf("%w: got %s", ErrInvalidID, raw)
	}
}
