// Package parser turns exported account listings into account records.
//
// The input is a loosely formatted text file where each account is a block of
// labelled lines ("Tài khoản: ...", "Mật khẩu: ...", ...). Parsing is
// best-effort: a block without username, password and full name is dropped and
// never reported as an error.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pysugar/account-tabs/internal/db/models"
)

// Mode selects how record boundaries are detected.
type Mode string

const (
	// ModeSimple starts a record on every username marker.
	ModeSimple Mode = "simple"
	// ModeOrdinal also starts a record on lines beginning with "N.".
	ModeOrdinal Mode = "ordinal"
)

// ParseMode parses a mode name from configuration.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeSimple:
		return ModeSimple, nil
	case ModeOrdinal:
		return ModeOrdinal, nil
	default:
		return "", fmt.Errorf("unknown parse mode %q (want simple or ordinal)", s)
	}
}

const (
	markerUsername  = "Tài khoản:"
	markerPassword  = "Mật khẩu:"
	markerFullName  = "Họ tên:"
	markerStatus    = "Trạng thái:"
	markerReward    = "Thưởng:"
	markerCreatedAt = "Thời gian:"

	headerTitle      = "DANH SÁCH TÀI KHOẢN"
	headerExportTime = "Thời gian xuất:"
	headerTotal      = "Tổng số tài khoản:"
)

var ordinalPrefix = regexp.MustCompile(`^\d+\.`)

// RawRecord is one parsed account block before ids and defaults are assigned.
type RawRecord struct {
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	FullName  string `json:"fullName,omitempty"`
	Status    string `json:"status,omitempty"`
	Reward    string `json:"reward,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Complete reports whether username, password and full name are all present.
func (r RawRecord) Complete() bool {
	return r.Username != "" && r.Password != "" && r.FullName != ""
}

// Account converts the record into an account without id or defaults.
func (r RawRecord) Account() models.Account {
	return models.Account{
		Username:  r.Username,
		Password:  r.Password,
		FullName:  r.FullName,
		Status:    r.Status,
		Reward:    r.Reward,
		CreatedAt: r.CreatedAt,
	}
}

// Metadata is the optional header of an exported listing.
type Metadata struct {
	Title         string `json:"title,omitempty"`
	ExportTime    string `json:"exportTime,omitempty"`
	TotalAccounts int    `json:"totalAccounts"`
}

// Result is the full outcome of parsing one text.
type Result struct {
	Records  []RawRecord `json:"records"`
	Metadata Metadata    `json:"metadata"`
	Lines    int         `json:"lines"`
	Dropped  int         `json:"dropped"`
}

// Parser extracts account records in a fixed mode.
type Parser struct {
	mode Mode
}

// New returns a parser for mode. An empty mode means ModeSimple.
func New(mode Mode) *Parser {
	if mode == "" {
		mode = ModeSimple
	}
	return &Parser{mode: mode}
}

// Mode returns the configured boundary mode.
func (p *Parser) Mode() Mode {
	return p.mode
}

// Parse returns the complete records found in text, in input order.
func (p *Parser) Parse(text string) []RawRecord {
	return p.ParseDocument(text).Records
}

// Parse parses text in ModeSimple.
func Parse(text string) []RawRecord {
	return New(ModeSimple).Parse(text)
}

type accumulator struct {
	rec     RawRecord
	touched bool
}

func (a *accumulator) reset() {
	a.rec = RawRecord{}
	a.touched = false
}

// ParseDocument parses text and also reports header metadata and counters.
func (p *Parser) ParseDocument(text string) Result {
	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.Split(text, "\n")

	res := Result{Records: []RawRecord{}, Lines: len(lines)}
	var cur accumulator

	flush := func() {
		if cur.rec.Complete() {
			res.Records = append(res.Records, cur.rec)
		} else if cur.touched {
			res.Dropped++
		}
		cur.reset()
	}

	// In ordinal mode the username marker directly after "N." belongs to the
	// block the ordinal just opened.
	openedByOrdinal := false

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if p.parseHeader(line, &res.Metadata) {
			continue
		}

		if p.mode == ModeOrdinal && ordinalPrefix.MatchString(line) {
			flush()
			openedByOrdinal = true
			if v, ok := valueAfter(line, markerUsername); ok {
				cur.rec.Username = v
				cur.touched = true
			}
			continue
		}

		switch {
		case strings.Contains(line, markerUsername):
			if !openedByOrdinal || cur.rec.Username != "" {
				flush()
			}
			openedByOrdinal = false
			if v, ok := valueAfter(line, markerUsername); ok {
				cur.rec.Username = v
			}
			cur.touched = true
		case strings.Contains(line, markerPassword):
			cur.set(&cur.rec.Password, line, markerPassword)
		case strings.Contains(line, markerFullName):
			cur.set(&cur.rec.FullName, line, markerFullName)
		case strings.Contains(line, markerStatus):
			cur.set(&cur.rec.Status, line, markerStatus)
		case strings.Contains(line, markerReward):
			cur.set(&cur.rec.Reward, line, markerReward)
		case strings.Contains(line, markerCreatedAt):
			cur.set(&cur.rec.CreatedAt, line, markerCreatedAt)
		}
	}
	flush()

	return res
}

func (a *accumulator) set(field *string, line, marker string) {
	a.touched = true
	if v, ok := valueAfter(line, marker); ok {
		*field = v
	}
}

// parseHeader consumes listing header lines.
func (p *Parser) parseHeader(line string, md *Metadata) bool {
	switch {
	case strings.Contains(line, headerTitle):
		md.Title = line
		return true
	case strings.HasPrefix(line, headerExportTime):
		md.ExportTime = strings.TrimSpace(strings.TrimPrefix(line, headerExportTime))
		return true
	case strings.HasPrefix(line, headerTotal):
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, headerTotal)))
		if err != nil {
			n = 0
		}
		md.TotalAccounts = n
		return true
	}
	return false
}

// valueAfter returns the trimmed text following the first occurrence of
// marker. An empty value reports false so the field stays unset.
func valueAfter(line, marker string) (string, bool) {
	idx := strings.Index(line, marker)
	if idx < 0 {
		return "", false
	}
	rest := line[idx+len(marker):]
	// Text after a second marker occurrence is dropped, as a split on the
	// marker would do.
	if next := strings.Index(rest, marker); next >= 0 {
		rest = rest[:next]
	}
	v := strings.TrimSpace(rest)
	return v, v != ""
}
