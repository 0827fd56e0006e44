package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidField reports a member value of the wrong type, such as a
// non-numeric balance.
var ErrInvalidField = errors.New("invalid field value")

// AccountStatus is the usage lifecycle of an imported account.
type AccountStatus string

const (
	StatusIdle      AccountStatus = "idle"
	StatusInUse     AccountStatus = "in-use"
	StatusCancelled AccountStatus = "cancelled"
)

// Labels written by older deployments and by the standalone page.
var legacyStatuses = map[string]AccountStatus{
	"đang rãnh":    StatusIdle,
	"available":    StatusIdle,
	"đang sử dụng": StatusInUse,
	"đã hủy":       StatusCancelled,
	"used-up":      StatusCancelled,
}

// ParseAccountStatus normalizes s to one of the known statuses.
func ParseAccountStatus(s string) (AccountStatus, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch AccountStatus(v) {
	case StatusIdle, StatusInUse, StatusCancelled:
		return AccountStatus(v), true
	}
	if st, ok := legacyStatuses[v]; ok {
		return st, true
	}
	return "", false
}

// Account is one imported credential entry. Fields that are absent in the
// source text stay empty and are omitted from JSON.
type Account struct {
	ID            int           `json:"id"`
	Username      string        `json:"username,omitempty"`
	Password      string        `json:"password,omitempty"`
	FullName      string        `json:"fullName,omitempty"`
	Status        string        `json:"status,omitempty"`
	Reward        string        `json:"reward,omitempty"`
	CreatedAt     string        `json:"createdAt,omitempty"`
	BankName      *string       `json:"bankName"`
	Balance       float64       `json:"balance"`
	AccountStatus AccountStatus `json:"accountStatus"`
	Note          string        `json:"note,omitempty"`

	// Extra keeps keys this version does not know about so a stored
	// document survives a read/write cycle unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// Complete reports whether the account carries the username/password/fullName triple.
func (a Account) Complete() bool {
	return strings.TrimSpace(a.Username) != "" &&
		strings.TrimSpace(a.Password) != "" &&
		strings.TrimSpace(a.FullName) != ""
}

// Clone returns a deep copy.
func (a Account) Clone() Account {
	c := a
	if a.BankName != nil {
		b := *a.BankName
		c.BankName = &b
	}
	if a.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(a.Extra))
		for k, v := range a.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// accountFields is Account without methods so encoding/json can be used
// on it without recursing into MarshalJSON/UnmarshalJSON.
type accountFields Account

var knownKeys = map[string]struct{}{
	"id": {}, "username": {}, "password": {}, "fullName": {}, "status": {},
	"reward": {}, "createdAt": {}, "bankName": {}, "balance": {},
	"accountStatus": {}, "note": {},
}

// MarshalJSON writes the known fields followed by any preserved extra keys.
func (a Account) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(accountFields(a))
	if err != nil {
		return nil, err
	}
	if len(a.Extra) == 0 {
		return base, nil
	}

	keys := make([]string, 0, len(a.Extra))
	for k := range a.Extra {
		if _, known := knownKeys[k]; known {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return base, nil
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	for _, k := range keys {
		name, _ := json.Marshal(k)
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(a.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes known fields leniently and keeps unknown keys in Extra.
// A null on a known key leaves the zero value.
func (a *Account) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Account{}
	for k, v := range raw {
		if err := out.setField(k, v); err != nil {
			return err
		}
	}
	*a = out
	return nil
}

// setField assigns one JSON member. Unknown keys go to Extra.
func (a *Account) setField(key string, v json.RawMessage) error {
	if isNull(v) {
		a.clearField(key)
		return nil
	}
	var err error
	switch key {
	case "id":
		var f float64
		err = json.Unmarshal(v, &f)
		a.ID = int(f)
	case "username":
		a.Username, err = decodeText(v)
	case "password":
		a.Password, err = decodeText(v)
	case "fullName":
		a.FullName, err = decodeText(v)
	case "status":
		a.Status, err = decodeText(v)
	case "reward":
		a.Reward, err = decodeText(v)
	case "createdAt":
		a.CreatedAt, err = decodeText(v)
	case "note":
		a.Note, err = decodeText(v)
	case "bankName":
		var s string
		s, err = decodeText(v)
		a.BankName = &s
	case "balance":
		a.Balance, err = decodeNumber(v)
	case "accountStatus":
		var s string
		s, err = decodeText(v)
		if st, ok := ParseAccountStatus(s); ok {
			a.AccountStatus = st
		} else {
			a.AccountStatus = AccountStatus(s)
		}
	default:
		if a.Extra == nil {
			a.Extra = make(map[string]json.RawMessage)
		}
		a.Extra[key] = append(json.RawMessage(nil), v...)
	}
	if err != nil {
		return fmt.Errorf("%w: field %q: %v", ErrInvalidField, key, err)
	}
	return nil
}

func (a *Account) clearField(key string) {
	switch key {
	case "id":
		a.ID = 0
	case "username":
		a.Username = ""
	case "password":
		a.Password = ""
	case "fullName":
		a.FullName = ""
	case "status":
		a.Status = ""
	case "reward":
		a.Reward = ""
	case "createdAt":
		a.CreatedAt = ""
	case "note":
		a.Note = ""
	case "bankName":
		a.BankName = nil
	case "balance":
		a.Balance = 0
	case "accountStatus":
		a.AccountStatus = ""
	default:
		if a.Extra == nil {
			a.Extra = make(map[string]json.RawMessage)
		}
		a.Extra[key] = json.RawMessage("null")
	}
}

func isNull(v json.RawMessage) bool {
	return len(bytes.TrimSpace(v)) == 0 || string(bytes.TrimSpace(v)) == "null"
}

// decodeText accepts strings and, for hand-edited files, bare numbers/bools.
func decodeText(v json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, nil
	}
	var anyVal any
	if err := json.Unmarshal(v, &anyVal); err != nil {
		return "", err
	}
	return fmt.Sprint(anyVal), nil
}

// decodeNumber accepts JSON numbers and numeric strings such as "48000".
func decodeNumber(v json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
