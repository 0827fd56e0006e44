package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountJSON_ShapeAndExtras(t *testing.T) {
	in := `{"id":3,"username":"alice","password":"p1","fullName":"Alice A","bankName":null,"balance":0,"accountStatus":"idle","tab":"tab2","flags":[1,2]}`

	var a Account
	require.NoError(t, json.Unmarshal([]byte(in), &a))
	assert.Equal(t, 3, a.ID)
	assert.Nil(t, a.BankName)
	assert.Equal(t, StatusIdle, a.AccountStatus)
	require.Contains(t, a.Extra, "tab")

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestAccountJSON_OmitsAbsentOptionalFields(t *testing.T) {
	out, err := json.Marshal(Account{ID: 1, Username: "a", Password: "b", FullName: "c", AccountStatus: StatusIdle})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	for _, k := range []string{"status", "reward", "createdAt", "note"} {
		assert.NotContains(t, m, k)
	}
	assert.Contains(t, m, "bankName")
	assert.Nil(t, m["bankName"])
	assert.Equal(t, float64(0), m["balance"])
}

func TestAccountJSON_LegacyStatusAndStringBalance(t *testing.T) {
	var a Account
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"accountStatus":"đang sử dụng","balance":"48000"}`), &a))
	assert.Equal(t, StatusInUse, a.AccountStatus)
	assert.Equal(t, 48000.0, a.Balance)
}

func TestPatch_ApplyTo(t *testing.T) {
	bank := "VCB"
	a := Account{ID: 2, Username: "bob", Password: "p2", FullName: "Bob B", BankName: &bank, Balance: 10, AccountStatus: StatusIdle, Reward: "5k"}

	p, err := NewPatch(map[string]any{"balance": 48000, "bankName": nil, "id": 99, "color": "red"})
	require.NoError(t, err)
	require.NoError(t, p.ApplyTo(&a))

	assert.Equal(t, 2, a.ID, "id is never patched")
	assert.Equal(t, 48000.0, a.Balance)
	assert.Nil(t, a.BankName, "explicit null clears")
	assert.Equal(t, "5k", a.Reward)
	assert.Equal(t, "bob", a.Username)
	assert.JSONEq(t, `"red"`, string(a.Extra["color"]))
}

func TestParseAccountStatus(t *testing.T) {
	cases := map[string]AccountStatus{
		"idle":         StatusIdle,
		" In-Use ":     StatusInUse,
		"cancelled":    StatusCancelled,
		"đang rãnh":    StatusIdle,
		"đã hủy":       StatusCancelled,
		"available":    StatusIdle,
		"used-up":      StatusCancelled,
		"đang sử dụng": StatusInUse,
	}
	for in, want := range cases {
		got, ok := ParseAccountStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseAccountStatus("frozen")
	assert.False(t, ok)
}

func TestDocument_NormalizeAndAccounts(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{"tab1":[{"id":1,"username":"a"}]}`))
	require.NoError(t, err)
	for _, g := range Groups {
		assert.NotNil(t, doc[g], g)
	}
	assert.Len(t, doc.Accounts(Tab1), 1)
	assert.Empty(t, doc.Accounts(Group("tab9")))

	clone := doc.Clone()
	clone[Tab1][0].Username = "changed"
	assert.Equal(t, "a", doc[Tab1][0].Username)
}

func TestPatch_ApplyTo_InvalidFieldValue(t *testing.T) {
	for _, body := range []string{`{"balance":"abc"}`, `{"balance":true}`, `{"balance":{"v":1}}`} {
		var p Patch
		require.NoError(t, json.Unmarshal([]byte(body), &p))

		a := Account{ID: 1, Balance: 7}
		err := p.ApplyTo(&a)
		assert.ErrorIs(t, err, ErrInvalidField, body)
	}
}

func TestPatch_IsNull(t *testing.T) {
	p := Patch{"accountStatus": json.RawMessage("null"), "note": json.RawMessage(`"x"`)}
	assert.True(t, p.IsNull("accountStatus"))
	assert.False(t, p.IsNull("note"))
	assert.False(t, p.IsNull("balance"))
}
