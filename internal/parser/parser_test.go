package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoBlocks = `Tài khoản: alice
Mật khẩu: p1
Họ tên: Alice A
Tài khoản: bob
Mật khẩu: p2
Họ tên: Bob B
`

func TestParse_NoMarkers(t *testing.T) {
	tests := []string{
		"",
		"\n\n\n",
		"hello world\nnothing to see",
		"Username: alice\nPassword: x",
	}
	for _, text := range tests {
		assert.Empty(t, Parse(text), "text %q", text)
	}
}

func TestParse_TwoWellFormedBlocks(t *testing.T) {
	got := Parse(twoBlocks)
	require.Len(t, got, 2)
	assert.Equal(t, RawRecord{Username: "alice", Password: "p1", FullName: "Alice A"}, got[0])
	assert.Equal(t, RawRecord{Username: "bob", Password: "p2", FullName: "Bob B"}, got[1])
}

func TestParse_TrimsAndReadsOptionalFields(t *testing.T) {
	text := "  Tài khoản:   alice  \r\n" +
		"\tMật khẩu:  p1\r\n" +
		"Họ tên:  Alice A   \r\n" +
		"Trạng thái: Thành công\r\n" +
		"Thưởng: 50.000đ\r\n" +
		"Thời gian: 2025-10-01 12:30:00\r\n"

	got := Parse(text)
	require.Len(t, got, 1)
	assert.Equal(t, RawRecord{
		Username:  "alice",
		Password:  "p1",
		FullName:  "Alice A",
		Status:    "Thành công",
		Reward:    "50.000đ",
		CreatedAt: "2025-10-01 12:30:00",
	}, got[0])
}

func TestParse_DropsIncompleteBlocks(t *testing.T) {
	text := `Tài khoản: alice
Mật khẩu: p1
Tài khoản: bob
Mật khẩu: p2
Họ tên: Bob B
Tài khoản: carol
Họ tên: Carol C
`
	got := Parse(text)
	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].Username)

	// Reparsing yields the same filtered set.
	assert.Equal(t, got, Parse(text))
}

func TestParse_MissingFullNameYieldsNothing(t *testing.T) {
	assert.Empty(t, Parse("Tài khoản: alice\nMật khẩu: p1\n"))
}

func TestParse_EmptyMarkerLeavesFieldUnset(t *testing.T) {
	text := `Tài khoản: alice
Mật khẩu: p1
Họ tên: Alice A
Thưởng:
Trạng thái:
`
	got := Parse(text)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Reward)
	assert.Empty(t, got[0].Status)

	// An empty username marker never completes a record.
	assert.Empty(t, Parse("Tài khoản:\nMật khẩu: p1\nHọ tên: Alice A\n"))
}

func TestParse_MarkerAnywhereInLine(t *testing.T) {
	text := `1) Tài khoản: alice
>> Mật khẩu: p1
note - Họ tên: Alice A
`
	got := Parse(text)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, "p1", got[0].Password)
	assert.Equal(t, "Alice A", got[0].FullName)
}

func TestParse_FirstMarkerWins(t *testing.T) {
	// The line carries both a password and a name marker; password is checked first.
	got := Parse("Tài khoản: a\nMật khẩu: p1 Họ tên: X\nHọ tên: Alice\n")
	require.Len(t, got, 1)
	assert.Equal(t, "p1 Họ tên: X", got[0].Password)
	assert.Equal(t, "Alice", got[0].FullName)
}

func TestParseDocument_HeaderAndCounters(t *testing.T) {
	text := "\ufeffDANH SÁCH TÀI KHOẢN NGÂN HÀNG\n" +
		"Thời gian xuất: 10/10/2025 08:00:00\n" +
		"Tổng số tài khoản: 2\n" +
		"\n" +
		twoBlocks +
		"Tài khoản: broken\n"

	res := New(ModeSimple).ParseDocument(text)
	assert.Len(t, res.Records, 2)
	assert.Equal(t, "DANH SÁCH TÀI KHOẢN NGÂN HÀNG", res.Metadata.Title)
	assert.Equal(t, "10/10/2025 08:00:00", res.Metadata.ExportTime)
	assert.Equal(t, 2, res.Metadata.TotalAccounts)
	assert.Equal(t, 1, res.Dropped)
	for _, r := range res.Records {
		assert.Empty(t, r.CreatedAt, "export time must not leak into records")
	}
}

func TestParseDocument_BadTotalIsZero(t *testing.T) {
	res := New(ModeSimple).ParseDocument("Tổng số tài khoản: nhiều\n")
	assert.Equal(t, 0, res.Metadata.TotalAccounts)
}

func TestParse_OrdinalMode(t *testing.T) {
	text := `1. Tài khoản: alice
Mật khẩu: p1
Họ tên: Alice A
2.
Mật khẩu: p2
Tài khoản: bob
Họ tên: Bob B
3. Tài khoản: carol
Mật khẩu: p3
`
	got := New(ModeOrdinal).Parse(text)
	require.Len(t, got, 2)
	assert.Equal(t, RawRecord{Username: "alice", Password: "p1", FullName: "Alice A"}, got[0])
	assert.Equal(t, RawRecord{Username: "bob", Password: "p2", FullName: "Bob B"}, got[1])

	// In simple mode bob's password lands in alice's block and bob ends incomplete.
	simple := New(ModeSimple).Parse(text)
	require.Len(t, simple, 1)
	assert.Equal(t, "alice", simple[0].Username)
}

func TestParse_OrdinalBoundaryFlushesWithoutUsernameMarker(t *testing.T) {
	text := `1. Tài khoản: alice
Mật khẩu: p1
Họ tên: Alice A
2. Tài khoản: bob
Mật khẩu: p2
Họ tên: Bob B
`
	got := New(ModeOrdinal).Parse(text)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, "bob", got[1].Username)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeSimple, m)

	m, err = ParseMode(" Ordinal ")
	require.NoError(t, err)
	assert.Equal(t, ModeOrdinal, m)

	_, err = ParseMode("regex")
	assert.Error(t, err)
}
