package qrcards

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ktnaka/anpi/backend/models"
)

func TestBuildConfirmURL(t *testing.T) {
	fields := models.IdentityFields{
		Nick:   "Aya",
		Addr:   "Midori 1-2",
		School: "Midori",
		Tel:    "090-0000",
	}

	raw := BuildConfirmURL("http://localhost:8080/checkin", fields)
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/checkin", parsed.Path)
	query := parsed.Query()
	assert.Equal(t, "Aya", query.Get("nick"))
	assert.Equal(t, "Midori 1-2", query.Get("addr"))
	assert.Equal(t, "Midori", query.Get("school"))
	assert.Equal(t, "090-0000", query.Get("tel"))
}

func TestGenerateQRPNG(t *testing.T) {
	png, err := GenerateQRPNG("http://localhost:8080/checkin?nick=Aya")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "output should be a PNG")
}

func TestParseRosterCSV(t *testing.T) {
	csv := "\xEF\xBB\xBFnick,addr,school,tel\nAya,Midori 1-2,Midori,090-0000\nKen,,Sakura,080-1111\n"

	entries, err := ParseRoster(strings.NewReader(csv), "roster.csv")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, RosterEntry{Nick: "Aya", Addr: "Midori 1-2", School: "Midori", Tel: "090-0000"}, entries[0])
	assert.Equal(t, "Ken", entries[1].Nick)
	assert.Empty(t, entries[1].Addr)
}

func TestParseRosterXLSX(t *testing.T) {
	workbook := excelize.NewFile()
	sheet := workbook.GetSheetList()[0]
	rows := [][]interface{}{
		{"school", "nick", "addr", "tel"}, // column order should not matter
		{"Midori", "Aya", "Midori 1-2", "090-0000"},
		{"Sakura", "Ken", "", "080-1111"},
		{"", "", "", ""}, // trailing blank row
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, workbook.SetSheetRow(sheet, cellRef, &row))
	}
	buf, err := workbook.WriteToBuffer()
	require.NoError(t, err)

	entries, err := ParseRoster(bytes.NewReader(buf.Bytes()), "roster.xlsx")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, RosterEntry{Nick: "Aya", Addr: "Midori 1-2", School: "Midori", Tel: "090-0000"}, entries[0])
	assert.Equal(t, RosterEntry{Nick: "Ken", School: "Sakura", Tel: "080-1111"}, entries[1])
}

func TestParseRosterXLSXMissingColumn(t *testing.T) {
	workbook := excelize.NewFile()
	sheet := workbook.GetSheetList()[0]
	header := []interface{}{"nick", "addr", "school"}
	require.NoError(t, workbook.SetSheetRow(sheet, "A1", &header))
	buf, err := workbook.WriteToBuffer()
	require.NoError(t, err)

	_, err = ParseRoster(bytes.NewReader(buf.Bytes()), "roster.xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"tel"`)
}

func TestParseRosterUnsupportedExtension(t *testing.T) {
	_, err := ParseRoster(strings.NewReader("data"), "roster.pdf")
	require.Error(t, err)
}

func TestCreateCardPDF(t *testing.T) {
	entries := []RosterEntry{
		{Nick: "Aya", Addr: "Midori 1-2", School: "Midori", Tel: "090-0000"},
		{Nick: "Ken", School: "Sakura", Tel: "080-1111"},
	}

	cards, err := BuildCards(entries, "http://localhost:8080/checkin")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	for _, card := range cards {
		assert.True(t, bytes.HasPrefix(card.QRPNG, []byte("\x89PNG")))
	}

	pdf, err := CreateCardPDF(cards)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "output should be a PDF document")
}
