package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUsersCSVShortLayout(t *testing.T) {
	data := "氏名,カナ,学年,利用者番号,学籍番号\n" +
		"山田太郎,ヤマダタロウ,2,100234,2025-1234\n" +
		"佐藤花子,サトウハナコ,3,100235,2024-5678\n"

	records, err := ParseUsersCSV(data)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "山田太郎", records[0].Name)
	assert.Equal(t, "2025-1234", records[0].StudentID)
	assert.Equal(t, "100234", records[0].RegistrationNumber)

	assert.Equal(t, "佐藤花子", records[1].Name)
	assert.Equal(t, "2024-5678", records[1].StudentID)
}

func TestParseUsersCSVLongLayout(t *testing.T) {
	// 16-column registry export: student id in column 7, registration
	// number in column 15; columns 4 and 5 are empty.
	row := make([]string, 16)
	row[0] = "鈴木一郎"
	row[6] = "2023-0042"
	row[14] = "100900"

	header := "a,b,c,d,e,f,g,h,i,j,k,l,m,n,o,p\n"
	data := header + join(row) + "\n"

	records, err := ParseUsersCSV(data)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "鈴木一郎", records[0].Name)
	assert.Equal(t, "2023-0042", records[0].StudentID)
	assert.Equal(t, "100900", records[0].RegistrationNumber)
}

func TestParseUsersCSVSkipsEmptyRows(t *testing.T) {
	data := "氏名,カナ,学年,利用者番号,学籍番号\n" +
		",,,,\n" +
		"山田太郎,ヤマダタロウ,2,100234,2025-1234\n"

	records, err := ParseUsersCSV(data)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "山田太郎", records[0].Name)
}

func TestParseUsersCSVKeepsIncompleteRows(t *testing.T) {
	// A row with a name but no student id is returned so the caller can
	// report the failure per row.
	data := "氏名,カナ,学年,利用者番号,学籍番号\n" +
		"名前だけ,,,,\n"

	records, err := ParseUsersCSV(data)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "名前だけ", records[0].Name)
	assert.Empty(t, records[0].StudentID)
}

func join(row []string) string {
	out := ""
	for i, f := range row {
		if i > 0 {
			out += ","
		}
		out += f
	}
	return out
}
