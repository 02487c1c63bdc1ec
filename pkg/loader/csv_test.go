package loader

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditlab-io/tableaudit/pkg/dataset"
)

func TestCSVLoaderInfersColumnKinds(t *testing.T) {
	input := strings.Join([]string{
		"period,sales,region,code",
		"2024-01,100,north,A1",
		"2024-02,102.5,south,17",
		"2024-03,98,east,B2",
		"2024-04,101,west,33",
		"2024-05,99,north,C3",
	}, "\n")

	ds, err := NewCSVLoader(strings.NewReader(input)).Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, 4, ds.NumColumns())
	assert.Equal(t, dataset.Column{Name: "period", Kind: dataset.ColumnText}, ds.Columns[0])
	assert.Equal(t, dataset.Column{Name: "sales", Kind: dataset.ColumnNumeric}, ds.Columns[1])
	assert.Equal(t, dataset.Column{Name: "region", Kind: dataset.ColumnText}, ds.Columns[2])
	// 2 of 5 values numeric: between the vote ratios, so mixed.
	assert.Equal(t, dataset.Column{Name: "code", Kind: dataset.ColumnMixed}, ds.Columns[3])

	require.Equal(t, 5, ds.NumRows())
	assert.Equal(t, dataset.Number(102.5), ds.Rows[1][1])
	assert.Equal(t, dataset.Text("south"), ds.Rows[1][2])
}

func TestCSVLoaderMissingMarkers(t *testing.T) {
	input := strings.Join([]string{
		"sales",
		"100",
		`""`,
		"null",
		"NULL",
		"N/A",
		"NaN",
		"-",
		"102",
	}, "\n")

	ds, err := NewCSVLoader(strings.NewReader(input)).Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, 8, ds.NumRows())
	missing := 0
	for _, row := range ds.Rows {
		if row[0].IsMissing() {
			missing++
		}
	}
	assert.Equal(t, 6, missing)
	// Only numbers vote, so the column is still numeric.
	assert.Equal(t, dataset.ColumnNumeric, ds.Columns[0].Kind)
}

func TestCSVLoaderRaggedRows(t *testing.T) {
	input := strings.Join([]string{
		"a,b,c",
		"1,2,3",
		"4,5",
		"6,7,8,9",
	}, "\n")

	ds, err := NewCSVLoader(strings.NewReader(input)).Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, ds.NumRows())
	assert.Equal(t, []int{1, 2}, ds.Ragged)
	// Short row is padded with missing, long row truncated.
	assert.True(t, ds.Rows[1][2].IsMissing())
	assert.Len(t, ds.Rows[2], 3)
}

func TestCSVLoaderCustomDelimiter(t *testing.T) {
	input := "a;b\n1;x\n2;y\n"

	l := NewCSVLoader(strings.NewReader(input))
	l.Comma = ';'
	ds, err := l.Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, ds.NumColumns())
	assert.Equal(t, dataset.ColumnNumeric, ds.Columns[0].Kind)
	assert.Equal(t, dataset.ColumnText, ds.Columns[1].Kind)
}

func TestCSVLoaderThousandsSeparators(t *testing.T) {
	input := "amount\n\"1,234.5\"\n\"10,000\"\n42\n"

	ds, err := NewCSVLoader(strings.NewReader(input)).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, dataset.ColumnNumeric, ds.Columns[0].Kind)
	assert.Equal(t, dataset.Number(1234.5), ds.Rows[0][0])
	assert.Equal(t, dataset.Number(10000), ds.Rows[1][0])
}

func TestCSVLoaderEmptyInput(t *testing.T) {
	ds, err := NewCSVLoader(strings.NewReader("")).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, ds.NumColumns())
	require.Error(t, dataset.Validate(ds))
}

func TestCSVLoaderHeaderOnly(t *testing.T) {
	ds, err := NewCSVLoader(strings.NewReader("a,b\n")).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, ds.NumColumns())
	assert.Equal(t, 0, ds.NumRows())
	require.Error(t, dataset.Validate(ds))
}

func TestCSVLoaderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSVLoader(strings.NewReader("a\n1\n")).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCSVLoaderMalformedQuotes(t *testing.T) {
	_, err := NewCSVLoader(strings.NewReader("a,b\n\"unterminated,1\n")).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read csv input")
}
