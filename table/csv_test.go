package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `id,height,color
1,1.5,red
2,NA,blue
3,,?
4,2.25,red
`

func TestReadCSV(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "height", "color"}, tbl.Names())
	assert.Equal(t, 4, tbl.NumRows())
	assert.Equal(t, Number(1.5), tbl.Cell(0, 1))
	assert.True(t, tbl.Cell(1, 1).IsMissing())
	assert.True(t, tbl.Cell(2, 1).IsMissing())
	assert.True(t, tbl.Cell(2, 2).IsMissing())
	assert.Equal(t, Category("blue"), tbl.Cell(1, 2))
}

func TestReadCSV_Options(t *testing.T) {
	data := "a;b\n1;-\nx;2\n"

	tbl, err := ReadCSV(strings.NewReader(data), WithDelimiter(';'), WithMissingMarkers("-"))
	require.NoError(t, err)
	assert.True(t, tbl.Cell(0, 1).IsMissing())
	assert.Equal(t, Category("x"), tbl.Cell(1, 0))

	tbl, err = ReadCSV(strings.NewReader(data), nil, WithDelimiter(';'), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
}

func TestReadCSV_Errors(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		tbl, err := ReadCSV(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.NumCols())
	})

	t.Run("Ragged", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("a,b\n1\n"))
		assert.Error(t, err)
	})

	t.Run("DuplicateHeader", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("a,a\n1,2\n"))
		assert.ErrorIs(t, err, ErrDuplicateColumn)
	})
}

func TestWriteCSV(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl, WithMissingOutput("NA")))

	assert.Equal(t, "id,height,color\n1,1.5,red\n2,NA,blue\n3,NA,NA\n4,2.25,red\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, tbl, nil, WithMissingOutput("NA")))
	assert.Equal(t, "id,height,color\n1,1.5,red\n2,NA,blue\n3,NA,NA\n4,2.25,red\n", buf.String())
}

func TestEncodeDecodeCSV_Compression(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	for _, name := range []string{"t.csv", "t.csv.gz", "t.csv.zst", "t.csv.lz4"} {
		t.Run(CompressionFromPath(name).String(), func(t *testing.T) {
			data, err := EncodeCSV(tbl, name)
			require.NoError(t, err)

			out, err := DecodeCSV(data, name)
			require.NoError(t, err)
			assert.Equal(t, tbl, out)
		})
	}
}

func TestCompressionFromPath(t *testing.T) {
	assert.Equal(t, CompressionGzip, CompressionFromPath("data/x.CSV.GZ"))
	assert.Equal(t, CompressionZstd, CompressionFromPath("x.zst"))
	assert.Equal(t, CompressionLZ4, CompressionFromPath("x.lz4"))
	assert.Equal(t, CompressionNone, CompressionFromPath("x.csv"))
}
