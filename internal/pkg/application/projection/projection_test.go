package projection

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/diwise/assets-exporter/internal/pkg/application/flatten"
	"github.com/diwise/assets-exporter/internal/pkg/application/schema"
	"github.com/matryer/is"
)

func TestProjectRowFillsMissingWithNull(t *testing.T) {
	is := is.New(t)

	rec := flatten.NewRecord(map[string]flatten.Value{
		"A": flatten.Of("x"),
		"C": flatten.Of("z"),
	})

	row := ProjectRow(rec, schema.Schema{"A", "B", "C"})

	is.Equal(row, Row{flatten.Of("x"), flatten.Null(), flatten.Of("z")})
}

func TestProjectRowWidthFollowsSchema(t *testing.T) {
	is := is.New(t)

	rec := flatten.NewRecord(map[string]flatten.Value{
		"A": flatten.Of("1"), "B": flatten.Of("2"), "C": flatten.Of("3"), "D": flatten.Of("4"),
	})

	for _, s := range []schema.Schema{nil, {"A"}, {"D", "A"}, {"A", "B", "C", "D", "E", "F"}} {
		is.Equal(len(ProjectRow(rec, s)), len(s))
	}

	is.Equal(ProjectRow(rec, schema.Schema{"D", "A"}), Row{flatten.Of("4"), flatten.Of("1")})
}

func TestProjectRowIsIdempotent(t *testing.T) {
	is := is.New(t)

	rec := flatten.NewRecord(map[string]flatten.Value{"A": flatten.Of("x"), "B": flatten.Null()})
	s := schema.Schema{"B", "A", "Z"}

	first := ProjectRow(rec, s)
	first[0] = flatten.Of("mutated")

	second := ProjectRow(rec, s)
	third := ProjectRow(rec, s)

	is.Equal(second, third)
	is.True(second[0].IsNull())
}

func TestFitPadsAndTruncates(t *testing.T) {
	is := is.New(t)

	row := Row{flatten.Of("a"), flatten.Of("b"), flatten.Of("c")}

	padded := Fit(row, 5)
	is.Equal(len(padded), 5)
	is.True(padded[3].IsNull())
	is.True(padded[4].IsNull())

	truncated := Fit(row, 2)
	is.Equal(truncated, Row{flatten.Of("a"), flatten.Of("b")})

	is.Equal(len(Fit(row, -1)), 0)
	is.Equal(len(row), 3) // input is left alone
}

func TestPrepend(t *testing.T) {
	is := is.New(t)

	row := Prepend(Row{flatten.Of("b")}, flatten.Of("id"))

	is.Equal(row.Strings(), []string{"id", "b"})
}

func TestWriteCSV(t *testing.T) {
	is := is.New(t)

	table := NewTable([]string{"object_id", "Name", "Tags"})
	table.Append(Row{flatten.Of("1"), flatten.Of("router, north"), flatten.Of("prod|edge")})
	table.Append(Row{flatten.Of("2")})
	table.Append(Row{flatten.Of("3"), flatten.Null(), flatten.Of("x"), flatten.Of("overflow")})

	buf := &bytes.Buffer{}
	err := table.WriteCSV(buf)

	is.NoErr(err)
	is.Equal(table.Len(), 3)
	is.Equal(buf.String(), "object_id,Name,Tags\n1,\"router, north\",prod|edge\n2,,\n3,,x\n")
}

func TestSaveCSV(t *testing.T) {
	is := is.New(t)

	path := filepath.Join(t.TempDir(), "export.csv")

	table := NewTable([]string{"A"})
	table.Append(Row{flatten.Of("1")})

	is.NoErr(table.SaveCSV(path))

	b, err := os.ReadFile(path)
	is.NoErr(err)
	is.Equal(string(b), "A\n1\n")

	entries, _ := os.ReadDir(filepath.Dir(path))
	is.Equal(len(entries), 1) // no temporary files left behind
}

func TestSaveCSVIsReadableByOthers(t *testing.T) {
	is := is.New(t)

	path := filepath.Join(t.TempDir(), "export.csv")
	is.NoErr(NewTable([]string{"A"}).SaveCSV(path))

	info, err := os.Stat(path)
	is.NoErr(err)
	is.Equal(info.Mode().Perm(), os.FileMode(0644))
}
