package queryrunner

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"bookstore/internal/book"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_JSON(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, false)

	err := p.Print("PROJECTED BOOKS", []book.Book{
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Price: 14.99},
	})
	require.NoError(t, err)

	text := out.String()
	require.True(t, strings.HasPrefix(text, "PROJECTED BOOKS:\n"))
	assert.True(t, strings.HasSuffix(text, "\n\n"))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(text, "PROJECTED BOOKS:\n")), &decoded))
	assert.Equal(t, []map[string]interface{}{
		{"title": "The Hobbit", "author": "J.R.R. Tolkien", "price": 14.99},
	}, decoded)
}

func TestPrinter_Color(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewPrinter(&out, true).Print("BOOK DELETED", DeleteResult{DeletedCount: 1}))
	assert.Contains(t, out.String(), "\x1b[")
}

func TestPrinter_Message(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewPrinter(&out, false).Print("Created index on 'title'", Message("title_1")))
	assert.Equal(t, "Created index on 'title': title_1\n\n", out.String())
}

func TestPrinter_Table(t *testing.T) {
	var out bytes.Buffer
	err := NewPrinter(&out, false).Print("Books Grouped by Decade", Table{
		Header: []string{"_id", "count"},
		Rows: [][]string{
			{"1810s", "1"},
			{"1930s", "2"},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Books Grouped by Decade:", lines[0])
	assert.Equal(t, []string{"(index)", "_id", "count"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"-------", "---", "-----"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"0", "1810s", "1"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"1", "1930s", "2"}, strings.Fields(lines[4]))

	// columns line up
	assert.Equal(t, strings.Index(lines[1], "_id"), strings.Index(lines[3], "1810s"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("stdout closed") }

func TestPrinter_WriteError(t *testing.T) {
	err := NewPrinter(failingWriter{}, false).Print("ALL AVAILABLE BOOKS", []book.Book{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `print "ALL AVAILABLE BOOKS"`)
	assert.Contains(t, err.Error(), "stdout closed")
}
