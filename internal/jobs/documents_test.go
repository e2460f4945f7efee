package jobs

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ysenarath/textflow/internal/domain/document"
	"github.com/ysenarath/textflow/internal/repository/mocks"
)

func TestParseUploadCSV(t *testing.T) {
	input := "Text,ID\nhello world,a1\nsecond doc,a2\n"

	records, err := ParseUpload(strings.NewReader(input), "docs.csv")
	require.NoError(t, err)
	require.Equal(t, []UploadRecord{
		{SourceID: "a1", Text: "hello world"},
		{SourceID: "a2", Text: "second doc"},
	}, records)
}

func TestParseUploadCSVMissingColumns(t *testing.T) {
	_, err := ParseUpload(strings.NewReader("text,body\nx,y\n"), "docs.csv")
	require.Error(t, err)
}

func TestParseUploadJSONL(t *testing.T) {
	input := `{"id": "a1", "text": "hello"}
{"ID": 42, "Text": "numeric id"}

{"id": "a3", "text": "after blank line"}
`

	records, err := ParseUpload(strings.NewReader(input), "docs.jsonl")
	require.NoError(t, err)
	require.Equal(t, []UploadRecord{
		{SourceID: "a1", Text: "hello"},
		{SourceID: "42", Text: "numeric id"},
		{SourceID: "a3", Text: "after blank line"},
	}, records)
}

func TestParseUploadJSONLMissingField(t *testing.T) {
	_, err := ParseUpload(strings.NewReader(`{"id": "a1"}`), "docs.jsonl")
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 1")
}

func TestParseUploadUnsupportedFormat(t *testing.T) {
	_, err := ParseUpload(strings.NewReader("x"), "docs.xml")
	require.Error(t, err)
}

func TestUploadDocumentsNormalizesText(t *testing.T) {
	documents := new(mocks.DocumentRepository)
	var created []*document.Document
	documents.On("Create", mock.Anything, mock.AnythingOfType("*document.Document")).
		Run(func(args mock.Arguments) {
			created = append(created, args.Get(1).(*document.Document))
		}).
		Return(nil)

	fn := UploadDocuments(documents, 10, []UploadRecord{
		{SourceID: "a1", Text: "line one\nline <two>"},
	})
	require.NoError(t, fn(context.Background()))
	require.Len(t, created, 1)
	require.Equal(t, int64(10), created[0].ProjectID)
	require.Equal(t, "a1", created[0].SourceID)
	require.Equal(t, "line one line &lt;two&gt;", created[0].Text)
}

func TestDeleteDocumentsPages(t *testing.T) {
	documents := new(mocks.DocumentRepository)

	ids := make([]int64, deletePageSize+5)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	documents.On("ListIDs", mock.Anything, int64(10)).Return(ids, nil)

	var pages [][]int64
	documents.On("DeleteByIDs", mock.Anything, mock.AnythingOfType("[]int64")).
		Run(func(args mock.Arguments) {
			pages = append(pages, args.Get(1).([]int64))
		}).
		Return(nil)

	require.NoError(t, DeleteDocuments(documents, 10)(context.Background()))
	require.Len(t, pages, 2)
	require.Len(t, pages[0], deletePageSize)
	require.Len(t, pages[1], 5)
}

func TestDeleteDocumentsEmptyProject(t *testing.T) {
	documents := new(mocks.DocumentRepository)
	documents.On("ListIDs", mock.Anything, int64(10)).Return([]int64{}, nil)

	require.NoError(t, DeleteDocuments(documents, 10)(context.Background()))
	documents.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything)
}
