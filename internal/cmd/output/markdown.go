package output

import (
	"io"

	md "github.com/nao1215/markdown"
)

// MarkdownFormatter outputs GitHub-flavored markdown tables, suitable for
// pasting comparison reports into tickets and pull requests.
type MarkdownFormatter struct{}

// Format writes data as a markdown table. Values that cannot be tabulated
// are written as a fenced JSON block.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	var tableData *Data
	switch v := data.(type) {
	case Data:
		tableData = &v
	case *Data:
		tableData = v
	default:
		tableData = convertToTableData(data)
	}

	doc := md.NewMarkdown(w)
	if tableData == nil {
		body, err := marshalIndent(data)
		if err != nil {
			return err
		}
		doc.CodeBlocks(md.SyntaxHighlight("json"), body)
		return doc.Build()
	}

	rows := tableData.Rows
	if rows == nil {
		rows = [][]string{}
	}
	doc.Table(md.TableSet{Header: tableData.Headers, Rows: rows})
	return doc.Build()
}
