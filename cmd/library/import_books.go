package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/stanleyamo/library-management-system/circulation"
	"github.com/stanleyamo/library-management-system/circulation/features/command/addbook"
	"github.com/stanleyamo/library-management-system/core"
)

// ErrMissingColumn is returned when the CSV header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// CSV header names. isbn, title, author and total_copies are required.
const (
	columnISBN          = "isbn"
	columnTitle         = "title"
	columnAuthor        = "author"
	columnGenre         = "genre"
	columnPublishedYear = "published_year"
	columnPublisher     = "publisher"
	columnCallNumber    = "call_number"
	columnDescription   = "description"
	columnCoverImage    = "cover_image"
	columnTotalCopies   = "total_copies"
)

var requiredColumns = []string{columnISBN, columnTitle, columnAuthor, columnTotalCopies}

// bookRow is one parsed CSV record. Line is 1-based and counts the header.
type bookRow struct {
	Line  int
	Draft core.BookDraft
	Err   error
}

// importResult is echoed as one JSON line per row.
type importResult struct {
	Line   int    `json:"line"`
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	BookID string `json:"bookId,omitempty"`
	Error  string `json:"error,omitempty"`
}

type importReport struct {
	Imported int
	Failed   int
}

func newImportBooksCommand(flags *rootFlags) *cobra.Command {
	var librarianID string

	cmd := &cobra.Command{
		Use:   "import-books <file.csv>",
		Short: "Add the books of a CSV file to the catalog",
		Long: "Reads a CSV file with a header row (isbn, title, author, total_copies and optionally genre, " +
			"published_year, publisher, call_number, description, cover_image) and adds every row as a book. " +
			"Rows that fail validation are reported and skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.settings()
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			rows, err := readBookRows(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			rt, err := openRuntime(ctx, s)
			if err != nil {
				return err
			}

			defer func() { _ = rt.Close(ctx) }()

			if err := rt.migrate(ctx); err != nil {
				return err
			}

			service, err := rt.newService()
			if err != nil {
				return err
			}

			report, err := importBooks(ctx, service, core.Librarian(librarianID), rows, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			cmd.PrintErrf("imported %d books, %d failed\n", report.Imported, report.Failed)

			return nil
		},
	}

	cmd.Flags().StringVar(&librarianID, "librarian", "import", "librarian user id recorded as the actor")

	return cmd
}

// readBookRows parses a CSV catalog. Header names are matched case-insensitively.
func readBookRows(r io.Reader) ([]bookRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, column := range requiredColumns {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
		}
	}

	var rows []bookRow

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}

		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rows = append(rows, parseBookRow(line, record, index))
	}
}

func parseBookRow(line int, record []string, index map[string]int) bookRow {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}

		return strings.TrimSpace(record[i])
	}

	row := bookRow{
		Line: line,
		Draft: core.BookDraft{
			ISBN:        field(columnISBN),
			Title:       field(columnTitle),
			Author:      field(columnAuthor),
			Genre:       field(columnGenre),
			Publisher:   field(columnPublisher),
			CallNumber:  field(columnCallNumber),
			Description: field(columnDescription),
			CoverImage:  field(columnCoverImage),
		},
	}

	copies, err := strconv.Atoi(field(columnTotalCopies))
	if err != nil {
		row.Err = fmt.Errorf("%s: %w", columnTotalCopies, err)
		return row
	}

	row.Draft.TotalCopies = copies

	if raw := field(columnPublishedYear); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			row.Err = fmt.Errorf("%s: %w", columnPublishedYear, err)
			return row
		}

		row.Draft.PublishedYear = year
	}

	return row
}

// importBooks adds every valid row and writes one JSON result per row to out.
// Business failures are reported per row; any other error aborts the import.
func importBooks(
	ctx context.Context,
	service *circulation.Service,
	actor core.Actor,
	rows []bookRow,
	out io.Writer,
) (importReport, error) {
	var report importReport

	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(out)

	for _, row := range rows {
		result := importResult{Line: row.Line, ISBN: row.Draft.ISBN, Title: row.Draft.Title}

		switch {
		case row.Err != nil:
			result.Error = row.Err.Error()
		default:
			book, err := service.AddBook(ctx, addbook.BuildCommand(actor, row.Draft))
			if err != nil && !core.IsFailure(err) {
				return report, fmt.Errorf("line %d: %w", row.Line, err)
			}

			if err != nil {
				result.Error = err.Error()
			} else {
				result.BookID = book.ID.String()
			}
		}

		if result.Error != "" {
			report.Failed++
		} else {
			report.Imported++
		}

		if err := encoder.Encode(result); err != nil {
			return report, err
		}
	}

	return report, nil
}
