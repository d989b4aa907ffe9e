// ABOUTME: Books commands for bookx CLI
// ABOUTME: Lists, searches, shows, creates, updates, and deletes book listings

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/swapbook/bookx/cli/internal/client"
	"github.com/swapbook/bookx/cli/internal/tui/detail"
)

var (
	searchTitles  []string
	searchAuthors []string

	bookTitle       string
	bookAuthor      string
	bookDescription string
	bookLocation    string
	bookPhone       string
	bookImage       string
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Browse and manage book listings",
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all books available for exchange",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context) int {
			return runBooksList(ctx, os.Stdout)
		})
	},
}

var booksSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search books by free text, titles, or authors",
	Long: `Search books. The optional query matches title, author, and description.
--title and --author may be repeated; each value is sent as its own parameter.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		params := client.SearchParams{Titles: searchTitles, Authors: searchAuthors}
		if len(args) == 1 {
			params.Q = args[0]
		}
		runCommand(func(ctx context.Context) int {
			return runBooksSearch(ctx, os.Stdout, params)
		})
	},
}

var booksShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a book and how to contact its owner",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context) int {
			return runBooksShow(ctx, os.Stdout, args[0])
		})
	},
}

var booksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "List a book for exchange",
	Long:  `List a book for exchange. --title and --location are required.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		input := client.CreateBookInput{
			Title:       bookTitle,
			Author:      bookAuthor,
			Description: bookDescription,
			Location:    bookLocation,
			PhoneNumber: bookPhone,
		}
		runCommand(func(ctx context.Context) int {
			return runBooksCreate(ctx, os.Stdout, input, bookImage)
		})
	},
}

var booksUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a book you listed",
	Long:  `Update a book. Only the flags you pass are sent.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := client.UpdateBookInput{}
		flags := cmd.Flags()
		if flags.Changed("title") {
			input.Title = &bookTitle
		}
		if flags.Changed("author") {
			input.Author = &bookAuthor
		}
		if flags.Changed("description") {
			input.Description = &bookDescription
		}
		if flags.Changed("location") {
			input.Location = &bookLocation
		}
		if flags.Changed("phone") {
			input.PhoneNumber = &bookPhone
		}
		runCommand(func(ctx context.Context) int {
			return runBooksUpdate(ctx, os.Stdout, args[0], input, bookImage)
		})
	},
}

var booksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a book you listed",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context) int {
			return runBooksDelete(ctx, os.Stdout, args[0])
		})
	},
}

func init() {
	booksSearchCmd.Flags().StringArrayVar(&searchTitles, "title", nil, "Match a title (repeatable)")
	booksSearchCmd.Flags().StringArrayVar(&searchAuthors, "author", nil, "Match an author (repeatable)")

	for _, c := range []*cobra.Command{booksCreateCmd, booksUpdateCmd} {
		c.Flags().StringVar(&bookTitle, "title", "", "Book title")
		c.Flags().StringVar(&bookAuthor, "author", "", "Author")
		c.Flags().StringVar(&bookDescription, "description", "", "Description")
		c.Flags().StringVar(&bookLocation, "location", "", "Where the book can be picked up")
		c.Flags().StringVar(&bookPhone, "phone", "", "Contact phone number")
		c.Flags().StringVar(&bookImage, "image", "", "Path to a cover image")
	}

	booksCmd.AddCommand(booksListCmd, booksSearchCmd, booksShowCmd, booksCreateCmd, booksUpdateCmd, booksDeleteCmd)
	rootCmd.AddCommand(booksCmd)
}

// parseBookID validates a book id argument
func parseBookID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: book id must be a positive number, got %q", client.ErrInvalidInput, arg)
	}
	return id, nil
}

// runBooksList prints every active listing
func runBooksList(ctx context.Context, w io.Writer) int {
	books, err := newAPIClient().ListBooks(ctx)
	if err != nil {
		return reportError(w, err)
	}
	printBooks(w, books)
	return exitOK
}

// runBooksSearch prints the books matching params
func runBooksSearch(ctx context.Context, w io.Writer, params client.SearchParams) int {
	books, err := newAPIClient().SearchBooks(ctx, params)
	if err != nil {
		return reportError(w, err)
	}
	printBooks(w, books)
	return exitOK
}

// runBooksShow prints one book with its contact line
func runBooksShow(ctx context.Context, w io.Writer, arg string) int {
	id, err := parseBookID(arg)
	if err != nil {
		return reportError(w, err)
	}

	book, err := newAPIClient().GetBook(ctx, id)
	if err != nil {
		if client.IsNotFound(err) {
			fmt.Fprintf(w, "Error: book %d not found\n", id)
			return exitFailed
		}
		return reportError(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(book))
	} else {
		fmt.Fprintln(w, formatBookHuman(book))
	}
	return exitOK
}

// runBooksCreate lists a new book, attaching the cover at imagePath if given
func runBooksCreate(ctx context.Context, w io.Writer, input client.CreateBookInput, imagePath string) int {
	if imagePath != "" {
		img, err := client.LoadImage(imagePath)
		if err != nil {
			return reportError(w, err)
		}
		input.Image = img
	}

	book, err := newAPIClient().CreateBook(ctx, input)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(book))
	} else {
		fmt.Fprintf(w, "Listed %q as book %d\n", book.Title, book.ID)
	}
	return exitOK
}

// runBooksUpdate sends the set fields of input for the book arg
func runBooksUpdate(ctx context.Context, w io.Writer, arg string, input client.UpdateBookInput, imagePath string) int {
	id, err := parseBookID(arg)
	if err != nil {
		return reportError(w, err)
	}

	if imagePath != "" {
		img, err := client.LoadImage(imagePath)
		if err != nil {
			return reportError(w, err)
		}
		input.Image = img
	}
	if input.IsEmpty() {
		fmt.Fprintln(w, "Error: nothing to update; pass at least one field flag")
		return exitFailed
	}

	book, err := newAPIClient().UpdateBook(ctx, id, input)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(book))
	} else {
		fmt.Fprintf(w, "Updated book %d\n", book.ID)
	}
	return exitOK
}

// runBooksDelete removes the book arg
func runBooksDelete(ctx context.Context, w io.Writer, arg string) int {
	id, err := parseBookID(arg)
	if err != nil {
		return reportError(w, err)
	}

	if err := newAPIClient().DeleteBook(ctx, id); err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]interface{}{"id": id, "deleted": true}))
	} else {
		fmt.Fprintf(w, "Deleted book %d\n", id)
	}
	return exitOK
}

// printBooks writes books as JSON or a table
func printBooks(w io.Writer, books []client.Book) {
	if IsJSONOutput() {
		if books == nil {
			books = []client.Book{}
		}
		fmt.Fprintln(w, formatJSON(books))
		return
	}
	fmt.Fprintln(w, formatBooksTable(books))
}

// formatBooksTable renders books as a bordered table
func formatBooksTable(books []client.Book) string {
	if len(books) == 0 {
		return "No books found."
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "AUTHOR", "LOCATION", "LISTED")

	for _, b := range books {
		listed := ""
		if created := b.Created(); !created.IsZero() {
			listed = humanize.Time(created)
		}
		t.Row(strconv.Itoa(b.ID), b.Title, b.Author, b.Location, listed)
	}

	return t.Render() + fmt.Sprintf("\n%d books available for exchange", len(books))
}

// formatBookHuman formats one book for human readability
func formatBookHuman(b *client.Book) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Title:       %s\n", b.Title)
	if b.Author != "" {
		fmt.Fprintf(&sb, "Author:      %s\n", b.Author)
	}
	fmt.Fprintf(&sb, "Location:    %s\n", b.Location)
	if b.PhoneNumber != "" {
		fmt.Fprintf(&sb, "Phone:       %s\n", b.PhoneNumber)
	}
	if b.OwnerUsername != "" {
		fmt.Fprintf(&sb, "Listed by:   %s\n", b.OwnerUsername)
	}
	if created := b.Created(); !created.IsZero() {
		fmt.Fprintf(&sb, "Listed:      %s\n", humanize.Time(created))
	}
	if b.ImageURL != "" {
		fmt.Fprintf(&sb, "Cover:       %s\n", b.ImageURL)
	}
	if b.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", b.Description)
	}
	sb.WriteString("\n")
	sb.WriteString(detail.ContactText(b))

	return sb.String()
}
