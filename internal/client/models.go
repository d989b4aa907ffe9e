// ABOUTME: Request and response types for the BookX API
// ABOUTME: Includes boundary validation and multipart encoding for book create/update forms

package client

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Book represents one listing offered for free exchange
type Book struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Description   string `json:"description"`
	ImageURL      string `json:"image_url"`
	PhoneNumber   string `json:"phone_number"`
	Location      string `json:"location"`
	OwnerUsername string `json:"owner_username"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	IsActive      bool   `json:"is_active"`
}

func (b *Book) validate() error {
	if b.ID <= 0 {
		return fmt.Errorf("%w: book record missing id", ErrMalformedResponse)
	}
	if b.Title == "" {
		return fmt.Errorf("%w: book %d missing title", ErrMalformedResponse, b.ID)
	}
	return nil
}

// Created parses CreatedAt. The zero time is returned when it is absent or unparseable.
func (b *Book) Created() time.Time {
	t, err := time.Parse(time.RFC3339Nano, b.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SearchParams are the query options for /api/books/search/
type SearchParams struct {
	Q       string
	Titles  []string
	Authors []string
}

// IsEmpty reports whether no search criteria are set
func (p SearchParams) IsEmpty() bool {
	return p.Q == "" && len(p.Titles) == 0 && len(p.Authors) == 0
}

// Values encodes params with one repeated key per array element
func (p SearchParams) Values() url.Values {
	v := url.Values{}
	if p.Q != "" {
		v.Set("q", p.Q)
	}
	for _, title := range p.Titles {
		v.Add("titles", title)
	}
	for _, author := range p.Authors {
		v.Add("authors", author)
	}
	return v
}

// Image is a cover image file to upload
type Image struct {
	Filename string
	Data     []byte
}

// LoadImage reads an image file from disk
func LoadImage(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &Image{Filename: filepath.Base(path), Data: data}, nil
}

func (img *Image) contentType() string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(img.Filename))); ct != "" {
		return ct
	}
	return http.DetectContentType(img.Data)
}

// CreateBookInput is the form for a new listing. Title and Location are required.
type CreateBookInput struct {
	Title       string
	Author      string
	Description string
	Location    string
	PhoneNumber string
	Image       *Image
}

func (in CreateBookInput) normalized() CreateBookInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	return in
}

// Validate checks the required fields
func (in CreateBookInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	return nil
}

func (in CreateBookInput) encode() ([]byte, string, error) {
	f := newForm()
	f.field("title", in.Title)
	f.field("location", in.Location)
	f.optional("author", in.Author)
	f.optional("description", in.Description)
	f.optional("phone_number", in.PhoneNumber)
	f.image(in.Image)
	return f.close()
}

// UpdateBookInput is a partial update. Nil fields are not sent.
type UpdateBookInput struct {
	Title       *string
	Author      *string
	Description *string
	Location    *string
	PhoneNumber *string
	Image       *Image
}

// IsEmpty reports whether no field is set
func (in UpdateBookInput) IsEmpty() bool {
	return in.Title == nil && in.Author == nil && in.Description == nil &&
		in.Location == nil && in.PhoneNumber == nil && in.Image == nil
}

func (in UpdateBookInput) encode() ([]byte, string, error) {
	f := newForm()
	f.pointer("title", in.Title)
	f.pointer("author", in.Author)
	f.pointer("description", in.Description)
	f.pointer("location", in.Location)
	f.pointer("phone_number", in.PhoneNumber)
	f.image(in.Image)
	return f.close()
}

// form accumulates multipart fields, keeping the first write error
type form struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newForm() *form {
	f := &form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *form) field(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.w.WriteField(name, value)
}

func (f *form) optional(name, value string) {
	if value != "" {
		f.field(name, value)
	}
}

func (f *form) pointer(name string, value *string) {
	if value != nil {
		f.field(name, *value)
	}
}

func (f *form) image(img *Image) {
	if img == nil || f.err != nil {
		return
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, img.Filename))
	h.Set("Content-Type", img.contentType())

	part, err := f.w.CreatePart(h)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = part.Write(img.Data)
}

func (f *form) close() ([]byte, string, error) {
	if f.err != nil {
		return nil, "", fmt.Errorf("failed to encode form: %w", f.err)
	}
	if err := f.w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to encode form: %w", err)
	}
	return f.buf.Bytes(), f.w.FormDataContentType(), nil
}

// SuggestedBook is one AI suggestion
type SuggestedBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Why    string `json:"why"`
}

// AIAdvice is the free-text part of an advice response
type AIAdvice struct {
	QueryIntent    string          `json:"query_intent"`
	Topics         []string        `json:"topics"`
	SuggestedBooks []SuggestedBook `json:"suggested_books"`
}

// FilterQuery is the structured fallback filter for client-side search
type FilterQuery struct {
	Titles  []string `json:"titles,omitempty"`
	Authors []string `json:"authors,omitempty"`
}

// IsEmpty reports whether the filter has neither titles nor authors
func (f FilterQuery) IsEmpty() bool {
	return len(f.Titles) == 0 && len(f.Authors) == 0
}

// AdviceResponse represents the /api/ai/books/advice/ response
type AdviceResponse struct {
	AI           *AIAdvice   `json:"ai"`
	MatchedBooks []Book      `json:"matched_books"`
	FilterQuery  FilterQuery `json:"filter_query"`
}

func (a *AdviceResponse) validate() error {
	if a.AI == nil {
		return fmt.Errorf("%w: advice response missing ai section", ErrMalformedResponse)
	}
	return validateBooks(a.MatchedBooks)
}
