package domain

import (
	"strings"
	"testing"
)

func strptr(s string) *string { return &s }

func TestCheckStructBookmarkCreate(t *testing.T) {
	tests := []struct {
		name      string
		create    BookmarkCreate
		wantField string // "" means valid
	}{
		{
			name:   "minimal valid create",
			create: BookmarkCreate{URL: "https://go.dev/blog/"},
		},
		{
			name: "full valid create",
			create: BookmarkCreate{
				URL:          "https://example.com/article",
				Title:        strptr("An article"),
				Description:  strptr("Worth reading"),
				CollectionID: strptr("c-1"),
			},
		},
		{
			name:      "missing url",
			create:    BookmarkCreate{},
			wantField: "url",
		},
		{
			name:      "malformed url",
			create:    BookmarkCreate{URL: "not a url"},
			wantField: "url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckStruct(tt.create)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("CheckStruct() = %v, want nil", err)
				}
				return
			}
			fe, ok := err.(FieldErrors)
			if !ok {
				t.Fatalf("CheckStruct() = %T, want FieldErrors", err)
			}
			if fe.Field(tt.wantField) == "" {
				t.Errorf("no error recorded for field %q, got %v", tt.wantField, fe)
			}
		})
	}
}

func TestCheckStructTagShape(t *testing.T) {
	tests := []struct {
		name      string
		tag       Tag
		wantField string
	}{
		{name: "valid", tag: Tag{TagName: "go-lang", UsageCount: 1}},
		{name: "uppercase rejected", tag: Tag{TagName: "Reading"}, wantField: "tagName"},
		{name: "spaces rejected", tag: Tag{TagName: "to read"}, wantField: "tagName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckStruct(tt.tag)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("CheckStruct() = %v, want nil", err)
				}
				return
			}
			fe, ok := err.(FieldErrors)
			if !ok {
				t.Fatalf("CheckStruct() = %T, want FieldErrors", err)
			}
			if fe.Field(tt.wantField) == "" {
				t.Errorf("no error recorded for field %q, got %v", tt.wantField, fe)
			}
		})
	}
}

func TestCheckTagName(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantErr bool
	}{
		{name: "simple", tag: "reading", wantErr: false},
		{name: "with dash and digits", tag: "go-123", wantErr: false},
		{name: "with underscore", tag: "to_read", wantErr: false},
		{name: "empty", tag: "", wantErr: true},
		{name: "uppercase rejected", tag: "Reading", wantErr: true},
		{name: "spaces rejected", tag: "to read", wantErr: true},
		{name: "too long", tag: strings.Repeat("a", 65), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTagName(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckTagName(%q) = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
			if err != nil {
				if _, ok := err.(FieldErrors); !ok {
					t.Errorf("CheckTagName(%q) = %T, want FieldErrors", tt.tag, err)
				}
			}
		})
	}
}

func TestDiffTags(t *testing.T) {
	tests := []struct {
		name       string
		current    []string
		desired    []string
		wantAdd    []string
		wantRemove []string
	}{
		{
			name:    "no change",
			current: []string{"a", "b"},
			desired: []string{"a", "b"},
		},
		{
			name:    "add to existing",
			current: []string{"y"},
			desired: []string{"x", "y"},
			wantAdd: []string{"x"},
		},
		{
			name:       "remove all",
			current:    []string{"a", "b"},
			desired:    nil,
			wantRemove: []string{"a", "b"},
		},
		{
			name:       "swap",
			current:    []string{"old"},
			desired:    []string{"new"},
			wantAdd:    []string{"new"},
			wantRemove: []string{"old"},
		},
		{
			name:    "from empty",
			current: nil,
			desired: []string{"a"},
			wantAdd: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta := DiffTags(tt.current, tt.desired)
			if !slicesEqual(delta.Add, tt.wantAdd) {
				t.Errorf("Add = %v, want %v", delta.Add, tt.wantAdd)
			}
			if !slicesEqual(delta.Remove, tt.wantRemove) {
				t.Errorf("Remove = %v, want %v", delta.Remove, tt.wantRemove)
			}
			if delta.Empty() != (len(tt.wantAdd) == 0 && len(tt.wantRemove) == 0) {
				t.Errorf("Empty() = %v inconsistent with delta %v", delta.Empty(), delta)
			}
		})
	}
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
