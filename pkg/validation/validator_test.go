package validation

import (
	"strings"
	"testing"
)

type cacheSection struct {
	Backend string `yaml:"backend" validate:"omitempty,oneof=none memory file"`
	Dir     string `yaml:"dir" validate:"required_if=Backend file"`
}

type layoutSection struct {
	Width      float64 `yaml:"width" validate:"gt=0"`
	Iterations int     `yaml:"iterations" validate:"gte=0"`
	Endpoint   string  `yaml:"endpoint" validate:"omitempty,url"`
}

type rootSection struct {
	Name   string        `yaml:"name" validate:"required"`
	Cache  cacheSection  `yaml:"cache"`
	Layout layoutSection `yaml:"layout"`
	Tags   []string      `yaml:"tags" validate:"dive,required"`
}

func validRoot() rootSection {
	return rootSection{
		Name:   "atlas",
		Cache:  cacheSection{Backend: "memory"},
		Layout: layoutSection{Width: 100},
	}
}

func TestStruct_Valid(t *testing.T) {
	r := validRoot()
	if err := Struct(&r); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestStruct_Nil(t *testing.T) {
	if err := Struct(nil); err == nil {
		t.Error("Expected error for nil value")
	}
}

func TestStruct_Messages(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*rootSection)
		want   string
	}{
		{
			name:   "required",
			mutate: func(r *rootSection) { r.Name = "" },
			want:   "name: field is required",
		},
		{
			name:   "required_if",
			mutate: func(r *rootSection) { r.Cache.Backend = "file" },
			want:   "cache.dir: field is required when Backend is file",
		},
		{
			name:   "oneof",
			mutate: func(r *rootSection) { r.Cache.Backend = "redis" },
			want:   "cache.backend: must be one of [none memory file], got 'redis'",
		},
		{
			name:   "gt",
			mutate: func(r *rootSection) { r.Layout.Width = 0 },
			want:   "layout.width: must be greater than 0",
		},
		{
			name:   "gte",
			mutate: func(r *rootSection) { r.Layout.Iterations = -5 },
			want:   "layout.iterations: must be at least 0",
		},
		{
			name:   "url",
			mutate: func(r *rootSection) { r.Layout.Endpoint = "not a url" },
			want:   "layout.endpoint: 'not a url' is not a valid URL",
		},
		{
			name:   "dive",
			mutate: func(r *rootSection) { r.Tags = []string{"ok", ""} },
			want:   "tags[1]: field is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRoot()
			tt.mutate(&r)

			err := Struct(&r)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected message containing %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestStruct_ReportsEveryField(t *testing.T) {
	r := validRoot()
	r.Name = ""
	r.Layout.Width = -1

	err := Struct(&r)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "name:") || !strings.Contains(msg, "layout.width:") {
		t.Errorf("Expected both failures reported, got %q", msg)
	}
}

func TestValidateAttributeName(t *testing.T) {
	tests := []struct {
		name        string
		attr        string
		expectError bool
	}{
		{"simple", "categories", false},
		{"community level", "louvain_community_wiki_R1.00_L0", false},
		{"dashed", "effect-category", false},
		{"leading digit", "1st", false},
		{"space", "effect category", true},
		{"special char", "name!", true},
		{"leading dot", ".hidden", true},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 101), true},
		{"max length", strings.Repeat("a", 100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttributeName(tt.attr)

			if tt.expectError && err == nil {
				t.Errorf("Expected error for attribute '%s' but got nil", tt.attr)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error for attribute '%s' but got: %v", tt.attr, err)
			}
		})
	}
}
