package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeImagesPrefersJSONList(t *testing.T) {
	tests := []struct {
		name    string
		imgURL  string
		imgURLs string
		want    []string
	}{
		{
			name:    "json list wins over legacy column",
			imgURL:  "https://cdn.example/legacy.jpg",
			imgURLs: `["https://cdn.example/a.jpg","https://cdn.example/b.jpg"]`,
			want:    []string{"https://cdn.example/a.jpg", "https://cdn.example/b.jpg"},
		},
		{
			name:   "legacy column becomes one-element slice",
			imgURL: "https://cdn.example/legacy.jpg",
			want:   []string{"https://cdn.example/legacy.jpg"},
		},
		{
			name:    "malformed json falls back to legacy",
			imgURL:  "https://cdn.example/legacy.jpg",
			imgURLs: `{"oops"`,
			want:    []string{"https://cdn.example/legacy.jpg"},
		},
		{
			name:    "empty json list falls back to legacy",
			imgURL:  "https://cdn.example/legacy.jpg",
			imgURLs: `[]`,
			want:    []string{"https://cdn.example/legacy.jpg"},
		},
		{
			name: "no images at all yields empty slice",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{ImageURL: tt.imgURL, ImageURLs: tt.imgURLs}
			require.NoError(t, p.AfterFind(nil))
			assert.Equal(t, tt.want, p.Images)
		})
	}
}

func TestBeforeSaveWritesBothColumns(t *testing.T) {
	p := Product{Images: []string{"https://cdn.example/a.jpg", "https://cdn.example/b.jpg"}}
	require.NoError(t, p.BeforeSave(nil))

	assert.Equal(t, "https://cdn.example/a.jpg", p.ImageURL)
	assert.JSONEq(t, `["https://cdn.example/a.jpg","https://cdn.example/b.jpg"]`, p.ImageURLs)
}

func TestBeforeSaveLeavesColumnsWhenNoImages(t *testing.T) {
	p := Product{ImageURL: "https://cdn.example/kept.jpg"}
	require.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, "https://cdn.example/kept.jpg", p.ImageURL)
	assert.Empty(t, p.ImageURLs)
}

func TestFirstImage(t *testing.T) {
	assert.Equal(t, "a.jpg", (&Product{Images: []string{"a.jpg", "b.jpg"}}).FirstImage())
	assert.Equal(t, "", (&Product{}).FirstImage())
}
