package base64_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"expohub/shared/base64"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{name: "png data uri", file: "data:image/png;base64,iVBORw0KGgo=", want: "image/png"},
		{name: "pdf data uri", file: "data:application/pdf;base64,JVBERi0=", want: "application/pdf"},
		{name: "no header", file: "iVBORw0KGgo=", want: ""},
		{name: "empty", file: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base64.GetContentType(tt.file))
		})
	}
}

func TestStripPrefix(t *testing.T) {
	assert.Equal(t, "iVBORw0KGgo=", base64.StripPrefix("data:image/png;base64,iVBORw0KGgo="))
	assert.Equal(t, "iVBORw0KGgo=", base64.StripPrefix("iVBORw0KGgo="))
}
