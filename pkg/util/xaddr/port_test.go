package xaddr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePort(t *testing.T) {
	tests := []struct {
		input  string
		want   uint16
		wantOK bool
	}{
		{input: "0", want: 0, wantOK: true},
		{input: "8096", want: 8096, wantOK: true},
		{input: "65535", want: 65535, wantOK: true},
		{input: "65536", wantOK: false},
		{input: "-1", wantOK: false},
		{input: "+80", wantOK: false},
		{input: "", wantOK: false},
		{input: "http", wantOK: false},
		{input: " 80", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParsePort(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
