package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseTargetVersion(t *testing.T) {
	tests := []struct {
		input   string
		full    string
		short   string
		wantErr bool
	}{
		{"8.6", "8.6.0", "8.6", false},
		{"8.6.2", "8.6.2", "8.6", false},
		{" 8.2 ", "8.2.0", "8.2", false},
		{"", "", "", true},
		{"eight", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseTargetVersion(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.full, v.String())
			assert.Equal(t, tt.short, v.Short())
		})
	}
}

func Test_TargetVersion_AtLeast(t *testing.T) {
	tests := []struct {
		name    string
		target  TargetVersion
		minimum TargetVersion
		want    bool
	}{
		{"equal", MustParseTargetVersion("8.6"), MustParseTargetVersion("8.6"), true},
		{"higher", MustParseTargetVersion("8.7"), MustParseTargetVersion("8.6"), true},
		{"lower", MustParseTargetVersion("8.5"), MustParseTargetVersion("8.6"), false},
		{"patch above", MustParseTargetVersion("8.6.3"), MustParseTargetVersion("8.6"), true},
		{"no minimum", MustParseTargetVersion("8.0"), TargetVersion{}, true},
		{"no target", TargetVersion{}, MustParseTargetVersion("8.2"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.target.AtLeast(tt.minimum))
		})
	}
}
