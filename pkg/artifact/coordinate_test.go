package artifact

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in   string
		want Coordinate
	}{
		{"com.smartbear.soapui:soapui:5.1.2", Coordinate{Group: "com.smartbear.soapui", Name: "soapui", Extension: "jar", Version: "5.1.2"}},
		{"org.example:lib:pom:1.0", Coordinate{Group: "org.example", Name: "lib", Extension: "pom", Version: "1.0"}},
		{"org.example:lib:jar:tests:1.0", Coordinate{Group: "org.example", Name: "lib", Extension: "jar", Classifier: "tests", Version: "1.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCoordinate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCoordinate_Invalid(t *testing.T) {
	for _, in := range []string{"", "a:b", "a::1", "a:b:c:d:e:f"} {
		_, err := ParseCoordinate(in)
		assert.True(t, errors.Is(err, ErrInvalidCoordinate), "input %q", in)
	}
}

func TestCoordinate_Path(t *testing.T) {
	c := MustParseCoordinate("org.example.group:lib:jar:tests:1.0")
	assert.Equal(t, "org/example/group/lib/1.0/lib-1.0-tests.jar", c.Path())
	assert.Equal(t, "org/example/group/lib/1.0/lib-1.0.pom", c.POM().Path())
	assert.Equal(t, "org.example.group:lib:jar:tests:1.0", c.String())
	assert.Equal(t, "org.example.group:lib:jar:tests", c.Key())
}

func TestResolveVersion(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1.0", "1.0"},
		{"[1.0]", "1.0"},
		{"[1.0,2.0)", "1.0"},
		{"(,2.0]", "2.0"},
		{"(1.0,2.0)", "1.0"},
		{"[1.2,1.3],[1.5,)", "1.2"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveVersion(tt.in), "range %q", tt.in)
	}
}

func TestTypeCoordinate(t *testing.T) {
	ext, cls := typeCoordinate("test-jar", "")
	assert.Equal(t, "jar", ext)
	assert.Equal(t, "tests", cls)

	ext, cls = typeCoordinate("bundle", "")
	assert.Equal(t, "jar", ext)
	assert.Empty(t, cls)

	ext, _ = typeCoordinate("pom", "")
	assert.Equal(t, "pom", ext)
}
