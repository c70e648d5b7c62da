package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePOM(t *testing.T) {
	p, err := parsePOM([]byte(`<project xmlns="http://maven.apache.org/POM/4.0.0">
  <parent><groupId>com.example</groupId><artifactId>parent</artifactId><version>2</version></parent>
  <artifactId>child</artifactId>
  <packaging>pom</packaging>
  <properties><lib.version>1.4</lib.version></properties>
  <dependencies>
    <dependency>
      <groupId>com.example</groupId><artifactId>lib</artifactId><version>${lib.version}</version>
      <scope>runtime</scope><optional>true</optional>
      <exclusions><exclusion><groupId>*</groupId><artifactId>log</artifactId></exclusion></exclusions>
    </dependency>
  </dependencies>
</project>`))
	require.NoError(t, err)

	assert.Equal(t, "child", p.Name)
	assert.Equal(t, "pom", p.Packaging)
	require.NotNil(t, p.Parent)
	assert.Equal(t, "parent", p.Parent.Name)
	assert.Equal(t, "1.4", p.Properties["lib.version"])
	require.Len(t, p.Deps, 1)
	assert.Equal(t, ScopeRuntime, p.Deps[0].Scope)
	assert.True(t, p.Deps[0].Optional)
	assert.Equal(t, []exclusion{{Group: "*", Name: "log"}}, p.Deps[0].Exclusions)
}

func TestParsePOM_DeclaredCharset(t *testing.T) {
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<project><groupId>com.example</groupId><artifactId>legacy</artifactId><version>1</version>" +
		"<properties><author>Jos\xe9</author></properties></project>")

	p, err := parsePOM(data)
	require.NoError(t, err)
	assert.Equal(t, "José", p.Properties["author"])
}

func TestParsePOM_Invalid(t *testing.T) {
	_, err := parsePOM([]byte("<project"))
	assert.ErrorIs(t, err, ErrInvalidPOM)

	_, err = parsePOM([]byte("<settings/>"))
	assert.ErrorIs(t, err, ErrInvalidPOM)
}
