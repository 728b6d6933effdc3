package utilities

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hashed)

	assert.True(t, VerifyPassword(hashed, "s3cret-pass"))
	assert.False(t, VerifyPassword(hashed, "wrong"))
}

func TestExtractBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)

	_, err := ExtractBearerToken(c)
	assert.Error(t, err)

	c.Request.Header.Set("Authorization", "Bearer abc.def.ghi")
	tok, err := ExtractBearerToken(c)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	c.Request.Header.Set("Authorization", "Basic abc")
	_, err = ExtractBearerToken(c)
	assert.Error(t, err)
}

func TestExtractValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := ExtractValue[string](c, SessionKey)
	assert.ErrorIs(t, err, ErrNoSession)

	c.Set(SessionKey, 42)
	_, err = ExtractValue[string](c, SessionKey)
	assert.Error(t, err)

	c.Set(SessionKey, "ok")
	v, err := ExtractValue[string](c, SessionKey)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("admin@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
}
