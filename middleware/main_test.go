package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
)

func setUpRequest(queryString string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+queryString, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestMandateFamilyIdAttribute(t *testing.T) {
	t.Run("should pass through with a familyId", func(t *testing.T) {
		ctx, rec := setUpRequest("familyId=fam1")
		assert.NoError(t, MandateFamilyIdAttribute(okHandler)(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("should reject a missing familyId", func(t *testing.T) {
		ctx, _ := setUpRequest("")
		err := MandateFamilyIdAttribute(okHandler)(ctx)
		assert.Error(t, err)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestValidateOptionalChromosomeAttribute(t *testing.T) {
	t.Run("should pass through without a chromosome", func(t *testing.T) {
		ctx, rec := setUpRequest("familyId=fam1")
		assert.NoError(t, ValidateOptionalChromosomeAttribute(okHandler)(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("should accept valid chromosomes", func(t *testing.T) {
		for _, chrom := range []string{"1", "22", "X", "Y", "chrX", "MT"} {
			ctx, rec := setUpRequest("chromosome=" + chrom)
			assert.NoError(t, ValidateOptionalChromosomeAttribute(okHandler)(ctx))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("should reject invalid chromosomes", func(t *testing.T) {
		for _, chrom := range []string{"0", "24", "banana"} {
			ctx, _ := setUpRequest("chromosome=" + chrom)
			err := ValidateOptionalChromosomeAttribute(okHandler)(ctx)
			assert.Error(t, err)

			httpErr, ok := err.(*echo.HTTPError)
			assert.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		}
	})
}
