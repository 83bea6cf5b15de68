package middleware

import (
	"net/http"

	"clinfilter/api/models/constants/chromosome"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure a `familyId` HTTP query parameter was provided
*/
func MandateFamilyIdAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		familyId := c.QueryParam("familyId")
		if len(familyId) == 0 {
			// if no id was provided return an error
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'familyId' query parameter for querying!")
		}

		return next(c)
	}
}

/*
	Echo middleware to ensure the optional `chromosome` HTTP query parameter,
	when provided, names a valid human chromosome
*/
func ValidateOptionalChromosomeAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		chromQP := c.QueryParam("chromosome")
		if len(chromQP) == 0 {
			return next(c)
		}

		if !chromosome.IsValidHumanChromosome(chromQP) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid 'chromosome' query parameter! Check your input")
		}

		return next(c)
	}
}
