package contexts

import (
	"clinfilter/api/models"
	classificationService "clinfilter/api/services/classification"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	//  an elasticsearch client and other variables
	ClinFilterContext struct {
		echo.Context
		Es7Client             *es7.Client
		Config                *models.Config
		ClassificationService *classificationService.ClassificationService
	}
)
