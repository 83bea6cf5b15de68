package classifications

import (
	"fmt"
	"net/http"
	"time"

	"clinfilter/api/contexts"
	"clinfilter/api/models/constants/chromosome"
	"clinfilter/api/models/dtos"
	"clinfilter/api/models/indexes"
	"clinfilter/api/models/panel"
	"clinfilter/api/models/requests"
	esRepo "clinfilter/api/repositories/elasticsearch"
	"clinfilter/api/services/ingestion"

	"github.com/google/uuid"
	"github.com/labstack/echo"
)

// ClassificationsRun queues the classification of one family from the
// configured pedigree
func ClassificationsRun(c echo.Context) error {
	fmt.Printf("[%s] - ClassificationsRun hit!\n", time.Now())

	gc := c.(*contexts.ClinFilterContext)
	cfg := gc.Config
	cz := gc.ClassificationService

	familyId := c.QueryParam("familyId")

	if cz.FamilyAlreadyRunning(familyId) {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("family %s is already being classified", familyId))
	}

	families, err := ingestion.LoadFamilies(cfg.Filter.PedPath)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	family, ok := families[familyId]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("no family %s in pedigree %s", familyId, cfg.Filter.PedPath))
	}

	knownGenes, regions, err := loadPanelData(gc)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	request := &requests.ClassificationRequest{
		Id:        uuid.New(),
		FamilyId:  familyId,
		State:     requests.Queued,
		CreatedAt: time.Now().String(),
	}
	cz.RequestChan <- request

	go cz.Run(request, family, knownGenes, regions)

	return c.JSON(http.StatusOK, &requests.ClassificationResponseDTO{
		Id:       request.Id,
		FamilyId: request.FamilyId,
		State:    request.State,
		Message:  "queued",
	})
}

// GetAllClassificationRequests lists the tracked requests
func GetAllClassificationRequests(c echo.Context) error {
	fmt.Printf("[%s] - GetAllClassificationRequests hit!\n", time.Now())

	cz := c.(*contexts.ClinFilterContext).ClassificationService

	cz.RequestMapMux.RLock()
	defer cz.RequestMapMux.RUnlock()

	m := make([]*requests.ClassificationRequest, 0)
	for _, request := range cz.RequestMap {
		m = append(m, request)
	}

	return c.JSON(http.StatusOK, m)
}

// ClassificationsGetByFamilyId returns the indexed verdicts for one
// family, optionally narrowed to a chromosome
func ClassificationsGetByFamilyId(c echo.Context) error {
	fmt.Printf("[%s] - ClassificationsGetByFamilyId hit!\n", time.Now())

	gc := c.(*contexts.ClinFilterContext)
	familyId := c.QueryParam("familyId")

	results, err := esRepo.GetClassificationsByFamilyId(gc.Config, gc.Es7Client, familyId)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if chromQP := c.QueryParam("chromosome"); len(chromQP) > 0 {
		wanted := chromosome.Normalize(chromQP)
		filtered := make([]indexes.ClassificationResult, 0)
		for _, result := range results {
			if result.Chrom == wanted {
				filtered = append(filtered, result)
			}
		}
		results = filtered
	}

	return c.JSON(http.StatusOK, &dtos.ClassificationsDataResponseDTO{
		FamilyId: familyId,
		Count:    len(results),
		Results:  results,
	})
}

// loadPanelData pulls the gene panel (from disk or over HTTP) and the
// syndrome-region table; both are optional
func loadPanelData(gc *contexts.ClinFilterContext) (panel.KnownGenes, panel.SyndromeRegions, error) {
	cfg := gc.Config

	var (
		knownGenes panel.KnownGenes
		regions    panel.SyndromeRegions
		err        error
	)

	if cfg.Filter.KnownGenesPath != "" {
		if knownGenes, err = ingestion.LoadKnownGenes(cfg.Filter.KnownGenesPath); err != nil {
			return nil, nil, err
		}
	} else if cfg.Filter.KnownGenesUrl != "" {
		if knownGenes, err = ingestion.FetchKnownGenes(cfg.Filter.KnownGenesUrl); err != nil {
			return nil, nil, err
		}
	}

	if cfg.Filter.SyndromeRegionsPath != "" {
		if regions, err = ingestion.LoadSyndromeRegions(cfg.Filter.SyndromeRegionsPath); err != nil {
			return nil, nil, err
		}
	}

	return knownGenes, regions, nil
}
