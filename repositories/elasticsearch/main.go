package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"clinfilter/api/models"
	"clinfilter/api/models/indexes"
	"clinfilter/api/utils"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/mitchellh/mapstructure"
)

const classificationsIndex = "classifications"

// CreateClassificationsIndex sets up the results index with an
// explicit mapping; recreating an existing index is not an error
func CreateClassificationsIndex(cfg *models.Config, es *elasticsearch.Client) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(map[string]interface{}{
		"mappings": indexes.CLASSIFICATIONS_INDEX_MAPPING,
	}); err != nil {
		return err
	}

	res, err := es.Indices.Create(
		classificationsIndex,
		es.Indices.Create.WithContext(context.Background()),
		es.Indices.Create.WithBody(&buf),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && !strings.Contains(res.String(), "resource_already_exists_exception") {
		return fmt.Errorf("failed to create index %s : %s", classificationsIndex, res.String())
	}

	return nil
}

func IndexClassification(cfg *models.Config, es *elasticsearch.Client, result *indexes.ClassificationResult) error {
	resultData, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		return marshalErr
	}

	res, err := es.Index(
		classificationsIndex,
		bytes.NewReader(resultData),
		es.Index.WithContext(context.Background()),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to index classification for %s : %s", result.FamilyId, res.String())
	}

	return nil
}

func GetClassificationsByFamilyId(cfg *models.Config, es *elasticsearch.Client, familyId string) ([]indexes.ClassificationResult, error) {

	// overall query structure
	var buf bytes.Buffer
	query := map[string]interface{}{
		"size": 10000,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{{
					"bool": map[string]interface{}{
						"must": []map[string]interface{}{
							{
								"query_string": map[string]string{
									"query": fmt.Sprintf("familyId:%s", familyId),
								},
							},
						},
					}},
				},
			},
		},
	}

	// encode the query
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		log.Printf("Error encoding query: %s\n", err)
		return nil, err
	}

	if cfg.Debug {
		// view the outbound elasticsearch query
		fmt.Println(buf.String())
	}

	fmt.Printf("Query Start: %s\n", time.Now())

	// Perform the search request.
	res, searchErr := es.Search(
		es.Search.WithContext(context.Background()),
		es.Search.WithIndex(classificationsIndex),
		es.Search.WithBody(&buf),
		es.Search.WithTrackTotalHits(true),
		es.Search.WithPretty(),
	)
	if searchErr != nil {
		fmt.Printf("Error getting response: %s\n", searchErr)
		return nil, searchErr
	}

	defer res.Body.Close()

	resultString := res.String()
	if cfg.Debug {
		fmt.Println(resultString)
	}

	// Unmarshal or Decode the JSON to the interface.
	// Known bug: response comes back with a preceding '[200 OK] ' which needs trimming
	bracketString, jsonBodyString := utils.GetLeadingStringInBetweenSquareBrackets(resultString)
	if !strings.Contains(bracketString, "200") {
		return nil, fmt.Errorf("failed to get classifications by family id : got '%s'", bracketString)
	}

	result := make(map[string]interface{})
	umErr := json.Unmarshal([]byte(jsonBodyString), &result)
	if umErr != nil {
		fmt.Printf("Error unmarshalling response: %s\n", umErr)
		return nil, umErr
	}

	fmt.Printf("Query End: %s\n", time.Now())

	// gather data from "hits"
	docsHits := result["hits"].(map[string]interface{})["hits"]
	allDocHits := []map[string]interface{}{}
	mapstructure.Decode(docsHits, &allDocHits)

	// grab _source for each hit
	classifications := make([]indexes.ClassificationResult, 0)
	for _, docHit := range allDocHits {
		source := docHit["_source"]
		byteSlice, _ := json.Marshal(source)

		var classification indexes.ClassificationResult
		if err := json.Unmarshal(byteSlice, &classification); err != nil {
			fmt.Println("failed to unmarshal:", err)
			continue
		}

		classifications = append(classifications, classification)
	}

	return classifications, nil
}
