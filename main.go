package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"clinfilter/api/contexts"
	cfm "clinfilter/api/middleware"
	"clinfilter/api/models"
	classificationsMvc "clinfilter/api/mvc/classifications"
	esRepo "clinfilter/api/repositories/elasticsearch"
	classificationService "clinfilter/api/services/classification"
	"clinfilter/api/utils"

	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

const configFilePath = "config.yml"

func main() {
	// Gather environment variables
	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	// optional file-based overrides
	if err := utils.OverrideConfigFromFile(&cfg, configFilePath); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tPedigree Path : %s \n"+
		"\tKnown Genes Path : %s \n"+
		"\tKnown Genes Url : %s \n"+
		"\tSyndrome Regions Path : %s \n"+
		"\tTrio Concurrency Level : %d\n"+
		"\tElasticsearch Url : %s \n"+
		"\tElasticsearch Username : %s\n\n"+

		"Running on Port : %s\n",

		cfg.Debug,
		cfg.Filter.PedPath,
		cfg.Filter.KnownGenesPath,
		cfg.Filter.KnownGenesUrl,
		cfg.Filter.SyndromeRegionsPath,
		cfg.Api.TrioConcurrencyLevel,
		cfg.Elasticsearch.Url, cfg.Elasticsearch.Username,
		cfg.Api.Port)
	// --

	// Instantiate Server
	e := echo.New()

	// Service Connections:
	// -- Elasticsearch
	es := utils.CreateEsConnection(&cfg)
	if err := esRepo.CreateClassificationsIndex(&cfg, es); err != nil {
		fmt.Printf("Failed to ensure classifications index : %v\n", err)
	}

	// Service Singletons
	cz := classificationService.NewClassificationService(es, &cfg)

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with "custom clinfilter" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.ClinFilterContext{
				Context:               c,
				Es7Client:             es,
				Config:                &cfg,
				ClassificationService: cz,
			}
			return h(cc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", func(c echo.Context) error {
		fmt.Printf("[%s] - Root hit!\n", time.Now())
		return c.JSON(http.StatusOK, "Welcome to the trio variant classification service!")
	})

	// -- Classifications
	e.GET("/classifications/run", classificationsMvc.ClassificationsRun,
		// middleware
		cfm.MandateFamilyIdAttribute)
	e.GET("/classifications/requests", classificationsMvc.GetAllClassificationRequests)
	e.GET("/classifications/get/by/familyId", classificationsMvc.ClassificationsGetByFamilyId,
		// middleware
		cfm.MandateFamilyIdAttribute,
		cfm.ValidateOptionalChromosomeAttribute)

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}
