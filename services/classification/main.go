package classification

import (
	"fmt"
	"sync"
	"time"

	"clinfilter/api/models"
	c "clinfilter/api/models/constants"
	"clinfilter/api/models/constants/chromosome"
	cls "clinfilter/api/models/constants/classification"
	im "clinfilter/api/models/constants/inheritance-mode"
	"clinfilter/api/models/constants/sex"
	"clinfilter/api/models/indexes"
	"clinfilter/api/models/panel"
	"clinfilter/api/models/ped"
	"clinfilter/api/models/requests"
	"clinfilter/api/models/variants"
	esRepo "clinfilter/api/repositories/elasticsearch"
	"clinfilter/api/services/ingestion"
	"clinfilter/api/services/inheritance"

	"github.com/ahmetb/go-linq"
	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/go-co-op/gocron"
	"golang.org/x/sync/errgroup"
)

type (
	ClassificationService struct {
		Initialized   bool
		RequestChan   chan *requests.ClassificationRequest
		RequestMap    map[string]*requests.ClassificationRequest
		RequestMapMux sync.RWMutex

		Es7Client *es7.Client
		Config    *models.Config
	}
)

func NewClassificationService(es *es7.Client, cfg *models.Config) *ClassificationService {
	cz := &ClassificationService{
		Initialized:   false,
		RequestChan:   make(chan *requests.ClassificationRequest),
		RequestMap:    map[string]*requests.ClassificationRequest{},
		RequestMapMux: sync.RWMutex{},
		Es7Client:     es,
		Config:        cfg,
	}

	cz.Init()

	return cz
}

func (cz *ClassificationService) Init() {
	// safeguard to prevent multiple initilizations
	if !cz.Initialized {
		// spin up a go routine acting as a listener for classification
		// request updates
		go func() {
			for request := range cz.RequestChan {
				if request.State == requests.Queued {
					fmt.Printf("Queueing a new classification request for family %s\n", request.FamilyId)
				}

				request.UpdatedAt = time.Now().String()
				cz.RequestMapMux.Lock()
				cz.RequestMap[request.Id.String()] = request
				cz.RequestMapMux.Unlock()
			}
		}()

		// - spin up a go routine that will periodically
		//   clear terminal-state requests out of the tracking map
		//   so long-running deployments don't accumulate them
		go func() {
			s := gocron.NewScheduler(time.UTC)

			s.Every(1).Days().At("04:00:00").Do(func() {
				fmt.Printf("[%s] - Running classification request cleanup..\n", time.Now())

				cz.RequestMapMux.Lock()
				for id, request := range cz.RequestMap {
					if request.State == requests.Done || request.State == requests.Error {
						delete(cz.RequestMap, id)
					}
				}
				cz.RequestMapMux.Unlock()
			})

			// starts the scheduler in blocking mode, which blocks
			// the current execution path
			s.StartBlocking()
		}()

		cz.Initialized = true
		fmt.Println("Classification Service Initialized ..")
	}
}

// FamilyAlreadyRunning guards against double-submitting a family
func (cz *ClassificationService) FamilyAlreadyRunning(familyId string) bool {
	cz.RequestMapMux.RLock()
	defer cz.RequestMapMux.RUnlock()

	for _, request := range cz.RequestMap {
		if request.FamilyId == familyId &&
			(request.State == requests.Queued || request.State == requests.Running) {
			return true
		}
	}
	return false
}

// Run processes one queued request end to end: load each pedigree
// member's VCF, pair the calls into trio records, classify, and index
// the verdicts for downstream reporting
func (cz *ClassificationService) Run(request *requests.ClassificationRequest,
	family *ped.Family, knownGenes panel.KnownGenes, syndromeRegions panel.SyndromeRegions) {

	request.State = requests.Running
	cz.RequestChan <- request

	fail := func(err error) {
		fmt.Printf("[%s] - Classification of family %s failed : %v\n", time.Now(), family.Id, err)
		request.State = requests.Error
		request.Message = err.Error()
		cz.RequestChan <- request
	}

	// each child of the family is analysed as its own proband
	for family.Child != nil {
		trios, err := cz.loadTrioRecords(family, knownGenes)
		if err != nil {
			fail(err)
			return
		}

		results, err := cz.ClassifyFamily(family, trios, knownGenes, syndromeRegions)
		if err != nil {
			fail(err)
			return
		}

		fmt.Printf("[%s] - Family %s proband %s : %d candidate(s)\n",
			time.Now(), family.Id, family.Child.Id, len(results))

		for _, candidate := range results {
			doc := cz.toIndexDoc(family, candidate)
			if err := esRepo.IndexClassification(cz.Config, cz.Es7Client, doc); err != nil {
				fail(err)
				return
			}
		}

		family.SetChildExamined()
	}

	request.State = requests.Done
	cz.RequestChan <- request
}

func (cz *ClassificationService) loadTrioRecords(family *ped.Family, knownGenes panel.KnownGenes) ([]*variants.TrioRecord, error) {
	childVars, err := ingestion.ReadVcf(cz.Config, family.Child.VcfPath, sex.SexToString(family.Child.Sex), knownGenes)
	if err != nil {
		return nil, err
	}

	var momVars, dadVars []*variants.Variant
	if family.Mother != nil {
		if momVars, err = ingestion.ReadVcf(cz.Config, family.Mother.VcfPath, "F", knownGenes); err != nil {
			return nil, err
		}
	}
	if family.Father != nil {
		if dadVars, err = ingestion.ReadVcf(cz.Config, family.Father.VcfPath, "M", knownGenes); err != nil {
			return nil, err
		}
	}

	return ingestion.BuildTrioRecords(family, childVars, momVars, dadVars)
}

// ClassifyFamily evaluates every trio record for the family's current
// proband. Records are grouped by gene and the groups classified in
// parallel; within a group classification stays synchronous so the
// candidate lists keep their pairing order.
func (cz *ClassificationService) ClassifyFamily(family *ped.Family, trios []*variants.TrioRecord,
	knownGenes panel.KnownGenes, syndromeRegions panel.SyndromeRegions) ([]*inheritance.CandidateVariant, error) {

	var geneGroups []linq.Group
	linq.From(trios).GroupByT(
		func(trio *variants.TrioRecord) string { return trio.Gene() },
		func(trio *variants.TrioRecord) *variants.TrioRecord { return trio },
	).ToSlice(&geneGroups)

	var (
		g           errgroup.Group
		resultsMux  sync.Mutex
		allResults  []*inheritance.CandidateVariant
		concurrency = cz.Config.Api.TrioConcurrencyLevel
	)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for _, group := range geneGroups {
		gene, _ := group.Key.(string)

		geneTrios := make([]*variants.TrioRecord, 0, len(group.Group))
		for _, item := range group.Group {
			geneTrios = append(geneTrios, item.(*variants.TrioRecord))
		}

		g.Go(func() error {
			geneResults, err := cz.classifyGene(family, gene, geneTrios, knownGenes, syndromeRegions)
			if err != nil {
				return err
			}

			resultsMux.Lock()
			allResults = append(allResults, geneResults...)
			resultsMux.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return allResults, nil
}

func (cz *ClassificationService) classifyGene(family *ped.Family, gene string,
	trios []*variants.TrioRecord, knownGenes panel.KnownGenes,
	syndromeRegions panel.SyndromeRegions) ([]*inheritance.CandidateVariant, error) {

	geneModes := cz.geneModes(gene, knownGenes)

	hasPointVariant := false
	for _, trio := range trios {
		if !trio.IsCnv() {
			hasPointVariant = true
			break
		}
	}

	// point variants in genes outside a loaded panel carry no usable
	// mode annotation; CNVs still get the non-panel checks
	if hasPointVariant && geneModes == nil {
		geneModes = map[c.InheritanceMode]bool{}
	}

	var eng interface {
		CheckVariants() error
		Results() ([]*inheritance.CandidateVariant, []*inheritance.CandidateVariant)
		Route(*variants.TrioRecord, inheritance.Result, c.InheritanceMode)
	}
	if chromosome.IsAllosome(trios[0].Chrom()) {
		eng = inheritance.NewAllosomal(trios, family, geneModes)
	} else {
		eng = inheritance.NewAutosomal(trios, family, geneModes)
	}

	if err := eng.CheckVariants(); err != nil {
		return nil, err
	}

	for _, trio := range trios {
		if !trio.IsCnv() {
			continue
		}
		cnvInh := inheritance.NewCNVInheritance(trio, family, knownGenes, syndromeRegions)
		eng.Route(trio, cnvInh.CheckCandidacy(), "")
	}

	candidates, compoundHets := eng.Results()
	return append(candidates, compoundHets...), nil
}

// geneModes resolves the inheritance modes to evaluate a gene under;
// without a curated panel every supported mode is in play
func (cz *ClassificationService) geneModes(gene string, knownGenes panel.KnownGenes) map[c.InheritanceMode]bool {
	if knownGenes == nil {
		return im.NewModeSet(im.Monoallelic, im.Biallelic, im.Both, im.XLinkedDominant, im.Hemizygous)
	}
	entry, ok := knownGenes[gene]
	if !ok {
		return nil
	}
	return entry.Modes()
}

func (cz *ClassificationService) toIndexDoc(family *ped.Family, candidate *inheritance.CandidateVariant) *indexes.ClassificationResult {
	child := candidate.Variant.Child
	return &indexes.ClassificationResult{
		FamilyId:        family.Id,
		ProbandId:       family.Child.Id,
		Gene:            candidate.Variant.Gene(),
		VariantKey:      candidate.Variant.Key(),
		Chrom:           child.Chrom,
		Pos:             child.Pos,
		Classification:  cls.ClassificationToString(candidate.Check),
		Reason:          candidate.Reason,
		InheritanceMode: string(candidate.Mode),
		CreatedTime:     time.Now(),
	}
}
