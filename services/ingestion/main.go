package ingestion

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"clinfilter/api/models"
	c "clinfilter/api/models/constants"
	"clinfilter/api/models/constants/chromosome"
	"clinfilter/api/models/panel"
	"clinfilter/api/models/ped"
	"clinfilter/api/models/variants"

	"github.com/Jeffail/gabs"
	"github.com/cenkalti/backoff"
	"github.com/gocarina/gocsv"
)

// pedRecord mirrors one tab-separated pedigree line; PED files carry
// no header row, so fields bind by position
type pedRecord struct {
	FamilyId     string `csv:"familyId"`
	IndividualId string `csv:"individualId"`
	PaternalId   string `csv:"paternalId"`
	MaternalId   string `csv:"maternalId"`
	Sex          string `csv:"sex"`
	Affected     string `csv:"affectedStatus"`
	VcfPath      string `csv:"vcfPath"`
}

// knownGeneRecord mirrors one line of the tab-separated DDG2P export
type knownGeneRecord struct {
	Gene      string `csv:"gene"`
	Chrom     string `csv:"chr"`
	Start     int    `csv:"start"`
	Stop      int    `csv:"stop"`
	Status    string `csv:"type"`
	Mode      string `csv:"mode"`
	Mechanism string `csv:"mech"`
}

func tabReader(in io.Reader) gocsv.CSVReader {
	r := csv.NewReader(in)
	r.Comma = '\t'
	r.Comment = '#'
	r.FieldsPerRecord = -1
	return r
}

// LoadFamilies reads a PED file into Family values, one per family id.
// Individuals with parental ids are children; their parents are
// resolved from the same family's lines.
func LoadFamilies(pedPath string) (map[string]*ped.Family, error) {
	f, err := os.Open(pedPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gocsv.SetCSVReader(tabReader)

	var records []*pedRecord
	if err := gocsv.UnmarshalWithoutHeaders(f, &records); err != nil {
		return nil, fmt.Errorf("failed to parse pedigree file %s : %v", pedPath, err)
	}

	byIndividual := map[string]*pedRecord{}
	for _, record := range records {
		byIndividual[record.IndividualId] = record
	}

	families := map[string]*ped.Family{}
	for _, record := range records {
		if record.PaternalId == "0" && record.MaternalId == "0" {
			// founders are only attached when a child references them
			continue
		}

		fam, ok := families[record.FamilyId]
		if !ok {
			fam = ped.NewFamily(record.FamilyId)
			families[record.FamilyId] = fam
		}

		fam.AddChild(record.IndividualId, record.VcfPath, record.Affected, record.Sex)

		if mother, ok := byIndividual[record.MaternalId]; ok {
			if err := fam.AddMother(mother.IndividualId, mother.VcfPath, mother.Affected, mother.Sex); err != nil {
				return nil, err
			}
		}
		if father, ok := byIndividual[record.PaternalId]; ok {
			if err := fam.AddFather(father.IndividualId, father.VcfPath, father.Affected, father.Sex); err != nil {
				return nil, err
			}
		}
	}

	for _, fam := range families {
		fam.SetChild()
	}

	return families, nil
}

// LoadKnownGenes reads the tab-separated DDG2P gene panel export
func LoadKnownGenes(path string) (panel.KnownGenes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseKnownGenes(f)
}

// FetchKnownGenes retrieves the panel over HTTP, with exponential
// backoff against transient upstream failures
func FetchKnownGenes(url string) (panel.KnownGenes, error) {
	var knownGenes panel.KnownGenes

	operation := func() error {
		resp, err := http.Get(url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("panel fetch from %s returned %s", url, resp.Status)
		}

		knownGenes, err = parseKnownGenes(resp.Body)
		return err
	}

	if err := backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)); err != nil {
		return nil, err
	}

	return knownGenes, nil
}

func parseKnownGenes(in io.Reader) (panel.KnownGenes, error) {
	gocsv.SetCSVReader(tabReader)

	var records []*knownGeneRecord
	if err := gocsv.Unmarshal(in, &records); err != nil {
		return nil, fmt.Errorf("failed to parse known genes : %v", err)
	}

	// panel lines repeat one gene per (mode, mechanism) pair
	knownGenes := panel.KnownGenes{}
	for _, record := range records {
		entry, ok := knownGenes[record.Gene]
		if !ok {
			entry = &panel.KnownGene{
				Symbol:      record.Gene,
				Inheritance: map[c.InheritanceMode]map[c.DosageMechanism]bool{},
				Status:      map[string]bool{},
				Chrom:       chromosome.Normalize(record.Chrom),
				Start:       record.Start,
				End:         record.Stop,
			}
			knownGenes[record.Gene] = entry
		}

		mode := c.InheritanceMode(record.Mode)
		if entry.Inheritance[mode] == nil {
			entry.Inheritance[mode] = map[c.DosageMechanism]bool{}
		}
		entry.Inheritance[mode][c.DosageMechanism(record.Mechanism)] = true
		entry.Status[record.Status] = true
	}

	return knownGenes, nil
}

// LoadSyndromeRegions reads the (chromosome, range) to copy-number
// table from its JSON export
func LoadSyndromeRegions(path string) (panel.SyndromeRegions, error) {
	parsed, err := gabs.ParseJSONFile(path)
	if err != nil {
		return nil, err
	}

	children, err := parsed.Children()
	if err != nil {
		return nil, fmt.Errorf("syndrome region file %s is not a JSON array : %v", path, err)
	}

	var regions panel.SyndromeRegions
	for _, child := range children {
		chrom, _ := child.Path("chrom").Data().(string)
		start, _ := child.Path("start").Data().(float64)
		end, _ := child.Path("end").Data().(float64)
		copyNumber, _ := child.Path("copyNumber").Data().(float64)

		regions = append(regions, panel.SyndromeRegion{
			Chrom:      chromosome.Normalize(chrom),
			Start:      int(start),
			End:        int(end),
			CopyNumber: int(copyNumber),
		})
	}

	return regions, nil
}

// ReadVcf parses one individual's VCF into Variant values, applying
// the record-level filters. Point-variant genotype validation failures
// abort the read; structural failures filter the record out silently.
func ReadVcf(cfg *models.Config, vcfPath string, sexCode string, knownGenes panel.KnownGenes) ([]*variants.Variant, error) {
	f, err := os.Open(vcfPath)
	if err != nil {
		fmt.Println("Failed to open file - ", err)
		return nil, err
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(vcfPath, ".gz") {
		gr, gzErr := gzip.NewReader(f)
		if gzErr != nil {
			return nil, gzErr
		}
		defer gr.Close()
		reader = gr
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var discoveredHeaders bool = false
	var parsed []*variants.Variant

	for scanner.Scan() {
		line := scanner.Text()

		// Gather Header row by seeking the CHROM string
		if !discoveredHeaders {
			if strings.HasPrefix(line, "#CHROM") {
				discoveredHeaders = true
			}
			continue
		}

		rowComponents := strings.Split(line, "\t")
		if len(rowComponents) < len(models.VcfHeaders)+1 {
			continue
		}

		variant, rowErr := parseVcfRow(rowComponents, sexCode)
		if rowErr != nil {
			// malformed point-variant genotypes indicate broken input
			return nil, rowErr
		}
		if variant == nil {
			continue
		}

		if variant.IsCnv() {
			variant.FixGeneIDs(knownGenes)
		}

		if !variant.PassesFilters(knownGenes) {
			if debuggingLocus(cfg, variant) {
				fmt.Printf("[%s] - %s filtered out\n", time.Now(), variant.Key())
			}
			continue
		}

		parsed = append(parsed, variant)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return parsed, nil
}

func parseVcfRow(rowComponents []string, sexCode string) (*variants.Variant, error) {
	var (
		chrom  = strings.TrimSpace(rowComponents[0])
		id     = strings.TrimSpace(rowComponents[2])
		ref    = strings.TrimSpace(rowComponents[3])
		alt    = strings.TrimSpace(rowComponents[4])
		qual   = strings.TrimSpace(rowComponents[5])
		filter = strings.TrimSpace(rowComponents[6])
		info   = strings.TrimSpace(rowComponents[7])
		format = strings.TrimSpace(rowComponents[8])
		sample = strings.TrimSpace(rowComponents[9])
	)

	if !chromosome.IsValidHumanChromosome(chrom) {
		return nil, nil
	}

	var pos int
	if _, err := fmt.Sscanf(strings.TrimSpace(rowComponents[1]), "%d", &pos); err != nil {
		return nil, nil
	}

	var variant *variants.Variant
	if strings.HasPrefix(alt, "<") {
		variant = variants.NewStructuralVariant(chrom, pos, id, ref, alt, filter)
	} else {
		variant = variants.NewPointVariant(chrom, pos, id, ref, alt, qual, filter)
	}

	variant.AddInfo(info)
	variant.AddFormat(format, sample)
	variant.SetSex(sexCode)

	// point-variant genotype resolution is fatal when malformed; the
	// structural equivalent is deferred to the filtering boundary
	if !variant.IsCnv() {
		if err := variant.SetGenotype(); err != nil {
			return nil, err
		}
	}

	return variant, nil
}

func debuggingLocus(cfg *models.Config, v *variants.Variant) bool {
	if cfg == nil || cfg.Filter.DebugChrom == "" {
		return false
	}
	return chromosome.Normalize(cfg.Filter.DebugChrom) == v.Chrom && cfg.Filter.DebugPos == v.Pos
}

// BuildTrioRecords pairs each child variant with the parents' calls at
// the same site. A parent present in the pedigree but lacking a call
// gets a homozygous-reference default; a parent absent from the
// pedigree stays nil.
func BuildTrioRecords(family *ped.Family, childVars []*variants.Variant, momVars []*variants.Variant, dadVars []*variants.Variant) ([]*variants.TrioRecord, error) {
	momByKey := map[string]*variants.Variant{}
	for _, v := range momVars {
		momByKey[v.Key()] = v
	}
	dadByKey := map[string]*variants.Variant{}
	for _, v := range dadVars {
		dadByKey[v.Key()] = v
	}

	var trios []*variants.TrioRecord
	for _, child := range childVars {
		trio := variants.NewTrioRecord(child)

		if family.Mother != nil {
			mom, ok := momByKey[child.Key()]
			if !ok {
				var err error
				if mom, err = defaultParentVariant(child, "F"); err != nil {
					return nil, err
				}
			}
			trio.AddMotherVariant(mom)
		}

		if family.Father != nil {
			dad, ok := dadByKey[child.Key()]
			if !ok {
				var err error
				if dad, err = defaultParentVariant(child, "M"); err != nil {
					return nil, err
				}
			}
			trio.AddFatherVariant(dad)
		}

		trios = append(trios, trio)
	}

	return trios, nil
}

// defaultParentVariant materializes a no-call at the child's site
func defaultParentVariant(child *variants.Variant, sexCode string) (*variants.Variant, error) {
	var parent *variants.Variant
	if child.IsCnv() {
		parent = variants.NewStructuralVariant(child.Chrom, child.Pos, child.Id, child.Ref, child.Alt, child.Filter)
	} else {
		parent = variants.NewPointVariant(child.Chrom, child.Pos, child.Id, child.Ref, child.Alt, child.Qual, child.Filter)
	}

	for key, value := range child.Info {
		parent.Info[key] = value
	}
	parent.Gene = child.Gene
	parent.SetSex(sexCode)

	if err := parent.SetDefaultGenotype(); err != nil {
		return nil, err
	}
	return parent, nil
}
