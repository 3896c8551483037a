// Package intake turns a raw due diligence folder into a structured deal.
package intake

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/domoslabs/underwriter/internal/deal"
	"github.com/domoslabs/underwriter/internal/dealstore"
	"github.com/domoslabs/underwriter/internal/extract"
	"github.com/domoslabs/underwriter/internal/journey"
	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/domoslabs/underwriter/pkg/errors"
	"github.com/domoslabs/underwriter/pkg/logger"
)

// Builder orchestrates extraction and persistence for a new deal.
type Builder struct {
	outputDir string
	extractor *extract.Extractor
	store     *dealstore.Store
	index     *dealstore.Index
	log       *logger.Logger
	now       func() time.Time
}

func NewBuilder(outputDir string, extractor *extract.Extractor, store *dealstore.Store, index *dealstore.Index, log *logger.Logger) *Builder {
	return &Builder{
		outputDir: outputDir,
		extractor: extractor,
		store:     store,
		index:     index,
		log:       log,
		now:       time.Now,
	}
}

// WithClock fixes the clock used for deal IDs and timestamps.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// ProcessFolder builds the structured deal from a due diligence folder and
// persists it under a new timestamped output directory. The output directory
// path is returned. A failure to create the directory is fatal; extraction
// problems are not.
func (b *Builder) ProcessFolder(ctx context.Context, folder string) (string, *deal.Structure, error) {
	propertyName := propertyNameFrom(folder)
	dealID := b.dealID(folder, propertyName)
	dealPath := filepath.Join(b.outputDir, dealID)

	if err := os.MkdirAll(dealPath, 0o755); err != nil {
		return "", nil, errors.Wrap(errors.CodeIO, err, "creating deal output directory")
	}
	if b.log != nil {
		ctx = b.log.WithDealID(ctx, dealID)
		b.log.Info(ctx, "processing deal folder "+folder)
	}

	result := b.extractor.Extract(ctx, folder)

	d := b.newDeal(dealID, propertyName, result)
	structure := &deal.Structure{
		Deal:             d,
		Tenants:          result.Tenants,
		FinancialSummary: result.FinancialSummary,
		SourceDocuments:  catalogDocuments(folder),
	}

	if err := b.store.SaveTriple(dealPath, d, structure.Tenants, structure.FinancialSummary); err != nil {
		return "", nil, err
	}

	initial := journey.RenderInitial(d, b.now())
	if err := os.WriteFile(filepath.Join(dealPath, "AnalysisJourney.md"), []byte(initial), 0o644); err != nil {
		return "", nil, errors.Wrap(errors.CodeIO, err, "writing analysis journey")
	}

	if b.index != nil {
		record := dealstore.DealRecord{
			ID:            dealID,
			PropertyName:  propertyName,
			Status:        d.Status.String(),
			CurrentStage:  enums.StageIntake.String(),
			CanonicalPath: dealPath,
		}
		if err := b.index.Register(ctx, record, dealPath, enums.StageIntake); err != nil {
			return "", nil, err
		}
	}

	if b.log != nil {
		b.log.Info(ctx, "deal processing completed: "+dealPath)
	}
	return dealPath, structure, nil
}

func (b *Builder) newDeal(dealID, propertyName string, result *extract.Result) *deal.Deal {
	now := b.now().UTC()
	d := &deal.Deal{
		ID:           dealID,
		PropertyName: propertyName,
		Address: deal.Address{
			Street: "TBD",
			City:   "TBD",
			State:  "TBD",
			Zip:    "TBD",
		},
		BasicInfo: deal.BasicInfo{
			TotalUnits: result.FinancialSummary.OccupancyMetrics.TotalUnits,
		},
		LIHTCInfo: deal.LIHTCInfo{
			PlacedInServiceDate: "TBD",
			CompliancePeriodEnd: "TBD",
			ExtendedUseEnd:      "TBD",
			AMIRestriction:      60,
			SetAsideRequirement: "20% at 50% AMI",
		},
		Status:    enums.DealStatusIncoming,
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.ApplyFinancials(result.FinancialSummary)
	return d
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slug(name string) string {
	cleaned := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(cleaned, "-")
}

// dealID is slug(property) plus a filesystem-safe timestamp. Folders that
// already hold processed output get a reanalysis prefix.
func (b *Builder) dealID(folder, propertyName string) string {
	stamp := b.now().UTC().Format("2006-01-02T15-04-05")
	id := fmt.Sprintf("%s-%s", slug(propertyName), stamp)
	if alreadyProcessed(folder) {
		id = "reanalysis-" + id
	}
	return id
}

func alreadyProcessed(folder string) bool {
	_, err := os.Stat(filepath.Join(folder, dealstore.StructuredDir, dealstore.DealFile))
	return err == nil
}

func propertyNameFrom(folder string) string {
	base := filepath.Base(filepath.Clean(folder))
	words := strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

func catalogDocuments(folder string) []deal.SourceDocument {
	var documents []deal.SourceDocument
	filepath.WalkDir(folder, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return nil
		}
		relative, err := filepath.Rel(folder, path)
		if err != nil {
			relative = entry.Name()
		}
		documents = append(documents, deal.SourceDocument{
			FileName:     entry.Name(),
			Category:     categorize(relative),
			Path:         path,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
		return nil
	})
	return documents
}

// categorize buckets by the relative path, so directory names like
// "Historic Financials" count toward the category.
func categorize(relativePath string) enums.DocumentCategory {
	lower := strings.ToLower(relativePath)
	switch {
	case strings.Contains(lower, "financials"),
		strings.Contains(lower, "income"),
		strings.Contains(lower, "t12"):
		return enums.DocumentCategoryFinancial
	case strings.Contains(lower, "rent"), strings.Contains(lower, "tenant"):
		return enums.DocumentCategoryRentRoll
	case strings.Contains(lower, "legal"), strings.Contains(lower, "lease"):
		return enums.DocumentCategoryLegal
	case strings.Contains(lower, "property"), strings.Contains(lower, "physical"):
		return enums.DocumentCategoryProperty
	default:
		return enums.CategorizeDocument(filepath.Base(relativePath))
	}
}
