package dealstore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/domoslabs/underwriter/internal/deal"
	"github.com/domoslabs/underwriter/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// On-disk layout under a deal folder.
const (
	StructuredDir        = "Structured"
	DealFile             = "deal.json"
	TenantsFile          = "tenants.json"
	FinancialSummaryFile = "financialSummary.json"
)

// Store persists the structured JSON triple for a deal folder.
type Store struct {
	validate *validator.Validate
}

func NewStore() *Store {
	return &Store{validate: validator.New()}
}

// SaveTriple writes deal.json, tenants.json and financialSummary.json under
// the deal folder's Structured directory.
func (s *Store) SaveTriple(dealPath string, d *deal.Deal, tenants []deal.Tenant, summary *deal.FinancialSummary) error {
	if err := s.validate.Struct(d); err != nil {
		return errors.Wrap(errors.CodeValidation, err, "validating deal record")
	}

	dir := filepath.Join(dealPath, StructuredDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.CodeIO, err, "creating structured directory")
	}

	if err := writeJSON(filepath.Join(dir, DealFile), d); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, TenantsFile), tenants); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, FinancialSummaryFile), summary)
}

// SaveDeal rewrites deal.json alone, for patching a copied deal in place.
func (s *Store) SaveDeal(dealPath string, d *deal.Deal) error {
	if err := s.validate.Struct(d); err != nil {
		return errors.Wrap(errors.CodeValidation, err, "validating deal record")
	}
	return writeJSON(filepath.Join(dealPath, StructuredDir, DealFile), d)
}

// LoadDeal reads the deal record, NOT_FOUND when the file is absent.
func (s *Store) LoadDeal(dealPath string) (*deal.Deal, error) {
	var d deal.Deal
	path := filepath.Join(dealPath, StructuredDir, DealFile)
	if err := readJSON(path, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadTenants reads the tenant roll. A missing file yields nil, nil since
// the triple may predate tenant extraction.
func (s *Store) LoadTenants(dealPath string) ([]deal.Tenant, error) {
	var tenants []deal.Tenant
	path := filepath.Join(dealPath, StructuredDir, TenantsFile)
	if err := readJSON(path, &tenants); err != nil {
		if errors.HasCode(err, errors.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return tenants, nil
}

// LoadFinancials reads the financial summary, nil when absent.
func (s *Store) LoadFinancials(dealPath string) (*deal.FinancialSummary, error) {
	var summary deal.FinancialSummary
	path := filepath.Join(dealPath, StructuredDir, FinancialSummaryFile)
	if err := readJSON(path, &summary); err != nil {
		if errors.HasCode(err, errors.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "encoding "+filepath.Base(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.CodeIO, err, "writing "+filepath.Base(path))
	}
	return nil
}

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.CodeNotFound, err, filepath.Base(path)+" not found")
		}
		return errors.Wrap(errors.CodeIO, err, "reading "+filepath.Base(path))
	}
	if err := json.Unmarshal(data, target); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "decoding "+filepath.Base(path))
	}
	return nil
}
