package deal

import (
	"time"

	"github.com/domoslabs/underwriter/pkg/enums"
)

// Deal is the structured record produced from an intake folder.
type Deal struct {
	ID            string           `json:"id" validate:"required"`
	PropertyName  string           `json:"propertyName" validate:"required"`
	Address       Address          `json:"address"`
	BasicInfo     BasicInfo        `json:"basicInfo"`
	LIHTCInfo     LIHTCInfo        `json:"lihtcInfo"`
	FinancialData FinancialData    `json:"financialData"`
	Status        enums.DealStatus `json:"status" validate:"required"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type BasicInfo struct {
	TotalUnits   int     `json:"totalUnits"`
	YearBuilt    int     `json:"yearBuilt"`
	PropertyType string  `json:"propertyType"`
	AskingPrice  float64 `json:"askingPrice"`
	PricePerUnit float64 `json:"pricePerUnit"`
}

type LIHTCInfo struct {
	CurrentlyLIHTC      bool   `json:"currentlyLIHTC"`
	PlacedInServiceDate string `json:"placedInServiceDate"`
	CompliancePeriodEnd string `json:"compliancePeriodEnd"`
	ExtendedUseEnd      string `json:"extendedUseEnd"`
	AMIRestriction      int    `json:"amiRestriction"`
	SetAsideRequirement string `json:"setAsideRequirement"`
	CurrentlyCompliant  bool   `json:"currentlyCompliant"`
	ViolationHistory    bool   `json:"violationHistory"`
}

type FinancialData struct {
	AnnualGrossRent    float64 `json:"annualGrossRent"`
	NetOperatingIncome float64 `json:"netOperatingIncome"`
	OperatingExpenses  float64 `json:"operatingExpenses"`
	ExpenseRatio       float64 `json:"expenseRatio"`
	OccupancyRate      float64 `json:"occupancyRate"`
}

// Tenant is a single rent roll row.
type Tenant struct {
	UnitNumber      string  `json:"unitNumber" validate:"required"`
	LeaseStart      string  `json:"leaseStart"`
	LeaseEnd        string  `json:"leaseEnd"`
	MonthlyRent     float64 `json:"monthlyRent"`
	SecurityDeposit float64 `json:"securityDeposit"`
	TenantName      string  `json:"tenantName"`
	OccupancyStatus string  `json:"occupancyStatus"`
	UnitType        string  `json:"unitType"`
	Sqft            float64 `json:"sqft"`
	LIHTCQualified  bool    `json:"lihtcQualified"`
	AMILevel        *int    `json:"amiLevel,omitempty"`
}

// FinancialSummary aggregates the trailing financial statement.
type FinancialSummary struct {
	PeriodStart        string            `json:"periodStart"`
	PeriodEnd          string            `json:"periodEnd"`
	TotalRevenue       float64           `json:"totalRevenue"`
	RentalIncome       float64           `json:"rentalIncome"`
	CommercialIncome   float64           `json:"commercialIncome"`
	OtherIncome        float64           `json:"otherIncome"`
	TotalExpenses      float64           `json:"totalExpenses"`
	OperatingExpenses  OperatingExpenses `json:"operatingExpenses"`
	NetOperatingIncome float64           `json:"netOperatingIncome"`
	DebtService        float64           `json:"debtService"`
	CashFlow           float64           `json:"cashFlow"`
	OccupancyMetrics   OccupancyMetrics  `json:"occupancyMetrics"`
}

type OperatingExpenses struct {
	Management     float64 `json:"management"`
	Maintenance    float64 `json:"maintenance"`
	Utilities      float64 `json:"utilities"`
	Insurance      float64 `json:"insurance"`
	Taxes          float64 `json:"taxes"`
	Marketing      float64 `json:"marketing"`
	Administrative float64 `json:"administrative"`
	Other          float64 `json:"other"`
}

type OccupancyMetrics struct {
	TotalUnits     int     `json:"totalUnits"`
	OccupiedUnits  int     `json:"occupiedUnits"`
	OccupancyRate  float64 `json:"occupancyRate"`
	AvgRentPerUnit float64 `json:"avgRentPerUnit"`
}

// SourceDocument is a cataloged file from the intake folder.
type SourceDocument struct {
	FileName     string                 `json:"fileName"`
	Category     enums.DocumentCategory `json:"category"`
	Path         string                 `json:"path"`
	Size         int64                  `json:"size"`
	LastModified time.Time              `json:"lastModified"`
}

// Structure bundles everything the intake builder produces for one deal.
type Structure struct {
	Deal             *Deal             `json:"deal"`
	Tenants          []Tenant          `json:"tenants"`
	FinancialSummary *FinancialSummary `json:"financialSummary"`
	SourceDocuments  []SourceDocument  `json:"sourceDocuments"`
}
