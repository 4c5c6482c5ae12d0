package translate

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Typed views of each domain's filter object, for fetch collaborators
// that prefer structs over the flat map.

type Pagination struct {
	Page  int `mapstructure:"page" json:"page"`
	Limit int `mapstructure:"limit" json:"limit"`
}

type ContactFilters struct {
	Pagination     `mapstructure:",squash"`
	Status         string `mapstructure:"status" json:"status,omitempty"`
	Search         string `mapstructure:"search" json:"search,omitempty"`
	Group          string `mapstructure:"group" json:"group,omitempty"`
	Classification string `mapstructure:"classification" json:"classification,omitempty"`
}

type IssueFilters struct {
	Pagination `mapstructure:",squash"`
	Status     string   `mapstructure:"status" json:"status,omitempty"`
	Search     string   `mapstructure:"search" json:"search,omitempty"`
	Priority   string   `mapstructure:"priority" json:"priority,omitempty"`
	VehicleID  string   `mapstructure:"vehicleId" json:"vehicleId,omitempty"`
	AssignedTo string   `mapstructure:"assignedTo" json:"assignedTo,omitempty"`
	Labels     []string `mapstructure:"labels" json:"labels,omitempty"`
	GroupID    string   `mapstructure:"groupId" json:"groupId,omitempty"`
	StartDate  string   `mapstructure:"startDate" json:"startDate,omitempty"`
	EndDate    string   `mapstructure:"endDate" json:"endDate,omitempty"`
	SortBy     string   `mapstructure:"sortBy" json:"sortBy,omitempty"`
	SortOrder  string   `mapstructure:"sortOrder" json:"sortOrder,omitempty"`
}

type ServiceReminderFilters struct {
	Pagination `mapstructure:",squash"`
	Status     string `mapstructure:"status" json:"status,omitempty"`
	Overdue    bool   `mapstructure:"overdue" json:"overdue,omitempty"`
	Search     string `mapstructure:"search" json:"search,omitempty"`
	VehicleID  string `mapstructure:"vehicleId" json:"vehicleId,omitempty"`
	GroupID    string `mapstructure:"groupId" json:"groupId,omitempty"`
	StartDate  string `mapstructure:"startDate" json:"startDate,omitempty"`
	EndDate    string `mapstructure:"endDate" json:"endDate,omitempty"`
}

type VehicleRenewalFilters struct {
	Pagination `mapstructure:",squash"`
	Status     string `mapstructure:"status" json:"status,omitempty"`
	Overdue    bool   `mapstructure:"overdue" json:"overdue,omitempty"`
	DueSoon    bool   `mapstructure:"dueSoon" json:"dueSoon,omitempty"`
	Type       string `mapstructure:"type" json:"type,omitempty"`
	VehicleID  string `mapstructure:"vehicleId" json:"vehicleId,omitempty"`
	GroupID    string `mapstructure:"groupId" json:"groupId,omitempty"`
	StartDate  string `mapstructure:"startDate" json:"startDate,omitempty"`
	EndDate    string `mapstructure:"endDate" json:"endDate,omitempty"`
}

type ServiceEntryFilters struct {
	Pagination  `mapstructure:",squash"`
	Status      string `mapstructure:"status" json:"status,omitempty"`
	IsWorkOrder bool   `mapstructure:"isWorkOrder" json:"isWorkOrder,omitempty"`
	Search      string `mapstructure:"search" json:"search,omitempty"`
	VehicleID   string `mapstructure:"vehicleId" json:"vehicleId,omitempty"`
	GroupID     string `mapstructure:"groupId" json:"groupId,omitempty"`
	VendorID    string `mapstructure:"vendorId" json:"vendorId,omitempty"`
	StartDate   string `mapstructure:"startDate" json:"startDate,omitempty"`
	EndDate     string `mapstructure:"endDate" json:"endDate,omitempty"`
}

type WorkOrderFilters struct {
	ServiceEntryFilters `mapstructure:",squash"`
	Priority            string  `mapstructure:"priority" json:"priority,omitempty"`
	AssignedTo          string  `mapstructure:"assignedTo" json:"assignedTo,omitempty"`
	CostMin             float64 `mapstructure:"costMin" json:"costMin,omitempty"`
	CostMax             float64 `mapstructure:"costMax" json:"costMax,omitempty"`
}

type VendorFilters struct {
	Pagination     `mapstructure:",squash"`
	Classification string `mapstructure:"classification" json:"classification,omitempty"`
	Label          string `mapstructure:"label" json:"label,omitempty"`
	Search         string `mapstructure:"search" json:"search,omitempty"`
}

type InspectionFilters struct {
	Pagination           `mapstructure:",squash"`
	Status               string `mapstructure:"status" json:"status,omitempty"`
	Search               string `mapstructure:"search" json:"search,omitempty"`
	VehicleID            string `mapstructure:"vehicleId" json:"vehicleId,omitempty"`
	InspectionTemplateID string `mapstructure:"inspectionTemplateId" json:"inspectionTemplateId,omitempty"`
	StartDate            string `mapstructure:"startDate" json:"startDate,omitempty"`
	EndDate              string `mapstructure:"endDate" json:"endDate,omitempty"`
	SortBy               string `mapstructure:"sortBy" json:"sortBy,omitempty"`
	SortOrder            string `mapstructure:"sortOrder" json:"sortOrder,omitempty"`
}

type VehicleFilters struct {
	Pagination `mapstructure:",squash"`
	Search     string  `mapstructure:"search" json:"search,omitempty"`
	Status     string  `mapstructure:"status" json:"status,omitempty"`
	Type       string  `mapstructure:"type" json:"type,omitempty"`
	Ownership  string  `mapstructure:"ownership" json:"ownership,omitempty"`
	Group      string  `mapstructure:"group" json:"group,omitempty"`
	Operator   string  `mapstructure:"operator" json:"operator,omitempty"`
	YearMin    int     `mapstructure:"yearMin" json:"yearMin,omitempty"`
	YearMax    int     `mapstructure:"yearMax" json:"yearMax,omitempty"`
	MeterMin   float64 `mapstructure:"meterMin" json:"meterMin,omitempty"`
	MeterMax   float64 `mapstructure:"meterMax" json:"meterMax,omitempty"`
	SortBy     string  `mapstructure:"sortBy" json:"sortBy,omitempty"`
	SortOrder  string  `mapstructure:"sortOrder" json:"sortOrder,omitempty"`
}

type MeterEntryFilters struct {
	Pagination    `mapstructure:",squash"`
	Type          string  `mapstructure:"type" json:"type,omitempty"`
	Void          string  `mapstructure:"void" json:"void,omitempty"`
	Source        string  `mapstructure:"source" json:"source,omitempty"`
	StartDate     string  `mapstructure:"startDate" json:"startDate,omitempty"`
	EndDate       string  `mapstructure:"endDate" json:"endDate,omitempty"`
	ValueMin      float64 `mapstructure:"valueMin" json:"valueMin,omitempty"`
	ValueMax      float64 `mapstructure:"valueMax" json:"valueMax,omitempty"`
	CreatedFrom   string  `mapstructure:"createdFrom" json:"createdFrom,omitempty"`
	CreatedTo     string  `mapstructure:"createdTo" json:"createdTo,omitempty"`
	UpdatedFrom   string  `mapstructure:"updatedFrom" json:"updatedFrom,omitempty"`
	UpdatedTo     string  `mapstructure:"updatedTo" json:"updatedTo,omitempty"`
	VehicleStatus string  `mapstructure:"vehicleStatus" json:"vehicleStatus,omitempty"`
	GroupID       string  `mapstructure:"groupId" json:"groupId,omitempty"`
	Operator      string  `mapstructure:"operator" json:"operator,omitempty"`
	Search        string  `mapstructure:"search" json:"search,omitempty"`
	YearMin       int     `mapstructure:"yearMin" json:"yearMin,omitempty"`
	YearMax       int     `mapstructure:"yearMax" json:"yearMax,omitempty"`
	SortBy        string  `mapstructure:"sortBy" json:"sortBy,omitempty"`
	SortOrder     string  `mapstructure:"sortOrder" json:"sortOrder,omitempty"`
}

type AssignmentFilters struct {
	Pagination      `mapstructure:",squash"`
	StartFrom       string `mapstructure:"startFrom" json:"startFrom,omitempty"`
	StartTo         string `mapstructure:"startTo" json:"startTo,omitempty"`
	EndFrom         string `mapstructure:"endFrom" json:"endFrom,omitempty"`
	EndTo           string `mapstructure:"endTo" json:"endTo,omitempty"`
	Operator        string `mapstructure:"operator" json:"operator,omitempty"`
	Status          string `mapstructure:"status" json:"status,omitempty"`
	VehicleStatus   string `mapstructure:"vehicleStatus" json:"vehicleStatus,omitempty"`
	GroupID         string `mapstructure:"groupId" json:"groupId,omitempty"`
	VehicleOperator string `mapstructure:"vehicleOperator" json:"vehicleOperator,omitempty"`
	Type            string `mapstructure:"type" json:"type,omitempty"`
	Search          string `mapstructure:"search" json:"search,omitempty"`
	SortBy          string `mapstructure:"sortBy" json:"sortBy,omitempty"`
	SortOrder       string `mapstructure:"sortOrder" json:"sortOrder,omitempty"`
}

type ExpenseFilters struct {
	Pagination    `mapstructure:",squash"`
	Type          string  `mapstructure:"type" json:"type,omitempty"`
	Status        string  `mapstructure:"status" json:"status,omitempty"`
	VendorID      string  `mapstructure:"vendorId" json:"vendorId,omitempty"`
	AmountMin     float64 `mapstructure:"amountMin" json:"amountMin,omitempty"`
	AmountMax     float64 `mapstructure:"amountMax" json:"amountMax,omitempty"`
	Source        string  `mapstructure:"source" json:"source,omitempty"`
	VehicleStatus string  `mapstructure:"vehicleStatus" json:"vehicleStatus,omitempty"`
	GroupID       string  `mapstructure:"groupId" json:"groupId,omitempty"`
	Search        string  `mapstructure:"search" json:"search,omitempty"`
	StartDate     string  `mapstructure:"startDate" json:"startDate,omitempty"`
	EndDate       string  `mapstructure:"endDate" json:"endDate,omitempty"`
	SortBy        string  `mapstructure:"sortBy" json:"sortBy,omitempty"`
	SortOrder     string  `mapstructure:"sortOrder" json:"sortOrder,omitempty"`
}

// Decode converts f into a typed view. String values are coerced to the
// struct's numeric and boolean fields; unknown keys are ignored.
func Decode[T any](f Filters) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return out, fmt.Errorf("building filter decoder: %w", err)
	}
	if err := dec.Decode(f.Map()); err != nil {
		return out, fmt.Errorf("decoding filters: %w", err)
	}
	return out, nil
}

// Typed decodes f into the struct matching domain.
func Typed(domain string, f Filters) (any, error) {
	switch domain {
	case Contacts:
		return Decode[ContactFilters](f)
	case Issues:
		return Decode[IssueFilters](f)
	case ServiceReminders:
		return Decode[ServiceReminderFilters](f)
	case VehicleRenewals:
		return Decode[VehicleRenewalFilters](f)
	case ServiceHistory:
		return Decode[ServiceEntryFilters](f)
	case WorkOrders:
		return Decode[WorkOrderFilters](f)
	case Vendors:
		return Decode[VendorFilters](f)
	case Inspections:
		return Decode[InspectionFilters](f)
	case Vehicles:
		return Decode[VehicleFilters](f)
	case MeterHistory:
		return Decode[MeterEntryFilters](f)
	case Assignments:
		return Decode[AssignmentFilters](f)
	case Expenses:
		return Decode[ExpenseFilters](f)
	}
	return nil, fmt.Errorf("no typed filters for domain %q", domain)
}
