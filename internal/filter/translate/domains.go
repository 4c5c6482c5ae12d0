package translate

import (
	"fmt"

	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
)

// Domain names, matching the field catalog.
const (
	Contacts         = "contacts"
	Issues           = "issues"
	ServiceReminders = "service-reminders"
	VehicleRenewals  = "vehicle-renewals"
	ServiceHistory   = "service-history"
	WorkOrders       = "work-orders"
	Vendors          = "vendors"
	Inspections      = "inspections"
	Vehicles         = "vehicles"
	MeterHistory     = "meter-history"
	Assignments      = "vehicle-assignments"
	Expenses         = "expenses"
)

func keys(kv ...any) map[string]KeyKind {
	out := make(map[string]KeyKind, len(kv)/2+2)
	out[KeyPage] = KeyNumber
	out[KeyLimit] = KeyNumber
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i].(string)] = kv[i+1].(KeyKind)
	}
	return out
}

// Builtin returns fresh definitions of every domain, keyed by name.
func Builtin() map[string]*Domain {
	list := []*Domain{
		{
			Name: Contacts,
			Keys: keys(
				"status", KeyString, "search", KeyString,
				"group", KeyString, "classification", KeyString,
			),
			Sticky:  []string{"status"},
			Sidebar: []string{"search", "group", "classification"},
			Mappings: map[string]Mapping{
				"name":           Remap("search"),
				"email":          Remap("search"),
				"group":          Remap("group"),
				"classification": Remap("classification"),
			},
			URL: []string{"status", "search", "group", "classification"},
		},
		{
			Name: Issues,
			Keys: keys(
				"status", KeyString, "search", KeyString, "priority", KeyString,
				"vehicleId", KeyString, "assignedTo", KeyString, "labels", KeyList,
				"groupId", KeyString, "startDate", KeyString, "endDate", KeyString,
				"sortBy", KeyString, "sortOrder", KeyString,
			),
			Sticky:  []string{"status"},
			Sidebar: []string{"search", "priority", "vehicleId", "assignedTo", "labels", "groupId", "startDate", "endDate"},
			Mappings: map[string]Mapping{
				"summary":      Remap("search"),
				"priority":     Remap("priority"),
				"reportedDate": DateRange(),
				"assignedTo":   Remap("assignedTo"),
				"labels":       Remap("labels"),
				"vehicle":      Remap("vehicleId"),
				"group":        Remap("groupId"),
			},
			URL: []string{"status", "search", "priority", "assignedTo", "labels", "groupId", "startDate", "endDate"},
		},
		{
			Name: ServiceReminders,
			Keys: keys(
				"status", KeyString, "overdue", KeyBool, "search", KeyString,
				"vehicleId", KeyString, "groupId", KeyString,
				"startDate", KeyString, "endDate", KeyString,
			),
			Sticky:  []string{"status", "overdue"},
			Sidebar: []string{"search", "vehicleId", "groupId", "startDate", "endDate"},
			Mappings: map[string]Mapping{
				"task":    Remap("search"),
				"dueDate": DateRange(),
				"vehicle": Remap("vehicleId"),
				"group":   Remap("groupId"),
			},
			URL: []string{"status", "search", "vehicleId", "groupId", "overdue"},
		},
		{
			Name: VehicleRenewals,
			Keys: keys(
				"status", KeyString, "overdue", KeyBool, "dueSoon", KeyBool,
				"type", KeyString, "vehicleId", KeyString, "groupId", KeyString,
				"startDate", KeyString, "endDate", KeyString,
			),
			Sticky:  []string{"status", "overdue", "dueSoon"},
			Sidebar: []string{"type", "vehicleId", "groupId", "startDate", "endDate"},
			Mappings: map[string]Mapping{
				"type":    Remap("type"),
				"dueDate": DateRange(),
				"vehicle": Remap("vehicleId"),
				"group":   Remap("groupId"),
			},
			URL: []string{"status", "type", "vehicleId", "overdue", "dueSoon"},
		},
		{
			Name: ServiceHistory,
			Keys: keys(
				"isWorkOrder", KeyBool, "search", KeyString, "vehicleId", KeyString,
				"groupId", KeyString, "vendorId", KeyString,
				"startDate", KeyString, "endDate", KeyString,
			),
			Sticky:  []string{"isWorkOrder"},
			Sidebar: []string{"search", "vehicleId", "groupId", "vendorId", "startDate", "endDate"},
			Mappings: map[string]Mapping{
				"task":    Remap("search"),
				"date":    DateRange(),
				"vendor":  Remap("vendorId"),
				"vehicle": Remap("vehicleId"),
				"group":   Remap("groupId"),
			},
			URL: []string{"search", "vehicleId", "startDate", "endDate"},
		},
		{
			Name: WorkOrders,
			Keys: keys(
				"status", KeyString, "isWorkOrder", KeyBool, "search", KeyString,
				"vehicleId", KeyString, "priority", KeyString, "assignedTo", KeyString,
				"vendorId", KeyString, "costMin", KeyNumber, "costMax", KeyNumber,
				"startDate", KeyString, "endDate", KeyString,
			),
			Sticky:  []string{"status", "isWorkOrder"},
			Sidebar: []string{"search", "vehicleId", "priority", "assignedTo", "vendorId", "costMin", "costMax", "startDate", "endDate"},
			Mappings: map[string]Mapping{
				"number":     Remap("search"),
				"priority":   Remap("priority"),
				"issueDate":  DateRange(),
				"assignedTo": Remap("assignedTo"),
				"vendor":     Remap("vendorId"),
				"totalCost":  Bounds("costMin", "costMax"),
				"vehicle":    Remap("vehicleId"),
			},
			URL: []string{"status", "search", "vehicleId", "priority", "assignedTo", "startDate", "endDate"},
		},
		{
			Name: Vendors,
			Keys: keys(
				"classification", KeyString, "label", KeyString, "search", KeyString,
			),
			Sticky:  []string{"classification"},
			Sidebar: []string{"search", "label"},
			Mappings: map[string]Mapping{
				"name":        Remap("search"),
				"contactName": Remap("search"),
				"label":       Remap("label"),
			},
			URL: []string{"classification", "label", "search"},
		},
		{
			Name: Inspections,
			Keys: keys(
				"status", KeyString, "sortBy", KeyString, "sortOrder", KeyString,
				"search", KeyString, "vehicleId", KeyString, "inspectionTemplateId", KeyString,
				"startDate", KeyString, "endDate", KeyString,
			),
			Sticky:  []string{"status", "sortBy", "sortOrder"},
			Sidebar: []string{"search", "vehicleId", "inspectionTemplateId", "startDate", "endDate"},
			Mappings: map[string]Mapping{
				"title":                Remap("search"),
				"form":                 Remap("inspectionTemplateId"),
				"inspectionTemplateId": Remap("inspectionTemplateId"),
				"scheduledDate":        DateRange(),
				"vehicle":              Remap("vehicleId"),
				"vehicleId":            Remap("vehicleId"),
			},
			URL: []string{"status", "search", "vehicleId", "inspectionTemplateId"},
		},
		{
			Name: Vehicles,
			Keys: keys(
				"search", KeyString, "status", KeyString, "type", KeyString,
				"ownership", KeyString, "group", KeyString, "operator", KeyString,
				"yearMin", KeyNumber, "yearMax", KeyNumber,
				"meterMin", KeyNumber, "meterMax", KeyNumber,
				"sortBy", KeyString, "sortOrder", KeyString,
			),
			Sticky: []string{"sortBy", "sortOrder"},
			Sidebar: []string{
				"search", "status", "type", "ownership", "group", "operator",
				"yearMin", "yearMax", "meterMin", "meterMax",
			},
			Mappings: map[string]Mapping{
				"name":         Remap("search"),
				"vin":          Remap("search"),
				"licensePlate": Remap("search"),
				"make":         Remap("search"),
				"model":        Remap("search"),
				"status":       Remap("status"),
				"type":         Remap("type"),
				"ownership":    Remap("ownership"),
				"group":        Remap("group"),
				"operator":     Remap("operator"),
				"year":         Bounds("yearMin", "yearMax"),
				"meterReading": Bounds("meterMin", "meterMax"),
			},
			URL:   []string{"search", "status", "type", "ownership", "group", "operator", "sortBy", "sortOrder"},
			Limit: 10,
		},
		{
			Name: MeterHistory,
			Keys: keys(
				"type", KeyString, "void", KeyString, "source", KeyString,
				"startDate", KeyString, "endDate", KeyString,
				"valueMin", KeyNumber, "valueMax", KeyNumber,
				"createdFrom", KeyString, "createdTo", KeyString,
				"updatedFrom", KeyString, "updatedTo", KeyString,
				"vehicleStatus", KeyString, "groupId", KeyString, "operator", KeyString,
				"search", KeyString, "yearMin", KeyNumber, "yearMax", KeyNumber,
				"sortBy", KeyString, "sortOrder", KeyString,
			),
			Sticky: []string{"sortBy", "sortOrder"},
			Sidebar: []string{
				"type", "void", "source", "startDate", "endDate", "valueMin", "valueMax",
				"createdFrom", "createdTo", "updatedFrom", "updatedTo",
				"vehicleStatus", "groupId", "operator", "search", "yearMin", "yearMax",
			},
			Mappings: map[string]Mapping{
				"date":      DateRange(),
				"value":     Bounds("valueMin", "valueMax"),
				"type":      Remap("type"),
				"void":      Remap("void"),
				"source":    Remap("source"),
				"createdAt": Dates("createdFrom", "createdTo"),
				"updatedAt": Dates("updatedFrom", "updatedTo"),
				"status":    Remap("vehicleStatus"),
				"group":     Remap("groupId"),
				"operator":  Remap("operator"),
				"name":      Remap("search"),
				"vin":       Remap("search"),
				"make":      Remap("search"),
				"model":     Remap("search"),
				"year":      Bounds("yearMin", "yearMax"),
			},
			URL: []string{"type", "void", "startDate", "endDate", "search", "sortBy", "sortOrder"},
		},
		{
			Name: Assignments,
			Keys: keys(
				"startFrom", KeyString, "startTo", KeyString,
				"endFrom", KeyString, "endTo", KeyString,
				"operator", KeyString, "status", KeyString,
				"vehicleStatus", KeyString, "groupId", KeyString,
				"vehicleOperator", KeyString, "type", KeyString, "search", KeyString,
				"sortBy", KeyString, "sortOrder", KeyString,
			),
			Sticky: []string{"sortBy", "sortOrder"},
			Sidebar: []string{
				"startFrom", "startTo", "endFrom", "endTo", "operator", "status",
				"vehicleStatus", "groupId", "vehicleOperator", "type", "search",
			},
			Mappings: map[string]Mapping{
				"startDate":       Dates("startFrom", "startTo"),
				"endDate":         Dates("endFrom", "endTo"),
				"operator":        Remap("operator"),
				"status":          Remap("status"),
				"vehicleStatus":   Remap("vehicleStatus"),
				"group":           Remap("groupId"),
				"vehicleOperator": Remap("vehicleOperator"),
				"type":            Remap("type"),
				"name":            Remap("search"),
				"vin":             Remap("search"),
			},
			URL: []string{"status", "operator", "vehicleStatus", "groupId", "search"},
		},
		{
			Name: Expenses,
			Keys: keys(
				"type", KeyString, "status", KeyString, "vendorId", KeyString,
				"amountMin", KeyNumber, "amountMax", KeyNumber, "source", KeyString,
				"vehicleStatus", KeyString, "groupId", KeyString, "search", KeyString,
				"startDate", KeyString, "endDate", KeyString,
				"sortBy", KeyString, "sortOrder", KeyString,
			),
			Sticky: []string{"status", "sortBy", "sortOrder"},
			Sidebar: []string{
				"type", "vendorId", "amountMin", "amountMax", "source",
				"vehicleStatus", "groupId", "search", "startDate", "endDate",
			},
			Mappings: map[string]Mapping{
				"date":   DateRange(),
				"type":   Remap("type"),
				"vendor": Remap("vendorId"),
				"amount": Bounds("amountMin", "amountMax"),
				"source": Remap("source"),
				"status": Remap("vehicleStatus"),
				"group":  Remap("groupId"),
				"name":   Remap("search"),
				"vin":    Remap("search"),
			},
			URL: []string{"type", "status", "startDate", "endDate", "vendorId", "search"},
		},
	}

	out := make(map[string]*Domain, len(list))
	for _, d := range list {
		out[d.Name] = d
	}
	return out
}

// Lookup returns the builtin definition for name.
func Lookup(name string) (*Domain, error) {
	d, ok := Builtin()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", schema.ErrUnknownDomain, name)
	}
	return d, nil
}
