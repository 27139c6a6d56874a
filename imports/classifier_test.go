package imports

import "testing"

func TestClassifyHeaders_MonthlyEntityColumns(t *testing.T) {
	headers := []string{"UID", "Tower", "04 - Finance", "05 - Finance"}

	mapping, err := ClassifyHeaders(headers, nil)
	if err != nil {
		t.Fatalf("ClassifyHeaders error: %v", err)
	}

	if col := mapping.Fields[RoleUID]; col != 1 {
		t.Fatalf("expected UID at column 1, got %d", col)
	}
	if col := mapping.Fields[RoleTower]; col != 2 {
		t.Fatalf("expected Tower at column 2, got %d", col)
	}
	if len(mapping.MonthlyColumns) != 2 {
		t.Fatalf("expected 2 monthly columns, got %d", len(mapping.MonthlyColumns))
	}
	for i, expected := range []MonthlyColumn{
		{Col: 3, Month: 4, Entity: "Finance"},
		{Col: 4, Month: 5, Entity: "Finance"},
	} {
		if mapping.MonthlyColumns[i] != expected {
			t.Fatalf("monthly column %d: expected %+v, got %+v", i, expected, mapping.MonthlyColumns[i])
		}
	}

	names := mapping.EntityNames()
	if len(names) != 1 || names[0] != "Finance" {
		t.Fatalf("expected entity names [Finance], got %v", names)
	}
}

func TestClassifyHeaders_MissingUIDColumn(t *testing.T) {
	_, err := ClassifyHeaders([]string{"Tower", "Vendor", "04 - Finance"}, nil)
	if err != ErrMissingUIDColumn {
		t.Fatalf("expected ErrMissingUIDColumn, got %v", err)
	}
}

func TestClassifyHeaders_FuzzyAliases(t *testing.T) {
	cases := []struct {
		header string
		role   FieldRole
	}{
		{"Service ID", RoleUID},
		{"Unique ID ", RoleUID},
		{"Supplier Name", RoleVendor},
		{"Budget Head", RoleBudgetHead},
		{"Contract Start", RoleStartDate},
		{"PO Value (MMK)", RolePoValue},
		{"Total Budget", RoleDeclaredTotal},
		{"Total Count", RoleDeclaredCount},
	}
	for _, tc := range cases {
		headers := []string{"UID", tc.header}
		if tc.role == RoleUID {
			headers = []string{tc.header}
		}
		mapping, err := ClassifyHeaders(headers, nil)
		if err != nil {
			t.Fatalf("ClassifyHeaders(%q) error: %v", tc.header, err)
		}
		if _, ok := mapping.Fields[tc.role]; !ok {
			t.Fatalf("expected %q to classify as %s, got %v", tc.header, tc.role, mapping.Fields)
		}
	}
}

func TestClassifyHeaders_CustomMappingWins(t *testing.T) {
	headers := []string{"Ref", "Vendor"}
	custom := map[string]FieldRole{"ref": RoleUID, "Vendor": RoleDescription}

	mapping, err := ClassifyHeaders(headers, custom)
	if err != nil {
		t.Fatalf("ClassifyHeaders error: %v", err)
	}
	if col := mapping.Fields[RoleUID]; col != 1 {
		t.Fatalf("expected custom-mapped UID at column 1, got %d", col)
	}
	if col := mapping.Fields[RoleDescription]; col != 2 {
		t.Fatalf("expected custom mapping to override vendor alias, got %v", mapping.Fields)
	}
	if _, ok := mapping.Fields[RoleVendor]; ok {
		t.Fatalf("vendor should not be classified when custom mapping overrides it")
	}
}

func TestClassifyHeaders_BareMonthColumns(t *testing.T) {
	headers := []string{"UID", "Description", "Apr", "May", "Jun", "Total"}

	mapping, err := ClassifyHeaders(headers, nil)
	if err != nil {
		t.Fatalf("ClassifyHeaders error: %v", err)
	}
	if len(mapping.MonthColumns) != 3 {
		t.Fatalf("expected 3 month columns, got %+v", mapping.MonthColumns)
	}
	if mapping.MonthColumns[0].Label != "Apr" || mapping.MonthColumns[2].Label != "Jun" {
		t.Fatalf("unexpected month labels: %+v", mapping.MonthColumns)
	}
	if col := mapping.Fields[RoleDeclaredTotal]; col != 6 {
		t.Fatalf("expected Total at column 6, got %d", col)
	}
	if len(mapping.CountColumns) != 0 {
		t.Fatalf("expected no count columns, got %+v", mapping.CountColumns)
	}
}

func TestClassifyHeaders_BoaEntityCountColumns(t *testing.T) {
	// BOA sheets have no monthly columns; entity columns sit to the right
	// of the last recognized field.
	headers := []string{"UID", "Description", "Allocation Basis", "Total Count", "Finance", "HR", "Operations"}

	mapping, err := ClassifyHeaders(headers, nil)
	if err != nil {
		t.Fatalf("ClassifyHeaders error: %v", err)
	}
	if col := mapping.Fields[RoleDeclaredCount]; col != 4 {
		t.Fatalf("expected Total Count at column 4, got %d", col)
	}
	if len(mapping.CountColumns) != 3 {
		t.Fatalf("expected 3 count columns, got %+v", mapping.CountColumns)
	}
	names := mapping.EntityNames()
	expected := []string{"Finance", "HR", "Operations"}
	for i, name := range expected {
		if names[i] != name {
			t.Fatalf("expected entity names %v, got %v", expected, names)
		}
	}
}

func TestClassifyHeaders_IdentifierAliases(t *testing.T) {
	// The BOA sheet heads its identifier column "Vendor/Service"; without
	// the policy alias the shared table reads it as a vendor column.
	headers := []string{"Vendor/Service", "Basis of Allocation", "Total Count", "Finance", "HR"}

	mapping, err := ClassifyHeaders(headers, nil, "vendor/service", "vendor / service")
	if err != nil {
		t.Fatalf("ClassifyHeaders error: %v", err)
	}
	if col := mapping.Fields[RoleUID]; col != 1 {
		t.Fatalf("expected identifier alias to claim column 1, got %v", mapping.Fields)
	}
	if _, ok := mapping.Fields[RoleVendor]; ok {
		t.Fatalf("column 1 must not double as a vendor column, got %v", mapping.Fields)
	}
	if col := mapping.Fields[RoleAllocationBasis]; col != 2 {
		t.Fatalf("expected allocation basis at column 2, got %d", col)
	}
	if col := mapping.Fields[RoleDeclaredCount]; col != 3 {
		t.Fatalf("expected Total Count at column 3, got %d", col)
	}
	if len(mapping.CountColumns) != 2 || mapping.CountColumns[0].Entity != "Finance" || mapping.CountColumns[1].Entity != "HR" {
		t.Fatalf("expected count columns [Finance HR], got %+v", mapping.CountColumns)
	}
}

func TestClassifyHeaders_IdentifierAliasYieldsToRealUIDColumn(t *testing.T) {
	headers := []string{"UID", "Vendor/Service"}

	mapping, err := ClassifyHeaders(headers, nil, "vendor/service")
	if err != nil {
		t.Fatalf("ClassifyHeaders error: %v", err)
	}
	if col := mapping.Fields[RoleUID]; col != 1 {
		t.Fatalf("expected UID at column 1, got %d", col)
	}
	if col := mapping.Fields[RoleVendor]; col != 2 {
		t.Fatalf("with the uid taken, Vendor/Service falls back to vendor, got %v", mapping.Fields)
	}
}

func TestClassifyHeaders_CountColumnsAfterMonthlyColumns(t *testing.T) {
	headers := []string{"UID", "04 - Finance", "05 - Finance", "Finance", "HR"}

	mapping, err := ClassifyHeaders(headers, nil)
	if err != nil {
		t.Fatalf("ClassifyHeaders error: %v", err)
	}
	if len(mapping.CountColumns) != 2 {
		t.Fatalf("expected 2 count columns after monthly block, got %+v", mapping.CountColumns)
	}
	if mapping.CountColumns[0].Entity != "Finance" || mapping.CountColumns[1].Entity != "HR" {
		t.Fatalf("unexpected count column entities: %+v", mapping.CountColumns)
	}
	// Finance appears as both a monthly entity and a count entity; it
	// must be reported once.
	names := mapping.EntityNames()
	if len(names) != 2 {
		t.Fatalf("expected deduplicated entity names, got %v", names)
	}
}

func TestNormalizedHeaders_Summary(t *testing.T) {
	headers := []string{"UID", "Tower", "04 - Finance", "Apr"}

	mapping, err := ClassifyHeaders(headers, nil)
	if err != nil {
		t.Fatalf("ClassifyHeaders error: %v", err)
	}
	normalized := mapping.NormalizedHeaders()
	cases := map[string]string{
		"UID":          "uid",
		"Tower":        "tower",
		"04 - Finance": "monthly:Apr:Finance",
		"Apr":          "month:Apr",
	}
	for raw, expected := range cases {
		if normalized[raw] != expected {
			t.Fatalf("normalized[%q]: expected %q, got %q", raw, expected, normalized[raw])
		}
	}
}
