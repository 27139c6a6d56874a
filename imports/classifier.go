package imports

import (
	"errors"
	"regexp"
	"strings"
)

// FieldRole is the canonical meaning of one sheet column.
type FieldRole string

const (
	RoleUID                 FieldRole = "uid"
	RoleDescription         FieldRole = "description"
	RoleVendor              FieldRole = "vendor"
	RoleTower               FieldRole = "tower"
	RoleBudgetHead          FieldRole = "budget_head"
	RoleServiceType         FieldRole = "service_type"
	RoleFiscalYear          FieldRole = "fiscal_year"
	RolePOEntity            FieldRole = "po_entity"
	RolePriority            FieldRole = "priority"
	RoleContractId          FieldRole = "contract_id"
	RoleStartDate           FieldRole = "start_date"
	RoleEndDate             FieldRole = "end_date"
	RoleRenewalDate         FieldRole = "renewal_date"
	RoleRemarks             FieldRole = "remarks"
	RolePrNumber            FieldRole = "pr_number"
	RolePrDate              FieldRole = "pr_date"
	RolePrAmount            FieldRole = "pr_amount"
	RolePoNumber            FieldRole = "po_number"
	RolePoDate              FieldRole = "po_date"
	RolePoValue             FieldRole = "po_value"
	RoleCurrency            FieldRole = "currency"
	RoleCommonCurrencyValue FieldRole = "common_currency_value"
	RoleAllocationBasis     FieldRole = "allocation_basis"
	RoleDeclaredTotal       FieldRole = "declared_total"
	RoleDeclaredCount       FieldRole = "declared_count"
)

// A header matches a role when it equals or contains any alias,
// case-insensitively. Order matters: the first matching role wins, and
// more specific aliases are listed before substrings they contain.
var roleAliasOrder = []FieldRole{
	RoleUID,
	RoleContractId,
	RolePrNumber,
	RolePrDate,
	RolePrAmount,
	RolePoNumber,
	RolePoDate,
	RolePoValue,
	RoleCommonCurrencyValue,
	RoleCurrency,
	RoleBudgetHead,
	RoleServiceType,
	RoleFiscalYear,
	RolePOEntity,
	RoleAllocationBasis,
	RoleDeclaredCount,
	RoleDeclaredTotal,
	RoleStartDate,
	RoleEndDate,
	RoleRenewalDate,
	RoleVendor,
	RoleTower,
	RolePriority,
	RoleRemarks,
	RoleDescription,
}

var roleAliases = map[FieldRole][]string{
	RoleUID:                 {"uid", "unique id", "service id", "identifier"},
	RoleDescription:         {"description", "service name", "service description"},
	RoleVendor:              {"vendor", "supplier"},
	RoleTower:               {"tower", "towers"},
	RoleBudgetHead:          {"budget head", "budget category"},
	RoleServiceType:         {"service type", "type of service"},
	RoleFiscalYear:          {"fiscal year", "fy"},
	RolePOEntity:            {"po entity", "purchasing entity"},
	RolePriority:            {"priority"},
	RoleContractId:          {"contract id", "contract no", "contract number"},
	RoleStartDate:           {"start date", "contract start"},
	RoleEndDate:             {"end date", "contract end"},
	RoleRenewalDate:         {"renewal date", "renewal"},
	RoleRemarks:             {"remarks", "comment", "notes"},
	RolePrNumber:            {"pr number", "pr no"},
	RolePrDate:              {"pr date"},
	RolePrAmount:            {"pr amount"},
	RolePoNumber:            {"po number", "po no"},
	RolePoDate:              {"po date"},
	RolePoValue:             {"po value", "po amount"},
	RoleCurrency:            {"currency"},
	RoleCommonCurrencyValue: {"common currency", "usd value"},
	RoleAllocationBasis:     {"allocation basis", "basis of allocation", "boa basis", "basis"},
	RoleDeclaredTotal:       {"total budget", "annual total", "total amount", "declared total", "total"},
	RoleDeclaredCount:       {"total count", "count total"},
}

// "<two-digit-month> - <entity>" columns carry monthly actuals.
var monthlyEntityPattern = regexp.MustCompile(`^(\d{2})\s*-\s*(.+)$`)

var ErrMissingUIDColumn = errors.New("no UID column detected; the identifier column is mandatory")

type MonthlyColumn struct {
	Col    int
	Month  int
	Entity string
}

type MonthColumn struct {
	Col   int
	Label string
}

type CountColumn struct {
	Col    int
	Entity string
}

// HeaderMapping is the classification of one sheet's header row.
type HeaderMapping struct {
	RawHeaders     []string
	Fields         map[FieldRole]int
	MonthlyColumns []MonthlyColumn
	MonthColumns   []MonthColumn
	CountColumns   []CountColumn
}

// ClassifyHeaders maps raw header strings to canonical roles. Columns are
// 1-indexed. customMapping (raw header, case-insensitive -> role) wins
// over fuzzy matching. uidAliases are extra identifier aliases checked
// before the shared alias table; the BOA sheet titles its identifier
// column "Vendor/Service", which the shared table would misread as a
// vendor column. Classification is pure; entity creation happens during
// persistence so dry runs never write.
func ClassifyHeaders(headers []string, customMapping map[string]FieldRole, uidAliases ...string) (*HeaderMapping, error) {
	mapping := &HeaderMapping{
		RawHeaders: headers,
		Fields:     make(map[FieldRole]int),
	}

	custom := make(map[string]FieldRole, len(customMapping))
	for k, v := range customMapping {
		custom[strings.ToLower(strings.TrimSpace(k))] = v
	}

	lastMonthlyCol := 0
	classified := make(map[int]bool)

	for i, raw := range headers {
		col := i + 1
		header := strings.TrimSpace(raw)
		if header == "" {
			continue
		}
		lower := strings.ToLower(header)

		if role, ok := custom[lower]; ok {
			if _, taken := mapping.Fields[role]; !taken {
				mapping.Fields[role] = col
			}
			classified[col] = true
			continue
		}

		if m := monthlyEntityPattern.FindStringSubmatch(header); m != nil {
			month := int(m[1][0]-'0')*10 + int(m[1][1]-'0')
			if month >= 1 && month <= 12 {
				mapping.MonthlyColumns = append(mapping.MonthlyColumns, MonthlyColumn{
					Col:    col,
					Month:  month,
					Entity: strings.TrimSpace(m[2]),
				})
				classified[col] = true
				if col > lastMonthlyCol {
					lastMonthlyCol = col
				}
				continue
			}
		}

		if label, ok := NormalizeMonthLabel(header); ok {
			mapping.MonthColumns = append(mapping.MonthColumns, MonthColumn{Col: col, Label: label})
			classified[col] = true
			if col > lastMonthlyCol {
				lastMonthlyCol = col
			}
			continue
		}

		if matchesAlias(lower, uidAliases) {
			if _, taken := mapping.Fields[RoleUID]; !taken {
				mapping.Fields[RoleUID] = col
				classified[col] = true
				continue
			}
		}

		if role, ok := matchRole(lower); ok {
			if _, taken := mapping.Fields[role]; !taken {
				mapping.Fields[role] = col
				classified[col] = true
			}
		}
	}

	// Columns after the last monthly column whose text is not a known
	// field become entity-count (BOA) columns. Sheets with no monthly
	// columns (BOA layout) take entity columns after the last classified
	// field instead.
	threshold := lastMonthlyCol
	if threshold == 0 {
		for _, col := range mapping.Fields {
			if col > threshold {
				threshold = col
			}
		}
	}
	for i, raw := range headers {
		col := i + 1
		if col <= threshold || classified[col] {
			continue
		}
		header := strings.TrimSpace(raw)
		if header == "" {
			continue
		}
		mapping.CountColumns = append(mapping.CountColumns, CountColumn{Col: col, Entity: header})
	}

	if _, ok := mapping.Fields[RoleUID]; !ok {
		return nil, ErrMissingUIDColumn
	}

	return mapping, nil
}

func matchRole(lowerHeader string) (FieldRole, bool) {
	for _, role := range roleAliasOrder {
		if matchesAlias(lowerHeader, roleAliases[role]) {
			return role, true
		}
	}
	return "", false
}

func matchesAlias(lowerHeader string, aliases []string) bool {
	for _, alias := range aliases {
		if lowerHeader == alias || strings.Contains(lowerHeader, alias) {
			return true
		}
	}
	return false
}

// EntityNames lists every entity referenced by monthly or count columns,
// deduplicated, in column order.
func (m *HeaderMapping) EntityNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, mc := range m.MonthlyColumns {
		if !seen[mc.Entity] {
			seen[mc.Entity] = true
			names = append(names, mc.Entity)
		}
	}
	for _, cc := range m.CountColumns {
		if !seen[cc.Entity] {
			seen[cc.Entity] = true
			names = append(names, cc.Entity)
		}
	}
	return names
}

// NormalizedHeaders summarizes the classification for dry-run output,
// keyed by raw header text.
func (m *HeaderMapping) NormalizedHeaders() map[string]string {
	result := make(map[string]string)
	byCol := make(map[int]string)
	for role, col := range m.Fields {
		byCol[col] = string(role)
	}
	for _, mc := range m.MonthlyColumns {
		byCol[mc.Col] = "monthly:" + monthLabels[mc.Month-1] + ":" + mc.Entity
	}
	for _, mc := range m.MonthColumns {
		byCol[mc.Col] = "month:" + mc.Label
	}
	for _, cc := range m.CountColumns {
		byCol[cc.Col] = "entity_count:" + cc.Entity
	}
	for i, raw := range m.RawHeaders {
		if name, ok := byCol[i+1]; ok {
			result[strings.TrimSpace(raw)] = name
		}
	}
	return result
}
