package sync

// Table describes one synced domain table: its remote name, primary-key
// column, the column set allowed across the wire, and the tables its foreign
// keys point at. Push order is derived from DependsOn rather than hardcoded
// priorities so adding a relationship can't silently break ordering.
type Table struct {
	Name        string
	PrimaryKey  string
	Columns     []string
	TimeColumns []string
	BoolColumns []string
	DependsOn   []string
}

var registry = []Table{
	{
		Name:       "users",
		PrimaryKey: "user_id",
		Columns: []string{
			"user_id", "username", "password_hash", "full_name", "role",
			"is_active", "created_at", "updated_at", "is_synced", "sync_status",
		},
		TimeColumns: []string{"created_at", "updated_at"},
		BoolColumns: []string{"is_active", "is_synced"},
	},
	{
		Name:       "patients",
		PrimaryKey: "patient_id",
		Columns: []string{
			"patient_id", "first_name", "last_name", "age", "gender", "contact",
			"address", "created_at", "updated_at", "is_synced", "sync_status",
		},
		TimeColumns: []string{"created_at", "updated_at"},
		BoolColumns: []string{"is_synced"},
	},
	{
		Name:       "suppliers",
		PrimaryKey: "supplier_id",
		Columns: []string{
			"supplier_id", "name", "contact", "email", "address", "created_at",
			"updated_at", "is_synced", "sync_status",
		},
		TimeColumns: []string{"created_at", "updated_at"},
		BoolColumns: []string{"is_synced"},
	},
	{
		Name:       "drugs",
		PrimaryKey: "drug_id",
		Columns: []string{
			"drug_id", "name", "category", "quantity", "unit_price",
			"expiry_date", "supplier_id", "created_at", "updated_at",
			"is_synced", "sync_status",
		},
		TimeColumns: []string{"created_at", "updated_at", "expiry_date"},
		BoolColumns: []string{"is_synced"},
		DependsOn:   []string{"suppliers"},
	},
	{
		Name:       "prescriptions",
		PrimaryKey: "prescription_id",
		Columns: []string{
			"prescription_id", "patient_id", "user_id", "diagnosis",
			"medication", "dosage", "instructions", "created_at", "updated_at",
			"is_synced", "sync_status",
		},
		TimeColumns: []string{"created_at", "updated_at"},
		BoolColumns: []string{"is_synced"},
		DependsOn:   []string{"patients", "users"},
	},
	{
		Name:       "sales",
		PrimaryKey: "sale_id",
		Columns: []string{
			"sale_id", "user_id", "patient_id", "total_amount", "sale_date",
			"created_at", "updated_at", "is_synced", "sync_status",
		},
		TimeColumns: []string{"sale_date", "created_at", "updated_at"},
		BoolColumns: []string{"is_synced"},
		DependsOn:   []string{"users", "patients"},
	},
	{
		Name:       "sale_items",
		PrimaryKey: "sale_item_id",
		Columns: []string{
			"sale_item_id", "sale_id", "drug_id", "quantity", "unit_price",
			"created_at", "updated_at", "is_synced", "sync_status",
		},
		TimeColumns: []string{"created_at", "updated_at"},
		BoolColumns: []string{"is_synced"},
		DependsOn:   []string{"sales", "drugs"},
	},
}

var (
	ordered      []Table
	tablesByName map[string]Table
	orderByName  map[string]int
)

func init() {
	ordered = topoSort(registry)

	tablesByName = make(map[string]Table, len(ordered))
	orderByName = make(map[string]int, len(ordered))
	for i, t := range ordered {
		tablesByName[t.Name] = t
		orderByName[t.Name] = i
	}
}

// Tables returns all synced tables in dependency order: every table appears
// after the tables its foreign keys reference.
func Tables() []Table {
	return ordered
}

func tableByName(name string) (Table, bool) {
	t, ok := tablesByName[name]
	return t, ok
}

// orderIndex returns a table's position in the dependency order. Unknown
// tables sort last.
func orderIndex(name string) int {
	if i, ok := orderByName[name]; ok {
		return i
	}
	return len(ordered)
}

// topoSort is Kahn's algorithm, keeping declaration order among tables whose
// dependencies are all satisfied so the result is deterministic. The registry
// is fixed at compile time; a cycle would be a programming error, so any
// leftover tables are appended in declaration order rather than dropped.
func topoSort(tables []Table) []Table {
	placed := make(map[string]bool, len(tables))
	result := make([]Table, 0, len(tables))

	for len(result) < len(tables) {
		progressed := false
		for _, t := range tables {
			if placed[t.Name] {
				continue
			}
			ready := true
			for _, dep := range t.DependsOn {
				if !placed[dep] {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}
			placed[t.Name] = true
			result = append(result, t)
			progressed = true
		}
		if !progressed {
			for _, t := range tables {
				if !placed[t.Name] {
					placed[t.Name] = true
					result = append(result, t)
				}
			}
		}
	}

	return result
}
