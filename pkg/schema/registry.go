package schema

import (
	"os"
	"sort"
	"sync"

	"github.com/fvbommel/sortorder"
	"github.com/goccy/go-yaml"

	"github.com/devKoy/csv-version-compare/pkg/constants"
	"github.com/devKoy/csv-version-compare/pkg/errors"
)

// Built-in profile names.
const (
	ProfileCanonical = "canonical"
	ProfileERP       = "erp"
	ProfilePortal    = "portal"
	ProfileLegacy    = "legacy"
)

// Registry holds named profiles. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewRegistry returns a registry preloaded with the built-in profiles.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]*Profile)}
	for _, p := range builtins() {
		// Built-ins are static and always compile.
		_ = r.Register(p)
	}
	return r
}

// Register adds or replaces a profile.
func (r *Registry) Register(p *Profile) error {
	if p == nil {
		return errors.NewValidationError("profile", nil, "profile is nil")
	}
	if err := p.compile(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.Name] = p
	return nil
}

// Get returns the named profile. An empty name selects the canonical profile.
func (r *Registry) Get(name string) (*Profile, error) {
	if name == "" {
		name = ProfileCanonical
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[name]
	if !ok {
		return nil, errors.NewNotFoundError("profile", name)
	}
	return p, nil
}

// List returns all profiles in natural name order.
func (r *Registry) List() []*Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return sortorder.NaturalLess(out[i].Name, out[j].Name) })
	return out
}

// profileFile is the on-disk layout for additional profiles.
type profileFile struct {
	Profiles []*Profile `yaml:"profiles"`
}

// Load registers the profiles found in a YAML document.
func (r *Registry) Load(data []byte) error {
	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errors.WrapParse("yaml", "", err)
	}
	for _, p := range file.Profiles {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile registers the profiles found in a YAML file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	if err := r.Load(data); err != nil {
		return errors.WrapResource("load", "profiles", path, err)
	}
	return nil
}

func builtins() []*Profile {
	return []*Profile{
		{
			Name:        ProfileCanonical,
			Description: "Columns already use canonical names",
			// Continuation rows leave the order number blank.
			FillDown: []string{constants.ColumnOrderNo},
		},
		{
			Name:        ProfileERP,
			Description: "ERP purchase-order export (Order #, Qty ordered, ...)",
			Aliases: map[string]string{
				"Order #":           constants.ColumnOrderNo,
				"Store Description": constants.ColumnStoreDescription,
				"Style #":           constants.ColumnStyleNumber,
				"Qty ordered":       constants.ColumnQtyOrdered,
				"Qty received":      constants.ColumnQtyReceived,
				"Qty due":           constants.ColumnQtyDue,
			},
			// Quantity headers carry the unit of measure, e.g. "Qty ordered (EA)".
			Patterns: []PatternAlias{
				{Pattern: "Qty ordered (*)", Column: constants.ColumnQtyOrdered},
				{Pattern: "Qty received (*)", Column: constants.ColumnQtyReceived},
				{Pattern: "Qty due (*)", Column: constants.ColumnQtyDue},
			},
			FillDown: []string{constants.ColumnOrderNo},
		},
		{
			Name:        ProfilePortal,
			Description: "Vendor portal download (PO Number, Ordered Qty, ...)",
			Aliases: map[string]string{
				"PO Number":       constants.ColumnOrderNo,
				"Store":           constants.ColumnStoreDescription,
				"VLU Code":        constants.ColumnVLU,
				"Style Number":    constants.ColumnStyleNumber,
				"Size Desc":       constants.ColumnSize,
				"Ordered Qty":     constants.ColumnQtyOrdered,
				"Received Qty":    constants.ColumnQtyReceived,
				"Outstanding Qty": constants.ColumnQtyDue,
			},
			FillDown: []string{constants.ColumnOrderNo},
		},
		{
			Name:        ProfileLegacy,
			Description: "Older spreadsheet template (Order No, Qty Ord, ...)",
			Aliases: map[string]string{
				"Order No":     constants.ColumnOrderNo,
				"Order Number": constants.ColumnOrderNo,
				"Store Desc":   constants.ColumnStoreDescription,
				"Style No":     constants.ColumnStyleNumber,
				"Qty Ord":      constants.ColumnQtyOrdered,
				"Qty Rec":      constants.ColumnQtyReceived,
				"Qty O/S":      constants.ColumnQtyDue,
			},
			FillDown: []string{constants.ColumnOrderNo},
		},
	}
}
