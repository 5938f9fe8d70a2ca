package deletion

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	bucketPattern     = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
)

// Registry maps section keys onto immutable plans. Build it once at startup.
type Registry struct {
	plans   map[string]Plan
	order   []string
	aliases map[string]string
}

// Resolved pairs the key a caller sent with the plan it resolved to.
type Resolved struct {
	RequestedKey string
	Plan         Plan
}

// NewRegistry validates plans and aliases and returns a registry.
func NewRegistry(plans []Plan, aliases map[string]string) (*Registry, error) {
	r := &Registry{
		plans:   make(map[string]Plan, len(plans)),
		aliases: make(map[string]string, len(aliases)),
	}

	var errs []error
	for _, p := range plans {
		if _, dup := r.plans[p.Key]; dup {
			errs = append(errs, fmt.Errorf("duplicate section key %q", p.Key))
			continue
		}
		if err := validatePlan(p); err != nil {
			errs = append(errs, err)
			continue
		}
		r.plans[p.Key] = p.clone()
		r.order = append(r.order, p.Key)
	}

	for alias, target := range aliases {
		if _, clash := r.plans[alias]; clash {
			errs = append(errs, fmt.Errorf("alias %q shadows a section key", alias))
			continue
		}
		if _, ok := r.plans[target]; !ok {
			errs = append(errs, fmt.Errorf("alias %q points at unknown section %q", alias, target))
			continue
		}
		r.aliases[alias] = target
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, errors.Join(errs...))
	}
	return r, nil
}

func validatePlan(p Plan) error {
	if p.Key == "" {
		return errors.New("section with empty key")
	}
	if p.Label == "" {
		return fmt.Errorf("section %q has no label", p.Key)
	}
	if len(p.Steps()) == 0 {
		return fmt.Errorf("section %q has an empty plan", p.Key)
	}

	cleared := make(map[string]bool, len(p.TablesToClear))
	for _, table := range p.TablesToClear {
		if !identifierPattern.MatchString(table) {
			return fmt.Errorf("section %q: invalid table name %q", p.Key, table)
		}
		if cleared[table] {
			return fmt.Errorf("section %q clears table %q twice", p.Key, table)
		}
		cleared[table] = true
	}

	for _, reset := range p.TablesToReset {
		if err := validateReset(p.Key, reset.Table, reset.ID, reset.Fields); err != nil {
			return err
		}
		if cleared[reset.Table] {
			return fmt.Errorf("section %q both clears and resets table %q", p.Key, reset.Table)
		}
	}

	for _, bucket := range p.BucketsToEmpty {
		if !bucketPattern.MatchString(bucket) {
			return fmt.Errorf("section %q: invalid bucket name %q", p.Key, bucket)
		}
		if IsProtectedBucket(bucket) {
			return fmt.Errorf("section %q: bucket %q is protected", p.Key, bucket)
		}
	}

	switch s := p.Special.(type) {
	case nil:
	case DeleteOwnedRows:
		if s.Name == "" {
			return fmt.Errorf("section %q: special step has no name", p.Key)
		}
		if !identifierPattern.MatchString(s.Table) || !identifierPattern.MatchString(s.OwnerColumn) {
			return fmt.Errorf("section %q: invalid owner-scoped target %s.%s", p.Key, s.Table, s.OwnerColumn)
		}
		if cleared[s.Table] {
			return fmt.Errorf("section %q clears table %q that it also scopes to the caller", p.Key, s.Table)
		}
	case ResetSharedField:
		if s.Name == "" {
			return fmt.Errorf("section %q: special step has no name", p.Key)
		}
		if err := validateReset(p.Key, s.Table, s.ID, s.Fields); err != nil {
			return err
		}
	default:
		return fmt.Errorf("section %q: unsupported special step %T", p.Key, s)
	}
	return nil
}

func validateReset(key, table, id string, fields []Field) error {
	if !identifierPattern.MatchString(table) {
		return fmt.Errorf("section %q: invalid table name %q", key, table)
	}
	if id == "" {
		return fmt.Errorf("section %q: reset of %q has no row id", key, table)
	}
	if len(fields) == 0 {
		return fmt.Errorf("section %q: reset of %q has no default fields", key, table)
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !identifierPattern.MatchString(f.Column) || f.Column == "id" {
			return fmt.Errorf("section %q: invalid reset column %q on %q", key, f.Column, table)
		}
		if seen[f.Column] {
			return fmt.Errorf("section %q: column %q reset twice on %q", key, f.Column, table)
		}
		seen[f.Column] = true
	}
	return nil
}

// Resolve returns the plan for a section key or alias.
func (r *Registry) Resolve(key string) (Plan, error) {
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	p, ok := r.plans[key]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %s", ErrUnknownSection, key)
	}
	return p.clone(), nil
}

// ResolveAll resolves every key before anything runs. One unknown key fails
// the whole list. Keys that resolve to an already requested section are
// dropped, keeping the first occurrence.
func (r *Registry) ResolveAll(keys []string) ([]Resolved, error) {
	if len(keys) == 0 {
		return nil, ErrNoSections
	}

	out := make([]Resolved, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		plan, err := r.Resolve(key)
		if err != nil {
			return nil, err
		}
		if seen[plan.Key] {
			continue
		}
		seen[plan.Key] = true
		out = append(out, Resolved{RequestedKey: key, Plan: plan})
	}
	return out, nil
}

// Sections lists every canonical plan in registration order.
func (r *Registry) Sections() []Plan {
	out := make([]Plan, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.plans[key].clone())
	}
	return out
}

// Aliases returns a copy of the alias table.
func (r *Registry) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}
