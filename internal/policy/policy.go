package policy

import (
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
)

// Capability flags gating group mutations.
const (
	FlagGroupsPut   = "groups_put"
	FlagGroupsPatch = "groups_patch"
)

// Deployment profiles bundle default flag values.
const (
	ProfilePermissive      = "permissive"
	ProfileRestrictedPut   = "restricted-put"
	ProfileRestrictedPatch = "restricted-patch"
)

// Environment variables read once at process start.
const (
	EnvGroupsPut   = "SCIM_GROUPS_PUT"
	EnvGroupsPatch = "SCIM_GROUPS_PATCH"
)

var (
	ErrUnknownFlag    = errors.New("unknown capability flag")
	ErrUnknownProfile = errors.New("unknown profile")
)

var knownFlags = []string{FlagGroupsPut, FlagGroupsPatch}

var profiles = map[string]map[string]bool{
	ProfilePermissive:      {FlagGroupsPut: true, FlagGroupsPatch: true},
	ProfileRestrictedPut:   {FlagGroupsPut: false, FlagGroupsPatch: true},
	ProfileRestrictedPatch: {FlagGroupsPut: true, FlagGroupsPatch: false},
}

// Resolver answers capability checks through a four layer precedence
// chain: runtime override, environment override, active profile,
// built-in default (true). Runtime overrides are cleared on every
// profile switch; the environment layer is fixed for the process
// lifetime.
type Resolver struct {
	mu        sync.RWMutex
	profile   string
	overrides map[string]bool
	env       map[string]bool
}

// Snapshot is the introspection view served by the admin surface. It
// keeps the layers apart so a reader can tell "false by override" from
// "false because of the profile".
type Snapshot struct {
	Profile   string          `json:"profile"`
	Effective map[string]bool `json:"effective"`
	Overrides map[string]bool `json:"overrides"`
	Env       map[string]bool `json:"env"`
}

func NewResolver(profile string, env map[string]bool) (*Resolver, error) {
	if profile == "" {
		profile = ProfilePermissive
	}
	if _, ok := profiles[profile]; !ok {
		return nil, ErrUnknownProfile
	}
	r := &Resolver{
		profile:   profile,
		overrides: make(map[string]bool),
		env:       make(map[string]bool, len(env)),
	}
	for flag, v := range env {
		r.env[flag] = v
	}
	return r, nil
}

// OverridesFromEnv parses the SCIM_GROUPS_* variables into the
// environment layer. An unset variable contributes nothing; a set one
// pins its flag for the process lifetime.
func OverridesFromEnv() map[string]bool {
	env := make(map[string]bool)
	if raw, ok := os.LookupEnv(EnvGroupsPut); ok {
		env[FlagGroupsPut] = truthy(raw)
	}
	if raw, ok := os.LookupEnv(EnvGroupsPatch); ok {
		env[FlagGroupsPatch] = truthy(raw)
	}
	return env
}

func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

func knownFlag(flag string) bool {
	for _, f := range knownFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// Effective resolves a flag through the precedence chain.
func (r *Resolver) Effective(flag string) (bool, error) {
	if !knownFlag(flag) {
		return false, ErrUnknownFlag
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.effectiveLocked(flag), nil
}

func (r *Resolver) effectiveLocked(flag string) bool {
	if v, ok := r.overrides[flag]; ok {
		return v
	}
	if v, ok := r.env[flag]; ok {
		return v
	}
	if v, ok := profiles[r.profile][flag]; ok {
		return v
	}
	return true
}

func (r *Resolver) Profile() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.profile
}

// SetProfile activates a named profile and wipes the runtime override
// layer. Profiles and overrides are mutually exclusive scopes.
func (r *Resolver) SetProfile(name string) error {
	if _, ok := profiles[name]; !ok {
		return ErrUnknownProfile
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profile = name
	r.overrides = make(map[string]bool)
	return nil
}

func (r *Resolver) SetOverride(flag string, value bool) error {
	if !knownFlag(flag) {
		return ErrUnknownFlag
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[flag] = value
	return nil
}

// ClearOverride removes a runtime override. Clearing a flag that has
// no override is not an error.
func (r *Resolver) ClearOverride(flag string) error {
	if !knownFlag(flag) {
		return ErrUnknownFlag
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.overrides, flag)
	return nil
}

func (r *Resolver) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := Snapshot{
		Profile:   r.profile,
		Effective: make(map[string]bool, len(knownFlags)),
		Overrides: make(map[string]bool, len(r.overrides)),
		Env:       make(map[string]bool, len(r.env)),
	}
	for _, flag := range knownFlags {
		snap.Effective[flag] = r.effectiveLocked(flag)
	}
	for flag, v := range r.overrides {
		snap.Overrides[flag] = v
	}
	for flag, v := range r.env {
		snap.Env[flag] = v
	}
	return snap
}

// Profiles lists the selectable profile names in sorted order.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flags lists the known capability flags in sorted order.
func Flags() []string {
	names := make([]string, len(knownFlags))
	copy(names, knownFlags)
	sort.Strings(names)
	return names
}
