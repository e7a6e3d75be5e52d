package stateful

import "slices"

// Entity names used in errors, metrics and fixture documents.
const (
	EntityCastle = "castle"
	EntityRuler  = "ruler"
)

// DefaultCastleDescription is stored when a castle is created without a description.
const DefaultCastleDescription = "No description available."

// Castle is a single castle record.
type Castle struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Region      string `json:"region" yaml:"region"`
	YearBuilt   int    `json:"yearBuilt" yaml:"yearBuilt"`
	Description string `json:"description" yaml:"description"`
}

// CastleInput carries the fields accepted when creating a castle.
type CastleInput struct {
	Name        string  `json:"name" validate:"required,notblank"`
	Region      string  `json:"region" validate:"required,notblank"`
	YearBuilt   *int    `json:"yearBuilt" validate:"required,gte=1000,lte=2100"`
	Description *string `json:"description,omitempty"`
}

// Ruler is a single ruler record. ReignEnd is nil while the ruler still reigns.
type Ruler struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Title        string   `json:"title" yaml:"title"`
	ReignStart   int      `json:"reignStart" yaml:"reignStart"`
	ReignEnd     *int     `json:"reignEnd" yaml:"reignEnd"`
	House        string   `json:"house" yaml:"house"`
	CastleIDs    []string `json:"castleIds" yaml:"castleIds"`
	Description  string   `json:"description" yaml:"description"`
	Achievements []string `json:"achievements" yaml:"achievements"`
}

// RulerInput carries the fields accepted when creating a ruler.
type RulerInput struct {
	Name         string   `json:"name" validate:"required,notblank"`
	Title        string   `json:"title" validate:"required,notblank"`
	ReignStart   *int     `json:"reignStart" validate:"required"`
	ReignEnd     *int     `json:"reignEnd,omitempty"`
	House        string   `json:"house" validate:"required,notblank"`
	CastleIDs    []string `json:"castleIds,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// RulerPatch lists the fields an update may change. A nil field is left as is.
// Castle associations are absent: they only change through
// RulerStore.AddCastle and RulerStore.RemoveCastle.
type RulerPatch struct {
	Name         *string   `json:"name,omitempty"`
	Title        *string   `json:"title,omitempty"`
	ReignStart   *int      `json:"reignStart,omitempty"`
	ReignEnd     *int      `json:"reignEnd,omitempty"`
	House        *string   `json:"house,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Achievements *[]string `json:"achievements,omitempty"`
}

// Clone returns a copy that shares no memory with c.
func (c Castle) Clone() Castle {
	return c
}

// Clone returns a copy that shares no memory with r.
func (r Ruler) Clone() Ruler {
	out := r
	if r.ReignEnd != nil {
		end := *r.ReignEnd
		out.ReignEnd = &end
	}
	out.CastleIDs = cloneStrings(r.CastleIDs)
	out.Achievements = cloneStrings(r.Achievements)
	return out
}

// EffectiveReignEnd returns ReignEnd, or currentYear for an open reign.
func (r Ruler) EffectiveReignEnd(currentYear int) int {
	if r.ReignEnd == nil {
		return currentYear
	}
	return *r.ReignEnd
}

// ReignsDuring reports whether [ReignStart, effective end] overlaps
// [startYear, endYear], bounds inclusive.
func (r Ruler) ReignsDuring(startYear, endYear, currentYear int) bool {
	return r.ReignStart <= endYear && r.EffectiveReignEnd(currentYear) >= startYear
}

// HasCastle reports whether castleID is associated with r.
func (r Ruler) HasCastle(castleID string) bool {
	return slices.Contains(r.CastleIDs, castleID)
}

// cloneStrings copies s, normalising nil to an empty slice so records always
// serialise lists as [] rather than null.
func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// uniqueStrings returns s without repeated entries, keeping first occurrences.
func uniqueStrings(s []string) []string {
	out := make([]string, 0, len(s))
	seen := make(map[string]struct{}, len(s))
	for _, v := range s {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
