package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/world"
)

// Rule-file load error codes.
const (
	ErrCodeNotFound    = "E001" // rules path not found
	ErrCodeNoFiles     = "E002" // no CUE files in directory
	ErrCodeLoadFailed  = "E003" // CUE load failed
	ErrCodeBuildFailed = "E004" // CUE build failed
	ErrCodeDecode      = "E005" // rules document shape mismatch
	ErrCodeBadDuration = "E006" // interval not parseable
	ErrCodeInvalid     = "E007" // rule tables failed validation
)

// LoadError is an error raised while loading rule files.
type LoadError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// rulesDoc is the CUE-facing shape of the rule tables. Loaded under the
// top-level "sentinel" field so rule files can carry unrelated definitions.
type rulesDoc struct {
	Enabled            *bool               `json:"enabled"`
	AutoFixEnabled     bool                `json:"auto_fix_enabled"`
	Intervals          map[string]string   `json:"intervals"`
	RequiredFields     map[string][]string `json:"required_fields"`
	ValidStatuses      map[string][]string `json:"valid_statuses"`
	ValidRelationTypes []string            `json:"valid_relation_types"`
	RelationInverses   map[string]string   `json:"relation_inverses"`
	StartLocation      string              `json:"start_location"`
	Contradictions     []ContradictionRule `json:"contradictions"`
}

// LoadDir loads rule tables from every .cue file in dir.
//
// Files are unified by the CUE loader, so tables may be split across files.
// The merged document must carry a top-level "sentinel" struct. The result
// is validated before return; a config that fails Validate is never handed
// to the caller.
func LoadDir(dir string) (Config, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("rules directory not found: %s", dir)}
	}
	if err != nil {
		return Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing rules directory: %v", err)}
	}
	if !info.IsDir() {
		return Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return Config{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return Config{}, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return Config{}, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return Config{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return Config{}, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	return fromCUEValue(value)
}

// LoadBytes loads rule tables from a single in-memory CUE document.
// Used by tests and the conformance harness.
func LoadBytes(data []byte) (Config, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data)
	if err := value.Err(); err != nil {
		return Config{}, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("compiling CUE: %v", err)}
	}
	return fromCUEValue(value)
}

func fromCUEValue(value cue.Value) (Config, error) {
	rules := value.LookupPath(cue.ParsePath("sentinel"))
	if !rules.Exists() {
		return Config{}, &LoadError{Code: ErrCodeDecode, Message: `rules document has no top-level "sentinel" field`}
	}

	var doc rulesDoc
	if err := rules.Decode(&doc); err != nil {
		return Config{}, &LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("decoding rules: %v", err)}
	}

	cfg, err := doc.toConfig()
	if err != nil {
		return Config{}, err
	}
	if verrs := cfg.Validate(); len(verrs) > 0 {
		return Config{}, &LoadError{Code: ErrCodeInvalid, Message: verrs[0].Error()}
	}
	return cfg, nil
}

func (d rulesDoc) toConfig() (Config, error) {
	cfg := Config{
		Enabled:        true,
		AutoFixEnabled: d.AutoFixEnabled,
		StartLocation:  world.LocationID(d.StartLocation),
		Contradictions: d.Contradictions,
	}
	if d.Enabled != nil {
		cfg.Enabled = *d.Enabled
	}

	if len(d.Intervals) > 0 {
		cfg.Intervals = make(map[issue.Category]time.Duration, len(d.Intervals))
		for cat, raw := range d.Intervals {
			dur, err := time.ParseDuration(raw)
			if err != nil {
				return Config{}, &LoadError{
					Code:    ErrCodeBadDuration,
					Message: fmt.Sprintf("intervals.%s: %v", cat, err),
				}
			}
			cfg.Intervals[issue.Category(cat)] = dur
		}
	}

	if len(d.RequiredFields) > 0 {
		cfg.RequiredFields = make(map[world.EntityKind][]string, len(d.RequiredFields))
		for kind, fields := range d.RequiredFields {
			cfg.RequiredFields[world.EntityKind(kind)] = fields
		}
	}

	if len(d.ValidStatuses) > 0 {
		cfg.ValidStatuses = make(map[world.EntityKind]map[string]bool, len(d.ValidStatuses))
		for kind, statuses := range d.ValidStatuses {
			set := make(map[string]bool, len(statuses))
			for _, s := range statuses {
				set[s] = true
			}
			cfg.ValidStatuses[world.EntityKind(kind)] = set
		}
	}

	if len(d.ValidRelationTypes) > 0 {
		cfg.ValidRelationTypes = make(map[world.RelationType]bool, len(d.ValidRelationTypes))
		for _, t := range d.ValidRelationTypes {
			cfg.ValidRelationTypes[world.RelationType(t)] = true
		}
	}

	if len(d.RelationInverses) > 0 {
		cfg.RelationInverses = make(map[world.RelationType]world.RelationType, len(d.RelationInverses))
		for t, inv := range d.RelationInverses {
			cfg.RelationInverses[world.RelationType(t)] = world.RelationType(inv)
		}
	}

	return cfg, nil
}

// findCUEFiles walks the directory and returns all .cue file paths.
func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
