package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptyRoots indicates no reference roots were configured
	ErrEmptyRoots = errors.New("empty reference roots")

	// ErrInvalidRoot indicates a blank or duplicated root name
	ErrInvalidRoot = errors.New("invalid reference root")

	// ErrInvalidPrincipal indicates an incomplete principal rule
	ErrInvalidPrincipal = errors.New("invalid principal rule")

	// ErrInvalidPattern indicates a glob that does not compile
	ErrInvalidPattern = errors.New("invalid path pattern")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")

	// ErrInvalidDebounce indicates a negative watch debounce
	ErrInvalidDebounce = errors.New("invalid watch debounce")

	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateReferences(&cfg.References); err != nil {
		errs = append(errs, err)
	}

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if cfg.Cache.MaxEntries <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_entries must be positive, got %d", ErrInvalidCacheSettings, cfg.Cache.MaxEntries))
	}
	if cfg.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("%w: ttl cannot be negative, got %s", ErrInvalidCacheSettings, cfg.Cache.TTL))
	}

	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("%w: cannot be negative, got %s", ErrInvalidDebounce, cfg.Watch.Debounce))
	}

	if cfg.Output.Format != FormatText && cfg.Output.Format != FormatJSON {
		errs = append(errs, fmt.Errorf("%w: must be 'text' or 'json', got '%s'", ErrInvalidFormat, cfg.Output.Format))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateReferences(cfg *ReferencesConfig) error {
	var errs []error

	if len(cfg.Roots) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one root required", ErrEmptyRoots))
	}

	seen := make(map[string]bool, len(cfg.Roots))
	for _, root := range cfg.Roots {
		switch {
		case strings.TrimSpace(root) == "":
			errs = append(errs, fmt.Errorf("%w: root names cannot be blank", ErrInvalidRoot))
		case seen[root]:
			errs = append(errs, fmt.Errorf("%w: duplicate root '%s'", ErrInvalidRoot, root))
		}
		seen[root] = true
	}

	p := cfg.Principal
	if p.Enabled && (p.Root == "" || p.Identifier == "" || p.Actor == "") {
		errs = append(errs, fmt.Errorf("%w: root, identifier and actor are required when enabled", ErrInvalidPrincipal))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error

	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: '%s': %v", ErrInvalidPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// Every sentinel stays reachable through errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return &validationError{errs: errs}
}

type validationError struct {
	errs []error
}

func (e *validationError) Error() string {
	msgs := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *validationError) Unwrap() []error {
	return e.errs
}
