package loader

import (
	"sort"
	"strconv"
	"strings"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	mapping map[string]string // Env var -> config path
}

// NewEnvLoader creates a loader using the default mappings for prefix.
// The prefix should include the trailing underscore (e.g., "TEXTCORE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{mapping: defaultEnvMapping(prefix)}
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(mapping map[string]string) *EnvLoader {
	return &EnvLoader{mapping: mapping}
}

func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "TAB_SIZE":               "editor.tab_size",
		prefix + "MAX_LINE_LENGTH":        "editor.max_line_length",
		prefix + "MAX_LINES":              "editor.max_lines",
		prefix + "EAST_ASIAN_WIDTH":       "editor.east_asian_width",
		prefix + "LINE_ENDING":            "editor.line_ending",
		prefix + "NORMALIZE_LINE_ENDINGS": "editor.normalize_line_endings",
		prefix + "STRIP_BOM":              "editor.strip_bom",
		prefix + "HISTORY":                "history.enabled",
		prefix + "HISTORY_CAPACITY":       "history.capacity",
		prefix + "LOG_LEVEL":              "logging.level",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// RemoveMapping removes an environment variable mapping.
func (l *EnvLoader) RemoveMapping(envVar string) {
	delete(l.mapping, envVar)
}

// Variables returns the mapped environment variable names, sorted.
func (l *EnvLoader) Variables() []string {
	names := make([]string, 0, len(l.mapping))
	for name := range l.mapping {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads the mapped variables through lookup and returns them as a
// nested map keyed by path segment. Empty values count as set.
func (l *EnvLoader) Load(lookup LookupFunc) map[string]any {
	config := make(map[string]any)
	for env, path := range l.mapping {
		if val, ok := lookup(env); ok {
			setByPath(config, path, parseValue(val))
		}
	}
	return config
}

// parseValue attempts to parse the string value into an appropriate type.
// Digits stay integers so that "1" is a size, not a flag.
func parseValue(s string) any {
	if s == "" {
		return s
	}
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
