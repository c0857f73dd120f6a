package loader

import (
	"testing"
)

func envLoader(vars ...string) *EnvLoader {
	l := NewEnvLoader(EnvPrefix)
	l.environ = func() []string { return vars }
	return l
}

func TestEnvLoader_Convention(t *testing.T) {
	config, err := envLoader(
		"LINESTORE_STORE_LINES_PER_BLOCK=256",
		"LINESTORE_STORE_FILTER_CONTROL=true",
		"LINESTORE_STORE_STRATEGY=append",
		"OTHER_STORE_HEADER_SIZE=9",
		"PATH=/usr/bin",
	).Load()
	if err != nil {
		t.Fatal(err)
	}

	store, ok := config["store"].(map[string]any)
	if !ok {
		t.Fatalf("store section missing: %v", config)
	}
	if store["lines_per_block"] != int64(256) {
		t.Errorf("lines_per_block = %v (%T)", store["lines_per_block"], store["lines_per_block"])
	}
	if store["filter_control"] != true {
		t.Errorf("filter_control = %v", store["filter_control"])
	}
	if store["strategy"] != "append" {
		t.Errorf("strategy = %v", store["strategy"])
	}
	if _, ok := store["header_size"]; ok {
		t.Error("variables without the prefix should be ignored")
	}
	if len(config) != 1 {
		t.Errorf("unexpected sections: %v", config)
	}
}

func TestEnvLoader_Mapping(t *testing.T) {
	config, err := envLoader(
		"LINESTORE_LOG_LEVEL=debug",
		"LINESTORE_LOG_FILE=/tmp/linestore.log",
		"LINESTORE_READ_ONLY=yes",
	).Load()
	if err != nil {
		t.Fatal(err)
	}

	logging := config["logging"].(map[string]any)
	if logging["level"] != "debug" || logging["file"] != "/tmp/linestore.log" {
		t.Errorf("logging = %v", logging)
	}
	if config["store"].(map[string]any)["read_only"] != true {
		t.Errorf("store = %v", config["store"])
	}
	if _, ok := config["log"]; ok {
		t.Error("mapped variables should not also map by convention")
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	l := envLoader("LINESTORE_LPB=64")
	l.AddMapping("LINESTORE_LPB", "store.lines_per_block")
	config, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if config["store"].(map[string]any)["lines_per_block"] != int64(64) {
		t.Errorf("config = %v", config)
	}
}

func TestEnvLoader_SkipsBareNames(t *testing.T) {
	config, err := envLoader("LINESTORE_=x", "LINESTORE_STORE=x", "LINESTORE_STORE_=x").Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(config) != 0 {
		t.Errorf("expected nothing, got %v", config)
	}
}

func TestEnvLoader_RealEnvironment(t *testing.T) {
	t.Setenv("LINESTORE_STORE_HEADER_SIZE", "32")
	config, err := NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		t.Fatal(err)
	}
	if config["store"].(map[string]any)["header_size"] != int64(32) {
		t.Errorf("config = %v", config)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"YES", true},
		{"off", false},
		{"42", int64(42)},
		{"-3", int64(-3)},
		{"1.5", 1.5},
		{"balanced", "balanced"},
		{"1.2.3", "1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseValue(tt.in); got != tt.want {
				t.Errorf("parseValue(%q) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestSetByPath(t *testing.T) {
	m := map[string]any{"store": "flat"}
	setByPath(m, "store.lines_per_block", 8)
	setByPath(m, "top", 1)
	if m["store"].(map[string]any)["lines_per_block"] != 8 || m["top"] != 1 {
		t.Errorf("map = %v", m)
	}
}
